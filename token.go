package linecalc

import (
	"strconv"
)

type tokenKind int8

const (
	// tokenEnd ends a line, either at a newline or at the end of the input.
	tokenEnd tokenKind = iota
	// tokenNum is a numeric literal. Its value is in the token's val.
	tokenNum
	tokenAdd
	tokenSub
	tokenMul
	tokenDiv
	tokenLParen
	tokenRParen
)

var kindstrs = [...]string{
	tokenEnd:    "end",
	tokenNum:    "num",
	tokenAdd:    "+",
	tokenSub:    "-",
	tokenMul:    "*",
	tokenDiv:    "/",
	tokenLParen: "(",
	tokenRParen: ")",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(kindstrs) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindstrs[k]
}

// token is a single lexical unit. Tokens are values; the parser holds exactly
// one at a time and overwrites it on each fetch.
type token struct {
	kind tokenKind
	// val is the value of a tokenNum. It is zero for all other kinds.
	val float64
	// col is the number of runes on the line before the token's first rune.
	col int
}

// String renders the token as it would appear in a diagnostic.
func (t token) String() string {
	switch t.kind {
	case tokenNum:
		return strconv.FormatFloat(t.val, 'g', -1, 64)
	case tokenEnd, tokenAdd, tokenSub, tokenMul, tokenDiv, tokenLParen, tokenRParen:
		return t.kind.String()
	default:
		panic("linecalc: invalid token kind " + t.kind.String())
	}
}

// startsFactor reports whether the token can begin a factor.
func (t token) startsFactor() bool {
	return t.kind == tokenNum || t.kind == tokenLParen
}
