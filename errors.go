package linecalc

import "errors"

// LexError indicates input that could not be split into tokens. It implements
// InputError.
type LexError struct {
	// Col is the number of runes on the line before the rune that could not
	// be scanned.
	Col int
	// Detail describes the problem.
	Detail string
}

func (err *LexError) Error() string {
	return "lexical error: " + err.Detail
}

func (err *LexError) Pos() int {
	return err.Col
}

// SyntaxError indicates a sequence of tokens that does not form an
// expression. It implements InputError.
type SyntaxError struct {
	// Col is the number of runes on the line before the token at which the
	// error was detected.
	Col int
	// Detail describes the problem.
	Detail string
}

func (err *SyntaxError) Error() string {
	return "syntax error: " + err.Detail
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the column the error refers to, as the number of runes on
	// the line before it.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
)

// ErrEmpty is returned by EvalString for a line with no expression.
var ErrEmpty = errors.New("linecalc: empty expression")
