package linecalc

import "strconv"

// expr      = [ item ] exprtail
// exprtail  = ('+' | '-') item exprtail | ε
// item      = factor itemtail
// itemtail  = ('*' | '/') factor itemtail | ε
// factor    = '(' expr ')' | num
//
// Each production folds its operands on the stack as soon as it completes
// instead of building a tree, so multiplicative chains collapse before any
// additive operator applies.

// parser is a recursive descent parser that evaluates as it parses.
type parser struct {
	scan *lexer
	// tok is the current token.
	tok token
	// stack holds operands awaiting an operator.
	stack []float64
}

// advance replaces the current token with the next one from the lexer.
func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// reset empties the stack.
func (p *parser) reset() {
	p.stack = p.stack[:0]
}

func (p *parser) push(v float64) {
	p.stack = append(p.stack, v)
}

// fold pops the right operand and combines it into the new top of the stack.
func (p *parser) fold(op tokenKind) {
	if len(p.stack) < 2 {
		panic("linecalc: fold " + op.String() + " with " + strconv.Itoa(len(p.stack)) + " operands")
	}
	r := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	l := &p.stack[len(p.stack)-1]
	switch op {
	case tokenAdd:
		*l += r
	case tokenSub:
		*l -= r
	case tokenMul:
		*l *= r
	case tokenDiv:
		*l /= r
	default:
		panic("linecalc: fold with non-operator " + op.String())
	}
}

// error creates a syntax error at the current token.
func (p *parser) error(detail string) error {
	return &SyntaxError{Col: p.tok.col, Detail: detail}
}

// expr parses an expression. If the expression is empty, nothing is pushed.
func (p *parser) expr() error {
	ok, err := p.item()
	if err != nil {
		return err
	}
	if !ok {
		switch p.tok.kind {
		case tokenAdd, tokenSub:
			// Leading sign. -x is 0 - x.
			p.push(0)
		case tokenEnd:
			return nil
		default:
			return p.error("missing expr")
		}
	}
	return p.exprtail()
}

func (p *parser) exprtail() error {
	for p.tok.kind == tokenAdd || p.tok.kind == tokenSub {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.kind == tokenEnd {
			return p.error("missing operand")
		}
		ok, err := p.item()
		if err != nil {
			return err
		}
		if !ok {
			return p.error("redundant operator '" + p.tok.String() + "'")
		}
		p.fold(op)
	}
	switch p.tok.kind {
	case tokenRParen, tokenEnd:
		return nil
	default:
		return p.error("missing operator")
	}
}

// item parses a term. If the current token cannot start a factor, the result
// is false and nothing is consumed.
func (p *parser) item() (bool, error) {
	ok, err := p.factor()
	if err != nil || !ok {
		return false, err
	}
	return true, p.itemtail()
}

func (p *parser) itemtail() error {
	for p.tok.kind == tokenMul || p.tok.kind == tokenDiv {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.kind == tokenEnd {
			return p.error("missing operand")
		}
		ok, err := p.factor()
		if err != nil {
			return err
		}
		if !ok {
			return p.error("redundant operator '" + p.tok.String() + "'")
		}
		p.fold(op)
	}
	switch p.tok.kind {
	case tokenAdd, tokenSub, tokenRParen, tokenEnd:
		return nil
	default:
		return p.error("missing operator")
	}
}

// factor parses a number or a parenthesized expression. If the current token
// cannot start a factor, the result is false and nothing is consumed.
func (p *parser) factor() (bool, error) {
	if !p.tok.startsFactor() {
		return false, nil
	}
	if p.tok.kind == tokenNum {
		p.push(p.tok.val)
		return true, p.advance()
	}
	if err := p.advance(); err != nil {
		return false, err
	}
	if p.tok.kind == tokenEnd {
		return false, p.error("missing ')'")
	}
	if err := p.expr(); err != nil {
		return false, err
	}
	// exprtail only stops on ) or end.
	if p.tok.kind != tokenRParen {
		return false, p.error("missing ')'")
	}
	return true, p.advance()
}
