package linecalc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/zephyrtronium/bigfloat"
)

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes consumed on the current line.
	col int
	// eol is set once the current line's newline has been consumed. The lexer
	// produces only end tokens until the driver starts a new line.
	eol bool
	// eof is set once the source is exhausted.
	eof bool

	log   zerolog.Logger
	trace bool
}

func lex(src io.RuneScanner, log zerolog.Logger, trace bool) *lexer {
	return &lexer{
		src:   src,
		log:   log,
		trace: trace,
	}
}

// newLine prepares the lexer to scan the next line of input.
func (l *lexer) newLine() {
	l.col = 0
	l.eol = false
}

// readRune reads a rune from the src and updates the column.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the column. Panics if
// unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// peek returns the next rune without consuming it. At the end of the input,
// the result is -1 with a nil error.
func (l *lexer) peek() (rune, error) {
	r, _, err := l.src.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return -1, nil
		}
		return -1, readerr(err)
	}
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	return r, nil
}

// next scans the next token from the input. Once the line has ended, every
// call returns an end token until newLine is called.
func (l *lexer) next() (token, error) {
	tok, err := l.scan()
	if err != nil {
		return tok, err
	}
	if l.trace {
		l.log.Debug().Stringer("token", tok).Int("col", tok.col).Msg("token")
	}
	return tok, nil
}

func (l *lexer) scan() (token, error) {
	if l.eol || l.eof {
		return token{kind: tokenEnd, col: l.col}, nil
	}
	for {
		col := l.col
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return token{kind: tokenEnd, col: col}, nil
			}
			return token{}, readerr(err)
		}
		switch r {
		case '\n':
			l.eol = true
			return token{kind: tokenEnd, col: col}, nil
		case '+':
			return token{kind: tokenAdd, col: col}, nil
		case '-':
			return token{kind: tokenSub, col: col}, nil
		case '*':
			return token{kind: tokenMul, col: col}, nil
		case '/':
			return token{kind: tokenDiv, col: col}, nil
		case '(':
			return token{kind: tokenLParen, col: col}, nil
		case ')':
			return token{kind: tokenRParen, col: col}, nil
		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			l.unreadRune()
			v, err := l.scanNum()
			if err != nil {
				return token{}, err
			}
			return token{kind: tokenNum, val: v, col: col}, nil
		}
		if unicode.IsSpace(r) {
			continue
		}
		return token{}, l.error(col, "invalid token "+strconv.QuoteRune(r)+" (code "+strconv.Itoa(int(r))+")")
	}
}

// scanNum scans a numeric literal. The caller has unread its first rune, which
// is a digit or a decimal dot.
func (l *lexer) scanNum() (float64, error) {
	defer l.buf.Reset()
	if _, err := l.digits(); err != nil {
		return 0, err
	}
	var frac, exp int
	r, err := l.peek()
	if err != nil {
		return 0, err
	}
	if r == '.' {
		l.readRune()
		if ok, err := l.digitNext(); err != nil {
			return 0, err
		} else if !ok {
			return 0, l.error(l.col, "missing value after decimal dot")
		}
		if frac, err = l.digits(); err != nil {
			return 0, err
		}
		if r, err = l.peek(); err != nil {
			return 0, err
		}
	}
	if r == 'e' || r == 'E' {
		l.readRune()
		neg := false
		switch r, err := l.peek(); {
		case err != nil:
			return 0, err
		case r == '+':
			l.readRune()
		case r == '-':
			l.readRune()
			neg = true
		}
		if ok, err := l.digitNext(); err != nil {
			return 0, err
		} else if !ok {
			return 0, l.error(l.col, "missing value after scientific notation E")
		}
		if exp, err = l.exponent(); err != nil {
			return 0, err
		}
		if neg {
			exp = -exp
		}
	}
	return literal(l.buf.String(), frac, exp), nil
}

// digitNext reports whether the next rune is a decimal digit.
func (l *lexer) digitNext() (bool, error) {
	r, err := l.peek()
	return '0' <= r && r <= '9', err
}

// digits appends a run of decimal digits to the buffer and returns its length.
func (l *lexer) digits() (int, error) {
	n := 0
	for {
		if ok, err := l.digitNext(); err != nil || !ok {
			return n, err
		}
		r, _ := l.readRune()
		l.buf.WriteRune(r)
		n++
	}
}

// maxExponent bounds the magnitude of a literal's exponent. Anything larger
// is out of range for a float64 with any realistic number of digits.
const maxExponent = 1 << 30

// exponent scans a run of decimal digits as an exponent, saturating at
// maxExponent.
func (l *lexer) exponent() (int, error) {
	n := 0
	for {
		if ok, err := l.digitNext(); err != nil || !ok {
			return n, err
		}
		r, _ := l.readRune()
		if n <= maxExponent/10 {
			n = n*10 + int(r-'0')
		}
	}
}

// literalPrec is the precision in bits used to assemble literals before
// rounding them to float64.
const literalPrec = 256

// literal computes the value of a numeric literal from its decimal digits,
// the number of those digits following the decimal dot, and the exponent.
// The result is rounded to float64 exactly once.
func literal(digits string, frac, exp int) float64 {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0
	}
	scale := exp - frac
	// The value lies in [10^(mag-1), 10^mag).
	switch mag := len(digits) + scale; {
	case mag > 310:
		return math.Inf(1)
	case mag < -330:
		return 0
	}
	var mant big.Int
	mant.SetString(digits, 10)
	x := new(big.Float).SetPrec(literalPrec).SetInt(&mant)
	if scale != 0 {
		ten := new(big.Float).SetPrec(literalPrec).SetInt64(10)
		y := new(big.Float).SetPrec(literalPrec).SetInt64(int64(scale))
		p := bigfloat.Pow(new(big.Float).SetPrec(literalPrec), ten, y)
		x.Mul(x, p)
	}
	f, _ := x.Float64()
	return f
}

// discardLine consumes the remainder of the current line, including its
// newline. It does nothing if the line has already ended.
func (l *lexer) discardLine() error {
	for !l.eol && !l.eof {
		r, err := l.readRune()
		switch {
		case errors.Is(err, io.EOF):
			l.eof = true
		case err != nil:
			return readerr(err)
		case r == '\n':
			l.eol = true
		}
	}
	return nil
}

// error creates a lexical error at col and resynchronizes to the next line.
// If resynchronizing fails, the result is the read error instead.
func (l *lexer) error(col int, detail string) error {
	if err := l.discardLine(); err != nil {
		return err
	}
	return &LexError{Col: col, Detail: detail}
}

func readerr(err error) error {
	return fmt.Errorf("linecalc: reading input: %w", err)
}
