package linecalc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Calc evaluates a stream of expressions one line at a time. It is not safe to
// use a Calc concurrently.
type Calc struct {
	scan *lexer
	p    parser
	out  io.Writer
	// verb is the result format, including the trailing newline.
	verb  string
	log   zerolog.Logger
	stats Stats
}

// Stats counts what a Calc has done.
type Stats struct {
	// Lines is the number of lines evaluated, including empty ones.
	Lines int
	// Results is the number of values printed.
	Results int
	// LexErrors and SyntaxErrors are the numbers of lines rejected for each
	// kind of error.
	LexErrors    int
	SyntaxErrors int
}

// New creates a Calc that reads expressions from src and writes results and
// diagnostics to out. If src is not an io.RuneScanner, it is buffered.
func New(src io.Reader, out io.Writer, opts ...Option) *Calc {
	s := defaults()
	for _, opt := range opts {
		s = opt.option(s)
	}
	rs, ok := src.(io.RuneScanner)
	if !ok {
		rs = bufio.NewReader(src)
	}
	c := &Calc{
		scan: lex(rs, s.log, s.trace),
		out:  out,
		verb: s.verb + "\n",
		log:  s.log,
	}
	c.p.scan = c.scan
	return c
}

// EvalLine evaluates the next line of input. If the line holds an expression,
// its value is written to the output; an empty line writes nothing. If the
// line is malformed, EvalLine writes a caret under the offending column
// followed by the error, then skips the rest of the line. The returned error
// is non-nil only if reading the input or writing the output fails.
func (c *Calc) EvalLine() error {
	v, ok, err := c.line()
	var lerr *LexError
	var serr *SyntaxError
	switch {
	case errors.As(err, &lerr):
		c.stats.LexErrors++
		err = c.diagnose(lerr)
	case errors.As(err, &serr):
		c.stats.SyntaxErrors++
		err = c.diagnose(serr)
		if err == nil {
			err = c.scan.discardLine()
		}
	case err != nil:
		// I/O failure.
	case ok:
		c.stats.Results++
		if _, err = fmt.Fprintf(c.out, c.verb, v); err != nil {
			err = fmt.Errorf("linecalc: writing result: %w", err)
		}
	}
	if c.scan.eol || c.scan.col > 0 {
		c.stats.Lines++
	}
	c.p.reset()
	return err
}

// line parses and evaluates one line. The boolean result is false if the line
// is empty.
func (c *Calc) line() (float64, bool, error) {
	c.p.reset()
	c.scan.newLine()
	if err := c.p.advance(); err != nil {
		return 0, false, err
	}
	if err := c.p.expr(); err != nil {
		return 0, false, err
	}
	if c.p.tok.kind == tokenRParen {
		return 0, false, c.p.error("unmatched ')'")
	}
	switch len(c.p.stack) {
	case 0:
		return 0, false, nil
	case 1:
		return c.p.stack[0], true, nil
	default:
		panic("linecalc: inconsistent stack: " + strconv.Itoa(len(c.p.stack)) + " values after a complete line")
	}
}

// diagnose writes the caret line and message for an input error.
func (c *Calc) diagnose(err InputError) error {
	c.log.Debug().Err(err).Int("col", err.Pos()).Msg("rejected line")
	_, werr := io.WriteString(c.out, strings.Repeat(" ", err.Pos())+"^\n"+err.Error()+"\n")
	if werr != nil {
		return fmt.Errorf("linecalc: writing diagnostic: %w", werr)
	}
	return nil
}

// Run evaluates lines until the input is exhausted. The result is nil at the
// end of the input, or the first error reading input or writing output.
func (c *Calc) Run() error {
	for !c.scan.eof {
		if err := c.EvalLine(); err != nil {
			c.log.Error().Err(err).Int("line", c.stats.Lines).Msg("evaluation stopped")
			return err
		}
	}
	c.log.Info().
		Int("lines", c.stats.Lines).
		Int("results", c.stats.Results).
		Int("lex_errors", c.stats.LexErrors).
		Int("syntax_errors", c.stats.SyntaxErrors).
		Msg("end of input")
	return nil
}

// Stats returns counts of the lines the Calc has evaluated so far.
func (c *Calc) Stats() Stats {
	return c.stats
}

// EvalString evaluates the first line of src and returns its value. If the
// line is empty, the error is ErrEmpty. If the line is malformed, the error is
// a *LexError or *SyntaxError.
func EvalString(src string, opts ...Option) (float64, error) {
	c := New(strings.NewReader(src), io.Discard, opts...)
	v, ok, err := c.line()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrEmpty
	}
	return v, nil
}
