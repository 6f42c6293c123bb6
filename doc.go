// Package linecalc implements a line-oriented floating-point calculator.
//
// Each line of input is one expression over numbers, "+ - * /", and
// parentheses. Numbers may be written as integers, decimals, or in scientific
// notation: "2", "2.5", ".5", "2.5e-3". A leading sign is read as if the line
// began with a zero, so "-5 + 2" is "0 - 5 + 2".
//
// Lines are evaluated as they are parsed; no syntax tree is built. A line that
// fails to lex or parse produces a diagnostic with a caret under the offending
// column, and evaluation continues with the next line.
//
package linecalc
