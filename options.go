package linecalc

import "github.com/rs/zerolog"

// Option is an option for creating a Calc.
type Option interface {
	option(settings) settings
}

type (
	formatopt string
	loggeropt zerolog.Logger
	traceopt  bool
)

// settings holds the options a Calc is created with.
type settings struct {
	// verb is the fmt verb used to print results, without a newline.
	verb string
	log  zerolog.Logger
	// trace enables logging of every token at debug level.
	trace bool
}

func defaults() settings {
	return settings{
		verb: DefaultFormat,
		log:  zerolog.Nop(),
	}
}

// DefaultFormat is the fmt verb used to print results if no Format option is
// given.
const DefaultFormat = "%g"

// Format sets the fmt verb used to print results. The verb receives a single
// float64; a newline is appended. An empty verb selects DefaultFormat.
func Format(verb string) Option {
	return formatopt(verb)
}

func (o formatopt) option(s settings) settings {
	s.verb = string(o)
	if s.verb == "" {
		s.verb = DefaultFormat
	}
	return s
}

// Logger sets the logger a Calc reports to. The default discards all logs.
func Logger(log zerolog.Logger) Option {
	return loggeropt(log)
}

func (o loggeropt) option(s settings) settings {
	s.log = zerolog.Logger(o)
	return s
}

// Trace enables logging each token the lexer produces at debug level.
func Trace(on bool) Option {
	return traceopt(on)
}

func (o traceopt) option(s settings) settings {
	s.trace = bool(o)
	return s
}
