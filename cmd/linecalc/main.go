// Command linecalc evaluates arithmetic expressions, one per line.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/linecalc"
	"github.com/zephyrtronium/linecalc/internal/config"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linecalc [flags] [expr ...]",
		Short: "Evaluate arithmetic expressions line by line",
		Long: `linecalc reads one arithmetic expression per line and prints its value.
Expressions use numbers, + - * /, and parentheses. Malformed lines print a
caret under the offending column and are skipped.

With no arguments, expressions are read from standard input. Each argument is
evaluated as a separate line after any --in file.`,
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Version = version + " (commit=" + commit + ")"
	cmd.SetVersionTemplate("linecalc version {{.Version}}\n")

	cmd.Flags().String("in", "", "input file, or - for stdin (default stdin if no args given)")
	cmd.Flags().String("format", "", `result format verb (default "%g", config "format")`)
	cmd.Flags().String("config", "", "YAML configuration file (env "+config.EnvPath+")")
	cmd.Flags().String("log-level", "", `stderr log level (default "warn", config "log_level")`)
	cmd.Flags().Bool("trace", false, "log every token at debug level")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if cfg.Trace && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger().
		Level(level)

	inname, _ := cmd.Flags().GetString("in")
	in, closer, err := input(cmd, inname, len(args) == 0)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var srcs []io.Reader
	if in != nil {
		srcs = append(srcs, in)
	}
	for _, arg := range args {
		// Each argument is a line of its own.
		srcs = append(srcs, strings.NewReader(arg+"\n"))
	}
	logger.Debug().Str("version", version).Int("sources", len(srcs)).Msg("starting")

	opts := []linecalc.Option{
		linecalc.Format(cfg.Format),
		linecalc.Logger(logger),
		linecalc.Trace(cfg.Trace),
	}
	for _, src := range srcs {
		if err := linecalc.New(src, cmd.OutOrStdout(), opts...).Run(); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Format = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetBool("trace"); v {
		cfg.Trace = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// input opens the expression source. The result is nil if there is no file
// input, i.e. no --in and arguments were given. The closer is non-nil if the
// caller must close a file.
func input(cmd *cobra.Command, inname string, std bool) (io.Reader, io.Closer, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, nil, err
		}
		return bufio.NewReader(f), f, nil
	case inname == "-", std:
		return cmd.InOrStdin(), nil, nil
	}
	return nil, nil, nil
}
