package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/linecalc/internal/config"
)

// execute runs the command with the given stdin and arguments and returns
// what it wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	var out, errs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errs.String(), err
}

func TestStdin(t *testing.T) {
	out, _, err := execute(t, "1 + 1\n2 * (3 + 4)\n")
	require.NoError(t, err)
	assert.Equal(t, "2\n14\n", out)
}

func TestArgs(t *testing.T) {
	out, _, err := execute(t, "this is ignored\n", "2+3*4", "(1", "1.5e2")
	require.NoError(t, err)
	assert.Equal(t, "14\n  ^\nsyntax error: missing ')'\n150\n", out)
}

func TestInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	// No trailing newline; the argument must still be its own line.
	require.NoError(t, os.WriteFile(path, []byte("10 / 4\n3 4"), 0o644))
	out, _, err := execute(t, "", "--in", path, "7")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n  ^\nsyntax error: missing operator\n7\n", out)
}

func TestInStdinWithArgs(t *testing.T) {
	out, _, err := execute(t, "5\n", "--in", "-", "6")
	require.NoError(t, err)
	assert.Equal(t, "5\n6\n", out)
}

func TestInMissing(t *testing.T) {
	_, _, err := execute(t, "", "--in", filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFlag(t *testing.T) {
	out, _, err := execute(t, "", "--format", "%.2f", "2/3")
	require.NoError(t, err)
	assert.Equal(t, "0.67\n", out)

	_, _, err = execute(t, "", "--format", "%d", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linecalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: \"%.1f\"\n"), 0o644))

	out, _, err := execute(t, "", "--config", path, "3/8")
	require.NoError(t, err)
	assert.Equal(t, "0.4\n", out)

	// Flags win over the file.
	out, _, err = execute(t, "", "--config", path, "--format", "%g", "3/8")
	require.NoError(t, err)
	assert.Equal(t, "0.375\n", out)
}

func TestConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linecalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: \"%e\"\n"), 0o644))
	t.Setenv(config.EnvPath, path)
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"1000"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1.000000e+03\n", out.String())
}

func TestTraceLogs(t *testing.T) {
	out, logs, err := execute(t, "", "--trace", "1+2")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Contains(t, logs, "token")
	assert.Contains(t, logs, "end of input")
}

func TestQuietByDefault(t *testing.T) {
	_, logs, err := execute(t, "", "1+2")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "1")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "linecalc version dev"), out)
}
