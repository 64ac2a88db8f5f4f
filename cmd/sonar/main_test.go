package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in a fresh temporary working directory with
// all flags reset.
func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()

	configPath, verbose, debug, noColor = "", false, false, false
	watchMode, evalExpr, versionJSON = false, "", false
	chdir(t, t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sn", "1 + 2 * 3")
	b := writeFile(t, dir, "b.sn", "let x = 1; x")
	c := writeFile(t, dir, "c.sn", "")

	out, errOut, err := execute(t, context.Background(), "", "parse", a, b, c)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 (* 2 3))\n{ (let x = 1) x }\n(unit)\n", out)
	assert.Empty(t, errOut)
}

func TestParseReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.sn", "-1")
	bad := writeFile(t, dir, "bad.sn", "1 +")

	out, errOut, err := execute(t, context.Background(), "", "parse", good, bad, filepath.Join(dir, "missing.sn"))
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "(- 1)\n", out)
	assert.Contains(t, errOut, bad+":1:4: error: Unexpected end of input while parsing expression\n")
	assert.Contains(t, errOut, "   1 | 1 +\n")
	assert.Contains(t, errOut, "error: failed to read")
}

func TestParseStdinAndEval(t *testing.T) {
	out, _, err := execute(t, context.Background(), "(1)", "parse", "-")
	require.NoError(t, err)
	assert.Equal(t, "(group 1)\n", out)

	out, _, err = execute(t, context.Background(), "", "parse", "-e", "a = b = 2")
	require.NoError(t, err)
	assert.Equal(t, "(assign a = (assign b = 2))\n", out)

	_, errOut, err := execute(t, context.Background(), "", "parse", "--eval", "1 1")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "<eval>:1:3: error: Unexpected expression after final expression")
}

func TestParseArgumentErrors(t *testing.T) {
	_, _, err := execute(t, context.Background(), "", "parse")
	assert.ErrorContains(t, err, "no input files")

	_, _, err = execute(t, context.Background(), "", "parse", "--watch", "a.sn", "b.sn")
	assert.ErrorContains(t, err, "--watch needs exactly one file path")

	_, _, err = execute(t, context.Background(), "", "parse", "-e", "1", "a.sn")
	assert.ErrorContains(t, err, "--eval cannot be combined")
}

func TestParseWatchStopsWithContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "w.sn", "if a { 1 } else { 2 }")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, err := execute(t, ctx, "", "parse", "--watch", path)
	require.NoError(t, err)
	assert.Equal(t, "(if a { 1 } else { 2 })\n", out)
}

func TestRootWithFilesParses(t *testing.T) {
	path := writeFile(t, t.TempDir(), "f.sn", "true && false")

	out, _, err := execute(t, context.Background(), "", path)
	require.NoError(t, err)
	assert.Equal(t, "(&& true false)\n", out)
}

func TestRootWithoutArgsStartsREPL(t *testing.T) {
	out, errOut, err := execute(t, context.Background(), "1 + 2\n(\n3)\n")
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)\n(group 3)\n", out)
	assert.Empty(t, errOut)
}

func TestREPLUsesConfigHistory(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history")
	configFile := writeFile(t, t.TempDir(), "sonar.toml", "history_file = \""+filepath.ToSlash(historyPath)+"\"\nmax_history = 2\n")

	_, _, err := execute(t, context.Background(), "1\n2\n3\n", "repl", "--config", configFile)
	require.NoError(t, err)

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Equal(t, "\"2\"\n\"3\"\n", string(data))
}

func TestConfigMinVersion(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "sonar.yaml", "min_version: \">= 99.0.0\"\n")

	_, _, err := execute(t, context.Background(), "", "version", "--config", configFile)
	assert.ErrorContains(t, err, "does not satisfy min_version")
}

func TestTokens(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.sn", "x = 1\n  + y")

	out, _, err := execute(t, context.Background(), "", "tokens", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], `"x"`)
	assert.True(t, strings.HasSuffix(lines[0], "@0..1 1:1"), lines[0])
	assert.True(t, strings.HasSuffix(lines[3], "@8..9 2:3"), lines[3])
	assert.True(t, strings.HasSuffix(lines[5], "@11..11 2:6"), lines[5])

	_, errOut, err := execute(t, context.Background(), "\"open", "tokens", "-")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "<stdin>:1:1: error: Unterminated string literal")
}

func TestRunVersion(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sonar v")
	assert.Contains(t, out, "Go Version:")

	out, _, err = execute(t, context.Background(), "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "sonar"`)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".sonar_history"), expandHome("~/.sonar_history"))
	assert.Equal(t, "rel/path", expandHome("rel/path"))
	assert.Equal(t, "", expandHome(""))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
