// Package cmd provides tests for CLI command handlers.
package cmd

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

// isolate keeps user and project config files and STUDYPLAN_* variables
// out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{"STUDYPLAN_FILE", "STUDYPLAN_LOG_LEVEL", "STUDYPLAN_LOG_FORMAT", "STUDYPLAN_COLOR", "NO_COLOR"} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

type result struct {
	out string
	err string
}

func run(t *testing.T, input string, args ...string) (result, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := RunWithStreams(context.Background(), args, Streams{
		In:  strings.NewReader(input),
		Out: &out,
		Err: &errOut,
	})
	return result{out: out.String(), err: errOut.String()}, err
}

func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		isolate(t)
		res, err := run(t, "", "--help")
		require.NoError(t, err)
		assert.Contains(t, res.out, "studyplan")
		assert.Contains(t, res.out, "--file")
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		isolate(t)
		res, err := run(t, "", "--version")
		require.NoError(t, err)
		assert.Contains(t, res.out, "studyplan dev")
	})

	t.Run("version command", func(t *testing.T) {
		isolate(t)
		res, err := run(t, "", "version")
		require.NoError(t, err)
		assert.Contains(t, res.out, "studyplan dev")
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		isolate(t)
		_, err := run(t, "", "frobnicate")
		assert.Error(t, err)
	})
}

func TestShellSession(t *testing.T) {
	dir := isolate(t)

	input := strings.Join([]string{
		"1", "Essay", "History", "2024-06-01", "HIGH",
		"1", "Quiz", "Math", "2024-05-20", "HIGH",
		"2",
		"4",
	}, "\n") + "\n"
	res, err := run(t, input, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, res.err, "Task file not found")
	quiz := strings.Index(res.out, "1. [❌ PENDING] Quiz")
	essay := strings.Index(res.out, "2. [❌ PENDING] Essay")
	require.NotEqual(t, -1, quiz)
	require.NotEqual(t, -1, essay)
	assert.Less(t, quiz, essay)
	assert.Contains(t, res.out, "Exiting Scheduler. Goodbye!")

	data, err := os.ReadFile(filepath.Join(dir, "tasks.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Essay,History,2024-06-01,HIGH,False\nQuiz,Math,2024-05-20,HIGH,False\n", string(data))
}

func TestShellUsesFileFlag(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "school", "tasks.csv")

	_, err := run(t, "4\n", "--file", path, "--log-level", "error")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestListCommand(t *testing.T) {
	dir := isolate(t)
	rows := "Essay,History,2024-06-01,HIGH,False\nQuiz,Math,2024-05-20,HIGH,False\nOld,Math,2024-01-01,LOW,True\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(rows), 0644))

	res, err := run(t, "", "list", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, res.out, "1. [❌ PENDING] Quiz")
	assert.Contains(t, res.out, "2. [❌ PENDING] Essay")
	assert.Contains(t, res.out, "Total Pending: 2")
	assert.NotContains(t, res.out, "Old")

	res, err = run(t, "", "list", "--all", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, res.out, "3. [✅ COMPLETE] Old")
}

func TestExportImportCommands(t *testing.T) {
	dir := isolate(t)
	rows := "Essay,History,2024-06-01,HIGH,False\nQuiz,Math,2024-05-20,LOW,True\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.csv"), []byte(rows), 0644))

	exported := filepath.Join(dir, "tasks.json")
	_, err := run(t, "", "export", "-o", exported)
	require.NoError(t, err)

	other := filepath.Join(dir, "other.csv")
	res, err := run(t, "", "import", exported, "--file", other)
	require.NoError(t, err)
	assert.Contains(t, res.out, "Imported 2 tasks")

	data, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Equal(t, rows, string(data))
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	dir := isolate(t)
	doc := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"schema_version": 1, "tasks": [{"name": "a", "subject": "b", "due": "soon", "priority": "HIGH"}]}`), 0644))

	_, err := run(t, "", "import", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks[0].due")

	_, statErr := os.Stat(filepath.Join(dir, "tasks.csv"))
	assert.True(t, os.IsNotExist(statErr), "invalid import must not write the task file")
}

func TestConfigCommand(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studyplan.toml"), []byte("log_format = \"logfmt\"\n"), 0644))

	res, err := run(t, "", "config", "--log-level", "debug")
	require.NoError(t, err)
	assert.Regexp(t, `log_format\s+logfmt\s+\(project file\)`, res.out)
	assert.Regexp(t, `log_level\s+debug\s+\(flag\)`, res.out)
	assert.Regexp(t, `color\s+true\s+\(default\)`, res.out)
	assert.Contains(t, res.out, "config file: studyplan.toml")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
