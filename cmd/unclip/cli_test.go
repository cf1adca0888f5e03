package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// testConfig returns a default config that may write into outDir.
func testConfig(outDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Strategy = "heuristic"
	if outDir != "" {
		cfg.AllowedPaths = []string{outDir}
	}
	return cfg
}

// runCLI runs one command line with stdin as input and returns stdout.
func runCLI(t *testing.T, database *sql.DB, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(database, contraction.New(), cfg)
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"unclip"}, args...))
	return out.String(), err
}

func TestCLIExpand(t *testing.T) {
	database := setupTestDB(t)
	cfg := testConfig("")

	t.Run("from flag", func(t *testing.T) {
		out, err := runCLI(t, database, cfg, "", "expand", "--text", "I'd've gone, y'know")
		require.NoError(t, err)

		var output ops.ExpandOutput
		require.NoError(t, json.Unmarshal([]byte(out), &output))
		assert.Equal(t, "I would have gone, y'know", output.Text())
		assert.Equal(t, contraction.MethodHeuristic, output.Method)
		assert.Empty(t, output.ID)
	})

	t.Run("from stdin, plain", func(t *testing.T) {
		out, err := runCLI(t, database, cfg, "WE'RE DONE\n", "expand", "--plain")
		require.NoError(t, err)
		assert.Equal(t, "WE ARE DONE\n", out)
	})

	t.Run("preprocess and save", func(t *testing.T) {
		out, err := runCLI(t, database, cfg, "", "expand", "--text", "It's OK!", "--preprocess", "--save", "--source", "demo")
		require.NoError(t, err)

		var output ops.ExpandOutput
		require.NoError(t, json.Unmarshal([]byte(out), &output))
		assert.Equal(t, "it is ok", output.Text())
		assert.NotEmpty(t, output.ID)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := runCLI(t, database, cfg, "", "expand", "--text", "don't", "--strategy", "spacy")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[INVALID_REQUEST]")
	})

	t.Run("too large", func(t *testing.T) {
		small := testConfig("")
		small.MaxInputChars = 5
		_, err := runCLI(t, database, small, "", "expand", "--text", "don't stop")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[INPUT_TOO_LARGE]")
	})
}

func TestCLIWords(t *testing.T) {
	out, err := runCLI(t, nil, testConfig(""), "", "words", "Can't", "", "wanna")
	require.NoError(t, err)

	var output ops.WordsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Words, 3)
	require.NotNil(t, output.Words[0].TextExpanded)
	assert.Equal(t, "Cannot", *output.Words[0].TextExpanded)
	assert.Nil(t, output.Words[1].TextExpanded)
	assert.Equal(t, "want to", *output.Words[2].TextExpanded)

	_, err = runCLI(t, nil, testConfig(""), "", "words")
	assert.Error(t, err)
}

func TestCLIBatch(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := testConfig(dir)

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("you're late"), 0600))
	require.NoError(t, os.WriteFile(b, []byte("ain't so"), 0600))
	outPath := filepath.Join(dir, "out.txt")

	out, err := runCLI(t, database, cfg, "", "batch", "--out", outPath, "--save", a, b)
	require.NoError(t, err)

	var output ops.BatchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Equal(t, 2, output.Succeeded)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "a.txt: you are late\nb.txt: is not so\n", string(data))

	listOut, err := runCLI(t, database, cfg, "", "list")
	require.NoError(t, err)
	var list ops.ListOutput
	require.NoError(t, json.Unmarshal([]byte(listOut), &list))
	assert.Equal(t, 2, list.Pagination.Total)
}

func TestCLIRunLifecycle(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := testConfig(dir)

	out, err := runCLI(t, database, cfg, "", "expand", "--text", "She's got it, hasn't she", "--save")
	require.NoError(t, err)
	var expanded ops.ExpandOutput
	require.NoError(t, json.Unmarshal([]byte(out), &expanded))
	id := expanded.ID
	require.NotEmpty(t, id)

	out, err = runCLI(t, database, cfg, "", "show", "--no-text", id)
	require.NoError(t, err)
	var fetched ops.FetchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &fetched))
	assert.Equal(t, id, fetched.ID)
	assert.Empty(t, fetched.ExpandedText)
	assert.Equal(t, 2, fetched.ReplacementCount)

	out, err = runCLI(t, database, cfg, "", "stats", "--top", "5")
	require.NoError(t, err)
	var stats ops.StatsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Runs)

	out, err = runCLI(t, database, cfg, "", "report", id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Expansion run "+id))

	out, err = runCLI(t, database, cfg, "", "report", "--html", id)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>")

	exportPath := filepath.Join(dir, "runs.jsonl")
	out, err = runCLI(t, database, cfg, "", "export", "--path", exportPath)
	require.NoError(t, err)
	var exported ops.ExportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Equal(t, 1, exported.Count)

	_, err = runCLI(t, database, cfg, "", "delete", id)
	require.NoError(t, err)

	_, err = runCLI(t, database, cfg, "", "show", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[NOT_FOUND]")
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database := setupTestDB(t)
	cfg := testConfig("")

	tests := []struct {
		name string
		args []string
	}{
		{"show without id", []string{"show"}},
		{"delete not found", []string{"delete", "01NOPE"}},
		{"list invalid method", []string{"list", "--method", "spacy"}},
		{"batch without files", []string{"batch"}},
		{"export outside allowed dirs", []string{"export", "--path", filepath.Join(t.TempDir(), "x.jsonl")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, database, cfg, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"unclip"}, expected: false},
		{name: "expand command", args: []string{"unclip", "expand"}, expected: true},
		{name: "report command", args: []string{"unclip", "report"}, expected: true},
		{name: "serve command", args: []string{"unclip", "serve"}, expected: true},
		{name: "help flag", args: []string{"unclip", "--help"}, expected: true},
		{name: "short version flag", args: []string{"unclip", "-v"}, expected: true},
		{name: "unknown arg defaults to MCP", args: []string{"unclip", "--unknown"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			assert.Equal(t, tt.expected, isCLIMode())
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{name: "no args", args: []string{"unclip"}, expected: false},
		{name: "help flag", args: []string{"unclip", "--help"}, expected: true},
		{name: "short help flag", args: []string{"unclip", "-h"}, expected: true},
		{name: "version flag", args: []string{"unclip", "--version"}, expected: true},
		{name: "help subcommand", args: []string{"unclip", "help"}, expected: true},
		{name: "expand command is not help", args: []string{"unclip", "expand"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			assert.Equal(t, tt.expected, isHelpOrVersion())
		})
	}
}

// TestReadStdinWithLimit tests that readStdin respects size limits.
func TestReadStdinWithLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		result, err := readStdin(strings.NewReader("small content\n"), 1000)
		require.NoError(t, err)
		assert.Equal(t, "small content", result)
	})

	t.Run("exceeds limit", func(t *testing.T) {
		_, err := readStdin(strings.NewReader(strings.Repeat("x", 100)), 50)
		assert.Error(t, err)
	})

	t.Run("no limit", func(t *testing.T) {
		result, err := readStdin(strings.NewReader(strings.Repeat("x", 100)), 0)
		require.NoError(t, err)
		assert.Len(t, result, 100)
	})
}

func TestStdinHasData(t *testing.T) {
	assert.True(t, stdinHasData(strings.NewReader("x")))
	assert.False(t, stdinHasData(nil))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.True(t, stdinHasData(r))
}
