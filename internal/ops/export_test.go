package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestExport_HappyPath(t *testing.T) {
	database := newTestDB(t)
	outDir := t.TempDir()
	cfg := newTestConfig(outDir)

	first := storeRun(t, database, "I don't <know>", "heuristic", "a.txt")
	second := storeRun(t, database, "they're", "heuristic", "b.txt")

	exportPath := filepath.Join(outDir, "runs.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath})
	require.NoError(t, err)
	assert.Equal(t, exportPath, out.Path)
	assert.Equal(t, 2, out.Count)
	assert.NotZero(t, out.ExportedAt)

	lines := readLines(t, exportPath)
	require.Len(t, lines, 3)

	var header run.ExportHeader
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &header))
	assert.True(t, header.UnclipExport)
	assert.Equal(t, run.ExportSchemaVersion, header.SchemaVersion)
	assert.Equal(t, out.ExportedAt, header.ExportedAt)

	var rec run.ExportRecord
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, first, rec.ID)
	assert.Equal(t, "I do not <know>", rec.ExpandedText)
	assert.True(t, strings.Contains(lines[1], "<know>"), "HTML is not escaped")

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &rec))
	assert.Equal(t, second, rec.ID)

	info, err := os.Stat(exportPath)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestExport_Filters(t *testing.T) {
	database := newTestDB(t)
	outDir := t.TempDir()
	cfg := newTestConfig(outDir)

	storeRun(t, database, "don't", "heuristic", "a.txt")
	storeRun(t, database, "don't", "heuristic", "b.txt")

	out, err := Export(context.Background(), database, cfg, ExportInput{
		Path:   filepath.Join(outDir, "b.jsonl"),
		Source: "B.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)

	out, err = Export(context.Background(), database, cfg, ExportInput{
		Path:   filepath.Join(outDir, "ling.jsonl"),
		Method: "linguistic",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.Len(t, readLines(t, out.Path), 1)
}

func TestExport_PathRules(t *testing.T) {
	database := newTestDB(t)
	outDir := t.TempDir()
	cfg := newTestConfig(outDir)

	tests := []struct {
		name string
		path string
	}{
		{"wrong extension", filepath.Join(outDir, "runs.txt")},
		{"traversal", outDir + string(filepath.Separator) + ".." + string(filepath.Separator) + "runs.jsonl"},
		{"not allowed", filepath.Join(t.TempDir(), "runs.jsonl")},
		{"nested", filepath.Join(outDir, "sub", "runs.jsonl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(context.Background(), database, cfg, ExportInput{Path: tt.path})
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
		})
	}
}

func TestExport_PreservesExistingFileOnFailure(t *testing.T) {
	database := newTestDB(t)
	outDir := t.TempDir()
	cfg := newTestConfig(outDir)
	exportPath := filepath.Join(outDir, "runs.jsonl")
	require.NoError(t, os.WriteFile(exportPath, []byte("previous\n"), 0600))

	database.Close()

	_, err := Export(context.Background(), database, cfg, ExportInput{Path: exportPath})
	require.Error(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

func TestDefaultExportPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	now := mustParseTime(t, "2026-03-04T05:06:07Z")

	path, err := defaultExportPath("", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".unclip", "exports", "runs-2026-03-04T050607.jsonl"), path)

	path, err = defaultExportPath("../evil/notes", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".unclip", "exports", "evil-notes-2026-03-04T050607.jsonl"), path)
}

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
