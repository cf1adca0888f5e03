package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
)

// TestWorkflow walks one run through its whole stored lifecycle.
func TestWorkflow(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	outDir := t.TempDir()
	cfg := newTestConfig(outDir)
	engine := contraction.New(contraction.WithTagger(fixedTagger{
		tag: contraction.Tag{POS: contraction.POSVerb, Fine: "VBG"},
	}))

	expanded, err := Expand(ctx, database, engine, cfg, ExpandInput{
		Text:    stringPtr("He's leaving. They'd say y'all can't"),
		Source:  stringPtr("Standup Call"),
		Persist: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, expanded.ID)
	assert.Equal(t, contraction.MethodLinguistic, expanded.Method)
	assert.Equal(t, "He is leaving. They would say you all cannot", expanded.Text())

	list, err := List(ctx, database, ListInput{Source: "standup call"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, expanded.ID, list.Items[0].ID)
	assert.Equal(t, 4, list.Items[0].ReplacementCount)

	stats, err := Stats(ctx, database, StatsInput{Method: "linguistic"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 4, stats.Replacements)

	rep, err := Report(ctx, database, ReportInput{ID: expanded.ID, HTML: true})
	require.NoError(t, err)
	assert.Contains(t, rep.Markdown, "| Method | linguistic |")
	assert.Contains(t, rep.HTML, "<table>")

	exported, err := Export(ctx, database, cfg, ExportInput{Path: filepath.Join(outDir, "standup.jsonl")})
	require.NoError(t, err)
	assert.Equal(t, 1, exported.Count)

	deleted, err := Delete(ctx, database, DeleteInput{ID: expanded.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = Fetch(ctx, database, FetchInput{ID: expanded.ID})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
