package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/unclip/internal/contraction"
)

func TestFromResult(t *testing.T) {
	engine := contraction.New()
	res := engine.ExpandString("I can't go, they're late. Can't stop.", contraction.Heuristic)
	src := "notes.txt"

	r := FromResult(res, contraction.Linguistic, &src)

	assert.Equal(t, "linguistic", r.RequestedMethod)
	assert.Equal(t, "heuristic", r.Method)
	assert.Equal(t, "I can't go, they're late. Can't stop.", r.OriginalText)
	assert.Equal(t, "I cannot go, they are late. Cannot stop.", r.ExpandedText)
	assert.Equal(t, 3, r.ReplacementCount)
	require.NotNil(t, r.Source)
	assert.Equal(t, "notes.txt", *r.Source)
}

func TestFromResult_EmptyInput(t *testing.T) {
	res := contraction.New().ExpandString("", contraction.Heuristic)

	r := FromResult(res, contraction.Heuristic, nil)

	assert.Equal(t, "", r.Method)
	assert.Equal(t, "", r.ExpandedText)
	assert.NotNil(t, r.Replacements)
	assert.Zero(t, r.ReplacementCount)
}

func TestToSummary(t *testing.T) {
	r := &Run{
		ID:               "01RUN",
		RequestedMethod:  "linguistic",
		Method:           "linguistic",
		OriginalText:     "naïve don't",
		ExpandedText:     "naïve do not",
		ReplacementCount: 1,
		CreatedAt:        42,
	}

	s := r.ToSummary()

	assert.Equal(t, "01RUN", s.ID)
	assert.Equal(t, 11, s.OriginalChars)
	assert.Equal(t, 1, s.ReplacementCount)
	assert.Equal(t, int64(42), s.CreatedAt)
}

func TestToExportRecord_NilReplacements(t *testing.T) {
	r := &Run{ID: "01RUN"}

	rec := r.ToExportRecord()

	assert.NotNil(t, rec.Replacements)
	assert.Empty(t, rec.Replacements)
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Meeting Notes.txt ", "meeting notes.txt"},
		{"a\t\tb", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSource(tt.in), "NormalizeSource(%q)", tt.in)
	}
}
