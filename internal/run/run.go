// Package run defines the stored record of one expansion call.
package run

import "github.com/hpungsan/unclip/internal/contraction"

// Run is one persisted expansion. Fields correspond to the runs table.
type Run struct {
	// ID is a ULID that uniquely identifies this run
	ID string `json:"id"`

	// Source labels where the text came from (e.g. a file name, "stdin", "mcp")
	Source *string `json:"source,omitempty"`

	// RequestedMethod is the strategy the caller asked for
	RequestedMethod string `json:"requested_method"`

	// Method is the strategy that actually ran
	Method string `json:"method"`

	// OriginalText is the input as received, after optional preprocessing
	OriginalText string `json:"original_text"`

	// ExpandedText is the engine output
	ExpandedText string `json:"expanded_text"`

	// Replacements is the ledger in first-seen order (stored as JSON in DB)
	Replacements []contraction.Replacement `json:"replacements"`

	// ReplacementCount is the sum of all ledger counts
	ReplacementCount int `json:"replacement_count"`

	// CreatedAt is the Unix timestamp when the run was stored
	CreatedAt int64 `json:"created_at"`
}

// FromResult builds a Run from an engine result. The caller assigns ID and
// CreatedAt.
func FromResult(res contraction.Result, requested contraction.Strategy, source *string) *Run {
	r := &Run{
		Source:          source,
		RequestedMethod: requested.String(),
		Method:          string(res.Method),
		Replacements:    res.Replacements,
	}
	if res.Original != nil {
		r.OriginalText = *res.Original
	}
	r.ExpandedText = res.Text()
	if r.Replacements == nil {
		r.Replacements = []contraction.Replacement{}
	}
	for _, rep := range r.Replacements {
		r.ReplacementCount += rep.Count
	}
	return r
}
