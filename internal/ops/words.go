package ops

import "github.com/hpungsan/unclip/internal/contraction"

// WordExpansion pairs one recognised word with its expansion.
type WordExpansion struct {
	Text         string  `json:"text"`
	TextExpanded *string `json:"text_expanded"`
}

// WordsOutput contains the result of the ExpandWords operation.
type WordsOutput struct {
	Words []WordExpansion `json:"words"`
}

// ExpandWords expands each word of a word-level transcript on its own. Words
// carry no sentence context, so the heuristic strategy is always used; an
// empty word has no expansion.
func ExpandWords(engine *contraction.Engine, words []string) *WordsOutput {
	out := &WordsOutput{Words: make([]WordExpansion, 0, len(words))}
	for _, w := range words {
		we := WordExpansion{Text: w}
		if w != "" {
			we.TextExpanded = engine.ExpandString(w, contraction.Heuristic).Expanded
		}
		out.Words = append(out.Words, we)
	}
	return out
}
