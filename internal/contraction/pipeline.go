package contraction

import "regexp"

// state is the value passed between stages.
type state struct {
	text   string
	ledger Ledger
}

// stage is one pure rewrite step. Only the ambiguous-suffix stages can fail,
// and only when the tagger does.
type stage func(state) (state, error)

// runStages applies stages in order and stops at the first error, returning
// the state reached before it.
func runStages(s state, stages ...stage) (state, error) {
	for _, st := range stages {
		next, err := st(s)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

// simpleSuffixes are the suffixes whose expansion never depends on context.
var simpleSuffixes = []struct {
	re   *regexp.Regexp
	word string
}{
	{regexp.MustCompile(`(?i)\b([a-z]+)('ve)\b`), "have"},
	{regexp.MustCompile(`(?i)\b([a-z]+)('re)\b`), "are"},
	{regexp.MustCompile(`(?i)\b([a-z]+)('ll)\b`), "will"},
}

// simpleSuffixStage expands "'ve", "'re" and "'ll" unconditionally. It runs
// after the dictionary, so forms like "he'd've" are already gone.
func simpleSuffixStage(s state) (state, error) {
	b := s.ledger.builder()
	text := s.text
	for _, suf := range simpleSuffixes {
		text = replaceStandalone(suf.re, text, func(g []string) string {
			b.add(g[0])
			return AdjustCase(g[1]+" "+suf.word, g[0])
		})
	}
	return state{text: text, ledger: b.ledger()}, nil
}
