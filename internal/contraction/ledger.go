package contraction

import "strings"

// Replacement is one ledger entry: a surface form as it appeared in the input
// and how many times it was rewritten.
type Replacement struct {
	Original string `json:"original"`
	Count    int    `json:"count"`
}

// Ledger counts rewritten surface forms. Keys are the exact matched text, so
// "Don't" and "don't" are separate entries; use Folded for family counts.
//
// A Ledger is a value: stages never mutate the ledger they were given.
type Ledger struct {
	order  []string
	counts map[string]int
}

// Count returns the number of times form was rewritten.
func (l Ledger) Count(form string) int {
	return l.counts[form]
}

// Len returns the number of distinct surface forms.
func (l Ledger) Len() int {
	return len(l.order)
}

// Total returns the number of substitutions across all forms.
func (l Ledger) Total() int {
	n := 0
	for _, c := range l.counts {
		n += c
	}
	return n
}

// Replacements lists entries in first-seen order. Never nil.
func (l Ledger) Replacements() []Replacement {
	out := make([]Replacement, 0, len(l.order))
	for _, form := range l.order {
		out = append(out, Replacement{Original: form, Count: l.counts[form]})
	}
	return out
}

// Folded lists entries with keys lower-cased and counts of forms that differ
// only by case summed, in first-seen order of the folded key.
func (l Ledger) Folded() []Replacement {
	idx := make(map[string]int, len(l.order))
	out := make([]Replacement, 0, len(l.order))
	for _, form := range l.order {
		key := strings.ToLower(form)
		if i, ok := idx[key]; ok {
			out[i].Count += l.counts[form]
			continue
		}
		idx[key] = len(out)
		out = append(out, Replacement{Original: key, Count: l.counts[form]})
	}
	return out
}

// builder returns a private copy of l to record one stage's substitutions.
func (l Ledger) builder() *ledgerBuilder {
	b := &ledgerBuilder{
		order:  append([]string(nil), l.order...),
		counts: make(map[string]int, len(l.counts)),
	}
	for k, v := range l.counts {
		b.counts[k] = v
	}
	return b
}

type ledgerBuilder struct {
	order  []string
	counts map[string]int
}

func (b *ledgerBuilder) add(form string) {
	if _, ok := b.counts[form]; !ok {
		b.order = append(b.order, form)
	}
	b.counts[form]++
}

func (b *ledgerBuilder) ledger() Ledger {
	return Ledger{order: b.order, counts: b.counts}
}
