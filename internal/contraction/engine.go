// Package contraction expands English contractions and clipped forms in
// transcript text ("don't" → "do not", "gonna" → "going to").
//
// Expansion is a fixed pipeline of pure stages, each taking and returning an
// immutable (text, ledger) pair:
//
//  1. quote canonicalisation (curly quotes, backticks → "'");
//  2. multi-word rules ("can't've" → "cannot have");
//  3. the single-word dictionary ("won't" → "will not", "dunno" → "do not know");
//  4. "'s" resolution: "is", "has", or left alone as a possessive;
//  5. "'d" resolution: "would" or "had";
//  6. "'ve", "'re", "'ll" → "have", "are", "will";
//  7. whitespace collapse.
//
// Stages 4 and 5 need context. They consult one of two strategies, chosen once
// per call: [Heuristic] tests the following word against closed word lists,
// [Linguistic] asks a part-of-speech [Tagger] how the following word reads
// after the subject. An [Engine] built without a tagger, or whose tagger has
// failed, always uses the heuristic strategy and reports it as such.
//
// Every substitution is counted in a [Ledger] under the exact surface form it
// replaced, so callers can audit what changed.
//
// An Engine is safe for concurrent use.
package contraction

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Method names the disambiguation strategy actually used for a call.
type Method string

const (
	MethodNone       Method = ""
	MethodHeuristic  Method = "heuristic"
	MethodLinguistic Method = "linguistic"
)

// Strategy is the caller's preferred disambiguation strategy.
type Strategy int

const (
	Heuristic Strategy = iota
	Linguistic
)

// String returns "heuristic" or "linguistic".
func (s Strategy) String() string {
	if s == Linguistic {
		return string(MethodLinguistic)
	}
	return string(MethodHeuristic)
}

// ParseStrategy parses "heuristic" or "linguistic" (case-insensitive). The
// empty string selects Linguistic, the preferred strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MethodLinguistic):
		return Linguistic, nil
	case string(MethodHeuristic):
		return Heuristic, nil
	default:
		return Heuristic, fmt.Errorf("unknown strategy %q (want heuristic or linguistic)", s)
	}
}

// Result is the outcome of one expansion call.
type Result struct {
	// Expanded is the rewritten text; nil when the input was absent or empty.
	Expanded *string `json:"expanded_text"`

	// Method is the strategy actually used; empty when there was no input.
	Method Method `json:"method,omitempty"`

	// Replacements lists rewritten surface forms in first-seen order.
	Replacements []Replacement `json:"replacements"`

	// Original echoes the input.
	Original *string `json:"original_text"`
}

// Text returns the expanded text, or "" when there was none.
func (r Result) Text() string {
	if r.Expanded == nil {
		return ""
	}
	return *r.Expanded
}

// Observer is notified after every non-empty expansion. degraded is true when
// the linguistic strategy was requested but the heuristic one ran.
type Observer interface {
	ObserveExpansion(res Result, requested Strategy, degraded bool, elapsed time.Duration)
}

// Option configures an [Engine].
type Option func(*Engine)

// WithTagger enables the linguistic strategy. A nil tagger is the same as not
// passing the option.
func WithTagger(t Tagger) Option {
	return func(e *Engine) {
		e.tagger = t
	}
}

// WithPossessiveNouns adds words to the heuristic possessive-noun list.
func WithPossessiveNouns(words ...string) Option {
	return func(e *Engine) {
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				e.possessiveNouns[w] = struct{}{}
			}
		}
	}
}

// WithObserver attaches an expansion observer, e.g. a metrics recorder.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the logger for tagger failures and debug traces of
// ambiguous-suffix decisions.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine expands contractions. The zero value is not usable; call [New].
type Engine struct {
	tagger          Tagger
	taggerFailed    atomic.Bool
	possessiveNouns wordSet
	observer        Observer
	log             zerolog.Logger
}

// New returns an Engine. Without [WithTagger] it only ever uses the heuristic
// strategy.
func New(opts ...Option) *Engine {
	e := &Engine{
		possessiveNouns: newWordSet(defaultPossessiveNouns...),
		log:             zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// HasTagger reports whether the linguistic strategy is currently available.
func (e *Engine) HasTagger() bool {
	return e.tagger != nil && !e.taggerFailed.Load()
}

// EffectiveStrategy returns the strategy a call requesting s would run.
func (e *Engine) EffectiveStrategy(s Strategy) Strategy {
	if s == Linguistic && e.HasTagger() {
		return Linguistic
	}
	return Heuristic
}

// ExpandString expands text. An empty string yields a Result with no
// expanded text and no method.
func (e *Engine) ExpandString(text string, s Strategy) Result {
	return e.Expand(&text, s)
}

// Expand rewrites the contractions in *text. A nil or empty text yields a
// Result with nil Expanded, no method and no replacements. Expand never fails:
// if the tagger errors, the ambiguous stages are rerun heuristically, the
// tagger is switched off for the lifetime of the engine, and the Result
// reports the heuristic method.
func (e *Engine) Expand(text *string, s Strategy) Result {
	if text == nil || *text == "" {
		return Result{Replacements: []Replacement{}, Original: text}
	}
	start := time.Now()
	st, res := e.run(*text, s)

	expanded := st.text
	out := Result{
		Expanded:     &expanded,
		Method:       res.method(),
		Replacements: st.ledger.Replacements(),
		Original:     text,
	}
	if e.observer != nil {
		degraded := s == Linguistic && out.Method != MethodLinguistic
		e.observer.ObserveExpansion(out, s, degraded, time.Since(start))
	}
	return out
}

// Ledger runs the pipeline and returns the full ledger, including the
// case-folded view, for callers that need more than Result.Replacements.
func (e *Engine) Ledger(text string, s Strategy) Ledger {
	if text == "" {
		return Ledger{}
	}
	st, _ := e.run(text, s)
	return st.ledger
}

// run executes every stage and returns the final state and the resolver that
// produced it.
func (e *Engine) run(text string, s Strategy) (state, resolver) {
	res := e.resolverFor(s)
	st, _ := runStages(state{text: text}, quoteStage, applyRules(multiWordRules), applyRules(singleWordRules))

	beforeAmbiguous := st
	st, err := runStages(st, e.ambiguousStages(res)...)
	if err != nil {
		e.disableTagger(err)
		res = e.heuristic()
		st, _ = runStages(beforeAmbiguous, e.ambiguousStages(res)...)
	}

	st, _ = runStages(st, simpleSuffixStage, whitespaceStage)
	return st, res
}

func (e *Engine) resolverFor(s Strategy) resolver {
	if e.EffectiveStrategy(s) == Linguistic {
		return linguisticResolver{tagger: e.tagger}
	}
	return e.heuristic()
}

func (e *Engine) heuristic() resolver {
	return heuristicResolver{possessiveNouns: e.possessiveNouns}
}

func (e *Engine) ambiguousStages(r resolver) []stage {
	var trace func(DisambiguationContext, Decision)
	if e.log.GetLevel() <= zerolog.DebugLevel {
		trace = func(dc DisambiguationContext, d Decision) {
			e.log.Debug().
				Str("form", dc.Surface()).
				Str("next", dc.Next).
				Str("word", d.Word).
				Bool("possessive", d.Possessive).
				Str("reason", d.Reason).
				Str("method", string(r.method())).
				Msg("resolved ambiguous suffix")
		}
	}
	return []stage{
		ambiguousStage(suffixSRegex, r, trace),
		ambiguousStage(suffixDRegex, r, trace),
	}
}

// disableTagger switches the linguistic strategy off for good.
func (e *Engine) disableTagger(err error) {
	if e.taggerFailed.CompareAndSwap(false, true) {
		e.log.Warn().Err(err).Msg("part-of-speech tagger failed; using heuristic disambiguation from now on")
	}
}
