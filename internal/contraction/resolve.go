package contraction

import (
	"regexp"
	"strings"
	"unicode"
)

// Coarse part-of-speech labels a Tagger reports in Tag.POS. They follow the
// Universal Dependencies tag set.
const (
	POSNoun    = "NOUN"
	POSPropN   = "PROPN"
	POSPronoun = "PRON"
	POSVerb    = "VERB"
	POSAux     = "AUX"
)

// FinePastParticiple is the Penn Treebank tag for a past participle.
const FinePastParticiple = "VBN"

// Tag is the part-of-speech reading of one token.
type Tag struct {
	POS  string // coarse, e.g. "NOUN"
	Fine string // Penn Treebank, e.g. "VBN"
}

// Tagger tags next as it reads after subject, i.e. the second token of
// "<subject> <next>". Implementations must be safe for concurrent use.
type Tagger interface {
	Tag(subject, next string) (Tag, error)
}

// DisambiguationContext is what a resolver sees for one "'s" or "'d" match.
type DisambiguationContext struct {
	// Subject is the word the suffix is attached to ("she" in "she's").
	Subject string
	// Suffix is the apostrophe suffix as written ("'s", "'D").
	Suffix string
	// Next is the whitespace-delimited token after the whole match, or "".
	Next string
	// Remainder is punctuation trailing the suffix inside the same token.
	Remainder string
}

// Surface returns the contraction as written, without the remainder.
func (dc DisambiguationContext) Surface() string {
	return dc.Subject + dc.Suffix
}

func (dc DisambiguationContext) isD() bool {
	return strings.EqualFold(dc.Suffix, "'d")
}

// Decision is a resolver's verdict on one match.
type Decision struct {
	// Word is the expansion of the suffix ("is", "has", "would", "had").
	// Empty when Possessive is set.
	Word string
	// Possessive leaves the match untouched.
	Possessive bool
	// Reason names the rule that fired, for debug logging.
	Reason string
}

// resolver decides one ambiguous suffix.
type resolver interface {
	method() Method
	resolve(dc DisambiguationContext) (Decision, error)
}

// heuristicResolver decides from closed word lists only. The lookahead is
// compared after lookaheadWord strips surrounding punctuation, so "been," and
// "the." hit the lists the same as the bare words.
type heuristicResolver struct {
	possessiveNouns wordSet
}

func (heuristicResolver) method() Method { return MethodHeuristic }

func (h heuristicResolver) resolve(dc DisambiguationContext) (Decision, error) {
	next := lookaheadWord(dc.Next)
	if dc.isD() {
		switch {
		case pastParticiples.has(next):
			return Decision{Word: "had", Reason: "past-participle"}, nil
		case infinitiveIndicators.has(next):
			return Decision{Word: "would", Reason: "infinitive-indicator"}, nil
		default:
			return Decision{Word: "would", Reason: "default"}, nil
		}
	}
	switch {
	case pastParticiples.has(next):
		return Decision{Word: "has", Reason: "past-participle"}, nil
	case determiners.has(next):
		return Decision{Possessive: true, Reason: "determiner"}, nil
	case h.possessiveNouns.has(next):
		return Decision{Possessive: true, Reason: "possessive-noun"}, nil
	default:
		return Decision{Word: "is", Reason: "default"}, nil
	}
}

// linguisticResolver decides from the tagger's reading of the lookahead.
type linguisticResolver struct {
	tagger Tagger
}

func (linguisticResolver) method() Method { return MethodLinguistic }

func (l linguisticResolver) resolve(dc DisambiguationContext) (Decision, error) {
	var tag Tag
	if dc.Next != "" {
		t, err := l.tagger.Tag(dc.Subject, dc.Next)
		if err != nil {
			return Decision{}, err
		}
		tag = t
	}
	if tag.Fine == FinePastParticiple {
		if dc.isD() {
			return Decision{Word: "had", Reason: "tag:VBN"}, nil
		}
		return Decision{Word: "has", Reason: "tag:VBN"}, nil
	}
	if dc.isD() {
		return Decision{Word: "would", Reason: "tag:" + tag.Fine}, nil
	}
	switch {
	case tag.POS == POSNoun || tag.POS == POSPronoun:
		return Decision{Possessive: true, Reason: "tag:" + tag.POS}, nil
	case determiners.has(lookaheadWord(dc.Next)):
		return Decision{Possessive: true, Reason: "determiner"}, nil
	default:
		return Decision{Word: "is", Reason: "tag:" + tag.Fine}, nil
	}
}

// Suffix patterns: a run of ASCII letters, the suffix at a word boundary, and
// any punctuation glued to it ("team's," keeps "," as the remainder). Matches
// touching a non-ASCII word rune are dropped by standalone.
var (
	suffixSRegex = regexp.MustCompile(`(?i)\b([a-z]+)('s)\b([^\s\v\x{85}\pZ\pL\pM\pN_]*)`)
	suffixDRegex = regexp.MustCompile(`(?i)\b([a-z]+)('d)\b([^\s\v\x{85}\pZ\pL\pM\pN_]*)`)
)

// ambiguousStage resolves every match of re in one left-to-right scan. The
// lookahead of each match is read from the stage's input text, so earlier
// substitutions never influence later decisions.
func ambiguousStage(re *regexp.Regexp, r resolver, trace func(DisambiguationContext, Decision)) stage {
	return func(s state) (state, error) {
		src := s.text
		matches := re.FindAllStringSubmatchIndex(src, -1)
		if len(matches) == 0 {
			return s, nil
		}

		b := s.ledger.builder()
		var out strings.Builder
		out.Grow(len(src) + len(matches)*4)
		last := 0
		for _, m := range matches {
			if !standalone(src, m[0], m[5]) {
				continue
			}
			dc := DisambiguationContext{
				Subject:   src[m[2]:m[3]],
				Suffix:    src[m[4]:m[5]],
				Remainder: src[m[6]:m[7]],
				Next:      nextToken(src[m[1]:]),
			}
			d, err := r.resolve(dc)
			if err != nil {
				return s, err
			}
			if trace != nil {
				trace(dc, d)
			}

			out.WriteString(src[last:m[0]])
			last = m[1]
			if d.Possessive {
				out.WriteString(src[m[0]:m[1]])
				continue
			}
			surface := dc.Surface()
			b.add(surface)
			out.WriteString(AdjustCase(dc.Subject+" "+d.Word, surface))
			out.WriteString(dc.Remainder)
		}
		out.WriteString(src[last:])
		return state{text: out.String(), ledger: b.ledger()}, nil
	}
}

// nextToken returns the first whitespace-delimited token of s.
func nextToken(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}

// lookaheadWord lower-cases a lookahead token and strips punctuation around
// it, so "been," still reads as "been".
func lookaheadWord(tok string) string {
	return strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}
