package contraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule maps a literal contraction (matched case-insensitively as a whole
// word) to its canonical expansion.
type Rule struct {
	Pattern   string
	Expansion string

	re *regexp.Regexp
}

// multiWordRules are applied before the single-word dictionary so that
// compound forms like "can't've" are never split by "can't".
var multiWordRules = compileRules([][2]string{
	{"can't've", "cannot have"},
	{"couldn't've", "could not have"},
	{"mightn't've", "might not have"},
	{"mustn't've", "must not have"},
	{"shouldn't've", "should not have"},
	{"wouldn't've", "would not have"},
	{"ain't", "is not"},
})

// singleWordRules is the contraction dictionary. Order matters only where one
// pattern is a prefix of another across an apostrophe ("we'd've" before
// "we'd"); the longer form is listed first.
var singleWordRules = compileRules([][2]string{
	{"aren't", "are not"},
	{"can't", "cannot"},
	{"could've", "could have"},
	{"couldn't", "could not"},
	{"didn't", "did not"},
	{"doesn't", "does not"},
	{"don't", "do not"},
	{"hadn't", "had not"},
	{"hasn't", "has not"},
	{"haven't", "have not"},
	{"he'd've", "he would have"},
	{"how'd", "how did"},
	{"how'll", "how will"},
	{"how's", "how is"},
	{"i'd've", "i would have"},
	{"i'll", "i will"},
	{"i'm", "i am"},
	{"i've", "i have"},
	{"isn't", "is not"},
	{"it'd've", "it would have"},
	{"it'll", "it will"},
	{"it's", "it is"},
	{"let's", "let us"},
	{"might've", "might have"},
	{"mightn't", "might not"},
	{"must've", "must have"},
	{"mustn't", "must not"},
	{"o'clock", "of the clock"},
	{"she'd've", "she would have"},
	{"she'll", "she will"},
	{"should've", "should have"},
	{"shouldn't", "should not"},
	{"that'll", "that will"},
	{"that's", "that is"},
	{"there's", "there is"},
	{"they'd've", "they would have"},
	{"they'll", "they will"},
	{"they're", "they are"},
	{"they've", "they have"},
	{"wasn't", "was not"},
	{"we'd've", "we would have"},
	{"we'd", "we would"},
	{"we'll", "we will"},
	{"we're", "we are"},
	{"we've", "we have"},
	{"weren't", "were not"},
	{"when's", "when is"},
	{"where's", "where is"},
	{"why's", "why is"},
	{"won't", "will not"},
	{"would've", "would have"},
	{"wouldn't", "would not"},
	{"you'd've", "you would have"},
	{"you'll", "you will"},
	{"you're", "you are"},
	{"you've", "you have"},
	{"gonna", "going to"},
	{"gotta", "got to"},
	{"wanna", "want to"},
	{"gimme", "give me"},
	{"lemme", "let me"},
	{"outta", "out of"},
	{"kinda", "kind of"},
	{"sorta", "sort of"},
	{"dunno", "do not know"},
	{"y'all", "you all"},
	{"yall", "you all"},
	{"ma'am", "madam"},
	{"ne'er", "never"},
	{"'em", "them"},
	{"couldnt", "could not"},
	{"dont", "do not"},
	{"wont", "will not"},
	{"cant", "cannot"},
})

// MultiWordRules returns a copy of the phrase-level rule table.
func MultiWordRules() []Rule {
	return append([]Rule(nil), multiWordRules...)
}

// SingleWordRules returns a copy of the contraction dictionary.
func SingleWordRules() []Rule {
	return append([]Rule(nil), singleWordRules...)
}

func compileRules(pairs [][2]string) []Rule {
	rules := make([]Rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, Rule{
			Pattern:   p[0],
			Expansion: p[1],
			re:        regexp.MustCompile(`(?i)` + edge(p[0][0]) + regexp.QuoteMeta(p[0]) + edge(p[0][len(p[0])-1])),
		})
	}
	return rules
}

// edge returns the anchor that makes a pattern match whole words only. A
// pattern that starts or ends with a word character needs \b on that side; one
// that starts with an apostrophe ("'em") needs \B so it matches after a space
// but not inside "tell'em".
func edge(c byte) string {
	if isWordByte(c) {
		return `\b`
	}
	return `\B`
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isWordRune reports whether r belongs inside a word. RE2's \b only knows
// ASCII, so letters like "ü" and combining marks are checked here.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

// standalone reports whether text[start:end] is not glued to a word rune on
// either side, so "sseldorf's" inside "Düsseldorf's" is rejected.
func standalone(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

// replaceStandalone rewrites every standalone match of re with fn(groups),
// where groups[0] is the whole match and groups[i] submatch i.
func replaceStandalone(re *regexp.Regexp, text string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range matches {
		if !standalone(text, m[0], m[1]) {
			continue
		}
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = text[m[2*i]:m[2*i+1]]
			}
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(fn(groups))
		last = m[1]
	}
	out.WriteString(text[last:])
	return out.String()
}

// applyRules rewrites every leftmost non-overlapping standalone match of each
// rule, in table order, logging the matched surface form.
func applyRules(rules []Rule) stage {
	return func(s state) (state, error) {
		b := s.ledger.builder()
		text := s.text
		for _, r := range rules {
			text = replaceStandalone(r.re, text, func(g []string) string {
				b.add(g[0])
				return AdjustCase(r.Expansion, g[0])
			})
		}
		return state{text: text, ledger: b.ledger()}, nil
	}
}
