package contraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// quoteReplacer maps apostrophe look-alikes to a straight apostrophe.
var quoteReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"`", "'",
	"＇", "'", // fullwidth apostrophe
)

// multiSpaceRegex matches runs of two or more whitespace characters, Unicode
// spaces included; RE2's \s alone is ASCII.
var multiSpaceRegex = regexp.MustCompile(`[\s\v\x{85}\pZ]{2,}`)

// CanonicalQuotes rewrites every apostrophe variant to "'". All other runes
// pass through unchanged.
func CanonicalQuotes(text string) string {
	return quoteReplacer.Replace(text)
}

// CollapseWhitespace replaces runs of two or more whitespace characters with a
// single space and trims the ends. Single tabs and newlines are kept.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(text, " "))
}

// Preprocess brings raw STT output to the lowercase, punctuation-free shape
// some providers emit natively. The text is composed to NFC, apostrophes are
// canonicalised and everything is lower-cased. Runes other than letters,
// digits, marks, underscores, whitespace and apostrophes are dropped, and
// whitespace is collapsed.
func Preprocess(text string) string {
	if text == "" {
		return text
	}
	text = strings.ToLower(CanonicalQuotes(norm.NFC.String(text)))

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		if r == '\'' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

func quoteStage(s state) (state, error) {
	return state{text: CanonicalQuotes(s.text), ledger: s.ledger}, nil
}

func whitespaceStage(s state) (state, error) {
	return state{text: CollapseWhitespace(s.text), ledger: s.ledger}, nil
}
