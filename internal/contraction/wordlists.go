package contraction

import "strings"

// wordSet is a closed set of lowercase words.
type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// pastParticiples are common past-participle verb forms. A lookahead in this
// set turns "'s" into "has" and "'d" into "had".
var pastParticiples = newWordSet(
	"been", "gone", "seen", "done", "made", "taken", "given", "known", "felt",
	"said", "written", "found", "left", "put", "brought", "bought", "stolen",
	"driven", "eaten", "grown", "built", "kept", "heard", "become", "begun",
	"chosen", "shown", "shut", "lost", "met", "read", "run", "won", "held",
	"let", "set", "slept", "spoken", "spent", "understood", "worn",
	"worked", "studied", "played", "attempted", "opened", "closed", "helped",
	"started", "stopped", "remembered", "forgotten", "changed", "called",
	"liked", "loved", "used", "believed", "seemed", "moved", "fell",
	"told", "sent", "caught",
	"fixed", "solved", "learned", "taught", "thought", "fought", "walked",
	"talked", "lived", "died", "tried", "cried", "smiled", "laughed", "jumped",
	"climbed", "painted", "drawn", "broken", "fallen", "risen",
	"frozen", "woken", "shaken", "mistaken",
)

// determiners following "'s" are read as the start of a possessed noun
// phrase, so the match is left alone.
var determiners = newWordSet(
	"the", "a", "an", "my", "your", "his", "her", "its", "our", "their",
	"this", "that", "these", "those",
)

// defaultPossessiveNouns is a small sample of nouns that commonly follow a
// possessive in interview transcripts. It is not a noun detector; extend it
// with WithPossessiveNouns.
var defaultPossessiveNouns = []string{
	"book", "car", "house", "job", "work", "blog", "tech", "cloud",
	"migration", "company", "team", "project", "code", "data", "system",
}

// infinitiveIndicators mark "'d" as "would" ("i'd rather", "he'd like").
// Anything that is not a past participle resolves to "would" anyway, so this
// set only changes the recorded reason.
var infinitiveIndicators = newWordSet(
	"check", "probably", "just", "rather", "like", "prefer",
)

// IsPastParticiple reports whether w (any case) is in the heuristic
// past-participle list.
func IsPastParticiple(w string) bool {
	return pastParticiples.has(strings.ToLower(w))
}

// IsDeterminer reports whether w (any case) is a possessive-indicating
// determiner.
func IsDeterminer(w string) bool {
	return determiners.has(strings.ToLower(w))
}
