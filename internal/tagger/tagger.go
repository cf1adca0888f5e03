// Package tagger provides the part-of-speech capability behind the
// linguistic disambiguation strategy: an averaged-perceptron English tagger
// (github.com/jdkato/prose/tag) trained on the Penn Treebank.
//
// The model is embedded in the library and loaded once by [Load]; the
// returned [Perceptron] is read-only afterwards and safe for concurrent use.
package tagger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/tokenize"

	"github.com/hpungsan/unclip/internal/contraction"
)

// ErrEmptyContext is returned when there is nothing to tag.
var ErrEmptyContext = errors.New("tagger: empty context")

// Perceptron tags tokens with the prose averaged-perceptron model.
type Perceptron struct {
	model     *tag.PerceptronTagger
	tokenizer *tokenize.TreebankWordTokenizer
}

var _ contraction.Tagger = (*Perceptron)(nil)

// Load builds the tagger from the embedded model. A corrupt or missing model
// makes the library panic; Load turns that into an error so callers can run
// without the linguistic strategy.
func Load() (p *Perceptron, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("tagger: load model: %v", r)
		}
	}()
	model := tag.NewPerceptronTagger()
	if model == nil {
		return nil, errors.New("tagger: load model: no model")
	}
	return &Perceptron{
		model:     model,
		tokenizer: tokenize.NewTreebankWordTokenizer(),
	}, nil
}

// Tag tags next in the context "<subject> <next>". When tokenisation splits
// the context, the second token is the one reported (punctuation glued to
// next becomes its own token and is ignored).
func (p *Perceptron) Tag(subject, next string) (t contraction.Tag, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = contraction.Tag{}, fmt.Errorf("tagger: tag %q: %v", next, r)
		}
	}()
	words := p.tokenizer.Tokenize(strings.TrimSpace(subject + " " + next))
	if len(words) == 0 {
		return contraction.Tag{}, ErrEmptyContext
	}
	tagged := p.model.Tag(words)
	if len(tagged) == 0 {
		return contraction.Tag{}, ErrEmptyContext
	}
	tok := tagged[0]
	if len(tagged) >= 2 {
		tok = tagged[1]
	}
	return contraction.Tag{POS: Universal(tok.Tag), Fine: tok.Tag}, nil
}

// Universal maps a Penn Treebank tag to its Universal Dependencies coarse tag.
// Unknown tags map to "X".
func Universal(penn string) string {
	switch penn {
	case "NN", "NNS":
		return contraction.POSNoun
	case "NNP", "NNPS":
		return contraction.POSPropN
	case "PRP", "PRP$", "WP", "WP$":
		return contraction.POSPronoun
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return contraction.POSVerb
	case "MD":
		return contraction.POSAux
	case "JJ", "JJR", "JJS":
		return "ADJ"
	case "RB", "RBR", "RBS", "WRB":
		return "ADV"
	case "DT", "PDT", "WDT":
		return "DET"
	case "IN":
		return "ADP"
	case "CC":
		return "CCONJ"
	case "CD":
		return "NUM"
	case "RP", "POS", "TO":
		return "PART"
	case "UH":
		return "INTJ"
	case "EX":
		return contraction.POSPronoun
	case "SYM", "$", "#":
		return "SYM"
	case ".", ",", ":", "``", "''", "-LRB-", "-RRB-", "(", ")":
		return "PUNCT"
	default:
		return "X"
	}
}
