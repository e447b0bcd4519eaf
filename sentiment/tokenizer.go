package sentiment

import (
	"fmt"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenizer splits raw review text into an ordered token sequence.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// WordTokenizer segments text on word boundaries. It performs no stemming and
// no stop-word removal.
type WordTokenizer struct {
	lower bool
	nfkc  bool
}

// NewWordTokenizer resolves the case policy against vocab, which is the source
// of truth for casing under CaseAuto. vocab may be nil for other policies.
func NewWordTokenizer(policy CasePolicy, nfkc bool, vocab *Vocabulary) (*WordTokenizer, error) {
	lower, err := resolveLowercase(policy, vocab)
	if err != nil {
		return nil, err
	}
	return &WordTokenizer{lower: lower, nfkc: nfkc}, nil
}

func resolveLowercase(policy CasePolicy, vocab *Vocabulary) (bool, error) {
	switch policy {
	case CaseLower:
		return true, nil
	case CasePreserve:
		return false, nil
	case CaseAuto, "":
		if vocab == nil {
			return false, fmt.Errorf("case policy %q requires a vocabulary", CaseAuto)
		}
		return vocab.Lowercase(), nil
	default:
		return false, fmt.Errorf("unknown case policy %q", policy)
	}
}

// lowerText folds text to lower case. cases.Caser is stateful, so each call
// gets its own.
func lowerText(text string) string {
	return cases.Lower(language.Und).String(text)
}

// Lowercases reports whether tokens are folded to lower case.
func (t *WordTokenizer) Lowercases() bool { return t.lower }

// Tokenize never fails; the error return satisfies Tokenizer.
func (t *WordTokenizer) Tokenize(text string) ([]string, error) {
	return t.Split(text), nil
}

// Split returns the words of text in order. Empty input yields an empty slice.
func (t *WordTokenizer) Split(text string) []string {
	if t.nfkc {
		text = NormalizeText(text)
	}
	if t.lower {
		text = lowerText(text)
	}
	runes := []rune(text)
	tokens := make([]string, 0, len(runes)/5+1)
	start := -1
	for i, r := range runes {
		if isWordRune(r) || (isApostrophe(r) && start >= 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1])) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, string(runes[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, string(runes[start:]))
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}
