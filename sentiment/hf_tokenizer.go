package sentiment

import (
	"errors"
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const resourceTokenizer = "tokenizer"

// HFTokenizer delegates segmentation to a HuggingFace-compatible tokenizer.json.
// Only the string tokens are used; ids still come from the Vocabulary, so the
// emitted tokens follow the same case policy as WordTokenizer.
type HFTokenizer struct {
	inner *tokenizer.Tokenizer
	path  string
	lower bool
	nfkc  bool
}

// NewHFTokenizer loads a tokenizer.json file using the pure-Go tokenizer.
// The case policy is resolved against vocab exactly as for NewWordTokenizer.
func NewHFTokenizer(path string, policy CasePolicy, nfkc bool, vocab *Vocabulary) (*HFTokenizer, error) {
	if path == "" {
		return nil, &ResourceError{Resource: resourceTokenizer, Err: errors.New("tokenizer path is required")}
	}
	lower, err := resolveLowercase(policy, vocab)
	if err != nil {
		return nil, err
	}
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, &ResourceError{Resource: resourceTokenizer, Path: path, Err: err}
	}
	return &HFTokenizer{inner: tk, path: path, lower: lower, nfkc: nfkc}, nil
}

// Lowercases reports whether emitted tokens are folded to lower case.
func (t *HFTokenizer) Lowercases() bool { return t.lower }

// Tokenize returns the pretrained tokenizer's tokens without special tokens.
// NFKC applies to the input; case folding applies to the emitted tokens so a
// cased tokenizer.json still matches a lower-case vocabulary.
func (t *HFTokenizer) Tokenize(text string) ([]string, error) {
	if t == nil || t.inner == nil {
		return nil, errors.New("tokenizer is not initialized")
	}
	if t.nfkc {
		text = NormalizeText(text)
	}
	if text == "" {
		return []string{}, nil
	}
	encoding, err := t.inner.EncodeSingle(text, false)
	if err != nil {
		return nil, fmt.Errorf("encode with %s: %w", t.path, err)
	}
	tokens := encoding.GetTokens()
	out := make([]string, len(tokens))
	for i, token := range tokens {
		if t.lower {
			token = lowerText(token)
		}
		out[i] = token
	}
	return out, nil
}
