package sentiment

import (
	"errors"
	"reflect"
	"testing"
)

// casedTokenizerJSON is a minimal BERT-style tokenizer.json whose vocabulary
// keeps upper-case word forms.
const casedTokenizerJSON = `{
  "version": "1.0",
  "truncation": null,
  "padding": null,
  "added_tokens": [
    {"id": 0, "content": "[UNK]", "single_word": false, "lstrip": false, "rstrip": false, "normalized": false, "special": true}
  ],
  "normalizer": null,
  "pre_tokenizer": {"type": "BertPreTokenizer"},
  "post_processor": null,
  "decoder": null,
  "model": {
    "type": "WordPiece",
    "unk_token": "[UNK]",
    "continuing_subword_prefix": "##",
    "max_input_chars_per_word": 100,
    "vocab": {"[UNK]": 0, "This": 1, "film": 2, "is": 3, "Really": 4, "good": 5}
  }
}`

func TestNewTokenizerPretrainedFollowsVocabularyCase(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tokenizer.json", casedTokenizerJSON)
	vocab := filmVocabulary()

	tok, err := NewTokenizer(TokenizerConfig{Kind: TokenizerPretrained, Path: path, Case: CaseAuto}, vocab)
	if err != nil {
		t.Fatalf("pretrained tokenizer: %v", err)
	}
	hf, ok := tok.(*HFTokenizer)
	if !ok {
		t.Fatalf("expected *HFTokenizer, got %T", tok)
	}
	if !hf.Lowercases() {
		t.Fatalf("lower-case vocabulary should select lowercasing")
	}
	got, err := tok.Tokenize("This film is Really good")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []string{"this", "film", "is", "really", "good"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens: got %q want %q", got, want)
	}
	for _, token := range got {
		if !vocab.Contains(token) {
			t.Fatalf("token %q missing from vocabulary", token)
		}
	}

	empty, err := tok.Tokenize("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty text: got %q, %v", empty, err)
	}
}

func TestNewTokenizerPretrainedPreserveCase(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tokenizer.json", casedTokenizerJSON)
	tok, err := NewTokenizer(TokenizerConfig{Kind: TokenizerPretrained, Path: path, Case: CasePreserve, NFKC: true}, filmVocabulary())
	if err != nil {
		t.Fatalf("pretrained tokenizer: %v", err)
	}
	got, err := tok.Tokenize("  This　film  ")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"This", "film"}) {
		t.Fatalf("tokens: got %q", got)
	}
}

func TestNewTokenizerPretrainedErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tokenizer.json", casedTokenizerJSON)
	if _, err := NewTokenizer(TokenizerConfig{Kind: TokenizerPretrained, Path: path, Case: CaseAuto}, nil); err == nil {
		t.Fatalf("expected error for auto case without vocabulary")
	}
	if _, err := NewTokenizer(TokenizerConfig{Kind: TokenizerPretrained, Path: path, Case: "upper"}, filmVocabulary()); err == nil {
		t.Fatalf("expected error for unknown case policy")
	}
	bad := writeFile(t, "broken.json", `{"model":`)
	if _, err := NewTokenizer(TokenizerConfig{Kind: TokenizerPretrained, Path: bad, Case: CaseLower}, nil); !errors.Is(err, ErrResource) {
		t.Fatalf("expected resource error for unreadable tokenizer.json, got %v", err)
	}
}
