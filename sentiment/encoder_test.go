package sentiment

import (
	"fmt"
	"testing"
)

func TestEncodeShortSequencePads(t *testing.T) {
	t.Parallel()

	vocab := filmVocabulary()
	enc, err := NewEncoder(vocab, EncoderOptions{})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	tokens := []string{"this", "film", "is", "really", "good"}
	vec := enc.Encode(tokens)
	if len(vec) != FeatureLength {
		t.Fatalf("length: got %d want %d", len(vec), FeatureLength)
	}
	for i, token := range tokens {
		if vec[i] != vocab.Lookup(token) {
			t.Fatalf("entry %d: got %d want %d", i, vec[i], vocab.Lookup(token))
		}
	}
	for i := len(tokens); i < FeatureLength; i++ {
		if vec[i] != vocab.PadID() {
			t.Fatalf("entry %d: got %d want pad", i, vec[i])
		}
	}
}

func TestEncodeEmptyIsAllPad(t *testing.T) {
	t.Parallel()

	vocab := NewVocabulary(map[string]int32{"<pad>": 7, "good": 1}, VocabOptions{PadToken: DefaultPadToken})
	enc, err := NewEncoder(vocab, EncoderOptions{})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	for _, tokens := range [][]string{nil, {}} {
		vec := enc.Encode(tokens)
		if len(vec) != FeatureLength {
			t.Fatalf("length: got %d", len(vec))
		}
		for i, id := range vec {
			if id != 7 {
				t.Fatalf("entry %d: got %d want pad 7", i, id)
			}
		}
	}
}

func TestEncodeLengthInvariant(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(filmVocabulary(), EncoderOptions{})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	for _, n := range []int{0, 1, FeatureLength - 1, FeatureLength, FeatureLength + 1, 3 * FeatureLength} {
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = "good"
		}
		if got := len(enc.Encode(tokens)); got != FeatureLength {
			t.Fatalf("n=%d: length %d", n, got)
		}
	}
}

func TestEncodeTruncatesToPrefix(t *testing.T) {
	t.Parallel()

	vocab := NewVocabulary(numberedVocabulary(2*FeatureLength), VocabOptions{})
	enc, err := NewEncoder(vocab, EncoderOptions{})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	tokens := numberedTokens(FeatureLength + 50)
	got := enc.Encode(tokens)
	want := enc.Encode(tokens[:FeatureLength])
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %d want %d", i, got[i], want[i])
		}
	}
	if got[FeatureLength-1] != int32(FeatureLength) {
		t.Fatalf("last kept id: got %d want %d", got[FeatureLength-1], FeatureLength)
	}
	_, stats := enc.EncodeWithStats(tokens)
	if !stats.Truncated || stats.Tokens != FeatureLength+50 || stats.Padding != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestEncodeTruncatesToSuffix(t *testing.T) {
	t.Parallel()

	vocab := NewVocabulary(numberedVocabulary(2*FeatureLength), VocabOptions{})
	enc, err := NewEncoder(vocab, EncoderOptions{Truncation: KeepSuffix})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	tokens := numberedTokens(FeatureLength + 50)
	got := enc.Encode(tokens)
	if got[0] != 51 {
		t.Fatalf("first kept id: got %d want 51", got[0])
	}
	if got[FeatureLength-1] != int32(FeatureLength+50) {
		t.Fatalf("last kept id: got %d", got[FeatureLength-1])
	}
	short := enc.Encode([]string{"w1", "w2"})
	if short[0] != 1 || short[1] != 2 || short[2] != 0 {
		t.Fatalf("short sequences are still right-padded: got %v", short[:3])
	}
}

func TestEncodeStatsCountsUnknown(t *testing.T) {
	t.Parallel()

	enc, err := NewEncoder(filmVocabulary(), EncoderOptions{Length: 8})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	vec, stats := enc.EncodeWithStats([]string{"this", "movie", "is", "great"})
	want := FeatureVector{1, 0, 3, 0, 0, 0, 0, 0}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("vector: got %v want %v", vec, want)
		}
	}
	if stats.Unknown != 2 || stats.Padding != 4 || stats.Truncated {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNewEncoderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewEncoder(nil, EncoderOptions{}); err == nil {
		t.Fatalf("expected error for nil vocabulary")
	}
	if _, err := NewEncoder(filmVocabulary(), EncoderOptions{Length: -1}); err == nil {
		t.Fatalf("expected error for negative length")
	}
	if _, err := NewEncoder(filmVocabulary(), EncoderOptions{Truncation: "middle"}); err == nil {
		t.Fatalf("expected error for unknown truncation")
	}
}

// numberedVocabulary maps w1..wn to ids 1..n.
func numberedVocabulary(n int) map[string]int32 {
	out := make(map[string]int32, n)
	for i := 1; i <= n; i++ {
		out[fmt.Sprintf("w%d", i)] = int32(i)
	}
	return out
}

func numberedTokens(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i+1)
	}
	return out
}
