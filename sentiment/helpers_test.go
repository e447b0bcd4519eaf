package sentiment

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// stubScorer returns a fixed distribution and remembers the last input.
type stubScorer struct {
	sig   Signature
	probs []float32
	err   error

	mu     sync.Mutex
	calls  int
	last   []int32
	closed bool
}

func newStubScorer(probs ...float32) *stubScorer {
	return &stubScorer{
		sig: Signature{
			InputName:   DefaultInputName,
			InputType:   "int32",
			InputLength: FeatureLength,
			OutputName:  DefaultOutputName,
			OutputType:  "float",
			ClassCount:  ClassCount,
		},
		probs: probs,
	}
}

func (s *stubScorer) Signature() Signature { return s.sig }

func (s *stubScorer) Score(_ context.Context, features []int32) ([]float32, error) {
	s.mu.Lock()
	s.calls++
	s.last = append(s.last[:0], features...)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float32, len(s.probs))
	copy(out, s.probs)
	return out, nil
}

func (s *stubScorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubScorer) lastInput() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int32, len(s.last))
	copy(out, s.last)
	return out
}

// sumScorer derives the distribution from the input so different texts get
// different answers.
type sumScorer struct {
	length int
}

func (s sumScorer) Signature() Signature {
	return Signature{InputLength: s.length, ClassCount: ClassCount}
}

func (s sumScorer) Score(_ context.Context, features []int32) ([]float32, error) {
	var total int64
	for _, id := range features {
		total += int64(id)
	}
	pos := float32(total%100) / 100
	return []float32{1 - pos, pos}, nil
}

func filmVocabulary() *Vocabulary {
	return NewVocabulary(map[string]int32{
		"this":   1,
		"film":   2,
		"is":     3,
		"really": 4,
		"good":   5,
	}, VocabOptions{})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
