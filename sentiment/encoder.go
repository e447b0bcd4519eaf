package sentiment

import (
	"errors"
	"fmt"
)

// EncoderOptions tunes the fixed-length normalization.
type EncoderOptions struct {
	// Length defaults to FeatureLength.
	Length int
	// Truncation defaults to KeepPrefix.
	Truncation Truncation
}

// Encoder turns token sequences into FeatureVectors of exactly Length ids.
// Short sequences are right-padded with the vocabulary's PadID.
type Encoder struct {
	vocab      *Vocabulary
	length     int
	truncation Truncation
}

// EncodeStats describes what happened to one token sequence.
type EncodeStats struct {
	Tokens    int  `json:"tokens"`
	Unknown   int  `json:"unknown"`
	Padding   int  `json:"padding"`
	Truncated bool `json:"truncated"`
}

// NewEncoder binds an encoder to vocab.
func NewEncoder(vocab *Vocabulary, opts EncoderOptions) (*Encoder, error) {
	if vocab == nil {
		return nil, errors.New("vocabulary is required")
	}
	if opts.Length == 0 {
		opts.Length = FeatureLength
	}
	if opts.Length < 0 {
		return nil, fmt.Errorf("feature length must be positive, got %d", opts.Length)
	}
	switch opts.Truncation {
	case "":
		opts.Truncation = KeepPrefix
	case KeepPrefix, KeepSuffix:
	default:
		return nil, fmt.Errorf("unknown truncation policy %q", opts.Truncation)
	}
	return &Encoder{vocab: vocab, length: opts.Length, truncation: opts.Truncation}, nil
}

// Length is the size of every vector Encode returns.
func (e *Encoder) Length() int { return e.length }

// Truncation is the policy applied to sequences longer than Length.
func (e *Encoder) Truncation() Truncation { return e.truncation }

// Vocabulary returns the table ids are looked up in.
func (e *Encoder) Vocabulary() *Vocabulary { return e.vocab }

// Encode maps tokens to ids and normalizes the result to Length entries.
func (e *Encoder) Encode(tokens []string) FeatureVector {
	vec, _ := e.EncodeWithStats(tokens)
	return vec
}

// EncodeWithStats is Encode plus a summary of unknown tokens, padding and
// truncation.
func (e *Encoder) EncodeWithStats(tokens []string) (FeatureVector, EncodeStats) {
	stats := EncodeStats{Tokens: len(tokens)}
	kept := tokens
	if len(kept) > e.length {
		stats.Truncated = true
		if e.truncation == KeepSuffix {
			kept = kept[len(kept)-e.length:]
		} else {
			kept = kept[:e.length]
		}
	}
	vec := make(FeatureVector, e.length)
	for i, token := range kept {
		if !e.vocab.Contains(token) {
			stats.Unknown++
		}
		vec[i] = e.vocab.Lookup(token)
	}
	pad := e.vocab.PadID()
	for i := len(kept); i < e.length; i++ {
		vec[i] = pad
	}
	stats.Padding = e.length - len(kept)
	return vec, stats
}
