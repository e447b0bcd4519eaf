package sentiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
)

// Classifier composes tokenizer, encoder, invoker and decision into the
// classify(text) request interface. All collaborators are read-only after
// construction, so one Classifier serves concurrent requests.
type Classifier struct {
	tokenizer Tokenizer
	encoder   *Encoder
	invoker   *Invoker

	logger *log.Logger
}

// Explanation exposes the intermediate values of one classification.
type Explanation struct {
	Text          string            `json:"text"`
	Tokens        []string          `json:"tokens"`
	Stats         EncodeStats       `json:"stats"`
	Features      FeatureVector     `json:"-"`
	Probabilities ProbabilityVector `json:"probabilities"`
	Result        Result            `json:"result"`
}

// NewClassifier wires already constructed stages together.
func NewClassifier(tok Tokenizer, enc *Encoder, inv *Invoker, logger *log.Logger) (*Classifier, error) {
	if tok == nil {
		return nil, errors.New("tokenizer is required")
	}
	if enc == nil {
		return nil, errors.New("encoder is required")
	}
	if inv == nil {
		return nil, errors.New("invoker is required")
	}
	if enc.Length() != inv.FeatureLength() {
		return nil, &ModelError{Field: "input length", Want: strconv.Itoa(enc.Length()), Got: strconv.Itoa(inv.FeatureLength())}
	}
	return &Classifier{tokenizer: tok, encoder: enc, invoker: inv, logger: logger}, nil
}

// Open loads the vocabulary, tokenizer and ONNX model described by cfg.
func Open(cfg Config, logger *log.Logger) (*Classifier, error) {
	cfg.ApplyDefaults()
	return open(cfg, logger, func(featureLength int) (Scorer, error) {
		return LoadOrtModel(cfg.Model, featureLength, ClassCount)
	})
}

// OpenWithScorer is Open with a caller supplied model.
func OpenWithScorer(cfg Config, scorer Scorer, logger *log.Logger) (*Classifier, error) {
	cfg.ApplyDefaults()
	return open(cfg, logger, func(int) (Scorer, error) { return scorer, nil })
}

func open(cfg Config, logger *log.Logger, loadScorer func(featureLength int) (Scorer, error)) (*Classifier, error) {
	opts, err := VocabOptionsFromConfig(cfg.Vocabulary)
	if err != nil {
		return nil, err
	}
	vocab, err := LoadVocabulary(cfg.Vocabulary.Path, opts)
	if err != nil {
		return nil, err
	}
	logf(logger, "Loaded %d vocabulary entries from %s (%d duplicates ignored)", vocab.Size(), cfg.Vocabulary.Path, vocab.Duplicates())

	tok, err := NewTokenizer(cfg.Tokenizer, vocab)
	if err != nil {
		return nil, err
	}
	enc, err := NewEncoder(vocab, EncoderOptions{Length: cfg.Encoder.Length, Truncation: cfg.Encoder.Truncation})
	if err != nil {
		return nil, err
	}
	scorer, err := loadScorer(enc.Length())
	if err != nil {
		return nil, err
	}
	inv, err := NewInvoker(scorer, enc.Length(), ClassCount)
	if err != nil {
		closeScorer(scorer)
		return nil, err
	}
	c, err := NewClassifier(tok, enc, inv, logger)
	if err != nil {
		closeScorer(scorer)
		return nil, err
	}
	sig := inv.Signature()
	logf(logger, "Model ready: %s %s[%d] -> %s %s[%d]", sig.InputName, sig.InputType, sig.InputLength, sig.OutputName, sig.OutputType, sig.ClassCount)
	return c, nil
}

// NewTokenizer builds the tokenizer selected by cfg.
func NewTokenizer(cfg TokenizerConfig, vocab *Vocabulary) (Tokenizer, error) {
	switch cfg.Kind {
	case TokenizerWord, "":
		return NewWordTokenizer(cfg.Case, cfg.NFKC, vocab)
	case TokenizerPretrained:
		return NewHFTokenizer(cfg.Path, cfg.Case, cfg.NFKC, vocab)
	default:
		return nil, fmt.Errorf("unknown tokenizer kind %q", cfg.Kind)
	}
}

// Close releases the model if it holds native resources.
func (c *Classifier) Close() error {
	if c == nil || c.invoker == nil {
		return nil
	}
	if closer, ok := c.invoker.Scorer().(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Signature returns the model's declared tensor contract.
func (c *Classifier) Signature() Signature { return c.invoker.Signature() }

// ModelID names the loaded model artifact, or "" when the scorer has no id.
func (c *Classifier) ModelID() string {
	if m, ok := c.invoker.Scorer().(interface{ ModelID() string }); ok {
		return m.ModelID()
	}
	return ""
}

// Truncation is the policy applied to reviews longer than the feature length.
func (c *Classifier) Truncation() Truncation { return c.encoder.Truncation() }

// FeatureLength is the number of ids each review is encoded to.
func (c *Classifier) FeatureLength() int { return c.encoder.Length() }

// Vocabulary returns the shared token table.
func (c *Classifier) Vocabulary() *Vocabulary { return c.encoder.Vocabulary() }

// Classify runs one review through the pipeline.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	tokens, err := c.tokenizer.Tokenize(text)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize: %w", err)
	}
	probs, err := c.invoker.Predict(ctx, c.encoder.Encode(tokens))
	if err != nil {
		return Result{}, err
	}
	return Decide(probs)
}

// ClassifyAll classifies texts sequentially and stops at the first failure.
func (c *Classifier) ClassifyAll(ctx context.Context, texts []string) ([]Result, error) {
	out := make([]Result, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.Classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}

// Explain classifies text and keeps every intermediate value.
func (c *Classifier) Explain(ctx context.Context, text string) (Explanation, error) {
	ex := Explanation{Text: text}
	tokens, err := c.tokenizer.Tokenize(text)
	if err != nil {
		return ex, fmt.Errorf("tokenize: %w", err)
	}
	ex.Tokens = tokens
	ex.Features, ex.Stats = c.encoder.EncodeWithStats(tokens)
	ex.Probabilities, err = c.invoker.Predict(ctx, ex.Features)
	if err != nil {
		return ex, err
	}
	ex.Result, err = Decide(ex.Probabilities)
	return ex, err
}

func closeScorer(s Scorer) {
	if closer, ok := s.(io.Closer); ok {
		_ = closer.Close()
	}
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
