package sentiment

import "github.com/goccy/go-json"

const (
	// FeatureLength is the number of token ids the model consumes per review.
	FeatureLength = 600
	// ClassCount is the size of the model's output distribution.
	ClassCount = 2

	// NegativeIndex and PositiveIndex locate the classes in a ProbabilityVector.
	NegativeIndex = 0
	PositiveIndex = 1
)

// Label is the sentiment assigned to a review.
type Label string

const (
	LabelNegative Label = "negative"
	LabelPositive Label = "positive"
)

// FeatureVector is the fixed-length integer encoding of one review.
type FeatureVector []int32

// ProbabilityVector is the model's softmax output over the sentiment classes.
type ProbabilityVector []float32

// Result is the final decision for one review.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float32 `json:"confidence"`
}

// Positive reports whether the review was classified as positive.
func (r Result) Positive() bool {
	return r.Label == LabelPositive
}

// Truncation selects which part of an over-long token sequence survives encoding.
type Truncation string

const (
	// KeepPrefix keeps the first tokens and drops the tail.
	KeepPrefix Truncation = "prefix"
	// KeepSuffix keeps the last tokens and drops the head.
	KeepSuffix Truncation = "suffix"
)

// CasePolicy controls how the word tokenizer treats letter case.
type CasePolicy string

const (
	// CaseAuto lowercases only when the vocabulary holds no upper-case tokens.
	CaseAuto     CasePolicy = "auto"
	CaseLower    CasePolicy = "lower"
	CasePreserve CasePolicy = "preserve"
)

// TokenizerKind names the tokenizer implementation.
type TokenizerKind string

const (
	TokenizerWord       TokenizerKind = "word"
	TokenizerPretrained TokenizerKind = "pretrained"
)

// VocabularyConfig locates the token to id table.
type VocabularyConfig struct {
	Path         string `json:"path" yaml:"path"`
	Comma        string `json:"comma,omitempty" yaml:"comma,omitempty"`
	PadToken     string `json:"padToken,omitempty" yaml:"pad_token,omitempty"`
	UnknownToken string `json:"unknownToken,omitempty" yaml:"unknown_token,omitempty"`
	PadID        int32  `json:"padId" yaml:"pad_id"`
	UnknownID    int32  `json:"unknownId" yaml:"unknown_id"`
}

// TokenizerConfig selects and tunes the tokenizer.
type TokenizerConfig struct {
	Kind TokenizerKind `json:"kind" yaml:"kind"`
	// Path points at a tokenizer.json when Kind is "pretrained".
	Path string     `json:"path,omitempty" yaml:"path,omitempty"`
	Case CasePolicy `json:"case" yaml:"case"`
	NFKC bool       `json:"nfkc" yaml:"nfkc"`
}

// EncoderConfig controls the fixed-length normalization.
type EncoderConfig struct {
	Length     int        `json:"length" yaml:"length"`
	Truncation Truncation `json:"truncation" yaml:"truncation"`
}

// ModelConfig wraps the configuration for the ORT scorer.
type ModelConfig struct {
	OrtLib     string `json:"ortLib" yaml:"ort_lib"`
	ModelPath  string `json:"modelPath" yaml:"model_path"`
	InputName  string `json:"inputName" yaml:"input_name"`
	OutputName string `json:"outputName" yaml:"output_name"`
	ModelID    string `json:"modelId,omitempty" yaml:"model_id,omitempty"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr               string `json:"addr" yaml:"addr"`
	ReadTimeoutSeconds int    `json:"readTimeoutSeconds" yaml:"read_timeout_seconds"`
	MaxBatch           int    `json:"maxBatch" yaml:"max_batch"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Vocabulary VocabularyConfig `json:"vocabulary" yaml:"vocabulary"`
	Tokenizer  TokenizerConfig  `json:"tokenizer" yaml:"tokenizer"`
	Encoder    EncoderConfig    `json:"encoder" yaml:"encoder"`
	Model      ModelConfig      `json:"model" yaml:"model"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Columns    ColumnCandidates `json:"columns" yaml:"columns"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Vocabulary.Path == "" {
		c.Vocabulary.Path = "./sentiment_model/imdb_word_index.csv"
	}
	if c.Vocabulary.PadToken == "" {
		c.Vocabulary.PadToken = DefaultPadToken
	}
	if c.Vocabulary.UnknownToken == "" {
		c.Vocabulary.UnknownToken = DefaultUnknownToken
	}
	if c.Tokenizer.Kind == "" {
		c.Tokenizer.Kind = TokenizerWord
	}
	if c.Tokenizer.Case == "" {
		c.Tokenizer.Case = CaseAuto
	}
	if c.Encoder.Length <= 0 {
		c.Encoder.Length = FeatureLength
	}
	if c.Encoder.Truncation == "" {
		c.Encoder.Truncation = KeepPrefix
	}
	if c.Model.ModelPath == "" {
		c.Model.ModelPath = "./sentiment_model/model.onnx"
	}
	if c.Model.InputName == "" {
		c.Model.InputName = DefaultInputName
	}
	if c.Model.OutputName == "" {
		c.Model.OutputName = DefaultOutputName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.MaxBatch <= 0 {
		c.Server.MaxBatch = 64
	}
	c.Columns = c.Columns.withDefaults()
}
