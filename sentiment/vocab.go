package sentiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultPadToken and DefaultUnknownToken are the reserved rows that, when
	// present in the vocabulary file, override PadID and UnknownID.
	DefaultPadToken     = "<pad>"
	DefaultUnknownToken = "<unk>"

	resourceVocabulary = "vocabulary"
)

// VocabOptions controls how a vocabulary file is parsed.
type VocabOptions struct {
	// Comma is the field delimiter. Zero selects ',' or '\t' for .tsv files.
	Comma        rune
	PadID        int32
	UnknownID    int32
	PadToken     string
	UnknownToken string
}

// Vocabulary is an immutable token to id table.
//
// Lookups are deterministic: when the source lists a token more than once the
// first row wins and later rows are only counted in Duplicates.
type Vocabulary struct {
	ids        map[string]int32
	padID      int32
	unknownID  int32
	duplicates int
	lowercase  bool
}

// LoadVocabulary reads a delimited (token, id) file. Any malformed row fails
// the whole load.
func LoadVocabulary(path string, opts VocabOptions) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Resource: resourceVocabulary, Path: path, Err: err}
	}
	defer f.Close()
	if opts.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Comma = '\t'
	}
	return ReadVocabulary(f, path, opts)
}

// ReadVocabulary parses vocabulary rows from r. name is used in errors only.
func ReadVocabulary(r io.Reader, name string, opts VocabOptions) (*Vocabulary, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = 2
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	ids := make(map[string]int32, 1<<14)
	duplicates := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
				err = perr.Err
			}
			return nil, &ResourceError{Resource: resourceVocabulary, Path: name, Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)
		token := cleanCell(row[0])
		if token == "" {
			return nil, &ResourceError{Resource: resourceVocabulary, Path: name, Line: line, Err: errors.New("empty token")}
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 32)
		if err != nil {
			return nil, &ResourceError{Resource: resourceVocabulary, Path: name, Line: line, Err: fmt.Errorf("invalid id %q", row[1])}
		}
		if id < 0 {
			return nil, &ResourceError{Resource: resourceVocabulary, Path: name, Line: line, Err: fmt.Errorf("negative id %d", id)}
		}
		if _, exists := ids[token]; exists {
			duplicates++
			continue
		}
		ids[token] = int32(id)
	}
	if len(ids) == 0 {
		return nil, &ResourceError{Resource: resourceVocabulary, Path: name, Err: errors.New("no entries")}
	}
	v := newVocabulary(ids, opts)
	v.duplicates = duplicates
	return v, nil
}

// NewVocabulary builds a table from an in-memory map. The map is copied.
func NewVocabulary(entries map[string]int32, opts VocabOptions) *Vocabulary {
	ids := make(map[string]int32, len(entries))
	for token, id := range entries {
		ids[token] = id
	}
	return newVocabulary(ids, opts)
}

func newVocabulary(ids map[string]int32, opts VocabOptions) *Vocabulary {
	v := &Vocabulary{
		ids:       ids,
		padID:     opts.PadID,
		unknownID: opts.UnknownID,
		lowercase: true,
	}
	if opts.PadToken != "" {
		if id, ok := ids[opts.PadToken]; ok {
			v.padID = id
		}
	}
	if opts.UnknownToken != "" {
		if id, ok := ids[opts.UnknownToken]; ok {
			v.unknownID = id
		}
	}
	for token := range ids {
		if token == opts.PadToken || token == opts.UnknownToken {
			continue
		}
		if strings.IndexFunc(token, unicode.IsUpper) >= 0 {
			v.lowercase = false
			break
		}
	}
	return v
}

// Lookup returns the id for token, or UnknownID when the token is absent.
func (v *Vocabulary) Lookup(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.unknownID
}

// Contains reports whether token has its own row.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.ids[token]
	return ok
}

// Size returns the number of distinct tokens.
func (v *Vocabulary) Size() int { return len(v.ids) }

// Duplicates returns how many rows were ignored because their token was
// already defined.
func (v *Vocabulary) Duplicates() int { return v.duplicates }

// PadID is the filler id used to right-pad short sequences.
func (v *Vocabulary) PadID() int32 { return v.padID }

// UnknownID is substituted for tokens missing from the table.
func (v *Vocabulary) UnknownID() int32 { return v.unknownID }

// Lowercase reports whether every regular token is free of upper-case runes.
func (v *Vocabulary) Lowercase() bool { return v.lowercase }

// VocabOptionsFromConfig converts the persisted settings into parse options.
func VocabOptionsFromConfig(cfg VocabularyConfig) (VocabOptions, error) {
	opts := VocabOptions{
		PadID:        cfg.PadID,
		UnknownID:    cfg.UnknownID,
		PadToken:     cfg.PadToken,
		UnknownToken: cfg.UnknownToken,
	}
	if cfg.PadID < 0 || cfg.UnknownID < 0 {
		return opts, errors.New("vocabulary ids must be non-negative")
	}
	switch comma := cfg.Comma; comma {
	case "":
	case `\t`, "tab":
		opts.Comma = '\t'
	default:
		runes := []rune(comma)
		if len(runes) != 1 {
			return opts, fmt.Errorf("vocabulary delimiter must be a single character, got %q", comma)
		}
		opts.Comma = runes[0]
	}
	return opts, nil
}
