package sentiment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.json"

// LoadConfig loads configuration from the given path or the default
// config.json. Files ending in .yaml or .yml are decoded as YAML. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// Validate rejects settings that no pipeline can be built from.
func (c Config) Validate() error {
	if _, err := VocabOptionsFromConfig(c.Vocabulary); err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}
	switch c.Tokenizer.Kind {
	case TokenizerWord:
	case TokenizerPretrained:
		if strings.TrimSpace(c.Tokenizer.Path) == "" {
			return errors.New("tokenizer: pretrained tokenizer requires a path")
		}
	default:
		return fmt.Errorf("tokenizer: unknown kind %q", c.Tokenizer.Kind)
	}
	switch c.Tokenizer.Case {
	case CaseAuto, CaseLower, CasePreserve:
	default:
		return fmt.Errorf("tokenizer: unknown case policy %q", c.Tokenizer.Case)
	}
	switch c.Encoder.Truncation {
	case KeepPrefix, KeepSuffix:
	default:
		return fmt.Errorf("encoder: unknown truncation policy %q", c.Encoder.Truncation)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
