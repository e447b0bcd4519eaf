package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"yashubustudio/sentiment/sentiment"
)

var (
	configPath string
	modelPath  string
	vocabPath  string
	ortLib     string
	quiet      bool
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.json or config.yaml (default: ./config.json)",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "override path to the .onnx model",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Usage:       "override path to the word index CSV",
			Destination: &vocabPath,
		},
		&cli.StringFlag{
			Name:        "ort-lib",
			Usage:       "override path to the onnxruntime shared library",
			Destination: &ortLib,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "suppress load progress on stderr",
			Destination: &quiet,
		},
	}
}

// loadConfig reads the config file, applies command line overrides and
// installs the configured input column candidates.
func loadConfig() (sentiment.Config, error) {
	base, err := sentiment.LoadConfig(strings.TrimSpace(configPath))
	if err != nil {
		return base, fmt.Errorf("load config: %w", err)
	}
	cfg := applyOverrides(base)
	sentiment.SetColumnCandidates(cfg.Columns)
	return cfg, nil
}

// applyOverrides returns a copy of cfg with the global flag values applied.
func applyOverrides(cfg sentiment.Config) sentiment.Config {
	out := cfg.Clone()
	if v := strings.TrimSpace(modelPath); v != "" {
		out.Model.ModelPath = v
	}
	if v := strings.TrimSpace(vocabPath); v != "" {
		out.Vocabulary.Path = v
	}
	if v := strings.TrimSpace(ortLib); v != "" {
		out.Model.OrtLib = v
	}
	return out
}

func newLogger() *log.Logger {
	if quiet {
		return nil
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

func openClassifier(cfg sentiment.Config) (*sentiment.Classifier, error) {
	c, err := sentiment.Open(cfg, newLogger())
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}
	return c, nil
}
