package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"yashubustudio/sentiment/sentiment"
)

func configCmd() *cli.Command {
	var force bool
	return &cli.Command{
		Name:  "config",
		Usage: "Create or inspect the configuration file",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a config file populated with the defaults",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Aliases:     []string{"f"},
						Usage:       "overwrite an existing file",
						Destination: &force,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := configTarget(cmd.Args().First())
					if err := initConfig(path, force); err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					return writeConfig(os.Stdout, cfg, isYAMLPath(configPath))
				},
			},
		},
	}
}

func configTarget(arg string) string {
	if v := strings.TrimSpace(arg); v != "" {
		return v
	}
	if v := strings.TrimSpace(configPath); v != "" {
		return v
	}
	return "config.json"
}

// initConfig saves the defaults, with any global overrides, to path.
func initConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	var cfg sentiment.Config
	cfg.ApplyDefaults()
	if err := sentiment.SaveConfig(path, applyOverrides(cfg)); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func writeConfig(w io.Writer, cfg sentiment.Config, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func isYAMLPath(path string) bool {
	lower := strings.ToLower(strings.TrimSpace(path))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
