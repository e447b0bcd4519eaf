package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"yashubustudio/sentiment/sentiment"
)

type classifyOptions struct {
	inputPath string
	inputOpts sentiment.InputParseOptions
	outputCSV string
	outputDir string
	jsonLines bool
}

func inputFlags(opts *classifyOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "CSV/TSV/text file containing reviews (use - for stdin)",
			Destination: &opts.inputPath,
		},
		&cli.StringFlag{
			Name:        "input-index-column",
			Usage:       "column name or #index for the review id column",
			Destination: &opts.inputOpts.IndexColumn,
		},
		&cli.StringFlag{
			Name:        "input-title-column",
			Usage:       "column name or #index for the review title column",
			Destination: &opts.inputOpts.TitleColumn,
		},
		&cli.StringFlag{
			Name:        "input-text-column",
			Usage:       "column name or #index for the review text column",
			Destination: &opts.inputOpts.TextColumn,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print one JSON object per review",
			Destination: &opts.jsonLines,
		},
	}
}

func classifyCmd() *cli.Command {
	var opts classifyOptions
	flags := append(inputFlags(&opts),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "CSV file to write results to",
			Destination: &opts.outputCSV,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "directory for result_*.csv when --save is set without --output",
			Value:       "csv",
			Destination: &opts.outputDir,
		},
	)
	var save bool
	flags = append(flags, &cli.BoolFlag{
		Name:        "save",
		Usage:       "write a result CSV even when --output is omitted",
		Destination: &save,
	})

	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify review texts",
		ArgsUsage: "[text...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			records, err := collectRecords(cmd.Args().Slice(), opts, os.Stdin)
			if err != nil {
				return err
			}
			c, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			results, err := classifyRecords(ctx, c, records)
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}
			if opts.jsonLines {
				if err := printJSONLines(os.Stdout, records, results); err != nil {
					return err
				}
			} else {
				printSummary(os.Stdout, records, results)
			}

			if opts.outputCSV == "" && !save {
				return nil
			}
			outputPath, err := resolveOutputPath(strings.TrimSpace(opts.outputCSV), strings.TrimSpace(opts.outputDir))
			if err != nil {
				return err
			}
			if err := writeResultCSV(outputPath, records, results); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved results to %s\n", outputPath)
			return nil
		},
	}
}

func explainCmd() *cli.Command {
	var opts classifyOptions
	return &cli.Command{
		Name:      "explain",
		Usage:     "Show tokens, encoding stats and probabilities for each review",
		ArgsUsage: "[text...]",
		Flags:     inputFlags(&opts),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			records, err := collectRecords(cmd.Args().Slice(), opts, os.Stdin)
			if err != nil {
				return err
			}
			c, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			enc := json.NewEncoder(os.Stdout)
			for i, rec := range records {
				ex, err := c.Explain(ctx, rec.Text)
				if err != nil {
					return fmt.Errorf("explain %s: %w", rec.Index, err)
				}
				if opts.jsonLines {
					if err := enc.Encode(ex); err != nil {
						return fmt.Errorf("write explanation: %w", err)
					}
					continue
				}
				printExplanation(os.Stdout, i, rec, ex)
			}
			return nil
		},
	}
}

// collectRecords gathers input from arguments, a file or stdin, in that order.
func collectRecords(args []string, opts classifyOptions, stdin io.Reader) ([]sentiment.InputRecord, error) {
	path := strings.TrimSpace(opts.inputPath)
	if len(args) > 0 && path != "" {
		return nil, errors.New("pass review texts as arguments or --input, not both")
	}
	var records []sentiment.InputRecord
	switch {
	case len(args) > 0:
		records = make([]sentiment.InputRecord, len(args))
		for i, text := range args {
			records[i] = sentiment.InputRecord{Index: strconv.Itoa(i + 1), Text: text}
		}
		return records, nil
	case path != "" && path != "-":
		parsed, err := sentiment.ParseInputRecords(path, opts.inputOpts)
		if err != nil {
			return nil, fmt.Errorf("read input records: %w", err)
		}
		records = parsed
	default:
		texts, err := sentiment.ParseInputTexts(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		for i, text := range texts {
			records = append(records, sentiment.InputRecord{Index: strconv.Itoa(i + 1), Text: text})
		}
	}
	if len(records) == 0 {
		return nil, errors.New("input does not contain any reviews")
	}
	return records, nil
}

func classifyRecords(ctx context.Context, c *sentiment.Classifier, records []sentiment.InputRecord) ([]sentiment.Result, error) {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	return c.ClassifyAll(ctx, texts)
}

type resultLine struct {
	Index      string          `json:"index"`
	Title      string          `json:"title,omitempty"`
	Label      sentiment.Label `json:"label"`
	Confidence float32         `json:"confidence"`
}

func printJSONLines(w io.Writer, records []sentiment.InputRecord, results []sentiment.Result) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		line := resultLine{Index: rec.Index, Title: rec.Title, Label: results[i].Label, Confidence: results[i].Confidence}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result %d: %w", i, err)
		}
	}
	return nil
}

func printSummary(w io.Writer, records []sentiment.InputRecord, results []sentiment.Result) {
	for i, rec := range records {
		res := results[i]
		fmt.Fprintf(w, "%d. %s\n", i+1, summarizeRecord(rec))
		fmt.Fprintf(w, "    Is sentiment/review positive? %s\n", yesNo(res.Positive()))
		fmt.Fprintf(w, "    Prediction Confidence: %.2f\n", res.Confidence)
	}
}

func printExplanation(w io.Writer, i int, rec sentiment.InputRecord, ex sentiment.Explanation) {
	fmt.Fprintf(w, "%d. %s\n", i+1, summarizeRecord(rec))
	fmt.Fprintf(w, "    tokens (%d): %s\n", ex.Stats.Tokens, strings.Join(ex.Tokens, " "))
	fmt.Fprintf(w, "    unknown: %d  padding: %d  truncated: %t\n", ex.Stats.Unknown, ex.Stats.Padding, ex.Stats.Truncated)
	if len(ex.Probabilities) == sentiment.ClassCount {
		fmt.Fprintf(w, "    probabilities: negative=%.4f positive=%.4f\n",
			ex.Probabilities[sentiment.NegativeIndex], ex.Probabilities[sentiment.PositiveIndex])
	}
	fmt.Fprintf(w, "    Is sentiment/review positive? %s\n", yesNo(ex.Result.Positive()))
}

func yesNo(ok bool) string {
	if ok {
		return "Yes."
	}
	return "No."
}

func summarizeRecord(rec sentiment.InputRecord) string {
	var parts []string
	if idx := strings.TrimSpace(rec.Index); idx != "" {
		parts = append(parts, "#"+idx)
	}
	if title := strings.TrimSpace(rec.Title); title != "" {
		parts = append(parts, title)
	}
	text := strings.Join(strings.Fields(rec.Text), " ")
	if r := []rune(text); len(r) > 60 {
		text = string(r[:60]) + "..."
	}
	parts = append(parts, text)
	return strings.Join(parts, " ")
}
