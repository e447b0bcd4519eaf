package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"yashubustudio/sentiment/sentiment"
)

// schemaInfo is what the schema command reports about a loaded classifier.
type schemaInfo struct {
	ModelID    string
	Signature  sentiment.Signature
	VocabSize  int
	PadID      int32
	UnknownID  int32
	Length     int
	Truncation sentiment.Truncation
}

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the model's input and output tensors",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			defer c.Close()
			printSchema(os.Stdout, describeClassifier(c))
			return nil
		},
	}
}

func describeClassifier(c *sentiment.Classifier) schemaInfo {
	vocab := c.Vocabulary()
	return schemaInfo{
		ModelID:    c.ModelID(),
		Signature:  c.Signature(),
		VocabSize:  vocab.Size(),
		PadID:      vocab.PadID(),
		UnknownID:  vocab.UnknownID(),
		Length:     c.FeatureLength(),
		Truncation: c.Truncation(),
	}
}

func printSchema(w io.Writer, info schemaInfo) {
	sig := info.Signature
	fmt.Fprintln(w, " =============== Model Schema =============== ")
	if info.ModelID != "" {
		fmt.Fprintf(w, "Model: %s\n", info.ModelID)
	}
	fmt.Fprintf(w, "Name: %s, Type: %s, Size: (%d)\n", sig.InputName, sig.InputType, sig.InputLength)
	fmt.Fprintf(w, "Name: %s, Type: %s, Size: (%d)\n", sig.OutputName, sig.OutputType, sig.ClassCount)
	fmt.Fprintf(w, "Vocabulary: %d entries (pad=%d, unknown=%d)\n", info.VocabSize, info.PadID, info.UnknownID)
	fmt.Fprintf(w, "Encoder: length=%d truncation=%s\n", info.Length, info.Truncation)
}
