package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowledge-engine/textrep/internal/engine"
	"github.com/knowledge-engine/textrep/internal/representation"
)

type vectorizeFunc func(*engine.Engine, context.Context, engine.Request) (*representation.Result, error)

type vectorizeOutput struct {
	Vocabulary []string                 `json:"vocabulary"`
	Vectors    [][]float64              `json:"vectors"`
	Warnings   []representation.Warning `json:"warnings,omitempty"`
}

func newTermFrequencyCommand(ctx *commandContext) *cobra.Command {
	return newVectorizeCommand(ctx, "tf [documents...]", "Count every vocabulary token per document",
		(*engine.Engine).TermFrequency)
}

func newTFIDFCommand(ctx *commandContext) *cobra.Command {
	return newVectorizeCommand(ctx, "tfidf [documents...]", "Compute normalized TF-IDF weights per document",
		(*engine.Engine).TFIDF)
}

func newVectorizeCommand(ctx *commandContext, use, short string, fn vectorizeFunc) *cobra.Command {
	var pretokenized bool
	var jsonOutput bool
	var maxFeatures int
	var pipeline []string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + ".\n\nDocuments come from the arguments, or one per line on stdin when none are given.\n" +
			"Raw documents are tokenized implicitly, which is deprecated: pass --tokens with\n" +
			"whitespace-separated tokens, or add \"tokenize\" to the pipeline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pipeline") {
				cfg.Preprocessing.Pipeline = pipeline
			}

			eng, err := engine.New(cfg, ctx.logger(cmd))
			if err != nil {
				return err
			}

			docs := args
			if len(docs) == 0 {
				docs, err = readLines(cmd)
				if err != nil {
					return err
				}
			}

			req := engine.Request{MaxFeatures: maxFeatures}
			if pretokenized {
				req.Tokens = make([][]string, len(docs))
				for i, doc := range docs {
					req.Tokens[i] = strings.Fields(doc)
				}
			} else {
				req.Documents = docs
			}

			res, err := fn(eng, cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning (%s): %s\n", w.Kind, w.Message)
			}

			if jsonOutput {
				return writeJSON(cmd, vectorizeOutput{
					Vocabulary: res.Vocabulary.Terms(),
					Vectors:    res.Vectors,
					Warnings:   res.Warnings,
				})
			}

			headers := append([]string{"#"}, res.Vocabulary.Terms()...)
			rows := make([][]string, len(res.Vectors))
			for i, vec := range res.Vectors {
				row := make([]string, 0, len(vec)+1)
				row = append(row, strconv.Itoa(i))
				for _, v := range vec {
					row = append(row, strconv.FormatFloat(v, 'g', 6, 64))
				}
				rows[i] = row
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretokenized, "tokens", false, "Treat each document as whitespace-separated tokens")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of a table")
	cmd.Flags().IntVar(&maxFeatures, "max-features", 0, "Keep only the most frequent tokens")
	cmd.Flags().StringSliceVar(&pipeline, "pipeline", nil, "Preprocessing steps to apply, e.g. lowercase,tokenize")

	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read documents from stdin: %w", err)
	}
	return lines, nil
}
