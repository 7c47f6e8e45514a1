package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/normalize"
)

var (
	normalizeInput          string
	normalizeRecommendation bool
	normalizeStrict         bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw generated text",
	Long: `Read raw generated text from a file or stdin and print the normalized result.

By default the text is treated as a career path and the canonical four-phase JSON is
printed, falling back to the default path when the text is unusable. With
--recommendation the text is normalized as a free-form recommendation instead.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "-", "Path to raw text file, or - for stdin")
	normalizeCmd.Flags().BoolVar(&normalizeRecommendation, "recommendation", false, "Normalize as a free-form recommendation")
	normalizeCmd.Flags().BoolVar(&normalizeStrict, "strict", false, "Fail instead of printing the default path")
	rootCmd.AddCommand(normalizeCmd)
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, normalizeInput)
	if err != nil {
		return err
	}

	n := normalize.New(logger)
	out := cmd.OutOrStdout()

	if normalizeRecommendation {
		text, err := n.Recommendation(raw)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	}

	result, err := n.CareerPath(raw)
	if err != nil {
		return err
	}
	if normalizeStrict && result.Defaulted() {
		return fmt.Errorf("career path rejected (%s): %s", result.Reason, result.Detail)
	}

	logger.Debug("career path normalized",
		zap.String("status", string(result.Status)),
		zap.String("reason", string(result.Reason)))
	_, err = fmt.Fprintln(out, result.Canonical)
	return err
}
