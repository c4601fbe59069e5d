package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE]",
	Short: "Parse a plain-text résumé into JSON (reads stdin without FILE)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return parse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("keep-subheaders", false, "keep repeated section headers in the section text")
	parseCmd.Flags().Bool("strict", false, "exit with an error when any section fails")
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func parse(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	keep, _ := cmd.Flags().GetBool("keep-subheaders")
	strict, _ := cmd.Flags().GetBool("strict")

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	cfg, comp, err := loadComponents()
	if err != nil {
		return err
	}

	p, err := resparse.New(resparse.Options{
		Lexicon:        comp.Lexicon,
		Tokenizer:      comp.Tokenizer,
		ModelsDir:      comp.ModelsDir,
		KeepSubheaders: keep || cfg.KeepSubheaders,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	result, parseErr := p.ParseText(cmd.Context(), string(text))
	for _, err := range multierr.Errors(parseErr) {
		logger.Warn("section skipped", zap.Error(err))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if strict {
		return parseErr
	}
	return nil
}
