package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/resparse/pkg/resparse/crf"
	"github.com/cognicore/resparse/pkg/resparse/labels"
	"github.com/cognicore/resparse/pkg/resparse/tagger"
	"github.com/cognicore/resparse/pkg/resparse/trainingdata"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a section tagger from its training data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return train(cmd)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringP("section", "s", "", "section to train (basics, work, education, skills)")
	trainCmd.Flags().Int("epochs", crf.DefaultEpochs, "training passes over the data")
	trainCmd.Flags().Uint64("seed", 1, "shuffle seed")
	trainCmd.Flags().StringP("data", "i", "", "training data file (default <models-dir>/resume-<section>-training-data.jsonl)")
	trainCmd.MarkFlagRequired("section")
}

func train(cmd *cobra.Command) error {
	logger := newLogger()
	defer logger.Sync()

	flags := cmd.Flags()
	name, _ := flags.GetString("section")
	epochs, _ := flags.GetInt("epochs")
	seed, _ := flags.GetUint64("seed")
	data, _ := flags.GetString("data")

	section, err := labels.ParseSection(name)
	if err != nil {
		return err
	}
	_, comp, err := loadComponents()
	if err != nil {
		return err
	}
	if data == "" {
		data = tagger.TrainingDataPath(comp.ModelsDir, section)
	}

	seqs, err := trainingdata.ReadFile(data)
	if err != nil {
		return err
	}
	model, err := tagger.Train(section, seqs, tagger.TrainOptions{
		Epochs:    epochs,
		Seed:      seed,
		Tokenizer: comp.Tokenizer,
		Lexicon:   comp.Lexicon,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	path := tagger.ModelPath(comp.ModelsDir, section)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := model.Save(cmd.Context(), path); err != nil {
		return err
	}
	logger.Info("saved tagger",
		zap.String("section", string(section)),
		zap.String("model_id", model.ID),
		zap.Int("attributes", len(model.State)),
		zap.String("path", path))
	return nil
}
