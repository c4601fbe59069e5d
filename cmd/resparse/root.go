package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cognicore/resparse/internal/logger"
	"github.com/cognicore/resparse/pkg/resparse/config"
)

const (
	app = "resparse"
)

// Config is the optional resparse.yaml file merged with flags and env.
type Config struct {
	ModelsDir         string `mapstructure:"models-dir"`
	LexiconFile       string `mapstructure:"lexicon-file"`
	StoplistFile      string `mapstructure:"stoplist-file"`
	AbbreviationsFile string `mapstructure:"abbreviations-file"`
	KeepSubheaders    bool   `mapstructure:"keep-subheaders"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "resparse generates training data, trains section taggers and parses résumés",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: %v\n", app, err)
	}
	return err
}

func init() {
	if err := viper.BindEnv("models-dir", "MODELS_DIR"); err != nil {
		log.Fatalf("binding MODELS_DIR environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resparse.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("models-dir", "", "directory holding training data and tagger models (default <repo root>/models)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("models-dir", rootCmd.PersistentFlags().Lookup("models-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// loadComponents resolves the config file, flags and env into vocabulary
// components and a models directory.
func loadComponents() (*Config, *config.Components, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("getting a config: %w", err)
	}
	loader := config.Loader{
		StoplistPath:      cfg.StoplistFile,
		LexiconPath:       cfg.LexiconFile,
		AbbreviationsPath: cfg.AbbreviationsFile,
		ModelsDir:         cfg.ModelsDir,
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, comp, nil
}
