package main

import (
	"github.com/spf13/cobra"

	"github.com/mathboard/mathboard/config"
	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/recognize"
)

var rootCmd = &cobra.Command{
	Use:           "mathboard",
	Short:         "Handwritten digit segmentation",
	Long:          "mathboard groups handwritten strokes into symbols and reads them with a digit classifier.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides MATHBOARD_CONFIG env var)")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration from --config, then
// MATHBOARD_CONFIG, then the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return cfg, err
	}
	log.Trace.Printf("config: %+v", cfg.Search)
	return cfg, nil
}

// newRecognizer builds the recognizer and its remote classifier.
func newRecognizer(cmd *cobra.Command) (*recognize.Recognizer, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	c, err := recognize.NewClassifier(cfg.Classifier)
	if err != nil {
		return nil, cfg, err
	}
	return recognize.New(cfg, c), cfg, nil
}
