package main

import (
	"github.com/spf13/cobra"

	"github.com/mathboard/mathboard/recognize"
	"github.com/mathboard/mathboard/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command...]",
	Short: "Start the interactive shell, or run one shell command",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := recognize.NewClassifier(cfg.Classifier)
		if err != nil {
			return err
		}
		ctx := shell.NewShellCtxt(cfg, c)
		ctx.JSONOutput, _ = cmd.Flags().GetBool("json")
		return shell.RunShell(ctx, args)
	},
}

func init() {
	shellCmd.Flags().Bool("json", false, "JSON output")
}
