package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
)

var (
	validateLanguage string
	validateOutput   string
	validateFlatten  bool
)

// validateCmd is `generate --validate-only` under a friendlier name (spec
// §3.1): it shares runPipeline, differing only in validateOnly being
// always true and in having no -v flag of its own (the root's persistent
// --verbose has no short form, so -v is not defined for this subcommand).
var validateCmd = &cobra.Command{
	Use:   "validate SOURCE",
	Short: "Check a HAN description for diagnostics without generating code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.LoadSettings(
			validateLanguage, validateOutput,
			cmd.Flags().Changed("language"), cmd.Flags().Changed("output"),
		)
		if err := runPipeline(args[0], settings.Language, settings.Output, validateFlatten, true); err != nil {
			slog.Error(err.Error())
			return err
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateLanguage, "language", "l", "c", "target language: c or vhdl")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "output", "output directory")
	validateCmd.Flags().BoolVarP(&validateFlatten, "flatten", "f", false, "flatten nested networks before validating")
	rootCmd.AddCommand(validateCmd)
}
