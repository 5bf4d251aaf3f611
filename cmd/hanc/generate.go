package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Goldenbeak21/modular-code-generation/internal/config"
)

var (
	generateLanguage     string
	generateOutput       string
	generateFlatten      bool
	generateValidateOnly bool
)

var generateCmd = &cobra.Command{
	Use:   "generate SOURCE",
	Short: "Compile a HAN description into generated source code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.LoadSettings(
			generateLanguage, generateOutput,
			cmd.Flags().Changed("language"), cmd.Flags().Changed("output"),
		)
		if err := runPipeline(args[0], settings.Language, settings.Output, generateFlatten, generateValidateOnly); err != nil {
			slog.Error(err.Error())
			return err
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "c", "target language: c or vhdl")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "output", "output directory")
	generateCmd.Flags().BoolVarP(&generateFlatten, "flatten", "f", false, "flatten nested networks before generation")
	generateCmd.Flags().BoolVarP(&generateValidateOnly, "validate-only", "v", false, "validate SOURCE without generating code")
	rootCmd.AddCommand(generateCmd)
}
