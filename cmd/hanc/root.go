package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "hanc",
	Short: "Compile Hybrid Automata Network descriptions into C or VHDL",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	// No -v shorthand here: generate's own -v/--validate-only flag takes
	// that letter, and cobra rejects two flags sharing a shorthand once a
	// command inherits both.
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug logging of each compiler phase")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
