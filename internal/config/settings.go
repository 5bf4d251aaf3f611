package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings is the CLI-level configuration surface (spec §6's "CLI
// surface"): which target language to emit and where to write the output
// tree. Unlike CodegenConfig (decoded per-Network from a HAML document),
// Settings is resolved once per invocation from flags and environment
// variables (no config file is read): flags win if explicitly set,
// otherwise the HANC_* environment variable wins, otherwise the built-in
// default.
type Settings struct {
	Language string // "c" or "vhdl"
	Output   string // output directory
}

// DefaultSettings returns the CLI's documented defaults (spec §6:
// "-l/--language (default c)", "-o/--output (default output)").
func DefaultSettings() Settings {
	return Settings{Language: "c", Output: "output"}
}

// LoadSettings layers environment variables over the built-in defaults via
// viper, then overlays any flag value the caller explicitly set
// (languageSet and outputSet report whether the corresponding CLI flag was
// passed). The precedence is flags > env vars > defaults.
func LoadSettings(language, output string, languageSet, outputSet bool) Settings {
	v := viper.New()
	v.SetEnvPrefix("HANC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cfg := DefaultSettings()
	if env := v.GetString("LANGUAGE"); env != "" {
		cfg.Language = env
	}
	if env := v.GetString("OUTPUT_DIR"); env != "" {
		cfg.Output = env
	}

	if languageSet {
		cfg.Language = language
	}
	if outputSet {
		cfg.Output = output
	}
	return cfg
}
