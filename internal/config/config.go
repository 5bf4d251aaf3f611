// Package config holds the compiler's two layered configuration
// surfaces: per-Network CodegenConfig (execution/logging/parametrisation
// settings decoded from a HAML document's `codegenConfig` field,
// overlaid on Defaults()) and the CLI-level Settings (output directory,
// target language), which viper layers from flags and environment
// variables over built-in defaults (no config file is read) — the same
// two-tier shape as steveyegge-beads's LoadLocalConfigWithEnv.
package config

import "gopkg.in/yaml.v3"

// ParametrisationMethod selects how Instance parameters are lowered
// during the transform phase (spec §4.5 step 1).
type ParametrisationMethod string

const (
	CompileTime ParametrisationMethod = "COMPILE_TIME"
	RunTime     ParametrisationMethod = "RUN_TIME"
)

// CodegenConfig is the fully-resolved per-Network code-generation
// configuration (spec §6 "codegenConfig").
type CodegenConfig struct {
	IndentSize                       int // spaces per level; negative means tabs
	StepSize                         float64
	SimulationTime                   float64
	LoggingEnable                    bool
	LoggingInterval                  float64
	LoggingFile                      string
	LoggingFields                    []string // empty means "all outputs of all instances"
	ParametrisationMethod            ParametrisationMethod
	MaximumInterTransitions          int
	RequireOneIntraTransitionPerTick bool
}

// Defaults returns the spec's documented default CodegenConfig (spec §6).
func Defaults() CodegenConfig {
	return CodegenConfig{
		IndentSize:                       4,
		StepSize:                         0.001,
		SimulationTime:                   10.0,
		LoggingEnable:                    true,
		LoggingInterval:                  0.001, // defaults to StepSize; see FromYAMLNode
		LoggingFile:                      "out.csv",
		ParametrisationMethod:            CompileTime,
		MaximumInterTransitions:          1,
		RequireOneIntraTransitionPerTick: false,
	}
}

// rawCodegenConfig mirrors the HAML codegenConfig schema with every field
// optional, so FromYAMLNode can tell "absent" (keep default) apart from
// "explicitly zero".
type rawCodegenConfig struct {
	IndentSize *int `yaml:"indentSize"`
	Execution  struct {
		StepSize       *float64 `yaml:"stepSize"`
		SimulationTime *float64 `yaml:"simulationTime"`
	} `yaml:"execution"`
	Logging struct {
		Enable   *bool    `yaml:"enable"`
		Interval *float64 `yaml:"interval"`
		File     *string  `yaml:"file"`
		Fields   []string `yaml:"fields"`
	} `yaml:"logging"`
	ParametrisationMethod            *string `yaml:"parametrisationMethod"`
	MaximumInterTransitions          *int    `yaml:"maximumInterTransitions"`
	RequireOneIntraTransitionPerTick *bool   `yaml:"requireOneIntraTransitionPerTick"`
}

// FromYAMLNode overlays a HAML document's codegenConfig node on Defaults().
// A nil node (the field was absent) yields Defaults() unchanged.
func FromYAMLNode(node *yaml.Node) (CodegenConfig, error) {
	cfg := Defaults()
	if node == nil || node.IsZero() {
		cfg.LoggingInterval = cfg.StepSize
		return cfg, nil
	}
	var raw rawCodegenConfig
	if err := node.Decode(&raw); err != nil {
		return cfg, err
	}
	if raw.IndentSize != nil {
		cfg.IndentSize = *raw.IndentSize
	}
	if raw.Execution.StepSize != nil {
		cfg.StepSize = *raw.Execution.StepSize
	}
	if raw.Execution.SimulationTime != nil {
		cfg.SimulationTime = *raw.Execution.SimulationTime
	}
	if raw.Logging.Enable != nil {
		cfg.LoggingEnable = *raw.Logging.Enable
	}
	if raw.Logging.File != nil {
		cfg.LoggingFile = *raw.Logging.File
	}
	cfg.LoggingFields = raw.Logging.Fields
	if raw.ParametrisationMethod != nil {
		cfg.ParametrisationMethod = ParametrisationMethod(*raw.ParametrisationMethod)
	}
	if raw.MaximumInterTransitions != nil {
		cfg.MaximumInterTransitions = *raw.MaximumInterTransitions
	}
	if raw.RequireOneIntraTransitionPerTick != nil {
		cfg.RequireOneIntraTransitionPerTick = *raw.RequireOneIntraTransitionPerTick
	}
	// logging.interval defaults to stepSize, which may itself have just been
	// overridden above, so this must resolve after StepSize is final.
	if raw.Logging.Interval != nil {
		cfg.LoggingInterval = *raw.Logging.Interval
	} else {
		cfg.LoggingInterval = cfg.StepSize
	}
	return cfg, nil
}
