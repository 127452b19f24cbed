package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PointerWidth is the target's native pointer width in bits. It is parsed
// and defaulted here, but no pass reads it: Isize/Usize are always 64 bits
// wide and the lowerer's sizeof counts every pointer as 8 bytes.
type PointerWidth int

const (
	PointerWidth32 PointerWidth = 32
	PointerWidth64 PointerWidth = 64
)

// PipelineConfig is the project-level configuration read from a gecko.yaml
// file via gopkg.in/yaml.v3, the teacher's declared YAML dependency.
type PipelineConfig struct {
	// EntryPoint is the function name the entry-point check validates
	// (spec §4.3's Function/"main" rule, factored out per
	// entry_point_check_pass.rs). Defaults to DefaultEntryPoint.
	EntryPoint string `yaml:"entry_point"`

	// PointerWidth is the target pointer width; defaults to 64.
	PointerWidth PointerWidth `yaml:"pointer_width"`

	// StrictMode mirrors the teacher's SymbolTable.StrictMode /
	// #directive strict_types marker. It is parsed but no pass reads it:
	// setting it does not change when or how inference failures are
	// reported.
	StrictMode bool `yaml:"strict_mode"`
}

// Default returns the configuration used when no gecko.yaml is present.
func Default() PipelineConfig {
	return PipelineConfig{
		EntryPoint:   DefaultEntryPoint,
		PointerWidth: PointerWidth64,
	}
}

// LoadPipelineConfig reads and parses a gecko.yaml project file. Missing
// fields fall back to Default's values.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = DefaultEntryPoint
	}
	if cfg.PointerWidth == 0 {
		cfg.PointerWidth = PointerWidth64
	}
	return cfg, nil
}
