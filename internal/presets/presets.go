// internal/presets/presets.go
package presets

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"poa-core/scoring"
)

// Preset is one named scoring parameter set, as stored in YAML.
type Preset struct {
	Mode       string `yaml:"mode"`
	Match      int    `yaml:"match"`
	Mismatch   int    `yaml:"mismatch"`
	GapOpen    int    `yaml:"gap-open"`
	GapExtend  int    `yaml:"gap-extend"`
	GapOpen2   int    `yaml:"gap-open2"`
	GapExtend2 int    `yaml:"gap-extend2"`
}

// builtin presets; a preset file may shadow these by name.
var builtin = map[string]Preset{
	// SPOA-style defaults, tuned for noisy long reads.
	"long-read": {Mode: "global", Match: 5, Mismatch: -4, GapOpen: -8, GapExtend: -6, GapOpen2: -10, GapExtend2: -4},
	// Single affine function, classic short-read consensus parameters.
	"short-read": {Mode: "global", Match: 5, Mismatch: -4, GapOpen: -3, GapExtend: -1, GapOpen2: -3, GapExtend2: -1},
	// Permissive local mode for pulling a conserved core out of ragged input.
	"local-core": {Mode: "local", Match: 2, Mismatch: -3, GapOpen: -5, GapExtend: -2, GapOpen2: -5, GapExtend2: -2},
}

// Names lists the built-in preset names, sorted, for usage messages.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for n := range builtin {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// LoadFile parses a YAML mapping of name -> preset.
func LoadFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]Preset{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("preset file %s: %w", path, err)
	}
	return out, nil
}

// Resolve looks name up among the built-ins plus an optional preset file
// (file entries win) and converts it into a validated Scoring.
func Resolve(name, file string) (scoring.Scoring, error) {
	p, ok := builtin[name]
	if file != "" {
		loaded, err := LoadFile(file)
		if err != nil {
			return scoring.Scoring{}, err
		}
		if fp, found := loaded[name]; found {
			p, ok = fp, true
		}
	}
	if !ok {
		return scoring.Scoring{}, fmt.Errorf("unknown preset %q (built-ins: %v)", name, Names())
	}
	mode, err := scoring.ParseMode(p.Mode)
	if err != nil {
		return scoring.Scoring{}, err
	}
	return scoring.Create(mode, p.Match, p.Mismatch, p.GapOpen, p.GapExtend, p.GapOpen2, p.GapExtend2)
}
