// Package config loads the optional .speck.yaml project manifest.
//
// Absence is never an error: a missing file, a missing section, or an
// unreadable file all resolve to the default options. Only syntactically
// broken YAML earns a warning on stderr, and even then defaults apply.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/speck-sh/speck/internal/coverage"
)

// DefaultFile is the manifest looked up in the working directory.
const DefaultFile = ".speck.yaml"

// Manifest mirrors the .speck.yaml layout.
type Manifest struct {
	Coverage CoverageSection `yaml:"coverage"`
	Report   ReportSection   `yaml:"report"`
}

// CoverageSection configures the end-of-run gate.
type CoverageSection struct {
	Threshold int    `yaml:"threshold"` // 0–100; 0 or absent disables the gate
	Formula   string `yaml:"formula"`   // "round" (default) or "legacy"
}

// ReportSection configures failure-report rendering.
type ReportSection struct {
	Messages *bool `yaml:"messages"` // nil means default (true)
}

// Options is the resolved runtime configuration.
type Options struct {
	Threshold int
	Formula   coverage.Formula
	Messages  bool
}

// Defaults returns the options used when no manifest constrains the run.
func Defaults() Options {
	return Options{Formula: coverage.FormulaRound, Messages: true}
}

// Load reads the manifest at path and resolves Options.
func Load(path string) Options {
	opts := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		fmt.Fprintf(os.Stderr, "speck: warning: malformed %s: %v; using defaults\n", path, err)
		return opts
	}

	if m.Coverage.Threshold > 0 && m.Coverage.Threshold <= 100 {
		opts.Threshold = m.Coverage.Threshold
	}
	opts.Formula = coverage.ParseFormula(m.Coverage.Formula)
	if m.Report.Messages != nil {
		opts.Messages = *m.Report.Messages
	}
	return opts
}
