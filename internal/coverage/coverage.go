// Package coverage reduces coverage instrumentation data to the hit and
// statement counts the summary line and the gate work from.
package coverage

import (
	"fmt"
	"math"
)

// Snapshot is the reduced end-of-run coverage measurement. The zero value
// means no coverage was collected.
type Snapshot struct {
	Hits       int // statements executed at least once
	Statements int // total instrumented statements
}

// Known reports whether the snapshot carries usable data. Either count
// being zero makes coverage unknown, not 0%.
func (s Snapshot) Known() bool {
	return s.Hits > 0 && s.Statements > 0
}

// Text renders the summary-line fragment for the snapshot.
func (s Snapshot) Text() string {
	if !s.Known() {
		return "no coverage"
	}
	pct := int(math.Round(float64(s.Hits) / float64(s.Statements) * 100))
	return fmt.Sprintf("%d%% coverage", pct)
}

// Formula selects how the gate percentage is computed.
type Formula int

const (
	// FormulaRound compares round(hits/statements*100) to the threshold.
	FormulaRound Formula = iota
	// FormulaLegacy reproduces the historical integer-ratio computation:
	// floor(hits/statements)*100. Any partial coverage truncates to 0, so
	// only full coverage clears a nonzero threshold.
	FormulaLegacy
)

// ParseFormula maps a manifest string to a Formula. Unrecognized values
// fall back to FormulaRound.
func ParseFormula(s string) Formula {
	if s == "legacy" {
		return FormulaLegacy
	}
	return FormulaRound
}

// GatePercent is the value compared against a configured threshold.
// Unknown snapshots compute to 0 under either formula.
func (s Snapshot) GatePercent(f Formula) int {
	if !s.Known() {
		return 0
	}
	if f == FormulaLegacy {
		return s.Hits / s.Statements * 100
	}
	return int(math.Round(float64(s.Hits) / float64(s.Statements) * 100))
}

// Provider supplies the end-of-run snapshot. The coordinator receives one
// explicitly rather than reading ambient process state, so tests can
// substitute fabricated measurements.
type Provider interface {
	Snapshot() (Snapshot, error)
}

// Static returns the same snapshot on every call. The zero value serves
// runs with no coverage collection at all.
type Static struct {
	S Snapshot
}

func (p Static) Snapshot() (Snapshot, error) {
	return p.S, nil
}
