package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Text(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want string
	}{
		{"zero hits", Snapshot{Hits: 0, Statements: 10}, "no coverage"},
		{"zero statements", Snapshot{Hits: 10, Statements: 0}, "no coverage"},
		{"empty", Snapshot{}, "no coverage"},
		{"ninety", Snapshot{Hits: 45, Statements: 50}, "90% coverage"},
		{"rounds up", Snapshot{Hits: 2, Statements: 3}, "67% coverage"},
		{"rounds down", Snapshot{Hits: 1, Statements: 3}, "33% coverage"},
		{"full", Snapshot{Hits: 50, Statements: 50}, "100% coverage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Text())
		})
	}
}

func TestSnapshot_GatePercent(t *testing.T) {
	partial := Snapshot{Hits: 45, Statements: 50}
	assert.Equal(t, 90, partial.GatePercent(FormulaRound))
	// Legacy truncates the ratio before scaling: any partial coverage is 0.
	assert.Equal(t, 0, partial.GatePercent(FormulaLegacy))
	assert.Equal(t, 100, Snapshot{Hits: 50, Statements: 50}.GatePercent(FormulaLegacy))
	assert.Equal(t, 0, Snapshot{}.GatePercent(FormulaRound))
}

func TestParseFormula(t *testing.T) {
	assert.Equal(t, FormulaLegacy, ParseFormula("legacy"))
	assert.Equal(t, FormulaRound, ParseFormula("round"))
	assert.Equal(t, FormulaRound, ParseFormula(""))
	assert.Equal(t, FormulaRound, ParseFormula("bogus"))
}

func TestStatic_Snapshot(t *testing.T) {
	s, err := Static{S: Snapshot{Hits: 1, Statements: 2}}.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Hits: 1, Statements: 2}, s)
}

func TestFileProvider_ReadsAndMergesProfiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("a.out", "mode: set\n"+
		"example.com/p/a.go:1.1,2.10 3 1\n"+
		"example.com/p/a.go:3.1,4.10 2 0\n")
	write("b.out", "mode: set\n"+
		"example.com/p/b.go:1.1,2.10 4 7\n")

	snap, err := FileProvider{Pattern: filepath.Join(dir, "*.out")}.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Hits: 7, Statements: 9}, snap)
}

func TestFileProvider_NoMatches_YieldsUnknown(t *testing.T) {
	snap, err := FileProvider{Pattern: filepath.Join(t.TempDir(), "*.out")}.Snapshot()
	require.NoError(t, err)
	assert.False(t, snap.Known())
}

func TestFileProvider_MalformedProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.out"), []byte("not a profile\n"), 0o644))
	_, err := FileProvider{Pattern: filepath.Join(dir, "*.out")}.Snapshot()
	assert.Error(t, err)
}
