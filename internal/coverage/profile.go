package coverage

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/tools/cover"
)

// FileProvider reads Go cover profiles matched by a doublestar pattern
// (e.g. "coverage.out" or "cover/**/*.out") and merges them into one
// snapshot. Every profiled block contributes its statement count;
// blocks with a nonzero execution count contribute to hits as well.
type FileProvider struct {
	Pattern string
}

func (p FileProvider) Snapshot() (Snapshot, error) {
	matches, err := doublestar.FilepathGlob(p.Pattern)
	if err != nil {
		return Snapshot{}, fmt.Errorf("globbing %q: %w", p.Pattern, err)
	}

	var snap Snapshot
	for _, path := range matches {
		profiles, err := cover.ParseProfiles(path)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parsing cover profile %s: %w", path, err)
		}
		for _, prof := range profiles {
			for _, b := range prof.Blocks {
				snap.Statements += b.NumStmt
				if b.Count > 0 {
					snap.Hits += b.NumStmt
				}
			}
		}
	}
	return snap, nil
}
