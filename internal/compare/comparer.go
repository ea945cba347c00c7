package compare

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dirwatch/internal/snapshot"
)

type ChangeType string

const (
	Added    ChangeType = "ADDED"
	Modified ChangeType = "MODIFIED"
	Removed  ChangeType = "REMOVED"
)

// Change describes one path whose tracked status or modification time
// differs between two snapshots. OldModTime is zero for Added and
// NewModTime is zero for Removed.
type Change struct {
	Type       ChangeType
	Path       string
	OldModTime time.Time
	NewModTime time.Time
}

type CompareResult struct {
	Added    []Change
	Modified []Change
	Removed  []Change
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Modified) > 0 || len(r.Removed) > 0
}

// Paths returns every changed path in plain string order.
func (r *CompareResult) Paths() []string {
	paths := make([]string, 0, len(r.Added)+len(r.Modified)+len(r.Removed))
	for _, group := range [][]Change{r.Added, r.Modified, r.Removed} {
		for _, change := range group {
			paths = append(paths, change.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Compare computes the changes that turn oldSnap into newSnap. Either may
// be nil.
func Compare(oldSnap, newSnap *snapshot.Snapshot) *CompareResult {
	result := &CompareResult{
		Added:    make([]Change, 0),
		Modified: make([]Change, 0),
		Removed:  make([]Change, 0),
	}

	// Added and modified
	newSnap.Each(func(path string, newTime time.Time) {
		oldTime, exists := oldSnap.ModTime(path)
		if !exists {
			result.Added = append(result.Added, Change{
				Type:       Added,
				Path:       path,
				NewModTime: newTime,
			})
			return
		}
		if !oldTime.Equal(newTime) {
			result.Modified = append(result.Modified, Change{
				Type:       Modified,
				Path:       path,
				OldModTime: oldTime,
				NewModTime: newTime,
			})
		}
	})

	// Removed
	oldSnap.Each(func(path string, oldTime time.Time) {
		if !newSnap.Has(path) {
			result.Removed = append(result.Removed, Change{
				Type:       Removed,
				Path:       path,
				OldModTime: oldTime,
			})
		}
	})

	// Sort for deterministic output
	for _, group := range [][]Change{result.Added, result.Modified, result.Removed} {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Path < group[j].Path
		})
	}

	return result
}

const timeLayout = "2006-01-02 15:04:05.000"

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&report, "ADDED (%d files):\n", len(result.Added))
		for _, change := range result.Added {
			fmt.Fprintf(&report, "  + %s (modified: %s)\n",
				change.Path, change.NewModTime.Format(timeLayout))
		}
		report.WriteString("\n")
	}

	if len(result.Modified) > 0 {
		fmt.Fprintf(&report, "MODIFIED (%d files):\n", len(result.Modified))
		for _, change := range result.Modified {
			fmt.Fprintf(&report, "  ~ %s\n", change.Path)
			fmt.Fprintf(&report, "    Old: modified=%s\n", change.OldModTime.Format(timeLayout))
			fmt.Fprintf(&report, "    New: modified=%s\n", change.NewModTime.Format(timeLayout))
		}
		report.WriteString("\n")
	}

	if len(result.Removed) > 0 {
		fmt.Fprintf(&report, "REMOVED (%d files):\n", len(result.Removed))
		for _, change := range result.Removed {
			fmt.Fprintf(&report, "  - %s\n", change.Path)
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "Summary: %d added, %d modified, %d removed\n",
		len(result.Added), len(result.Modified), len(result.Removed))

	return report.String()
}
