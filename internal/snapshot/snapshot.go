package snapshot

import (
	"sort"
	"time"
)

// Snapshot maps root-relative file paths to their modification times as
// captured by one scan. A Snapshot is never modified after New returns it;
// a nil *Snapshot behaves as an empty one.
type Snapshot struct {
	files map[string]time.Time
}

// New wraps files. The caller must not modify the map afterwards.
func New(files map[string]time.Time) *Snapshot {
	if files == nil {
		files = make(map[string]time.Time)
	}
	return &Snapshot{files: files}
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

// ModTime returns the recorded modification time of path.
func (s *Snapshot) ModTime(path string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, ok := s.files[path]
	return t, ok
}

func (s *Snapshot) Has(path string) bool {
	_, ok := s.ModTime(path)
	return ok
}

// Paths returns every tracked path in plain string order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, s.Len())
	if s == nil {
		return paths
	}
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Each calls fn for every entry in unspecified order.
func (s *Snapshot) Each(fn func(path string, modTime time.Time)) {
	if s == nil {
		return
	}
	for path, t := range s.files {
		fn(path, t)
	}
}
