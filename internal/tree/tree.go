package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"dirwatch/internal/compare"
	"dirwatch/internal/match"
	"dirwatch/internal/snapshot"
	"dirwatch/internal/walker"
)

// Observer receives scan progress. Begin is called with the number of files
// tracked by the previous snapshot (zero on the initial scan) and End once
// the scan finishes, successfully or not.
type Observer interface {
	walker.Observer
	Begin(expectedFiles int)
	End()
}

type Option func(t *Tree)

// WithFS scans fsys instead of the operating system directory at root.
func WithFS(fsys fs.FS) Option {
	return func(t *Tree) {
		t.fsys = fsys
	}
}

func WithObserver(obs Observer) Option {
	return func(t *Tree) {
		t.obs = obs
	}
}

// Tree tracks the files below a root directory. It holds the snapshot taken
// by the most recent scan; Refresh replaces it and reports the difference.
//
// FullFileList and Snapshot may be called concurrently with Refresh.
// Concurrent Refresh calls are serialized.
type Tree struct {
	root  string
	rules match.Set
	fsys  fs.FS
	obs   Observer

	mu      sync.Mutex
	current atomic.Pointer[snapshot.Snapshot]
}

// New validates root and performs the initial scan.
func New(root string, rules match.Set, opts ...Option) (*Tree, error) {
	t := &Tree{
		root:  root,
		rules: rules,
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.checkRoot(); err != nil {
		return nil, err
	}

	snap, err := t.scan(0)
	if err != nil {
		return nil, fmt.Errorf("initial scan of %s: %w", root, err)
	}
	t.current.Store(snap)

	return t, nil
}

func (t *Tree) checkRoot() error {
	var info fs.FileInfo
	var err error
	if t.fsys != nil {
		info, err = fs.Stat(t.fsys, ".")
	} else {
		info, err = os.Stat(t.root)
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, t.root)
	case err != nil:
		return fmt.Errorf("failed to stat root %s: %w", t.root, err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotADirectory, t.root)
	}

	if t.fsys == nil {
		t.fsys = os.DirFS(t.root)
	}
	return nil
}

func (t *Tree) scan(expected int) (*snapshot.Snapshot, error) {
	if t.obs == nil {
		return walker.Scan(t.fsys, t.rules, nil)
	}

	t.obs.Begin(expected)
	defer t.obs.End()
	return walker.Scan(t.fsys, t.rules, t.obs)
}

func (t *Tree) Root() string { return t.root }

func (t *Tree) Rules() match.Set { return t.rules }

// Snapshot returns the current snapshot.
func (t *Tree) Snapshot() *snapshot.Snapshot {
	return t.current.Load()
}

// FullFileList returns the tracked paths of the current snapshot in plain
// string order. It does not rescan.
func (t *Tree) FullFileList() []string {
	return t.current.Load().Paths()
}

// Refresh rescans the tree and returns the sorted paths that were added,
// removed, or modified since the previous scan.
func (t *Tree) Refresh() ([]string, error) {
	result, err := t.RefreshChanges()
	if err != nil {
		return nil, err
	}
	return result.Paths(), nil
}

// RefreshChanges is like Refresh but classifies each change. When the scan
// fails the current snapshot is kept.
func (t *Tree) RefreshChanges() (*compare.CompareResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.current.Load()

	snap, err := t.scan(old.Len())
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", t.root, err)
	}

	result := compare.Compare(old, snap)
	t.current.Store(snap)

	return result, nil
}
