package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"syscall"
	"time"

	"dirwatch/internal/match"
	"dirwatch/internal/snapshot"
)

// Observer is notified as a scan progresses. Paths are root-relative; the
// root directory itself is reported as ".".
type Observer interface {
	Directory(relPath string)
	File(relPath string)
}

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

type walker struct {
	fsys  fs.FS
	rules match.Set
	obs   Observer
	files map[string]time.Time
}

// Scan walks fsys depth-first from its root and records the modification
// time of every regular file not excluded by rules. Excluded directories are
// pruned along with everything beneath them.
//
// Symlinks to regular files are tracked with the target's modification time.
// Symlinks to directories are not followed, and dangling symlinks are
// skipped. obs may be nil.
func Scan(fsys fs.FS, rules match.Set, obs Observer) (*snapshot.Snapshot, error) {
	w := &walker{
		fsys:  fsys,
		rules: rules,
		obs:   obs,
		files: make(map[string]time.Time),
	}

	if err := w.walkDir("."); err != nil {
		return nil, err
	}

	return snapshot.New(w.files), nil
}

func (w *walker) walkDir(dir string) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		// A subdirectory removed, or replaced by a file, after its parent
		// was listed
		if dir != "." && (errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)) {
			return nil
		}
		return &ScanError{Path: dir, Err: classify(err)}
	}

	if w.obs != nil {
		w.obs.Directory(dir)
	}

	for _, entry := range entries {
		name := entry.Name()
		relPath := path.Join(dir, name)

		if w.rules.Excludes(name, relPath) {
			continue
		}

		kind, modTime, err := w.inspect(relPath, entry)
		if errors.Is(err, ErrStaleEntry) {
			continue
		}
		if err != nil {
			return &ScanError{Path: relPath, Err: err}
		}

		switch kind {
		case kindDir:
			if err := w.walkDir(relPath); err != nil {
				return err
			}
		case kindFile:
			w.files[relPath] = modTime
			if w.obs != nil {
				w.obs.File(relPath)
			}
		}
	}

	return nil
}

func (w *walker) inspect(relPath string, entry fs.DirEntry) (entryKind, time.Time, error) {
	mode := entry.Type()

	switch {
	case mode&fs.ModeSymlink != 0:
		info, err := fs.Stat(w.fsys, relPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return kindOther, time.Time{}, ErrStaleEntry
			}
			return kindOther, time.Time{}, classify(err)
		}
		if !info.Mode().IsRegular() {
			return kindOther, time.Time{}, nil
		}
		return kindFile, info.ModTime(), nil

	case entry.IsDir():
		return kindDir, time.Time{}, nil

	case mode.IsRegular():
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return kindOther, time.Time{}, ErrStaleEntry
			}
			return kindOther, time.Time{}, classify(err)
		}
		// The entry may have been replaced by a directory since listing
		if !info.Mode().IsRegular() {
			return kindOther, time.Time{}, ErrStaleEntry
		}
		return kindFile, info.ModTime(), nil
	}

	return kindOther, time.Time{}, nil
}

func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}
