package walker

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when a directory cannot be listed or an
	// entry cannot be inspected. It aborts the whole scan.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStaleEntry marks an entry that disappeared between being listed and
	// being inspected. Scan treats such entries as absent.
	ErrStaleEntry = errors.New("stale entry")
)

// ScanError names the root-relative path that made a scan fail.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
