package poller

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"dirwatch/internal/match"
)

// notifier turns filesystem events below a root into debounced wake-ups.
// Events only shorten the wait before the next refresh; the refresh itself
// still rescans the tree, so dropped or coalesced events lose nothing.
type notifier struct {
	fw       *fsnotify.Watcher
	root     string
	rules    match.Set
	debounce time.Duration

	C chan struct{}

	closed chan struct{}
	wg     sync.WaitGroup
}

func newNotifier(root string, rules match.Set, debounce time.Duration) (*notifier, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	n := &notifier{
		fw:       fw,
		root:     root,
		rules:    rules,
		debounce: debounce,
		C:        make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}

	if err := n.watchTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}

	n.wg.Add(1)
	go n.run()

	return n, nil
}

// watchTree adds dir and every non-excluded directory below it.
func (n *notifier) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			// Unreadable subdirectories surface as scan errors instead
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != n.root && n.excluded(path) {
			return filepath.SkipDir
		}
		return n.fw.Add(path)
	})
}

func (n *notifier) excluded(path string) bool {
	rel, err := filepath.Rel(n.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return n.rules.Excludes(filepath.Base(path), rel)
}

func (n *notifier) run() {
	defer n.wg.Done()

	timer := time.NewTimer(n.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case e, ok := <-n.fw.Events:
			if !ok {
				return
			}
			if e.Has(fsnotify.Create) {
				if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() && !n.excluded(e.Name) {
					_ = n.watchTree(e.Name)
				}
			}
			timer.Reset(n.debounce)
		case _, ok := <-n.fw.Errors:
			if !ok {
				return
			}
		case <-timer.C:
			select {
			case n.C <- struct{}{}:
			default:
			}
		case <-n.closed:
			return
		}
	}
}

func (n *notifier) Close() {
	close(n.closed)
	_ = n.fw.Close()
	n.wg.Wait()
}
