package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar renders scan progress on a single terminal line. The total is the
// number of files the previous scan tracked, so it is an estimate: the bar
// is capped at 100% and shows a plain counter when no estimate exists.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	dir        string
	lastUpdate time.Time
	interval   time.Duration
}

func New(w io.Writer) *Bar {
	if w == nil {
		w = os.Stdout
	}
	return &Bar{
		width:    50,
		writer:   w,
		interval: 100 * time.Millisecond,
	}
}

// IsTerminalWriter reports whether w is a file backed by a character device.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func (b *Bar) Begin(expectedFiles int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total = int64(expectedFiles)
	b.current = 0
	b.dir = ""
	b.lastUpdate = time.Time{}
}

func (b *Bar) Directory(relPath string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dir = relPath
	b.maybeRender()
}

func (b *Bar) File(string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	b.maybeRender()
}

func (b *Bar) End() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.total < b.current {
		b.total = b.current
	}
	b.render()
	fmt.Fprintf(b.writer, "\n")
}

// maybeRender throttles redraws to reduce flickering. mu must be held.
func (b *Bar) maybeRender() {
	now := time.Now()
	if now.Sub(b.lastUpdate) < b.interval {
		return
	}
	b.lastUpdate = now
	b.render()
}

// render must be called with mu already locked
func (b *Bar) render() {
	var dirDisplay string
	if b.dir != "" {
		dirDisplay = " | " + b.dir
	}

	if b.total == 0 {
		fmt.Fprintf(b.writer, "\r\033[K[scanning] %d files%s", b.current, dirDisplay)
		return
	}

	current := b.current
	if current > b.total {
		current = b.total
	}
	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)%s",
		bar, int(percent), b.current, b.total, dirDisplay)
}
