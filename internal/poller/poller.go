package poller

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"dirwatch/internal/compare"
	"dirwatch/internal/logger"
	"dirwatch/internal/tree"
)

// Handler is called from the polling goroutine of t after every refresh
// that found changes. Handlers for different trees may run concurrently.
type Handler func(t *tree.Tree, result *compare.CompareResult)

type Option func(p *Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithNotify wakes a tree's poller early when the OS reports activity below
// its root, after debounce has passed without further events.
func WithNotify(debounce time.Duration) Option {
	return func(p *Poller) {
		p.notify = true
		if debounce > 0 {
			p.debounce = debounce
		}
	}
}

// WithKeepGoing logs failed refreshes and keeps polling instead of stopping.
func WithKeepGoing() Option {
	return func(p *Poller) {
		p.keepGoing = true
	}
}

func WithLogger(lg *logger.ColorLogger) Option {
	return func(p *Poller) {
		p.lg = lg
	}
}

// Poller refreshes a set of trees on a fixed interval.
type Poller struct {
	trees     []*tree.Tree
	handler   Handler
	interval  time.Duration
	debounce  time.Duration
	notify    bool
	keepGoing bool
	lg        *logger.ColorLogger
}

func New(trees []*tree.Tree, handler Handler, options ...Option) *Poller {
	p := &Poller{
		trees:    trees,
		handler:  handler,
		interval: time.Second,
		debounce: 50 * time.Millisecond,
		lg:       logger.Discard(),
	}

	for _, op := range options {
		op(p)
	}

	return p
}

// Run polls every tree until ctx is cancelled, which is not an error, or a
// refresh fails, which stops all trees and is returned.
func (p *Poller) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range p.trees {
		g.Go(func() error {
			return p.poll(ctx, t)
		})
	}
	return g.Wait()
}

func (p *Poller) poll(ctx context.Context, t *tree.Tree) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var wake <-chan struct{}
	if p.notify {
		n, err := newNotifier(t.Root(), t.Rules(), p.debounce)
		if err != nil {
			p.lg.Warnf("poller :: notify disabled for %s: %v", t.Root(), err)
		} else {
			defer n.Close()
			wake = n.C
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-wake:
		}

		result, err := t.RefreshChanges()
		if err != nil {
			if p.keepGoing {
				p.lg.Errorf("poller :: %v", err)
				continue
			}
			return err
		}

		if result.HasChanges() && p.handler != nil {
			p.handler(t, result)
		}
	}
}
