package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dirwatch/internal/compare"
	"dirwatch/internal/logger"
	"dirwatch/internal/poller"
	"dirwatch/internal/tree"
)

type changeRecord struct {
	Root     string    `json:"root"`
	Time     time.Time `json:"time"`
	Digest   string    `json:"digest,omitempty"`
	Added    []string  `json:"added"`
	Modified []string  `json:"modified"`
	Removed  []string  `json:"removed"`
	Paths    []string  `json:"paths"`
}

func pathsOf(changes []compare.Change) []string {
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, c.Path)
	}
	return paths
}

// printer serializes change output from concurrently polled trees.
type printer struct {
	mu      sync.Mutex
	out     io.Writer
	lg      *logger.ColorLogger
	json    bool
	report  bool
	prefix  bool
	changed bool
}

func (p *printer) print(t *tree.Tree, result *compare.CompareResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.changed = true

	digest, err := t.Snapshot().Digest()
	if err != nil {
		p.lg.Warnf("watch :: digest of %s: %v", t.Root(), err)
	}
	p.lg.Printcf(logger.ColorGreen, "watch :: %s changed (%d paths, digest %s)", t.Root(), len(result.Paths()), digest)

	switch {
	case p.json:
		rec := changeRecord{
			Root:     t.Root(),
			Time:     time.Now(),
			Digest:   digest,
			Added:    pathsOf(result.Added),
			Modified: pathsOf(result.Modified),
			Removed:  pathsOf(result.Removed),
			Paths:    result.Paths(),
		}
		if err := json.NewEncoder(p.out).Encode(rec); err != nil {
			p.lg.Errorf("watch :: encode: %v", err)
		}
	case p.report:
		fmt.Fprintln(p.out, compare.FormatReport(result))
	default:
		for _, rel := range result.Paths() {
			if p.prefix {
				fmt.Fprintln(p.out, path.Join(t.Root(), rel))
			} else {
				fmt.Fprintln(p.out, rel)
			}
		}
	}
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		interval  time.Duration
		notify    bool
		jsonOut   bool
		report    bool
		once      bool
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "watch [directory...]",
		Short: "Poll directories and print the files that changed",
		Long: `Poll each directory and print the tracked files that were added, removed,
or modified since the previous scan.

With --once, a single refresh is made after one interval and the exit code
reports the outcome: 0 no changes, 1 changes, 2 scan error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			cfg, rules, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				cfg.Interval = interval
			}
			if notify {
				cfg.Notify = true
			}

			lg := opts.logger(cmd.ErrOrStderr())

			trees := make([]*tree.Tree, 0, len(dirs))
			for _, dir := range dirs {
				t, err := openTree(dir, rules, cfg, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				lg.Infof("watch :: %s tracking %d files every %v", t.Root(), t.Snapshot().Len(), cfg.Interval)
				trees = append(trees, t)
			}

			p := &printer{
				out:    cmd.OutOrStdout(),
				lg:     lg,
				json:   jsonOut,
				report: report,
				prefix: len(trees) > 1,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if once {
				return refreshOnce(ctx, trees, cfg.Interval, p)
			}

			pollerOpts := []poller.Option{
				poller.WithInterval(cfg.Interval),
				poller.WithLogger(lg),
			}
			if cfg.Notify {
				pollerOpts = append(pollerOpts, poller.WithNotify(0))
			}
			if keepGoing {
				pollerOpts = append(pollerOpts, poller.WithKeepGoing())
			}

			return poller.New(trees, p.print, pollerOpts...).Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.DurationVarP(&interval, "interval", "i", time.Second, "Poll interval")
	flags.BoolVar(&notify, "notify", false, "Refresh early when the OS reports filesystem activity")
	flags.BoolVar(&jsonOut, "json", false, "Print one JSON object per refresh with changes")
	flags.BoolVar(&report, "report", false, "Print a classified report instead of bare paths")
	flags.BoolVar(&once, "once", false, "Refresh once after one interval and exit")
	flags.BoolVar(&keepGoing, "keep-going", false, "Log failed refreshes and keep polling")

	return cmd
}

func refreshOnce(ctx context.Context, trees []*tree.Tree, interval time.Duration, p *printer) error {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(interval):
	}

	for _, t := range trees {
		result, err := t.RefreshChanges()
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		if result.HasChanges() {
			p.print(t, result)
		}
	}

	if p.changed {
		return &exitError{code: 1}
	}
	return nil
}
