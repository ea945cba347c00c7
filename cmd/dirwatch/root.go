package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dirwatch/internal/config"
	"dirwatch/internal/logger"
	"dirwatch/internal/match"
	"dirwatch/internal/progress"
	"dirwatch/internal/tree"
)

type globalOptions struct {
	configPath   string
	exclude      []string
	excludeRegex []string
	quiet        bool
	noColor      bool
	progress     bool
}

func (o *globalOptions) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configPath, "config", "c", "dirwatch.yml", "Config file path")
	flags.StringArrayVarP(&o.exclude, "exclude", "e", nil, "Exclude a path, name, or name glob (repeatable)")
	flags.StringArrayVarP(&o.excludeRegex, "exclude-regex", "r", nil, "Exclude names matching a regular expression (repeatable)")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "Only print changes")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable colored log output")
	flags.BoolVar(&o.progress, "progress", false, "Show scan progress")
}

// load reads the config file and merges command-line exclusions into it.
func (o *globalOptions) load() (*config.Config, match.Set, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Exclude = append(cfg.Exclude, o.exclude...)
	cfg.ExcludeRegex = append(cfg.ExcludeRegex, o.excludeRegex...)
	if o.progress {
		cfg.Progress = true
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, nil, err
	}
	return cfg, rules, nil
}

func (o *globalOptions) logger(w io.Writer) *logger.ColorLogger {
	if o.quiet {
		return logger.Discard()
	}
	return logger.New(w, "dirwatch --> ", !o.noColor && progress.IsTerminalWriter(w))
}

func openTree(dir string, rules match.Set, cfg *config.Config, stderr io.Writer) (*tree.Tree, error) {
	absDirectory, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var opts []tree.Option
	if cfg.Progress {
		opts = append(opts, tree.WithObserver(progress.New(stderr)))
	}

	return tree.New(absDirectory, rules, opts...)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "dirwatch",
		Short:         "Track files below a directory and report what changed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root.PersistentFlags())

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newWatchCmd(opts))

	root.SetErr(os.Stderr)
	return root
}
