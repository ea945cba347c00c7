package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var digest bool

	cmd := &cobra.Command{
		Use:   "list [directory]",
		Short: "Print every tracked file, sorted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := "."
			if len(args) == 1 {
				directory = args[0]
			}

			cfg, rules, err := opts.load()
			if err != nil {
				return err
			}

			lg := opts.logger(cmd.ErrOrStderr())
			lg.Infof("list :: scanning %s with %d exclusion rules", directory, len(rules))

			t, err := openTree(directory, rules, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range t.FullFileList() {
				fmt.Fprintln(out, path)
			}

			if digest {
				d, err := t.Snapshot().Digest()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "digest %s\n", d)
			}

			lg.Infof("list :: %d files tracked", t.Snapshot().Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&digest, "digest", false, "Print the snapshot digest after the list")
	return cmd
}
