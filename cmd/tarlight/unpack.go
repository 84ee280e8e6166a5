package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/please-build/tarlight"
	"github.com/please-build/tarlight/internal/fsutil"
)

func newUnpackCommand(c *cli) *cobra.Command {
	var overwrite string
	cmd := &cobra.Command{
		Use:   "unpack TARFILE DIRECTORY",
		Short: "Extract the regular files of an archive",
		Long: "Extract the regular files of an archive into DIRECTORY, creating it if needed. " +
			"Members with absolute names or '..' elements are refused.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := fsutil.ParseOverwritePolicy(overwrite)
			if err != nil {
				return err
			}
			return runUnpack(c, args[0], args[1], policy)
		},
	}
	cmd.Flags().StringVar(&overwrite, "overwrite", fsutil.OverwriteAlways.String(), "what to do with existing files: always, never or prompt")
	return cmd
}

func runUnpack(c *cli, tarfile, dir string, policy fsutil.OverwritePolicy) error {
	a, err := tarlight.ReadFile(tarfile)
	if err != nil {
		return err
	}

	result, err := fsutil.Extract(dir, a.Entries,
		fsutil.WithOverwrite(policy),
		fsutil.WithPrompter(c.prompt),
		fsutil.WithLogger(c.log),
	)
	if result != nil {
		for _, name := range result.Extracted {
			fmt.Fprintf(c.out, "Extracted: %s\n", name)
		}
		fmt.Fprintf(c.out, "Extraction complete to: %s\n", dir)
	}
	return err
}
