package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/please-build/tarlight"
	"github.com/please-build/tarlight/internal/fsutil"
)

func newPackCommand(c *cli) *cobra.Command {
	var excludes []string
	cmd := &cobra.Command{
		Use:   "pack TARFILE PATH...",
		Short: "Create an archive from files and directories",
		Long: "Create an archive from files and directories. Files are stored under their base name, " +
			"directories are walked and their regular files stored under paths relative to them. " +
			"The archive is gzipped when TARFILE ends in .tar.gz or .tgz.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(c, args[0], args[1:], excludes)
		},
	}
	cmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "glob (doublestar syntax) of paths to leave out")
	return cmd
}

func runPack(c *cli, tarfile string, paths, excludes []string) error {
	a := tarlight.NewArchive()
	for _, p := range paths {
		entries, err := fsutil.Walk(p, fsutil.WithExcludes(excludes...), fsutil.WithLogger(c.log))
		if err != nil {
			var patternErr *fsutil.ErrPattern
			if errors.As(err, &patternErr) {
				return err
			}
			c.log.WithField("path", p).WithError(err).Warn("skipped")
			continue
		}
		for _, e := range entries {
			a.Add(e)
		}
	}

	if err := tarlight.WriteFile(tarfile, a, 0644); err != nil {
		return err
	}
	c.log.WithField("entries", a.Len()).Debug("archive written")
	fmt.Fprintf(c.out, "Created tar archive: %s\n", tarfile)
	return nil
}
