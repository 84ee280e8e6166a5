package main

import (
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/please-build/tarlight"
)

func newListCommand(c *cli) *cobra.Command {
	var withDigest bool
	cmd := &cobra.Command{
		Use:   "list TARFILE",
		Short: "List the regular files of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(c, args[0], withDigest)
		},
	}
	cmd.Flags().BoolVar(&withDigest, "digest", false, "show the sha256 digest of every payload")
	return cmd
}

func runList(c *cli, tarfile string, withDigest bool) error {
	a, err := tarlight.ReadFile(tarfile)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Files in %s:\n", tarfile)
	if withDigest {
		fmt.Fprintf(c.out, "%10s  %-71s  %s\n", "Size", "Digest", "Name")
	} else {
		fmt.Fprintf(c.out, "%10s  %s\n", "Size", "Name")
	}
	fmt.Fprintln(c.out, strings.Repeat("-", 50))
	for _, e := range a.Entries {
		if withDigest {
			fmt.Fprintf(c.out, "%10d  %s  %s\n", e.Header.Size, digest.FromBytes(e.Data), e.Header.Name)
		} else {
			fmt.Fprintf(c.out, "%10d  %s\n", e.Header.Size, e.Header.Name)
		}
	}
	fmt.Fprintf(c.out, "\nTotal: %d file(s)\n", a.Len())
	return nil
}
