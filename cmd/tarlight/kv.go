package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/please-build/tarlight"
)

func newGetCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get TARFILE NAME",
		Short: "Print the payload of the first member called NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := tarlight.ReadFile(args[0])
			if err != nil {
				return err
			}
			text, ok := a.Text(args[1])
			if !ok {
				return fmt.Errorf("%s: no member named %q", args[0], args[1])
			}
			fmt.Fprint(c.out, text)
			return nil
		},
	}
}

func newSetCommand(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set TARFILE NAME TEXT",
		Short: "Replace the payload of the first member called NAME, adding it if missing",
		Long: "Replace the payload of the first member called NAME, adding it if missing. TARFILE is created if it does not exist. " +
			"Only regular files survive the rewrite, so an archive holding directories, links or devices is refused unless --force is given.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(c, args[0], args[1], args[2], force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "rewrite even if non-regular members would be dropped")
	return cmd
}

func runSet(c *cli, tarfile, name, text string, force bool) error {
	a := tarlight.NewArchive()
	if _, err := os.Stat(tarfile); err == nil {
		data, err := tarlight.Load(tarfile)
		if err != nil {
			return err
		}
		if dropped := nonRegularMembers(data); len(dropped) > 0 {
			if !force {
				return fmt.Errorf("%s: rewriting would drop %d non-regular member(s): %s (use --force)",
					tarfile, len(dropped), strings.Join(dropped, ", "))
			}
			c.log.WithField("archive", tarfile).WithField("members", dropped).Warn("dropping non-regular members")
		}
		a = tarlight.ParseArchive(data)
	}
	a.SetText(name, text)
	c.log.WithField("name", name).WithField("size", len(text)).Debug("set")
	return tarlight.WriteFile(tarfile, a, 0644)
}

// nonRegularMembers returns the names of members that Decode leaves out.
func nonRegularMembers(data []byte) []string {
	var names []string
	rd := tarlight.NewReader(data)
	for {
		e, err := rd.Next()
		if err == io.EOF {
			return names
		}
		if !e.Header.IsRegular() {
			names = append(names, e.Header.Name)
		}
	}
}
