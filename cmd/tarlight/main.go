// Command tarlight packs, unpacks, lists and edits USTAR archives.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cli struct {
	log   *logrus.Logger
	in    io.Reader
	out   io.Writer
	stdin *bufio.Reader
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	c := &cli{log: log, in: os.Stdin, out: os.Stdout}
	if err := newRootCommand(c).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCommand(c *cli) *cobra.Command {
	var verbose, quiet bool
	cmd := &cobra.Command{
		Use:           "tarlight",
		Short:         "Create, extract and inspect USTAR archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				c.log.SetLevel(logrus.DebugLevel)
			case quiet:
				c.log.SetLevel(logrus.WarnLevel)
			default:
				c.log.SetLevel(logrus.InfoLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every entry")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	cmd.AddCommand(
		newPackCommand(c),
		newUnpackCommand(c),
		newListCommand(c),
		newVerifyCommand(c),
		newGetCommand(c),
		newSetCommand(c),
	)
	return cmd
}

// prompt asks a yes/no question on the CLI's input. Anything but y or yes is no.
func (c *cli) prompt(path string) (bool, error) {
	if c.stdin == nil {
		c.stdin = bufio.NewReader(c.in)
	}
	fmt.Fprintf(c.out, "Overwrite %s? [y/N] ", path)
	line, err := c.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
