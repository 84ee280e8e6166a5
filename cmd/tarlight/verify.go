package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/please-build/tarlight"
)

func newVerifyCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TARFILE",
		Short: "Check the header checksum of every member, whatever its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(c, args[0])
		},
	}
}

func runVerify(c *cli, tarfile string) error {
	data, err := tarlight.Load(tarfile)
	if err != nil {
		return err
	}

	var total, bad int
	rd := tarlight.NewReader(data)
	for {
		e, err := rd.Next()
		if err == io.EOF {
			break
		}
		total++
		status := "OK"
		if !e.Header.VerifyChecksum(e.Block[:]) {
			status = "FAIL"
			bad++
		}
		fmt.Fprintf(c.out, "%-4s  %s\n", status, e.Header.Name)
	}
	if rd.Truncated() {
		c.log.WithField("archive", tarfile).Warn("archive is truncated, trailing member ignored")
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d headers failed checksum verification", bad, total)
	}
	return nil
}
