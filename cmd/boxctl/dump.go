package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/printer"
)

var dumpMaxBytes int

var dumpCmd = &cobra.Command{
	Use:   "dump <file> <node-path>",
	Short: "Show one node's fields and bytes",
	Long: `Prints the header fields and decoded value of one node, then a hex dump
of its bytes starting at the header.

Path segments are separated by "/" or ".". A number picks a child by
position; anything else matches a type code or element name, ignoring case.`,
	Example: `  boxctl dump movie.mp4 moov/mvhd
  boxctl dump movie.mp4 1.2.0 --max-bytes 64
  boxctl dump clip.mkv Segment/Info/MuxingApp`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error { return runDump(args) },
}

func init() {
	dumpCmd.Flags().IntVar(&dumpMaxBytes, "max-bytes", printer.DefaultMaxValueBytes,
		"bytes to hex dump, 0 for the snapshot cap")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(args []string) error {
	tune := func(o *printer.Options) { o.MaxValueBytes = dumpMaxBytes }
	return withPrinter(args[0], tune, func(_ *container.File, p *printer.Printer) error {
		if err := p.PrintNode(args[1]); err != nil {
			return fmt.Errorf("dump %s: %w", args[1], err)
		}
		return nil
	})
}
