package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/printer"
)

var (
	treeDepth   int
	treeValues  bool
	treeCompact bool
	treeOffsets bool
)

var treeCmd = &cobra.Command{
	Use:   "tree <file> [node-path]",
	Short: "Print the box or element tree",
	Long: `Prints one line per node: its type code, name, offset and size, plus any
parse error attached to it. Give a node path to print only that subtree.`,
	Example: `  boxctl tree movie.mp4
  boxctl tree movie.mp4 moov/trak --depth 3
  boxctl tree clip.mkv Segment/Tracks --values`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error { return runTree(args) },
}

func init() {
	fl := treeCmd.Flags()
	fl.IntVar(&treeDepth, "depth", 0, "levels to print, 0 for all")
	fl.BoolVar(&treeValues, "values", false, "append decoded values")
	fl.BoolVar(&treeCompact, "compact", false, "indent by one space per level")
	fl.BoolVar(&treeOffsets, "offsets", true, "show offsets and sizes")
	rootCmd.AddCommand(treeCmd)
}

func runTree(args []string) error {
	var sub string
	if len(args) == 2 {
		sub = args[1]
	}
	tune := func(o *printer.Options) {
		o.MaxDepth = treeDepth
		o.ShowValues = treeValues
		o.ShowOffsets = treeOffsets
		o.MaxValueBytes = 96
		if treeCompact {
			o.IndentSize = 1
		}
	}
	return withPrinter(args[0], tune, func(_ *container.File, p *printer.Printer) error {
		if err := p.PrintTree(sub); err != nil {
			return fmt.Errorf("tree %s: %w", args[0], err)
		}
		return nil
	})
}
