package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/printer"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a container file",
	Long: `Prints the brand or document type, duration and overall bitrate, then
for each track its media type, codec, picture size or audio layout, sample
count and bitrate.`,
	Example: `  boxctl info movie.mp4
  boxctl info clip.webm --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error { return runInfo(args) },
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(args []string) error {
	return withPrinter(args[0], nil, func(f *container.File, p *printer.Printer) error {
		if jsonOut {
			return printJSON(f.Summary())
		}
		return p.PrintSummary()
	})
}
