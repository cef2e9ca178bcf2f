package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/printer"
)

var (
	samplesTrack uint32
	samplesLimit int
)

var samplesCmd = &cobra.Command{
	Use:   "samples <file>",
	Short: "List where every sample is stored",
	Long: `Lists sample groups in file order: chunks of a flat MP4, track runs of a
fragmented one, or blocks of a Matroska cluster. Each sample is shown with
its absolute offset and size.`,
	Example: `  boxctl samples movie.mp4 --track 1 --limit 10
  boxctl samples live.mp4 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error { return runSamples(args) },
}

func init() {
	samplesCmd.Flags().Uint32Var(&samplesTrack, "track", 0, "only this track, 0 for all")
	samplesCmd.Flags().IntVar(&samplesLimit, "limit", 0, "groups to print, 0 for all")
	rootCmd.AddCommand(samplesCmd)
}

func runSamples(args []string) error {
	return withPrinter(args[0], nil, func(f *container.File, p *printer.Printer) error {
		if err := p.PrintSamples(samplesTrack, samplesLimit); err != nil {
			return fmt.Errorf("samples: %w", err)
		}
		if !jsonOut {
			st := f.SampleIndex().Stats()
			printInfo("\n%d groups, %d samples, %d bytes across %d tracks\n",
				st.Groups, st.Samples, st.Bytes, st.Tracks)
		}
		return nil
	})
}
