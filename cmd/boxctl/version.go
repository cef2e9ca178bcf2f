package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Set by the release build through -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		v, c := version, commit
		if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				v = info.Main.Version
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && c == "none" {
					c = s.Value
				}
			}
		}
		fmt.Printf("boxctl %s (commit %s)\n", v, c)
		fmt.Printf("  known MP4 box types:        %d\n", registry.Count(types.FamilyMP4))
		fmt.Printf("  known Matroska element IDs: %d\n", registry.Count(types.FamilyEBML))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
