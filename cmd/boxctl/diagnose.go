package main

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/pkg/types"
)

var (
	diagFormat      string
	diagOutputFile  string
	diagShowSummary bool
)

// reportFormats maps --format values to renderers.
var reportFormats = map[string]func(*types.DiagnosticReport) (string, error){
	"text": func(r *types.DiagnosticReport) (string, error) {
		if diagShowSummary {
			return formatSummaryOnly(r), nil
		}
		return r.FormatText(), nil
	},
	"json": func(r *types.DiagnosticReport) (string, error) {
		s, err := r.FormatJSON()
		return s + "\n", err
	},
	"compact": func(r *types.DiagnosticReport) (string, error) { return r.FormatTextCompact(), nil },
	"hex":     func(r *types.DiagnosticReport) (string, error) { return r.FormatHexAnnotations(), nil },
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Report every structural problem in a container file",
	Long: `Scans a whole MP4 or Matroska file and lists malformed headers, sizes
that overrun their parent or the file, payloads of the wrong length, and
sample tables or track runs that disagree with each other. Each finding
carries its byte offset and the recovery the parser applied.

Exit status is 2 if the top-level scan had to stop early, 1 if any node was
abandoned, and 0 otherwise.`,
	Example: `  boxctl diagnose movie.mp4
  boxctl diagnose -f json movie.mp4 | jq '.summary'
  boxctl diagnose -f compact broken.mkv
  boxctl diagnose -o report.txt movie.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	names := slices.Sorted(maps.Keys(reportFormats))
	f := diagnoseCmd.Flags()
	f.StringVarP(&diagFormat, "format", "f", "text", "report format: "+strings.Join(names, ", "))
	f.StringVarP(&diagOutputFile, "output", "o", "", "write the report to this file")
	f.BoolVarP(&diagShowSummary, "summary", "s", false, "text format: counts only")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(_ *cobra.Command, args []string) error {
	render, ok := reportFormats[diagFormat]
	if !ok {
		return fmt.Errorf("unknown format: %s", diagFormat)
	}
	path := args[0]
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file not found: %s", path)
	}

	printVerbose("Scanning %s\n", path)
	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report := f.Diagnostics()
	out, err := render(report)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if diagOutputFile == "" {
		fmt.Print(out)
	} else {
		if err := os.WriteFile(diagOutputFile, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printInfo("Report written to %s\n", diagOutputFile)
	}
	return diagnoseStatus(report)
}

// diagnoseStatus turns the worst severity into the process exit code.
func diagnoseStatus(r *types.DiagnosticReport) error {
	switch {
	case r.HasCriticalIssues():
		printVerbose("critical issues found\n")
		return &exitError{code: 2}
	case r.HasErrors():
		printVerbose("errors found\n")
		return &exitError{code: 1}
	}
	return nil
}

func formatSummaryOnly(r *types.DiagnosticReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d bytes, %d nodes, scanned in %v\n", r.FilePath, r.FileSize, r.Nodes, r.ScanTime)
	fmt.Fprintf(&b, "critical=%d errors=%d warnings=%d info=%d truncated=%d\n",
		r.Summary.Critical, r.Summary.Errors, r.Summary.Warnings, r.Summary.Info, r.Summary.Truncations)
	return b.String()
}
