package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/boxkit/internal/logger"
	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/printer"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Persistent flags.
var (
	verbose  bool
	quiet    bool
	jsonOut  bool
	logFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "boxctl",
	Short: "Inspect MP4 and Matroska container files",
	Long: `boxctl is a tool for inspecting media container files: ISO base media
(MP4, MOV, fragmented MP4) and Matroska/WebM. It shows the box or element tree,
the byte layout of every sample, a summary of the tracks, and every structural
problem found in damaged files.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "progress notes and logs on stderr")
	pf.BoolVarP(&quiet, "quiet", "q", false, "only print results and errors")
	pf.BoolVar(&jsonOut, "json", false, "JSON output where supported")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitError ends the process with a status code and no further message.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// setupLogging wires --log-file and --log-level into the process logger.
// --verbose without a log file sends logs to stderr.
func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		return logger.Init(logger.Options{Enabled: true, Writer: f, Level: level})
	case verbose && !quiet:
		return logger.Init(logger.Options{Enabled: true, Writer: os.Stderr, Level: level})
	default:
		return logger.Init(logger.Options{})
	}
}

// openFile opens a container with the CLI's default options.
func openFile(path string) (*container.File, error) {
	printVerbose("Opening: %s\n", path)
	opts := types.DefaultOpenOptions()
	opts.Logger = logger.L
	f, err := container.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	printVerbose("Format: %s, %d nodes\n", f.Family(), f.NodeCount())
	return f, nil
}

// withPrinter opens path and hands fn a printer writing to stdout. tune
// adjusts the default printer options; --json is applied before it runs.
func withPrinter(path string, tune func(*printer.Options), fn func(*container.File, *printer.Printer) error) error {
	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if tune != nil {
		tune(&opts)
	}
	return fn(f, printer.New(f, os.Stdout, opts))
}

// printInfo writes to stdout unless --quiet.
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Printf(format, args...)
	}
}

// printVerbose writes progress notes to stderr under --verbose.
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
