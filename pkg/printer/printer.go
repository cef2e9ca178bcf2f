// Package printer renders an opened container file for terminals and
// scripts: the node tree, a single node with a hex dump, the sample groups
// and the summary, as text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/types"
)

const (
	DefaultIndentSize    = 2
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 256
	DefaultHexWidth      = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowValues includes decoded values in tree output.
	// Default: true
	ShowValues bool

	// ShowOffsets includes offsets and sizes in tree output.
	// Default: true
	ShowOffsets bool

	// MaxValueBytes limits how many bytes a hex dump shows. Longer nodes
	// are cut. Set to 0 for the file's snapshot cap.
	// Default: 256
	MaxValueBytes int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowValues:    true,
		ShowOffsets:   true,
		MaxValueBytes: DefaultMaxValueBytes,
	}
}

// Printer handles formatted output of a container file.
type Printer struct {
	opts   Options
	writer io.Writer
	file   *container.File
}

// New creates a new Printer.
//
// Example:
//
//	f, _ := container.Open("movie.mp4", types.DefaultOpenOptions())
//	p := printer.New(f, os.Stdout, printer.DefaultOptions())
//	p.PrintTree("moov")
func New(f *container.File, w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{
		file:   f,
		writer: w,
		opts:   opts,
	}
}

// PrintTree prints the subtree at path, or the whole file when path is
// empty. Paths follow container.File.Find.
func (p *Printer) PrintTree(path string) error {
	nodes := p.file.TopLevel()
	if path != "" {
		n, err := p.file.Find(path)
		if err != nil {
			return fmt.Errorf("find node %q: %w", path, err)
		}
		nodes = []*types.Node{n}
	}

	if p.opts.Format == FormatJSON {
		return p.printTreeJSON(nodes)
	}
	for _, n := range nodes {
		p.printTreeText(n, 0)
	}
	return nil
}

// PrintNode prints one node's header fields, its decoded value and a hex
// dump of its bytes.
func (p *Printer) PrintNode(path string) error {
	n, err := p.file.Find(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	data, capped, err := p.file.NodeBytes(n)
	if err != nil {
		return err
	}
	if p.opts.MaxValueBytes > 0 && len(data) > p.opts.MaxValueBytes {
		data = data[:p.opts.MaxValueBytes]
		capped = true
	}

	if p.opts.Format == FormatJSON {
		return p.printNodeJSON(n, data, capped)
	}
	p.printNodeText(n, data, capped)
	return nil
}

// PrintSamples prints the sample groups of one track, or of every track
// when track is zero. limit bounds the number of groups (0 = all).
func (p *Printer) PrintSamples(track uint32, limit int) error {
	ix := p.file.SampleIndex()
	if ix == nil {
		return fmt.Errorf("sample index disabled")
	}
	groups := ix.Groups
	if track != 0 {
		groups = ix.Track(track)
	}
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	if p.opts.Format == FormatJSON {
		return writeJSON(p.writer, groups)
	}
	p.printSamplesText(groups)
	return nil
}

// PrintSummary prints the file summary.
func (p *Printer) PrintSummary() error {
	s := p.file.Summary()
	if p.opts.Format == FormatJSON {
		return writeJSON(p.writer, s)
	}
	p.printSummaryText(s)
	return nil
}
