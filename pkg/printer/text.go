package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/boxkit/pkg/types"
)

// printTreeText prints n and its children, one line per node.
func (p *Printer) printTreeText(n *types.Node, depth int) {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return
	}
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	fmt.Fprintf(p.writer, "%s[%s] %s", indent, n.TypeString(), n.Name)
	if p.opts.ShowOffsets {
		off, size := n.ByteRange()
		fmt.Fprintf(p.writer, " @%d size=%d", off, size)
	}
	if n.Truncated {
		fmt.Fprint(p.writer, " (truncated)")
	}
	if n.Err != nil {
		fmt.Fprintf(p.writer, " !%v", n.Err)
	}
	if p.opts.ShowValues && !n.Value.IsEmpty() {
		fmt.Fprintf(p.writer, " = %s", p.clip(n.Value.String()))
	}
	fmt.Fprintln(p.writer)

	for _, c := range n.Children() {
		p.printTreeText(c, depth+1)
	}
}

// clip shortens long one-line values.
func (p *Printer) clip(s string) string {
	limit := p.opts.MaxValueBytes
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func (p *Printer) printNodeText(n *types.Node, data []byte, capped bool) {
	w := p.writer
	off, size := n.ByteRange()

	fmt.Fprintf(w, "Node:      %s [%s]\n", n.Name, n.TypeString())
	fmt.Fprintf(w, "Path:      %s\n", n.Path())
	fmt.Fprintf(w, "Kind:      %s\n", n.Kind)
	fmt.Fprintf(w, "Offset:    %d (0x%X)\n", off, off)
	fmt.Fprintf(w, "Header:    %d bytes\n", n.HeaderLen)
	fmt.Fprintf(w, "Size:      %d bytes\n", size)
	switch n.DeclaredSize {
	case types.SizeUnknown:
		fmt.Fprintf(w, "Declared:  unknown\n")
	case types.SizeToEOF:
		fmt.Fprintf(w, "Declared:  to end of file\n")
	default:
		if n.DeclaredSize != n.Consumed {
			fmt.Fprintf(w, "Declared:  %d payload bytes, %d parsed\n", n.DeclaredSize, n.Consumed)
		}
	}
	if n.Family == types.FamilyEBML {
		fmt.Fprintf(w, "Level:     %d\n", n.Level)
	}
	if n.FullBox {
		fmt.Fprintf(w, "Version:   %d\n", n.Version)
		fmt.Fprintf(w, "Flags:     0x%06X\n", n.Flags)
	}
	if n.Truncated {
		fmt.Fprintf(w, "Truncated: yes\n")
	}
	if n.Err != nil {
		fmt.Fprintf(w, "Error:     %v\n", n.Err)
	}
	if !n.Value.IsEmpty() {
		fmt.Fprintf(w, "Value:     %s\n", n.Value.String())
	}
	if groups := p.file.SampleIndexFor(n); len(groups) > 0 {
		fmt.Fprintf(w, "Groups:    %d\n", len(groups))
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, HexDump(data, off))
	if capped {
		fmt.Fprintf(w, "... (%d of %d bytes shown)\n", len(data), size)
	}
}

func (p *Printer) printSamplesText(groups []*types.ChunkGroup) {
	w := p.writer
	for _, g := range groups {
		kind := "chunk"
		if g.Fragmented {
			kind = fmt.Sprintf("fragment %d run", g.Sequence)
		}
		fmt.Fprintf(w, "track %d %s %d @%d: %d samples, %d bytes\n",
			g.TrackID, kind, g.Ordinal, g.Offset, len(g.Samples), g.TotalSize())
		if g.Issue != "" {
			fmt.Fprintf(w, "  ! %s\n", g.Issue)
		}
		for _, s := range g.Samples {
			fmt.Fprintf(w, "  #%d @%d size=%d\n", s.Number, s.Offset, s.Size)
		}
	}
}

func (p *Printer) printSummaryText(s *types.Summary) {
	w := p.writer
	fmt.Fprintf(w, "File:        %s\n", s.Filename)
	fmt.Fprintf(w, "Size:        %d bytes\n", s.FileSize)
	fmt.Fprintf(w, "Format:      %s\n", s.Family)
	if s.Brand != "" {
		fmt.Fprintf(w, "Brand:       %s", s.Brand)
		if len(s.CompatibleBrands) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(s.CompatibleBrands, ", "))
		}
		fmt.Fprintln(w)
	}
	if s.DocType != "" {
		fmt.Fprintf(w, "DocType:     %s\n", s.DocType)
	}
	if s.MuxingApp != "" {
		fmt.Fprintf(w, "Muxing app:  %s\n", s.MuxingApp)
	}
	if s.WritingApp != "" {
		fmt.Fprintf(w, "Writing app: %s\n", s.WritingApp)
	}
	if !s.CreationTime.IsZero() {
		fmt.Fprintf(w, "Created:     %s\n", s.CreationTime.Format("2006-01-02 15:04:05"))
	}
	if !s.ModificationTime.IsZero() {
		fmt.Fprintf(w, "Modified:    %s\n", s.ModificationTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Duration:    %.3fs\n", s.Duration)
	if s.Bitrate > 0 {
		fmt.Fprintf(w, "Bitrate:     %.0f bps\n", s.Bitrate)
	}
	if s.ContainsFragments {
		fmt.Fprintf(w, "Fragmented:  yes\n")
	}

	for _, t := range s.Tracks {
		fmt.Fprintf(w, "\nTrack %d: %s", t.ID, t.MediaType)
		if t.Codec != "" {
			fmt.Fprintf(w, " (%s)", t.Codec)
		}
		fmt.Fprintln(w)
		if t.Language != "" {
			fmt.Fprintf(w, "  Language:    %s\n", t.Language)
		}
		if t.Width > 0 || t.Height > 0 {
			fmt.Fprintf(w, "  Dimensions:  %dx%d\n", t.Width, t.Height)
		}
		if t.FrameRate > 0 {
			fmt.Fprintf(w, "  Frame rate:  %.2f\n", t.FrameRate)
		}
		if t.Channels > 0 {
			fmt.Fprintf(w, "  Channels:    %d\n", t.Channels)
		}
		if t.SampleRate > 0 {
			fmt.Fprintf(w, "  Sample rate: %g Hz\n", t.SampleRate)
		}
		if t.Duration > 0 {
			fmt.Fprintf(w, "  Duration:    %.3fs\n", t.Duration)
		}
		if t.Samples > 0 {
			fmt.Fprintf(w, "  Samples:     %d\n", t.Samples)
		}
		if t.Bitrate > 0 {
			fmt.Fprintf(w, "  Bitrate:     %.0f bps\n", t.Bitrate)
		}
	}
}
