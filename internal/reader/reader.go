// Package reader builds the node tree of an ISO-BMFF or Matroska file.
// Parsing is a single top-to-bottom pass over an in-memory buffer (usually
// a mapping of the file). Corrupt input never aborts the parse: a container
// whose children cannot be framed is closed at its last good child, the
// problem is recorded in the diagnostic report, and its siblings carry on.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/decode"
	"github.com/joshuapare/boxkit/internal/format"
	"github.com/joshuapare/boxkit/internal/logger"
	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Result is a finished tree.
type Result struct {
	Family types.Family
	Nodes  []*types.Node

	// Count is the number of nodes in the whole tree.
	Count int

	// Offset is where the top-level scan stopped; it equals the input
	// length unless the scan gave up early.
	Offset int64

	Report *types.DiagnosticReport
}

// Parse builds the node tree of data. It only fails on empty input;
// everything else is recovered from and reported in Result.Report.
func Parse(data []byte, opts types.OpenOptions) (*Result, error) {
	if len(data) == 0 {
		return nil, types.NewError(types.ErrKindTruncated, 0, "empty input", nil)
	}
	opts = opts.Normalize()
	b := &builder{
		data: data,
		fam:  format.DetectFamily(data),
		opts: opts,
		diag: newDiagnosticCollector(opts.CollectDiagnostics),
		log:  opts.Logger,
	}
	if b.log == nil {
		b.log = logger.L
	}

	start := time.Now()
	var nodes []*types.Node
	var stop int64
	if b.fam == types.FamilyEBML {
		nodes, stop = b.scanEBML()
	} else {
		nodes, stop = b.scanMP4()
	}
	b.resolve(nodes)

	s := newDiagnosticScanner(b)
	s.scan(nodes)

	rep := b.diag.getReport()
	rep.FileSize = int64(len(data))
	rep.Family = b.fam
	rep.Nodes = s.nodeCount
	rep.ScanTime = time.Since(start)

	b.log.Debug("parse finished", "family", b.fam.String(), "nodes", s.nodeCount,
		"stopped_at", stop, "issues", len(rep.Diagnostics))

	return &Result{
		Family: b.fam,
		Nodes:  nodes,
		Count:  s.nodeCount,
		Offset: stop,
		Report: rep,
	}, nil
}

type builder struct {
	data []byte
	fam  types.Family
	opts types.OpenOptions
	diag *diagnosticCollector
	log  *slog.Logger
}

func (b *builder) size() int64 { return int64(len(b.data)) }

// report records d and mirrors it to the log.
func (b *builder) report(d types.Diagnostic) {
	b.diag.record(d)
	attrs := []any{"offset", d.Offset, "structure", d.Structure, "kind", d.Kind.String()}
	if d.Severity >= types.SevError {
		b.log.Warn(d.Issue, attrs...)
		return
	}
	b.log.Debug(d.Issue, attrs...)
}

func (b *builder) trailing(off int64) {
	b.report(diagStructure(types.SevInfo, types.ErrKindTruncated, off, "file",
		fmt.Sprintf("%d trailing bytes too short for a header", b.size()-off), nil, nil, ""))
}

// -----------------------------------------------------------------------------
// Shared payload handling
// -----------------------------------------------------------------------------

// fill decodes the payload of n, which ends at the absolute offset end,
// and reads its children when it is a container.
func (b *builder) fill(n *types.Node, e registry.Entry, end int64, depth int) {
	start := n.PayloadOffset()
	n.Consumed = end - start
	p := b.data[start:end]

	rel := 0
	if e.Full {
		v, f, err := format.ParseFullBox(p, 0)
		if err != nil {
			b.fail(n, types.NewError(types.ErrKindTruncated, start, n.Name+": version and flags", err))
			return
		}
		n.FullBox, n.Version, n.Flags = true, v, f
		rel = format.FullBoxSize
	}

	out, err := decode.Decode(decode.Input{Node: n, Entry: e, Payload: p[rel:], Base: start + int64(rel)})
	b.notes(n, out.Notes)
	if err != nil {
		b.fail(n, err)
		return
	}
	n.Value = out.Value

	if n.Kind != types.KindContainer {
		return
	}
	childStart := start + int64(rel+out.Prefix)
	if childStart > end {
		b.fail(n, types.NewError(types.ErrKindTruncated, start,
			fmt.Sprintf("%s: %d fixed bytes before the first child exceed the payload", n.Name, rel+out.Prefix), nil))
		return
	}
	if depth >= b.opts.MaxDepth {
		b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, n.Offset, n.Name,
			"nesting too deep; children not read", b.opts.MaxDepth, depth+1, types.RecoverySkipped))
		return
	}

	var closed int64
	var ok bool
	if n.Family == types.FamilyEBML {
		closed, ok = b.elementChildren(n, childStart, end, depth+1)
	} else {
		closed, ok = b.boxChildren(n, childStart, end, depth+1)
	}
	if !ok {
		n.Truncated = true
		n.Consumed = closed - start
	}
	b.resolve(n.Children())
}

// fail abandons the value of n. Its declared size still governs where the
// next sibling starts.
func (b *builder) fail(n *types.Node, err error) {
	n.Err = err
	n.Value = types.Value{}
	b.report(fromDecodeError(n, err))
}

func (b *builder) notes(n *types.Node, notes []decode.Note) {
	for _, note := range notes {
		b.report(fromNote(n, note))
	}
}

// residual reports bytes at the end of a container too short to frame
// another child. They are skipped, never re-read.
func (b *builder) residual(n *types.Node, off, end int64) {
	if off >= end {
		return
	}
	b.report(diagStructure(types.SevInfo, types.ErrKindDeclaredSize, off, n.Name,
		fmt.Sprintf("%d bytes after the last child skipped", end-off), nil, nil, ""))
}

// resolve runs the deferred decoders among one set of siblings, now that
// all of them exist.
func (b *builder) resolve(sib []*types.Node) {
	for _, n := range sib {
		if n.Err != nil {
			continue
		}
		e := registry.MustLookup(n.Family, n.Tag)
		d, ok := decode.DeferredFor(e.Decoder)
		if !ok {
			continue
		}
		start := n.PayloadOffset()
		if n.FullBox {
			start += format.FullBoxSize
		}
		end := n.End()
		if start > end {
			continue
		}
		in := decode.Input{Node: n, Entry: e, Payload: b.data[start:end], Base: start}
		out, err := d.Resolve(in, decode.Siblings(sib).Select(d.Needs()))
		b.notes(n, out.Notes)
		if err != nil {
			b.fail(n, err)
			continue
		}
		n.Value = out.Value
	}
}

// -----------------------------------------------------------------------------
// ISO-BMFF
// -----------------------------------------------------------------------------

func (b *builder) scanMP4() ([]*types.Node, int64) {
	var top []*types.Node
	size := b.size()
	off := int64(0)
	for off < size {
		if size-off < types.MP4MinHeader {
			b.trailing(off)
			break
		}
		n, next, ok := b.readBox(nil, off, size, 0)
		if n != nil {
			top = append(top, n)
		}
		off = next
		if !ok {
			break
		}
	}
	return top, off
}

// boxChildren reads the children of n from off up to end. It returns the
// offset reached and false when a child could not be framed, in which
// case n closes at that offset.
func (b *builder) boxChildren(n *types.Node, off, end int64, depth int) (int64, bool) {
	for end-off >= types.MP4MinHeader {
		_, next, ok := b.readBox(n, off, end, depth)
		if !ok {
			return off, false
		}
		off = next
	}
	b.residual(n, off, end)
	return end, true
}

// readBox frames and fills the box at off. limit is the end of the
// parent's payload (or of the file). The returned offset is where the next
// sibling starts; ok is false when the caller must stop reading siblings.
func (b *builder) readBox(parent *types.Node, off, limit int64, depth int) (*types.Node, int64, bool) {
	h, err := format.ParseBoxHeader(b.data[:limit], int(off))
	if err != nil {
		return b.badBoxHeader(parent, h, off, limit, err)
	}

	end := limit
	if h.Size != types.SizeToEOF {
		var ok bool
		if end, ok = buf.Add64(off, h.Size); !ok {
			end = limit + 1
		}
	} else if parent != nil {
		b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, types.FourCC(h.Type),
			"size 0 (to end of file) inside a container", "explicit size", 0, types.RecoveryTruncated))
		return nil, off, false
	}

	past := end > limit
	if past {
		if parent != nil {
			b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, types.FourCC(h.Type),
				"box overruns its parent", limit-off, h.Size, types.RecoveryTruncated))
			return nil, off, false
		}
		end = limit
	}

	e := b.boxEntry(parent, h.Type)
	n := &types.Node{
		Family:       types.FamilyMP4,
		Tag:          h.Type,
		Name:         e.Name,
		Kind:         e.Kind,
		Offset:       off,
		HeaderLen:    h.HeaderLen,
		DeclaredSize: h.PayloadSize(),
		Level:        depth,
		ExtendedType: h.ExtendedType,
	}
	if parent != nil {
		parent.AddChild(n)
	}
	b.fill(n, e, end, depth)

	if past {
		n.Truncated = true
		b.report(diagStructure(types.SevCritical, types.ErrKindTruncated, off, n.Name,
			"box runs past the end of the file", h.Size, limit-off, types.RecoveryStopped))
		return n, end, false
	}
	return n, end, true
}

// boxEntry picks the registry entry for a child of parent. Items of a
// metadata list are containers whatever their type.
func (b *builder) boxEntry(parent *types.Node, tag uint32) registry.Entry {
	if parent != nil && registry.MustLookup(types.FamilyMP4, parent.Tag).Items {
		return registry.Entry{Name: types.FourCC(tag), Kind: types.KindContainer, Doc: "Metadata item."}
	}
	return registry.MustLookup(types.FamilyMP4, tag)
}

func (b *builder) badBoxHeader(parent *types.Node, h format.BoxHeader, off, limit int64, err error) (*types.Node, int64, bool) {
	name := "box"
	if h.Type != 0 {
		name = types.FourCC(h.Type)
	}
	top := parent == nil

	switch {
	case errors.Is(err, format.ErrBoxTooSmall):
		if !top {
			b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, name,
				err.Error(), fmt.Sprintf(">= %d", h.HeaderLen), h.Size, types.RecoveryTruncated))
			return nil, off, false
		}
		// Keep the header as an empty node and step over it.
		e := registry.Unknown(types.FamilyMP4, h.Type)
		n := &types.Node{
			Family:    types.FamilyMP4,
			Tag:       h.Type,
			Name:      e.Name,
			Kind:      types.KindUnknown,
			Offset:    off,
			HeaderLen: h.HeaderLen,
			Err:       types.NewError(types.ErrKindDeclaredSize, off, err.Error(), err),
		}
		b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, name,
			err.Error(), fmt.Sprintf(">= %d", h.HeaderLen), h.Size, types.RecoverySkipped))
		return n, min(off+int64(h.HeaderLen), limit), true

	case errors.Is(err, format.ErrTruncated):
		kind := types.ErrKindTruncated
		if !top && limit < b.size() {
			kind = types.ErrKindDeclaredSize
		}
		return nil, off, b.stop(top, kind, off, name, err)

	default:
		return nil, off, b.stop(top, types.ErrKindMalformedHeader, off, name, err)
	}
}

// stop records an unframeable header. At the top level the scan ends;
// inside a container the container closes. It always returns false.
func (b *builder) stop(top bool, kind types.ErrKind, off int64, name string, err error) bool {
	if top {
		b.report(diagStructure(types.SevCritical, kind, off, name, err.Error(), nil, nil, types.RecoveryStopped))
	} else {
		b.report(diagStructure(types.SevError, kind, off, name, err.Error(), nil, nil, types.RecoveryTruncated))
	}
	return false
}

// -----------------------------------------------------------------------------
// EBML
// -----------------------------------------------------------------------------

func (b *builder) scanEBML() ([]*types.Node, int64) {
	var top []*types.Node
	size := b.size()
	off := int64(0)
	for off < size {
		if size-off < types.EBMLMinHeader {
			b.trailing(off)
			break
		}
		n, next, ok := b.readElement(nil, off, size, 0)
		if n != nil {
			top = append(top, n)
		}
		off = next
		if !ok {
			break
		}
	}
	return top, off
}

// elementChildren reads the children of a sized master.
func (b *builder) elementChildren(n *types.Node, off, end int64, depth int) (int64, bool) {
	for end-off >= types.EBMLMinHeader {
		_, next, ok := b.readElement(n, off, end, depth)
		if !ok {
			return off, false
		}
		off = next
	}
	b.residual(n, off, end)
	return end, true
}

// unsizedChildren reads the children of a master whose size is unknown.
// It stops in front of the first element that belongs to an ancestor, so
// the returned offset is exactly where that element's ID begins.
func (b *builder) unsizedChildren(n *types.Node, off, limit int64, depth int) int64 {
	for limit-off >= types.EBMLMinHeader {
		if id, _, err := format.ReadElementID(b.data[:limit], int(off)); err == nil {
			if e, ok := registry.Lookup(types.FamilyEBML, id); ok && !e.IsGlobal() && e.Level <= n.Level {
				b.log.Debug("unknown-size element closed", "element", n.Name, "offset", off, "next", e.Name)
				return off
			}
		}
		_, next, ok := b.readElement(n, off, limit, depth)
		if !ok {
			n.Truncated = true
			return off
		}
		off = next
	}
	return off
}

func (b *builder) readElement(parent *types.Node, off, limit int64, depth int) (*types.Node, int64, bool) {
	top := parent == nil
	data := b.data[:limit]

	id, idLen, err := format.ReadElementID(data, int(off))
	if err != nil {
		return nil, off, b.badElementHeader(top, off, limit, "element", err)
	}
	e := registry.MustLookup(types.FamilyEBML, id)
	size, sizeLen, unknown, err := format.ReadElementSize(data, int(off)+idLen)
	if err != nil {
		return nil, off, b.badElementHeader(top, off, limit, e.Name, err)
	}

	n := &types.Node{
		Family:    types.FamilyEBML,
		Tag:       id,
		Name:      e.Name,
		Kind:      e.Kind,
		Offset:    off,
		HeaderLen: idLen + sizeLen,
		Level:     elementLevel(e, parent),
	}
	start := n.PayloadOffset()

	if unknown {
		if e.Kind != types.KindContainer {
			b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, e.Name,
				"unknown size on a non-master element", "explicit size", "unknown", recoveryFor(top)))
			return nil, off, false
		}
		if depth >= b.opts.MaxDepth {
			// Without children there is no way to find where it ends.
			b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, e.Name,
				"nesting too deep for an unknown-size element", b.opts.MaxDepth, depth+1, recoveryFor(top)))
			return nil, off, false
		}
		n.DeclaredSize = types.SizeUnknown
		if parent != nil {
			parent.AddChild(n)
		}
		end := b.unsizedChildren(n, start, limit, depth+1)
		if n.Truncated {
			b.report(diagStructure(types.SevWarning, types.ErrKindDeclaredSize, end, n.Name,
				"unknown-size element closed at its last good child", nil, nil, types.RecoveryTruncated))
		}
		n.Consumed = end - start
		b.resolve(n.Children())
		return n, end, true
	}

	end, ok := buf.Add64(start, size)
	past := !ok || end > limit
	if past {
		if !top {
			b.report(diagStructure(types.SevError, types.ErrKindDeclaredSize, off, e.Name,
				"element overruns its parent", limit-start, size, types.RecoveryTruncated))
			return nil, off, false
		}
		end = limit
	}

	n.DeclaredSize = size
	if parent != nil {
		parent.AddChild(n)
	}
	b.fill(n, e, end, depth)

	if past {
		n.Truncated = true
		b.report(diagStructure(types.SevCritical, types.ErrKindTruncated, off, n.Name,
			"element runs past the end of the file", size, limit-start, types.RecoveryStopped))
		return n, end, false
	}
	return n, end, true
}

func (b *builder) badElementHeader(top bool, off, limit int64, name string, err error) bool {
	switch {
	case errors.Is(err, format.ErrTruncated):
		kind := types.ErrKindTruncated
		if !top && limit < b.size() {
			kind = types.ErrKindDeclaredSize
		}
		return b.stop(top, kind, off, name, err)
	default:
		return b.stop(top, types.ErrKindMalformedHeader, off, name, err)
	}
}

// elementLevel is the registry level of a known element. Global and
// unknown elements sit one below their parent.
func elementLevel(e registry.Entry, parent *types.Node) int {
	if e.Known() && !e.IsGlobal() {
		return e.Level
	}
	if parent == nil {
		return 0
	}
	return parent.Level + 1
}

func recoveryFor(top bool) string {
	if top {
		return types.RecoveryStopped
	}
	return types.RecoveryTruncated
}
