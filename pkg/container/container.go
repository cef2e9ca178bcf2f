package container

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/logger"
	"github.com/joshuapare/boxkit/internal/mmfile"
	"github.com/joshuapare/boxkit/internal/reader"
	"github.com/joshuapare/boxkit/internal/samples"
	"github.com/joshuapare/boxkit/pkg/types"
)

// File is an opened container file.
type File struct {
	path  string
	data  []byte
	unmap func() error
	opts  types.OpenOptions
	log   *slog.Logger
	res   *reader.Result

	closed atomic.Bool

	indexOnce sync.Once
	index     *samples.Index

	summaryOnce sync.Once
	summary     *types.Summary
}

// Open maps the file at path and parses it.
func Open(path string, opts types.OpenOptions) (*File, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &types.OpenError{
			Path: path,
			Err:  types.NewError(types.ErrKindIO, -1, "cannot map file", err),
		}
	}
	f, err := newFile(path, data, unmap, opts)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	return f, nil
}

// OpenBytes parses a file already held in memory. name is only used for
// reporting. data must not be modified while the File is in use.
func OpenBytes(name string, data []byte, opts types.OpenOptions) (*File, error) {
	return newFile(name, data, nil, opts)
}

func newFile(path string, data []byte, unmap func() error, opts types.OpenOptions) (*File, error) {
	opts = opts.Normalize()
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	res, err := reader.Parse(data, opts)
	if err != nil {
		return nil, &types.OpenError{Path: path, Err: err}
	}
	res.Report.FilePath = path
	log.Debug("opened", "path", path, "family", res.Family.String(), "size", len(data), "nodes", res.Count)

	return &File{
		path:  path,
		data:  data,
		unmap: unmap,
		opts:  opts,
		log:   log,
		res:   res,
	}, nil
}

// Close releases the mapping. It is safe to call more than once. Nodes
// stay readable afterwards but byte access fails with types.ErrClosed.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	if f.unmap != nil {
		return f.unmap()
	}
	return nil
}

func (f *File) ensureOpen() error {
	if f.closed.Load() {
		return types.ErrClosed
	}
	return nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Family returns the container family detected from the leading bytes.
func (f *File) Family() types.Family { return f.res.Family }

// Size returns the file length in bytes.
func (f *File) Size() int64 { return int64(len(f.data)) }

// TopLevel returns the top-level nodes in file order.
func (f *File) TopLevel() []*types.Node { return f.res.Nodes }

// NodeCount returns the number of nodes in the whole tree.
func (f *File) NodeCount() int { return f.res.Count }

// Options returns the normalized options the file was opened with.
func (f *File) Options() types.OpenOptions { return f.opts }

// Walk visits every node depth-first in file order. Returning false from
// fn skips the node's children.
func (f *File) Walk(fn func(*types.Node) bool) {
	for _, n := range f.res.Nodes {
		n.Walk(fn)
	}
}

// NodeBytes returns the bytes of n, header included, as far as they were
// parsed. The slice is capped at OpenOptions.SnapshotCap; capped reports
// whether it was cut. The slice aliases the file mapping and is valid until
// Close.
func (f *File) NodeBytes(n *types.Node) (b []byte, capped bool, err error) {
	if err := f.ensureOpen(); err != nil {
		return nil, false, err
	}
	off, size := n.ByteRange()
	total := int64(len(f.data))
	if off < 0 || off > total {
		return nil, false, types.NewError(types.ErrKindState, off, "node outside file", nil)
	}
	start, end, capped := buf.Window(total, off, size, f.opts.SnapshotCap)
	return f.data[start:end], capped, nil
}

// ReadAt returns up to n bytes at an absolute offset, without the snapshot
// cap. A range running past the end is clipped.
func (f *File) ReadAt(off, n int64) ([]byte, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	total := int64(len(f.data))
	if off < 0 || off > total || n < 0 {
		return nil, types.NewError(types.ErrKindState, off,
			fmt.Sprintf("range of %d bytes outside file of %d bytes", n, total), nil)
	}
	start, end, _ := buf.Window(total, off, n, 0)
	return f.data[start:end], nil
}

// Find resolves a path of segments separated by "/" or ".". A numeric
// segment selects a child by position ("0.1.2"); any other segment selects
// the first child whose type code or name matches, case-insensitively
// ("moov/trak/mdia", "Segment/Info/MuxingApp"). Mixed forms work too
// ("moov.2.mdia").
func (f *File) Find(path string) (*types.Node, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, types.NewError(types.ErrKindState, -1, "empty node path", nil)
	}
	level := f.res.Nodes
	var cur *types.Node
	for i, p := range parts {
		cur = match(level, p)
		if cur == nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(parts[:i+1], "/"), types.ErrNotFound)
		}
		level = cur.Children()
	}
	return cur, nil
}

func match(nodes []*types.Node, seg string) *types.Node {
	if i, err := strconv.Atoi(seg); err == nil {
		if i >= 0 && i < len(nodes) {
			return nodes[i]
		}
		return nil
	}
	for _, n := range nodes {
		if strings.EqualFold(n.Name, seg) || strings.EqualFold(n.TypeString(), seg) {
			return n
		}
	}
	return nil
}

func splitPath(path string) []string {
	fields := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '.' })
	out := fields[:0]
	for _, p := range fields {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SampleIndex returns the sample layout of the whole file, building it on
// first use. It is nil when OpenOptions.SkipSampleIndex is set.
func (f *File) SampleIndex() *samples.Index {
	if f.opts.SkipSampleIndex {
		return nil
	}
	f.indexOnce.Do(func() {
		f.index = samples.Build(f.res.Family, f.res.Nodes, f.Size(), f.log)
	})
	return f.index
}

// SampleIndexFor returns the groups stored inside a media data node (a
// top-level mdat or a Matroska Cluster) in file order. Any other node has
// none.
func (f *File) SampleIndexFor(n *types.Node) []*types.ChunkGroup {
	return f.SampleIndex().For(n)
}

// Diagnostics returns the parse report. With OpenOptions.CollectDiagnostics
// set it also carries the findings of the sample index, which is built if
// it was not already.
func (f *File) Diagnostics() *types.DiagnosticReport {
	src := f.res.Report
	out := types.NewDiagnosticReport()
	out.FilePath = src.FilePath
	out.FileSize = src.FileSize
	out.Family = src.Family
	out.Nodes = src.Nodes
	out.ScanTime = src.ScanTime
	out.Merge(src)
	if f.opts.CollectDiagnostics {
		if ix := f.SampleIndex(); ix != nil {
			out.Merge(ix.Report)
		}
	}
	return out
}
