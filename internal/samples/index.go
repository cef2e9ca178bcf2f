package samples

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/joshuapare/boxkit/internal/logger"
	"github.com/joshuapare/boxkit/pkg/types"
)

var (
	tagMoov = types.Tag4("moov")
	tagMvex = types.Tag4("mvex")
	tagTrex = types.Tag4("trex")
	tagTrak = types.Tag4("trak")
	tagTkhd = types.Tag4("tkhd")
	tagMdia = types.Tag4("mdia")
	tagMinf = types.Tag4("minf")
	tagStbl = types.Tag4("stbl")
	tagStco = types.Tag4("stco")
	tagCo64 = types.Tag4("co64")
	tagStsc = types.Tag4("stsc")
	tagStsz = types.Tag4("stsz")
	tagStz2 = types.Tag4("stz2")
	tagMoof = types.Tag4("moof")
	tagMfhd = types.Tag4("mfhd")
	tagTraf = types.Tag4("traf")
	tagTfhd = types.Tag4("tfhd")
	tagTrun = types.Tag4("trun")
	tagMdat = types.Tag4("mdat")
)

// Index is the sample layout of one file.
type Index struct {
	// Groups holds every group in file order. Groups of different tracks
	// at the same offset keep track order.
	Groups []*types.ChunkGroup

	byNode map[*types.Node][]*types.ChunkGroup

	// Report lists the inconsistencies found while building.
	Report *types.DiagnosticReport
}

// Stats summarizes an index.
type Stats struct {
	Groups   int
	Samples  int
	Tracks   int
	Attached int // groups attached to a media data node
	Bytes    int64
}

// For returns the groups attached to a media data node (a top-level mdat
// or a Matroska Cluster), in file order. Other nodes have none.
func (ix *Index) For(n *types.Node) []*types.ChunkGroup {
	if ix == nil {
		return nil
	}
	return ix.byNode[n]
}

// Track returns the groups of one track in file order.
func (ix *Index) Track(id uint32) []*types.ChunkGroup {
	var out []*types.ChunkGroup
	for _, g := range ix.Groups {
		if g.TrackID == id {
			out = append(out, g)
		}
	}
	return out
}

// Samples flattens the groups of one track into its samples.
func (ix *Index) Samples(id uint32) []types.SampleRecord {
	var out []types.SampleRecord
	for _, g := range ix.Track(id) {
		out = append(out, g.Samples...)
	}
	return out
}

// Stats returns counts over the whole index.
func (ix *Index) Stats() Stats {
	s := Stats{Groups: len(ix.Groups)}
	tracks := make(map[uint32]bool)
	for _, g := range ix.Groups {
		tracks[g.TrackID] = true
		s.Samples += len(g.Samples)
		s.Bytes += g.TotalSize()
	}
	for _, gs := range ix.byNode {
		s.Attached += len(gs)
	}
	s.Tracks = len(tracks)
	return s
}

// Build reconstructs the sample layout from a finished tree over a file of
// size bytes. Samples never extend past size, and the index holds at most
// one sample per file byte. log may be nil.
func Build(fam types.Family, top []*types.Node, size int64, log *slog.Logger) *Index {
	if log == nil {
		log = logger.L
	}
	b := &builder{
		ix: &Index{
			byNode: make(map[*types.Node][]*types.ChunkGroup),
			Report: types.NewDiagnosticReport(),
		},
		log:    log,
		size:   size,
		budget: size,
	}

	if fam == types.FamilyEBML {
		b.blocks(top)
	} else {
		b.flat(top)
		b.fragmented(top)
	}

	sort.SliceStable(b.ix.Groups, func(i, j int) bool {
		return b.ix.Groups[i].Offset < b.ix.Groups[j].Offset
	})
	b.attachSorted()
	b.ix.Report.Finalize()

	st := b.ix.Stats()
	log.Debug("sample index built", "groups", st.Groups, "samples", st.Samples,
		"tracks", st.Tracks, "attached", st.Attached, "issues", len(b.ix.Report.Diagnostics))
	return b.ix
}

type builder struct {
	ix  *Index
	log *slog.Logger

	size   int64 // file length
	budget int64 // samples still allowed
}

// emit appends up to count samples to g, laid end to end from cursor.
// sizeOf returns the size of the i-th sample. It stops early at the first
// sample that would not end inside the file or when the sample budget is
// spent, and returns the cursor after the last sample and how many were
// appended.
func (b *builder) emit(g *types.ChunkGroup, cursor int64, count int, sizeOf func(int) int64) (int64, int) {
	for i := range count {
		sz := sizeOf(i)
		if b.budget <= 0 || cursor < 0 || sz < 0 || sz > b.size-cursor {
			return cursor, i
		}
		g.Samples = append(g.Samples, types.SampleRecord{
			TrackID: g.TrackID,
			Group:   g.Ordinal,
			Number:  i + 1,
			Offset:  cursor,
			Size:    sz,
		})
		cursor += sz
		b.budget--
	}
	return cursor, count
}

// clipped records that g holds only got of its want samples.
func (b *builder) clipped(g *types.ChunkGroup, structure string, off int64, got, want int) {
	issue := fmt.Sprintf("%d of %d samples end inside the file", got, want)
	if g.Issue != "" {
		issue = g.Issue + "; " + issue
	}
	g.Issue = issue
	b.report(types.SevWarning, off, structure,
		fmt.Sprintf("track %d group %d at 0x%X: %s", g.TrackID, g.Ordinal, g.Offset, issue),
		g.TrackID, types.RecoveryClipped)
}

// add appends a group to the merged index and, when it fits inside one of
// the candidate media data nodes, attaches it there.
func (b *builder) add(g *types.ChunkGroup, candidates []*types.Node) {
	b.ix.Groups = append(b.ix.Groups, g)
	for _, n := range candidates {
		if g.Within(n.PayloadOffset(), n.End()) {
			b.ix.byNode[n] = append(b.ix.byNode[n], g)
			return
		}
	}
	b.report(types.SevWarning, g.Offset, "group",
		fmt.Sprintf("track %d group %d [0x%X, 0x%X) lies outside every media data block",
			g.TrackID, g.Ordinal, g.Offset, g.End()),
		g.TrackID, types.RecoveryDetached)
}

// attachSorted reorders the attached groups of every node into file order.
func (b *builder) attachSorted() {
	for n, gs := range b.ix.byNode {
		sort.SliceStable(gs, func(i, j int) bool { return gs[i].Offset < gs[j].Offset })
		b.ix.byNode[n] = gs
	}
}

func (b *builder) report(sev types.Severity, off int64, structure, issue string, track uint32, recovery string) {
	d := types.Diagnostic{
		Severity:  sev,
		Category:  types.DiagIntegrity,
		Kind:      types.ErrKindSampleIndex,
		Offset:    off,
		Structure: structure,
		Issue:     issue,
		Recovery:  recovery,
	}
	if track != 0 {
		d.Context = &types.DiagContext{TrackID: track}
	}
	b.ix.Report.Add(d)
	b.log.Debug(issue, "offset", off, "structure", structure, "track", track)
}

// record returns the decoded record of n as R, or nil when n is absent,
// failed to decode, or holds something else.
func record[R types.Record](n *types.Node) R {
	var zero R
	if n == nil || n.Err != nil {
		return zero
	}
	r, ok := n.Value.Record.(R)
	if !ok {
		return zero
	}
	return r
}
