package samples

import (
	"fmt"

	"github.com/joshuapare/boxkit/pkg/types"
)

// flat indexes the sample tables of every track in the first movie box.
func (b *builder) flat(top []*types.Node) {
	var moov *types.Node
	var mdats []*types.Node
	for _, n := range top {
		switch n.Tag {
		case tagMoov:
			if moov == nil {
				moov = n
			}
		case tagMdat:
			mdats = append(mdats, n)
		}
	}
	if moov == nil {
		return
	}
	for _, trak := range moov.ChildrenOf(tagTrak) {
		b.track(trak, mdats)
	}
}

// track expands one track's chunk table into groups.
func (b *builder) track(trak *types.Node, mdats []*types.Node) {
	tkhd := record[*types.Tkhd](trak.Child(tagTkhd))
	if tkhd == nil {
		return
	}
	id := tkhd.TrackID

	stbl := trak.Descend(tagMdia, tagMinf, tagStbl)
	if stbl == nil {
		return
	}
	chunks := record[*types.ChunkOffsets](stbl.Child(tagStco))
	if chunks == nil {
		chunks = record[*types.ChunkOffsets](stbl.Child(tagCo64))
	}
	if chunks == nil || len(chunks.Offsets) == 0 {
		// Initialization segments carry empty tables.
		return
	}
	stsc := record[*types.Stsc](stbl.Child(tagStsc))
	sizes := record[*types.SampleSizes](stbl.Child(tagStsz))
	if sizes == nil {
		sizes = record[*types.SampleSizes](stbl.Child(tagStz2))
	}
	if stsc == nil || len(stsc.Entries) == 0 || sizes == nil {
		b.report(types.SevWarning, stbl.Offset, "stbl",
			fmt.Sprintf("track %d has %d chunks but no usable sample-to-chunk or sample size table", id, len(chunks.Offsets)),
			id, "")
		return
	}

	total := int(sizes.SampleCount)
	if sizes.SampleSize == 0 && len(sizes.EntrySizes) < total {
		total = len(sizes.EntrySizes)
	}

	runs := stsc.Entries
	run := 0
	next := runStart(runs, 1)
	sample := 0
	var short bool
	for i, off := range chunks.Offsets {
		chunk := uint32(i + 1)
		for next != 0 && chunk >= next {
			run++
			next = runStart(runs, run+1)
		}
		want := int(runs[run].SamplesPerChunk)

		g := &types.ChunkGroup{TrackID: id, Ordinal: i + 1, Offset: int64(off)}
		n := min(want, total-sample)
		if n < want {
			g.Issue = fmt.Sprintf("chunk needs %d samples, %d left in the size table", want, n)
			if !short {
				b.report(types.SevWarning, int64(off), "stsc",
					fmt.Sprintf("track %d chunk %d: %s", id, i+1, g.Issue), id, "")
				short = true
			}
		}
		first := sample
		if _, got := b.emit(g, int64(off), n, func(j int) int64 { return int64(sizes.Size(first + j)) }); got < n {
			b.clipped(g, "stco", int64(off), got, n)
		}
		sample += n
		b.add(g, mdats)
	}

	if sample < total {
		b.report(types.SevWarning, stbl.Offset, "stsc",
			fmt.Sprintf("track %d: chunks account for %d of %d samples", id, sample, total), id, "")
	}
}

// runStart is the first chunk of the 0-based run i, or 0 past the last
// run.
func runStart(runs []types.StscEntry, i int) uint32 {
	if i >= len(runs) {
		return 0
	}
	return runs[i].FirstChunk
}
