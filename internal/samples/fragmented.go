package samples

import (
	"fmt"

	"github.com/joshuapare/boxkit/pkg/types"
)

// fragmented indexes the track runs of every movie fragment. A fragment's
// media data is the run of mdat boxes immediately following its moof.
func (b *builder) fragmented(top []*types.Node) {
	trex := b.trackDefaults(top)
	for i := 0; i < len(top); i++ {
		moof := top[i]
		if moof.Tag != tagMoof {
			continue
		}
		var mdats []*types.Node
		for i+1 < len(top) && top[i+1].Tag == tagMdat {
			mdats = append(mdats, top[i+1])
			i++
		}
		b.fragment(moof, mdats, trex)
	}
}

// trackDefaults collects the per-track defaults of moov/mvex.
func (b *builder) trackDefaults(top []*types.Node) map[uint32]*types.Trex {
	out := make(map[uint32]*types.Trex)
	for _, n := range top {
		if n.Tag != tagMoov {
			continue
		}
		mvex := n.Child(tagMvex)
		if mvex == nil {
			return out
		}
		for _, t := range mvex.ChildrenOf(tagTrex) {
			if r := record[*types.Trex](t); r != nil {
				out[r.TrackID] = r
			}
		}
		return out
	}
	return out
}

func (b *builder) fragment(moof *types.Node, mdats []*types.Node, trex map[uint32]*types.Trex) {
	var seq uint32
	if mfhd := record[*types.Mfhd](moof.Child(tagMfhd)); mfhd != nil {
		seq = mfhd.SequenceNumber
	}

	// end of the data described by the previous indexed track fragment
	var prevEnd int64
	var havePrev bool
	for _, traf := range moof.ChildrenOf(tagTraf) {
		tfhd := record[*types.Tfhd](traf.Child(tagTfhd))
		if tfhd == nil {
			continue
		}
		id := tfhd.TrackID

		var base int64
		switch {
		case tfhd.HasBaseDataOffset():
			base = int64(tfhd.BaseDataOffset)
		case tfhd.DefaultBaseIsMoof():
			base = moof.Offset
		case havePrev:
			base = prevEnd
		default:
			base = moof.Offset
			b.report(types.SevInfo, traf.Offset, "tfhd",
				fmt.Sprintf("track %d fragment %d has no base data offset; assuming the fragment start 0x%X",
					id, seq, moof.Offset), id, types.RecoveryDefaulted)
		}

		cursor := base
		for k, run := range traf.ChildrenOf(tagTrun) {
			r := record[*types.Trun](run)
			if r == nil {
				continue
			}
			if r.HasDataOffset() {
				cursor = base + int64(r.DataOffset)
			}
			g := &types.ChunkGroup{
				TrackID:    id,
				Ordinal:    k + 1,
				Offset:     cursor,
				Fragmented: true,
				Sequence:   seq,
			}
			size, perSample := b.defaultSize(tfhd, trex[id])
			if !r.HasSampleSize() && !perSample && r.SampleCount > 0 {
				g.Issue = "no sample size in the run, the fragment header or the track defaults"
				b.report(types.SevWarning, run.Offset, "trun",
					fmt.Sprintf("track %d fragment %d run %d: %s", id, seq, k+1, g.Issue), id, types.RecoveryDefaulted)
			}
			sizeOf := func(int) int64 { return int64(size) }
			if r.HasSampleSize() {
				sizeOf = func(l int) int64 { return int64(r.Samples[l].Size) }
			}
			want := int(r.SampleCount)
			if r.HasSampleSize() {
				want = min(want, len(r.Samples))
			}
			var got int
			if cursor, got = b.emit(g, cursor, want, sizeOf); got < want {
				b.clipped(g, "trun", run.Offset, got, want)
			}
			b.add(g, mdats)
		}
		prevEnd, havePrev = cursor, true
	}
}

// defaultSize is the sample size used when a run omits it: the fragment
// header's default, else the track's default. ok is false when neither
// gives one.
func (b *builder) defaultSize(tfhd *types.Tfhd, trex *types.Trex) (uint32, bool) {
	if tfhd.HasDefaultSampleSize() {
		return tfhd.DefaultSampleSize, true
	}
	if trex != nil {
		return trex.DefaultSampleSize, true
	}
	return 0, false
}
