package samples

import (
	"fmt"
	"math"

	"github.com/joshuapare/boxkit/pkg/types"
)

const (
	idCluster     = 0x1F43B675
	idSimpleBlock = 0xA3
	idBlockGroup  = 0xA0
	idBlock       = 0xA1
)

// blocks indexes the frames of every block in every Cluster. A block's
// frames are its samples; the Cluster is its media data.
func (b *builder) blocks(top []*types.Node) {
	ordinals := make(map[uint32]int)
	for _, root := range top {
		root.Walk(func(n *types.Node) bool {
			if n.Tag != idCluster {
				return true
			}
			for _, c := range n.Children() {
				blk := c
				if c.Tag == idBlockGroup {
					blk = c.Child(idBlock)
				}
				if blk == nil || (blk.Tag != idSimpleBlock && blk.Tag != idBlock) {
					continue
				}
				if g := b.block(blk, ordinals); g != nil {
					b.add(g, []*types.Node{n})
				}
			}
			return false
		})
	}
}

func (b *builder) block(n *types.Node, ordinals map[uint32]int) *types.ChunkGroup {
	r := record[*types.Block](n)
	if r == nil {
		return nil
	}
	if r.TrackNumber > math.MaxUint32 {
		b.report(types.SevWarning, n.Offset, "block",
			fmt.Sprintf("block track number %d does not fit a 32-bit track ID", r.TrackNumber),
			0, types.RecoverySkipped)
		return nil
	}
	id := uint32(r.TrackNumber)
	ordinals[id]++
	g := &types.ChunkGroup{TrackID: id, Ordinal: ordinals[id], Offset: n.PayloadOffset()}
	if len(r.FrameOffsets) > 0 {
		g.Offset = r.FrameOffsets[0]
	}
	for i, size := range r.FrameSizes {
		g.Samples = append(g.Samples, types.SampleRecord{
			TrackID: id,
			Group:   g.Ordinal,
			Number:  i + 1,
			Offset:  r.FrameOffsets[i],
			Size:    size,
		})
	}
	return g
}
