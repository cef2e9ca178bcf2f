package decode

import (
	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/format"
	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecBlock, decodeBlock)
}

// Block header flag bits.
const (
	blockKeyframe    = 0x80 // SimpleBlock only
	blockInvisible   = 0x08
	blockLacingMask  = 0x06
	blockDiscardable = 0x01 // SimpleBlock only
)

// simpleBlockID is the Matroska SimpleBlock element.
const simpleBlockID = 0xA3

// decodeBlock reads a SimpleBlock or Block header and splits the rest of
// the payload into frames according to its lacing.
func decodeBlock(in Input) (Output, error) {
	p := in.Payload
	track, n, _, err := format.ReadVINT(p, 0)
	if err != nil {
		return Output{}, types.NewError(types.ErrKindMalformedHeader, in.Base, "block track number", err)
	}
	pos := n
	if !buf.Has(p, pos, 3) {
		return Output{}, in.truncated(pos, "block header")
	}
	r := &types.Block{
		TrackNumber: track,
		Timecode:    buf.I16BE(p[pos:]),
	}
	flags := p[pos+2]
	pos += 3

	simple := in.Node == nil || in.Node.Tag == simpleBlockID
	r.Invisible = flags&blockInvisible != 0
	if simple {
		r.Keyframe = flags&blockKeyframe != 0
		r.Discardable = flags&blockDiscardable != 0
	}
	r.Lacing = types.Lacing((flags & blockLacingMask) >> 1)

	sizes, pos, err := laceSizes(in, r.Lacing, pos)
	if err != nil {
		return Output{}, err
	}
	r.FrameSizes = sizes
	r.FrameOffsets = make([]int64, len(sizes))
	off := in.Base + int64(pos)
	for i, s := range sizes {
		r.FrameOffsets[i] = off
		off += s
	}
	return record(r), nil
}

// laceSizes returns the frame sizes and the payload position of the first
// frame. The last frame always takes whatever the explicit sizes leave.
func laceSizes(in Input, lacing types.Lacing, pos int) ([]int64, int, error) {
	p := in.Payload
	if lacing == types.LacingNone {
		return []int64{int64(len(p) - pos)}, pos, nil
	}
	if !buf.Has(p, pos, 1) {
		return nil, pos, in.truncated(pos, "lace count")
	}
	count := int(p[pos]) + 1
	pos++
	sizes := make([]int64, count)

	switch lacing {
	case types.LacingXiph:
		for i := 0; i < count-1; i++ {
			var v int64
			for {
				if !buf.Has(p, pos, 1) {
					return nil, pos, in.truncated(pos, "xiph lace size")
				}
				b := p[pos]
				pos++
				v += int64(b)
				if b != 0xFF {
					break
				}
			}
			sizes[i] = v
		}
	case types.LacingEBML:
		if count > 1 {
			first, n, _, err := format.ReadVINT(p, pos)
			if err != nil {
				return nil, pos, types.NewError(types.ErrKindMalformedHeader, in.Base+int64(pos), "ebml lace size", err)
			}
			pos += n
			sizes[0] = int64(first)
			for i := 1; i < count-1; i++ {
				d, n, err := format.ReadSignedVINT(p, pos)
				if err != nil {
					return nil, pos, types.NewError(types.ErrKindMalformedHeader, in.Base+int64(pos), "ebml lace delta", err)
				}
				pos += n
				sizes[i] = sizes[i-1] + d
				if sizes[i] < 0 {
					return nil, pos, in.dataLength(pos, "lace frame %d has negative size %d", i, sizes[i])
				}
			}
		}
	case types.LacingFixed:
		rem := len(p) - pos
		if rem%count != 0 {
			return nil, pos, in.dataLength(pos, "%d bytes do not split into %d equal frames", rem, count)
		}
		for i := range sizes {
			sizes[i] = int64(rem / count)
		}
		return sizes, pos, nil
	}

	var sum int64
	for _, s := range sizes[:count-1] {
		sum += s
	}
	last := int64(len(p)-pos) - sum
	if last < 0 {
		return nil, pos, in.dataLength(pos, "lace sizes total %d exceed %d remaining bytes", sum, len(p)-pos)
	}
	sizes[count-1] = last
	return sizes, pos, nil
}
