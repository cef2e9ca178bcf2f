package decode

import (
	"encoding/hex"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecStts, decodeStts)
	register(registry.DecCtts, decodeCtts)
	register(registry.DecStsc, decodeStsc)
	register(registry.DecStsz, decodeStsz)
	register(registry.DecStz2, decodeStz2)
	register(registry.DecStco, decodeStco)
	register(registry.DecCo64, decodeCo64)
	register(registry.DecStss, decodeStss)
	register(registry.DecSbgp, decodeSbgp)
	register(registry.DecSgpd, decodeSgpd)
	register(registry.DecSaiz, decodeSaiz)
	register(registry.DecSaio, decodeSaio)
}

func decodeStts(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(8)
	r := &types.Stts{Entries: make([]types.SttsEntry, 0, n)}
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, types.SttsEntry{SampleCount: c.u32(), SampleDelta: c.u32()})
	}
	if err := c.finish(in, "time-to-sample table"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeCtts(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(8)
	r := &types.Ctts{Entries: make([]types.CttsEntry, 0, n)}
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, types.CttsEntry{SampleCount: c.u32(), SampleOffset: c.i32()})
	}
	if err := c.finish(in, "composition offset table"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeStsc(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(12)
	r := &types.Stsc{Entries: make([]types.StscEntry, 0, n)}
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, types.StscEntry{
			FirstChunk:             c.u32(),
			SamplesPerChunk:        c.u32(),
			SampleDescriptionIndex: c.u32(),
		})
	}
	if err := c.finish(in, "sample-to-chunk table"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeStsz(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.SampleSizes{SampleSize: c.u32()}
	if r.SampleSize != 0 {
		r.SampleCount = c.u32()
	} else {
		n, _ := c.count(4)
		r.SampleCount = uint32(n)
		r.EntrySizes = make([]uint32, n)
		for i := range r.EntrySizes {
			r.EntrySizes[i] = c.u32()
		}
	}
	if err := c.finish(in, "sample size table"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeStz2(in Input) (Output, error) {
	c := newCursor(in.Payload)
	c.skip(3)
	r := &types.SampleSizes{FieldSize: c.u8(), SampleCount: c.u32()}
	if err := c.finish(in, "compact sample size header"); err != nil {
		return Output{}, err
	}
	switch r.FieldSize {
	case 4, 8, 16:
	default:
		return Output{}, in.dataLength(3, "compact sample size field of %d bits", r.FieldSize)
	}
	if uint64(r.SampleCount) > types.MaxTableEntries {
		return Output{}, in.truncated(c.off, "compact sample size entries")
	}
	sizes, ok := packedFields(c.rest(), int(r.SampleCount), int(r.FieldSize))
	if !ok {
		return Output{}, in.truncated(8, "compact sample size entries")
	}
	r.EntrySizes = sizes
	return record(r), nil
}

func decodeStco(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(4)
	r := &types.ChunkOffsets{Offsets: make([]uint64, n)}
	for i := range r.Offsets {
		r.Offsets[i] = uint64(c.u32())
	}
	if err := c.finish(in, "chunk offsets"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeCo64(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(8)
	r := &types.ChunkOffsets{Offsets: make([]uint64, n)}
	for i := range r.Offsets {
		r.Offsets[i] = c.u64()
	}
	if err := c.finish(in, "chunk offsets"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeStss(in Input) (Output, error) {
	c := newCursor(in.Payload)
	n, _ := c.count(4)
	r := &types.Stss{SampleNumbers: make([]uint32, n)}
	for i := range r.SampleNumbers {
		r.SampleNumbers[i] = c.u32()
	}
	if err := c.finish(in, "sync samples"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSbgp(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Sbgp{GroupingType: c.fourcc()}
	if in.version() == 1 {
		r.GroupingTypeParameter = c.u32()
	}
	n, _ := c.count(8)
	r.Entries = make([]types.SbgpEntry, 0, n)
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, types.SbgpEntry{SampleCount: c.u32(), GroupDescriptionIndex: c.u32()})
	}
	if err := c.finish(in, "sample-to-group table"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

// seigSize is the fixed part of a CENC sample group entry.
const seigSize = 20

func parseSeig(b []byte) (*types.SeigEntry, int, bool) {
	c := newCursor(b)
	c.skip(1)
	e := &types.SeigEntry{}
	pattern := c.u8()
	e.CryptByteBlock, e.SkipByteBlock = nibbles(pattern)
	e.IsProtected = c.u8()
	e.PerSampleIVSize = c.u8()
	e.KID = hex.EncodeToString(c.take(16))
	if e.IsProtected == 1 && e.PerSampleIVSize == 0 {
		n := int(c.u8())
		e.ConstantIV = hex.EncodeToString(c.take(n))
	}
	return e, c.off, c.err == nil
}

func rawPreview(b []byte) string {
	if len(b) > types.HexPreviewLimit {
		return hex.EncodeToString(b[:types.HexPreviewLimit]) + "..."
	}
	return hex.EncodeToString(b)
}

func decodeSgpd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	v := in.version()
	r := &types.Sgpd{GroupingType: c.fourcc()}
	if v == 1 {
		r.DefaultLength = c.u32()
	}
	if v >= 2 {
		r.DefaultSampleDescriptionIndex = c.u32()
	}
	n, _ := c.count(0)
	if err := c.finish(in, "sample group description header"); err != nil {
		return Output{}, err
	}
	seig := r.GroupingType == "seig"
	for i := 0; i < n && c.remaining() > 0; i++ {
		length := int(r.DefaultLength)
		if v == 1 && length == 0 {
			length = int(c.u32())
		}
		if length == 0 {
			if !seig {
				// Entry sizes are implied by the grouping type; keep the
				// remainder undivided.
				r.Entries = append(r.Entries, types.SgpdEntry{Raw: rawPreview(c.rest())})
				break
			}
			e, used, ok := parseSeig(c.b[c.off:])
			if !ok {
				return Output{}, in.truncated(c.off, "seig entry")
			}
			c.skip(used)
			r.Entries = append(r.Entries, types.SgpdEntry{Seig: e})
			continue
		}
		p := c.take(length)
		if p == nil {
			break
		}
		entry := types.SgpdEntry{Raw: rawPreview(p)}
		if seig && length >= seigSize {
			if e, _, ok := parseSeig(p); ok {
				entry = types.SgpdEntry{Seig: e}
			}
		}
		r.Entries = append(r.Entries, entry)
	}
	if err := c.finish(in, "sample group entries"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSaiz(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Saiz{}
	if in.flags()&1 != 0 {
		r.AuxInfoType = c.fourcc()
		r.AuxInfoTypeParameter = c.u32()
	}
	r.DefaultSampleInfoSize = c.u8()
	if r.DefaultSampleInfoSize == 0 {
		n, _ := c.count(1)
		r.SampleCount = uint32(n)
		r.SampleInfoSizes = append([]uint8(nil), c.take(n)...)
	} else {
		r.SampleCount = c.u32()
	}
	if err := c.finish(in, "auxiliary info sizes"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSaio(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Saio{}
	if in.flags()&1 != 0 {
		r.AuxInfoType = c.fourcc()
		r.AuxInfoTypeParameter = c.u32()
	}
	wide := in.version() == 1
	size := 4
	if wide {
		size = 8
	}
	n, _ := c.count(size)
	r.Offsets = make([]uint64, n)
	for i := range r.Offsets {
		r.Offsets[i] = c.uvar(wide)
	}
	if err := c.finish(in, "auxiliary info offsets"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}
