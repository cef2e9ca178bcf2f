package decode

import (
	"math/bits"

	codec "github.com/yapingcat/gomedia/go-codec"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecMfhd, decodeMfhd)
	register(registry.DecTfhd, decodeTfhd)
	register(registry.DecTfdt, decodeTfdt)
	register(registry.DecTrex, decodeTrex)
	register(registry.DecMehd, decodeMehd)
	register(registry.DecTrun, decodeTrun)
	register(registry.DecSidx, decodeSidx)
	register(registry.DecTfra, decodeTfra)
	register(registry.DecMfro, decodeMfro)
	register(registry.DecPrft, decodePrft)
}

func decodeMfhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Mfhd{SequenceNumber: c.u32()}
	if err := c.finish(in, "sequence number"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeTfhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	f := in.flags()
	r := &types.Tfhd{TrackID: c.u32(), Flags: f}
	if f&types.TfhdBaseDataOffset != 0 {
		r.BaseDataOffset = c.u64()
	}
	if f&types.TfhdSampleDescriptionIdx != 0 {
		r.SampleDescriptionIndex = c.u32()
	}
	if f&types.TfhdDefaultSampleDuration != 0 {
		r.DefaultSampleDuration = c.u32()
	}
	if f&types.TfhdDefaultSampleSize != 0 {
		r.DefaultSampleSize = c.u32()
	}
	if f&types.TfhdDefaultSampleFlags != 0 {
		r.DefaultSampleFlags = c.u32()
	}
	if err := c.finish(in, "track fragment header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeTfdt(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Tfdt{BaseMediaDecodeTime: c.uvar(in.version() == 1)}
	if err := c.finish(in, "decode time"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeTrex(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Trex{
		TrackID:                       c.u32(),
		DefaultSampleDescriptionIndex: c.u32(),
		DefaultSampleDuration:         c.u32(),
		DefaultSampleSize:             c.u32(),
		DefaultSampleFlags:            c.u32(),
	}
	if err := c.finish(in, "track extends"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeMehd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Mehd{FragmentDuration: c.uvar(in.version() == 1)}
	if err := c.finish(in, "fragment duration"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

// trunPerSample is the mask of flags that add a 32-bit field per sample.
const trunPerSample = types.TrunSampleDuration | types.TrunSampleSize |
	types.TrunSampleFlags | types.TrunSampleCompositionTime

func decodeTrun(in Input) (Output, error) {
	c := newCursor(in.Payload)
	f := in.flags()
	r := &types.Trun{SampleCount: c.u32(), Flags: f}
	if f&types.TrunDataOffset != 0 {
		r.DataOffset = c.i32()
	}
	if f&types.TrunFirstSampleFlags != 0 {
		r.FirstSampleFlags = c.u32()
	}
	if err := c.finish(in, "run header"); err != nil {
		return Output{}, err
	}
	if uint64(r.SampleCount) > types.MaxTableEntries {
		return Output{}, in.dataLength(0, "run of %d samples", r.SampleCount)
	}
	width := 4 * bits.OnesCount32(f&trunPerSample)
	if width == 0 {
		// Every sample takes the defaults; only the count is stored.
		return record(r), nil
	}
	if int64(r.SampleCount)*int64(width) > int64(c.remaining()) {
		return Output{}, in.truncated(c.off, "run samples")
	}
	signed := in.version() != 0
	r.Samples = make([]types.TrunSample, r.SampleCount)
	for i := range r.Samples {
		s := &r.Samples[i]
		if f&types.TrunSampleDuration != 0 {
			s.Duration = c.u32()
		}
		if f&types.TrunSampleSize != 0 {
			s.Size = c.u32()
		}
		if f&types.TrunSampleFlags != 0 {
			s.Flags = c.u32()
		}
		if f&types.TrunSampleCompositionTime != 0 {
			if signed {
				s.CompositionTimeOffset = int64(c.i32())
			} else {
				s.CompositionTimeOffset = int64(c.u32())
			}
		}
	}
	if err := c.finish(in, "run samples"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSidx(in Input) (Output, error) {
	c := newCursor(in.Payload)
	wide := in.version() != 0
	r := &types.Sidx{
		ReferenceID:              c.u32(),
		Timescale:                c.u32(),
		EarliestPresentationTime: c.uvar(wide),
		FirstOffset:              c.uvar(wide),
	}
	c.skip(2)
	n := int(c.u16())
	if err := c.finish(in, "segment index header"); err != nil {
		return Output{}, err
	}
	if n*12 > c.remaining() {
		return Output{}, in.truncated(c.off, "segment index references")
	}
	r.References = make([]types.SidxReference, n)
	for i := range r.References {
		bs := codec.NewBitStream(c.take(12))
		ref := &r.References[i]
		ref.ReferenceType = bs.GetBit()
		ref.ReferencedSize = uint32(bs.GetBits(31))
		ref.SubsegmentDuration = uint32(bs.GetBits(32))
		ref.StartsWithSAP = bs.GetBit()
		ref.SAPType = uint8(bs.GetBits(3))
		ref.SAPDeltaTime = uint32(bs.GetBits(28))
	}
	return record(r), nil
}

func decodeTfra(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Tfra{TrackID: c.u32()}
	sizes := c.take(4)
	if err := c.finish(in, "random access header"); err != nil {
		return Output{}, err
	}
	bs := codec.NewBitStream(sizes)
	bs.SkipBits(26)
	trafLen := int(bs.GetBits(2)) + 1
	trunLen := int(bs.GetBits(2)) + 1
	sampleLen := int(bs.GetBits(2)) + 1

	wide := in.version() == 1
	entry := trafLen + trunLen + sampleLen + 8
	if wide {
		entry += 8
	}
	n, _ := c.count(entry)
	r.Entries = make([]types.TfraEntry, 0, n)
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, types.TfraEntry{
			Time:         c.uvar(wide),
			MoofOffset:   c.uvar(wide),
			TrafNumber:   uint32(c.uintN(trafLen)),
			TrunNumber:   uint32(c.uintN(trunLen)),
			SampleNumber: uint32(c.uintN(sampleLen)),
		})
	}
	if err := c.finish(in, "random access entries"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeMfro(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Mfro{Size: c.u32()}
	if err := c.finish(in, "size"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodePrft(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Prft{ReferenceTrackID: c.u32(), NTPTimestamp: c.u64()}
	r.MediaTime = c.uvar(in.version() != 0)
	if err := c.finish(in, "producer reference time"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}
