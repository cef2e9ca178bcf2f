package decode

import (
	"encoding/hex"
	"math"

	codec "github.com/yapingcat/gomedia/go-codec"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecVisualSample, decodeVisualSampleEntry)
	register(registry.DecAudioSample, decodeAudioSampleEntry)
	register(registry.DecAvcC, decodeAvcC)
	register(registry.DecBtrt, decodeBtrt)
	register(registry.DecPasp, decodePasp)
	register(registry.DecColr, decodeColr)
}

// Fixed prefixes of sample entries before their child boxes.
const (
	visualEntrySize   = 78
	audioEntrySizeV0  = 28
	audioEntrySizeV1  = 44
	audioEntrySizeV2  = 64
	compressorNameLen = 32
)

func decodeVisualSampleEntry(in Input) (Output, error) {
	c := newCursor(in.Payload)
	c.skip(6)
	r := &types.VisualSampleEntry{DataReferenceIndex: c.u16()}
	c.skip(16)
	r.Width = c.u16()
	r.Height = c.u16()
	r.HorizResolution = c.fixed16()
	r.VertResolution = c.fixed16()
	c.skip(4)
	r.FrameCount = c.u16()
	if name := c.take(compressorNameLen); name != nil {
		n := min(int(name[0]), compressorNameLen-1)
		r.CompressorName = boxText(name[1 : 1+n])
	}
	r.Depth = c.u16()
	c.skip(2)
	if err := c.finish(in, "visual sample entry"); err != nil {
		return Output{}, err
	}
	return Output{Value: types.RecordValue(r), Prefix: visualEntrySize}, nil
}

func decodeAudioSampleEntry(in Input) (Output, error) {
	c := newCursor(in.Payload)
	c.skip(6)
	r := &types.AudioSampleEntry{DataReferenceIndex: c.u16(), EntryVersion: c.u16()}
	c.skip(6) // revision, vendor
	prefix := audioEntrySizeV0
	switch r.EntryVersion {
	case 0, 1:
		r.ChannelCount = uint32(c.u16())
		r.SampleSize = uint32(c.u16())
		c.skip(4) // compression id, packet size
		r.SampleRate = c.fixed16()
		if r.EntryVersion == 1 {
			c.skip(16)
			prefix = audioEntrySizeV1
		}
	case 2:
		c.skip(12) // always 3, 16, -2, 0, 65536
		c.skip(4)  // sizeOfStructOnly
		r.SampleRate = math.Float64frombits(c.u64())
		r.ChannelCount = c.u32()
		c.skip(4) // always 0x7F000000
		r.SampleSize = c.u32()
		c.skip(12) // format flags, bytes and frames per packet
		prefix = audioEntrySizeV2
	default:
		return Output{}, in.unsupported(8, "audio sample entry version %d", r.EntryVersion)
	}
	if err := c.finish(in, "audio sample entry"); err != nil {
		return Output{}, err
	}
	return Output{Value: types.RecordValue(r), Prefix: prefix}, nil
}

// High profiles carry chroma and bit depth after the parameter sets.
var avcHighProfiles = map[uint8]bool{100: true, 110: true, 122: true, 144: true}

func decodeAvcC(in Input) (Output, error) {
	c := newCursor(in.Payload)
	head := c.take(6)
	if err := c.finish(in, "configuration header"); err != nil {
		return Output{}, err
	}
	bs := codec.NewBitStream(head)
	r := &types.AvcC{
		ConfigurationVersion: uint8(bs.GetBits(8)),
		ProfileIndication:    uint8(bs.GetBits(8)),
		ProfileCompatibility: uint8(bs.GetBits(8)),
		LevelIndication:      uint8(bs.GetBits(8)),
	}
	bs.SkipBits(6)
	r.NALLengthSize = uint8(bs.GetBits(2)) + 1
	bs.SkipBits(3)
	numSPS := int(bs.GetBits(5))

	var firstSPS []byte
	for i := 0; i < numSPS; i++ {
		nal := c.take(int(c.u16()))
		if nal == nil {
			break
		}
		if firstSPS == nil {
			firstSPS = nal
		}
		r.SPS = append(r.SPS, hex.EncodeToString(nal))
	}
	numPPS := int(c.u8())
	for i := 0; i < numPPS; i++ {
		nal := c.take(int(c.u16()))
		if nal == nil {
			break
		}
		r.PPS = append(r.PPS, hex.EncodeToString(nal))
	}
	if err := c.finish(in, "parameter sets"); err != nil {
		return Output{}, err
	}
	if avcHighProfiles[r.ProfileIndication] && c.remaining() >= 4 {
		ext := codec.NewBitStream(c.take(3))
		ext.SkipBits(6)
		r.ChromaFormat = uint8(ext.GetBits(2))
		ext.SkipBits(5)
		r.BitDepthLuma = uint8(ext.GetBits(3)) + 8
		ext.SkipBits(5)
		r.BitDepthChroma = uint8(ext.GetBits(3)) + 8
	}
	if firstSPS != nil {
		r.Width, r.Height = spsResolution(firstSPS)
	}
	return record(r), nil
}

// spsResolution returns the coded picture size of an SPS NAL unit, or
// zeros when the SPS cannot be parsed.
func spsResolution(nal []byte) (w, h uint32) {
	if len(nal) < 4 {
		return 0, 0
	}
	defer func() {
		if recover() != nil {
			w, h = 0, 0
		}
	}()
	annexB := append([]byte{0, 0, 0, 1}, nal...)
	w, h = codec.GetH264Resolution(annexB)
	if w > 1<<16 || h > 1<<16 {
		return 0, 0
	}
	return w, h
}

func decodeBtrt(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Btrt{BufferSizeDB: c.u32(), MaxBitrate: c.u32(), AvgBitrate: c.u32()}
	if err := c.finish(in, "bitrate"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodePasp(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Pasp{HSpacing: c.u32(), VSpacing: c.u32()}
	if err := c.finish(in, "pixel aspect ratio"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeColr(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Colr{ColorType: c.fourcc()}
	switch r.ColorType {
	case "nclx", "nclc":
		r.ColorPrimaries = c.u16()
		r.TransferCharacteristics = c.u16()
		r.MatrixCoefficients = c.u16()
		if r.ColorType == "nclx" {
			r.FullRange = c.u8()>>7 == 1
		}
	}
	if err := c.finish(in, "colour information"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}
