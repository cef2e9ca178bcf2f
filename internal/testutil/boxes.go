package testutil

import (
	"encoding/binary"
	"math"
)

// B is a big-endian byte builder.
type B []byte

func (b B) U8(v uint8) B   { return append(b, v) }
func (b B) U16(v uint16) B { return binary.BigEndian.AppendUint16(b, v) }
func (b B) U24(v uint32) B { return append(b, byte(v>>16), byte(v>>8), byte(v)) }
func (b B) U32(v uint32) B { return binary.BigEndian.AppendUint32(b, v) }
func (b B) U64(v uint64) B { return binary.BigEndian.AppendUint64(b, v) }
func (b B) Str(s string) B { return append(b, s...) }
func (b B) Zeros(n int) B  { return append(b, make([]byte, n)...) }
func (b B) Raw(p ...byte) B {
	return append(b, p...)
}

// Cat concatenates byte slices.
func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Box frames payload as a compact box of the given type.
func Box(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(B{}.U32(uint32(8+len(body))).Str(typ), body)
}

// FullBox frames payload behind a version/flags word.
func FullBox(typ string, version uint8, flags uint32, payload ...[]byte) []byte {
	return Box(typ, Cat(B{}.U8(version).U24(flags), Cat(payload...)))
}

// LargeBox frames payload with a 64-bit size.
func LargeBox(typ string, payload ...[]byte) []byte {
	body := Cat(payload...)
	return Cat(B{}.U32(1).Str(typ).U64(uint64(16+len(body))), body)
}

// RawHeader is a box header with an arbitrary declared size and no payload.
func RawHeader(size uint32, typ string) []byte {
	return B{}.U32(size).Str(typ)
}

func unityMatrix() B {
	return B{}.U32(0x10000).U32(0).U32(0).U32(0).U32(0x10000).U32(0).U32(0).U32(0).U32(0x40000000)
}

// Ftyp is a file type box.
func Ftyp(major string, compatible ...string) []byte {
	b := B{}.Str(major).U32(0x200)
	for _, c := range compatible {
		b = b.Str(c)
	}
	return Box("ftyp", b)
}

// Mvhd is a version 0 movie header.
func Mvhd(timescale, duration, nextTrack uint32) []byte {
	b := B{}.U32(0).U32(0).U32(timescale).U32(duration).
		U32(0x10000).U16(0x100).Zeros(10).Raw(unityMatrix()...).Zeros(24).U32(nextTrack)
	return FullBox("mvhd", 0, 0, b)
}

// Tkhd is a version 0 track header.
func Tkhd(trackID, duration, width, height uint32) []byte {
	b := B{}.U32(0).U32(0).U32(trackID).U32(0).U32(duration).Zeros(8).
		U16(0).U16(0).U16(0).U16(0).Raw(unityMatrix()...).U32(width << 16).U32(height << 16)
	return FullBox("tkhd", 0, 3, b)
}

// Mdhd is a version 0 media header with language "und".
func Mdhd(timescale, duration uint32) []byte {
	return FullBox("mdhd", 0, 0, B{}.U32(0).U32(0).U32(timescale).U32(duration).U16(0x55C4).U16(0))
}

// Hdlr is a handler reference with a C string name.
func Hdlr(handler, name string) []byte {
	return FullBox("hdlr", 0, 0, B{}.U32(0).Str(handler).Zeros(12).Str(name).U8(0))
}

// Stsd is a sample description box holding the given entries.
func Stsd(entries ...[]byte) []byte {
	return FullBox("stsd", 0, 0, B{}.U32(uint32(len(entries))), Cat(entries...))
}

// VisualEntry is a visual sample entry of the given type.
func VisualEntry(typ string, width, height uint16, children ...[]byte) []byte {
	b := B{}.Zeros(6).U16(1).Zeros(16).U16(width).U16(height).
		U32(0x480000).U32(0x480000).U32(0).U16(1).Zeros(32).U16(0x18).U16(0xFFFF)
	return Box(typ, b, Cat(children...))
}

// AudioEntry is a version 0 audio sample entry.
func AudioEntry(typ string, channels uint16, rate uint32, children ...[]byte) []byte {
	b := B{}.Zeros(6).U16(1).Zeros(8).U16(channels).U16(16).Zeros(4).U32(rate << 16)
	return Box(typ, b, Cat(children...))
}

// Stts is a one-run decoding time table.
func Stts(count, delta uint32) []byte {
	return FullBox("stts", 0, 0, B{}.U32(1).U32(count).U32(delta))
}

// StscRun is one row of a sample-to-chunk table.
type StscRun struct {
	FirstChunk, SamplesPerChunk uint32
}

// Stsc is a sample-to-chunk table.
func Stsc(runs ...StscRun) []byte {
	b := B{}.U32(uint32(len(runs)))
	for _, r := range runs {
		b = b.U32(r.FirstChunk).U32(r.SamplesPerChunk).U32(1)
	}
	return FullBox("stsc", 0, 0, b)
}

// Stsz is a sample size table: uniform when size is non-zero, else one
// entry per element of sizes.
func Stsz(size, count uint32, sizes ...uint32) []byte {
	b := B{}.U32(size).U32(count)
	for _, s := range sizes {
		b = b.U32(s)
	}
	return FullBox("stsz", 0, 0, b)
}

// Stco is a 32-bit chunk offset table.
func Stco(offsets ...uint32) []byte {
	b := B{}.U32(uint32(len(offsets)))
	for _, o := range offsets {
		b = b.U32(o)
	}
	return FullBox("stco", 0, 0, b)
}

// Co64 is a 64-bit chunk offset table.
func Co64(offsets ...uint64) []byte {
	b := B{}.U32(uint32(len(offsets)))
	for _, o := range offsets {
		b = b.U64(o)
	}
	return FullBox("co64", 0, 0, b)
}

// Track describes one flat-layout track of a Movie fixture.
type Track struct {
	ID      uint32
	Handler string // vide or soun; vide when empty

	// SampleSize is the uniform size; when zero Sizes holds one size per
	// sample.
	SampleSize  uint32
	SampleCount uint32
	Sizes       []uint32

	Runs    []StscRun
	Offsets []uint64

	// Extra boxes appended to stbl.
	Extra [][]byte
}

func (tr Track) count() uint32 {
	if tr.SampleSize == 0 {
		return uint32(len(tr.Sizes))
	}
	return tr.SampleCount
}

// Trak renders the track box.
func (tr Track) Trak() []byte {
	handler := tr.Handler
	if handler == "" {
		handler = "vide"
	}
	var entry, header []byte
	if handler == "soun" {
		entry = AudioEntry("mp4a", 2, 48000)
		header = FullBox("smhd", 0, 0, B{}.U32(0))
	} else {
		entry = VisualEntry("avc1", 320, 240)
		header = FullBox("vmhd", 0, 1, B{}.Zeros(8))
	}

	var chunks []byte
	wide := false
	for _, o := range tr.Offsets {
		wide = wide || o > math.MaxUint32
	}
	if wide {
		chunks = Co64(tr.Offsets...)
	} else {
		narrow := make([]uint32, len(tr.Offsets))
		for i, o := range tr.Offsets {
			narrow[i] = uint32(o)
		}
		chunks = Stco(narrow...)
	}

	stbl := Box("stbl",
		Stsd(entry),
		Stts(tr.count(), 1000),
		Stsc(tr.Runs...),
		Stsz(tr.SampleSize, tr.count(), tr.Sizes...),
		chunks,
		Cat(tr.Extra...),
	)
	return Box("trak",
		Tkhd(tr.ID, 5000, 320, 240),
		Box("mdia",
			Mdhd(1000, 5000),
			Hdlr(handler, "Handler"),
			Box("minf", header, Box("dinf", FullBox("dref", 0, 0, B{}.U32(1), FullBox("url ", 0, 1))), stbl),
		),
	)
}

// Movie builds ftyp + moov + mdat. The mdat starts right after moov and
// extends to end, which must lie past the movie box; its payload is filled
// with a repeating byte pattern so sample bytes are recognizable.
func Movie(end int, tracks ...Track) []byte {
	var traks [][]byte
	for _, tr := range tracks {
		traks = append(traks, tr.Trak())
	}
	head := Cat(
		Ftyp("isom", "isom", "avc1"),
		Box("moov", Mvhd(1000, 5000, uint32(len(tracks)+1)), Cat(traks...)),
	)
	payload := end - len(head) - 8
	if payload < 0 {
		panic("testutil: movie box does not fit before the media data end")
	}
	data := make([]byte, payload)
	for i := range data {
		data[i] = byte(len(head) + 8 + i)
	}
	return Cat(head, Box("mdat", data))
}

// ScenarioTrack is a single track of five 100-byte samples in chunks of
// 2, 1 and 2 samples at offsets 1000, 1300 and 1500.
func ScenarioTrack() Track {
	return Track{
		ID:          1,
		SampleSize:  100,
		SampleCount: 5,
		Runs:        []StscRun{{1, 2}, {2, 1}, {3, 2}},
		Offsets:     []uint64{1000, 1300, 1500},
	}
}
