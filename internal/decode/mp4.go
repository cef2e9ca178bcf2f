package decode

import (
	"strconv"

	"github.com/joshuapare/boxkit/internal/buf"
	"github.com/joshuapare/boxkit/internal/format"
	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecFtyp, decodeFtyp)
	register(registry.DecMvhd, decodeMvhd)
	register(registry.DecTkhd, decodeTkhd)
	register(registry.DecMdhd, decodeMdhd)
	register(registry.DecHdlr, decodeHdlr)
	register(registry.DecVmhd, decodeVmhd)
	register(registry.DecSmhd, decodeSmhd)
	register(registry.DecHmhd, decodeHmhd)
	register(registry.DecEntryCount, decodeEntryCount)
	register(registry.DecIpro, decodeIpro)
	register(registry.DecMeta, decodeMeta)
	register(registry.DecElst, decodeElst)
	register(registry.DecURL, decodeURL)
	register(registry.DecCprt, decodeCprt)
	register(registry.DecIlstData, decodeIlstData)
	register(registry.DecFrma, decodeFrma)
	register(registry.DecSchm, decodeSchm)
}

func decodeFtyp(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Ftyp{MajorBrand: c.fourcc(), MinorVersion: c.u32()}
	if err := c.finish(in, "brand"); err != nil {
		return Output{}, err
	}
	for c.remaining() >= 4 {
		r.CompatibleBrands = append(r.CompatibleBrands, c.fourcc())
	}
	return record(r), nil
}

func matrix(c *cursor) (m [9]uint32) {
	for i := range m {
		m[i] = c.u32()
	}
	return m
}

func decodeMvhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	wide := in.version() == 1
	r := &types.Mvhd{
		CreationTime:     format.MP4Time(c.uvar(wide)),
		ModificationTime: format.MP4Time(c.uvar(wide)),
		Timescale:        c.u32(),
		Duration:         c.uvar(wide),
		Rate:             c.fixed16(),
		Volume:           c.fixed8(),
	}
	c.skip(10)
	r.Matrix = matrix(c)
	c.skip(24)
	r.NextTrackID = c.u32()
	if err := c.finish(in, "movie header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeTkhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	wide := in.version() == 1
	r := &types.Tkhd{
		CreationTime:     format.MP4Time(c.uvar(wide)),
		ModificationTime: format.MP4Time(c.uvar(wide)),
		TrackID:          c.u32(),
	}
	c.skip(4)
	r.Duration = c.uvar(wide)
	c.skip(8)
	r.Layer = c.i16()
	r.AlternateGroup = c.i16()
	r.Volume = c.fixed8()
	c.skip(2)
	r.Matrix = matrix(c)
	r.Width = c.fixed16()
	r.Height = c.fixed16()
	if err := c.finish(in, "track header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeMdhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	wide := in.version() == 1
	r := &types.Mdhd{
		CreationTime:     format.MP4Time(c.uvar(wide)),
		ModificationTime: format.MP4Time(c.uvar(wide)),
		Timescale:        c.u32(),
		Duration:         c.uvar(wide),
	}
	r.Language = language(c.take(2))
	if err := c.finish(in, "media header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeHdlr(in Input) (Output, error) {
	c := newCursor(in.Payload)
	c.skip(4)
	r := &types.Hdlr{HandlerType: c.fourcc()}
	c.skip(12)
	if err := c.finish(in, "handler"); err != nil {
		return Output{}, err
	}
	r.Name = pascalOrCText(c.rest())
	return record(r), nil
}

func decodeVmhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Vmhd{GraphicsMode: c.u16()}
	for i := range r.OpColor {
		r.OpColor[i] = c.u16()
	}
	if err := c.finish(in, "video media header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSmhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Smhd{Balance: c.fixed8()}
	if err := c.finish(in, "sound media header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeHmhd(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Hmhd{MaxPDUSize: c.u16(), AvgPDUSize: c.u16(), MaxBitrate: c.u32(), AvgBitrate: c.u32()}
	if err := c.finish(in, "hint media header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeEntryCount(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.EntryCount{EntryCount: c.u32()}
	if err := c.finish(in, "entry count"); err != nil {
		return Output{}, err
	}
	return Output{Value: types.RecordValue(r), Prefix: 4}, nil
}

func decodeIpro(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.EntryCount{EntryCount: uint32(c.u16())}
	if err := c.finish(in, "protection count"); err != nil {
		return Output{}, err
	}
	return Output{Value: types.RecordValue(r), Prefix: 2}, nil
}

// decodeMeta tells the QuickTime form, whose first child (hdlr) starts
// right away, from the ISO form with a version/flags word in front.
func decodeMeta(in Input) (Output, error) {
	p := in.Payload
	if len(p) >= 8 && types.FourCC(buf.U32BE(p[4:8])) == "hdlr" {
		return Output{}, nil
	}
	if len(p) < format.FullBoxSize {
		return Output{}, in.truncated(0, "version and flags")
	}
	if in.Node != nil {
		in.Node.FullBox = true
		in.Node.Version = p[0]
		in.Node.Flags = buf.U24BE(p[1:4])
	}
	return Output{Prefix: format.FullBoxSize}, nil
}

func decodeElst(in Input) (Output, error) {
	c := newCursor(in.Payload)
	wide := in.version() == 1
	size := 12
	if wide {
		size = 20
	}
	n, _ := c.count(size)
	r := &types.Elst{Entries: make([]types.ElstEntry, 0, n)}
	for i := 0; i < n; i++ {
		var e types.ElstEntry
		if wide {
			e.SegmentDuration = c.u64()
			e.MediaTime = c.i64()
		} else {
			e.SegmentDuration = uint64(c.u32())
			e.MediaTime = int64(c.i32())
		}
		e.MediaRateInteger = c.i16()
		e.MediaRateFraction = c.i16()
		r.Entries = append(r.Entries, e)
	}
	if err := c.finish(in, "edit list"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeURL(in Input) (Output, error) {
	r := &types.Url{SelfContained: in.flags()&1 != 0}
	if !r.SelfContained {
		r.Location = boxText(in.Payload)
	}
	return record(r), nil
}

func decodeCprt(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Cprt{Language: language(c.take(2))}
	if err := c.finish(in, "language"); err != nil {
		return Output{}, err
	}
	r.Notice = boxText(c.rest())
	return record(r), nil
}

// Well-known ilst data type indicators.
const (
	ilstUTF8     = 1
	ilstUTF16    = 2
	ilstSignedBE = 21
	ilstUintBE   = 22
)

// decodeIlstData reads the value atom of a metadata item. Its flags word
// is the type indicator.
func decodeIlstData(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.IlstData{DataType: in.flags(), Locale: c.u32()}
	if err := c.finish(in, "locale"); err != nil {
		return Output{}, err
	}
	rest := c.rest()
	r.Size = len(rest)
	switch r.DataType {
	case ilstUTF8:
		r.Text = boxText(rest)
	case ilstUTF16:
		r.Text = utf16Text(rest)
	case ilstSignedBE:
		if v, ok := buf.IntN(rest, len(rest)); ok && len(rest) > 0 {
			r.Text = strconv.FormatInt(v, 10)
		}
	case ilstUintBE:
		if v, ok := buf.UintN(rest, len(rest)); ok && len(rest) > 0 {
			r.Text = strconv.FormatUint(v, 10)
		}
	}
	return record(r), nil
}

func decodeFrma(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Frma{DataFormat: c.fourcc()}
	if err := c.finish(in, "data format"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodeSchm(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Schm{SchemeType: c.fourcc(), SchemeVersion: c.u32()}
	if err := c.finish(in, "scheme"); err != nil {
		return Output{}, err
	}
	if in.flags()&1 != 0 {
		r.SchemeURI = boxText(c.rest())
	}
	return record(r), nil
}
