package container

import (
	"math"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

var (
	tagFtyp = types.Tag4("ftyp")
	tagStyp = types.Tag4("styp")
	tagMoov = types.Tag4("moov")
	tagMoof = types.Tag4("moof")
	tagMvhd = types.Tag4("mvhd")
	tagTrak = types.Tag4("trak")
	tagTkhd = types.Tag4("tkhd")
	tagMdia = types.Tag4("mdia")
	tagMdhd = types.Tag4("mdhd")
	tagHdlr = types.Tag4("hdlr")
	tagMinf = types.Tag4("minf")
	tagStbl = types.Tag4("stbl")
	tagStsd = types.Tag4("stsd")
	tagStsz = types.Tag4("stsz")
	tagStz2 = types.Tag4("stz2")
)

// Matroska element IDs read by the summary.
const (
	idEBML              = 0x1A45DFA3
	idDocType           = 0x4282
	idSegment           = 0x18538067
	idInfo              = 0x1549A966
	idTimestampScale    = 0x2AD7B1
	idDuration          = 0x4489
	idDateUTC           = 0x4461
	idMuxingApp         = 0x4D80
	idWritingApp        = 0x5741
	idTracks            = 0x1654AE6B
	idTrackEntry        = 0xAE
	idTrackNumber       = 0xD7
	idTrackType         = 0x83
	idCodecID           = 0x86
	idLanguage          = 0x22B59C
	idDefaultDuration   = 0x23E383
	idVideo             = 0xE0
	idPixelWidth        = 0xB0
	idPixelHeight       = 0xBA
	idAudio             = 0xE1
	idSamplingFrequency = 0xB5
	idChannels          = 0x9F
)

// Summary returns the headline facts of the file, built on first use. The
// result is shared and must not be modified.
func (f *File) Summary() *types.Summary {
	f.summaryOnce.Do(func() {
		s := &types.Summary{
			Filename: f.path,
			FileSize: f.Size(),
			Family:   f.res.Family.String(),
			Tracks:   []types.TrackSummary{},
		}
		if f.res.Family == types.FamilyEBML {
			f.matroskaSummary(s)
		} else {
			f.movieSummary(s)
		}
		f.summary = s
	})
	return f.summary
}

func (f *File) movieSummary(s *types.Summary) {
	var moov *types.Node
	for _, n := range f.res.Nodes {
		switch n.Tag {
		case tagFtyp, tagStyp:
			if s.Brand != "" {
				continue
			}
			if r, ok := recordOf[*types.Ftyp](n); ok {
				s.Brand = r.MajorBrand
				s.CompatibleBrands = r.CompatibleBrands
			}
		case tagMoov:
			if moov == nil {
				moov = n
			}
		case tagMoof:
			s.ContainsFragments = true
		}
	}
	if moov == nil {
		return
	}

	if mvhd, ok := recordOf[*types.Mvhd](moov.Child(tagMvhd)); ok {
		s.CreationTime = mvhd.CreationTime
		s.ModificationTime = mvhd.ModificationTime
		if mvhd.Timescale > 0 && !allOnes(mvhd.Duration, moov.Child(tagMvhd).Version) {
			s.Duration = float64(mvhd.Duration) / float64(mvhd.Timescale)
		}
	}
	if s.Duration > 0 {
		s.Bitrate = math.Round(8 * float64(s.FileSize) / s.Duration)
	}

	var fragments map[uint32]int
	if s.ContainsFragments {
		fragments = f.fragmentSamples()
	}
	for _, trak := range moov.ChildrenOf(tagTrak) {
		if t, ok := trackSummary(trak); ok {
			t.Samples += fragments[uint32(t.ID)]
			s.Tracks = append(s.Tracks, t)
		}
	}
}

// trackSummary reads one trak. Tracks without a header are skipped.
func trackSummary(trak *types.Node) (types.TrackSummary, bool) {
	var t types.TrackSummary
	tkhd, ok := recordOf[*types.Tkhd](trak.Child(tagTkhd))
	if !ok {
		return t, false
	}
	t.ID = uint64(tkhd.TrackID)

	mdia := trak.Child(tagMdia)
	if mdia == nil {
		return t, true
	}
	if hdlr, ok := recordOf[*types.Hdlr](mdia.Child(tagHdlr)); ok {
		t.MediaType = hdlr.HandlerType
	}
	stbl := mdia.Descend(tagMinf, tagStbl)

	var count uint32
	var bytes uint64
	if stbl != nil {
		sizes, ok := recordOf[*types.SampleSizes](stbl.Child(tagStsz))
		if !ok {
			sizes, ok = recordOf[*types.SampleSizes](stbl.Child(tagStz2))
		}
		if ok {
			count = sizes.SampleCount
			if sizes.SampleSize > 0 {
				bytes = uint64(sizes.SampleSize) * uint64(count)
			} else {
				for _, e := range sizes.EntrySizes {
					bytes += uint64(e)
				}
			}
		}
	}
	t.Samples = int(count)

	// sample rate over the media duration; for video it is the frame rate
	var rate float64
	mdhdNode := mdia.Child(tagMdhd)
	if mdhd, ok := recordOf[*types.Mdhd](mdhdNode); ok {
		t.Language = mdhd.Language
		if mdhd.Timescale > 0 && !allOnes(mdhd.Duration, mdhdNode.Version) {
			t.Duration = float64(mdhd.Duration) / float64(mdhd.Timescale)
		}
		if bytes > 0 && t.Duration > 0 {
			t.Bitrate = math.Round(8 * float64(bytes) / t.Duration)
			rate = round2(float64(count) * float64(mdhd.Timescale) / float64(mdhd.Duration))
		}
	}

	var entry *types.Node
	if stbl != nil {
		if stsd := stbl.Child(tagStsd); stsd != nil && len(stsd.Children()) > 0 {
			entry = stsd.Children()[0]
			t.Codec = entry.TypeString()
		}
	}
	switch t.MediaType {
	case "vide":
		t.MediaType = "video"
		if v, ok := recordOf[*types.VisualSampleEntry](entry); ok {
			t.Width, t.Height = uint32(v.Width), uint32(v.Height)
		}
		t.FrameRate = rate
	case "soun":
		t.MediaType = "audio"
		if a, ok := recordOf[*types.AudioSampleEntry](entry); ok {
			t.Channels = a.ChannelCount
			t.SampleRate = a.SampleRate
		}
	}
	return t, true
}

// fragmentSamples counts the samples each track carries in movie fragments.
func (f *File) fragmentSamples() map[uint32]int {
	out := make(map[uint32]int)
	ix := f.SampleIndex()
	if ix == nil {
		return out
	}
	for _, g := range ix.Groups {
		if g.Fragmented {
			out[g.TrackID] += len(g.Samples)
		}
	}
	return out
}

func (f *File) matroskaSummary(s *types.Summary) {
	var segment *types.Node
	for _, n := range f.res.Nodes {
		switch n.Tag {
		case idEBML:
			if s.DocType == "" {
				s.DocType = ebmlValue(n, idDocType).Text
			}
		case idSegment:
			if segment == nil {
				segment = n
			}
		}
	}
	if segment == nil {
		return
	}

	scale := float64(ebmlValue(nil, idTimestampScale).Uint)
	if info := segment.Child(idInfo); info != nil {
		if v := ebmlValue(info, idTimestampScale).Uint; v > 0 {
			scale = float64(v)
		}
		s.Duration = ebmlValue(info, idDuration).Float * scale / 1e9
		s.CreationTime = ebmlValue(info, idDateUTC).Time
		s.MuxingApp = ebmlValue(info, idMuxingApp).Text
		s.WritingApp = ebmlValue(info, idWritingApp).Text
	}
	if s.Duration > 0 {
		s.Bitrate = math.Round(8 * float64(s.FileSize) / s.Duration)
	}

	type load struct {
		samples int
		bytes   int64
	}
	loads := make(map[uint64]load)
	if ix := f.SampleIndex(); ix != nil {
		for _, g := range ix.Groups {
			l := loads[uint64(g.TrackID)]
			l.samples += len(g.Samples)
			l.bytes += g.TotalSize()
			loads[uint64(g.TrackID)] = l
		}
	}

	typeEntry := registry.MustLookup(types.FamilyEBML, idTrackType)
	for _, tracks := range segment.ChildrenOf(idTracks) {
		for _, te := range tracks.ChildrenOf(idTrackEntry) {
			t := types.TrackSummary{
				ID:       ebmlValue(te, idTrackNumber).Uint,
				Codec:    ebmlValue(te, idCodecID).Text,
				Language: ebmlValue(te, idLanguage).Text,
			}
			kind := ebmlValue(te, idTrackType).Uint
			if label, ok := typeEntry.EnumLabel(kind); ok {
				t.MediaType = label
			}
			if v := te.Child(idVideo); v != nil {
				t.Width = uint32(ebmlValue(v, idPixelWidth).Uint)
				t.Height = uint32(ebmlValue(v, idPixelHeight).Uint)
				if dd := ebmlValue(te, idDefaultDuration).Uint; dd > 0 {
					t.FrameRate = round2(1e9 / float64(dd))
				}
			}
			if a := te.Child(idAudio); a != nil {
				t.Channels = uint32(ebmlValue(a, idChannels).Uint)
				t.SampleRate = ebmlValue(a, idSamplingFrequency).Float
			}
			l := loads[t.ID]
			t.Samples = l.samples
			if s.Duration > 0 && l.bytes > 0 {
				t.Bitrate = math.Round(8 * float64(l.bytes) / s.Duration)
			}
			s.Tracks = append(s.Tracks, t)
		}
	}
}

// ebmlValue returns the value of the first child of parent with the given
// ID, or the element's registry default when it is absent or undecodable.
func ebmlValue(parent *types.Node, id uint32) types.Value {
	if parent != nil {
		if c := parent.Child(id); c != nil && c.Err == nil && !c.Value.IsEmpty() {
			return c.Value
		}
	}
	return registry.MustLookup(types.FamilyEBML, id).Default
}

func recordOf[R types.Record](n *types.Node) (R, bool) {
	var zero R
	if n == nil || n.Err != nil {
		return zero, false
	}
	r, ok := n.Value.Record.(R)
	return r, ok
}

// allOnes reports the "duration unknown" marker of a version 0 or 1 header.
func allOnes(d uint64, version uint8) bool {
	if version == 1 {
		return d == math.MaxUint64
	}
	return d == math.MaxUint32
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
