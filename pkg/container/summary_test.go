package container_test

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/at-wat/ebml-go"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/testutil"
	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/types"
)

type mkvHeader struct {
	EBMLVersion        uint64
	EBMLReadVersion    uint64
	EBMLMaxIDLength    uint64
	EBMLMaxSizeLength  uint64
	EBMLDocType        string
	EBMLDocTypeVersion uint64
}

type mkvInfo struct {
	TimecodeScale uint64
	Duration      float64
	MuxingApp     string
	WritingApp    string
}

type mkvVideo struct {
	PixelWidth  uint64
	PixelHeight uint64
}

type mkvAudio struct {
	SamplingFrequency float64
	Channels          uint64
}

type mkvTrackEntry struct {
	TrackNumber     uint64
	TrackUID        uint64
	TrackType       uint64
	CodecID         string
	Language        string    `ebml:",omitempty"`
	DefaultDuration uint64    `ebml:",omitempty"`
	Video           *mkvVideo `ebml:",omitempty"`
	Audio           *mkvAudio `ebml:",omitempty"`
}

type mkvTracks struct {
	TrackEntry []mkvTrackEntry
}

type mkvCluster struct {
	Timecode    uint64
	SimpleBlock []ebml.Block
}

type mkvSegment struct {
	Info    mkvInfo
	Tracks  mkvTracks
	Cluster []mkvCluster
}

type mkvFile struct {
	Header  mkvHeader  `ebml:"EBML"`
	Segment mkvSegment `ebml:",size=unknown"`
}

func matroska(t *testing.T) []byte {
	t.Helper()
	frame := func(b byte, n int) [][]byte { return [][]byte{bytes.Repeat([]byte{b}, n)} }
	f := mkvFile{
		Header: mkvHeader{
			EBMLVersion:        1,
			EBMLReadVersion:    1,
			EBMLMaxIDLength:    4,
			EBMLMaxSizeLength:  8,
			EBMLDocType:        "matroska",
			EBMLDocTypeVersion: 4,
		},
		Segment: mkvSegment{
			Info: mkvInfo{TimecodeScale: 1000000, Duration: 2000, MuxingApp: "boxkit-mux", WritingApp: "boxkit-write"},
			Tracks: mkvTracks{TrackEntry: []mkvTrackEntry{
				{
					TrackNumber: 1, TrackUID: 11, TrackType: 1, CodecID: "V_MPEG4/ISO/AVC",
					DefaultDuration: 40000000,
					Video:           &mkvVideo{PixelWidth: 640, PixelHeight: 360},
				},
				{
					TrackNumber: 2, TrackUID: 12, TrackType: 2, CodecID: "A_OPUS", Language: "fra",
					Audio: &mkvAudio{SamplingFrequency: 48000, Channels: 2},
				},
			}},
			Cluster: []mkvCluster{
				{Timecode: 0, SimpleBlock: []ebml.Block{
					{TrackNumber: 1, Timecode: 0, Keyframe: true, Data: frame(1, 100)},
					{TrackNumber: 2, Timecode: 0, Keyframe: true, Data: frame(2, 20)},
				}},
				{Timecode: 1000, SimpleBlock: []ebml.Block{
					{TrackNumber: 1, Timecode: 0, Data: frame(3, 150)},
					{TrackNumber: 2, Timecode: 0, Keyframe: true, Data: frame(4, 30)},
				}},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, ebml.Marshal(&f, &buf))
	return buf.Bytes()
}

func TestMatroskaSummary(t *testing.T) {
	data := matroska(t)
	f, err := container.Open(testutil.WriteTemp(t, "clip.mkv", data), types.DefaultOpenOptions())
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, types.FamilyEBML, f.Family())
	require.False(t, f.Diagnostics().HasErrors())

	s := f.Summary()
	require.Equal(t, "ebml", s.Family)
	require.Equal(t, "matroska", s.DocType)
	require.Equal(t, "boxkit-mux", s.MuxingApp)
	require.Equal(t, "boxkit-write", s.WritingApp)
	require.InDelta(t, 2.0, s.Duration, 1e-9)
	require.InDelta(t, float64(8*len(data))/2, s.Bitrate, 0.5)
	require.Len(t, s.Tracks, 2)

	video := s.Tracks[0]
	require.Equal(t, uint64(1), video.ID)
	require.Equal(t, "video", video.MediaType)
	require.Equal(t, "V_MPEG4/ISO/AVC", video.Codec)
	require.Equal(t, uint32(640), video.Width)
	require.Equal(t, uint32(360), video.Height)
	require.InDelta(t, 25.0, video.FrameRate, 1e-9)
	require.Equal(t, "eng", video.Language)
	require.Equal(t, 2, video.Samples)
	require.InDelta(t, 1000.0, video.Bitrate, 1e-9)

	audio := s.Tracks[1]
	require.Equal(t, "audio", audio.MediaType)
	require.Equal(t, "A_OPUS", audio.Codec)
	require.Equal(t, "fra", audio.Language)
	require.Equal(t, uint32(2), audio.Channels)
	require.InDelta(t, 48000.0, audio.SampleRate, 1e-9)
	require.Equal(t, 2, audio.Samples)
	require.InDelta(t, 200.0, audio.Bitrate, 1e-9)
}

func TestMatroskaClusterGroups(t *testing.T) {
	data := matroska(t)
	f, err := container.OpenBytes("clip.mkv", data, types.DefaultOpenOptions())
	require.NoError(t, err)

	var clusters []*types.Node
	f.Walk(func(n *types.Node) bool {
		if n.Name == "Cluster" {
			clusters = append(clusters, n)
			return false
		}
		return true
	})
	require.Len(t, clusters, 2)

	for i, c := range clusters {
		groups := f.SampleIndexFor(c)
		require.Len(t, groups, 2, "cluster %d", i)
		for _, g := range groups {
			require.Len(t, g.Samples, 1)
			s := g.Samples[0]
			require.True(t, s.Offset >= c.PayloadOffset() && s.End() <= c.End())
			b, err := f.ReadAt(s.Offset, s.Size)
			require.NoError(t, err)
			require.Equal(t, bytes.Repeat(b[:1], int(s.Size)), b)
		}
	}

	n, err := f.Find("Segment/Info/MuxingApp")
	require.NoError(t, err)
	require.Equal(t, "boxkit-mux", n.Value.Text)
}

func TestFragmentedSummary(t *testing.T) {
	var w bytes.Buffer
	initSeg := mp4.CreateEmptyInit()
	initSeg.Moov.Mvhd.NextTrackID = 1
	const trackID = 1
	initSeg.Moov.AddChild(mp4.CreateEmptyTrak(trackID, 1000, "video", "und"))
	initSeg.Moov.Mvex.AddChild(mp4.CreateTrex(trackID))
	require.NoError(t, initSeg.Encode(&w))

	for seq := uint32(1); seq <= 2; seq++ {
		frag, err := mp4.CreateFragment(seq, trackID)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			data := bytes.Repeat([]byte{byte(seq)}, 25)
			frag.AddFullSample(mp4.FullSample{
				Data:       data,
				DecodeTime: uint64(seq-1)*4000 + uint64(i)*1000,
				Sample: mp4.Sample{
					Flags: mp4.SyncSampleFlags,
					Dur:   1000,
					Size:  uint32(len(data)),
				},
			})
		}
		require.NoError(t, frag.Encode(&w))
	}

	f, err := container.OpenBytes("live.mp4", w.Bytes(), types.DefaultOpenOptions())
	require.NoError(t, err)

	s := f.Summary()
	require.True(t, s.ContainsFragments)
	require.NotEmpty(t, s.Brand)
	require.Len(t, s.Tracks, 1)
	require.Equal(t, uint64(trackID), s.Tracks[0].ID)
	require.Equal(t, "video", s.Tracks[0].MediaType)
	require.Equal(t, 8, s.Tracks[0].Samples)

	var mdats []*types.Node
	for _, n := range f.TopLevel() {
		if types.FourCC(n.Tag) == "mdat" {
			mdats = append(mdats, n)
		}
	}
	require.Len(t, mdats, 2)
	for i, m := range mdats {
		groups := f.SampleIndexFor(m)
		require.Len(t, groups, 1)
		require.Equal(t, uint32(i+1), groups[0].Sequence)
		require.Equal(t, int64(100), groups[0].TotalSize())
	}
}
