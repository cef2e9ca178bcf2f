package samples

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/reader"
	"github.com/joshuapare/boxkit/internal/testutil"
	"github.com/joshuapare/boxkit/pkg/types"
)

type B = testutil.B

func build(t *testing.T, data []byte) (*reader.Result, *Index) {
	t.Helper()
	res, err := reader.Parse(data, types.DefaultOpenOptions())
	require.NoError(t, err)
	return res, Build(res.Family, res.Nodes, int64(len(data)), nil)
}

func topNode(t *testing.T, res *reader.Result, tag string) *types.Node {
	t.Helper()
	for _, n := range res.Nodes {
		if n.Tag == types.Tag4(tag) {
			return n
		}
	}
	t.Fatalf("no top-level %s", tag)
	return nil
}

func offsets(gs []*types.ChunkGroup) []int64 {
	var out []int64
	for _, g := range gs {
		for _, s := range g.Samples {
			out = append(out, s.Offset)
		}
	}
	return out
}

// requireOrdered checks that the merged index is in file order.
func requireOrdered(t *testing.T, ix *Index) {
	t.Helper()
	for i := 1; i < len(ix.Groups); i++ {
		require.LessOrEqual(t, ix.Groups[i-1].Offset, ix.Groups[i].Offset)
	}
}

func TestFlatChunks(t *testing.T) {
	res, ix := build(t, testutil.Movie(1800, testutil.ScenarioTrack()))
	mdat := topNode(t, res, "mdat")

	groups := ix.For(mdat)
	require.Len(t, groups, 3)
	require.Equal(t, []int64{1000, 1100, 1300, 1500, 1600}, offsets(groups))

	first := groups[0]
	require.Equal(t, uint32(1), first.TrackID)
	require.Equal(t, 1, first.Ordinal)
	require.Equal(t, int64(1000), first.Offset)
	require.Equal(t, types.SampleRecord{TrackID: 1, Group: 1, Number: 2, Offset: 1100, Size: 100}, first.Samples[1])
	require.Equal(t, 1, groups[1].Samples[0].Number)
	require.Empty(t, ix.Report.Diagnostics)

	// Sample bytes are addressed in the file, not in a copy.
	data := testutil.Movie(1800, testutil.ScenarioTrack())
	require.Equal(t, byte(1300%256), data[groups[1].Samples[0].Offset])
}

func TestFlatCoverageAndInterleave(t *testing.T) {
	video := testutil.Track{
		ID:          1,
		SampleSize:  100,
		SampleCount: 5,
		Runs:        []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 2}, {FirstChunk: 2, SamplesPerChunk: 1}, {FirstChunk: 3, SamplesPerChunk: 2}},
		Offsets:     []uint64{2000, 2300, 2600},
	}
	audio := testutil.Track{
		ID:      2,
		Handler: "soun",
		Sizes:   []uint32{30, 40, 50, 60},
		Runs:    []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 2}},
		Offsets: []uint64{2200, 2400},
	}
	res, ix := build(t, testutil.Movie(3000, video, audio))
	requireOrdered(t, ix)

	var order []uint32
	for _, g := range ix.Groups {
		order = append(order, g.TrackID)
	}
	require.Equal(t, []uint32{1, 2, 1, 2, 1}, order)

	tests := []struct {
		id    uint32
		count int
		bytes int64
	}{
		{1, 5, 500},
		{2, 4, 180},
	}
	for _, tt := range tests {
		recs := ix.Samples(tt.id)
		require.Len(t, recs, tt.count)
		var sum int64
		for _, r := range recs {
			sum += r.Size
		}
		require.Equal(t, tt.bytes, sum)
	}

	require.Equal(t, []int64{2200, 2230}, offsets(ix.Track(2)[:1]))
	require.Len(t, ix.For(topNode(t, res, "mdat")), 5)

	st := ix.Stats()
	require.Equal(t, Stats{Groups: 5, Samples: 9, Tracks: 2, Attached: 5, Bytes: 680}, st)
}

func TestFlatShortSizeTable(t *testing.T) {
	track := testutil.Track{
		ID:          1,
		SampleSize:  10,
		SampleCount: 3,
		Runs:        []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 2}},
		Offsets:     []uint64{1000, 1100},
	}
	_, ix := build(t, testutil.Movie(1500, track))

	require.Len(t, ix.Groups, 2)
	require.Len(t, ix.Groups[1].Samples, 1)
	require.NotEmpty(t, ix.Groups[1].Issue)
	d := ix.Report.OfKind(types.ErrKindSampleIndex)
	require.Len(t, d, 1)
	require.Equal(t, uint32(1), d[0].Context.TrackID)
}

func TestFlatUnaccountedSamples(t *testing.T) {
	track := testutil.Track{
		ID:          1,
		SampleSize:  10,
		SampleCount: 6,
		Runs:        []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 2}},
		Offsets:     []uint64{1000, 1100},
	}
	_, ix := build(t, testutil.Movie(1500, track))
	require.Len(t, ix.Samples(1), 4)
	require.Len(t, ix.Report.Diagnostics, 1)
}

func TestFlatGroupOutsideMediaData(t *testing.T) {
	tests := []struct {
		name       string
		offset     uint64
		samples    int
		recoveries []string
	}{
		{"inside the file header", 8, 2, []string{types.RecoveryDetached}},
		{"past the end of the file", 5000, 0, []string{types.RecoveryClipped, types.RecoveryDetached}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := testutil.ScenarioTrack()
			track.Offsets = []uint64{1000, 1300, tt.offset}
			res, ix := build(t, testutil.Movie(1800, track))

			require.Len(t, ix.Groups, 3)
			require.Len(t, ix.For(topNode(t, res, "mdat")), 2)
			var stray *types.ChunkGroup
			for _, g := range ix.Track(1) {
				if g.Ordinal == 3 {
					stray = g
				}
			}
			require.NotNil(t, stray)
			require.Equal(t, int64(tt.offset), stray.Offset)
			require.Len(t, stray.Samples, tt.samples)

			var got []string
			for _, d := range ix.Report.Diagnostics {
				require.Equal(t, int64(tt.offset), d.Offset)
				got = append(got, d.Recovery)
			}
			require.ElementsMatch(t, tt.recoveries, got)
		})
	}
}

func TestFlatChunkPastEndOfFile(t *testing.T) {
	// One chunk claiming every sample of a 32-bit uniform size table.
	track := testutil.Track{
		ID:          1,
		SampleSize:  1,
		SampleCount: 0xFFFFFFFF,
		Runs:        []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 0xFFFFFFFF}},
		Offsets:     []uint64{1000},
	}
	res, ix := build(t, testutil.Movie(1500, track))

	require.Len(t, ix.Groups, 1)
	g := ix.Groups[0]
	require.Len(t, g.Samples, 500)
	require.Equal(t, int64(1500), g.End())
	require.NotEmpty(t, g.Issue)
	require.Len(t, ix.For(topNode(t, res, "mdat")), 1)

	d := ix.Report.Diagnostics
	require.Len(t, d, 1)
	require.Equal(t, types.RecoveryClipped, d[0].Recovery)
	require.Equal(t, "stco", d[0].Structure)
}

// fragment builds moof + mdat where the mdat payload reaches end.
func fragment(end int, trafs ...[]byte) []byte {
	moof := testutil.Box("moof",
		testutil.FullBox("mfhd", 0, 0, B{}.U32(7)),
		testutil.Cat(trafs...),
	)
	return testutil.Cat(moof, testutil.Box("mdat", make([]byte, end-len(moof)-8)))
}

func TestFragmentRunOffsets(t *testing.T) {
	traf := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdBaseDataOffset, B{}.U32(1).U64(2000)),
		testutil.FullBox("trun", 0, types.TrunDataOffset|types.TrunSampleSize, B{}.U32(2).U32(10).U32(50).U32(75)),
	)
	res, ix := build(t, fragment(2200, traf))

	groups := ix.For(topNode(t, res, "mdat"))
	require.Len(t, groups, 1)
	g := groups[0]
	require.True(t, g.Fragmented)
	require.Equal(t, uint32(7), g.Sequence)
	require.Equal(t, int64(2010), g.Offset)
	require.Equal(t, []int64{2010, 2060}, offsets(groups))
	require.Equal(t, int64(75), g.Samples[1].Size)
	require.Empty(t, ix.Report.Diagnostics)
}

func TestFragmentSizeDefaults(t *testing.T) {
	moov := testutil.Box("moov",
		testutil.Mvhd(1000, 0, 2),
		testutil.Box("mvex", testutil.FullBox("trex", 0, 0, B{}.U32(1).U32(1).U32(0).U32(30).U32(0))),
	)

	tests := []struct {
		name  string
		tfhd  []byte
		sizes []int64
	}{
		{
			name:  "track defaults",
			tfhd:  testutil.FullBox("tfhd", 0, types.TfhdDefaultBaseIsMoof, B{}.U32(1)),
			sizes: []int64{30, 30, 30},
		},
		{
			name:  "fragment default wins",
			tfhd:  testutil.FullBox("tfhd", 0, types.TfhdDefaultBaseIsMoof|types.TfhdDefaultSampleSize, B{}.U32(1).U32(12)),
			sizes: []int64{12, 12, 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// data offset: moof header + mfhd + traf, then the mdat header
			trun := testutil.FullBox("trun", 0, types.TrunDataOffset, B{}.U32(3).U32(0))
			traf := testutil.Box("traf", tt.tfhd, trun)
			moofLen := 8 + 16 + len(traf)
			trun = testutil.FullBox("trun", 0, types.TrunDataOffset, B{}.U32(3).U32(uint32(moofLen+8)))
			traf = testutil.Box("traf", tt.tfhd, trun)

			data := testutil.Cat(moov, fragment(moofLen+8+200, traf))
			res, ix := build(t, data)
			moof := topNode(t, res, "moof")
			mdat := topNode(t, res, "mdat")

			groups := ix.For(mdat)
			require.Len(t, groups, 1)
			require.Equal(t, mdat.PayloadOffset(), groups[0].Offset)
			require.Equal(t, moof.Offset+int64(moofLen+8), groups[0].Offset)
			var sizes []int64
			for _, s := range groups[0].Samples {
				sizes = append(sizes, s.Size)
			}
			require.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestFragmentBaseCarriesForward(t *testing.T) {
	first := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdBaseDataOffset|types.TfhdDefaultSampleSize, B{}.U32(1).U64(500).U32(10)),
		testutil.FullBox("trun", 0, 0, B{}.U32(2)),
	)
	second := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdDefaultSampleSize, B{}.U32(2).U32(20)),
		testutil.FullBox("trun", 0, 0, B{}.U32(1)),
	)
	_, ix := build(t, fragment(700, first, second))

	require.Equal(t, []int64{500, 510}, offsets(ix.Track(1)))
	require.Equal(t, []int64{520}, offsets(ix.Track(2)))
	require.Empty(t, ix.Report.Diagnostics)
}

func TestFragmentWithoutBaseAssumesMoofStart(t *testing.T) {
	traf := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdDefaultSampleSize, B{}.U32(1).U32(10)),
		testutil.FullBox("trun", 0, types.TrunDataOffset, B{}.U32(1).U32(200)),
	)
	_, ix := build(t, fragment(400, traf))

	require.Equal(t, []int64{200}, offsets(ix.Groups))
	d := ix.Report.Diagnostics
	require.Len(t, d, 1)
	require.Equal(t, types.SevInfo, d[0].Severity)
	require.Equal(t, types.RecoveryDefaulted, d[0].Recovery)
}

func TestFragmentRunPastEndOfFile(t *testing.T) {
	tests := []struct {
		name    string
		size    uint32
		samples int
	}{
		{"samples stop at the file end", 4, 29},
		{"empty samples stop at the budget", 0, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traf := func(base uint64) []byte {
				return testutil.Box("traf",
					testutil.FullBox("tfhd", 0, types.TfhdBaseDataOffset|types.TfhdDefaultSampleSize,
						B{}.U32(1).U64(base).U32(tt.size)),
					testutil.FullBox("trun", 0, 0, B{}.U32(1<<24)),
				)
			}
			moofLen := 8 + 16 + len(traf(0))
			payload := int64(moofLen + 8)
			res, ix := build(t, fragment(200, traf(uint64(payload))))

			groups := ix.For(topNode(t, res, "mdat"))
			require.Len(t, groups, 1)
			g := groups[0]
			require.Len(t, g.Samples, tt.samples)
			require.Equal(t, payload, g.Offset)
			require.LessOrEqual(t, g.End(), int64(200))
			require.Contains(t, g.Issue, "of 16777216 samples")

			d := ix.Report.Diagnostics
			require.Len(t, d, 1)
			require.Equal(t, types.RecoveryClipped, d[0].Recovery)
			require.Equal(t, "trun", d[0].Structure)
		})
	}
}

func TestFragmentBaseIgnoresUnindexedTraf(t *testing.T) {
	// The first track fragment has no header, so the second has no
	// predecessor to continue from and falls back to the fragment start.
	headerless := testutil.Box("traf", testutil.FullBox("trun", 0, 0, B{}.U32(1)))
	second := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdDefaultSampleSize, B{}.U32(2).U32(10)),
		testutil.FullBox("trun", 0, types.TrunDataOffset, B{}.U32(1).U32(104)),
	)
	data := testutil.Cat(testutil.Box("free", make([]byte, 8)), fragment(200, headerless, second))
	res, ix := build(t, data)

	moof := topNode(t, res, "moof")
	require.Equal(t, int64(16), moof.Offset)
	require.Equal(t, []int64{120}, offsets(ix.Track(2)))
	require.Len(t, ix.For(topNode(t, res, "mdat")), 1)

	d := ix.Report.Diagnostics
	require.Len(t, d, 1)
	require.Equal(t, types.SevInfo, d[0].Severity)
	require.Equal(t, types.RecoveryDefaulted, d[0].Recovery)
}

func TestFragmentWithoutAnySize(t *testing.T) {
	traf := testutil.Box("traf",
		testutil.FullBox("tfhd", 0, types.TfhdDefaultBaseIsMoof, B{}.U32(3)),
		testutil.FullBox("trun", 0, types.TrunDataOffset, B{}.U32(2).U32(100)),
	)
	_, ix := build(t, fragment(300, traf))

	require.Len(t, ix.Samples(3), 2)
	require.Equal(t, int64(0), ix.Groups[0].TotalSize())
	require.NotEmpty(t, ix.Groups[0].Issue)
	require.Len(t, ix.Report.OfKind(types.ErrKindSampleIndex), 1)
}

func TestFragmentedFileFromMuxer(t *testing.T) {
	var w bytes.Buffer
	initSeg := mp4.CreateEmptyInit()
	initSeg.Moov.Mvhd.NextTrackID = 1
	moov := initSeg.Moov
	trackID := moov.Mvhd.NextTrackID
	moov.Mvhd.NextTrackID++
	moov.AddChild(mp4.CreateEmptyTrak(trackID, 1000, "video", "und"))
	moov.Mvex.AddChild(mp4.CreateTrex(trackID))
	require.NoError(t, initSeg.Encode(&w))

	for seq := uint32(1); seq <= 3; seq++ {
		frag, err := mp4.CreateFragment(seq, trackID)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			data := bytes.Repeat([]byte{byte(0x10 * seq)}, 50+i)
			frag.AddFullSample(mp4.FullSample{
				Data:       data,
				DecodeTime: uint64(seq-1)*3000 + uint64(i)*1000,
				Sample: mp4.Sample{
					Flags: mp4.SyncSampleFlags,
					Dur:   1000,
					Size:  uint32(len(data)),
				},
			})
		}
		require.NoError(t, frag.Encode(&w))
	}
	data := w.Bytes()

	res, ix := build(t, data)
	requireOrdered(t, ix)
	require.Len(t, ix.Groups, 3)
	require.Empty(t, ix.Report.Diagnostics)

	var mdats []*types.Node
	for _, n := range res.Nodes {
		if n.Tag == tagMdat {
			mdats = append(mdats, n)
		}
	}
	require.Len(t, mdats, 3)
	for i, mdat := range mdats {
		groups := ix.For(mdat)
		require.Len(t, groups, 1)
		g := groups[0]
		require.Equal(t, uint32(i+1), g.Sequence)
		require.Equal(t, trackID, g.TrackID)
		require.Len(t, g.Samples, 3)
		for k, s := range g.Samples {
			require.Equal(t, int64(50+k), s.Size)
			require.Equal(t, bytes.Repeat([]byte{byte(0x10 * (i + 1))}, 50+k), data[s.Offset:s.End()])
		}
	}
}

func TestMatroskaBlocks(t *testing.T) {
	const (
		idEBML     = 0x1A45DFA3
		idDocType  = 0x4282
		idSegment  = 0x18538067
		idTimecode = 0xE7
	)
	group := testutil.SimpleBlock(1, 40, false, []byte{7, 7})
	group[0] = idBlock

	data := testutil.Cat(
		testutil.Element(idEBML, testutil.StringElement(idDocType, "webm")),
		testutil.Unsized(idSegment,
			testutil.Unsized(idCluster,
				testutil.UintElement(idTimecode, 0),
				testutil.SimpleBlock(1, 0, true, []byte{1, 1, 1}),
				testutil.SimpleBlock(2, 0, true, []byte{2, 2}),
				testutil.Element(idBlockGroup, group),
			),
			testutil.Element(idCluster,
				testutil.UintElement(idTimecode, 1000),
				testutil.SimpleBlock(1, 0, true, []byte{3}),
			),
		),
	)
	res, ix := build(t, data)
	requireOrdered(t, ix)

	seg := res.Nodes[1]
	clusters := seg.ChildrenOf(idCluster)
	require.Len(t, clusters, 2)
	require.Len(t, ix.For(clusters[0]), 3)
	require.Len(t, ix.For(clusters[1]), 1)

	track1 := ix.Track(1)
	require.Len(t, track1, 3)
	for i, g := range track1 {
		require.Equal(t, i+1, g.Ordinal)
	}
	require.Equal(t, []byte{7, 7}, data[track1[1].Samples[0].Offset:track1[1].Samples[0].End()])
	require.Equal(t, []byte{2, 2}, data[ix.Track(2)[0].Offset:ix.Track(2)[0].End()])
	require.Empty(t, ix.Report.Diagnostics)
}

func TestMatroskaBlockTrackOutOfRange(t *testing.T) {
	data := testutil.Cat(
		testutil.Element(0x1A45DFA3, testutil.StringElement(0x4282, "webm")),
		testutil.Unsized(0x18538067,
			testutil.Element(idCluster,
				testutil.SimpleBlock(1, 0, true, []byte{1}),
				testutil.SimpleBlock(1<<32+1, 0, true, []byte{2}),
			),
		),
	)
	_, ix := build(t, data)

	require.Len(t, ix.Groups, 1)
	require.Empty(t, ix.Track(1)[0].Issue)
	require.Len(t, ix.Track(1), 1)

	d := ix.Report.Diagnostics
	require.Len(t, d, 1)
	require.Equal(t, types.SevWarning, d[0].Severity)
	require.Equal(t, types.RecoverySkipped, d[0].Recovery)
	require.Contains(t, d[0].Issue, "4294967297")
}
