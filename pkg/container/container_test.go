package container_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	gomp4 "github.com/abema/go-mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/testutil"
	"github.com/joshuapare/boxkit/pkg/container"
	"github.com/joshuapare/boxkit/pkg/types"
)

func openMovie(t *testing.T, opts types.OpenOptions, tracks ...testutil.Track) (*container.File, []byte) {
	t.Helper()
	if len(tracks) == 0 {
		tracks = []testutil.Track{testutil.ScenarioTrack()}
	}
	data := testutil.Movie(2000, tracks...)
	f, err := container.Open(testutil.WriteTemp(t, "movie.mp4", data), opts)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, data
}

func TestOpenMovie(t *testing.T) {
	f, data := openMovie(t, types.DefaultOpenOptions())

	require.Equal(t, types.FamilyMP4, f.Family())
	require.Equal(t, int64(len(data)), f.Size())
	require.Len(t, f.TopLevel(), 3)

	count := 0
	f.Walk(func(*types.Node) bool { count++; return true })
	require.Equal(t, f.NodeCount(), count)

	rep := f.Diagnostics()
	require.False(t, rep.HasErrors())
	require.Equal(t, f.Path(), rep.FilePath)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := container.Open(filepath.Join(t.TempDir(), "absent.mp4"), types.OpenOptions{})
	require.Error(t, err)

	var oe *types.OpenError
	require.True(t, errors.As(err, &oe))
	require.Contains(t, oe.Path, "absent.mp4")

	var te *types.Error
	require.True(t, errors.As(err, &te))
	require.Equal(t, types.ErrKindIO, te.Kind)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenEmptyFile(t *testing.T) {
	_, err := container.Open(testutil.WriteTemp(t, "empty.mp4", nil), types.OpenOptions{})
	var oe *types.OpenError
	require.True(t, errors.As(err, &oe))
	require.True(t, errors.Is(err, types.ErrTruncatedStream))
}

func TestCloseIsIdempotent(t *testing.T) {
	data := testutil.Movie(2000, testutil.ScenarioTrack())
	f, err := container.Open(testutil.WriteTemp(t, "movie.mp4", data), types.OpenOptions{})
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.ReadAt(0, 8)
	require.ErrorIs(t, err, types.ErrClosed)
	_, _, err = f.NodeBytes(f.TopLevel()[0])
	require.ErrorIs(t, err, types.ErrClosed)

	// the tree outlives the mapping
	require.Equal(t, "ftyp", types.FourCC(f.TopLevel()[0].Tag))
}

func TestNodeBytes(t *testing.T) {
	opts := types.DefaultOpenOptions()
	opts.SnapshotCap = 64
	f, data := openMovie(t, opts)

	ftyp := f.TopLevel()[0]
	b, capped, err := f.NodeBytes(ftyp)
	require.NoError(t, err)
	require.False(t, capped)
	_, size := ftyp.ByteRange()
	require.Equal(t, data[:size], b)

	mdat := f.TopLevel()[2]
	b, capped, err = f.NodeBytes(mdat)
	require.NoError(t, err)
	require.True(t, capped)
	require.Len(t, b, 64)
	require.Equal(t, data[mdat.Offset:mdat.Offset+64], b)
}

func TestReadAt(t *testing.T) {
	f, data := openMovie(t, types.OpenOptions{})

	b, err := f.ReadAt(1000, 200)
	require.NoError(t, err)
	require.Equal(t, data[1000:1200], b)

	// clipped at the end of the file
	b, err = f.ReadAt(1990, 100)
	require.NoError(t, err)
	require.Len(t, b, 10)

	b, err = f.ReadAt(f.Size(), 10)
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = f.ReadAt(f.Size()+1, 1)
	require.Error(t, err)
	_, err = f.ReadAt(-1, 1)
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	f, _ := openMovie(t, types.OpenOptions{})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"index path", "1.1", "trak"},
		{"type path", "moov/trak/mdia/hdlr", "hdlr"},
		{"dotted types", "moov.trak.mdia.minf.stbl.stco", "stco"},
		{"mixed", "moov.1.mdia", "mdia"},
		{"case insensitive", "MOOV/MVHD", "mvhd"},
		{"leading slash", "/mdat", "mdat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := f.Find(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, types.FourCC(n.Tag))
		})
	}

	_, err := f.Find("moov/9")
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = f.Find("moov/udta")
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = f.Find("")
	require.Error(t, err)
}

func TestSampleIndexFor(t *testing.T) {
	f, _ := openMovie(t, types.DefaultOpenOptions())

	mdat, err := f.Find("mdat")
	require.NoError(t, err)
	groups := f.SampleIndexFor(mdat)
	require.Len(t, groups, 3)

	var offsets []int64
	for _, g := range groups {
		for _, s := range g.Samples {
			offsets = append(offsets, s.Offset)
		}
	}
	require.Equal(t, []int64{1000, 1100, 1300, 1500, 1600}, offsets)

	moov, err := f.Find("moov")
	require.NoError(t, err)
	require.Empty(t, f.SampleIndexFor(moov))
}

func TestSkipSampleIndex(t *testing.T) {
	opts := types.DefaultOpenOptions()
	opts.SkipSampleIndex = true
	f, _ := openMovie(t, opts)

	require.Nil(t, f.SampleIndex())
	require.Nil(t, f.SampleIndexFor(f.TopLevel()[2]))
	// summary falls back to the tables
	require.Equal(t, 5, f.Summary().Tracks[0].Samples)
}

func TestSampleIndexBuiltOnce(t *testing.T) {
	f, _ := openMovie(t, types.DefaultOpenOptions())

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.SampleIndex()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Same(t, results[0], r)
	}
}

func TestDiagnosticsIncludeSampleIndex(t *testing.T) {
	stray := testutil.Track{
		ID:          1,
		SampleSize:  10,
		SampleCount: 2,
		Runs:        []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 2}},
		Offsets:     []uint64{8},
	}

	f, _ := openMovie(t, types.DefaultOpenOptions(), stray)
	got := f.Diagnostics().OfKind(types.ErrKindSampleIndex)
	require.Len(t, got, 1)
	require.Equal(t, types.RecoveryDetached, got[0].Recovery)
	require.Equal(t, int64(8), got[0].Offset)

	quiet := types.DefaultOpenOptions()
	quiet.CollectDiagnostics = false
	f, _ = openMovie(t, quiet, stray)
	require.NotNil(t, f.SampleIndex())
	require.Empty(t, f.Diagnostics().OfKind(types.ErrKindSampleIndex))
}

func TestOversizedRunIsClipped(t *testing.T) {
	// A 92-byte fragment whose run declares 1<<24 samples of 100 bytes.
	moof := testutil.Box("moof",
		testutil.FullBox("mfhd", 0, 0, testutil.B{}.U32(1)),
		testutil.Box("traf",
			testutil.FullBox("tfhd", 0, types.TfhdDefaultSampleSize, testutil.B{}.U32(1).U32(100)),
			testutil.FullBox("trun", 0, 0, testutil.B{}.U32(1<<24)),
		),
	)
	data := testutil.Cat(moof, testutil.Box("mdat", make([]byte, 16)))
	require.Len(t, data, 92)

	f, err := container.OpenBytes("fragment.mp4", data, types.DefaultOpenOptions())
	require.NoError(t, err)
	defer f.Close()

	st := f.SampleIndex().Stats()
	require.Equal(t, 1, st.Groups)
	require.Zero(t, st.Samples)

	var clipped int
	for _, d := range f.Diagnostics().OfKind(types.ErrKindSampleIndex) {
		if d.Recovery == types.RecoveryClipped {
			clipped++
			require.Contains(t, d.Issue, "0 of 16777216")
		}
	}
	require.Equal(t, 1, clipped)
}

func TestMovieSummary(t *testing.T) {
	audio := testutil.Track{
		ID:      2,
		Handler: "soun",
		Sizes:   []uint32{10, 20, 30, 40},
		Runs:    []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 4}},
		Offsets: []uint64{1700},
	}
	f, _ := openMovie(t, types.OpenOptions{}, testutil.ScenarioTrack(), audio)

	s := f.Summary()
	require.Same(t, s, f.Summary())
	require.Equal(t, "mp4", s.Family)
	require.Equal(t, "isom", s.Brand)
	require.Equal(t, []string{"isom", "avc1"}, s.CompatibleBrands)
	require.Equal(t, int64(2000), s.FileSize)
	require.InDelta(t, 5.0, s.Duration, 1e-9)
	require.InDelta(t, 3200.0, s.Bitrate, 1e-9)
	require.False(t, s.ContainsFragments)
	require.Len(t, s.Tracks, 2)

	video := s.Tracks[0]
	assert.Equal(t, uint64(1), video.ID)
	assert.Equal(t, "video", video.MediaType)
	assert.Equal(t, "avc1", video.Codec)
	assert.Equal(t, uint32(320), video.Width)
	assert.Equal(t, uint32(240), video.Height)
	assert.Equal(t, 5, video.Samples)
	assert.InDelta(t, 5.0, video.Duration, 1e-9)
	assert.InDelta(t, 800.0, video.Bitrate, 1e-9)
	assert.InDelta(t, 1.0, video.FrameRate, 1e-9)

	sound := s.Tracks[1]
	assert.Equal(t, uint64(2), sound.ID)
	assert.Equal(t, "audio", sound.MediaType)
	assert.Equal(t, "mp4a", sound.Codec)
	assert.Equal(t, uint32(2), sound.Channels)
	assert.InDelta(t, 48000.0, sound.SampleRate, 1e-9)
	assert.Equal(t, 4, sound.Samples)
	assert.InDelta(t, 160.0, sound.Bitrate, 1e-9)
	assert.Zero(t, sound.FrameRate)
}

func TestSummaryWithoutMovieBox(t *testing.T) {
	data := testutil.Cat(testutil.Ftyp("mp42", "mp42"), testutil.Box("free", make([]byte, 16)))
	f, err := container.OpenBytes("bare.mp4", data, types.OpenOptions{})
	require.NoError(t, err)

	s := f.Summary()
	require.Equal(t, "mp42", s.Brand)
	require.Empty(t, s.Tracks)
	require.Zero(t, s.Duration)
	require.Zero(t, s.Bitrate)
}

func TestSummaryUnknownDuration(t *testing.T) {
	trak := testutil.Box("trak",
		testutil.Tkhd(3, 0, 0, 0),
		testutil.Box("mdia",
			testutil.Mdhd(1000, 0xFFFFFFFF),
			testutil.Hdlr("text", "Subtitles"),
		),
	)
	data := testutil.Cat(
		testutil.Ftyp("isom"),
		testutil.Box("moov", testutil.Mvhd(1000, 0xFFFFFFFF, 4), trak),
	)
	f, err := container.OpenBytes("subs.mp4", data, types.OpenOptions{})
	require.NoError(t, err)

	s := f.Summary()
	require.Zero(t, s.Duration)
	require.Len(t, s.Tracks, 1)
	require.Equal(t, "text", s.Tracks[0].MediaType)
	require.Zero(t, s.Tracks[0].Duration)
	require.Empty(t, s.Tracks[0].Codec)
}

// TestAgainstDemuxer compares the track facts and chunk layout with an
// independent demuxer.
func TestAgainstDemuxer(t *testing.T) {
	track := testutil.Track{
		ID:      1,
		Sizes:   []uint32{100, 120, 90, 300, 50, 60},
		Runs:    []testutil.StscRun{{FirstChunk: 1, SamplesPerChunk: 3}, {FirstChunk: 2, SamplesPerChunk: 1}, {FirstChunk: 3, SamplesPerChunk: 2}},
		Offsets: []uint64{1000, 1400, 1800},
	}
	data := testutil.Movie(2000, track)
	f, err := container.OpenBytes("demux.mp4", data, types.DefaultOpenOptions())
	require.NoError(t, err)

	info, err := gomp4.Probe(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, info.Tracks, 1)
	want := info.Tracks[0]

	got := f.Summary().Tracks[0]
	require.Equal(t, uint64(want.TrackID), got.ID)
	require.Equal(t, len(want.Samples), got.Samples)
	require.InDelta(t, float64(want.Duration)/float64(want.Timescale), got.Duration, 1e-9)

	groups := f.SampleIndex().Track(want.TrackID)
	require.Len(t, groups, len(want.Chunks))
	for i, c := range want.Chunks {
		require.Equal(t, int64(c.DataOffset), groups[i].Offset, "chunk %d", i+1)
		require.Len(t, groups[i].Samples, int(c.SamplesPerChunk), "chunk %d", i+1)
	}
	samples := f.SampleIndex().Samples(want.TrackID)
	require.Len(t, samples, len(want.Samples))
	for i, s := range want.Samples {
		require.Equal(t, int64(s.Size), samples[i].Size, "sample %d", i+1)
	}
}
