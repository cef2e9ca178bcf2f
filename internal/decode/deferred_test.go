package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// decoded runs the first-pass decoder and stores the value on the node, as
// the tree builder does before resolving.
func decoded(t *testing.T, in Input) *types.Node {
	t.Helper()
	out, err := Decode(in)
	require.NoError(t, err)
	in.Node.Value = out.Value
	return in.Node
}

func resolve(t *testing.T, in Input, sib ...*types.Node) (Output, error) {
	t.Helper()
	d, ok := DeferredFor(in.Entry.Decoder)
	require.True(t, ok)
	return d.Resolve(in, Siblings(sib).Select(d.Needs()))
}

func iv(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestSencIVSizeFromSeig(t *testing.T) {
	entry := be{}.u8(0).u8(0).u8(1).u8(16).zeros(16)
	sgpd := decoded(t, mp4Input(t, "sgpd", 1, 0, be{}.str("seig").u32(20).u32(1).raw(entry...)))

	payload := be{}.u32(2).raw(iv(16, 1)...).u16(1).u16(10).u32(90).raw(iv(16, 2)...).u16(0)
	out, err := resolve(t, mp4Input(t, "senc", 0, types.SencUseSubsamples, payload), sgpd)
	require.NoError(t, err)
	r := mustRecord[*types.Senc](t, out)
	require.True(t, r.Resolved)
	require.Equal(t, 16, r.IVSize)
	require.Equal(t, types.IVFromSeig, r.IVSource)
	require.Len(t, r.Samples, 2)
	require.Equal(t, []types.Subsample{{ClearBytes: 10, ProtectedBytes: 90}}, r.Samples[0].Subsamples)
	require.Empty(t, r.Samples[1].Subsamples)
	require.Empty(t, out.Notes)
}

func TestSencIVSizeFromSaiz(t *testing.T) {
	tests := []struct {
		name   string
		info   uint8
		ivSize int
	}{
		{"8-byte IV one subsample", 16, 8},
		{"16-byte IV one subsample", 24, 16},
		{"no IV one subsample", 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saiz := decoded(t, mp4Input(t, "saiz", 0, 0, be{}.u8(tt.info).u32(1)))
			payload := be{}.u32(1).raw(iv(tt.ivSize, 7)...).u16(1).u16(4).u32(60)
			out, err := resolve(t, mp4Input(t, "senc", 0, types.SencUseSubsamples, payload), saiz)
			require.NoError(t, err)
			r := mustRecord[*types.Senc](t, out)
			require.True(t, r.Resolved)
			require.Equal(t, tt.ivSize, r.IVSize)
			require.Equal(t, types.IVFromSaiz, r.IVSource)
		})
	}
}

func TestSencLegacyHeuristicIsFlagged(t *testing.T) {
	tests := []struct {
		name   string
		ivSize int
	}{
		{"16-byte IVs", 16},
		{"8-byte IVs", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := be{}.u32(3).raw(iv(3*tt.ivSize, 9)...)
			out, err := resolve(t, mp4Input(t, "senc", 0, 0, payload))
			require.NoError(t, err)
			r := mustRecord[*types.Senc](t, out)
			require.True(t, r.Resolved)
			require.Equal(t, tt.ivSize, r.IVSize)
			require.Equal(t, types.IVFromHeuristic, r.IVSource)
			require.Len(t, out.Notes, 1)
			require.Equal(t, types.SevInfo, out.Notes[0].Severity)
		})
	}
}

func TestSencSubsamplesWithoutContextFitsPayload(t *testing.T) {
	payload := be{}.u32(1).raw(iv(8, 3)...).u16(2).u16(1).u32(2).u16(3).u32(4)
	out, err := resolve(t, mp4Input(t, "senc", 0, types.SencUseSubsamples, payload))
	require.NoError(t, err)
	r := mustRecord[*types.Senc](t, out)
	require.True(t, r.Resolved)
	require.Equal(t, 8, r.IVSize)
	require.Len(t, r.Samples[0].Subsamples, 2)
	require.NotEmpty(t, out.Notes)
}

func TestSencTruncatedTable(t *testing.T) {
	entry := be{}.u8(0).u8(0).u8(1).u8(16).zeros(16)
	sgpd := decoded(t, mp4Input(t, "sgpd", 1, 0, be{}.str("seig").u32(20).u32(1).raw(entry...)))
	payload := be{}.u32(4).raw(iv(16, 1)...)
	_, err := resolve(t, mp4Input(t, "senc", 0, 0, payload), sgpd)
	requireKind(t, err, types.ErrKindTruncated)
}

func TestSdtpNeedsSampleCount(t *testing.T) {
	stsz := decoded(t, mp4Input(t, "stsz", 0, 0, be{}.u32(100).u32(3)))
	in := mp4Input(t, "sdtp", 0, 0, []byte{0x24, 0x18, 0xA6, 0xFF})

	first, err := Decode(in)
	require.NoError(t, err)
	require.False(t, mustRecord[*types.Sdtp](t, first).Resolved)

	out, err := resolve(t, in, stsz)
	require.NoError(t, err)
	r := mustRecord[*types.Sdtp](t, out)
	require.True(t, r.Resolved)
	require.Len(t, r.Entries, 3)
	require.Equal(t, types.SdtpEntry{IsLeading: 0, SampleDependsOn: 2, SampleIsDependedOn: 1, SampleHasRedundancy: 0}, r.Entries[0])
	require.Equal(t, types.SdtpEntry{IsLeading: 2, SampleDependsOn: 2, SampleIsDependedOn: 1, SampleHasRedundancy: 2}, r.Entries[2])

	out, err = resolve(t, in)
	require.NoError(t, err)
	require.False(t, mustRecord[*types.Sdtp](t, out).Resolved)
	require.Len(t, out.Notes, 1)
}

func TestSdtpInTrackFragmentUsesRuns(t *testing.T) {
	trun := decoded(t, mp4Input(t, "trun", 0, 0, be{}.u32(2)))
	out, err := resolve(t, mp4Input(t, "sdtp", 0, 0, []byte{0x10, 0x20}), trun)
	require.NoError(t, err)
	require.Len(t, mustRecord[*types.Sdtp](t, out).Entries, 2)
}

func TestStdpResolves(t *testing.T) {
	stz2 := decoded(t, mp4Input(t, "stz2", 0, 0, be{}.zeros(3).u8(8).u32(2).raw(5, 6)))
	out, err := resolve(t, mp4Input(t, "stdp", 0, 0, be{}.u16(7).u16(9)), stz2)
	require.NoError(t, err)
	r := mustRecord[*types.Stdp](t, out)
	require.Equal(t, []uint16{7, 9}, r.Priorities)

	_, err = resolve(t, mp4Input(t, "stdp", 0, 0, be{}.u16(7)), stz2)
	requireKind(t, err, types.ErrKindTruncated)
}

func TestDeferredRegistrations(t *testing.T) {
	for _, id := range []registry.DecoderID{registry.DecSenc, registry.DecSdtp, registry.DecStdp} {
		d, ok := DeferredFor(id)
		require.True(t, ok, id)
		require.NotEmpty(t, d.Needs())
	}
	_, ok := DeferredFor(registry.DecTrun)
	require.False(t, ok)
}
