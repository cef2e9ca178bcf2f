package decode

import (
	"encoding/hex"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

func init() {
	register(registry.DecTenc, decodeTenc)
	register(registry.DecPssh, decodePssh)
	register(registry.DecSenc, decodeSenc)
}

func decodeTenc(in Input) (Output, error) {
	c := newCursor(in.Payload)
	c.skip(1)
	r := &types.Tenc{}
	pattern := c.u8()
	if in.version() >= 1 {
		r.DefaultCryptByteBlock, r.DefaultSkipByteBlock = nibbles(pattern)
	}
	r.DefaultIsProtected = c.u8()
	r.DefaultPerSampleIVSize = c.u8()
	r.DefaultKID = hex.EncodeToString(c.take(16))
	if r.DefaultIsProtected == 1 && r.DefaultPerSampleIVSize == 0 {
		n := int(c.u8())
		r.DefaultConstantIV = hex.EncodeToString(c.take(n))
	}
	if err := c.finish(in, "track encryption"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

func decodePssh(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Pssh{SystemID: hex.EncodeToString(c.take(16))}
	if in.version() > 0 {
		n, _ := c.count(16)
		for i := 0; i < n; i++ {
			r.KIDs = append(r.KIDs, hex.EncodeToString(c.take(16)))
		}
	}
	r.DataSize = c.u32()
	if err := c.finish(in, "protection system header"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

// decodeSenc reads what the sample encryption box says about itself. The
// per-sample table depends on an IV size stored elsewhere, so it is filled
// in later by the sibling resolver.
func decodeSenc(in Input) (Output, error) {
	c := newCursor(in.Payload)
	r := &types.Senc{
		SampleCount: c.u32(),
		Subsamples:  in.flags()&types.SencUseSubsamples != 0,
	}
	if err := c.finish(in, "sample count"); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

// parseSencSamples reads count per-sample entries with the given IV size.
// It returns how many bytes were used; ok is false if b ran out.
func parseSencSamples(b []byte, count uint32, ivSize int, subsamples bool) ([]types.SencSample, int, bool) {
	if uint64(count) > types.MaxTableEntries {
		return nil, 0, false
	}
	c := newCursor(b)
	out := make([]types.SencSample, 0, min(int(count), len(b)/max(ivSize, 1)+1))
	for i := uint32(0); i < count; i++ {
		var s types.SencSample
		if ivSize > 0 {
			s.IV = hex.EncodeToString(c.take(ivSize))
		}
		if subsamples {
			n := int(c.u16())
			if n*6 > c.remaining() {
				return nil, c.off, false
			}
			s.Subsamples = make([]types.Subsample, n)
			for j := range s.Subsamples {
				s.Subsamples[j] = types.Subsample{ClearBytes: c.u16(), ProtectedBytes: c.u32()}
			}
		}
		if c.err != nil {
			return nil, c.off, false
		}
		out = append(out, s)
	}
	return out, c.off, true
}
