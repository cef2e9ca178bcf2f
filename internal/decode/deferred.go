package decode

import (
	"fmt"

	"github.com/joshuapare/boxkit/internal/registry"
	"github.com/joshuapare/boxkit/pkg/types"
)

// Deferred is implemented by decoders whose result depends on sibling
// nodes. The builder decodes the node normally first, then, once the
// enclosing container's children all exist, calls Resolve with the
// siblings whose tags Needs lists.
type Deferred interface {
	Needs() []uint32
	Resolve(in Input, sib Siblings) (Output, error)
}

// Siblings is the set of nodes that share a parent with the node being
// resolved, in file order.
type Siblings []*types.Node

// First returns the first sibling with the given tag.
func (s Siblings) First(tag uint32) *types.Node {
	for _, n := range s {
		if n.Tag == tag {
			return n
		}
	}
	return nil
}

// All returns every sibling with the given tag.
func (s Siblings) All(tag uint32) []*types.Node {
	var out []*types.Node
	for _, n := range s {
		if n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

// Select keeps the siblings whose tag is in tags.
func (s Siblings) Select(tags []uint32) Siblings {
	var out Siblings
	for _, n := range s {
		for _, t := range tags {
			if n.Tag == t {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

var deferred = map[registry.DecoderID]Deferred{}

func registerDeferred(id registry.DecoderID, d Deferred) { deferred[id] = d }

// DeferredFor returns the resolver for a decoder id.
func DeferredFor(id registry.DecoderID) (Deferred, bool) {
	d, ok := deferred[id]
	return d, ok
}

func init() {
	registerDeferred(registry.DecSenc, sencResolver{})
	registerDeferred(registry.DecSdtp, sdtpResolver{})
	registerDeferred(registry.DecStdp, stdpResolver{})
	register(registry.DecSdtp, func(in Input) (Output, error) { return record(&types.Sdtp{}), nil })
	register(registry.DecStdp, func(in Input) (Output, error) { return record(&types.Stdp{}), nil })
}

var (
	tagSgpd = types.Tag4("sgpd")
	tagSaiz = types.Tag4("saiz")
	tagStsz = types.Tag4("stsz")
	tagStz2 = types.Tag4("stz2")
	tagTrun = types.Tag4("trun")
)

func recordOf[T types.Record](n *types.Node) (T, bool) {
	var zero T
	if n == nil || n.Value.Type != types.ValueRecord {
		return zero, false
	}
	r, ok := n.Value.Record.(T)
	return r, ok
}

// siblingSampleCount finds how many samples the enclosing table or
// fragment describes: stsz/stz2 in a sample table, the trun totals in a
// track fragment.
func siblingSampleCount(sib Siblings) (int, bool) {
	for _, tag := range []uint32{tagStsz, tagStz2} {
		if r, ok := recordOf[*types.SampleSizes](sib.First(tag)); ok {
			return int(r.SampleCount), true
		}
	}
	runs := sib.All(tagTrun)
	if len(runs) == 0 {
		return 0, false
	}
	total := 0
	for _, n := range runs {
		r, ok := recordOf[*types.Trun](n)
		if !ok {
			return 0, false
		}
		total += int(r.SampleCount)
	}
	return total, true
}

type sdtpResolver struct{}

func (sdtpResolver) Needs() []uint32 { return []uint32{tagStsz, tagStz2, tagTrun} }

func (sdtpResolver) Resolve(in Input, sib Siblings) (Output, error) {
	count, ok := siblingSampleCount(sib)
	if !ok {
		return Output{
			Value: types.RecordValue(&types.Sdtp{}),
			Notes: []Note{{Severity: types.SevWarning, Kind: types.ErrKindSampleIndex,
				Issue: "no sibling sample count; dependency flags left undecoded"}},
		}, nil
	}
	if count > len(in.Payload) {
		return Output{}, in.truncated(len(in.Payload), fmt.Sprintf("dependency flags for %d samples", count))
	}
	r := &types.Sdtp{Resolved: true, Entries: make([]types.SdtpEntry, count)}
	for i := range r.Entries {
		f := crumbs(in.Payload[i])
		r.Entries[i] = types.SdtpEntry{
			IsLeading:           f[0],
			SampleDependsOn:     f[1],
			SampleIsDependedOn:  f[2],
			SampleHasRedundancy: f[3],
		}
	}
	return record(r), nil
}

type stdpResolver struct{}

func (stdpResolver) Needs() []uint32 { return []uint32{tagStsz, tagStz2} }

func (stdpResolver) Resolve(in Input, sib Siblings) (Output, error) {
	count, ok := siblingSampleCount(sib)
	if !ok {
		return Output{
			Value: types.RecordValue(&types.Stdp{}),
			Notes: []Note{{Severity: types.SevWarning, Kind: types.ErrKindSampleIndex,
				Issue: "no sibling sample count; priorities left undecoded"}},
		}, nil
	}
	c := newCursor(in.Payload)
	r := &types.Stdp{Resolved: true, Priorities: make([]uint16, 0, min(count, len(in.Payload)/2))}
	for i := 0; i < count; i++ {
		r.Priorities = append(r.Priorities, c.u16())
	}
	if err := c.finish(in, fmt.Sprintf("priorities for %d samples", count)); err != nil {
		return Output{}, err
	}
	return record(r), nil
}

type sencResolver struct{}

func (sencResolver) Needs() []uint32 { return []uint32{tagSgpd, tagSaiz} }

// Candidate per-sample IV sizes, in the order a fit is tried.
var ivCandidates = []int{8, 16, 0}

// Resolve settles the per-sample IV size and decodes the sample table.
// The seig sample group is authoritative; failing that, the auxiliary info
// sizes pin it down when subsamples are present, and otherwise the size
// that makes the table fill the payload exactly is taken.
func (sencResolver) Resolve(in Input, sib Siblings) (Output, error) {
	out, err := decodeSenc(in)
	if err != nil {
		return out, err
	}
	r := out.Value.Record.(*types.Senc)
	table := in.Payload[4:]

	ivSize, source := -1, ""
	if g, ok := recordOf[*types.Sgpd](sib.First(tagSgpd)); ok {
		for _, e := range g.Entries {
			if e.Seig != nil {
				ivSize, source = int(e.Seig.PerSampleIVSize), types.IVFromSeig
				break
			}
		}
	}
	if ivSize < 0 && r.Subsamples {
		if z, ok := recordOf[*types.Saiz](sib.First(tagSaiz)); ok {
			if s := z.MinInfoSize(); s >= 0 {
				for _, iv := range ivCandidates {
					if s >= iv+2 && (s-iv-2)%6 == 0 {
						ivSize, source = iv, types.IVFromSaiz
						break
					}
				}
			}
		}
	}
	if ivSize < 0 && !r.Subsamples {
		// Without subsamples each entry is just an IV.
		ivSize = 8
		if int64(r.SampleCount)*16 <= int64(len(table)) {
			ivSize = 16
		}
		source = types.IVFromHeuristic
		out.Notes = append(out.Notes, Note{Severity: types.SevInfo, Kind: types.ErrKindUnsupported,
			Issue: fmt.Sprintf("per-sample IV size %d inferred from payload length", ivSize)})
	}
	if ivSize < 0 {
		for _, iv := range ivCandidates {
			if _, used, ok := parseSencSamples(table, r.SampleCount, iv, true); ok && used == len(table) {
				ivSize, source = iv, types.IVFromHeuristic
				out.Notes = append(out.Notes, Note{Severity: types.SevInfo, Kind: types.ErrKindUnsupported,
					Issue: fmt.Sprintf("per-sample IV size %d inferred from payload length", iv)})
				break
			}
		}
	}
	if ivSize < 0 {
		out.Notes = append(out.Notes, Note{Severity: types.SevWarning, Kind: types.ErrKindUnsupported,
			Issue: "per-sample IV size could not be determined; samples left undecoded"})
		return out, nil
	}

	samples, _, ok := parseSencSamples(table, r.SampleCount, ivSize, r.Subsamples)
	if !ok {
		return Output{}, in.truncated(4, fmt.Sprintf("%d samples with %d-byte IVs", r.SampleCount, ivSize))
	}
	r.Resolved = true
	r.IVSize = ivSize
	r.IVSource = source
	r.Samples = samples
	return out, nil
}
