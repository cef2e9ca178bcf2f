package reader

import (
	"fmt"
	"slices"

	"github.com/joshuapare/boxkit/pkg/types"
)

var (
	tagFtyp = types.Tag4("ftyp")
	tagStyp = types.Tag4("styp")
	tagMoov = types.Tag4("moov")
	tagMoof = types.Tag4("moof")
	tagMdat = types.Tag4("mdat")
	tagMfhd = types.Tag4("mfhd")
	tagTrak = types.Tag4("trak")
	tagTkhd = types.Tag4("tkhd")
	tagTraf = types.Tag4("traf")
	tagTfhd = types.Tag4("tfhd")
)

const (
	idEBML    = 0x1A45DFA3
	idDocType = 0x4282
	idSegment = 0x18538067
)

// knownDocTypes are the EBML document types the registry describes.
var knownDocTypes = []string{"matroska", "webm"}

// diagnosticScanner checks the finished tree: byte accounting of every
// node and the cross-box structure a player relies on.
type diagnosticScanner struct {
	b         *builder
	nodeCount int
}

func newDiagnosticScanner(b *builder) *diagnosticScanner {
	return &diagnosticScanner{b: b}
}

// scan validates the tree rooted at the top-level nodes.
func (s *diagnosticScanner) scan(top []*types.Node) {
	// Phase 1: containment and node count
	for _, n := range top {
		s.walk(n)
	}

	// Phase 2: family layout
	if s.b.fam == types.FamilyEBML {
		s.validateEBML(top)
	} else {
		s.validateMP4(top)
	}
}

func (s *diagnosticScanner) walk(n *types.Node) {
	s.nodeCount++
	end := n.End()
	for _, c := range n.Children() {
		if c.Offset < n.PayloadOffset() || c.End() > end {
			s.b.report(diagStructure(types.SevCritical, types.ErrKindDeclaredSize, c.Offset, c.Name,
				fmt.Sprintf("child outside %s", n.Name), fmt.Sprintf("[%d, %d)", n.PayloadOffset(), end),
				fmt.Sprintf("[%d, %d)", c.Offset, c.End()), ""))
		}
		s.walk(c)
	}
}

func (s *diagnosticScanner) validateMP4(top []*types.Node) {
	if len(top) == 0 {
		return
	}
	if first := top[0].Tag; first != tagFtyp && first != tagStyp && first != tagMoov {
		s.b.report(diagStructure(types.SevInfo, types.ErrKindMalformedHeader, top[0].Offset, top[0].Name,
			"file does not start with ftyp", "ftyp", top[0].Name, ""))
	}

	var moov []*types.Node
	var mdat, moof bool
	for _, n := range top {
		switch n.Tag {
		case tagMoov:
			moov = append(moov, n)
		case tagMdat:
			mdat = true
		case tagMoof:
			moof = true
			s.validateMoof(n)
		}
	}
	switch {
	case len(moov) > 1:
		s.b.report(diagIntegrity(types.SevWarning, moov[1].Offset, "moov",
			"more than one movie box; the first is used", 1, len(moov), nil))
	case len(moov) == 0 && mdat && !moof:
		s.b.report(diagIntegrity(types.SevWarning, 0, "moov",
			"media data without a movie box; samples cannot be located", "moov", nil, nil))
	}
	for _, m := range moov {
		for _, trak := range m.ChildrenOf(tagTrak) {
			if trak.Child(tagTkhd) == nil {
				s.b.report(diagIntegrity(types.SevWarning, trak.Offset, "trak",
					"track without a header; its samples are not indexed", "tkhd", nil,
					&types.DiagContext{Path: trak.Path()}))
			}
		}
	}
}

func (s *diagnosticScanner) validateMoof(moof *types.Node) {
	if moof.Child(tagMfhd) == nil {
		s.b.report(diagIntegrity(types.SevWarning, moof.Offset, "moof",
			"movie fragment without a header", "mfhd", nil, nil))
	}
	for _, traf := range moof.ChildrenOf(tagTraf) {
		if traf.Child(tagTfhd) == nil {
			s.b.report(diagIntegrity(types.SevWarning, traf.Offset, "traf",
				"track fragment without a header; its runs are not indexed", "tfhd", nil,
				&types.DiagContext{Path: traf.Path()}))
		}
	}
}

func (s *diagnosticScanner) validateEBML(top []*types.Node) {
	if len(top) == 0 {
		return
	}
	head := top[0]
	if head.Tag != idEBML {
		s.b.report(diagStructure(types.SevInfo, types.ErrKindMalformedHeader, head.Offset, head.Name,
			"stream does not start with an EBML header", "EBML", head.Name, ""))
	} else if dt := head.Child(idDocType); dt != nil && !slices.Contains(knownDocTypes, dt.Value.Text) {
		s.b.report(diagStructure(types.SevInfo, types.ErrKindUnsupported, dt.Offset, dt.Name,
			"document type is not Matroska; elements are read with the Matroska table",
			knownDocTypes, dt.Value.Text, ""))
	}

	segments := 0
	for _, n := range top {
		if n.Tag == idSegment {
			segments++
		}
	}
	if segments == 0 {
		s.b.report(diagIntegrity(types.SevWarning, head.Offset, "Segment",
			"no Segment element; there are no tracks to index", 1, 0, nil))
	}
}
