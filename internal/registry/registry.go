// Package registry holds the static type tables for both container
// families: what each MP4 box type or Matroska element ID is called, what
// kind of payload it carries, how deep it nests and which decoder reads it.
//
// The tables are plain data, built once at init and never mutated.
package registry

import (
	"slices"

	"github.com/joshuapare/boxkit/pkg/types"
)

// DecoderID names a payload decoder. Many tags may share one decoder.
type DecoderID string

// LevelGlobal marks EBML elements (Void, CRC-32) that may appear at any
// depth and never close an unknown-size master.
const LevelGlobal = -1

// Entry describes one type tag.
type Entry struct {
	Name string
	Kind types.Kind

	// Level is the EBML nesting level (0 for Segment, 1 for Cluster, ...)
	// or LevelGlobal. Unused for MP4.
	Level int

	// Default is the value a zero-length leaf takes.
	Default types.Value

	Doc  string
	Enum map[uint64]string

	Decoder DecoderID

	// Full marks MP4 boxes that begin with a version/flags word.
	Full bool

	// Prefix is the fixed number of payload bytes (after any full-box
	// header) a container skips before its first child. Containers whose
	// prefix depends on the payload leave it zero and let their decoder
	// report it.
	Prefix int

	// Items marks containers (ilst) whose children are metadata items:
	// every child is a container regardless of its type.
	Items bool
}

// Known reports whether the entry came from a table.
func (e Entry) Known() bool { return e.Kind != types.KindUnknown }

// IsGlobal reports whether the element may appear at any level.
func (e Entry) IsGlobal() bool { return e.Level == LevelGlobal }

// EnumLabel returns the label for v, if the entry defines one.
func (e Entry) EnumLabel(v uint64) (string, bool) {
	s, ok := e.Enum[v]
	return s, ok
}

// Lookup returns the registry entry for tag in the given family.
func Lookup(f types.Family, tag uint32) (Entry, bool) {
	var e Entry
	var ok bool
	switch f {
	case types.FamilyMP4:
		e, ok = mp4Table[tag]
	case types.FamilyEBML:
		e, ok = ebmlTable[tag]
	}
	return e, ok
}

// MustLookup is Lookup for callers that already know the tag exists; an
// unknown tag yields an opaque entry named after the tag.
func MustLookup(f types.Family, tag uint32) Entry {
	if e, ok := Lookup(f, tag); ok {
		return e
	}
	return Unknown(f, tag)
}

// Unknown returns the opaque-leaf entry used for tags not in the tables.
func Unknown(f types.Family, tag uint32) Entry {
	name := types.FourCC(tag)
	if f == types.FamilyEBML {
		n := &types.Node{Family: f, Tag: tag}
		name = "Unknown-" + n.TypeString()
	}
	return Entry{Name: name, Kind: types.KindUnknown, Level: LevelGlobal, Decoder: DecBinary}
}

// Count returns how many tags the family's table defines.
func Count(f types.Family) int {
	switch f {
	case types.FamilyMP4:
		return len(mp4Table)
	case types.FamilyEBML:
		return len(ebmlTable)
	}
	return 0
}

// Tags returns every tag the family's table defines, in ascending order.
func Tags(f types.Family) []uint32 {
	var t map[uint32]Entry
	switch f {
	case types.FamilyMP4:
		t = mp4Table
	case types.FamilyEBML:
		t = ebmlTable
	}
	out := make([]uint32, 0, len(t))
	for tag := range t {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}
