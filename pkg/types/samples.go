package types

// SampleRecord is one reconstructed sample.
type SampleRecord struct {
	TrackID uint32 `json:"track_id"`
	Group   int    `json:"group"`  // chunk or run ordinal, 1-based
	Number  int    `json:"number"` // 1-based within the group
	Offset  int64  `json:"offset"`
	Size    int64  `json:"size"`
}

// End returns the offset just past the sample.
func (s SampleRecord) End() int64 { return s.Offset + s.Size }

// ChunkGroup is a chunk (flat layout), a run (fragmented layout) or a
// Matroska block. Sequence is only meaningful when Fragmented is set.
type ChunkGroup struct {
	TrackID    uint32         `json:"track_id"`
	Ordinal    int            `json:"ordinal"`
	Offset     int64          `json:"offset"`
	Fragmented bool           `json:"fragmented,omitempty"`
	Sequence   uint32         `json:"sequence,omitempty"`
	Samples    []SampleRecord `json:"samples"`

	// Issue describes an arithmetic inconsistency found while building
	// this group, empty when the group is sound.
	Issue string `json:"issue,omitempty"`
}

// TotalSize sums the sample sizes.
func (g *ChunkGroup) TotalSize() int64 {
	var n int64
	for _, s := range g.Samples {
		n += s.Size
	}
	return n
}

// End returns the offset just past the last sample. A group with no
// samples ends where it starts.
func (g *ChunkGroup) End() int64 {
	end := g.Offset
	for _, s := range g.Samples {
		if e := s.End(); e > end {
			end = e
		}
	}
	return end
}

// Within reports whether the whole group lies inside [start, end).
func (g *ChunkGroup) Within(start, end int64) bool {
	return g.Offset >= start && g.End() <= end
}
