// Package samples reconstructs where the media samples of a parsed file
// live.
//
// # Overview
//
// The node tree says how a file is framed; it does not say which bytes of
// the media data belong to which track. This package derives that from
// the finished tree in one pass:
//
//   - Flat MP4: each track's chunk offsets (stco/co64), sample-to-chunk
//     runs (stsc) and sample sizes (stsz/stz2) are expanded into one
//     ChunkGroup per chunk.
//   - Fragmented MP4: each movie fragment's track runs (trun) are placed
//     relative to the fragment's base data offset, one ChunkGroup per run.
//   - Matroska: each SimpleBlock or Block becomes a ChunkGroup whose
//     samples are its laced frames.
//
// Groups from every track are merged into file order and attached to the
// media data element that contains them (a top-level mdat, or a Cluster).
//
// # Inconsistencies
//
// Arithmetic that does not add up is never fatal. A chunk that asks for
// more samples than the size table holds is cut short, a run whose sizes
// cannot be determined is sized zero, and a group that lies outside every
// media data element is kept in the merged index but attached to none.
// Samples stop at the first one that would end past the file, and the
// index never holds more samples than the file has bytes, whatever the
// tables declare. A Matroska block whose track number exceeds 32 bits is
// skipped. Each case is a SampleIndexInconsistency diagnostic in Index.Report.
//
// # Usage
//
//	idx := samples.Build(res.Family, res.Nodes, int64(len(data)), logger)
//	for _, g := range idx.For(mdat) {
//	    fmt.Println(g.TrackID, g.Offset, len(g.Samples))
//	}
package samples
