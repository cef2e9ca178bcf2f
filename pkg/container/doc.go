// Package container is the entry point for inspecting media files. It opens
// an ISO-BMFF (MP4, MOV, fragmented MP4) or Matroska/WebM file, parses its
// whole node tree once, and exposes the tree together with byte access,
// the reconstructed sample layout and a short summary.
//
// # Overview
//
// Open maps the file read-only and parses it in a single pass. Parsing never
// fails on corrupt input: damaged regions end up as truncated nodes and
// entries in the diagnostic report. Only an unreadable or empty file makes
// Open return an error, always a *types.OpenError.
//
//	f, err := container.Open("movie.mp4", types.DefaultOpenOptions())
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	for _, n := range f.TopLevel() {
//	    off, size := n.ByteRange()
//	    fmt.Printf("%s at %d, %d bytes\n", n.TypeString(), off, size)
//	}
//
// # Samples
//
// SampleIndex reconstructs where every sample lives, from the chunk tables
// of a flat file, the track runs of a fragmented one, or the blocks of a
// Matroska cluster. SampleIndexFor returns the groups that fall inside one
// media data node. Both are built on first use and shared afterwards.
//
// # Thread Safety
//
// A File is immutable after Open apart from its lazily built sample index
// and summary, which are each built once. All methods may be called from
// several goroutines until Close.
package container
