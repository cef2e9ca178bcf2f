package types

// ============================================================================
// Parse Limits
// ============================================================================

const (
	// DefaultSnapshotCap is the largest byte range NodeBytes hands out for a
	// single node (1 MiB + 1, so a capped snapshot is distinguishable from an
	// exact 1 MiB payload).
	DefaultSnapshotCap = 1<<20 + 1

	// DefaultMaxDepth bounds container nesting. Real files rarely exceed 12.
	DefaultMaxDepth = 64

	// HexPreviewLimit is how many bytes of an opaque binary value are kept
	// for display.
	HexPreviewLimit = 64

	// MaxTableEntries caps how many rows a table decoder materializes
	// (stsz, stco, trun, ...). Larger counts still drive the sample index
	// through their declared totals.
	MaxTableEntries = 1 << 24

	// MP4MinHeader is the smallest legal box header (32-bit size + type).
	MP4MinHeader = 8

	// EBMLMinHeader is the smallest legal element header (1-byte ID + 1-byte size).
	EBMLMinHeader = 2
)

// Sentinels stored in Node.DeclaredSize.
const (
	// SizeUnknown marks an EBML master whose size field had every value bit
	// set; it extends until a same-or-shallower element appears.
	SizeUnknown int64 = -1

	// SizeToEOF marks an MP4 box with a zero 32-bit size; it extends to the
	// end of the file.
	SizeToEOF int64 = -2
)
