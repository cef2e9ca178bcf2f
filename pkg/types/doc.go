// Package types defines the public data model shared by the boxkit packages:
// the node tree produced by parsing an ISO-BMFF or Matroska file, decoded
// values and per-kind records, reconstructed sample groups, typed errors and
// the diagnostics report.
//
// Design goals:
//   - Parent owns children; the parent link is a plain back-pointer used only
//     for upward navigation.
//   - Decoded values are populated once at parse time (plus one resolver pass
//     per container); nodes are read-only afterwards.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable kinds (malformed header, declared size, ...).
package types
