package types

import (
	"fmt"
	"log/slog"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMalformedHeader ErrKind = iota // invalid VINT leading byte, truncated size field
	ErrKindDeclaredSize                   // size < 8, or child overruns its parent's budget
	ErrKindDataLength                     // scalar payload width outside the legal set
	ErrKindTruncated                      // EOF in the middle of a field
	ErrKindSampleIndex                    // chunk/run arithmetic does not add up
	ErrKindUnsupported                    // recognized but undecodable variant
	ErrKindIO                             // cannot open or map the file
	ErrKindState                          // invalid operation for current state (e.g., closed)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindMalformedHeader:
		return "MalformedHeader"
	case ErrKindDeclaredSize:
		return "DeclaredSizeViolation"
	case ErrKindDataLength:
		return "DataLengthError"
	case ErrKindTruncated:
		return "TruncatedStream"
	case ErrKindSampleIndex:
		return "SampleIndexInconsistency"
	case ErrKindUnsupported:
		return "Unsupported"
	case ErrKindIO:
		return "IO"
	case ErrKindState:
		return "State"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON reports.
func (k ErrKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind   ErrKind
	Offset int64 // absolute file offset the error refers to, -1 when unknown
	Msg    string
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at 0x%X", e.Msg, e.Offset)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind so errors.Is(err, ErrTruncatedStream)
// holds for any truncation error regardless of offset or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil || e == nil {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// NewError builds a typed error anchored at an absolute offset.
func NewError(kind ErrKind, off int64, msg string, cause error) *Error {
	return &Error{Kind: kind, Offset: off, Msg: msg, Err: cause}
}

// Sentinels usable with errors.Is; they match any *Error of the same kind.
var (
	ErrMalformedHeader  = &Error{Kind: ErrKindMalformedHeader, Offset: -1}
	ErrDeclaredSize     = &Error{Kind: ErrKindDeclaredSize, Offset: -1}
	ErrDataLength       = &Error{Kind: ErrKindDataLength, Offset: -1}
	ErrTruncatedStream  = &Error{Kind: ErrKindTruncated, Offset: -1}
	ErrSampleIndex      = &Error{Kind: ErrKindSampleIndex, Offset: -1}
	ErrUnsupportedInput = &Error{Kind: ErrKindUnsupported, Offset: -1}
	ErrClosed           = &Error{Kind: ErrKindState, Offset: -1, Msg: "file is closed"}
	ErrNotFound         = &Error{Kind: ErrKindState, Offset: -1, Msg: "node not found"}
)

// OpenError is returned when a file cannot be opened or parsed at all. It
// carries how far the parse got so callers can decide whether a partial
// tree is still worth showing.
type OpenError struct {
	Path   string
	Offset int64 // byte offset reached
	Nodes  int   // nodes parsed before failing
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v (offset 0x%X, %d nodes parsed)", e.Path, e.Err, e.Offset, e.Nodes)
}

func (e *OpenError) Unwrap() error { return e.Err }

// -----------------------------------------------------------------------------
// Options
// -----------------------------------------------------------------------------

// OpenOptions controls parsing limits and what gets collected.
type OpenOptions struct {
	// SnapshotCap bounds how many bytes NodeBytes returns for one node.
	// Zero selects DefaultSnapshotCap.
	SnapshotCap int

	// MaxDepth guards against pathological nesting.
	// Zero selects DefaultMaxDepth.
	MaxDepth int

	// CollectDiagnostics records every recoverable issue in a report
	// retrievable via Diagnostics(). When false the report only carries
	// issues that changed the shape of the tree (truncations, skips).
	CollectDiagnostics bool

	// SkipSampleIndex disables sample reconstruction; SampleIndexFor then
	// always returns nil.
	SkipSampleIndex bool

	// Logger receives parse events. Nil uses the package logger.
	Logger *slog.Logger
}

// DefaultOpenOptions returns the options Open uses when given a zero value.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		SnapshotCap:        DefaultSnapshotCap,
		MaxDepth:           DefaultMaxDepth,
		CollectDiagnostics: true,
	}
}

// Normalize fills zero fields with their defaults.
func (o OpenOptions) Normalize() OpenOptions {
	if o.SnapshotCap <= 0 {
		o.SnapshotCap = DefaultSnapshotCap
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
