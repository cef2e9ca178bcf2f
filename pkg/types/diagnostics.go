package types

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------
//
// Every recoverable condition met while framing, decoding or indexing is
// recorded here instead of being returned as an error. A corrupt box closes
// its container early and the parse carries on; the report says where and
// what was given up.
//
// Usage:
//   1. Open with CollectDiagnostics=true (the default).
//   2. Call File.Diagnostics() after Open, or after SampleIndex() to also
//      see index inconsistencies.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo     Severity = iota // unusual but valid, or an unverified guess
	SevWarning                  // something was skipped or defaulted
	SevError                    // a node or group was abandoned
	SevCritical                 // the top-level scan stopped early
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// DiagCategory classifies the type of issue found.
type DiagCategory int

const (
	DiagStructure DiagCategory = iota // header and size accounting problems
	DiagData                          // payload decode problems
	DiagIntegrity                     // cross-box references that do not add up
)

func (c DiagCategory) String() string {
	switch c {
	case DiagStructure:
		return "STRUCTURE"
	case DiagData:
		return "DATA"
	case DiagIntegrity:
		return "INTEGRITY"
	default:
		return "UNKNOWN"
	}
}

func (c DiagCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Diagnostic is a single issue found in the file.
type Diagnostic struct {
	Severity Severity     `json:"severity"`
	Category DiagCategory `json:"category"`
	Kind     ErrKind      `json:"kind"`

	Offset    int64  `json:"offset"`    // absolute byte offset
	Structure string `json:"structure"` // box fourcc or element name

	Issue    string `json:"issue"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`

	Context *DiagContext `json:"context,omitempty"`

	// Recovery says what the parser did about it.
	Recovery string `json:"recovery,omitempty"`
}

// DiagContext locates a diagnostic in the tree.
type DiagContext struct {
	Path    string `json:"path,omitempty"`
	TrackID uint32 `json:"track_id,omitempty"`
}

// DiagnosticReport collects all diagnostics found during a parse.
type DiagnosticReport struct {
	FilePath string        `json:"file_path,omitempty"`
	FileSize int64         `json:"file_size"`
	Family   Family        `json:"-"`
	ScanTime time.Duration `json:"scan_time"`
	Nodes    int           `json:"nodes"`

	Diagnostics []Diagnostic `json:"diagnostics"`

	Summary DiagSummary `json:"summary"`

	BySeverity  map[Severity][]Diagnostic `json:"by_severity,omitempty"`
	ByStructure map[string][]Diagnostic   `json:"by_structure,omitempty"`
	ByOffset    []Diagnostic              `json:"by_offset,omitempty"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Critical int `json:"critical"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`

	Truncations int `json:"truncations"` // containers closed early
}

// NewDiagnosticReport creates an empty report.
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{
		BySeverity:  make(map[Severity][]Diagnostic),
		ByStructure: make(map[string][]Diagnostic),
	}
}

// Add records d and keeps the counters and groupings current.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	r.Summary.count(d)
	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
	r.ByStructure[d.Structure] = append(r.ByStructure[d.Structure], d)
}

func (s *DiagSummary) count(d Diagnostic) {
	counters := [...]*int{SevInfo: &s.Info, SevWarning: &s.Warnings, SevError: &s.Errors, SevCritical: &s.Critical}
	if d.Severity >= SevInfo && int(d.Severity) < len(counters) {
		*counters[d.Severity]++
	}
	if d.Recovery == RecoveryTruncated {
		s.Truncations++
	}
}

// Recovery labels.
const (
	RecoveryTruncated = "container closed at last good child"
	RecoverySkipped   = "skipped by declared size"
	RecoveryStopped   = "top-level scan stopped"
	RecoveryEmpty     = "value left empty"
	RecoveryDefaulted = "default applied"
	RecoveryDetached  = "group not attached"
	RecoveryClipped   = "samples past end of file dropped"
)

// Finalize rebuilds ByOffset. Equal offsets keep insertion order.
func (r *DiagnosticReport) Finalize() {
	r.ByOffset = slices.Clone(r.Diagnostics)
	slices.SortStableFunc(r.ByOffset, func(a, b Diagnostic) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
}

// Merge appends every diagnostic of other and re-finalizes.
func (r *DiagnosticReport) Merge(other *DiagnosticReport) {
	if other == nil {
		return
	}
	for _, d := range other.Diagnostics {
		r.Add(d)
	}
	r.Finalize()
}

// HasCriticalIssues returns true if any critical issues were found.
func (r *DiagnosticReport) HasCriticalIssues() bool {
	return r.Summary.Critical > 0
}

// HasErrors returns true if any errors or critical issues were found.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Critical > 0 || r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found (including info).
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// OfKind returns the diagnostics with the given error kind.
func (r *DiagnosticReport) OfKind(k ErrKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Output Formatters
// -----------------------------------------------------------------------------

const ruleWidth = 79

// FormatJSON returns the report as indented JSON.
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// FormatText renders the report for a terminal, grouped by severity from
// most to least serious.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder
	heavy := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(&b, "%s\nContainer Diagnostic Report\n%s\n\n", heavy, heavy)

	fields := []struct {
		label string
		value any
		show  bool
	}{
		{"File", r.FilePath, r.FilePath != ""},
		{"Format", r.Family, r.Family != FamilyUnknown},
		{"Size", fmt.Sprintf("%d bytes", r.FileSize), true},
		{"Nodes", r.Nodes, true},
		{"Scan time", r.ScanTime, true},
	}
	for _, f := range fields {
		if f.show {
			fmt.Fprintf(&b, "%-10s %v\n", f.label+":", f.value)
		}
	}

	fmt.Fprintf(&b, "\nSUMMARY\n%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(&b, "  Critical: %d  Errors: %d  Warnings: %d  Info: %d\n",
		r.Summary.Critical, r.Summary.Errors, r.Summary.Warnings, r.Summary.Info)
	if r.Summary.Truncations > 0 {
		fmt.Fprintf(&b, "  Truncated containers: %d\n", r.Summary.Truncations)
	}
	b.WriteString("\n")

	if !r.HasAnyIssues() {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	for sev := SevCritical; sev >= SevInfo; sev-- {
		group := r.BySeverity[sev]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n%s\n", sev, len(group), strings.Repeat("~", ruleWidth))
		for i, d := range group {
			writeEntry(&b, i+1, d)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeEntry(b *strings.Builder, n int, d Diagnostic) {
	fmt.Fprintf(b, "\n%d. %s %s in %s at 0x%X\n   %s\n", n, d.Category, d.Kind, d.Structure, d.Offset, d.Issue)
	detail := func(label string, v any) {
		fmt.Fprintf(b, "   %-9s %v\n", label+":", v)
	}
	if d.Expected != nil {
		detail("Expected", d.Expected)
	}
	if d.Actual != nil {
		detail("Actual", d.Actual)
	}
	if c := d.Context; c != nil && c.Path != "" {
		detail("Path", c.Path)
	}
	if c := d.Context; c != nil && c.TrackID != 0 {
		detail("Track", c.TrackID)
	}
	if d.Recovery != "" {
		detail("Recovery", d.Recovery)
	}
}

// FormatTextCompact returns one line per issue in offset order.
func (r *DiagnosticReport) FormatTextCompact() string {
	if !r.HasAnyIssues() {
		return "No issues found.\n"
	}
	lines := make([]string, 0, len(r.ByOffset))
	for _, d := range r.ByOffset {
		lines = append(lines, fmt.Sprintf("0x%08X [%s/%s/%s] %s", d.Offset, d.Severity, d.Structure, d.Kind, d.Issue))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatHexAnnotations returns offset,severity,structure,message rows for
// overlaying on a hex viewer. Commas in messages become semicolons.
func (r *DiagnosticReport) FormatHexAnnotations() string {
	var b strings.Builder
	b.WriteString("# offset,severity,structure,message\n")
	for _, d := range r.ByOffset {
		fmt.Fprintf(&b, "0x%08X,%s,%s,%s\n", d.Offset, d.Severity, d.Structure, strings.ReplaceAll(d.Issue, ",", ";"))
	}
	return b.String()
}
