package reader

import (
	"errors"
	"sync"

	"github.com/joshuapare/boxkit/internal/decode"
	"github.com/joshuapare/boxkit/pkg/types"
)

// diagnosticCollector accumulates diagnostics during a parse. With full
// collection off it still keeps the issues that changed the shape of the
// tree, so a truncated tree is never reported as clean.
type diagnosticCollector struct {
	mu     sync.Mutex
	keep   func(types.Diagnostic) bool
	report *types.DiagnosticReport
}

func newDiagnosticCollector(all bool) *diagnosticCollector {
	keep := func(types.Diagnostic) bool { return true }
	if !all {
		keep = func(d types.Diagnostic) bool {
			switch d.Recovery {
			case types.RecoveryTruncated, types.RecoverySkipped, types.RecoveryStopped:
				return true
			}
			return false
		}
	}
	return &diagnosticCollector{keep: keep, report: types.NewDiagnosticReport()}
}

func (dc *diagnosticCollector) record(d types.Diagnostic) {
	if dc == nil || !dc.keep(d) {
		return
	}
	dc.mu.Lock()
	dc.report.Add(d)
	dc.mu.Unlock()
}

// getReport finalizes and returns the report.
func (dc *diagnosticCollector) getReport() *types.DiagnosticReport {
	if dc == nil {
		return nil
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.report.Finalize()
	return dc.report
}

func diag(sev types.Severity, cat types.DiagCategory, kind types.ErrKind, off int64, structure, issue string) types.Diagnostic {
	return types.Diagnostic{Severity: sev, Category: cat, Kind: kind, Offset: off, Structure: structure, Issue: issue}
}

// diagStructure reports a header or size accounting problem.
func diagStructure(sev types.Severity, kind types.ErrKind, off int64, structure, issue string, expected, actual any, recovery string) types.Diagnostic {
	d := diag(sev, types.DiagStructure, kind, off, structure, issue)
	d.Expected, d.Actual, d.Recovery = expected, actual, recovery
	return d
}

func diagData(sev types.Severity, kind types.ErrKind, off int64, structure, issue string, ctx *types.DiagContext, recovery string) types.Diagnostic {
	d := diag(sev, types.DiagData, kind, off, structure, issue)
	d.Context, d.Recovery = ctx, recovery
	return d
}

// diagIntegrity reports a cross-reference between boxes that does not add up.
func diagIntegrity(sev types.Severity, off int64, structure, issue string, expected, actual any, ctx *types.DiagContext) types.Diagnostic {
	d := diag(sev, types.DiagIntegrity, types.ErrKindSampleIndex, off, structure, issue)
	d.Expected, d.Actual, d.Context = expected, actual, ctx
	return d
}

// fromDecodeError turns a node-local decode failure into a diagnostic.
func fromDecodeError(n *types.Node, err error) types.Diagnostic {
	kind := types.ErrKindDataLength
	off := n.PayloadOffset()
	var te *types.Error
	if errors.As(err, &te) {
		kind = te.Kind
		if te.Offset >= 0 {
			off = te.Offset
		}
	}
	sev := types.SevError
	if kind == types.ErrKindUnsupported {
		sev = types.SevWarning
	}
	return diagData(sev, kind, off, n.Name, err.Error(), &types.DiagContext{Path: n.Path()}, types.RecoveryEmpty)
}

// fromNote turns a decoder remark into a diagnostic.
func fromNote(n *types.Node, note decode.Note) types.Diagnostic {
	recovery := ""
	if note.Severity >= types.SevWarning {
		recovery = types.RecoveryDefaulted
	}
	return diagData(note.Severity, note.Kind, n.PayloadOffset(), n.Name, note.Issue,
		&types.DiagContext{Path: n.Path()}, recovery)
}
