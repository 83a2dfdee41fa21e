// Package diag provides the structured diagnostic type shared by every
// pipeline stage, grounded on the teacher's internal/errors package:
// collected reports for analyzer-style passes, returned reports for
// backend-style passes (§7).
package diag

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Phase names a pipeline stage, used both for the Report.Phase field and
// for choosing a code prefix.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseDiscover Phase = "discover"
	PhaseResolver Phase = "resolver"
	PhaseAnalyzer Phase = "analyzer"
	PhaseBackend  Phase = "backend"
)

// Report is the canonical structured diagnostic. All builders across the
// pipeline return *Report (or a slice of them); the CLI and the LSP
// façade both render straight off this type.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   Phase          `json:"phase"`
	Message string         `json:"message"`
	Start   int            `json:"start"`
	End     int            `json:"end"`
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// New creates a Report with no range yet attached; callers chain
// WithRange (and optionally WithFile/WithData) before surfacing it.
func New(code string, phase Phase, message string) *Report {
	return &Report{Schema: "airyc.error/v1", Code: code, Phase: phase, Message: message}
}

// WithRange attaches the [start, end) byte range the diagnostic applies
// to and returns the same Report for chaining.
func (r *Report) WithRange(start, end int) *Report {
	r.Start, r.End = start, end
	return r
}

// WithFile attaches the file path the diagnostic belongs to.
func (r *Report) WithFile(path string) *Report {
	r.File = path
	return r
}

// WithData attaches a key of structured context (e.g. the names
// participating in a recursive-type cycle).
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// ReportError wraps a Report so it can travel through Go's error
// interface (for backend-style operations that return the first error)
// while still surviving errors.As() unwrapping for structured display.
type ReportError struct{ Rep *Report }

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts the *Report from an error chain, if any.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap turns a Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders a report (or, via ToJSONList, a batch of diagnostics)
// with deterministic field order for the CLI's --json flag and the
// LSP façade's structured error channel.
func (r *Report) ToJSON(compact bool) (string, error) {
	var b []byte
	var err error
	if compact {
		b, err = json.Marshal(r)
	} else {
		b, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToJSONList renders a batch of reports as a single JSON array.
func ToJSONList(reports []*Report, compact bool) (string, error) {
	var b []byte
	var err error
	if compact {
		b, err = json.Marshal(reports)
	} else {
		b, err = json.MarshalIndent(reports, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
