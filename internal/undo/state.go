package undo

import (
	"errors"
	"fmt"
	"strings"
)

// Severity grades a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic is one non-fatal message from a bulk operation.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// State accumulates diagnostics. The zero value is ready to use and a nil
// *State ignores additions.
type State struct {
	diags []Diagnostic
}

func (s *State) add(sev Severity, format string, args ...any) {
	if s == nil {
		return
	}
	s.diags = append(s.diags, Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (s *State) AddError(format string, args ...any)   { s.add(SeverityError, format, args...) }
func (s *State) AddWarning(format string, args ...any) { s.add(SeverityWarning, format, args...) }
func (s *State) AddInfo(format string, args ...any)    { s.add(SeverityInfo, format, args...) }

// Merge appends the diagnostics of other.
func (s *State) Merge(other *State) {
	if s == nil || other == nil {
		return
	}
	s.diags = append(s.diags, other.diags...)
}

// Diagnostics returns every recorded diagnostic in order.
func (s *State) Diagnostics() []Diagnostic {
	if s == nil {
		return nil
	}
	cp := make([]Diagnostic, len(s.diags))
	copy(cp, s.diags)
	return cp
}

// Filter returns the diagnostics of one severity.
func (s *State) Filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.Diagnostics() {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error diagnostic was recorded.
func (s *State) HasErrors() bool {
	return len(s.Filter(SeverityError)) > 0
}

// Err joins the error diagnostics into one error, or returns nil.
func (s *State) Err() error {
	var errs []error
	for _, d := range s.Filter(SeverityError) {
		errs = append(errs, errors.New(d.Message))
	}
	return errors.Join(errs...)
}

func (s *State) String() string {
	var lines []string
	for _, d := range s.Diagnostics() {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}
