package model

import "fmt"

// NotFoundError reports a target file that is missing or unreadable.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FormatError reports a structural problem such as a missing sentinel line.
// Lines that merely fail to match a known shape are skipped, never reported.
type FormatError struct {
	Line int // 1-based, 0 when not tied to a line
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error at line %d: %s", e.Line, e.Msg)
	}
	return "format error: " + e.Msg
}

// ResolutionError reports a marker or reference naming an unknown identifier.
type ResolutionError struct {
	Name string // the defining constant
	Ref  string // the identifier that could not be resolved
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unresolved reference: %s refers to unknown %s", e.Name, e.Ref)
}

// ValidationError reports a token outside its vocabulary or an invalid record.
type ValidationError struct {
	Record string
	Field  string
	Value  string
	Msg    string
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "unexpected value"
	}
	if e.Record == "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, msg)
	}
	return fmt.Sprintf("%s: invalid %s %q: %s", e.Record, e.Field, e.Value, msg)
}
