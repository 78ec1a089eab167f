// Package rucerr is the generator's error sink: a small accumulating reporter with stable,
// named error codes. The generator runs as one strictly single-threaded pass, so this is a
// plain mutex-free accumulator rather than anything channel-fed.
package rucerr

import "fmt"

// Code is a stable error code reported to the sink.
type Code int

const (
	_ Code = iota
	SuchArrayIsNotSupported
	TooManyArguments
	ArrayBordersCannotBeStaticDynamic
	UnsupportedPointerToFunctionCall
)

var codeNames = map[Code]string{
	SuchArrayIsNotSupported:           "such_array_is_not_supported",
	TooManyArguments:                  "too_many_arguments",
	ArrayBordersCannotBeStaticDynamic: "array_borders_cannot_be_static_dynamic",
	UnsupportedPointerToFunctionCall:  "unsupported_pointer_to_function_call",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("error_code_%d", int(c))
}

// Entry is one reported error, together with the source position it was attributed to.
type Entry struct {
	Code Code
	Line int
	Pos  int
	Msg  string
}

func (e Entry) String() string {
	if e.Msg != "" {
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Pos, e.Code, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Pos, e.Code)
}

// Sink accumulates reported errors for the duration of one translation unit.
type Sink struct {
	entries []Entry
}

// NewSink returns an empty error sink.
func NewSink() *Sink {
	return &Sink{entries: make([]Entry, 0, 16)}
}

// Report appends a new error to the sink, mirroring the external system_error(code) contract,
// with the source position carried alongside for diagnostics.
func (s *Sink) Report(code Code, line, pos int, msg string) {
	s.entries = append(s.entries, Entry{Code: code, Line: line, Pos: pos, Msg: msg})
}

// Len returns the number of accumulated errors.
func (s *Sink) Len() int {
	return len(s.entries)
}

// Errors returns every accumulated error, in report order.
func (s *Sink) Errors() []Entry {
	return s.entries
}
