// Package diagnostic models analyzer diagnostics attached to byte ranges of
// source text, and renders them for humans.
package diagnostic

import (
	"strconv"
	"strings"

	"github.com/snipdoc/snipdoc/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
	Hint    Severity = "hint"
)

// Diagnostic is a single analyzer finding anchored to a byte range.
type Diagnostic struct {
	Code     int
	Message  string
	Start    int
	Length   int
	Severity Severity
}

// Span returns the half-open range this diagnostic covers.
func (d Diagnostic) Span() position.Span {
	return position.NewSpan(d.Start, d.Start+d.Length)
}

// New builds a Diagnostic from a possibly chained compiler message,
// flattening the chain into the stored message text.
func New(code int, msg Message, start, length int, severity Severity) Diagnostic {
	return Diagnostic{
		Code:     code,
		Message:  Flatten(msg),
		Start:    start,
		Length:   length,
		Severity: severity,
	}
}

// Message chains
//
// Compilers in the TypeScript family report either a flat string or a linked
// chain of causes ("type X is not assignable ... because ..."). Message is
// the tagged variant covering both shapes.
type Message interface {
	isMessage()
}

// Flat is a plain single-level message.
type Flat string

// Chain is one level of a nested explanation. Next is nil at the innermost
// cause.
type Chain struct {
	Text string
	Next Message
}

func (Flat) isMessage()  {}
func (Chain) isMessage() {}

// Flatten renders a message chain as plain text, one chain level per line,
// outermost message first. A Flat message passes through unchanged.
func Flatten(m Message) string {
	var lines []string
	for m != nil {
		switch v := m.(type) {
		case Flat:
			lines = append(lines, string(v))
			m = nil
		case Chain:
			lines = append(lines, v.Text)
			m = v.Next
		default:
			m = nil
		}
	}
	return strings.Join(lines, "\n")
}

// AllowErrors controls which diagnostics are permitted to pass without
// aborting the pipeline. The zero value allows nothing.
type AllowErrors struct {
	// All permits every diagnostic.
	All bool
	// Codes permits only diagnostics with these numeric codes.
	Codes []int
}

// ParseAllowErrors accepts "" (allow nothing), "true"/"false", or a
// comma-separated list of numeric diagnostic codes such as "2322,2345".
func ParseAllowErrors(value string) (AllowErrors, error) {
	switch strings.TrimSpace(value) {
	case "", "false":
		return AllowErrors{}, nil
	case "true":
		return AllowErrors{All: true}, nil
	}

	var codes []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return AllowErrors{}, errors.Errorf("parsing allowed error code %q: %w", part, err)
		}
		codes = append(codes, code)
	}
	return AllowErrors{Codes: codes}, nil
}

// Allows reports whether a diagnostic with the given code is permitted.
func (a AllowErrors) Allows(code int) bool {
	if a.All {
		return true
	}
	for _, c := range a.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics not covered by the allow list.
func (a AllowErrors) Filter(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if !a.Allows(d.Code) {
			out = append(out, d)
		}
	}
	return out
}
