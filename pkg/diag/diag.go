// Package diag turns error payloads of the remote service into diagnostic
// lines for the operator, and keeps the original error attached.
package diag

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EmptyPayload is reported for an error body with no text at all.
const EmptyPayload = "remote service returned an empty error payload"

// Normalize returns the diagnostic lines of a raw error payload:
// every non-blank element of a "details" list, else a non-blank "message"
// field, else the payload itself when it is not a JSON object. It never fails
// and never returns a blank line.
func Normalize(payload string) []string {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return []string{EmptyPayload}
	}

	fields, ok := parseObject(trimmed)
	if !ok {
		return []string{payload}
	}

	if lines := detailLines(fields["details"]); len(lines) > 0 {
		return lines
	}
	if msg := text(fields["message"]); msg != "" {
		return []string{msg}
	}
	return []string{fmt.Sprintf(`malformed error payload, no "details" or "message": %s`, trimmed)}
}

func parseObject(payload string) (map[string]jsoniter.RawMessage, bool) {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func detailLines(raw jsoniter.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if line := text(item); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// text unquotes JSON strings and keeps any other value as written. Absent,
// null and blank values give "".
func text(raw jsoniter.RawMessage) string {
	if raw == nil || strings.TrimSpace(string(raw)) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// Lines returns the diagnostic lines for err: the normalized service payload
// if one is attached, otherwise the error text.
func Lines(err error) []string {
	var d *Error
	if errors.As(err, &d) {
		return d.Lines
	}
	if payload, ok := zosmf.PayloadOf(err); ok {
		return Normalize(payload)
	}
	return []string{err.Error()}
}

// Error is an error whose diagnostic has already been emitted.
type Error struct {
	Lines []string
	Err   error
}

func (e *Error) Error() string { return e.Err.Error() }

// Unwrap returns the original error
func (e *Error) Unwrap() error { return e.Err }

// Diagnostic joins the lines into one displayable string.
func (e *Error) Diagnostic() string { return strings.Join(e.Lines, "\n") }

// Report emits the diagnostic of err to log, one line each, and returns err
// wrapped in *Error. A nil err gives nil. An err reported before is returned
// without emitting it twice.
func Report(log logging.Interface, err error) error {
	if err == nil {
		return nil
	}
	var d *Error
	if errors.As(err, &d) {
		return err
	}

	d = &Error{Lines: Lines(err), Err: err}
	for _, line := range d.Lines {
		log.Error(line)
	}
	return d
}

// Diagnostic returns the joined diagnostic of err without logging anything.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	return strings.Join(Lines(err), "\n")
}
