package write

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zdevops/zdevops/pkg/zosmf"
)

var (
	// ErrRecordLengthUnknown rejects writes to a dataset that reports no record length.
	ErrRecordLengthUnknown = fmt.Errorf("%w: record length is unknown", zosmf.ErrValidation)

	// ErrLinesTooLong rejects content with lines longer than the record length.
	ErrLinesTooLong = fmt.Errorf("%w: lines exceed the record length", zosmf.ErrValidation)
)

// Result is the kind of an Outcome.
type Result string

const (
	ResultAccepted Result = "accepted"
	ResultWritten  Result = "written"
	ResultSkipped  Result = "skipped"
	ResultRejected Result = "rejected"
)

// Outcome describes what became of one piece of content. Content holds the
// text with carriage returns removed, which is what gets written.
type Outcome struct {
	Target     string
	Result     Result
	Diagnostic string
	Content    string

	err error
}

// Err returns the validation failure of a rejected outcome, nil otherwise.
func (o Outcome) Err() error {
	if o.Result != ResultRejected {
		return nil
	}
	return o.err
}

// NormalizeContent removes carriage returns so lines end in a bare newline.
func NormalizeContent(content string) string {
	return strings.ReplaceAll(content, "\r", "")
}

// Validate checks content against the record length of target. Empty content
// is skipped, a nil record length always rejects, and so does any line longer
// than the record length. Lengths count characters, not bytes.
func Validate(target string, recordLength *int, content string) Outcome {
	content = NormalizeContent(content)
	o := Outcome{Target: target, Content: content}

	if content == "" {
		o.Result = ResultSkipped
		return o
	}

	if recordLength == nil {
		o.Result = ResultRejected
		o.Diagnostic = fmt.Sprintf("Unable to get the record length of %s, nothing written", target)
		o.err = fmt.Errorf("%w: %s", ErrRecordLengthUnknown, target)
		return o
	}

	tooLong := 0
	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > *recordLength {
			tooLong++
		}
	}
	if tooLong > 0 {
		o.Result = ResultRejected
		o.Diagnostic = fmt.Sprintf("%d lines are longer than the record length %d of %s", tooLong, *recordLength, target)
		o.err = fmt.Errorf("%w: %s", ErrLinesTooLong, o.Diagnostic)
		return o
	}

	o.Result = ResultAccepted
	return o
}
