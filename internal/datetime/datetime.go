// Package datetime converts between the two date-time grammars used by tabby.
//
// Users type the input form (d/M/yyyy HHmm, e.g. "2/12/2019 1800"). Replies and
// the data file use the display form (MMM dd yyyy, h:mm a, e.g.
// "Dec 02 2019, 6:00 pm"). Both are interpreted in the host's local time and
// carry minute precision.
//
// Month names and the am/pm marker come from Go's layout engine, which is
// locale independent, so the display strings never drift with the host locale.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// InputLayout is the Go layout for the user input form d/M/yyyy HHmm.
	InputLayout = "2/1/2006 1504"
	// DisplayLayout is the Go layout for the display form MMM dd yyyy, h:mm a.
	DisplayLayout = "Jan 02 2006, 3:04 pm"

	// InputHint is shown to users wherever the input form is expected.
	InputHint = "d/M/yyyy HHmm"
)

// ErrInvalidDateTime is returned when a string matches neither form.
var ErrInvalidDateTime = errors.New("invalid date-time")

// ParseUser parses the input form. Surrounding whitespace is ignored.
func ParseUser(s string) (time.Time, error) {
	return parse(InputLayout, s)
}

// ParseDisplay parses the display form, as written to the data file.
func ParseDisplay(s string) (time.Time, error) {
	return parse(DisplayLayout, s)
}

// Format renders t in the display form.
func Format(t time.Time) string {
	return t.Format(DisplayLayout)
}

func parse(layout, s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	t, err := time.ParseInLocation(layout, trimmed, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, trimmed)
	}
	return t.Truncate(time.Minute), nil
}
