// Package input provides live point sources that feed the gesture filter.
package input

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadLine is returned for input lines that are not coordinate pairs.
var ErrBadLine = errors.New("malformed point line")

// Event is one input sample.
type Event struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Relative bool    `json:"relative,omitempty"`
}

// Source produces input events until its context is cancelled or the
// underlying device stops. The returned channel is closed when the source
// ends.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseLine parses "x,y" or "x y" as an absolute sample. A leading "r" or
// "d" marks the pair as a relative delta, as in "r 3,-2".
func ParseLine(line string) (Event, error) {
	s := strings.TrimSpace(line)
	var ev Event
	if len(s) > 0 && (s[0] == 'r' || s[0] == 'd') {
		ev.Relative = true
		s = strings.TrimSpace(s[1:])
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("%w: %q", ErrBadLine, line)
	}

	var err error
	if ev.X, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return Event{}, fmt.Errorf("%w: %q: %v", ErrBadLine, line, err)
	}
	if ev.Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return Event{}, fmt.Errorf("%w: %q: %v", ErrBadLine, line, err)
	}
	if !finite(ev.X) || !finite(ev.Y) {
		return Event{}, fmt.Errorf("%w: %q: non-finite coordinate", ErrBadLine, line)
	}
	return ev, nil
}
