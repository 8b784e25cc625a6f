package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration and loading errors.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrTemplateCapacity = errors.New("template capacity exceeded")
	ErrTemplateLength   = errors.New("invalid template length")
)

// Tracer receives diagnostic events as an event name followed by key/value
// pairs. A nil Tracer disables tracing.
type Tracer func(event string, kv ...any)

// FormatTrace renders a trace event as "event k=v k=v".
func FormatTrace(event string, kv ...any) string {
	var sb strings.Builder
	sb.WriteString(event)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", kv[i], kv[i+1])
	}
	if len(kv)%2 == 1 {
		fmt.Fprintf(&sb, " %v", kv[len(kv)-1])
	}
	return sb.String()
}
