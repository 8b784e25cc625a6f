package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrUnsupportedAction is returned when a plugin does not declare the
// requested action.
var ErrUnsupportedAction = errors.New("action not supported by plugin")

// Executor runs plugins with a per-call timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor. A non-positive timeout means 5s.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Executor{timeout: timeout}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute sends req to the plugin on stdin and decodes its stdout.
func (e *Executor) Execute(ctx context.Context, p *Plugin, req *Request) (*Response, error) {
	if !p.Supports(req.Action) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedAction, p.Manifest.Name, req.Action)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Executable)
	cmd.Dir = p.Path
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("plugin %s timed out after %v", p.Manifest.Name, e.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("plugin %s failed: %w, stderr: %s", p.Manifest.Name, err, stderr.String())
		}
		return nil, fmt.Errorf("plugin %s failed: %w", p.Manifest.Name, err)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse plugin response: %w, stdout: %s", err, stdout.String())
	}
	return &resp, nil
}
