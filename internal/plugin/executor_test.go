package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin into a temp dir.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    actions,
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := scriptPlugin(t, "ok", `echo '{"success":true,"data":{"message":"hello"}}'`, "notify")

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, &Request{Action: "notify", Gesture: "circle", Score: 93})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("resp = %+v, want success", resp)
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
	if data["message"] != "hello" {
		t.Errorf("message = %q, want hello", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	p := scriptPlugin(t, "echo", `INPUT=$(cat)
echo "{\"success\":true,\"data\":$INPUT}"
`, "echo")

	req := &Request{
		Action:   "echo",
		Gesture:  "check",
		Score:    88,
		Distance: 12.5,
		Points:   [][2]float64{{1, 2}, {3, 4}},
		Config:   json.RawMessage(`{"setting":"on"}`),
	}
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var got Request
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("failed to unmarshal echoed request: %v", err)
	}
	if got.Gesture != "check" || got.Score != 88 || got.Distance != 12.5 {
		t.Errorf("echoed request = %+v", got)
	}
	if len(got.Points) != 2 || got.Points[1] != [2]float64{3, 4} {
		t.Errorf("echoed points = %v", got.Points)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	p := scriptPlugin(t, "slow", "sleep 10\necho '{\"success\":true}'\n", "slow")

	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), p, &Request{Action: "slow"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	p := scriptPlugin(t, "fail", `echo '{"success":false,"error":"something went wrong"}'`, "fail")

	resp, err := NewExecutor(0).Execute(context.Background(), p, &Request{Action: "fail"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success || resp.Error != "something went wrong" {
		t.Errorf("resp = %+v, want plugin error", resp)
	}
}

func TestExecutor_Execute_Failures(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "invalid json", script: "echo 'not valid json'"},
		{name: "non-zero exit", script: "echo 'boom' >&2\nexit 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scriptPlugin(t, "bad", tt.script)
			if _, err := NewExecutor(0).Execute(context.Background(), p, &Request{Action: "any"}); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestExecutor_UnsupportedAction(t *testing.T) {
	p := scriptPlugin(t, "picky", `echo '{"success":true}'`, "only-this")

	_, err := NewExecutor(0).Execute(context.Background(), p, &Request{Action: "other"})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("Execute() error = %v, want ErrUnsupportedAction", err)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", got)
	}
	if got := NewExecutor(0).Timeout(); got != 5*time.Second {
		t.Errorf("default Timeout() = %v, want 5s", got)
	}
}
