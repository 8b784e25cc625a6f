// Command notify is a plugin that shows a desktop notification. It uses
// AppleScript on macOS and notify-send elsewhere.
//
// Build it next to its manifest:
//
//	go build -o plugins/notify/notify ./plugins/notify
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/ayusman/unistroke/internal/plugin"
)

// Params is the action config.
type Params struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}
	if req.Action != "notify" {
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
		return
	}

	p, err := parseParams(req.Config)
	if err != nil {
		writeResponse(err)
		return
	}
	title, message := expand(p.Title, &req), expand(p.Message, &req)
	writeResponse(notifyCommand(runtime.GOOS, title, message).Run())
}

func parseParams(config json.RawMessage) (Params, error) {
	p := Params{Title: "Unistroke", Message: "{gesture} ({score}%)"}
	if len(config) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(config, &p); err != nil {
		return p, fmt.Errorf("failed to parse config: %w", err)
	}
	return p, nil
}

// expand replaces {gesture} and {score} in s.
func expand(s string, req *plugin.Request) string {
	return strings.NewReplacer(
		"{gesture}", req.Gesture,
		"{score}", strconv.Itoa(req.Score),
	).Replace(s)
}

func notifyCommand(goos, title, message string) *exec.Cmd {
	if goos == "darwin" {
		script := fmt.Sprintf(`display notification %s with title %s`, strconv.Quote(message), strconv.Quote(title))
		return exec.Command("osascript", "-e", script)
	}
	return exec.Command("notify-send", title, message)
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
