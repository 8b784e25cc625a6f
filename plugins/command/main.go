// Command command is a plugin that runs a configured program. The stroke is
// passed in UNISTROKE_GESTURE, UNISTROKE_SCORE and UNISTROKE_POINTS.
//
// Build it next to its manifest:
//
//	go build -o plugins/command/command ./plugins/command
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/ayusman/unistroke/internal/plugin"
)

// Params is the action config: {"command": ["prog", "arg", ...]}.
type Params struct {
	Command []string `json:"command"`
	Dir     string   `json:"dir"`
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(nil, fmt.Errorf("failed to decode request: %w", err))
		return
	}
	if req.Action != "run" {
		writeResponse(nil, fmt.Errorf("unknown action: %s", req.Action))
		return
	}

	cmd, err := buildCommand(&req)
	if err != nil {
		writeResponse(nil, err)
		return
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		err = fmt.Errorf("%w: %s", err, out)
	}
	writeResponse(out, err)
}

func buildCommand(req *plugin.Request) (*exec.Cmd, error) {
	var p Params
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &p); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if len(p.Command) == 0 || p.Command[0] == "" {
		return nil, errors.New("command is required")
	}

	points, err := json.Marshal(req.Points)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(p.Command[0], p.Command[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = append(os.Environ(),
		"UNISTROKE_GESTURE="+req.Gesture,
		"UNISTROKE_SCORE="+strconv.Itoa(req.Score),
		"UNISTROKE_POINTS="+string(points),
	)
	return cmd, nil
}

func writeResponse(output []byte, err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	} else if len(output) > 0 {
		resp.Data, _ = json.Marshal(map[string]string{"output": string(output)})
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
