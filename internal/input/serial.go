package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"go.bug.st/serial"
)

// PortOptions describes the serial connection to a sensor.
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// Normalize validates the options and fills in defaults (115200 8N1).
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o
	if opts.BaudRate <= 0 {
		opts.BaudRate = 115200
	}
	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}
	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	switch p := strings.TrimSpace(strings.ToUpper(opts.Parity)); p {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}
	return opts, nil
}

// SerialMode converts the options for go.bug.st/serial.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}
	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	return mode, nil
}

// PortOpener opens a serial port. Tests replace it with an in-memory reader.
type PortOpener func(path string, mode *serial.Mode) (io.ReadCloser, error)

func openSerial(path string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(path, mode)
}

// SerialSource reads one coordinate pair per line from a serial device,
// such as a microcontroller streaming motion sensor deltas.
type SerialSource struct {
	Path    string
	Options PortOptions
	Open    PortOpener
}

// NewSerialSource creates a SerialSource for the device at path.
func NewSerialSource(path string, opts PortOptions) *SerialSource {
	return &SerialSource{Path: path, Options: opts, Open: openSerial}
}

// Events opens the port and streams parsed lines. Malformed lines are
// logged and skipped. The port is closed when ctx is done or reading fails.
func (s *SerialSource) Events(ctx context.Context) (<-chan Event, error) {
	mode, err := s.Options.SerialMode()
	if err != nil {
		return nil, err
	}
	open := s.Open
	if open == nil {
		open = openSerial
	}
	port, err := open(s.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", s.Path, err)
	}

	out := make(chan Event, 64)
	go func() {
		<-ctx.Done()
		port.Close()
	}()
	go func() {
		defer close(out)
		scan := bufio.NewScanner(port)
		for scan.Scan() {
			line := scan.Text()
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ev, err := ParseLine(line)
			if err != nil {
				log.Printf("serial %s: %v", s.Path, err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil && ctx.Err() == nil {
			log.Printf("serial %s: read failed: %v", s.Path, err)
		}
	}()
	return out, nil
}
