package stream

import (
	"bufio"
	"context"

	"go.bug.st/serial"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
)

// IMUPort reads the IMU's line protocol from a serial port.
type IMUPort struct {
	serial.Port
	events chan string
}

// NewIMUPort opens portName at the device's fixed 115200 8N1 framing.
func NewIMUPort(portName string) (*IMUPort, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: 1,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	return &IMUPort{port, make(chan string)}, nil
}

// Events returns the channel of raw device lines.
func (p *IMUPort) Events() <-chan string {
	return p.events
}

// Close closes the serial port.
func (p *IMUPort) Close() error {
	return p.Port.Close()
}

// Monitor reads from the serial port and sends lines to the events channel
// until the context is cancelled or the port errors out.
func (p *IMUPort) Monitor(ctx context.Context) error {
	defer p.Close()
	scan := bufio.NewScanner(p.Port)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if !scan.Scan() {
				if err := scan.Err(); err != nil {
					monitoring.Logf("stream: serial read error: %v", err)
					return err
				}
				return nil
			}

			select {
			case p.events <- scan.Text():
			case <-ctx.Done():
				return nil
			}
		}
	}
}
