// Package transport constructs the byte-stream transport the Port
// runs over. The framing core only requires an io.Reader/io.Writer
// pair; this package is the one concrete way this adapter
// obtains them, a thin wrapper around the modem's serial link.
package transport

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// OpenSerial opens devicePath at baudRate, 8-N-1, with blocking reads
// (no read timeout), matching the modem's expected UART framing.
func OpenSerial(devicePath string, baudRate int) (*serial.Port, error) {
	if err := clearAttributes(devicePath); err != nil {
		return nil, fmt.Errorf("failed to clear UART attributes: %v", err)
	}

	config := &serial.Config{
		Name:        devicePath,
		Baud:        baudRate,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %v", err)
	}
	return port, nil
}

// clearAttributes opens and immediately closes the port at a default
// baud rate before the real session, so stale line settings from a
// previous run don't leak into this one.
func clearAttributes(devicePath string) error {
	config := &serial.Config{
		Name:        devicePath,
		Baud:        9600,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return fmt.Errorf("failed to open serial port for attribute clearing: %v", err)
	}
	if err := port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port after attribute clearing: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}
