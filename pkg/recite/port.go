package recite

import (
	"io"
	"time"

	"go.bug.st/serial"
)

// Port описывает подмножество go.bug.st/serial.Port, которое использует Transport.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Opener открывает порт с заданным режимом.
type Opener func(name string, mode *serial.Mode) (Port, error)

// OpenSerial открывает настоящий COM-порт через go.bug.st/serial.
func OpenSerial(name string, mode *serial.Mode) (Port, error) {
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return p, nil
}
