package recite

import "errors"

var (
	ErrPortUnavailable = errors.New("recite: port unavailable")
	ErrSerialDecode    = errors.New("recite: response is not valid text")
	ErrSerial          = errors.New("recite: unexpected response from device")
	ErrNoSensors       = errors.New("recite: no sensors connected")
	ErrNoTemperatures  = errors.New("recite: response contains no temperature records")
	ErrTimeout         = errors.New("recite: timeout waiting for device")
)
