package models

import (
	"context"
	"errors"
	"time"
)

// OutcomeKind - вид итогового уведомления об операции.
type OutcomeKind int

const (
	OutcomeConnected OutcomeKind = iota
	OutcomeDisconnected
	OutcomePortUnavailable
	OutcomeVersionResult
	OutcomeSerialDecodeError
	OutcomeSerialError
	OutcomeNoSensors
	OutcomeNoTemperatures
	OutcomeCableValues
)

var outcomeNames = map[OutcomeKind]string{
	OutcomeConnected:         "connected",
	OutcomeDisconnected:      "disconnected",
	OutcomePortUnavailable:   "port_unavailable",
	OutcomeVersionResult:     "version_result",
	OutcomeSerialDecodeError: "serial_decode_error",
	OutcomeSerialError:       "serial_error",
	OutcomeNoSensors:         "no_sensors",
	OutcomeNoTemperatures:    "no_temperatures",
	OutcomeCableValues:       "cable_values",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsFault сообщает, является ли исход сбоем (а не штатным результатом).
func (k OutcomeKind) IsFault() bool {
	switch k {
	case OutcomePortUnavailable, OutcomeSerialDecodeError, OutcomeSerialError:
		return true
	}
	return false
}

// Outcome - единственное итоговое уведомление по одной операции.
// Заполнено только поле, соответствующее Kind.
type Outcome struct {
	Kind    OutcomeKind
	Port    string
	Version *VersionInfo
	Cables  *CableValues
	Err     error
	Time    time.Time
}

// OutcomeFromError классифицирует ошибку операции.
func OutcomeFromError(err error) Outcome {
	o := Outcome{Err: err, Time: time.Now()}
	switch {
	case errors.Is(err, ErrNoSensors):
		o.Kind = OutcomeNoSensors
	case errors.Is(err, ErrNoTemperatures):
		o.Kind = OutcomeNoTemperatures
	case errors.Is(err, ErrSerialDecode):
		o.Kind = OutcomeSerialDecodeError
	case errors.Is(err, ErrPortUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		o.Kind = OutcomePortUnavailable
	default:
		o.Kind = OutcomeSerialError
	}
	return o
}
