package models

import "fmt"

// PortInfo описывает последовательный порт, найденный в системе.
type PortInfo struct {
	Name         string // Например "COM5" или "/dev/ttyUSB0"
	Product      string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// String возвращает строку для списка портов.
func (p PortInfo) String() string {
	s := p.Name
	if p.Product != "" {
		s += " - " + p.Product
	}
	if p.IsUSB && p.VID != "" {
		s += fmt.Sprintf(" (%s:%s)", p.VID, p.PID)
	}
	return s
}

// VersionInfo содержит результат проверки прошивки.
type VersionInfo struct {
	Matched  bool   `json:"matched"`
	Firmware string `json:"firmware,omitempty"`
}

// CableValues содержит результат опроса кабелей.
type CableValues struct {
	Boards       []string           `json:"boards"`
	SensorCount  int                `json:"sensorCount"`
	Temperatures map[string]float64 `json:"temperatures"`
}
