package models

import "errors"

// Ошибки устройства в терминах домена. Адаптер драйвера оборачивает в них ошибки pkg/recite.
var (
	ErrPortUnavailable = errors.New("port unavailable")
	ErrSerialDecode    = errors.New("serial decode error")
	ErrSerial          = errors.New("serial error")
	ErrNoSensors       = errors.New("no sensors")
	ErrNoTemperatures  = errors.New("no temperatures")
)
