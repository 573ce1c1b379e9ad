package models

import "time"

// SensorRow - строка отчёта по одной плате.
type SensorRow struct {
	Index       int      `json:"index"` // С единицы, в порядке выдачи устройством
	Board       string   `json:"board"`
	SensorID    string   `json:"sensorId"`
	Temperature *float64 `json:"temperature,omitempty"` // nil, если температура не пришла
	Failed      bool     `json:"failed"`
}

// CableReport - результат проверки кабеля.
type CableReport struct {
	SensorCount int         `json:"sensorCount"`
	Limit       float64     `json:"limit"`
	Rows        []SensorRow `json:"rows"`
	FailedCount int         `json:"failedCount"`
	Missing     int         `json:"missing"` // Платы без показаний температуры
	CreatedAt   time.Time   `json:"createdAt"`
}

// Passed возвращает true, если ни один датчик не превысил порог.
func (r *CableReport) Passed() bool {
	return r.FailedCount == 0
}
