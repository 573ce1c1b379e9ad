package recite

// VersionResult содержит ответ на команду version.
type VersionResult struct {
	Matched  bool   `json:"matched"`
	Firmware string `json:"firmware,omitempty"` // Например "0.3a", пусто если баннер не найден
}

// CableValues содержит результат опроса плат и датчиков температуры.
type CableValues struct {
	Boards       []string           `json:"boards"`       // В порядке выдачи устройством
	SensorCount  int                `json:"sensorCount"`  // Число датчиков по данным tac-get-info
	Temperatures map[string]float64 `json:"temperatures"` // ID датчика (6 байт) -> °C
}
