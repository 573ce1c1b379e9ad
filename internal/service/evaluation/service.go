package evaluation

import (
	"strings"
	"time"

	"recitetester/internal/domain/models"
)

// DefaultLimit - порог температуры по умолчанию, °C.
const DefaultLimit = 75.0

// Service проверяет показания датчиков на превышение порога
type Service struct {
	limit float64
	now   func() time.Time
}

// NewService создает сервис с порогом limit. Неположительный порог заменяется на DefaultLimit.
func NewService(limit float64) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{limit: limit, now: time.Now}
}

// Limit возвращает действующий порог
func (s *Service) Limit() float64 {
	return s.limit
}

// Evaluate строит отчет по платам в порядке выдачи устройством.
// Датчик неисправен, если его температура строго больше порога.
func (s *Service) Evaluate(values *models.CableValues) *models.CableReport {
	report := &models.CableReport{
		Limit:     s.limit,
		CreatedAt: s.now(),
	}
	if values == nil {
		return report
	}
	report.SensorCount = values.SensorCount
	report.Rows = make([]models.SensorRow, 0, len(values.Boards))

	for i, board := range values.Boards {
		row := models.SensorRow{
			Index:    i + 1,
			Board:    board,
			SensorID: SensorID(board),
		}
		if temp, ok := values.Temperatures[row.SensorID]; ok {
			t := temp
			row.Temperature = &t
			row.Failed = temp > s.limit
		} else {
			report.Missing++
		}
		if row.Failed {
			report.FailedCount++
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// SensorID возвращает идентификатор датчика платы: адрес без первой и последней групп.
// "3f 00 00 07 12 58 8f 28" -> "00 00 07 12 58 8f"
func SensorID(board string) string {
	fields := strings.Fields(board)
	if len(fields) < 3 {
		return ""
	}
	return strings.Join(fields[1:len(fields)-1], " ")
}
