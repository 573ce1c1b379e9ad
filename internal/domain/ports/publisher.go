package ports

import "recitetester/internal/domain/models"

// Publisher отправляет результаты наружу (например, в MQTT).
type Publisher interface {
	PublishOutcome(o models.Outcome) error
	PublishReport(r *models.CableReport) error
	Close() error
}
