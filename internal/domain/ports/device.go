package ports

import (
	"context"

	"recitetester/internal/domain/models"
)

// Device определяет интерфейс устройства Recite для сервисов.
// Реализация не обязана быть потокобезопасной: вызовы сериализует worker.
type Device interface {
	Open(port string) error
	Close() error
	IsConnected(port string) bool
	PortName() string
	CheckVersion(ctx context.Context) (*models.VersionInfo, error)
	ReadCables(ctx context.Context) (*models.CableValues, error)
}
