package device

import (
	"context"
	"errors"
	"fmt"

	"recitetester/internal/domain/models"
	"recitetester/internal/domain/ports"
	"recitetester/pkg/recite"
)

// ReciteAdapter адаптирует recite.Client к интерфейсу ports.Device.
type ReciteAdapter struct {
	client *recite.Client
}

// NewReciteAdapter создает адаптер поверх клиента протокола.
func NewReciteAdapter(client *recite.Client) ports.Device {
	return &ReciteAdapter{client: client}
}

// Open открывает порт устройства.
func (a *ReciteAdapter) Open(port string) error {
	return mapError(a.client.Transport().Open(port))
}

// Close закрывает порт.
func (a *ReciteAdapter) Close() error {
	return a.client.Transport().Close()
}

// IsConnected проверяет, открыт ли именно этот порт.
func (a *ReciteAdapter) IsConnected(port string) bool {
	return a.client.Transport().IsConnected(port)
}

// PortName возвращает имя открытого порта.
func (a *ReciteAdapter) PortName() string {
	return a.client.Transport().PortName()
}

// CheckVersion проверяет прошивку устройства.
func (a *ReciteAdapter) CheckVersion(ctx context.Context) (*models.VersionInfo, error) {
	res, err := a.client.CheckVersion(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &models.VersionInfo{Matched: res.Matched, Firmware: res.Firmware}, nil
}

// ReadCables опрашивает платы и температуры.
func (a *ReciteAdapter) ReadCables(ctx context.Context) (*models.CableValues, error) {
	res, err := a.client.ReadCables(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &models.CableValues{
		Boards:       res.Boards,
		SensorCount:  res.SensorCount,
		Temperatures: res.Temperatures,
	}, nil
}

var errorMapping = []struct {
	from error
	to   error
}{
	{recite.ErrPortUnavailable, models.ErrPortUnavailable},
	{recite.ErrSerialDecode, models.ErrSerialDecode},
	{recite.ErrSerial, models.ErrSerial},
	{recite.ErrNoSensors, models.ErrNoSensors},
	{recite.ErrNoTemperatures, models.ErrNoTemperatures},
}

// mapError оборачивает ошибку pkg/recite в доменную, сохраняя исходный текст
func mapError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.from) {
			return fmt.Errorf("%w: %w", m.to, err)
		}
	}
	return err
}
