package connection

import (
	"fmt"
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"recitetester/internal/domain/models"
	"recitetester/internal/domain/ports"
)

// PortLister возвращает подробный список портов системы.
type PortLister func() ([]*enumerator.PortDetails, error)

// NameLister возвращает только имена портов.
type NameLister func() ([]string, error)

// ConnectionService отвечает за перечисление портов и состояние подключения
type ConnectionService struct {
	device  ports.Device
	details PortLister
	names   NameLister
	logger  ports.Logger
}

// NewConnectionService создает сервис с системным перечислением портов
func NewConnectionService(device ports.Device, logger ports.Logger) *ConnectionService {
	return &ConnectionService{
		device:  device,
		details: enumerator.GetDetailedPortsList,
		names:   serial.GetPortsList,
		logger:  logger,
	}
}

// WithListers подменяет источники списка портов (симулятор, тесты)
func (s *ConnectionService) WithListers(details PortLister, names NameLister) *ConnectionService {
	if details != nil {
		s.details = details
	}
	if names != nil {
		s.names = names
	}
	return s
}

// ScanPorts возвращает доступные порты, отсортированные по имени.
// Если подробное перечисление недоступно (нет прав на USB-дескрипторы),
// возвращается список имен без описаний.
func (s *ConnectionService) ScanPorts() ([]models.PortInfo, error) {
	list, err := s.details()
	if err == nil {
		result := make([]models.PortInfo, 0, len(list))
		for _, p := range list {
			result = append(result, models.PortInfo{
				Name:         p.Name,
				Product:      p.Product,
				IsUSB:        p.IsUSB,
				VID:          p.VID,
				PID:          p.PID,
				SerialNumber: p.SerialNumber,
			})
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
		return result, nil
	}

	s.logger.Debug("Подробный список портов недоступен: %v", err)
	names, err := s.names()
	if err != nil {
		return nil, fmt.Errorf("scan ports: %w", err)
	}
	sort.Strings(names)
	result := make([]models.PortInfo, 0, len(names))
	for _, name := range names {
		result = append(result, models.PortInfo{Name: name})
	}
	return result, nil
}

// IsConnected проверяет, открыт ли именно этот порт. В порт ничего не пишется.
func (s *ConnectionService) IsConnected(port string) bool {
	return s.device.IsConnected(port)
}

// CurrentPort возвращает имя открытого порта или пустую строку
func (s *ConnectionService) CurrentPort() string {
	return s.device.PortName()
}
