package recite

import (
	"bytes"
	"context"
	"fmt"
)

const (
	cmdVersion = "version"
	cmdInfo    = "tac-get-info v"
	cmdTemps   = "temps"
)

// Client реализует командный протокол Recite поверх Transport.
// Между операциями не хранит ничего, кроме открытого порта.
// Не предназначен для одновременного использования из нескольких горутин.
type Client struct {
	transport *Transport
	config    Config
}

// NewClient создаёт клиента поверх уже созданного транспорта
func NewClient(transport *Transport) *Client {
	return &Client{
		transport: transport,
		config:    transport.config,
	}
}

// Transport возвращает транспорт клиента.
func (c *Client) Transport() *Transport {
	return c.transport
}

// CheckVersion отправляет version и ищет в ответе баннер прошивки.
// Отсутствие баннера не ошибка: Matched=false.
func (c *Client) CheckVersion(ctx context.Context) (*VersionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := c.exchange(cmdVersion)
	if err != nil {
		return nil, err
	}

	firmware, ok := MatchFirmware(text)
	if !ok {
		c.logf("Баннер прошивки не найден")
	}
	return &VersionResult{Matched: ok, Firmware: firmware}, nil
}

// ReadCables опрашивает платы (tac-get-info v), затем температуры (temps).
// Возвращает ErrNoSensors, если к устройству ничего не подключено,
// и ErrNoTemperatures, если в ответе temps нет ни одной записи.
func (c *Client) ReadCables(ctx context.Context) (*CableValues, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Платы и число датчиков
	info, err := c.exchange(cmdInfo)
	if err != nil {
		return nil, err
	}
	if IsZeroSensors(info) {
		return nil, ErrNoSensors
	}
	boards := ParseBoards(info)
	count, err := ParseSensorCount(info)
	if err != nil {
		return nil, err
	}

	// 2. Температуры
	text, err := c.exchange(cmdTemps)
	if err != nil {
		return nil, err
	}
	temps, err := ParseTemperatures(text)
	if err != nil {
		return nil, err
	}
	if len(temps) == 0 {
		return nil, ErrNoTemperatures
	}

	return &CableValues{
		Boards:       boards,
		SensorCount:  count,
		Temperatures: temps,
	}, nil
}

// exchange выполняет один цикл: сброс буфера, отправка команды с эхом, чтение до приглашения.
func (c *Client) exchange(cmd string) (string, error) {
	if !c.transport.IsOpen() {
		return "", fmt.Errorf("%w: порт не открыт", ErrPortUnavailable)
	}

	if err := c.transport.Flush(); err != nil {
		return "", err
	}

	c.logf(">> TX: %s", cmd)
	if err := c.sendEchoed(cmd); err != nil {
		return "", err
	}

	raw, err := c.transport.ReadUntil(sentinel)
	if err != nil {
		return "", err
	}
	raw = bytes.TrimSuffix(raw, sentinel)

	text, err := decodeResponse(raw)
	if err != nil {
		c.logf("<< RX (не текст): %s", printable(raw))
		return "", err
	}
	c.logf("<< RX: %s", text)
	return text, nil
}

// sendEchoed отправляет команду по одному символу и ждёт эхо каждого,
// потому что линия полудуплексная и без управления потоком.
// Перевод строки отправляется так же.
func (c *Client) sendEchoed(cmd string) error {
	line := append([]byte(cmd), lineEnd...)
	for i := range line {
		ch := line[i : i+1]
		if err := c.transport.Write(ch); err != nil {
			return err
		}
		if _, err := c.transport.ReadUntil(ch); err != nil {
			return fmt.Errorf("эхо символа %q: %w", ch, err)
		}
	}
	return nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger(fmt.Sprintf(format, args...))
	}
}
