package recite

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate   = 115200
	DefaultTimeout    = 40 * time.Second       // Сканирование шины устройством может идти десятки секунд
	DefaultFlushDelay = 500 * time.Millisecond // Время, за которое устройство успевает допечатать ответ

	// NoFlushDelay отключает паузу в Flush (нулевое значение означает DefaultFlushDelay)
	NoFlushDelay time.Duration = -1
)

var (
	lineEnd  = []byte("\r\n")
	sentinel = []byte("\r\n>") // Приглашение командной строки Recite
)

// Config определяет параметры последовательного порта.
type Config struct {
	BaudRate   int              `json:"baudRate,omitempty"`
	Timeout    time.Duration    `json:"timeout,omitempty"`    // Общий таймаут чтения
	FlushDelay time.Duration    `json:"flushDelay,omitempty"` // Пауза перед сбросом входного буфера
	Logger     func(msg string) `json:"-"`
	Opener     Opener           `json:"-"` // По умолчанию OpenSerial
}

// Transport владеет последовательным портом на уровне байтов.
// Не более одного открытого порта на экземпляр.
type Transport struct {
	config Config
	mu     sync.Mutex
	port   Port
	name   string
}

// NewTransport создаёт транспорт с заданной конфигурацией
func NewTransport(config Config) *Transport {
	if config.BaudRate == 0 {
		config.BaudRate = DefaultBaudRate
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.FlushDelay == 0 {
		config.FlushDelay = DefaultFlushDelay
	}
	if config.Opener == nil {
		config.Opener = OpenSerial
	}
	return &Transport{config: config}
}

// Open закрывает текущий порт (если есть) и открывает порт name в режиме 8N1.
func (t *Transport) Open(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeLocked()

	mode := &serial.Mode{
		BaudRate: t.config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := t.config.Opener(name, mode)
	if err != nil {
		return fmt.Errorf("%w: ошибка открытия порта %s: %v", ErrPortUnavailable, name, err)
	}
	if err := port.SetReadTimeout(t.config.Timeout); err != nil {
		port.Close()
		return fmt.Errorf("%w: ошибка настройки таймаута %s: %v", ErrPortUnavailable, name, err)
	}

	t.port = port
	t.name = name
	t.logf("Порт %s открыт (%d 8N1)", name, t.config.BaudRate)
	return nil
}

// Close закрывает порт. Повторный вызов безопасен.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLocked()
	return nil
}

// closeLocked закрывает порт (должен вызываться только под мьютексом)
func (t *Transport) closeLocked() {
	if t.port != nil {
		t.port.Close()
		t.logf("Порт %s закрыт", t.name)
		t.port = nil
	}
	t.name = ""
}

// IsOpen сообщает, открыт ли какой-либо порт.
func (t *Transport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// IsConnected возвращает true, если открыт именно порт name.
// Ничего не пишет в порт.
func (t *Transport) IsConnected(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil && t.name == name
}

// PortName возвращает имя открытого порта или пустую строку.
func (t *Transport) PortName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// current возвращает открытый порт. Сам обмен идёт без мьютекса,
// чтобы IsConnected не ждал окончания долгого чтения.
func (t *Transport) current() (Port, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil, fmt.Errorf("%w: порт не открыт", ErrPortUnavailable)
	}
	return t.port, nil
}

// Write отправляет данные в порт.
func (t *Transport) Write(p []byte) error {
	port, err := t.current()
	if err != nil {
		return err
	}
	if _, err := port.Write(p); err != nil {
		return fmt.Errorf("%w: ошибка записи: %v", ErrPortUnavailable, err)
	}
	return nil
}

// ReadUntil читает побайтно, пока не встретит term или не истечёт таймаут.
// При таймауте возвращает прочитанное и ошибку ErrTimeout (обёрнутую в ErrPortUnavailable).
func (t *Transport) ReadUntil(term []byte) ([]byte, error) {
	port, err := t.current()
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(t.config.Timeout)
	buf := make([]byte, 1)
	readBuf := make([]byte, 0, 256)
	for {
		n, err := port.Read(buf)
		if err != nil {
			return readBuf, fmt.Errorf("%w: ошибка чтения: %v", ErrPortUnavailable, err)
		}
		// go.bug.st/serial возвращает 0 байт без ошибки по истечении таймаута чтения
		if n == 0 {
			return readBuf, fmt.Errorf("%w: %w", ErrPortUnavailable, ErrTimeout)
		}
		readBuf = append(readBuf, buf[0])
		if bytes.HasSuffix(readBuf, term) {
			return readBuf, nil
		}
		if time.Now().After(deadline) {
			return readBuf, fmt.Errorf("%w: %w", ErrPortUnavailable, ErrTimeout)
		}
	}
}

// Flush провоцирует устройство на ответ пустой строкой, ждёт FlushDelay
// и выбрасывает всё, что накопилось во входном буфере.
func (t *Transport) Flush() error {
	port, err := t.current()
	if err != nil {
		return err
	}
	if _, err := port.Write(lineEnd); err != nil {
		return fmt.Errorf("%w: ошибка записи: %v", ErrPortUnavailable, err)
	}
	if t.config.FlushDelay > 0 {
		time.Sleep(t.config.FlushDelay)
	}
	if err := port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("%w: ошибка сброса буфера: %v", ErrPortUnavailable, err)
	}
	return nil
}

func (t *Transport) logf(format string, args ...interface{}) {
	if t.config.Logger != nil {
		t.config.Logger(fmt.Sprintf(format, args...))
	}
}
