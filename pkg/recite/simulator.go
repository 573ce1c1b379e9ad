package recite

import (
	"errors"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SimulatedBanner - ответ симулятора на version по умолчанию.
const SimulatedBanner = FirmwareBanner + "0.3a"

var (
	errSimulatorBroken = errors.New("simulator: device disconnected")
	errSimulatorClosed = errors.New("simulator: port closed")
)

// Simulator имитирует Recite: эхо каждого байта, ответ на команду после
// перевода строки и приглашение "\r\n> " в конце ответа.
// Реализует Port, поэтому подходит и для тестов, и для демо-режима.
type Simulator struct {
	mu          sync.Mutex
	responses   map[string]string
	out         []byte
	line        []byte
	written     []byte
	commands    []string
	closed      bool
	broken      bool
	unavailable bool
	silent      bool
	readTimeout time.Duration
}

// NewSimulator создаёт симулятор с типичными ответами устройства.
func NewSimulator() *Simulator {
	return &Simulator{
		responses: map[string]string{
			cmdVersion: SimulatedBanner,
			cmdInfo:    simulatedInfo,
			cmdTemps:   simulatedTemps,
		},
	}
}

// Opener возвращает Opener, который "открывает" этот симулятор под любым именем.
func (s *Simulator) Opener() Opener {
	return func(name string, mode *serial.Mode) (Port, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.unavailable {
			return nil, errors.New("simulator: port busy")
		}
		s.closed = false
		s.out = nil
		s.line = nil
		return s, nil
	}
}

// SetResponse задаёт тело ответа на команду cmd (без эха и приглашения).
func (s *Simulator) SetResponse(cmd, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[cmd] = body
}

// SetBroken имитирует отключение кабеля: чтение и запись возвращают ошибку.
func (s *Simulator) SetBroken(broken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = broken
}

// SetUnavailable заставляет открытие порта завершаться ошибкой.
func (s *Simulator) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

// SetSilent отключает эхо и ответы (устройство не отвечает).
func (s *Simulator) SetSilent(silent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = silent
}

// Commands возвращает принятые непустые командные строки.
func (s *Simulator) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Written возвращает все записанные в порт байты.
func (s *Simulator) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written...)
}

// Read отдаёт накопленный вывод. Пустой буфер означает таймаут: 0 байт без ошибки.
func (s *Simulator) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errSimulatorClosed
	}
	if s.broken {
		return 0, errSimulatorBroken
	}
	if len(s.out) == 0 {
		return 0, nil
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// Write принимает байты, отдаёт эхо и по '\n' выполняет команду.
func (s *Simulator) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errSimulatorClosed
	}
	if s.broken {
		return 0, errSimulatorBroken
	}
	s.written = append(s.written, p...)
	if s.silent {
		return len(p), nil
	}
	for _, b := range p {
		s.out = append(s.out, b)
		switch b {
		case '\r':
		case '\n':
			s.execute(strings.TrimSpace(string(s.line)))
			s.line = s.line[:0]
		default:
			s.line = append(s.line, b)
		}
	}
	return len(p), nil
}

// execute дописывает ответ на команду (должен вызываться только под мьютексом)
func (s *Simulator) execute(cmd string) {
	if cmd == "" {
		s.out = append(s.out, "> "...)
		return
	}
	s.commands = append(s.commands, cmd)
	body, ok := s.responses[cmd]
	if !ok {
		body = "Unknown command: " + cmd
	}
	s.out = append(s.out, body...)
	s.out = append(s.out, "\r\n> "...)
}

// SetReadTimeout запоминает таймаут (симулятор не блокируется).
func (s *Simulator) SetReadTimeout(t time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readTimeout = t
	return nil
}

// ResetInputBuffer выбрасывает непрочитанный вывод.
func (s *Simulator) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return errSimulatorBroken
	}
	s.out = nil
	return nil
}

// Close закрывает порт.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

const simulatedInfo = "Scanning bus...\r\n" +
	"06 00 00 09 a9 a0 c0 28 \r\n" +
	"0c 00 00 07 12 30 f8 28 \r\n" +
	"3e 00 00 07 12 58 8f 28 \r\n" +
	"3f 01 00 07 12 58 8f 28 \r\n" +
	"3f 02 00 07 12 58 8f 28 \r\n" +
	"3f 03 00 07 12 58 8f 28 \r\n" +
	"6 sensors"

const simulatedTemps = "00 00 09 a9 a0 c0 temp =  21.3 C\r\n" +
	"00 00 07 12 30 f8 temp =  22.0 C\r\n" +
	"00 00 07 12 58 8f temp =  74.9 C\r\n" +
	"01 00 07 12 58 8f temp =  31.0 C\r\n" +
	"02 00 07 12 58 8f temp =  81.5 C\r\n" +
	"03 00 07 12 58 8f temp =  33.0 C"
