package logger

import (
	"fmt"
	"io"
	"os"

	ozzo "github.com/go-ozzo/ozzo-log"

	"recitetester/internal/domain/ports"
)

// Options задает цели и уровень логирования.
type Options struct {
	Category string    // Категория корневого логгера, по умолчанию "recite"
	FileName string    // Пусто - без файла
	Debug    bool      // LevelDebug вместо LevelInfo
	Console  io.Writer // По умолчанию os.Stderr, чтобы не мешать выводу оболочки
	NoColor  bool
}

// OzzoLogger реализует ports.Logger поверх ozzo-log.
type OzzoLogger struct {
	root   *ozzo.Logger
	logger *ozzo.Logger
}

// NewOzzoLogger создает и открывает логгер с консольной и (опционально) файловой целью.
func NewOzzoLogger(opts Options) (*OzzoLogger, error) {
	level := ozzo.LevelInfo
	if opts.Debug {
		level = ozzo.LevelDebug
	}
	if opts.Category == "" {
		opts.Category = "recite"
	}

	root := ozzo.NewLogger()

	console := ozzo.NewConsoleTarget()
	console.MaxLevel = level
	console.ColorMode = !opts.NoColor
	console.Writer = opts.Console
	if console.Writer == nil {
		console.Writer = os.Stderr
	}
	root.Targets = append(root.Targets, console)

	if opts.FileName != "" {
		file := ozzo.NewFileTarget()
		file.FileName = opts.FileName
		file.MaxLevel = level
		root.Targets = append(root.Targets, file)
	}

	if err := root.Open(); err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	return &OzzoLogger{root: root, logger: root.GetLogger(opts.Category)}, nil
}

// NewDiscardLogger создает логгер без целей. Используется в тестах.
func NewDiscardLogger() *OzzoLogger {
	root := ozzo.NewLogger()
	root.Open()
	return &OzzoLogger{root: root, logger: root.GetLogger("test")}
}

// Debug выводит отладочную информацию.
func (l *OzzoLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug(msg, args...)
}

// Info выводит информационные сообщения.
func (l *OzzoLogger) Info(msg string, args ...interface{}) {
	l.logger.Info(msg, args...)
}

// Warn выводит предупреждения.
func (l *OzzoLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warning(msg, args...)
}

// Error выводит ошибки.
func (l *OzzoLogger) Error(msg string, args ...interface{}) {
	l.logger.Error(msg, args...)
}

// Fatal выводит критическую ошибку, сбрасывает цели и завершает программу.
func (l *OzzoLogger) Fatal(msg string, args ...interface{}) {
	l.logger.Emergency(msg, args...)
	l.root.Close()
	os.Exit(1)
}

// Category возвращает логгер с другой категорией и теми же целями.
func (l *OzzoLogger) Category(name string) ports.Logger {
	return &OzzoLogger{root: l.root, logger: l.root.GetLogger(name)}
}

// Close сбрасывает буферы и закрывает цели.
func (l *OzzoLogger) Close() {
	l.root.Close()
}
