package ports

// Logger определяет интерфейс логирования приложения.
// Сообщения в формате fmt.Sprintf.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Fatal пишет сообщение и завершает процесс
	Fatal(msg string, args ...interface{})

	// Category возвращает логгер с той же конфигурацией и другой категорией
	Category(name string) Logger
}
