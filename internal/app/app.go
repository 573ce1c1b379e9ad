package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.bug.st/serial/enumerator"

	"recitetester/internal/cli"
	"recitetester/internal/config"
	"recitetester/internal/domain/models"
	"recitetester/internal/domain/ports"
	"recitetester/internal/infrastructure/device"
	"recitetester/internal/infrastructure/logger"
	"recitetester/internal/infrastructure/publisher"
	"recitetester/internal/service/connection"
	"recitetester/internal/service/evaluation"
	"recitetester/internal/service/worker"
	"recitetester/pkg/recite"
)

// SimulatedPort - имя порта в режиме симуляции.
const SimulatedPort = "SIM"

// App связывает сервисы приложения.
type App struct {
	Config     config.Config
	Logger     *logger.OzzoLogger
	Worker     *worker.Service
	Connection *connection.ConnectionService
	Evaluator  *evaluation.Service
	Publisher  ports.Publisher
	Shell      *cli.Shell

	log    ports.Logger
	cancel context.CancelFunc
}

// NewApp создает приложение. Без args оболочка работает интерактивно.
func NewApp(cfg config.Config, args []string) (*App, error) {
	// 1. Логгер
	root, err := logger.NewOzzoLogger(logger.Options{
		Category: "recite",
		FileName: cfg.LogFile,
		Debug:    cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Config: cfg, Logger: root, log: root}

	// 2. Транспорт и драйвер
	serialLog := root.Category("serial")
	trCfg := recite.Config{
		BaudRate:   cfg.BaudRate,
		Timeout:    cfg.Timeout,
		FlushDelay: cfg.FlushDelay,
		Logger: func(msg string) {
			serialLog.Debug("%s", msg)
		},
	}
	if cfg.FlushDelay == 0 {
		trCfg.FlushDelay = recite.NoFlushDelay
	}
	if cfg.Simulate {
		trCfg.Opener = recite.NewSimulator().Opener()
	}
	dev := device.NewReciteAdapter(recite.NewClient(recite.NewTransport(trCfg)))

	// 3. Сервисы
	a.Worker = worker.NewService(dev, root.Category("worker"))
	a.Connection = connection.NewConnectionService(dev, root.Category("ports"))
	if cfg.Simulate {
		a.Connection.WithListers(simulatedPorts, nil)
	}
	a.Evaluator = evaluation.NewService(cfg.TempLimit)

	// 4. Публикация результатов
	if cfg.MQTT.Server != "" {
		pub, err := publisher.NewMQTT(publisher.Config{
			Server:   cfg.MQTT.Server,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			// Без брокера приложение продолжает работать
			root.Warn("MQTT отключен: %v", err)
		} else {
			a.Publisher = pub
			root.Info("Публикация в MQTT %s, топик %s", cfg.MQTT.Server, cfg.MQTT.Topic)
		}
	}
	a.Worker.SetResultHandler(a.handleOutcome)

	// 5. Оболочка
	port := cfg.Port
	if cfg.Simulate && port == "" {
		port = SimulatedPort
	}
	a.Shell = cli.New(a.Worker, a.Connection, a.Evaluator, len(args) == 0).WithAutoConnect(port)

	return a, nil
}

// Run запускает worker и оболочку.
func (a *App) Run(ctx context.Context, args []string) error {
	ctx, a.cancel = context.WithCancel(ctx)
	a.Worker.Start(ctx)
	a.log.Info("Приложение запущено")
	return a.Shell.Run(args...)
}

// Close останавливает worker, закрывает порт и внешние подключения.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.Worker.Stop()
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.log.Warn("Ошибка отключения MQTT: %v", err)
		}
	}
	a.Shell.Close()
	a.log.Info("Приложение остановлено")
	a.Logger.Close()
}

// handleOutcome вызывается worker'ом после доставки каждого результата
func (a *App) handleOutcome(o models.Outcome) {
	a.log.Info("Результат %s (порт %q)", o.Kind, o.Port)
	if a.Publisher == nil {
		return
	}
	if err := a.Publisher.PublishOutcome(o); err != nil {
		a.log.Warn("Ошибка публикации статуса: %v", err)
	}
	if o.Kind == models.OutcomeCableValues {
		if err := a.Publisher.PublishReport(a.Evaluator.Evaluate(o.Cables)); err != nil {
			a.log.Warn("Ошибка публикации отчета: %v", err)
		}
	}
}

func simulatedPorts() ([]*enumerator.PortDetails, error) {
	return []*enumerator.PortDetails{{Name: SimulatedPort, Product: "Recite simulator"}}, nil
}

// Main - точка входа процесса.
func Main(argv []string) int {
	cfg, args, err := config.Load(argv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	a, err := NewApp(cfg, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer a.Close()

	if err := a.Run(context.Background(), args); err != nil {
		a.log.Error("%v", err)
		return 1
	}
	return 0
}
