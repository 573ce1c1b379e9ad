package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"recitetester/internal/domain/models"
	"recitetester/internal/domain/ports"
)

// QueueSize - глубина очереди запросов. При заполнении отправка блокируется.
const QueueSize = 16

// ErrStopped возвращается (обёрнутой в ErrPortUnavailable) для запросов после Stop.
var ErrStopped = errors.New("worker: stopped")

type requestKind int

const (
	requestConnect requestKind = iota
	requestCheckVersion
	requestReadCables
	requestDisconnect
)

func (k requestKind) String() string {
	switch k {
	case requestConnect:
		return "connect"
	case requestCheckVersion:
		return "version"
	case requestReadCables:
		return "read"
	case requestDisconnect:
		return "disconnect"
	}
	return "unknown"
}

type request struct {
	kind   requestKind
	port   string
	result chan models.Outcome
}

// Service выполняет операции устройства в одной выделенной горутине,
// строго по одной и в порядке поступления. Результат каждой операции
// приходит в отдельный канал, вызывающий не блокируется на обмене с портом.
type Service struct {
	device ports.Device
	logger ports.Logger

	queue chan request
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once

	mu      sync.RWMutex
	stopped bool
	started bool
	handler func(models.Outcome)
}

// NewService создает worker поверх устройства. Горутина запускается в Start.
func NewService(device ports.Device, logger ports.Logger) *Service {
	return &Service{
		device: device,
		logger: logger,
		queue:  make(chan request, QueueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// SetResultHandler задает обработчик, вызываемый после доставки каждого результата.
func (s *Service) SetResultHandler(fn func(models.Outcome)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

// Start запускает горутину обработки. Отмена ctx равносильна Stop.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.loop(ctx)
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.quit:
		}
	}()
	s.logger.Info("Worker запущен")
}

// Stop перестает принимать запросы, дожидается текущей операции и закрывает порт.
// Запросы, оставшиеся в очереди, завершаются PortUnavailable.
func (s *Service) Stop() {
	s.once.Do(func() {
		close(s.quit)

		// Ждем отправителей, заблокированных на полной очереди
		s.mu.Lock()
		s.stopped = true
		started := s.started
		s.mu.Unlock()

		if started {
			<-s.done
		}

		for {
			select {
			case req := <-s.queue:
				s.deliver(req, stoppedOutcome(req.port))
			default:
				if err := s.device.Close(); err != nil {
					s.logger.Warn("Ошибка закрытия порта: %v", err)
				}
				s.logger.Info("Worker остановлен")
				return
			}
		}
	})
}

// Connect открывает порт.
func (s *Service) Connect(port string) <-chan models.Outcome {
	return s.submit(requestConnect, port)
}

// CheckVersion проверяет прошивку устройства.
func (s *Service) CheckVersion() <-chan models.Outcome {
	return s.submit(requestCheckVersion, "")
}

// ReadCables опрашивает датчики.
func (s *Service) ReadCables() <-chan models.Outcome {
	return s.submit(requestReadCables, "")
}

// Disconnect закрывает порт.
func (s *Service) Disconnect() <-chan models.Outcome {
	return s.submit(requestDisconnect, "")
}

func (s *Service) submit(kind requestKind, port string) <-chan models.Outcome {
	req := request{kind: kind, port: port, result: make(chan models.Outcome, 1)}

	// RLock удерживается на время отправки, чтобы Stop не разобрал очередь раньше
	s.mu.RLock()
	accepted := false
	if !s.stopped {
		select {
		case s.queue <- req:
			accepted = true
		case <-s.quit:
		}
	}
	s.mu.RUnlock()

	if !accepted {
		s.deliver(req, stoppedOutcome(port))
	}
	return req.result
}

func (s *Service) loop(ctx context.Context) {
	defer close(s.done)
	for {
		// quit проверяется только между операциями: текущий обмен не прерывается
		select {
		case <-s.quit:
			return
		default:
		}

		select {
		case <-s.quit:
			return
		case req := <-s.queue:
			s.deliver(req, s.execute(ctx, req))
		}
	}
}

func (s *Service) execute(ctx context.Context, req request) models.Outcome {
	start := time.Now()
	var o models.Outcome

	switch req.kind {
	case requestConnect:
		if err := s.device.Open(req.port); err != nil {
			o = models.OutcomeFromError(err)
		} else {
			o = models.Outcome{Kind: models.OutcomeConnected}
		}
		o.Port = req.port

	case requestCheckVersion:
		ver, err := s.device.CheckVersion(ctx)
		if err != nil {
			o = models.OutcomeFromError(err)
		} else {
			o = models.Outcome{Kind: models.OutcomeVersionResult, Version: ver}
		}

	case requestReadCables:
		cables, err := s.device.ReadCables(ctx)
		if err != nil {
			o = models.OutcomeFromError(err)
		} else {
			o = models.Outcome{Kind: models.OutcomeCableValues, Cables: cables}
		}

	case requestDisconnect:
		o = models.Outcome{Kind: models.OutcomeDisconnected, Port: s.device.PortName()}
		if err := s.device.Close(); err != nil {
			s.logger.Warn("Ошибка закрытия порта: %v", err)
		}

	default:
		o = models.OutcomeFromError(fmt.Errorf("%w: unknown request %d", models.ErrSerial, req.kind))
	}

	if o.Port == "" {
		o.Port = s.device.PortName()
	}
	o.Time = time.Now()

	if o.Kind.IsFault() {
		s.logger.Warn("%s: %s (%v) за %s", req.kind, o.Kind, o.Err, time.Since(start).Round(time.Millisecond))
	} else {
		s.logger.Debug("%s: %s за %s", req.kind, o.Kind, time.Since(start).Round(time.Millisecond))
	}
	return o
}

// deliver отдает результат в канал запроса, затем вызывает обработчик.
func (s *Service) deliver(req request, o models.Outcome) {
	req.result <- o
	close(req.result)

	if h := s.resultHandler(); h != nil {
		h(o)
	}
}

func (s *Service) resultHandler() func(models.Outcome) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

func stoppedOutcome(port string) models.Outcome {
	o := models.OutcomeFromError(fmt.Errorf("%w: %w", models.ErrPortUnavailable, ErrStopped))
	o.Port = port
	return o
}
