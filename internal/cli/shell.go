package cli

import (
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"

	"recitetester/internal/domain/models"
)

// Operations - запросы к устройству, выполняемые worker'ом.
type Operations interface {
	Connect(port string) <-chan models.Outcome
	CheckVersion() <-chan models.Outcome
	ReadCables() <-chan models.Outcome
	Disconnect() <-chan models.Outcome
}

// Ports - перечисление портов и состояние подключения.
type Ports interface {
	ScanPorts() ([]models.PortInfo, error)
	IsConnected(port string) bool
	CurrentPort() string
}

// Evaluator строит отчет по показаниям.
type Evaluator interface {
	Evaluate(values *models.CableValues) *models.CableReport
}

// Shell - интерактивная оболочка на ishell.
type Shell struct {
	Interactive bool
	AutoConnect string

	Shell     *ishell.Shell
	ops       Operations
	ports     Ports
	evaluator Evaluator
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var errNotConnected = errors.New("not connected")

// New создает оболочку. Interactive=false запрещает вопросы пользователю.
func New(ops Operations, ports Ports, evaluator Evaluator, interactive bool) *Shell {
	s := &Shell{
		Interactive: interactive,
		Shell:       ishell.New(),
		ops:         ops,
		ports:       ports,
		evaluator:   evaluator,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands() {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// WithAutoConnect задает порт, открываемый перед выполнением команд.
func (s *Shell) WithAutoConnect(port string) *Shell {
	s.AutoConnect = port
	return s
}

// ShellFrom достает Shell из контекста ishell.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected оборачивает команду, которой нужен открытый порт.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		s := ShellFrom(c)
		if !s.ports.IsConnected(s.ports.CurrentPort()) {
			c.Err(errNotConnected)
			return
		}
		fn(c)
	}
}

// Connect открывает порт и обновляет приглашение.
func (s *Shell) Connect(port string) models.Outcome {
	o := <-s.ops.Connect(port)
	s.updatePrompt()
	return o
}

// Disconnect закрывает порт.
func (s *Shell) Disconnect() models.Outcome {
	o := <-s.ops.Disconnect()
	s.updatePrompt()
	return o
}

// CheckVersion проверяет прошивку.
func (s *Shell) CheckVersion() models.Outcome {
	return <-s.ops.CheckVersion()
}

// Read опрашивает датчики и, при успехе, строит отчет.
func (s *Shell) Read() (models.Outcome, *models.CableReport) {
	o := <-s.ops.ReadCables()
	if o.Kind != models.OutcomeCableValues {
		return o, nil
	}
	return o, s.evaluator.Evaluate(o.Cables)
}

// SelectPort перечисляет порты и при необходимости спрашивает пользователя.
func (s *Shell) SelectPort() (string, error) {
	list, err := s.ports.ScanPorts()
	if err != nil {
		return "", err
	}
	switch len(list) {
	case 0:
		return "", errors.New("no serial ports found")
	case 1:
		return list[0].Name, nil
	}
	if !s.Interactive {
		return "", fmt.Errorf("%d ports found, specify one in non-interactive mode", len(list))
	}
	items := make([]string, len(list))
	for n, p := range list {
		items[n] = p.String()
	}
	index := s.Shell.MultiChoice(items, "Which port to connect?")
	if index < 0 {
		return "", errors.New("no port selected")
	}
	return list[index].Name, nil
}

func (s *Shell) updatePrompt() {
	if port := s.ports.CurrentPort(); port != "" && s.ports.IsConnected(port) {
		s.Shell.SetPrompt(fmt.Sprintf("%s > ", port))
		return
	}
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run выполняет одну команду из args или запускает интерактивный режим.
func (s *Shell) Run(args ...string) error {
	if s.AutoConnect != "" {
		o := s.Connect(s.AutoConnect)
		if o.Kind != models.OutcomeConnected {
			err := fmt.Errorf("connect %q: %s", s.AutoConnect, FormatOutcome(o))
			if !s.Interactive {
				return err
			}
			// В интерактивном режиме порт можно выбрать командой connect
			s.Shell.Println(err)
		}
	}

	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if s.Interactive {
		s.Shell.Println("Recite cable tester. Type 'help' for commands.")
		s.Shell.Run()
		return nil
	}
	return errors.New("command expected")
}

// Close освобождает терминал.
func (s *Shell) Close() {
	s.Shell.Close()
}
