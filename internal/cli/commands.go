package cli

import (
	"errors"

	"github.com/abiosoft/ishell"

	"recitetester/internal/domain/models"
)

func commands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name:    "ports",
			Aliases: []string{"scan", "l"},
			Help:    "list serial ports",
			Func:    portsCmd,
		},
		{
			Name:    "connect",
			Aliases: []string{"c"},
			Help:    "[PORT] open serial port",
			Func:    connectCmd,
		},
		{
			Name: "status",
			Help: "show connection state",
			Func: statusCmd,
		},
		{
			Name:    "version",
			Aliases: []string{"v"},
			Help:    "check device firmware",
			Func:    MustBeConnected(versionCmd),
		},
		{
			Name:    "read",
			Aliases: []string{"r"},
			Help:    "read cable temperatures",
			Func:    MustBeConnected(readCmd),
		},
		{
			Name:    "test",
			Aliases: []string{"t"},
			Help:    "check firmware, then read cables",
			Func:    MustBeConnected(testCmd),
		},
		{
			Name:    "disconnect",
			Aliases: []string{"d"},
			Help:    "close serial port",
			Func:    disconnectCmd,
		},
	}
}

func portsCmd(c *ishell.Context) {
	s := ShellFrom(c)
	list, err := s.ports.ScanPorts()
	if err != nil {
		c.Err(err)
		return
	}
	if len(list) == 0 {
		c.Println("None")
		return
	}
	for _, p := range list {
		mark := " "
		if s.ports.IsConnected(p.Name) {
			mark = "*"
		}
		c.Printf("%s %s\n", mark, p)
	}
}

func connectCmd(c *ishell.Context) {
	s := ShellFrom(c)
	var port string
	if len(c.Args) > 0 {
		port = c.Args[0]
	} else {
		var err error
		if port, err = s.SelectPort(); err != nil {
			c.Err(err)
			return
		}
	}
	if s.ports.IsConnected(port) {
		c.Printf("Already connected to %s\n", port)
		return
	}
	report(c, s.Connect(port))
}

func statusCmd(c *ishell.Context) {
	s := ShellFrom(c)
	port := s.ports.CurrentPort()
	if port == "" || !s.ports.IsConnected(port) {
		c.Println("Not connected")
		return
	}
	c.Printf("Connected to %s\n", port)
}

func versionCmd(c *ishell.Context) {
	report(c, ShellFrom(c).CheckVersion())
}

func readCmd(c *ishell.Context) {
	o, r := ShellFrom(c).Read()
	if r == nil {
		report(c, o)
		return
	}
	c.Println(FormatReport(r))
}

func testCmd(c *ishell.Context) {
	s := ShellFrom(c)
	o := s.CheckVersion()
	report(c, o)
	if o.Kind != models.OutcomeVersionResult || o.Version == nil || !o.Version.Matched {
		return
	}
	readCmd(c)
}

func disconnectCmd(c *ishell.Context) {
	report(c, ShellFrom(c).Disconnect())
}

// report печатает исход: сбои через c.Err, остальное обычным текстом.
func report(c *ishell.Context, o models.Outcome) {
	if o.Kind.IsFault() {
		c.Err(errors.New(FormatOutcome(o)))
		return
	}
	c.Println(FormatOutcome(o))
}
