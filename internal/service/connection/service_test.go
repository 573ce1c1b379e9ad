package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"

	"recitetester/internal/domain/models"
	"recitetester/internal/infrastructure/logger"
)

type stubDevice struct {
	port string
}

func (d *stubDevice) Open(port string) error       { d.port = port; return nil }
func (d *stubDevice) Close() error                 { d.port = ""; return nil }
func (d *stubDevice) IsConnected(port string) bool { return d.port != "" && d.port == port }
func (d *stubDevice) PortName() string             { return d.port }
func (d *stubDevice) CheckVersion(context.Context) (*models.VersionInfo, error) {
	return nil, errors.New("not used")
}
func (d *stubDevice) ReadCables(context.Context) (*models.CableValues, error) {
	return nil, errors.New("not used")
}

func TestScanPortsDetailed(t *testing.T) {
	s := NewConnectionService(&stubDevice{}, logger.NewDiscardLogger()).WithListers(
		func() ([]*enumerator.PortDetails, error) {
			return []*enumerator.PortDetails{
				{Name: "/dev/ttyUSB1", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R"},
				{Name: "/dev/ttyS0"},
			}, nil
		}, nil)

	got, err := s.ScanPorts()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/dev/ttyS0", got[0].Name)
	assert.Equal(t, "/dev/ttyUSB1 - FT232R (0403:6001)", got[1].String())
}

func TestScanPortsFallsBackToNames(t *testing.T) {
	s := NewConnectionService(&stubDevice{}, logger.NewDiscardLogger()).WithListers(
		func() ([]*enumerator.PortDetails, error) { return nil, errors.New("no udev") },
		func() ([]string, error) { return []string{"COM7", "COM3"}, nil },
	)

	got, err := s.ScanPorts()
	require.NoError(t, err)
	assert.Equal(t, []models.PortInfo{{Name: "COM3"}, {Name: "COM7"}}, got)
}

func TestScanPortsError(t *testing.T) {
	s := NewConnectionService(&stubDevice{}, logger.NewDiscardLogger()).WithListers(
		func() ([]*enumerator.PortDetails, error) { return nil, errors.New("no udev") },
		func() ([]string, error) { return nil, errors.New("no ports") },
	)

	_, err := s.ScanPorts()
	assert.Error(t, err)
}

func TestIsConnected(t *testing.T) {
	dev := &stubDevice{}
	s := NewConnectionService(dev, logger.NewDiscardLogger())
	assert.False(t, s.IsConnected("COM5"))
	assert.Empty(t, s.CurrentPort())

	require.NoError(t, dev.Open("COM5"))
	assert.True(t, s.IsConnected("COM5"))
	assert.False(t, s.IsConnected("COM6"))
	assert.Equal(t, "COM5", s.CurrentPort())
}
