package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recitetester/internal/domain/models"
	"recitetester/internal/service/evaluation"
)

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		o    models.Outcome
		want string
	}{
		{models.Outcome{Kind: models.OutcomeConnected, Port: "COM5"}, "Connected to COM5"},
		{models.Outcome{Kind: models.OutcomeDisconnected}, "Disconnected"},
		{models.Outcome{Kind: models.OutcomeVersionResult, Version: &models.VersionInfo{Matched: true, Firmware: "0.3a"}}, "Firmware OK: 0.3a"},
		{models.Outcome{Kind: models.OutcomeNoSensors}, "No sensors connected"},
		{models.Outcome{Kind: models.OutcomeNoTemperatures}, "No temperatures received"},
		{models.Outcome{Kind: models.OutcomePortUnavailable, Err: errors.New("busy")}, "Port unavailable (busy)"},
		{models.Outcome{Kind: models.OutcomeCableValues, Cables: &models.CableValues{
			Boards: []string{"a", "b"}, SensorCount: 2, Temperatures: map[string]float64{"x": 1},
		}}, "2 boards, 2 sensors, 1 temperatures"},
	}
	for _, tt := range tests {
		t.Run(tt.o.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOutcome(tt.o))
		})
	}

	unmatched := FormatOutcome(models.Outcome{Kind: models.OutcomeVersionResult, Version: &models.VersionInfo{}})
	assert.Contains(t, unmatched, "unsupported firmware")
}

func TestFormatReport(t *testing.T) {
	r := evaluation.NewService(75).Evaluate(&models.CableValues{
		Boards:      []string{"06 00 00 09 a9 a0 c0 28", "3f 02 00 07 12 58 8f 28", "3f 04 00 07 12 58 8f 28"},
		SensorCount: 3,
		Temperatures: map[string]float64{
			"00 00 09 a9 a0 c0": 21.3,
			"02 00 07 12 58 8f": 81.5,
		},
	})

	out := FormatReport(r)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "21.3 °C")
	assert.Contains(t, lines[2], "FAILED 81.5 °C")
	assert.Contains(t, lines[3], "no reading")
	assert.Contains(t, lines[4], "failed: 1, missing: 1")
	assert.True(t, strings.HasSuffix(lines[4], "FAIL"))
}

type stubPorts struct {
	list []models.PortInfo
	err  error
}

func (p *stubPorts) ScanPorts() ([]models.PortInfo, error) { return p.list, p.err }
func (p *stubPorts) IsConnected(string) bool               { return false }
func (p *stubPorts) CurrentPort() string                   { return "" }

func TestSelectPortNonInteractive(t *testing.T) {
	s := &Shell{ports: &stubPorts{list: []models.PortInfo{{Name: "/dev/ttyUSB0"}}}}
	port, err := s.SelectPort()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", port)

	s.ports = &stubPorts{list: []models.PortInfo{{Name: "COM3"}, {Name: "COM5"}}}
	_, err = s.SelectPort()
	assert.Error(t, err)

	s.ports = &stubPorts{}
	_, err = s.SelectPort()
	assert.Error(t, err)
}

type stubOps struct {
	read models.Outcome
}

func resolved(o models.Outcome) <-chan models.Outcome {
	ch := make(chan models.Outcome, 1)
	ch <- o
	close(ch)
	return ch
}

func (o *stubOps) Connect(port string) <-chan models.Outcome {
	return resolved(models.Outcome{Kind: models.OutcomeConnected, Port: port})
}
func (o *stubOps) CheckVersion() <-chan models.Outcome {
	return resolved(models.Outcome{Kind: models.OutcomeVersionResult, Version: &models.VersionInfo{Matched: true}})
}
func (o *stubOps) ReadCables() <-chan models.Outcome { return resolved(o.read) }
func (o *stubOps) Disconnect() <-chan models.Outcome {
	return resolved(models.Outcome{Kind: models.OutcomeDisconnected})
}

func TestShellRead(t *testing.T) {
	ops := &stubOps{read: models.Outcome{Kind: models.OutcomeCableValues, Cables: &models.CableValues{
		Boards:       []string{"3f 00 00 07 12 58 8f 28"},
		SensorCount:  1,
		Temperatures: map[string]float64{"00 00 07 12 58 8f": 30},
	}}}
	s := &Shell{ops: ops, evaluator: evaluation.NewService(75)}

	o, r := s.Read()
	assert.Equal(t, models.OutcomeCableValues, o.Kind)
	require.NotNil(t, r)
	assert.True(t, r.Passed())

	ops.read = models.Outcome{Kind: models.OutcomeNoSensors}
	o, r = s.Read()
	assert.Equal(t, models.OutcomeNoSensors, o.Kind)
	assert.Nil(t, r)
}
