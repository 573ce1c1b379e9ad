package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(portEnv, "")
	cfg := DefaultConfig()

	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 40*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushDelay)
	assert.Equal(t, 75.0, cfg.TempLimit)
	assert.Empty(t, cfg.Port)
	assert.Empty(t, cfg.MQTT.Server)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigPortFromEnv(t *testing.T) {
	t.Setenv(portEnv, "/dev/ttyUSB1")
	assert.Equal(t, "/dev/ttyUSB1", DefaultConfig().Port)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv(portEnv, "")
	cfg, rest, err := Load([]string{
		"-port", "COM5",
		"-timeout", "5s",
		"-temp-limit", "60.5",
		"-debug",
		"read",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "COM5", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 60.5, cfg.TempLimit)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, []string{"read"}, rest)
}

func TestLoadFileThenFlags(t *testing.T) {
	t.Setenv(portEnv, "")
	path := writeFile(t, "recite.json", `{
		"port": "/dev/ttyACM0",
		"baud_rate": 57600,
		"timeout": "10s",
		"flush_delay": 250,
		"temp_limit": 70,
		"mqtt": {"server": "tcp://localhost:1883", "topic": "lab/recite"}
	}`)

	cfg, _, err := Load([]string{"-config", path, "-baud", "115200"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, 115200, cfg.BaudRate, "flag wins over file")
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.FlushDelay)
	assert.Equal(t, 70.0, cfg.TempLimit)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Server)
	assert.Equal(t, "lab/recite", cfg.MQTT.Topic)
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := Load([]string{"-config", filepath.Join(t.TempDir(), "none.json")}, io.Discard)
	assert.Error(t, err)
}

func TestLoadFileWrongType(t *testing.T) {
	path := writeFile(t, "recite.json", `{"baud_rate": "fast"}`)
	cfg := DefaultConfig()
	err := LoadFile(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baud_rate")
}

func TestLoadUnknownFlag(t *testing.T) {
	_, _, err := Load([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaudRate = 0
	cfg.Timeout = 0
	cfg.TempLimit = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baud rate")
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "temperature limit")

	cfg = DefaultConfig()
	cfg.MQTT.Username = "user"
	assert.Error(t, cfg.Validate())

	cfg.MQTT.Server = "tcp://broker:1883"
	assert.NoError(t, cfg.Validate())
}
