package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	ozzo "github.com/go-ozzo/ozzo-config"
)

// MQTTConfig - параметры публикации результатов. Пустой Server отключает публикацию.
type MQTTConfig struct {
	Server   string `json:"server"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Config - полная конфигурация приложения.
type Config struct {
	Port       string        `json:"port"`
	BaudRate   int           `json:"baud_rate"`
	Timeout    time.Duration `json:"timeout"`
	FlushDelay time.Duration `json:"flush_delay"`
	TempLimit  float64       `json:"temp_limit"`
	LogFile    string        `json:"log_file"`
	Debug      bool          `json:"debug"`
	Simulate   bool          `json:"simulate"`
	MQTT       MQTTConfig    `json:"mqtt"`
}

const (
	DefaultBaudRate   = 115200
	DefaultTimeout    = 40 * time.Second
	DefaultFlushDelay = 500 * time.Millisecond
	DefaultTempLimit  = 75.0
	DefaultMQTTTopic  = "recite"

	portEnv = "RECITE_PORT"
)

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Port:       os.Getenv(portEnv),
		BaudRate:   DefaultBaudRate,
		Timeout:    DefaultTimeout,
		FlushDelay: DefaultFlushDelay,
		TempLimit:  DefaultTempLimit,
		MQTT:       MQTTConfig{Topic: DefaultMQTTTopic},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем файл (-config), затем флаги.
// Возвращает оставшиеся аргументы (команда оболочки).
func Load(args []string, output io.Writer) (Config, []string, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("recite", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	cfgPath := fs.String("config", "", "Path to config file (.json, .yaml, .toml)")
	port := fs.String("port", "", "Serial port (e.g. COM5 or /dev/ttyUSB0), env "+portEnv)
	baud := fs.Int("baud", -1, "Baud rate")
	timeout := fs.Duration("timeout", -1, "Read timeout (e.g. 40s)")
	flushDelay := fs.Duration("flush-delay", -1, "Delay before discarding stale input")
	limit := fs.Float64("temp-limit", math.NaN(), "Failure threshold, °C")
	logFile := fs.String("log-file", "", "Log file path")
	debug := fs.Bool("debug", false, "Debug logging (serial traffic)")
	simulate := fs.Bool("simulate", false, "Use the built-in device simulator instead of a serial port")
	mqttServer := fs.String("mqtt-server", "", "MQTT server (tcp://host:port)")
	mqttClientID := fs.String("mqtt-client-id", "", "MQTT client id")
	mqttTopic := fs.String("mqtt-topic", "", "MQTT topic base")
	mqttUser := fs.String("mqtt-user", "", "MQTT username")
	mqttPass := fs.String("mqtt-pass", "", "MQTT password")

	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	if *cfgPath != "" {
		if err := LoadFile(*cfgPath, &cfg); err != nil {
			return cfg, nil, err
		}
	}

	if *port != "" {
		cfg.Port = *port
	}
	if *baud != -1 {
		cfg.BaudRate = *baud
	}
	if *timeout != -1 {
		cfg.Timeout = *timeout
	}
	if *flushDelay != -1 {
		cfg.FlushDelay = *flushDelay
	}
	if !math.IsNaN(*limit) {
		cfg.TempLimit = *limit
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *debug {
		cfg.Debug = true
	}
	if *simulate {
		cfg.Simulate = true
	}
	if *mqttServer != "" {
		cfg.MQTT.Server = *mqttServer
	}
	if *mqttClientID != "" {
		cfg.MQTT.ClientID = *mqttClientID
	}
	if *mqttTopic != "" {
		cfg.MQTT.Topic = *mqttTopic
	}
	if *mqttUser != "" {
		cfg.MQTT.Username = *mqttUser
	}
	if *mqttPass != "" {
		cfg.MQTT.Password = *mqttPass
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, fs.Args(), nil
}

// LoadFile накладывает значения из файла поверх cfg. Отсутствующие ключи не меняют cfg.
func LoadFile(path string, cfg *Config) error {
	c := ozzo.New()
	if err := c.Load(path); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var err error
	set := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	set(getString(c, "port", &cfg.Port))
	set(getInt(c, "baud_rate", &cfg.BaudRate))
	set(getDuration(c, "timeout", &cfg.Timeout))
	set(getDuration(c, "flush_delay", &cfg.FlushDelay))
	set(getFloat(c, "temp_limit", &cfg.TempLimit))
	set(getString(c, "log_file", &cfg.LogFile))
	set(getBool(c, "debug", &cfg.Debug))
	set(getBool(c, "simulate", &cfg.Simulate))
	set(getString(c, "mqtt.server", &cfg.MQTT.Server))
	set(getString(c, "mqtt.client_id", &cfg.MQTT.ClientID))
	set(getString(c, "mqtt.topic", &cfg.MQTT.Topic))
	set(getString(c, "mqtt.username", &cfg.MQTT.Username))
	set(getString(c, "mqtt.password", &cfg.MQTT.Password))

	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate проверяет значения конфигурации.
func (c Config) Validate() error {
	var errs []error
	if c.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("baud rate must be positive, got %d", c.BaudRate))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.FlushDelay < 0 {
		errs = append(errs, fmt.Errorf("flush delay must not be negative, got %s", c.FlushDelay))
	}
	if c.TempLimit <= 0 {
		errs = append(errs, fmt.Errorf("temperature limit must be positive, got %g", c.TempLimit))
	}
	if c.MQTT.Server == "" && (c.MQTT.Username != "" || c.MQTT.ClientID != "") {
		errs = append(errs, errors.New("mqtt server is required when mqtt credentials are set"))
	}
	return errors.Join(errs...)
}
