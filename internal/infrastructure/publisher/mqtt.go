package publisher

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"recitetester/internal/domain/models"
	"recitetester/internal/domain/ports"
)

const (
	DefaultTopic    = "recite"
	DefaultClientID = "recite-tester"

	statusSuffix = "/status"
	reportSuffix = "/report"

	publishTimeout = 5 * time.Second
	disconnectWait = 250 // мс
)

// Config - параметры подключения к брокеру.
type Config struct {
	Server   string
	ClientID string
	Topic    string
	Username string
	Password string
}

// MQTTPublisher публикует исходы операций и отчеты по кабелям в JSON.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// statusPayload - сообщение в <topic>/status
type statusPayload struct {
	Kind    string              `json:"kind"`
	Port    string              `json:"port,omitempty"`
	Version *models.VersionInfo `json:"version,omitempty"`
	Cables  *models.CableValues `json:"cables,omitempty"`
	Error   string              `json:"error,omitempty"`
	Time    time.Time           `json:"time"`
}

// NewMQTT подключается к брокеру. Без ClientID используется идентификатор машины.
func NewMQTT(cfg Config) (*MQTTPublisher, error) {
	if cfg.Server == "" {
		return nil, errors.New("mqtt: server is not set")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Server).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(publishTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return NewWithClient(client, cfg.Topic), nil
}

// NewWithClient оборачивает уже созданный клиент
func NewWithClient(client mqtt.Client, topic string) *MQTTPublisher {
	topic = strings.TrimSuffix(topic, "/")
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{client: client, topic: topic}
}

// PublishOutcome отправляет исход операции в <topic>/status
func (m *MQTTPublisher) PublishOutcome(o models.Outcome) error {
	b, err := json.Marshal(newStatusPayload(o))
	if err != nil {
		return err
	}
	return m.publish(m.topic+statusSuffix, b)
}

// PublishReport отправляет отчет по кабелю в <topic>/report
func (m *MQTTPublisher) PublishReport(r *models.CableReport) error {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return m.publish(m.topic+reportSuffix, b)
}

// Close отключается от брокера
func (m *MQTTPublisher) Close() error {
	if m.client != nil {
		m.client.Disconnect(disconnectWait)
	}
	return nil
}

func (m *MQTTPublisher) publish(topic string, payload []byte) error {
	if m.client == nil {
		return fmt.Errorf("mqtt client not connected")
	}
	token := m.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish %s: timeout", topic)
	}
	return token.Error()
}

func newStatusPayload(o models.Outcome) statusPayload {
	p := statusPayload{
		Kind:    o.Kind.String(),
		Port:    o.Port,
		Version: o.Version,
		Cables:  o.Cables,
		Time:    o.Time,
	}
	if o.Err != nil {
		p.Error = o.Err.Error()
	}
	return p
}

// defaultClientID строит стабильный идентификатор клиента из machine-id
func defaultClientID() string {
	id, err := machineid.ProtectedID(DefaultClientID)
	if err != nil || id == "" {
		return DefaultClientID
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return DefaultClientID + "-" + id
}

var _ ports.Publisher = (*MQTTPublisher)(nil)
