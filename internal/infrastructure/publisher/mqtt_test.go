package publisher

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recitetester/internal/domain/models"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

type message struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	mqtt.Client
	messages     []message
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.messages = append(c.messages, message{topic: topic, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = true
}

func TestPublishOutcome(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "lab/recite/")

	err := p.PublishOutcome(models.Outcome{
		Kind:    models.OutcomeVersionResult,
		Port:    "COM5",
		Version: &models.VersionInfo{Matched: true, Firmware: "0.3a"},
		Time:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, client.messages, 1)
	assert.Equal(t, "lab/recite/status", client.messages[0].topic)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &got))
	assert.Equal(t, "version_result", got["kind"])
	assert.Equal(t, "COM5", got["port"])
	assert.Equal(t, "0.3a", got["version"].(map[string]interface{})["firmware"])
	assert.NotContains(t, got, "error")
}

func TestPublishOutcomeWithError(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "")

	require.NoError(t, p.PublishOutcome(models.OutcomeFromError(models.ErrNoSensors)))
	assert.Equal(t, "recite/status", client.messages[0].topic)
	assert.True(t, strings.Contains(string(client.messages[0].payload), `"kind":"no_sensors"`))
	assert.True(t, strings.Contains(string(client.messages[0].payload), `"error":"no sensors"`))
}

func TestPublishReport(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "recite")

	temp := 81.5
	require.NoError(t, p.PublishReport(&models.CableReport{
		SensorCount: 1,
		Limit:       75,
		Rows:        []models.SensorRow{{Index: 1, Board: "3f 02 00 07 12 58 8f 28", SensorID: "02 00 07 12 58 8f", Temperature: &temp, Failed: true}},
		FailedCount: 1,
	}))
	require.Len(t, client.messages, 1)
	assert.Equal(t, "recite/report", client.messages[0].topic)
	assert.Contains(t, string(client.messages[0].payload), `"failedCount":1`)

	require.NoError(t, p.PublishReport(nil))
	assert.Len(t, client.messages, 1)
}

func TestPublishError(t *testing.T) {
	client := &fakeClient{err: errors.New("broker gone")}
	p := NewWithClient(client, "recite")
	assert.EqualError(t, p.PublishOutcome(models.Outcome{Kind: models.OutcomeConnected}), "broker gone")

	require.NoError(t, p.Close())
	assert.True(t, client.disconnected)
}

func TestNewMQTTRequiresServer(t *testing.T) {
	_, err := NewMQTT(Config{})
	assert.Error(t, err)
}

func TestDefaultClientID(t *testing.T) {
	assert.True(t, strings.HasPrefix(defaultClientID(), DefaultClientID))
}
