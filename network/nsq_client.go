package network

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/op/go-logging"
)

// ExportEvent tells downstream consumers that an export artifact is
// ready.
type ExportEvent struct {
	Identifier string    `json:"identifier"`
	ModelUID   string    `json:"model_uid"`
	ModelURL   string    `json:"model_url"`
	Title      string    `json:"title"`
	Format     string    `json:"format"`
	Artifact   string    `json:"artifact"`
	Records    int       `json:"records"`
	Failed     int       `json:"failed"`
	Uploaded   []string  `json:"uploaded,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// NSQNotifier publishes one ExportEvent per finished licence model to
// an nsqd topic.
type NSQNotifier struct {
	Topic    string
	producer *nsq.Producer
}

// NewNSQNotifier returns a notifier that publishes to the nsqd TCP
// address nsqdAddress (usually host:4150). Nothing connects until the
// first Publish.
func NewNSQNotifier(nsqdAddress, topic string, logger *logging.Logger) (*NSQNotifier, error) {
	config := nsq.NewConfig()
	config.Set("dial_timeout", "5s")
	config.Set("write_timeout", "5s")
	producer, err := nsq.NewProducer(nsqdAddress, config)
	if err != nil {
		return nil, fmt.Errorf("cannot create NSQ producer for %s: %w", nsqdAddress, err)
	}
	producer.SetLogger(nsqLogger{logger}, nsq.LogLevelInfo)
	return &NSQNotifier{
		Topic:    topic,
		producer: producer,
	}, nil
}

// Publish sends event to the notifier's topic.
func (n *NSQNotifier) Publish(event *ExportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.producer.Publish(n.Topic, body); err != nil {
		return fmt.Errorf("cannot publish export event for %s to topic %s: %w", event.Identifier, n.Topic, err)
	}
	return nil
}

// Stop closes the connection to nsqd.
func (n *NSQNotifier) Stop() {
	n.producer.Stop()
}

// nsqLogger routes go-nsq's internal messages into our debug log.
type nsqLogger struct {
	logger *logging.Logger
}

func (l nsqLogger) Output(calldepth int, s string) error {
	l.logger.Debug(s)
	return nil
}
