package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"

	"github.com/autoshield/autoshield/pkg/domain/telemetry"
)

const ExporterName = "kafka"

// Config carries the exporter settings from the telemetry block.
// Brokers is a bootstrap server list in host:port[,host:port] form.
type Config struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

func parseConfig(settings map[string]interface{}) (Config, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return Config{}, fmt.Errorf("invalid kafka settings: %w", err)
	}
	if conf.Brokers == "" {
		return Config{}, errors.New("kafka brokers is required")
	}
	if conf.Topic == "" {
		return Config{}, errors.New("kafka topic is required")
	}
	return conf, nil
}

// Exporter publishes telemetry events to a Kafka topic, one JSON
// message per event.
type Exporter struct {
	cfg      Config
	producer *kafka.Producer
}

func NewKafkaExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(settings map[string]interface{}) error {
	_, err := parseConfig(settings)
	return err
}

func (e *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	conf, err := parseConfig(settings)
	if err != nil {
		return nil, err
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": conf.Brokers,
		"client.id":         "autoshield-telemetry",
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Exporter{cfg: conf, producer: producer}, nil
}

func (e *Exporter) Handle(ctx context.Context, evt telemetry.Event) error {
	if e.producer == nil {
		return errors.New("kafka exporter is not configured")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Buffered so the producer can report delivery even after a
	// context-cancelled bail-out below.
	delivery := make(chan kafka.Event, 1)
	err = e.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &e.cfg.Topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, delivery)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case ev := <-delivery:
		msg, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event type %T", ev)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", msg.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exporter) Close() {
	if e.producer != nil {
		e.producer.Flush(5000)
		e.producer.Close()
	}
}
