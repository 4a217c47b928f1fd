package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"ms-directory/internal/logger"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent announces a committed change to a venue, artist or show.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   int64     `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewChangeEvent(entity, action string, entityID int64, name string, at time.Time) ChangeEvent {
	entity = strings.ToLower(entity)
	return ChangeEvent{
		ID:         uuid.NewString(),
		Type:       entity + "." + action,
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		Name:       name,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers change events after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer      messageWriter
	topicPrefix string
	logger      *logger.Logger
}

// NewProducer writes to <topicPrefix>.<entity>.<action> topics on brokers.
func NewProducer(brokers []string, topicPrefix string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newProducer(writer, topicPrefix, log)
}

func newProducer(writer messageWriter, topicPrefix string, log *logger.Logger) *Producer {
	return &Producer{writer: writer, topicPrefix: topicPrefix, logger: log}
}

// Topic returns the topic an event of the given type is written to.
func (p *Producer) Topic(eventType string) string {
	return Topic(p.topicPrefix, eventType)
}

func Topic(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// Publish streams the event keyed by entity id, so events about one record
// stay ordered on a single partition.
func (p *Producer) Publish(ctx context.Context, event ChangeEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	topic := p.Topic(event.Type)
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.Entity + ":" + strconv.FormatInt(event.EntityID, 10)),
		Value: msgBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	if p.logger != nil {
		p.logger.LogKafka("PUBLISH", topic, fmt.Sprintf("%s %d", event.Entity, event.EntityID))
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
