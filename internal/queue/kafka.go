// Package queue mirrors comment broadcast events to Kafka for external
// consumers (analytics, audit). Delivery is best-effort and never blocks or
// fails the write path; with no brokers configured the whole package no-ops.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the events topic with configured partitions (idempotent).
// Call at startup; if it fails (no broker, or topic exists), the app still runs.
func EnsureTopic(ctx context.Context) {
	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.Dial("tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

var (
	writer *kafka.Writer
	wOnce  sync.Once
)

// Producer returns the global Kafka writer for comment events, or nil when no
// brokers are configured.
func Producer(ctx context.Context) *kafka.Writer {
	wOnce.Do(func() {
		cfg := config.Get()
		if len(cfg.KafkaBrokers) == 0 {
			logger.Info(ctx, "Event firehose disabled (no Kafka brokers)")
			return
		}
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    100,
			BatchTimeout: 0,
			Async:        true,
			RequiredAcks: kafka.RequireOne,
		}
		logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	})
	return writer
}

// PublishCommentEvent mirrors one broadcast event, keyed by task token so one
// task's events stay on one partition. Failures are logged and swallowed.
func PublishCommentEvent(ctx context.Context, taskToken string, ev models.CommentEvent) {
	w := Producer(ctx)
	if w == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Debug(ctx, "Marshal comment event failed", "error", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(taskToken),
		Value: payload,
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Debug(ctx, "Kafka publish comment event failed", "error", err)
	}
}
