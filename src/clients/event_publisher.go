package clients

import (
	"encoding/json"
	"fmt"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/models"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// amqpChannel is the part of *amqp.Channel the publisher needs.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventPublisher publishes session lifecycle events to RabbitMQ
type EventPublisher struct {
	channel amqpChannel
	cfg     *config.RabbitMQConfig
}

func NewEventPublisher(cfg *config.RabbitMQConfig, channel *amqp.Channel) *EventPublisher {
	return &EventPublisher{
		channel: channel,
		cfg:     cfg,
	}
}

// PublishSessionEvent publishes the event as a JSON message
func (p *EventPublisher) PublishSessionEvent(event *models.SessionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	routingKey := p.cfg.RoutingKey + "." + event.Action
	err = p.channel.Publish(
		p.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to publish session event")
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     event.UserID,
		"session_id":  event.SessionID,
		"action":      event.Action,
		"exchange":    p.cfg.Exchange,
		"routing_key": routingKey,
	}).Debug("Session event published")

	return nil
}

// NoopPublisher drops events. Used when the queue is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSessionEvent(event *models.SessionEvent) error {
	logrus.WithFields(logrus.Fields{
		"session_id": event.SessionID,
		"action":     event.Action,
	}).Debug("Event publishing disabled, dropping session event")
	return nil
}
