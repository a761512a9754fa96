package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"agri_advisor/internal/domain"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionSaved  = "saved"
)

type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	routes   Routes
	logger   *slog.Logger
}

// Route binds one routing key to one durable queue.
type Route struct {
	RoutingKey string
	QueueName  string
}

type Routes struct {
	Content         Route
	Recommendations Route
}

type Config struct {
	URL      string
	Exchange string
	Routes   Routes
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	for _, route := range []Route{cfg.Routes.Content, cfg.Routes.Recommendations} {
		if err := bind(ch, cfg.Exchange, route); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"content_queue", cfg.Routes.Content.QueueName,
		"recommendation_queue", cfg.Routes.Recommendations.QueueName,
	)

	return &RabbitMQ{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		routes:   cfg.Routes,
		logger:   logger,
	}, nil
}

func bind(ch *amqp.Channel, exchange string, route Route) error {
	q, err := ch.QueueDeclare(
		route.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", route.QueueName, err)
	}

	if err := ch.QueueBind(q.Name, route.RoutingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", route.QueueName, err)
	}
	return nil
}

// ContentMessage announces a mirrored record that was created or changed.
type ContentMessage struct {
	EventID   string               `json:"event_id"`
	Action    string               `json:"action"`
	Kind      domain.ContentKind   `json:"kind"`
	Record    domain.ContentRecord `json:"record"`
	Timestamp time.Time            `json:"timestamp"`
}

// RecommendationMessage announces a recommendation saved to a user's history.
type RecommendationMessage struct {
	EventID   string                       `json:"event_id"`
	Action    string                       `json:"action"`
	ID        int64                        `json:"id"`
	UserEmail string                       `json:"user_email"`
	Request   domain.RecommendationRequest `json:"request"`
	Result    domain.RecommendationResult  `json:"result"`
	SavedAt   time.Time                    `json:"saved_at"`
	Timestamp time.Time                    `json:"timestamp"`
}

func (r *RabbitMQ) PublishContent(ctx context.Context, kind domain.ContentKind, record *domain.ContentRecord, isNew bool) error {
	action := ActionUpdate
	if isNew {
		action = ActionCreate
	}

	msg := ContentMessage{
		EventID:   uuid.NewString(),
		Action:    action,
		Kind:      kind,
		Record:    *record,
		Timestamp: time.Now().UTC(),
	}

	if err := r.publish(ctx, r.routes.Content.RoutingKey, msg); err != nil {
		return err
	}

	r.logger.Debug("published content",
		"kind", kind,
		"record_id", record.ID,
		"action", action,
	)
	return nil
}

func (r *RabbitMQ) PublishRecommendation(ctx context.Context, rec *domain.SavedRecommendation) error {
	msg := RecommendationMessage{
		EventID:   uuid.NewString(),
		Action:    ActionSaved,
		ID:        rec.ID,
		UserEmail: rec.UserEmail,
		Request:   rec.Request,
		Result:    rec.Result,
		SavedAt:   rec.SavedAt,
		Timestamp: time.Now().UTC(),
	}

	if err := r.publish(ctx, r.routes.Recommendations.RoutingKey, msg); err != nil {
		return err
	}

	r.logger.Debug("published recommendation", "id", rec.ID, "fertilizer", rec.Result.Fertilizer)
	return nil
}

func (r *RabbitMQ) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
