package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/authguard/config"
	"github.com/oksasatya/authguard/internal/domain"
	"github.com/oksasatya/authguard/internal/infrastructure/postgres"
	"github.com/oksasatya/authguard/internal/infrastructure/redisrepo"
	"github.com/oksasatya/authguard/pkg/helpers"
)

// The projector maintains the Redis session read model from the domain
// event stream: UserLoggedIn mirrors the session in, UserLoggedOut
// drops it. Delivery is at-least-once, and both operations are
// idempotent, so duplicates are harmless.

type envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type loggedIn struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type loggedOut struct {
	SessionID string `json:"session_id"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-projector", cfg.Env)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	sessions := postgres.NewSessionRepository(pool)

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	readModel := redisrepo.NewSessionReadRepository(rdb)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var env envelope
			if err := json.Unmarshal(msg.Body, &env); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := project(c, env, sessions, readModel)
			cancel()
			if err != nil {
				logger.WithError(err).WithField("event_type", env.EventType).Warn("projection failed")
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("projector listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func project(ctx context.Context, env envelope, sessions *postgres.SessionRepository, readModel *redisrepo.SessionReadRepository) error {
	switch env.EventType {
	case "UserLoggedIn":
		var data loggedIn
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return err
		}
		session, err := sessions.FindByID(ctx, data.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return nil
			}
			return err
		}
		return readModel.Store(ctx, session)
	case "UserLoggedOut":
		var data loggedOut
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return err
		}
		return readModel.Remove(ctx, data.SessionID)
	default:
		// UserCreated and anything newer belong to the audit sink.
		return nil
	}
}
