package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/observability"
	"github.com/noah-isme/praxis-api/internal/repository"
)

// NotificationEvent is one dispatch request handed to the gateway by the
// lifecycle operations.
type NotificationEvent struct {
	Type       string
	Recipients []uint
	Message    string
	Metadata   map[string]interface{}
}

// NotificationGateway accepts fire-and-forget dispatch requests. Notify never
// surfaces an error to the caller: downstream delivery is at-least-once and
// failures must not roll back the transition that triggered them.
type NotificationGateway interface {
	Notify(ctx context.Context, event NotificationEvent)
	List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
}

type notificationGateway struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	nodeID      string
}

type notificationEnvelope struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

// NewNotificationGateway constructs the gateway. Redis and NATS clients are
// optional; each configured transport gets a copy of every event.
func NewNotificationGateway(repo repository.NotificationRepository, redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) NotificationGateway {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationGateway{
		repo:        repo,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "notification_gateway").Logger(),
		nodeID:      uuid.NewString(),
	}
}

func (g *notificationGateway) Notify(ctx context.Context, event NotificationEvent) {
	if len(event.Recipients) == 0 {
		g.logger.Debug().Str("type", event.Type).Msg("no recipients resolved, dispatch skipped")
		return
	}

	message := strings.TrimSpace(g.sanitizer.Sanitize(event.Message))

	for _, recipient := range event.Recipients {
		model := models.Notification{
			UserID:   recipient,
			Type:     event.Type,
			Message:  message,
			Metadata: event.Metadata,
		}

		if err := g.repo.Create(ctx, &model); err != nil {
			g.logger.Warn().Err(err).Uint("user_id", recipient).Str("type", event.Type).
				Msg("failed to persist notification")
			continue
		}

		if err := g.publish(ctx, dto.NewNotificationResponse(model)); err != nil {
			g.logger.Warn().Err(err).Uint("notification_id", model.ID).
				Msg("failed to publish notification to broker")
		}

		observability.NotificationsPublished().WithLabelValues(event.Type).Inc()
	}
}

func (g *notificationGateway) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := g.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (g *notificationGateway) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	notification, err := g.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (g *notificationGateway) publish(ctx context.Context, notification dto.NotificationResponse) error {
	envelope := notificationEnvelope{
		Source:       g.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if g.redis != nil && g.redisStream != "" {
		if err := g.redis.Publish(ctx, g.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if g.nats != nil && g.natsSubject != "" {
		if err := g.nats.Publish(g.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}
