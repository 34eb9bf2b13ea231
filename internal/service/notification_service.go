package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// NotificationService turns domain events into per-user notifications.
// Each notification is stored and additionally published on the
// recipient's redis channel for live clients. Internal notes never
// notify the requester.
type NotificationService struct {
	notifications repository.NotificationRepository
	redisClient   *redis.Client
	logger        *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(notifications repository.NotificationRepository, redisClient *redis.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		redisClient:   redisClient,
		logger:        logger,
	}
}

// RegisterHandlers subscribes the service to the dispatcher.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketAssigned, s.onTicketAssigned)
	dispatcher.Subscribe(events.EventTicketStatusSet, s.onStatusChanged)
	dispatcher.Subscribe(events.EventCommentAdded, s.onCommentAdded)
	dispatcher.Subscribe(events.EventTicketTransferred, s.onTicketTransferred)
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	list, err := s.notifications.ListByRecipient(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MarkRead flags one notification as read for its recipient.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return apperrors.MapError(s.notifications.MarkRead(ctx, notificationID, userID))
}

func (s *NotificationService) onTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	if payload.AssigneeID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: payload.AssigneeID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationTicketAssigned,
			Title:       "Ticket assigned to you",
			Body:        fmt.Sprintf("Ticket %s was assigned to you", event.TicketID),
		})
	}
	if payload.RequesterID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: payload.RequesterID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationTicketAssigned,
			Title:       "Your ticket was assigned",
			Body:        "An agent was assigned to your ticket",
		})
	}
	return nil
}

func (s *NotificationService) onStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("Status changed from %s to %s", payload.OldStatus, payload.NewStatus)
	if payload.RequesterID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: payload.RequesterID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationStatusChanged,
			Title:       "Ticket status updated",
			Body:        body,
		})
	}
	if payload.AssigneeID != nil && *payload.AssigneeID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: *payload.AssigneeID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationStatusChanged,
			Title:       "Assigned ticket status updated",
			Body:        body,
		})
	}
	return nil
}

func (s *NotificationService) onCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	if payload.Kind == domain.CommentKindSystemEvent {
		return nil
	}
	// Requester only hears about the public thread.
	if payload.Kind == domain.CommentKindPublicReply && payload.RequesterID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: payload.RequesterID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationCommentAdded,
			Title:       "New reply on your ticket",
			Body:        payload.BodyPreview,
		})
	}
	if payload.AssigneeID != nil && *payload.AssigneeID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: *payload.AssigneeID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationCommentAdded,
			Title:       "New comment on assigned ticket",
			Body:        payload.BodyPreview,
		})
	}
	return nil
}

func (s *NotificationService) onTicketTransferred(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketTransferredPayload)
	if !ok {
		return nil
	}
	if payload.RequesterID != event.ActorID {
		s.deliver(ctx, &domain.Notification{
			RecipientID: payload.RequesterID,
			TicketID:    event.TicketID,
			Type:        domain.NotificationTicketTransferred,
			Title:       "Your ticket was moved",
			Body:        "Your ticket was transferred to another department",
		})
	}
	return nil
}

// deliver stores the notification and pushes it to the live channel.
// Both steps are best effort; a failed delivery never fails the
// originating operation.
func (s *NotificationService) deliver(ctx context.Context, n *domain.Notification) {
	if err := s.notifications.Create(ctx, n); err != nil {
		if s.logger != nil {
			s.logger.Warn("notification persist failed",
				zap.String("recipient_id", n.RecipientID), zap.Error(err))
		}
		return
	}
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	channel := "notify:" + n.RecipientID
	if err := s.redisClient.Publish(ctx, channel, raw).Err(); err != nil && s.logger != nil {
		s.logger.Debug("live notification publish failed",
			zap.String("channel", channel), zap.Error(err))
	}
}
