package services

import (
	"context"
	"fmt"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
)

type NotificationService struct {
	notifRepo *repositories.NotificationRepo
	appRepo   *repositories.ApplicationRepo
	publisher events.Publisher
	log       *zap.Logger
}

func NewNotificationService(
	notifRepo *repositories.NotificationRepo,
	appRepo *repositories.ApplicationRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		appRepo:   appRepo,
		publisher: publisher,
		log:       log,
	}
}

// Create stores the notification and announces it on the notification stream.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if err := models.Validate(n); err != nil {
		return err
	}
	n.ID = models.NewID(models.PrefixNotification)
	n.IsRead = false
	n.ReadAt = nil
	n.CreatedAt = clock()
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	_ = s.publisher.Publish(ctx, events.StreamNotifications, events.Event{
		Type: events.EventNotificationCreated,
		Payload: map[string]any{
			"notification_id": n.ID,
			"user_id":         n.UserID,
			"type":            n.Type,
			"title":           n.Title,
			"message":         n.Message,
		},
	})
	return nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, error) {
	return s.notifRepo.ListForUser(ctx, userID, unreadOnly, pageOr(page), pageSizeOr(pageSize))
}

// MarkRead marks one of the user's notifications as read. Other users' notifications are not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Notification not found")
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, apperr.NotFound("Notification not found")
	}
	if n.IsRead {
		return n, nil
	}
	return s.notifRepo.Update(ctx, id, rowstore.Row{"isRead": true, "readAt": clock()})
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	unread, err := s.notifRepo.ListForUser(ctx, userID, true, 0, 0)
	if err != nil {
		return 0, err
	}
	now := clock()
	for i, n := range unread {
		if _, err := s.notifRepo.Update(ctx, n.ID, rowstore.Row{"isRead": true, "readAt": now}); err != nil {
			return i, fmt.Errorf("mark notification %s read: %w", n.ID, err)
		}
	}
	return len(unread), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// HandleEvent turns a domain event into notifications for the users it concerns.
// Unknown event types are ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.EventApplicationCreated:
		brandID := e.String("brand_user_id")
		if brandID == "" {
			return nil
		}
		return s.Create(ctx, &models.Notification{
			UserID:  brandID,
			Type:    models.NotificationApplicationReceived,
			Title:   "New application",
			Message: fmt.Sprintf("A creator applied to %q", e.String("campaign_title")),
			Data: map[string]any{
				"applicationId": e.String("application_id"),
				"campaignId":    e.String("campaign_id"),
			},
		})

	case events.EventApplicationStatusChanged:
		creatorID := e.String("creator_user_id")
		if creatorID == "" {
			return nil
		}
		status := e.String("new_status")
		return s.Create(ctx, &models.Notification{
			UserID:  creatorID,
			Type:    models.NotificationApplicationStatus,
			Title:   "Application " + status,
			Message: fmt.Sprintf("Your application to %q is now %s", e.String("campaign_title"), status),
			Data: map[string]any{
				"applicationId": e.String("application_id"),
				"campaignId":    e.String("campaign_id"),
				"status":        status,
			},
		})

	case events.EventCampaignStatusChanged:
		campaignID := e.String("campaign_id")
		apps, err := s.appRepo.List(ctx, rowstore.Filter{"campaignId": campaignID})
		if err != nil {
			return fmt.Errorf("load applicants: %w", err)
		}
		status := e.String("new_status")
		for _, a := range apps {
			if err := s.Create(ctx, &models.Notification{
				UserID:  a.CreatorUserID,
				Type:    models.NotificationCampaignStatus,
				Title:   "Campaign " + status,
				Message: fmt.Sprintf("Campaign %q is now %s", e.String("title"), status),
				Data:    map[string]any{"campaignId": campaignID, "status": status},
			}); err != nil {
				s.log.Warn("campaign notification failed", zap.String("user_id", a.CreatorUserID), zap.Error(err))
			}
		}
	}
	return nil
}
