package repositories

import (
	"context"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

type NotificationRepo struct {
	t table[models.Notification]
}

func NewNotificationRepo(store rowstore.Store) *NotificationRepo {
	return &NotificationRepo{t: table[models.Notification]{store: store, name: TableNotifications}}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.t.create(ctx, n)
}

func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return r.t.get(ctx, id)
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, error) {
	f := rowstore.Filter{"userId": userID}
	if unreadOnly {
		f["isRead"] = false
	}
	return r.t.query(ctx, f, rowstore.QueryOptions{
		Page:           page,
		PageSize:       pageSize,
		OrderBy:        "createdAt",
		OrderDirection: "desc",
	})
}

func (r *NotificationRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.Notification, error) {
	return r.t.update(ctx, id, patch)
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	return r.t.count(ctx, rowstore.Filter{"userId": userID, "isRead": false})
}
