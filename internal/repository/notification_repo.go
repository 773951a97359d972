package repository

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository provides data access for notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error)
	ListUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error)
	CountUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Update(ctx context.Context, n *model.Notification) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID, readAt time.Time) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return GetDB(ctx, r.db).Create(n).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	if err := GetDB(ctx, r.db).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error) {
	var items []model.Notification
	if err := GetDB(ctx, r.db).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *notificationRepository) ListUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Notification, error) {
	var items []model.Notification
	if err := GetDB(ctx, r.db).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *notificationRepository) CountUnreadByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) Update(ctx context.Context, n *model.Notification) error {
	return GetDB(ctx, r.db).Save(n).Error
}

// MarkAllRead is a single UPDATE; re-running it is a no-op.
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID, readAt time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}
