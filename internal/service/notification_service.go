package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"
	ws "github.com/asadfd/erp-deployment/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationEvent is the websocket payload pushed alongside every
// persisted notification.
type NotificationEvent struct {
	Event string             `json:"event"`
	Data  model.Notification `json:"data"`
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}

type NotificationService interface {
	// Notify persists a notification for one user and pushes it to the hub.
	Notify(ctx context.Context, recipientID uuid.UUID, title, message, notifType string) error
	// NotifySuperAdmins fans a notification out to every super-admin.
	NotifySuperAdmins(ctx context.Context, title, message, notifType string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error)
	ListUnreadForUser(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	hub       *ws.Hub
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		hub:       hub,
	}
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID uuid.UUID, title, message, notifType string) error {
	notif := &model.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notifType,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.push(*notif)
	return nil
}

func (s *notificationService) NotifySuperAdmins(ctx context.Context, title, message, notifType string) error {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("failed to list super admins: %w", err)
	}
	for _, admin := range admins {
		if err := s.Notify(ctx, admin.ID, title, message, notifType); err != nil {
			return err
		}
	}
	return nil
}

// push broadcasts best-effort; a full hub channel must never fail the
// surrounding transaction.
func (s *notificationService) push(n model.Notification) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(NotificationEvent{Event: "notification", Data: n})
	if err != nil {
		log.Printf("failed to marshal notification event: %v", err)
		return
	}
	select {
	case s.hub.Broadcast <- payload:
	default:
		log.Println("websocket hub busy, dropping notification push")
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error) {
	notifs, err := s.notifRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		res = append(res, toNotificationResponse(n))
	}
	return res, nil
}

func (s *notificationService) ListUnreadForUser(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error) {
	notifs, err := s.notifRepo.ListUnreadByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]NotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		res = append(res, toNotificationResponse(n))
	}
	return res, nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnreadByRecipient(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification", ErrNotFound)
		}
		return err
	}
	if notif.RecipientID != userID {
		return fmt.Errorf("%w: notification belongs to another user", ErrForbidden)
	}
	if notif.IsRead {
		return nil
	}
	now := time.Now()
	notif.IsRead = true
	notif.ReadAt = &now
	return s.notifRepo.Update(ctx, notif)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllRead(ctx, userID, time.Now())
}
