package service

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"`
	Username   string     `json:"username"`
	Action     string     `json:"action"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name"`
	Details    string     `json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AuditService interface {
	List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	entries, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		entry := AuditLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		}
		if e.User != nil {
			entry.Username = e.User.Username
		}
		res = append(res, entry)
	}
	return res, total, nil
}
