package repository

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CashFlowRepository provides data access for project cash-flow rows.
type CashFlowRepository interface {
	Create(ctx context.Context, cf *model.CashFlow) error
	ListByRange(ctx context.Context, start, end time.Time) ([]model.CashFlow, error)
	ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.CashFlow, error)
}

type cashFlowRepository struct {
	db *gorm.DB
}

func NewCashFlowRepository(db *gorm.DB) CashFlowRepository {
	return &cashFlowRepository{db: db}
}

func (r *cashFlowRepository) Create(ctx context.Context, cf *model.CashFlow) error {
	return GetDB(ctx, r.db).Create(cf).Error
}

func (r *cashFlowRepository) ListByRange(ctx context.Context, start, end time.Time) ([]model.CashFlow, error) {
	var flows []model.CashFlow
	if err := GetDB(ctx, r.db).
		Where("transaction_date BETWEEN ? AND ?", start, end).
		Order("transaction_date ASC").
		Find(&flows).Error; err != nil {
		return nil, err
	}
	return flows, nil
}

func (r *cashFlowRepository) ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.CashFlow, error) {
	var flows []model.CashFlow
	if err := GetDB(ctx, r.db).
		Where("project_id = ? AND transaction_date BETWEEN ? AND ?", projectID, start, end).
		Order("transaction_date ASC").
		Find(&flows).Error; err != nil {
		return nil, err
	}
	return flows, nil
}
