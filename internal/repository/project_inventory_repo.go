package repository

import (
	"context"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectInventoryRepository provides data access for project allocations.
type ProjectInventoryRepository interface {
	Create(ctx context.Context, item *model.ProjectInventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectInventoryItem, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventoryItem, error)
	Update(ctx context.Context, item *model.ProjectInventoryItem) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	SumTotalPriceByProject(ctx context.Context, projectID uuid.UUID) (float64, error)
}

type projectInventoryRepository struct {
	db *gorm.DB
}

func NewProjectInventoryRepository(db *gorm.DB) ProjectInventoryRepository {
	return &projectInventoryRepository{db: db}
}

func (r *projectInventoryRepository) Create(ctx context.Context, item *model.ProjectInventoryItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *projectInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectInventoryItem, error) {
	var item model.ProjectInventoryItem
	if err := GetDB(ctx, r.db).Preload("Inventory").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *projectInventoryRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectInventoryItem, error) {
	var items []model.ProjectInventoryItem
	if err := GetDB(ctx, r.db).Preload("Inventory").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *projectInventoryRepository) Update(ctx context.Context, item *model.ProjectInventoryItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *projectInventoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ProjectInventoryItem{}).Error
}

func (r *projectInventoryRepository) SumTotalPriceByProject(ctx context.Context, projectID uuid.UUID) (float64, error) {
	var total float64
	err := GetDB(ctx, r.db).Model(&model.ProjectInventoryItem{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}
