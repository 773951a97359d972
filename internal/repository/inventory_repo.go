package repository

import (
	"context"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRepository provides data access for live inventory rows.
type InventoryRepository interface {
	Create(ctx context.Context, inv *model.Inventory) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	GetByNumber(ctx context.Context, number string) (*model.Inventory, error)
	List(ctx context.Context, page, limit int) ([]model.Inventory, int64, error)
	Update(ctx context.Context, inv *model.Inventory) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// MaxNumberSuffix returns the highest numeric suffix of any
	// inventory number ("INV0007" -> 7), or 0 when the table is empty.
	MaxNumberSuffix(ctx context.Context) (int, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *model.Inventory) error {
	return GetDB(ctx, r.db).Create(inv).Error
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	if err := GetDB(ctx, r.db).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepository) GetByNumber(ctx context.Context, number string) (*model.Inventory, error) {
	var inv model.Inventory
	if err := GetDB(ctx, r.db).First(&inv, "inventory_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepository) List(ctx context.Context, page, limit int) ([]model.Inventory, int64, error) {
	var items []model.Inventory
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Inventory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Order("inventory_number ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *inventoryRepository) Update(ctx context.Context, inv *model.Inventory) error {
	return GetDB(ctx, r.db).Save(inv).Error
}

func (r *inventoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Inventory{}).Error
}

func (r *inventoryRepository) MaxNumberSuffix(ctx context.Context) (int, error) {
	var max int
	// substr(_, 4) strips the "INV" prefix; works on both postgres and sqlite.
	err := GetDB(ctx, r.db).Model(&model.Inventory{}).
		Select("COALESCE(MAX(CAST(substr(inventory_number, 4) AS INTEGER)), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
