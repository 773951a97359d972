package repository

import (
	"context"
	"fmt"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryRequestRepository provides data access for staged inventory requests.
type InventoryRequestRepository interface {
	Create(ctx context.Context, req *model.InventoryRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.InventoryRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryRequest, error)
	ListByStatus(ctx context.Context, status string) ([]model.InventoryRequest, error)
	ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.InventoryRequest, error)
	Update(ctx context.Context, req *model.InventoryRequest) error
	MaxNumberSuffix(ctx context.Context) (int, error)
	NextNumber(ctx context.Context) (string, error)
}

type inventoryRequestRepository struct {
	db *gorm.DB
}

func NewInventoryRequestRepository(db *gorm.DB) InventoryRequestRepository {
	return &inventoryRequestRepository{db: db}
}

func (r *inventoryRequestRepository) Create(ctx context.Context, req *model.InventoryRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *inventoryRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.InventoryRequest, error) {
	var req model.InventoryRequest
	if err := GetDB(ctx, r.db).Preload("Requester").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *inventoryRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryRequest, error) {
	var req model.InventoryRequest
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *inventoryRequestRepository) ListByStatus(ctx context.Context, status string) ([]model.InventoryRequest, error) {
	var reqs []model.InventoryRequest
	if err := GetDB(ctx, r.db).Preload("Requester").
		Where("status = ?", status).
		Order("request_date DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *inventoryRequestRepository) ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.InventoryRequest, error) {
	var reqs []model.InventoryRequest
	if err := GetDB(ctx, r.db).
		Where("requested_by = ?", requestedBy).
		Order("request_date DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *inventoryRequestRepository) Update(ctx context.Context, req *model.InventoryRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *inventoryRequestRepository) MaxNumberSuffix(ctx context.Context) (int, error) {
	var max int
	err := GetDB(ctx, r.db).Model(&model.InventoryRequest{}).
		Select("COALESCE(MAX(CAST(substr(inventory_number, 4) AS INTEGER)), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// NextNumber allocates the next INV number across both the live inventory
// table and pending requests, so two PENDING create requests never collide.
// The advisory lock only takes effect on postgres; other dialects fall back
// to plain max+1.
func (r *inventoryRequestRepository) NextNumber(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "inventory_number")

	var fromLive, fromRequests int
	if err := db.Model(&model.Inventory{}).
		Select("COALESCE(MAX(CAST(substr(inventory_number, 4) AS INTEGER)), 0)").
		Scan(&fromLive).Error; err != nil {
		return "", err
	}
	if err := db.Model(&model.InventoryRequest{}).
		Select("COALESCE(MAX(CAST(substr(inventory_number, 4) AS INTEGER)), 0)").
		Scan(&fromRequests).Error; err != nil {
		return "", err
	}
	max := fromLive
	if fromRequests > max {
		max = fromRequests
	}
	return fmt.Sprintf("INV%04d", max+1), nil
}
