package repository

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderRepository provides data access for purchase orders, their
// items and their approval requests.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error)
	ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]model.PurchaseOrder, error)
	ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.PurchaseOrder, error)
	Update(ctx context.Context, po *model.PurchaseOrder) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error
	ListItems(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.PurchaseOrderItem, error)

	CreateRequest(ctx context.Context, req *model.PurchaseOrderRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderRequest, error)
	GetRequestByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]model.PurchaseOrderRequest, error)
	UpdateRequest(ctx context.Context, req *model.PurchaseOrderRequest) error
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(po).Error
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Project").First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("Project").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("project_id IN ?", projectIDs).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("project_id = ? AND created_at >= ? AND created_at < ?", projectID, start, end).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) Update(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Save(po).Error
}

func (r *purchaseOrderRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("purchase_order_id = ?", id).Delete(&model.PurchaseOrderRequest{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.PurchaseOrder{}).Error
}

func (r *purchaseOrderRepository) CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *purchaseOrderRepository) ListItems(ctx context.Context, purchaseOrderID uuid.UUID) ([]model.PurchaseOrderItem, error) {
	var items []model.PurchaseOrderItem
	if err := GetDB(ctx, r.db).Preload("Inventory").
		Where("purchase_order_id = ?", purchaseOrderID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *purchaseOrderRepository) CreateRequest(ctx context.Context, req *model.PurchaseOrderRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *purchaseOrderRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderRequest, error) {
	var req model.PurchaseOrderRequest
	if err := GetDB(ctx, r.db).Preload("PurchaseOrder").Preload("Requester").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *purchaseOrderRepository) GetRequestByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderRequest, error) {
	var req model.PurchaseOrderRequest
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *purchaseOrderRepository) ListRequestsByStatus(ctx context.Context, status string) ([]model.PurchaseOrderRequest, error) {
	var reqs []model.PurchaseOrderRequest
	if err := GetDB(ctx, r.db).Preload("PurchaseOrder").Preload("Requester").
		Where("status = ?", status).
		Order("request_date DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *purchaseOrderRepository) UpdateRequest(ctx context.Context, req *model.PurchaseOrderRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}
