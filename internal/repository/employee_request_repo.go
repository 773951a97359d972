package repository

import (
	"context"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRequestRepository provides data access for staged employee requests.
type EmployeeRequestRepository interface {
	Create(ctx context.Context, req *model.EmployeeRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.EmployeeRequest, error)
	// GetByIDForUpdate locks the row so concurrent approve/reject calls
	// serialize on the status precondition.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.EmployeeRequest, error)
	ListByStatus(ctx context.Context, status string) ([]model.EmployeeRequest, error)
	ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.EmployeeRequest, error)
	Update(ctx context.Context, req *model.EmployeeRequest) error
	ExistsActiveByField(ctx context.Context, field, value string) (bool, error)
}

type employeeRequestRepository struct {
	db *gorm.DB
}

func NewEmployeeRequestRepository(db *gorm.DB) EmployeeRequestRepository {
	return &employeeRequestRepository{db: db}
}

func (r *employeeRequestRepository) Create(ctx context.Context, req *model.EmployeeRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *employeeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EmployeeRequest, error) {
	var req model.EmployeeRequest
	if err := GetDB(ctx, r.db).Preload("Requester").Preload("Approver").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *employeeRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.EmployeeRequest, error) {
	var req model.EmployeeRequest
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *employeeRequestRepository) ListByStatus(ctx context.Context, status string) ([]model.EmployeeRequest, error) {
	var reqs []model.EmployeeRequest
	if err := GetDB(ctx, r.db).Preload("Requester").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *employeeRequestRepository) ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.EmployeeRequest, error) {
	var reqs []model.EmployeeRequest
	if err := GetDB(ctx, r.db).
		Where("requested_by = ?", requestedBy).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *employeeRequestRepository) Update(ctx context.Context, req *model.EmployeeRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

// ExistsActiveByField checks for a non-terminal (PENDING or APPROVED)
// request carrying the given identity value. field must be one of the
// identity columns; callers pass constants, never user input.
func (r *employeeRequestRepository) ExistsActiveByField(ctx context.Context, field, value string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.EmployeeRequest{}).
		Where(field+" = ? AND status IN ?", value, []string{model.RequestStatusPending, model.RequestStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
