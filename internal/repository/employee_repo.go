package repository

import (
	"context"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRepository provides data access for live employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	GetByEmpID(ctx context.Context, empID string) (*model.Employee, error)
	List(ctx context.Context, page, limit int) ([]model.Employee, int64, error)
	Update(ctx context.Context, e *model.Employee) error
	DeleteByEmpID(ctx context.Context, empID string) error
	ExistsByEmpID(ctx context.Context, empID string) (bool, error)
	ExistsByPassportID(ctx context.Context, passportID string) (bool, error)
	ExistsByEmiratesID(ctx context.Context, emiratesID string) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return GetDB(ctx, r.db).Create(e).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	if err := GetDB(ctx, r.db).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) GetByEmpID(ctx context.Context, empID string) (*model.Employee, error) {
	var e model.Employee
	if err := GetDB(ctx, r.db).First(&e, "emp_id = ?", empID).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, page, limit int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Order("name ASC").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, e *model.Employee) error {
	return GetDB(ctx, r.db).Save(e).Error
}

func (r *employeeRepository) DeleteByEmpID(ctx context.Context, empID string) error {
	return GetDB(ctx, r.db).Where("emp_id = ?", empID).Delete(&model.Employee{}).Error
}

func (r *employeeRepository) ExistsByEmpID(ctx context.Context, empID string) (bool, error) {
	return r.exists(ctx, "emp_id = ?", empID)
}

func (r *employeeRepository) ExistsByPassportID(ctx context.Context, passportID string) (bool, error) {
	return r.exists(ctx, "passport_id = ?", passportID)
}

func (r *employeeRepository) ExistsByEmiratesID(ctx context.Context, emiratesID string) (bool, error) {
	return r.exists(ctx, "emirates_id = ?", emiratesID)
}

func (r *employeeRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Employee{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
