package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UpdateEmployeeRequest struct {
	Name        string          `json:"name"`
	EndDate     *time.Time      `json:"end_date"`
	Salary      decimal.Decimal `json:"salary"`
	PhoneNumber string          `json:"phone_number"`
	Comments    string          `json:"comments"`
}

type EmployeeResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	EmpID           string          `json:"emp_id"`
	PassportID      string          `json:"passport_id"`
	EmiratesID      string          `json:"emirates_id"`
	JoiningDate     time.Time       `json:"joining_date"`
	EndDate         *time.Time      `json:"end_date"`
	Salary          decimal.Decimal `json:"salary"`
	PhoneNumber     string          `json:"phone_number"`
	Comments        string          `json:"comments"`
	JoiningDocsPath string          `json:"joining_docs_path"`
}

// EmployeeService manages live employee records. New employees only appear
// via an approved EmployeeRequest; this service covers the rest of the
// lifecycle.
type EmployeeService interface {
	GetByEmpID(ctx context.Context, empID string) (*EmployeeResponse, error)
	List(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, empID string, req UpdateEmployeeRequest) (*EmployeeResponse, error)
	Delete(ctx context.Context, empID string) error
}

type employeeService struct {
	repo repository.EmployeeRepository
}

func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func toEmployeeResponse(e *model.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		EmpID:           e.EmpID,
		PassportID:      e.PassportID,
		EmiratesID:      e.EmiratesID,
		JoiningDate:     e.JoiningDate,
		EndDate:         e.EndDate,
		Salary:          e.Salary,
		PhoneNumber:     e.PhoneNumber,
		Comments:        e.Comments,
		JoiningDocsPath: e.JoiningDocsPath,
	}
}

func (s *employeeService) GetByEmpID(ctx context.Context, empID string) (*EmployeeResponse, error) {
	emp, err := s.repo.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", ErrNotFound, empID)
		}
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *employeeService) List(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	employees, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		res = append(res, *toEmployeeResponse(&employees[i]))
	}
	return res, total, nil
}

func (s *employeeService) Update(ctx context.Context, empID string, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	emp, err := s.repo.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: employee %s", ErrNotFound, empID)
		}
		return nil, err
	}

	if req.Name != "" {
		emp.Name = req.Name
	}
	if req.EndDate != nil {
		emp.EndDate = req.EndDate
	}
	if req.Salary.IsPositive() {
		emp.Salary = req.Salary
	}
	if req.PhoneNumber != "" {
		emp.PhoneNumber = req.PhoneNumber
	}
	if req.Comments != "" {
		emp.Comments = req.Comments
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *employeeService) Delete(ctx context.Context, empID string) error {
	if _, err := s.repo.GetByEmpID(ctx, empID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: employee %s", ErrNotFound, empID)
		}
		return err
	}
	return s.repo.DeleteByEmpID(ctx, empID)
}
