package repository

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository provides data access for projects and their staffing.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	ListActive(ctx context.Context, today time.Time) ([]model.Project, error)
	ListCompleted(ctx context.Context, today time.Time) ([]model.Project, error)
	ListUpcoming(ctx context.Context, today time.Time) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	AssignEmployee(ctx context.Context, pe *model.ProjectEmployee) error
	RemoveEmployee(ctx context.Context, projectID, employeeID uuid.UUID) error
	ListEmployees(ctx context.Context, projectID uuid.UUID) ([]model.ProjectEmployee, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := GetDB(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := GetDB(ctx, r.db).Order("start_date DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ListActive(ctx context.Context, today time.Time) ([]model.Project, error) {
	var projects []model.Project
	if err := GetDB(ctx, r.db).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Order("start_date ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ListCompleted(ctx context.Context, today time.Time) ([]model.Project, error) {
	var projects []model.Project
	if err := GetDB(ctx, r.db).
		Where("end_date < ?", today).
		Order("end_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ListUpcoming(ctx context.Context, today time.Time) ([]model.Project, error) {
	var projects []model.Project
	if err := GetDB(ctx, r.db).
		Where("start_date > ?", today).
		Order("start_date ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) error {
	return GetDB(ctx, r.db).Save(p).Error
}

func (r *projectRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Project{}).Error
}

func (r *projectRepository) AssignEmployee(ctx context.Context, pe *model.ProjectEmployee) error {
	return GetDB(ctx, r.db).Create(pe).Error
}

func (r *projectRepository) RemoveEmployee(ctx context.Context, projectID, employeeID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("project_id = ? AND employee_id = ?", projectID, employeeID).
		Delete(&model.ProjectEmployee{}).Error
}

func (r *projectRepository) ListEmployees(ctx context.Context, projectID uuid.UUID) ([]model.ProjectEmployee, error) {
	var assignments []model.ProjectEmployee
	if err := GetDB(ctx, r.db).Preload("Employee").
		Where("project_id = ?", projectID).
		Order("assigned_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
