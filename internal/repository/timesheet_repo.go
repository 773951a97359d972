package repository

import (
	"context"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimesheetRepository provides data access for timesheet rows.
type TimesheetRepository interface {
	Save(ctx context.Context, ts *model.Timesheet) error
	GetForDay(ctx context.Context, projectID, employeeID uuid.UUID, workDate time.Time) (*model.Timesheet, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Timesheet, error)
	ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.Timesheet, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]model.Timesheet, error)
	CountEmployeesForDate(ctx context.Context, projectID uuid.UUID, date time.Time) (int64, error)
	SumHoursForDate(ctx context.Context, projectID uuid.UUID, date time.Time) (float64, error)
}

type timesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) Save(ctx context.Context, ts *model.Timesheet) error {
	return GetDB(ctx, r.db).Save(ts).Error
}

func (r *timesheetRepository) GetForDay(ctx context.Context, projectID, employeeID uuid.UUID, workDate time.Time) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := GetDB(ctx, r.db).
		Where("project_id = ? AND employee_id = ? AND work_date = ?", projectID, employeeID, workDate).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Timesheet, error) {
	var sheets []model.Timesheet
	if err := GetDB(ctx, r.db).Preload("Employee").
		Where("project_id = ?", projectID).
		Order("work_date ASC").
		Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *timesheetRepository) ListByProjectAndRange(ctx context.Context, projectID uuid.UUID, start, end time.Time) ([]model.Timesheet, error) {
	var sheets []model.Timesheet
	if err := GetDB(ctx, r.db).Preload("Employee").
		Where("project_id = ? AND work_date BETWEEN ? AND ?", projectID, start, end).
		Order("work_date ASC").
		Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *timesheetRepository) ListByRange(ctx context.Context, start, end time.Time) ([]model.Timesheet, error) {
	var sheets []model.Timesheet
	if err := GetDB(ctx, r.db).Preload("Employee").
		Where("work_date BETWEEN ? AND ?", start, end).
		Order("work_date ASC").
		Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *timesheetRepository) CountEmployeesForDate(ctx context.Context, projectID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Timesheet{}).
		Where("project_id = ? AND work_date = ?", projectID, date).
		Distinct("employee_id").
		Count(&count).Error
	return count, err
}

func (r *timesheetRepository) SumHoursForDate(ctx context.Context, projectID uuid.UUID, date time.Time) (float64, error) {
	var total float64
	err := GetDB(ctx, r.db).Model(&model.Timesheet{}).
		Where("project_id = ? AND work_date = ?", projectID, date).
		Select("COALESCE(SUM(hours_worked), 0)").
		Scan(&total).Error
	return total, err
}
