package repository

import (
	"context"
	"fmt"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MRFRepository provides data access for material request forms and items.
type MRFRepository interface {
	Create(ctx context.Context, mrf *model.MaterialRequestForm) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequestForm, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MaterialRequestForm, error)
	GetByNumber(ctx context.Context, number string) (*model.MaterialRequestForm, error)
	List(ctx context.Context) ([]model.MaterialRequestForm, error)
	ListByStatus(ctx context.Context, status string) ([]model.MaterialRequestForm, error)
	ListByStatusAndTier(ctx context.Context, status string, requiresSuperadmin bool) ([]model.MaterialRequestForm, error)
	ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.MaterialRequestForm, error)
	Update(ctx context.Context, mrf *model.MaterialRequestForm) error
	Delete(ctx context.Context, mrf *model.MaterialRequestForm) error
	ReplaceItems(ctx context.Context, mrfID uuid.UUID, items []model.MRFItem) error
	MaxNumberSuffix(ctx context.Context) (int, error)
	NextNumber(ctx context.Context) (string, error)
}

type mrfRepository struct {
	db *gorm.DB
}

func NewMRFRepository(db *gorm.DB) MRFRepository {
	return &mrfRepository{db: db}
}

func (r *mrfRepository) Create(ctx context.Context, mrf *model.MaterialRequestForm) error {
	return GetDB(ctx, r.db).Create(mrf).Error
}

func (r *mrfRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MaterialRequestForm, error) {
	var mrf model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Requester").First(&mrf, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mrf, nil
}

func (r *mrfRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MaterialRequestForm, error) {
	var mrf model.MaterialRequestForm
	if err := lockForUpdate(GetDB(ctx, r.db)).First(&mrf, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mrf, nil
}

func (r *mrfRepository) GetByNumber(ctx context.Context, number string) (*model.MaterialRequestForm, error) {
	var mrf model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").First(&mrf, "mrf_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &mrf, nil
}

func (r *mrfRepository) List(ctx context.Context) ([]model.MaterialRequestForm, error) {
	var forms []model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").Order("creation_date DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *mrfRepository) ListByStatus(ctx context.Context, status string) ([]model.MaterialRequestForm, error) {
	var forms []model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("status = ?", status).
		Order("creation_date DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *mrfRepository) ListByStatusAndTier(ctx context.Context, status string, requiresSuperadmin bool) ([]model.MaterialRequestForm, error) {
	var forms []model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("status = ? AND requires_superadmin = ?", status, requiresSuperadmin).
		Order("creation_date DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *mrfRepository) ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]model.MaterialRequestForm, error) {
	var forms []model.MaterialRequestForm
	if err := GetDB(ctx, r.db).Preload("Items").
		Where("requested_by = ?", requestedBy).
		Order("creation_date DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *mrfRepository) Update(ctx context.Context, mrf *model.MaterialRequestForm) error {
	return GetDB(ctx, r.db).Save(mrf).Error
}

func (r *mrfRepository) Delete(ctx context.Context, mrf *model.MaterialRequestForm) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("mrf_id = ?", mrf.ID).Delete(&model.MRFItem{}).Error; err != nil {
		return err
	}
	return db.Delete(mrf).Error
}

// ReplaceItems drops the form's current items and inserts the given set.
func (r *mrfRepository) ReplaceItems(ctx context.Context, mrfID uuid.UUID, items []model.MRFItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("mrf_id = ?", mrfID).Delete(&model.MRFItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].MRFID = mrfID
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *mrfRepository) MaxNumberSuffix(ctx context.Context) (int, error) {
	var max int
	err := GetDB(ctx, r.db).Model(&model.MaterialRequestForm{}).
		Select("COALESCE(MAX(CAST(substr(mrf_number, 4) AS INTEGER)), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// NextNumber allocates the next MRF number. See the note on the inventory
// counterpart about the advisory lock.
func (r *mrfRepository) NextNumber(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "mrf_number")

	max, err := r.MaxNumberSuffix(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("MRF%04d", max+1), nil
}
