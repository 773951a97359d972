package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type MRFItemPayload struct {
	ItemDescription string          `json:"item_description" binding:"required"`
	Specifications  string          `json:"specifications"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
}

type MRFPayload struct {
	RequestorName       string           `json:"requestor_name" binding:"required"`
	RequestorDepartment string           `json:"requestor_department"`
	RequestorEmployeeID string           `json:"requestor_employee_id"`
	ReasonJustification string           `json:"reason_justification"`
	Items               []MRFItemPayload `json:"items" binding:"required,min=1,dive"`
}

type MRFItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemDescription string          `json:"item_description"`
	Specifications  string          `json:"specifications"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
}

type MRFResponse struct {
	ID                  uuid.UUID         `json:"id"`
	MRFNumber           string            `json:"mrf_number"`
	RequestorName       string            `json:"requestor_name"`
	RequestorDepartment string            `json:"requestor_department"`
	RequestorEmployeeID string            `json:"requestor_employee_id"`
	ReasonJustification string            `json:"reason_justification"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	RequiresSuperadmin  bool              `json:"requires_superadmin"`
	Status              string            `json:"status"`
	RequestedBy         uuid.UUID         `json:"requested_by"`
	RequesterName       string            `json:"requester_name"`
	CreationDate        time.Time         `json:"creation_date"`
	RejectionReason     string            `json:"rejection_reason"`
	Items               []MRFItemResponse `json:"items"`
}

// MRFService manages material request forms. Forms at or above the
// superadmin threshold can only be decided by a super-admin; everything
// below it is decidable by admins too.
type MRFService interface {
	Create(ctx context.Context, userID string, payload MRFPayload) (*MRFResponse, error)
	Get(ctx context.Context, id string) (*MRFResponse, error)
	GetByNumber(ctx context.Context, number string) (*MRFResponse, error)
	List(ctx context.Context) ([]MRFResponse, error)
	// ListPending returns pending forms the given role is allowed to decide.
	ListPending(ctx context.Context, approverRole string) ([]MRFResponse, error)
	ListMine(ctx context.Context, userID string) ([]MRFResponse, error)
	Update(ctx context.Context, userID, id string, payload MRFPayload) (*MRFResponse, error)
	Delete(ctx context.Context, userID, id string) error
	Approve(ctx context.Context, id, approverID, approverRole string) (*MRFResponse, error)
	Reject(ctx context.Context, id, approverID, approverRole, reason string) (*MRFResponse, error)
}

type mrfService struct {
	mrfRepo   repository.MRFRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	notifier  NotificationService
}

func NewMRFService(
	mrfRepo repository.MRFRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier NotificationService,
) MRFService {
	return &mrfService{
		mrfRepo:   mrfRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		notifier:  notifier,
	}
}

func toMRFResponse(m *model.MaterialRequestForm) *MRFResponse {
	res := &MRFResponse{
		ID:                  m.ID,
		MRFNumber:           m.MRFNumber,
		RequestorName:       m.RequestorName,
		RequestorDepartment: m.RequestorDepartment,
		RequestorEmployeeID: m.RequestorEmployeeID,
		ReasonJustification: m.ReasonJustification,
		TotalAmount:         m.TotalAmount,
		RequiresSuperadmin:  m.RequiresSuperadmin,
		Status:              m.Status,
		RequestedBy:         m.RequestedBy,
		CreationDate:        m.CreationDate,
		RejectionReason:     m.RejectionReason,
	}
	if m.Requester != nil {
		res.RequesterName = m.Requester.Username
	}
	res.Items = make([]MRFItemResponse, 0, len(m.Items))
	for _, it := range m.Items {
		res.Items = append(res.Items, MRFItemResponse{
			ID:              it.ID,
			ItemDescription: it.ItemDescription,
			Specifications:  it.Specifications,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Amount:          it.Amount,
		})
	}
	return res
}

func itemsFromPayload(payload MRFPayload) []model.MRFItem {
	items := make([]model.MRFItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, model.MRFItem{
			ItemDescription: it.ItemDescription,
			Specifications:  it.Specifications,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
		})
	}
	return items
}

// canDecide enforces the approval tier.
func canDecide(m *model.MaterialRequestForm, role string) bool {
	if role == model.RoleSuperAdmin {
		return true
	}
	if m.RequiresSuperadmin {
		return false
	}
	return role == model.RoleAdmin
}

func (s *mrfService) Create(ctx context.Context, userID string, payload MRFPayload) (*MRFResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	mrf := &model.MaterialRequestForm{
		RequestorName:       payload.RequestorName,
		RequestorDepartment: payload.RequestorDepartment,
		RequestorEmployeeID: payload.RequestorEmployeeID,
		ReasonJustification: payload.ReasonJustification,
		Status:              model.RequestStatusPending,
		RequestedBy:         requesterID,
		CreationDate:        time.Now(),
		Items:               itemsFromPayload(payload),
	}
	mrf.Recalculate()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.mrfRepo.NextNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to allocate MRF number: %w", numErr)
		}
		mrf.MRFNumber = number

		if createErr := s.mrfRepo.Create(txCtx, mrf); createErr != nil {
			return fmt.Errorf("failed to create MRF: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"mrf_number":   mrf.MRFNumber,
			"total_amount": mrf.TotalAmount,
		})
		audit := &model.AuditLog{
			UserID:     &requesterID,
			Action:     model.ActionCreateMRF,
			EntityID:   mrf.ID.String(),
			EntityName: mrf.MRFNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	tier := "admin"
	if mrf.RequiresSuperadmin {
		tier = "super-admin"
	}
	_ = s.notifier.NotifySuperAdmins(ctx,
		"Material request form pending",
		fmt.Sprintf("%s (total %s) awaits %s approval", mrf.MRFNumber, mrf.TotalAmount.StringFixed(2), tier),
		model.NotifMRFUpdate,
	)

	return toMRFResponse(mrf), nil
}

func (s *mrfService) Get(ctx context.Context, id string) (*MRFResponse, error) {
	mrfID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MRF id", ErrValidation)
	}
	mrf, err := s.mrfRepo.GetByID(ctx, mrfID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: MRF", ErrNotFound)
		}
		return nil, err
	}
	return toMRFResponse(mrf), nil
}

func (s *mrfService) GetByNumber(ctx context.Context, number string) (*MRFResponse, error) {
	mrf, err := s.mrfRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: MRF %s", ErrNotFound, number)
		}
		return nil, err
	}
	return toMRFResponse(mrf), nil
}

func (s *mrfService) List(ctx context.Context) ([]MRFResponse, error) {
	mrfs, err := s.mrfRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]MRFResponse, 0, len(mrfs))
	for i := range mrfs {
		res = append(res, *toMRFResponse(&mrfs[i]))
	}
	return res, nil
}

func (s *mrfService) ListPending(ctx context.Context, approverRole string) ([]MRFResponse, error) {
	var (
		mrfs []model.MaterialRequestForm
		err  error
	)
	switch approverRole {
	case model.RoleSuperAdmin:
		mrfs, err = s.mrfRepo.ListByStatus(ctx, model.RequestStatusPending)
	case model.RoleAdmin:
		mrfs, err = s.mrfRepo.ListByStatusAndTier(ctx, model.RequestStatusPending, false)
	default:
		return nil, fmt.Errorf("%w: role %s cannot approve MRFs", ErrForbidden, approverRole)
	}
	if err != nil {
		return nil, err
	}
	res := make([]MRFResponse, 0, len(mrfs))
	for i := range mrfs {
		res = append(res, *toMRFResponse(&mrfs[i]))
	}
	return res, nil
}

func (s *mrfService) ListMine(ctx context.Context, userID string) ([]MRFResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	mrfs, err := s.mrfRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	res := make([]MRFResponse, 0, len(mrfs))
	for i := range mrfs {
		res = append(res, *toMRFResponse(&mrfs[i]))
	}
	return res, nil
}

func (s *mrfService) Update(ctx context.Context, userID, id string, payload MRFPayload) (*MRFResponse, error) {
	mrfID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MRF id", ErrValidation)
	}
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var mrf *model.MaterialRequestForm
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		mrf, findErr = s.mrfRepo.GetByIDForUpdate(txCtx, mrfID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: MRF", ErrNotFound)
			}
			return findErr
		}
		if mrf.RequestedBy != requesterID {
			return fmt.Errorf("%w: only the requester may edit an MRF", ErrForbidden)
		}
		if mrf.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: MRF is already %s", ErrInvalidState, mrf.Status)
		}

		mrf.RequestorName = payload.RequestorName
		mrf.RequestorDepartment = payload.RequestorDepartment
		mrf.RequestorEmployeeID = payload.RequestorEmployeeID
		mrf.ReasonJustification = payload.ReasonJustification
		mrf.Items = itemsFromPayload(payload)
		mrf.Recalculate()

		if repErr := s.mrfRepo.ReplaceItems(txCtx, mrf.ID, mrf.Items); repErr != nil {
			return fmt.Errorf("failed to replace MRF items: %w", repErr)
		}
		if saveErr := s.mrfRepo.Update(txCtx, mrf); saveErr != nil {
			return fmt.Errorf("failed to update MRF: %w", saveErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload so item IDs reflect the replacement
	reloaded, err := s.mrfRepo.GetByID(ctx, mrfID)
	if err != nil {
		return nil, err
	}
	return toMRFResponse(reloaded), nil
}

func (s *mrfService) Delete(ctx context.Context, userID, id string) error {
	mrfID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid MRF id", ErrValidation)
	}
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		mrf, findErr := s.mrfRepo.GetByIDForUpdate(txCtx, mrfID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: MRF", ErrNotFound)
			}
			return findErr
		}
		if mrf.RequestedBy != requesterID {
			return fmt.Errorf("%w: only the requester may delete an MRF", ErrForbidden)
		}
		if mrf.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: MRF is already %s", ErrInvalidState, mrf.Status)
		}
		return s.mrfRepo.Delete(txCtx, mrf)
	})
}

func (s *mrfService) Approve(ctx context.Context, id, approverID, approverRole string) (*MRFResponse, error) {
	mrfID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MRF id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var mrf *model.MaterialRequestForm
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		mrf, findErr = s.mrfRepo.GetByIDForUpdate(txCtx, mrfID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: MRF", ErrNotFound)
			}
			return findErr
		}
		if mrf.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: MRF is already %s", ErrInvalidState, mrf.Status)
		}
		if !canDecide(mrf, approverRole) {
			return fmt.Errorf("%w: MRF %s requires super-admin approval", ErrForbidden, mrf.MRFNumber)
		}

		now := time.Now()
		mrf.Status = model.RequestStatusApproved
		mrf.ApprovedBy = &approver
		mrf.ApprovalDate = &now
		if saveErr := s.mrfRepo.Update(txCtx, mrf); saveErr != nil {
			return fmt.Errorf("failed to update MRF: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"mrf_number": mrf.MRFNumber})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionApproveRequest,
			EntityID:   mrf.ID.String(),
			EntityName: mrf.MRFNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, mrf.RequestedBy,
		"MRF approved",
		fmt.Sprintf("%s has been approved", mrf.MRFNumber),
		model.NotifMRFUpdate,
	)

	return toMRFResponse(mrf), nil
}

func (s *mrfService) Reject(ctx context.Context, id, approverID, approverRole, reason string) (*MRFResponse, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	mrfID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MRF id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var mrf *model.MaterialRequestForm
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		mrf, findErr = s.mrfRepo.GetByIDForUpdate(txCtx, mrfID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: MRF", ErrNotFound)
			}
			return findErr
		}
		if mrf.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: MRF is already %s", ErrInvalidState, mrf.Status)
		}
		if !canDecide(mrf, approverRole) {
			return fmt.Errorf("%w: MRF %s requires super-admin approval", ErrForbidden, mrf.MRFNumber)
		}

		now := time.Now()
		mrf.Status = model.RequestStatusRejected
		mrf.ApprovedBy = &approver
		mrf.ApprovalDate = &now
		mrf.RejectionReason = reason
		if saveErr := s.mrfRepo.Update(txCtx, mrf); saveErr != nil {
			return fmt.Errorf("failed to update MRF: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"mrf_number": mrf.MRFNumber, "reason": reason})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionRejectRequest,
			EntityID:   mrf.ID.String(),
			EntityName: mrf.MRFNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, mrf.RequestedBy,
		"MRF rejected",
		fmt.Sprintf("%s was rejected: %s", mrf.MRFNumber, reason),
		model.NotifMRFUpdate,
	)

	return toMRFResponse(mrf), nil
}
