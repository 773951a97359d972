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
type InventoryPayload struct {
	Name             string          `json:"name" binding:"required"`
	ProductionDate   time.Time       `json:"production_date" binding:"required"`
	ExpiryDate       time.Time       `json:"expiry_date" binding:"required"`
	Quantity         int             `json:"quantity" binding:"required,gt=0"`
	PerQuantityPrice decimal.Decimal `json:"per_quantity_price" binding:"required"`
	BillNumber       string          `json:"bill_number" binding:"required"`
	SupplierName     string          `json:"supplier_name" binding:"required"`
}

type InventoryResponse struct {
	ID               uuid.UUID       `json:"id"`
	InventoryNumber  string          `json:"inventory_number"`
	Name             string          `json:"name"`
	ProductionDate   time.Time       `json:"production_date"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	Quantity         int             `json:"quantity"`
	PerQuantityPrice decimal.Decimal `json:"per_quantity_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	BillNumber       string          `json:"bill_number"`
	SupplierName     string          `json:"supplier_name"`
}

type InventoryRequestResponse struct {
	ID              uuid.UUID       `json:"id"`
	RequestType     string          `json:"request_type"`
	InventoryNumber string          `json:"inventory_number"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	TargetID        *uuid.UUID      `json:"target_id"`
	Status          string          `json:"status"`
	RequestedBy     uuid.UUID       `json:"requested_by"`
	RequesterName   string          `json:"requester_name"`
	RequestDate     time.Time       `json:"request_date"`
	RejectionReason string          `json:"rejection_reason"`
}

// InventoryService exposes live stock reads and the staged mutation flow.
// Every write to the live table goes through a request row and an approval.
type InventoryService interface {
	List(ctx context.Context, page, limit int) ([]InventoryResponse, int64, error)
	Get(ctx context.Context, id string) (*InventoryResponse, error)
	SubmitCreate(ctx context.Context, userID string, payload InventoryPayload) (*InventoryRequestResponse, error)
	SubmitUpdate(ctx context.Context, userID, targetID string, payload InventoryPayload) (*InventoryRequestResponse, error)
	SubmitDelete(ctx context.Context, userID, targetID string) (*InventoryRequestResponse, error)
	ListPendingRequests(ctx context.Context) ([]InventoryRequestResponse, error)
	ListMyRequests(ctx context.Context, userID string) ([]InventoryRequestResponse, error)
	Approve(ctx context.Context, requestID, approverID string) (*InventoryRequestResponse, error)
	Reject(ctx context.Context, requestID, approverID, reason string) (*InventoryRequestResponse, error)
}

type inventoryService struct {
	invRepo   repository.InventoryRepository
	reqRepo   repository.InventoryRequestRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	notifier  NotificationService
}

func NewInventoryService(
	invRepo repository.InventoryRepository,
	reqRepo repository.InventoryRequestRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier NotificationService,
) InventoryService {
	return &inventoryService{
		invRepo:   invRepo,
		reqRepo:   reqRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		notifier:  notifier,
	}
}

func toInventoryResponse(inv *model.Inventory) *InventoryResponse {
	return &InventoryResponse{
		ID:               inv.ID,
		InventoryNumber:  inv.InventoryNumber,
		Name:             inv.Name,
		ProductionDate:   inv.ProductionDate,
		ExpiryDate:       inv.ExpiryDate,
		Quantity:         inv.Quantity,
		PerQuantityPrice: inv.PerQuantityPrice,
		TotalPrice:       inv.TotalPrice,
		BillNumber:       inv.BillNumber,
		SupplierName:     inv.SupplierName,
	}
}

func toInventoryRequestResponse(r *model.InventoryRequest) *InventoryRequestResponse {
	res := &InventoryRequestResponse{
		ID:              r.ID,
		RequestType:     r.RequestType,
		InventoryNumber: r.InventoryNumber,
		Name:            r.Name,
		Quantity:        r.Quantity,
		TotalPrice:      r.TotalPrice,
		TargetID:        r.TargetID,
		Status:          r.Status,
		RequestedBy:     r.RequestedBy,
		RequestDate:     r.RequestDate,
		RejectionReason: r.RejectionReason,
	}
	if r.Requester != nil {
		res.RequesterName = r.Requester.Username
	}
	return res
}

func (s *inventoryService) List(ctx context.Context, page, limit int) ([]InventoryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	items, total, err := s.invRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]InventoryResponse, 0, len(items))
	for i := range items {
		res = append(res, *toInventoryResponse(&items[i]))
	}
	return res, total, nil
}

func (s *inventoryService) Get(ctx context.Context, id string) (*InventoryResponse, error) {
	invID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}
	inv, err := s.invRepo.GetByID(ctx, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory", ErrNotFound)
		}
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

func (s *inventoryService) submit(ctx context.Context, userID string, request *model.InventoryRequest) (*InventoryRequestResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	request.RequestedBy = requesterID
	request.Status = model.RequestStatusPending
	request.RequestDate = time.Now()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if request.RequestType == model.InventoryReqCreate {
			number, numErr := s.reqRepo.NextNumber(txCtx)
			if numErr != nil {
				return fmt.Errorf("failed to allocate inventory number: %w", numErr)
			}
			request.InventoryNumber = number
		}

		if createErr := s.reqRepo.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create inventory request: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_type":     request.RequestType,
			"inventory_number": request.InventoryNumber,
		})
		audit := &model.AuditLog{
			UserID:     &requesterID,
			Action:     model.ActionSubmitInventoryRequest,
			EntityID:   request.ID.String(),
			EntityName: request.InventoryNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifySuperAdmins(ctx,
		"Inventory request pending",
		fmt.Sprintf("%s request for %s awaits approval", request.RequestType, request.InventoryNumber),
		model.NotifInventoryRequestUpdate,
	)

	return toInventoryRequestResponse(request), nil
}

func (s *inventoryService) SubmitCreate(ctx context.Context, userID string, payload InventoryPayload) (*InventoryRequestResponse, error) {
	request := &model.InventoryRequest{
		RequestType:      model.InventoryReqCreate,
		Name:             payload.Name,
		ProductionDate:   payload.ProductionDate,
		ExpiryDate:       payload.ExpiryDate,
		Quantity:         payload.Quantity,
		PerQuantityPrice: payload.PerQuantityPrice,
		BillNumber:       payload.BillNumber,
		SupplierName:     payload.SupplierName,
	}
	request.Recalculate()
	return s.submit(ctx, userID, request)
}

func (s *inventoryService) SubmitUpdate(ctx context.Context, userID, targetID string, payload InventoryPayload) (*InventoryRequestResponse, error) {
	target, err := s.mustTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	request := &model.InventoryRequest{
		RequestType:      model.InventoryReqUpdate,
		InventoryNumber:  target.InventoryNumber,
		Name:             payload.Name,
		ProductionDate:   payload.ProductionDate,
		ExpiryDate:       payload.ExpiryDate,
		Quantity:         payload.Quantity,
		PerQuantityPrice: payload.PerQuantityPrice,
		BillNumber:       payload.BillNumber,
		SupplierName:     payload.SupplierName,
		TargetID:         &target.ID,
	}
	request.Recalculate()
	return s.submit(ctx, userID, request)
}

func (s *inventoryService) SubmitDelete(ctx context.Context, userID, targetID string) (*InventoryRequestResponse, error) {
	target, err := s.mustTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	request := &model.InventoryRequest{
		RequestType:     model.InventoryReqDelete,
		InventoryNumber: target.InventoryNumber,
		Name:            target.Name,
		TargetID:        &target.ID,
	}
	return s.submit(ctx, userID, request)
}

func (s *inventoryService) mustTarget(ctx context.Context, targetID string) (*model.Inventory, error) {
	id, err := uuid.Parse(targetID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid inventory id", ErrValidation)
	}
	target, err := s.invRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory", ErrNotFound)
		}
		return nil, err
	}
	return target, nil
}

func (s *inventoryService) ListPendingRequests(ctx context.Context) ([]InventoryRequestResponse, error) {
	requests, err := s.reqRepo.ListByStatus(ctx, model.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	res := make([]InventoryRequestResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toInventoryRequestResponse(&requests[i]))
	}
	return res, nil
}

func (s *inventoryService) ListMyRequests(ctx context.Context, userID string) ([]InventoryRequestResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	requests, err := s.reqRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	res := make([]InventoryRequestResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toInventoryRequestResponse(&requests[i]))
	}
	return res, nil
}

// materialize applies an approved request to the live table.
func (s *inventoryService) materialize(txCtx context.Context, request *model.InventoryRequest) error {
	switch request.RequestType {
	case model.InventoryReqCreate:
		inv := &model.Inventory{
			InventoryNumber:  request.InventoryNumber,
			Name:             request.Name,
			ProductionDate:   request.ProductionDate,
			ExpiryDate:       request.ExpiryDate,
			Quantity:         request.Quantity,
			PerQuantityPrice: request.PerQuantityPrice,
			BillNumber:       request.BillNumber,
			SupplierName:     request.SupplierName,
		}
		inv.Recalculate()
		return s.invRepo.Create(txCtx, inv)

	case model.InventoryReqUpdate:
		if request.TargetID == nil {
			return fmt.Errorf("%w: update request without target", ErrInvalidState)
		}
		inv, err := s.invRepo.GetByIDForUpdate(txCtx, *request.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: target inventory no longer exists", ErrInvalidState)
			}
			return err
		}
		inv.Name = request.Name
		inv.ProductionDate = request.ProductionDate
		inv.ExpiryDate = request.ExpiryDate
		inv.Quantity = request.Quantity
		inv.PerQuantityPrice = request.PerQuantityPrice
		inv.BillNumber = request.BillNumber
		inv.SupplierName = request.SupplierName
		inv.Recalculate()
		return s.invRepo.Update(txCtx, inv)

	case model.InventoryReqDelete:
		if request.TargetID == nil {
			return fmt.Errorf("%w: delete request without target", ErrInvalidState)
		}
		return s.invRepo.DeleteByID(txCtx, *request.TargetID)

	default:
		return fmt.Errorf("%w: unknown request type %q", ErrInvalidState, request.RequestType)
	}
}

func (s *inventoryService) Approve(ctx context.Context, requestID, approverID string) (*InventoryRequestResponse, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var request *model.InventoryRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.reqRepo.GetByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: inventory request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		if matErr := s.materialize(txCtx, request); matErr != nil {
			return matErr
		}

		now := time.Now()
		request.Status = model.RequestStatusApproved
		request.ApprovedBy = &approver
		request.ApprovalDate = &now
		if saveErr := s.reqRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_type":     request.RequestType,
			"inventory_number": request.InventoryNumber,
		})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionApproveRequest,
			EntityID:   request.ID.String(),
			EntityName: request.InventoryNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Inventory request approved",
		fmt.Sprintf("%s request for %s was approved", request.RequestType, request.InventoryNumber),
		model.NotifInventoryRequestUpdate,
	)

	return toInventoryRequestResponse(request), nil
}

func (s *inventoryService) Reject(ctx context.Context, requestID, approverID, reason string) (*InventoryRequestResponse, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var request *model.InventoryRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.reqRepo.GetByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: inventory request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		now := time.Now()
		request.Status = model.RequestStatusRejected
		request.ApprovedBy = &approver
		request.ApprovalDate = &now
		request.RejectionReason = reason
		if saveErr := s.reqRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"request_type":     request.RequestType,
			"inventory_number": request.InventoryNumber,
			"reason":           reason,
		})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionRejectRequest,
			EntityID:   request.ID.String(),
			EntityName: request.InventoryNumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Inventory request rejected",
		fmt.Sprintf("%s request for %s was rejected: %s", request.RequestType, request.InventoryNumber, reason),
		model.NotifInventoryRequestUpdate,
	)

	return toInventoryRequestResponse(request), nil
}
