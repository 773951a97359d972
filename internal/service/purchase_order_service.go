package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type POItemPayload struct {
	InventoryID string          `json:"inventory_id" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // zero means "use the inventory unit price"
	Notes       string          `json:"notes"`
}

type CreatePORequest struct {
	ProjectID            string          `json:"project_id" binding:"required"`
	SupplierName         string          `json:"supplier_name" binding:"required"`
	SupplierContact      string          `json:"supplier_contact"`
	SupplierEmail        string          `json:"supplier_email"`
	SupplierAddress      string          `json:"supplier_address"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	PaymentTerms         string          `json:"payment_terms"`
	Notes                string          `json:"notes"`
	Items                []POItemPayload `json:"items" binding:"required,min=1,dive"`
}

type CreatePOFromShortageRequest struct {
	ProjectInventoryItemID string     `json:"project_inventory_item_id" binding:"required"`
	SupplierName           string     `json:"supplier_name" binding:"required"`
	SupplierContact        string     `json:"supplier_contact"`
	SupplierEmail          string     `json:"supplier_email"`
	SupplierAddress        string     `json:"supplier_address"`
	ExpectedDeliveryDate   *time.Time `json:"expected_delivery_date"`
	PaymentTerms           string     `json:"payment_terms"`
}

type POItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	InventoryID      uuid.UUID       `json:"inventory_id"`
	InventoryName    string          `json:"inventory_name"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

type POResponse struct {
	ID                   uuid.UUID        `json:"id"`
	PONumber             string           `json:"po_number"`
	ProjectID            uuid.UUID        `json:"project_id"`
	SupplierName         string           `json:"supplier_name"`
	SupplierContact      string           `json:"supplier_contact"`
	SupplierEmail        string           `json:"supplier_email"`
	SupplierAddress      string           `json:"supplier_address"`
	POStatus             string           `json:"po_status"`
	IsApproved           bool             `json:"is_approved"`
	TotalAmount          decimal.Decimal  `json:"total_amount"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time       `json:"actual_delivery_date"`
	PaymentTerms         string           `json:"payment_terms"`
	Notes                string           `json:"notes"`
	CreatedBy            uuid.UUID        `json:"created_by"`
	CreatedAt            time.Time        `json:"created_at"`
	Items                []POItemResponse `json:"items,omitempty"`
}

type PORequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	PurchaseOrderID uuid.UUID  `json:"purchase_order_id"`
	PONumber        string     `json:"po_number"`
	Status          string     `json:"status"`
	RequestedBy     uuid.UUID  `json:"requested_by"`
	RequesterName   string     `json:"requester_name"`
	RequestDate     time.Time  `json:"request_date"`
	RejectionReason string     `json:"rejection_reason"`
	ApprovalDate    *time.Time `json:"approval_date"`
}

// PurchaseOrderService issues purchase orders against projects. Super-admin
// creations are approved immediately; everyone else's wait in a pending
// request that only a super-admin can decide.
type PurchaseOrderService interface {
	Create(ctx context.Context, userID, userRole string, req CreatePORequest) (*POResponse, error)
	CreateFromShortage(ctx context.Context, userID, userRole string, req CreatePOFromShortageRequest) (*POResponse, error)
	Get(ctx context.Context, id string) (*POResponse, error)
	List(ctx context.Context, page, limit int) ([]POResponse, int64, error)
	ListByProject(ctx context.Context, projectID string) ([]POResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*POResponse, error)
	Delete(ctx context.Context, id string) error
	ListPendingRequests(ctx context.Context) ([]PORequestResponse, error)
	ApproveRequest(ctx context.Context, requestID, approverID string) (*PORequestResponse, error)
	RejectRequest(ctx context.Context, requestID, approverID, reason string) (*PORequestResponse, error)
}

type purchaseOrderService struct {
	poRepo      repository.PurchaseOrderRepository
	projectRepo repository.ProjectRepository
	invRepo     repository.InventoryRepository
	projInvRepo repository.ProjectInventoryRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	notifier    NotificationService
}

func NewPurchaseOrderService(
	poRepo repository.PurchaseOrderRepository,
	projectRepo repository.ProjectRepository,
	invRepo repository.InventoryRepository,
	projInvRepo repository.ProjectInventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier NotificationService,
) PurchaseOrderService {
	return &purchaseOrderService{
		poRepo:      poRepo,
		projectRepo: projectRepo,
		invRepo:     invRepo,
		projInvRepo: projInvRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

func toPOResponse(po *model.PurchaseOrder, items []model.PurchaseOrderItem) *POResponse {
	res := &POResponse{
		ID:                   po.ID,
		PONumber:             po.PONumber,
		ProjectID:            po.ProjectID,
		SupplierName:         po.SupplierName,
		SupplierContact:      po.SupplierContact,
		SupplierEmail:        po.SupplierEmail,
		SupplierAddress:      po.SupplierAddress,
		POStatus:             po.POStatus,
		IsApproved:           po.IsApproved,
		TotalAmount:          po.TotalAmount,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		PaymentTerms:         po.PaymentTerms,
		Notes:                po.Notes,
		CreatedBy:            po.CreatedBy,
		CreatedAt:            po.CreatedAt,
	}
	for _, it := range items {
		itemRes := POItemResponse{
			ID:               it.ID,
			InventoryID:      it.InventoryID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       it.TotalPrice,
		}
		if it.Inventory != nil {
			itemRes.InventoryName = it.Inventory.Name
		}
		res.Items = append(res.Items, itemRes)
	}
	return res
}

func toPORequestResponse(r *model.PurchaseOrderRequest) *PORequestResponse {
	res := &PORequestResponse{
		ID:              r.ID,
		PurchaseOrderID: r.PurchaseOrderID,
		Status:          r.Status,
		RequestedBy:     r.RequestedBy,
		RequestDate:     r.RequestDate,
		RejectionReason: r.RejectionReason,
		ApprovalDate:    r.ApprovalDate,
	}
	if r.PurchaseOrder != nil {
		res.PONumber = r.PurchaseOrder.PONumber
	}
	if r.Requester != nil {
		res.RequesterName = r.Requester.Username
	}
	return res
}

// poNumber builds "<projectID>-PO-<unix nanos>". Nanosecond resolution keeps
// the unique index happy when two orders land back to back.
func poNumber(projectID uuid.UUID) string {
	return fmt.Sprintf("%s-PO-%d", projectID, time.Now().UnixNano())
}

func (s *purchaseOrderService) Create(ctx context.Context, userID, userRole string, req CreatePORequest) (*POResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}

	var (
		po    *model.PurchaseOrder
		items []model.PurchaseOrderItem
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		project, findErr := s.projectRepo.GetByID(txCtx, projectID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project", ErrNotFound)
			}
			return findErr
		}

		po = &model.PurchaseOrder{
			PONumber:             poNumber(projectID),
			ProjectID:            projectID,
			SupplierName:         req.SupplierName,
			SupplierContact:      req.SupplierContact,
			SupplierEmail:        req.SupplierEmail,
			SupplierAddress:      req.SupplierAddress,
			POStatus:             model.POStatusCreated,
			ExpectedDeliveryDate: req.ExpectedDeliveryDate,
			PaymentTerms:         req.PaymentTerms,
			Notes:                req.Notes,
			CreatedBy:            creatorID,
		}
		if createErr := s.poRepo.Create(txCtx, po); createErr != nil {
			return fmt.Errorf("failed to create purchase order: %w", createErr)
		}

		total := decimal.Zero
		for _, itemReq := range req.Items {
			invID, parseErr := uuid.Parse(itemReq.InventoryID)
			if parseErr != nil {
				return fmt.Errorf("%w: invalid inventory id %q", ErrValidation, itemReq.InventoryID)
			}
			inv, invErr := s.invRepo.GetByID(txCtx, invID)
			if invErr != nil {
				if errors.Is(invErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: inventory %s", ErrNotFound, itemReq.InventoryID)
				}
				return invErr
			}

			unitPrice := itemReq.UnitPrice
			if unitPrice.IsZero() {
				unitPrice = inv.PerQuantityPrice
			}
			item := model.PurchaseOrderItem{
				PurchaseOrderID: po.ID,
				InventoryID:     invID,
				QuantityOrdered: itemReq.Quantity,
				UnitPrice:       unitPrice,
				Notes:           itemReq.Notes,
			}
			item.Recalculate()
			if itemErr := s.poRepo.CreateItem(txCtx, &item); itemErr != nil {
				return fmt.Errorf("failed to create purchase order item: %w", itemErr)
			}
			items = append(items, item)
			total = total.Add(item.TotalPrice)
		}

		po.TotalAmount = total
		if saveErr := s.poRepo.Update(txCtx, po); saveErr != nil {
			return fmt.Errorf("failed to update purchase order total: %w", saveErr)
		}

		return s.finishCreate(txCtx, po, project, creatorID, userRole)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, po, userRole)
	return toPOResponse(po, items), nil
}

// finishCreate attaches the approval row and, for super-admin creators,
// approves in place and advances the project stage.
func (s *purchaseOrderService) finishCreate(txCtx context.Context, po *model.PurchaseOrder, project *model.Project, creatorID uuid.UUID, userRole string) error {
	request := &model.PurchaseOrderRequest{
		PurchaseOrderID: po.ID,
		Status:          model.RequestStatusPending,
		RequestedBy:     creatorID,
		RequestDate:     time.Now(),
	}

	if userRole == model.RoleSuperAdmin {
		now := time.Now()
		request.Status = model.RequestStatusApproved
		request.ApprovedBy = &creatorID
		request.ApprovalDate = &now

		po.IsApproved = true
		if saveErr := s.poRepo.Update(txCtx, po); saveErr != nil {
			return fmt.Errorf("failed to approve purchase order: %w", saveErr)
		}
		if stageErr := s.advanceStage(txCtx, project); stageErr != nil {
			return stageErr
		}
		s.checkBudget(txCtx, project, po)
	}

	if createErr := s.poRepo.CreateRequest(txCtx, request); createErr != nil {
		return fmt.Errorf("failed to create purchase order request: %w", createErr)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"po_number":    po.PONumber,
		"total_amount": po.TotalAmount,
		"auto_approved": po.IsApproved,
	})
	audit := &model.AuditLog{
		UserID:     &creatorID,
		Action:     model.ActionCreatePurchaseOrder,
		EntityID:   po.ID.String(),
		EntityName: po.PONumber,
		Details:    string(details),
	}
	return s.auditRepo.Log(txCtx, audit)
}

func (s *purchaseOrderService) notifyCreated(ctx context.Context, po *model.PurchaseOrder, userRole string) {
	if userRole == model.RoleSuperAdmin {
		return
	}
	_ = s.notifier.NotifySuperAdmins(ctx,
		"Purchase order pending approval",
		fmt.Sprintf("PO %s (total %s) awaits approval", po.PONumber, po.TotalAmount.StringFixed(2)),
		model.NotifPOApprovalRequired,
	)
}

func (s *purchaseOrderService) advanceStage(txCtx context.Context, project *model.Project) error {
	if project.ProjectStage == model.ProjectStageOrder {
		return nil
	}
	project.ProjectStage = model.ProjectStageOrder
	if err := s.projectRepo.Update(txCtx, project); err != nil {
		return fmt.Errorf("failed to advance project stage: %w", err)
	}
	return nil
}

// checkBudget raises a budget alert when the remaining budget after all
// approved purchase orders drops to half the project budget or less. Alert
// delivery is best-effort and never fails the transaction.
func (s *purchaseOrderService) checkBudget(txCtx context.Context, project *model.Project, latest *model.PurchaseOrder) {
	if !project.ProjectBudget.IsPositive() {
		return
	}

	pos, err := s.poRepo.ListByProject(txCtx, project.ID)
	if err != nil {
		log.Printf("budget check skipped for project %s: %v", project.ID, err)
		return
	}
	spent := decimal.Zero
	for _, po := range pos {
		if po.IsApproved && po.POStatus != model.POStatusCancelled {
			spent = spent.Add(po.TotalAmount)
		}
	}

	remaining := project.ProjectBudget.Sub(spent)
	half := project.ProjectBudget.Div(decimal.NewFromInt(2))
	if remaining.GreaterThan(half) {
		return
	}

	log.Printf("budget alert: project %s remaining %s of %s after PO %s",
		project.ID, remaining.StringFixed(2), project.ProjectBudget.StringFixed(2), latest.PONumber)
	_ = s.notifier.NotifySuperAdmins(txCtx,
		"Project budget alert",
		fmt.Sprintf("Project %s has %s of %s budget remaining after PO %s",
			project.ID, remaining.StringFixed(2), project.ProjectBudget.StringFixed(2), latest.PONumber),
		model.NotifBudgetAlert,
	)
}

func (s *purchaseOrderService) CreateFromShortage(ctx context.Context, userID, userRole string, req CreatePOFromShortageRequest) (*POResponse, error) {
	itemID, err := uuid.Parse(req.ProjectInventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project inventory item id", ErrValidation)
	}

	item, err := s.projInvRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project inventory item", ErrNotFound)
		}
		return nil, err
	}
	if item.ShortageQuantity <= 0 {
		return nil, fmt.Errorf("%w: item has no shortage", ErrInvalidState)
	}
	if item.POCreated {
		return nil, fmt.Errorf("%w: a purchase order was already raised for this shortage", ErrConflict)
	}

	res, err := s.Create(ctx, userID, userRole, CreatePORequest{
		ProjectID:            item.ProjectID.String(),
		SupplierName:         req.SupplierName,
		SupplierContact:      req.SupplierContact,
		SupplierEmail:        req.SupplierEmail,
		SupplierAddress:      req.SupplierAddress,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		PaymentTerms:         req.PaymentTerms,
		Items: []POItemPayload{{
			InventoryID: item.InventoryID.String(),
			Quantity:    item.ShortageQuantity,
			UnitPrice:   item.UnitPrice,
		}},
	})
	if err != nil {
		return nil, err
	}

	item.POCreated = true
	if err := s.projInvRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to flag shortage item: %w", err)
	}
	return res, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, id string) (*POResponse, error) {
	poID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid purchase order id", ErrValidation)
	}
	po, err := s.poRepo.GetByID(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order", ErrNotFound)
		}
		return nil, err
	}
	items, err := s.poRepo.ListItems(ctx, poID)
	if err != nil {
		return nil, err
	}
	return toPOResponse(po, items), nil
}

func (s *purchaseOrderService) List(ctx context.Context, page, limit int) ([]POResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	pos, total, err := s.poRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]POResponse, 0, len(pos))
	for i := range pos {
		res = append(res, *toPOResponse(&pos[i], nil))
	}
	return res, total, nil
}

func (s *purchaseOrderService) ListByProject(ctx context.Context, projectID string) ([]POResponse, error) {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id", ErrValidation)
	}
	pos, err := s.poRepo.ListByProject(ctx, pid)
	if err != nil {
		return nil, err
	}
	res := make([]POResponse, 0, len(pos))
	for i := range pos {
		res = append(res, *toPOResponse(&pos[i], nil))
	}
	return res, nil
}

func (s *purchaseOrderService) UpdateStatus(ctx context.Context, id, status string) (*POResponse, error) {
	if !model.ValidPOStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	poID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid purchase order id", ErrValidation)
	}

	po, err := s.poRepo.GetByID(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase order", ErrNotFound)
		}
		return nil, err
	}
	if po.POStatus == model.POStatusCancelled {
		return nil, fmt.Errorf("%w: cancelled purchase orders cannot change status", ErrInvalidState)
	}

	po.POStatus = status
	if status == model.POStatusCompleted && po.ActualDeliveryDate == nil {
		now := time.Now()
		po.ActualDeliveryDate = &now
	}
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return toPOResponse(po, nil), nil
}

func (s *purchaseOrderService) Delete(ctx context.Context, id string) error {
	poID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid purchase order id", ErrValidation)
	}
	po, err := s.poRepo.GetByID(ctx, poID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: purchase order", ErrNotFound)
		}
		return err
	}
	if po.POStatus != model.POStatusCreated {
		return fmt.Errorf("%w: only purchase orders in CREATED state can be deleted", ErrInvalidState)
	}
	return s.poRepo.DeleteByID(ctx, poID)
}

func (s *purchaseOrderService) ListPendingRequests(ctx context.Context) ([]PORequestResponse, error) {
	requests, err := s.poRepo.ListRequestsByStatus(ctx, model.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	res := make([]PORequestResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toPORequestResponse(&requests[i]))
	}
	return res, nil
}

func (s *purchaseOrderService) ApproveRequest(ctx context.Context, requestID, approverID string) (*PORequestResponse, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var request *model.PurchaseOrderRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.poRepo.GetRequestByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: purchase order request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		po, poErr := s.poRepo.GetByID(txCtx, request.PurchaseOrderID)
		if poErr != nil {
			return fmt.Errorf("failed to load purchase order: %w", poErr)
		}
		project, projErr := s.projectRepo.GetByID(txCtx, po.ProjectID)
		if projErr != nil {
			return fmt.Errorf("failed to load project: %w", projErr)
		}

		now := time.Now()
		request.Status = model.RequestStatusApproved
		request.ApprovedBy = &approver
		request.ApprovalDate = &now
		if saveErr := s.poRepo.UpdateRequest(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		po.IsApproved = true
		if saveErr := s.poRepo.Update(txCtx, po); saveErr != nil {
			return fmt.Errorf("failed to approve purchase order: %w", saveErr)
		}
		if stageErr := s.advanceStage(txCtx, project); stageErr != nil {
			return stageErr
		}
		s.checkBudget(txCtx, project, po)

		details, _ := json.Marshal(map[string]interface{}{"po_number": po.PONumber})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionApproveRequest,
			EntityID:   request.ID.String(),
			EntityName: po.PONumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Purchase order approved",
		"Your purchase order has been approved",
		model.NotifPOApprovalRequired,
	)

	return toPORequestResponse(request), nil
}

func (s *purchaseOrderService) RejectRequest(ctx context.Context, requestID, approverID, reason string) (*PORequestResponse, error) {
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

	var request *model.PurchaseOrderRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.poRepo.GetRequestByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: purchase order request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		po, poErr := s.poRepo.GetByID(txCtx, request.PurchaseOrderID)
		if poErr != nil {
			return fmt.Errorf("failed to load purchase order: %w", poErr)
		}

		now := time.Now()
		request.Status = model.RequestStatusRejected
		request.ApprovedBy = &approver
		request.ApprovalDate = &now
		request.RejectionReason = reason
		if saveErr := s.poRepo.UpdateRequest(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		// A rejected purchase order is dead; cancel it outright.
		po.POStatus = model.POStatusCancelled
		if saveErr := s.poRepo.Update(txCtx, po); saveErr != nil {
			return fmt.Errorf("failed to cancel purchase order: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"po_number": po.PONumber, "reason": reason})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionRejectRequest,
			EntityID:   request.ID.String(),
			EntityName: po.PONumber,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Purchase order rejected",
		fmt.Sprintf("Your purchase order was rejected: %s", reason),
		model.NotifPOApprovalRequired,
	)

	return toPORequestResponse(request), nil
}
