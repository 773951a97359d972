package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/asadfd/erp-deployment/internal/model"
	"github.com/asadfd/erp-deployment/internal/repository"
	"github.com/asadfd/erp-deployment/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubmitEmployeeRequest carries the proposed employee. Dates arrive as
// 2006-01-02 strings because the payload rides a multipart form next to the
// joining-docs archive.
type SubmitEmployeeRequest struct {
	Name        string          `form:"name" binding:"required"`
	EmpID       string          `form:"emp_id" binding:"required"`
	PassportID  string          `form:"passport_id" binding:"required"`
	EmiratesID  string          `form:"emirates_id" binding:"required"`
	JoiningDate string          `form:"joining_date" binding:"required"`
	EndDate     string          `form:"end_date"`
	Salary      decimal.Decimal `form:"salary" binding:"required"`
	PhoneNumber string          `form:"phone_number" binding:"required"`
	Comments    string          `form:"comments"`
}

type EmployeeRequestResponse struct {
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
	Status          string          `json:"status"`
	RequestedBy     uuid.UUID       `json:"requested_by"`
	RequesterName   string          `json:"requester_name"`
	RejectionReason string          `json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	ProcessedAt     *time.Time      `json:"processed_at"`
}

// EmployeeRequestService stages employee creations for super-admin approval.
type EmployeeRequestService interface {
	Submit(ctx context.Context, userID string, req SubmitEmployeeRequest, docs *multipart.FileHeader) (*EmployeeRequestResponse, error)
	ListPending(ctx context.Context) ([]EmployeeRequestResponse, error)
	ListMine(ctx context.Context, userID string) ([]EmployeeRequestResponse, error)
	Approve(ctx context.Context, requestID, approverID string) (*EmployeeRequestResponse, error)
	Reject(ctx context.Context, requestID, approverID, reason string) (*EmployeeRequestResponse, error)
	// DocsPath returns the stored joining-docs path for download.
	DocsPath(ctx context.Context, requestID string) (string, error)
}

type employeeRequestService struct {
	requestRepo  repository.EmployeeRequestRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     NotificationService
	docs         *storage.DocStore
}

func NewEmployeeRequestService(
	requestRepo repository.EmployeeRequestRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier NotificationService,
	docs *storage.DocStore,
) EmployeeRequestService {
	return &employeeRequestService{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifier,
		docs:         docs,
	}
}

func toEmployeeRequestResponse(r *model.EmployeeRequest) *EmployeeRequestResponse {
	res := &EmployeeRequestResponse{
		ID:              r.ID,
		Name:            r.Name,
		EmpID:           r.EmpID,
		PassportID:      r.PassportID,
		EmiratesID:      r.EmiratesID,
		JoiningDate:     r.JoiningDate,
		EndDate:         r.EndDate,
		Salary:          r.Salary,
		PhoneNumber:     r.PhoneNumber,
		Comments:        r.Comments,
		Status:          r.Status,
		RequestedBy:     r.RequestedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		ProcessedAt:     r.ProcessedAt,
	}
	if r.Requester != nil {
		res.RequesterName = r.Requester.Username
	}
	return res
}

// checkUnique rejects a submission whose identifiers collide with a live
// employee or with another request that is still PENDING or already
// APPROVED.
func (s *employeeRequestService) checkUnique(ctx context.Context, req SubmitEmployeeRequest) error {
	type check struct {
		field  string
		value  string
		exists func(context.Context, string) (bool, error)
	}
	checks := []check{
		{"emp_id", req.EmpID, s.employeeRepo.ExistsByEmpID},
		{"passport_id", req.PassportID, s.employeeRepo.ExistsByPassportID},
		{"emirates_id", req.EmiratesID, s.employeeRepo.ExistsByEmiratesID},
	}
	for _, c := range checks {
		exists, err := c.exists(ctx, c.value)
		if err != nil {
			return err
		}
		if !exists {
			exists, err = s.requestRepo.ExistsActiveByField(ctx, c.field, c.value)
			if err != nil {
				return err
			}
		}
		if exists {
			return fmt.Errorf("%w: %s %q is already in use", ErrConflict, c.field, c.value)
		}
	}
	return nil
}

func (s *employeeRequestService) Submit(ctx context.Context, userID string, req SubmitEmployeeRequest, docs *multipart.FileHeader) (*EmployeeRequestResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	joiningDate, err := time.Parse("2006-01-02", req.JoiningDate)
	if err != nil {
		return nil, fmt.Errorf("%w: joining_date must be YYYY-MM-DD", ErrValidation)
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, parseErr := time.Parse("2006-01-02", req.EndDate)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrValidation)
		}
		endDate = &parsed
	}

	if err := s.checkUnique(ctx, req); err != nil {
		return nil, err
	}

	var docsPath string
	if docs != nil {
		docsPath, err = s.docs.SaveDoc(docs, req.PassportID, req.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	request := &model.EmployeeRequest{
		Name:            req.Name,
		EmpID:           req.EmpID,
		PassportID:      req.PassportID,
		EmiratesID:      req.EmiratesID,
		JoiningDate:     joiningDate,
		EndDate:         endDate,
		Salary:          req.Salary,
		PhoneNumber:     req.PhoneNumber,
		Comments:        req.Comments,
		JoiningDocsPath: docsPath,
		Status:          model.RequestStatusPending,
		RequestedBy:     requesterID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requestRepo.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create employee request: %w", createErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"emp_id": req.EmpID,
			"name":   req.Name,
		})
		audit := &model.AuditLog{
			UserID:     &requesterID,
			Action:     model.ActionSubmitEmployeeRequest,
			EntityID:   request.ID.String(),
			EntityName: req.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notify approvers outside the transaction; a notification failure must
	// not roll the request back.
	_ = s.notifier.NotifySuperAdmins(ctx,
		"Employee request pending",
		fmt.Sprintf("New employee request for %s (%s) awaits approval", req.Name, req.EmpID),
		model.NotifEmployeeRequestCreated,
	)

	return toEmployeeRequestResponse(request), nil
}

func (s *employeeRequestService) ListPending(ctx context.Context) ([]EmployeeRequestResponse, error) {
	requests, err := s.requestRepo.ListByStatus(ctx, model.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	res := make([]EmployeeRequestResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toEmployeeRequestResponse(&requests[i]))
	}
	return res, nil
}

func (s *employeeRequestService) ListMine(ctx context.Context, userID string) ([]EmployeeRequestResponse, error) {
	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	requests, err := s.requestRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	res := make([]EmployeeRequestResponse, 0, len(requests))
	for i := range requests {
		res = append(res, *toEmployeeRequestResponse(&requests[i]))
	}
	return res, nil
}

func (s *employeeRequestService) Approve(ctx context.Context, requestID, approverID string) (*EmployeeRequestResponse, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request id", ErrValidation)
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var request *model.EmployeeRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.requestRepo.GetByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: employee request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		employee := &model.Employee{
			Name:            request.Name,
			EmpID:           request.EmpID,
			PassportID:      request.PassportID,
			EmiratesID:      request.EmiratesID,
			JoiningDate:     request.JoiningDate,
			EndDate:         request.EndDate,
			Salary:          request.Salary,
			PhoneNumber:     request.PhoneNumber,
			Comments:        request.Comments,
			JoiningDocsPath: request.JoiningDocsPath,
		}
		if createErr := s.employeeRepo.Create(txCtx, employee); createErr != nil {
			return fmt.Errorf("failed to create employee: %w", createErr)
		}

		now := time.Now()
		request.Status = model.RequestStatusApproved
		request.ApprovedBy = &approver
		request.ProcessedAt = &now
		if saveErr := s.requestRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"emp_id": request.EmpID})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionApproveRequest,
			EntityID:   request.ID.String(),
			EntityName: request.Name,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Employee request approved",
		fmt.Sprintf("Employee %s (%s) has been created", request.Name, request.EmpID),
		model.NotifEmployeeRequestApproved,
	)

	return toEmployeeRequestResponse(request), nil
}

func (s *employeeRequestService) Reject(ctx context.Context, requestID, approverID, reason string) (*EmployeeRequestResponse, error) {
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

	var request *model.EmployeeRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		request, findErr = s.requestRepo.GetByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: employee request", ErrNotFound)
			}
			return findErr
		}
		if request.Status != model.RequestStatusPending {
			return fmt.Errorf("%w: request is already %s", ErrInvalidState, request.Status)
		}

		now := time.Now()
		request.Status = model.RequestStatusRejected
		request.ApprovedBy = &approver
		request.ProcessedAt = &now
		request.RejectionReason = reason
		if saveErr := s.requestRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update request: %w", saveErr)
		}

		details, _ := json.Marshal(map[string]interface{}{"emp_id": request.EmpID, "reason": reason})
		audit := &model.AuditLog{
			UserID:     &approver,
			Action:     model.ActionRejectRequest,
			EntityID:   request.ID.String(),
			EntityName: request.Name,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.Notify(ctx, request.RequestedBy,
		"Employee request rejected",
		fmt.Sprintf("Request for %s was rejected: %s", request.Name, reason),
		model.NotifEmployeeRequestRejected,
	)

	return toEmployeeRequestResponse(request), nil
}

func (s *employeeRequestService) DocsPath(ctx context.Context, requestID string) (string, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return "", fmt.Errorf("%w: invalid request id", ErrValidation)
	}
	request, err := s.requestRepo.GetByID(ctx, reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: employee request", ErrNotFound)
		}
		return "", err
	}
	if request.JoiningDocsPath == "" {
		return "", fmt.Errorf("%w: no documents attached", ErrNotFound)
	}
	return request.JoiningDocsPath, nil
}
