package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func employeeSubmission(name, empID string) SubmitEmployeeRequest {
	return SubmitEmployeeRequest{
		Name:        name,
		EmpID:       empID,
		PassportID:  "P-" + empID,
		EmiratesID:  "E-" + empID,
		JoiningDate: "2025-03-01",
		Salary:      decimal.NewFromInt(7500),
		PhoneNumber: "0501234567",
	}
}

func TestEmployeeRequestSubmitAndApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.seedUser(t, "hr", model.RoleHRManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	req, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Status != model.RequestStatusPending {
		t.Errorf("status = %q, want PENDING", req.Status)
	}
	if n := f.countNotifications(t, boss.ID.String(), model.NotifEmployeeRequestCreated); n != 1 {
		t.Errorf("super-admin submit notifications = %d, want 1", n)
	}

	approved, err := f.employeeReqs.Approve(ctx, req.ID.String(), boss.ID.String())
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("status = %q, want APPROVED", approved.Status)
	}
	if approved.ProcessedAt == nil {
		t.Error("approval should stamp ProcessedAt")
	}

	emp, err := f.employees.GetByEmpID(ctx, "EMP-100")
	if err != nil {
		t.Fatalf("employee not materialized: %v", err)
	}
	if emp.Name != "Jordan Malik" || !emp.Salary.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("materialized employee = %+v", emp)
	}

	if _, err := f.employeeReqs.Approve(ctx, req.ID.String(), boss.ID.String()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Approve err = %v, want ErrInvalidState", err)
	}
}

func TestEmployeeRequestUniquenessAgainstLiveEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.seedUser(t, "hr", model.RoleHRManager)
	f.seedEmployee(t, "Existing Person", "EMP-100")

	_, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate emp_id err = %v, want ErrConflict", err)
	}

	// distinct emp_id but a passport already on file
	sub := employeeSubmission("Jordan Malik", "EMP-200")
	sub.PassportID = "P-EMP-100"
	if _, err := f.employeeReqs.Submit(ctx, hr.ID.String(), sub, nil); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate passport err = %v, want ErrConflict", err)
	}
}

func TestEmployeeRequestUniquenessAgainstActiveRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.seedUser(t, "hr", model.RoleHRManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	first, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// a second submission with the same identifiers while the first is pending
	if _, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil); !errors.Is(err, ErrConflict) {
		t.Errorf("pending duplicate err = %v, want ErrConflict", err)
	}

	// after a rejection the identifiers are free again
	if _, err := f.employeeReqs.Reject(ctx, first.ID.String(), boss.ID.String(), "incomplete paperwork"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil); err != nil {
		t.Errorf("resubmission after rejection: %v", err)
	}
}

func TestEmployeeRequestRejectNeedsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.seedUser(t, "hr", model.RoleHRManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	req, err := f.employeeReqs.Submit(ctx, hr.ID.String(), employeeSubmission("Jordan Malik", "EMP-100"), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.employeeReqs.Reject(ctx, req.ID.String(), boss.ID.String(), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("reject without reason err = %v, want ErrValidation", err)
	}

	rejected, err := f.employeeReqs.Reject(ctx, req.ID.String(), boss.ID.String(), "incomplete paperwork")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.RejectionReason != "incomplete paperwork" {
		t.Errorf("rejection reason = %q", rejected.RejectionReason)
	}

	// no employee row was created
	if _, err := f.employees.GetByEmpID(ctx, "EMP-100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("employee lookup err = %v, want ErrNotFound", err)
	}
}

func TestEmployeeRequestBadDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hr := f.seedUser(t, "hr", model.RoleHRManager)

	sub := employeeSubmission("Jordan Malik", "EMP-100")
	sub.JoiningDate = "01/03/2025"
	if _, err := f.employeeReqs.Submit(ctx, hr.ID.String(), sub, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("bad joining date err = %v, want ErrValidation", err)
	}
}

func TestEmployeeRequestDecideUnknownID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	if _, err := f.employeeReqs.Approve(ctx, uuid.NewString(), boss.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Approve unknown request err = %v, want ErrNotFound", err)
	}
	if _, err := f.employeeReqs.Reject(ctx, uuid.NewString(), boss.ID.String(), "wrong person"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reject unknown request err = %v, want ErrNotFound", err)
	}
}
