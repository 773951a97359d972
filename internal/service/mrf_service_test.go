package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mrfPayload(items ...MRFItemPayload) MRFPayload {
	return MRFPayload{
		RequestorName:       "Site Office",
		RequestorDepartment: "Operations",
		ReasonJustification: "restock",
		Items:               items,
	}
}

func mrfItem(desc string, qty int, unitPrice string) MRFItemPayload {
	return MRFItemPayload{
		ItemDescription: desc,
		Quantity:        qty,
		UnitPrice:       decimal.RequireFromString(unitPrice),
	}
}

func TestMRFCreateDerivesTotalsAndTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(
		mrfItem("Safety helmets", 10, "35.50"),
		mrfItem("Gloves", 20, "4.25"),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mrf.MRFNumber != "MRF0001" {
		t.Errorf("number = %q, want MRF0001", mrf.MRFNumber)
	}
	if want := decimal.RequireFromString("440.00"); !mrf.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", mrf.TotalAmount, want)
	}
	if mrf.RequiresSuperadmin {
		t.Error("440.00 should not require super-admin approval")
	}
	if len(mrf.Items) != 2 {
		t.Errorf("items = %d, want 2", len(mrf.Items))
	}
}

func TestMRFThresholdBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)

	below, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Pump", 1, "1999.99")))
	if err != nil {
		t.Fatalf("Create below threshold: %v", err)
	}
	if below.RequiresSuperadmin {
		t.Error("1999.99 should be decidable by an admin")
	}

	at, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Generator", 1, "2000.00")))
	if err != nil {
		t.Fatalf("Create at threshold: %v", err)
	}
	if !at.RequiresSuperadmin {
		t.Error("2000.00 must require super-admin approval")
	}
}

func TestMRFAdminCannotDecideHighTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Crane rental", 1, "15000")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.mrfs.Approve(ctx, mrf.ID.String(), admin.ID.String(), model.RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin approve err = %v, want ErrForbidden", err)
	}
	if _, err := f.mrfs.Reject(ctx, mrf.ID.String(), admin.ID.String(), model.RoleAdmin, "too expensive"); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin reject err = %v, want ErrForbidden", err)
	}

	approved, err := f.mrfs.Approve(ctx, mrf.ID.String(), boss.ID.String(), model.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("super-admin approve: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("status = %q, want APPROVED", approved.Status)
	}
}

func TestMRFAdminDecidesLowTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)
	admin := f.seedUser(t, "admin", model.RoleAdmin)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Ladders", 2, "120")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	approved, err := f.mrfs.Approve(ctx, mrf.ID.String(), admin.ID.String(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("admin approve: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("status = %q, want APPROVED", approved.Status)
	}
	if n := f.countNotifications(t, requester.ID.String(), model.NotifMRFUpdate); n == 0 {
		t.Error("requester has no decision notification")
	}
}

func TestMRFListPendingByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)

	if _, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Ladders", 2, "120"))); err != nil {
		t.Fatalf("Create low: %v", err)
	}
	if _, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Crane rental", 1, "15000"))); err != nil {
		t.Fatalf("Create high: %v", err)
	}

	all, err := f.mrfs.ListPending(ctx, model.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("ListPending super-admin: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("super-admin sees %d pending, want 2", len(all))
	}

	lowOnly, err := f.mrfs.ListPending(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("ListPending admin: %v", err)
	}
	if len(lowOnly) != 1 {
		t.Fatalf("admin sees %d pending, want 1", len(lowOnly))
	}
	if lowOnly[0].RequiresSuperadmin {
		t.Error("admin pending list contains a high-tier form")
	}

	if _, err := f.mrfs.ListPending(ctx, model.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Errorf("user ListPending err = %v, want ErrForbidden", err)
	}
}

func TestMRFUpdateOnlyRequesterWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)
	other := f.seedUser(t, "bob", model.RoleUser)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Ladders", 2, "120")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.mrfs.Update(ctx, other.ID.String(), mrf.ID.String(), mrfPayload(mrfItem("Ladders", 1, "120"))); !errors.Is(err, ErrForbidden) {
		t.Errorf("other user update err = %v, want ErrForbidden", err)
	}

	// replacing the items moves the form across the approval threshold
	updated, err := f.mrfs.Update(ctx, requester.ID.String(), mrf.ID.String(), mrfPayload(mrfItem("Excavator", 1, "30000")))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.RequiresSuperadmin {
		t.Error("updated form should require super-admin approval")
	}
	if want := decimal.NewFromInt(30000); !updated.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", updated.TotalAmount, want)
	}

	if _, err := f.mrfs.Approve(ctx, mrf.ID.String(), boss.ID.String(), model.RoleSuperAdmin); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.mrfs.Update(ctx, requester.ID.String(), mrf.ID.String(), mrfPayload(mrfItem("Ladders", 1, "120"))); !errors.Is(err, ErrInvalidState) {
		t.Errorf("update after approval err = %v, want ErrInvalidState", err)
	}
}

func TestMRFDeleteOnlyWhilePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)
	admin := f.seedUser(t, "admin", model.RoleAdmin)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Ladders", 2, "120")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.mrfs.Reject(ctx, mrf.ID.String(), admin.ID.String(), model.RoleAdmin, "duplicate form"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := f.mrfs.Delete(ctx, requester.ID.String(), mrf.ID.String()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("delete rejected form err = %v, want ErrInvalidState", err)
	}
}

func TestMRFDecisionIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "alice", model.RoleUser)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	mrf, err := f.mrfs.Create(ctx, requester.ID.String(), mrfPayload(mrfItem("Traffic cones", 5, "12.00")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.mrfs.Approve(ctx, mrf.ID.String(), boss.ID.String(), model.RoleSuperAdmin); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := f.mrfs.Approve(ctx, mrf.ID.String(), boss.ID.String(), model.RoleSuperAdmin); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Approve err = %v, want ErrInvalidState", err)
	}
	if _, err := f.mrfs.Reject(ctx, mrf.ID.String(), boss.ID.String(), model.RoleSuperAdmin, "too late"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Reject after approval err = %v, want ErrInvalidState", err)
	}
}

func TestMRFDecideUnknownID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	if _, err := f.mrfs.Approve(ctx, uuid.NewString(), boss.ID.String(), model.RoleSuperAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("Approve unknown MRF err = %v, want ErrNotFound", err)
	}
	if _, err := f.mrfs.Reject(ctx, uuid.NewString(), boss.ID.String(), model.RoleSuperAdmin, "no such form"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reject unknown MRF err = %v, want ErrNotFound", err)
	}
}
