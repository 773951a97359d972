package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/shopspring/decimal"
)

func TestInventorySubmitCreateAssignsNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	f.seedInventory(t, "INV0003", "Cement", 10, decimal.NewFromInt(25))

	req, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12)))
	if err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	if req.InventoryNumber != "INV0004" {
		t.Errorf("inventory number = %q, want INV0004", req.InventoryNumber)
	}
	if req.Status != model.RequestStatusPending {
		t.Errorf("status = %q, want PENDING", req.Status)
	}
	if want := decimal.NewFromInt(480); !req.TotalPrice.Equal(want) {
		t.Errorf("total price = %s, want %s", req.TotalPrice, want)
	}
}

func TestInventoryNumberSkipsPendingRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)

	first, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12)))
	if err != nil {
		t.Fatalf("first SubmitCreate: %v", err)
	}
	second, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Copper Wire", 5, decimal.NewFromInt(3)))
	if err != nil {
		t.Fatalf("second SubmitCreate: %v", err)
	}
	if first.InventoryNumber == second.InventoryNumber {
		t.Errorf("two pending CREATE requests share number %q", first.InventoryNumber)
	}
}

func TestInventoryApproveCreateMaterializes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	approver := f.seedUser(t, "boss", model.RoleSuperAdmin)

	req, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12)))
	if err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}

	approved, err := f.inventory.Approve(ctx, req.ID.String(), approver.ID.String())
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("status = %q, want APPROVED", approved.Status)
	}

	var live model.Inventory
	if err := f.db.First(&live, "inventory_number = ?", req.InventoryNumber).Error; err != nil {
		t.Fatalf("live row not created: %v", err)
	}
	if live.Quantity != 40 {
		t.Errorf("live quantity = %d, want 40", live.Quantity)
	}
	if want := decimal.NewFromInt(480); !live.TotalPrice.Equal(want) {
		t.Errorf("live total = %s, want %s", live.TotalPrice, want)
	}

	// requester was notified of the decision
	if n := f.countNotifications(t, requester.ID.String(), model.NotifInventoryRequestUpdate); n == 0 {
		t.Error("requester has no decision notification")
	}
}

func TestInventoryApproveIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	approver := f.seedUser(t, "boss", model.RoleSuperAdmin)

	req, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12)))
	if err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	if _, err := f.inventory.Approve(ctx, req.ID.String(), approver.ID.String()); err != nil {
		t.Fatalf("first Approve: %v", err)
	}

	if _, err := f.inventory.Approve(ctx, req.ID.String(), approver.ID.String()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Approve err = %v, want ErrInvalidState", err)
	}
	if _, err := f.inventory.Reject(ctx, req.ID.String(), approver.ID.String(), "changed my mind"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Reject after Approve err = %v, want ErrInvalidState", err)
	}
}

func TestInventoryRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	approver := f.seedUser(t, "boss", model.RoleSuperAdmin)

	req, err := f.inventory.SubmitCreate(ctx, requester.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12)))
	if err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}

	if _, err := f.inventory.Reject(ctx, req.ID.String(), approver.ID.String(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("Reject with empty reason err = %v, want ErrValidation", err)
	}

	rejected, err := f.inventory.Reject(ctx, req.ID.String(), approver.ID.String(), "no budget this quarter")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != model.RequestStatusRejected {
		t.Errorf("status = %q, want REJECTED", rejected.Status)
	}
	if rejected.RejectionReason != "no budget this quarter" {
		t.Errorf("rejection reason = %q", rejected.RejectionReason)
	}

	// a rejected CREATE never reaches the live table
	var count int64
	f.db.Model(&model.Inventory{}).Count(&count)
	if count != 0 {
		t.Errorf("live inventory rows = %d, want 0", count)
	}
}

func TestInventoryApproveUpdateMaterializes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	approver := f.seedUser(t, "boss", model.RoleSuperAdmin)
	target := f.seedInventory(t, "INV0001", "Cement", 10, decimal.NewFromInt(25))

	payload := testInventoryPayload("Cement Grade II", 30, decimal.NewFromInt(20))
	req, err := f.inventory.SubmitUpdate(ctx, requester.ID.String(), target.ID.String(), payload)
	if err != nil {
		t.Fatalf("SubmitUpdate: %v", err)
	}
	if req.InventoryNumber != "INV0001" {
		t.Errorf("update request number = %q, want the target's INV0001", req.InventoryNumber)
	}

	if _, err := f.inventory.Approve(ctx, req.ID.String(), approver.ID.String()); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	var live model.Inventory
	if err := f.db.First(&live, "id = ?", target.ID).Error; err != nil {
		t.Fatalf("reload target: %v", err)
	}
	if live.Name != "Cement Grade II" || live.Quantity != 30 {
		t.Errorf("target not updated: name=%q qty=%d", live.Name, live.Quantity)
	}
	if want := decimal.NewFromInt(600); !live.TotalPrice.Equal(want) {
		t.Errorf("total = %s, want %s", live.TotalPrice, want)
	}
}

func TestInventoryApproveDeleteRemovesRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)
	approver := f.seedUser(t, "boss", model.RoleSuperAdmin)
	target := f.seedInventory(t, "INV0001", "Cement", 10, decimal.NewFromInt(25))

	req, err := f.inventory.SubmitDelete(ctx, requester.ID.String(), target.ID.String())
	if err != nil {
		t.Fatalf("SubmitDelete: %v", err)
	}
	if _, err := f.inventory.Approve(ctx, req.ID.String(), approver.ID.String()); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	var count int64
	f.db.Model(&model.Inventory{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("target row still present after approved DELETE")
	}
}

func TestInventorySubmitUpdateUnknownTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "pm", model.RoleProjectManager)

	_, err := f.inventory.SubmitUpdate(ctx, requester.ID.String(), "6a6f1c2e-0000-0000-0000-000000000000", testInventoryPayload("Ghost", 1, decimal.NewFromInt(1)))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInventoryListMyRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", model.RoleProjectManager)
	bob := f.seedUser(t, "bob", model.RoleProjectManager)

	if _, err := f.inventory.SubmitCreate(ctx, alice.ID.String(), testInventoryPayload("Steel Rods", 40, decimal.NewFromInt(12))); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}

	mine, err := f.inventory.ListMyRequests(ctx, alice.ID.String())
	if err != nil {
		t.Fatalf("ListMyRequests: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("alice requests = %d, want 1", len(mine))
	}

	theirs, err := f.inventory.ListMyRequests(ctx, bob.ID.String())
	if err != nil {
		t.Fatalf("ListMyRequests: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("bob requests = %d, want 0", len(theirs))
	}
}
