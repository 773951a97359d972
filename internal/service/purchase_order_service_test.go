package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func poRequestFor(projectID string, items ...POItemPayload) CreatePORequest {
	return CreatePORequest{
		ProjectID:    projectID,
		SupplierName: "Acme Supplies",
		PaymentTerms: "NET 30",
		Items:        items,
	}
}

func TestPOCreateBySuperAdminAutoApproves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	po, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10,
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !po.IsApproved {
		t.Error("super-admin PO should be approved on creation")
	}
	if want := decimal.NewFromInt(250); !po.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s (inventory unit price fallback)", po.TotalAmount, want)
	}

	var reloaded model.Project
	if err := f.db.First(&reloaded, "id = ?", project.ID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if reloaded.ProjectStage != model.ProjectStageOrder {
		t.Errorf("project stage = %q, want %q", reloaded.ProjectStage, model.ProjectStageOrder)
	}

	// nothing awaits approval and nobody is nagged
	pending, err := f.pos.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("ListPendingRequests: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending requests = %d, want 0", len(pending))
	}
	if n := f.countNotifications(t, "", model.NotifPOApprovalRequired); n != 0 {
		t.Errorf("approval-required notifications = %d, want 0", n)
	}
}

func TestPOCreateByManagerAwaitsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.seedUser(t, "pm", model.RoleProjectManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	po, err := f.pos.Create(ctx, manager.ID.String(), model.RoleProjectManager, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10,
		UnitPrice:   decimal.NewFromInt(30),
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if po.IsApproved {
		t.Error("manager PO must not be approved on creation")
	}
	if want := decimal.NewFromInt(300); !po.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s (explicit unit price)", po.TotalAmount, want)
	}

	pending, err := f.pos.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("ListPendingRequests: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending requests = %d, want 1", len(pending))
	}
	if n := f.countNotifications(t, boss.ID.String(), model.NotifPOApprovalRequired); n != 1 {
		t.Errorf("super-admin approval notifications = %d, want 1", n)
	}

	approved, err := f.pos.ApproveRequest(ctx, pending[0].ID.String(), boss.ID.String())
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if approved.Status != model.RequestStatusApproved {
		t.Errorf("request status = %q, want APPROVED", approved.Status)
	}

	got, err := f.pos.Get(ctx, po.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.IsApproved {
		t.Error("PO not approved after request approval")
	}

	var reloaded model.Project
	if err := f.db.First(&reloaded, "id = ?", project.ID).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if reloaded.ProjectStage != model.ProjectStageOrder {
		t.Errorf("project stage = %q, want %q", reloaded.ProjectStage, model.ProjectStageOrder)
	}
}

func TestPORejectCancelsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.seedUser(t, "pm", model.RoleProjectManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	po, err := f.pos.Create(ctx, manager.ID.String(), model.RoleProjectManager, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10,
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	pending, err := f.pos.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("ListPendingRequests: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending requests = %d, want 1", len(pending))
	}

	if _, err := f.pos.RejectRequest(ctx, pending[0].ID.String(), boss.ID.String(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("reject without reason err = %v, want ErrValidation", err)
	}

	rejected, err := f.pos.RejectRequest(ctx, pending[0].ID.String(), boss.ID.String(), "supplier not vetted")
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if rejected.Status != model.RequestStatusRejected {
		t.Errorf("request status = %q, want REJECTED", rejected.Status)
	}

	got, err := f.pos.Get(ctx, po.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.POStatus != model.POStatusCancelled {
		t.Errorf("PO status = %q, want CANCELLED", got.POStatus)
	}
	if got.IsApproved {
		t.Error("rejected PO must not be approved")
	}
}

func TestPOBudgetAlertAtHalfBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	// 100 leaves 900 > 500 remaining: no alert
	if _, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    4,
	})); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if n := f.countNotifications(t, boss.ID.String(), model.NotifBudgetAlert); n != 0 {
		t.Fatalf("budget alerts after first PO = %d, want 0", n)
	}

	// another 400 brings spend to 500, remaining 500 <= half: alert fires
	if _, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    16,
	})); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if n := f.countNotifications(t, boss.ID.String(), model.NotifBudgetAlert); n != 1 {
		t.Errorf("budget alerts after second PO = %d, want 1", n)
	}
}

func TestPOCreateFromShortage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 5, decimal.NewFromInt(25))

	// stock covers 5 of 8: shortage 3
	item, err := f.projects.AllocateInventory(ctx, project.ID.String(), AllocateInventoryRequest{
		InventoryID:      inv.ID.String(),
		RequiredQuantity: 8,
	})
	if err != nil {
		t.Fatalf("AllocateInventory: %v", err)
	}
	if item.ShortageQuantity != 3 {
		t.Fatalf("shortage = %d, want 3", item.ShortageQuantity)
	}

	po, err := f.pos.CreateFromShortage(ctx, boss.ID.String(), model.RoleSuperAdmin, CreatePOFromShortageRequest{
		ProjectInventoryItemID: item.ID.String(),
		SupplierName:           "Acme Supplies",
	})
	if err != nil {
		t.Fatalf("CreateFromShortage: %v", err)
	}
	if len(po.Items) != 1 || po.Items[0].QuantityOrdered != 3 {
		t.Fatalf("PO should order exactly the shortage quantity, got %+v", po.Items)
	}

	if _, err := f.pos.CreateFromShortage(ctx, boss.ID.String(), model.RoleSuperAdmin, CreatePOFromShortageRequest{
		ProjectInventoryItemID: item.ID.String(),
		SupplierName:           "Acme Supplies",
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("second CreateFromShortage err = %v, want ErrConflict", err)
	}
}

func TestPOStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	po, err := f.pos.Create(ctx, boss.ID.String(), model.RoleSuperAdmin, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    10,
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.pos.UpdateStatus(ctx, po.ID.String(), "SHIPPED"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status err = %v, want ErrValidation", err)
	}

	completed, err := f.pos.UpdateStatus(ctx, po.ID.String(), model.POStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus COMPLETED: %v", err)
	}
	if completed.ActualDeliveryDate == nil {
		t.Error("completion should stamp the actual delivery date")
	}

	cancelled, err := f.pos.UpdateStatus(ctx, po.ID.String(), model.POStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus CANCELLED: %v", err)
	}
	if cancelled.POStatus != model.POStatusCancelled {
		t.Fatalf("status = %q, want CANCELLED", cancelled.POStatus)
	}
	if _, err := f.pos.UpdateStatus(ctx, po.ID.String(), model.POStatusCreated); !errors.Is(err, ErrInvalidState) {
		t.Errorf("reviving a cancelled PO err = %v, want ErrInvalidState", err)
	}
}

func TestPORequestDecisionIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.seedUser(t, "pm", model.RoleProjectManager)
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)
	project := f.seedProject(t, decimal.NewFromInt(100000), decimal.Zero, decimal.Zero)
	inv := f.seedInventory(t, "INV0001", "Cement", 100, decimal.NewFromInt(25))

	if _, err := f.pos.Create(ctx, manager.ID.String(), model.RoleProjectManager, poRequestFor(project.ID.String(), POItemPayload{
		InventoryID: inv.ID.String(),
		Quantity:    5,
	})); err != nil {
		t.Fatalf("Create: %v", err)
	}
	pending, err := f.pos.ListPendingRequests(ctx)
	if err != nil {
		t.Fatalf("ListPendingRequests: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending requests = %d, want 1", len(pending))
	}
	reqID := pending[0].ID.String()

	if _, err := f.pos.ApproveRequest(ctx, reqID, boss.ID.String()); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if _, err := f.pos.ApproveRequest(ctx, reqID, boss.ID.String()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second ApproveRequest err = %v, want ErrInvalidState", err)
	}
	if _, err := f.pos.RejectRequest(ctx, reqID, boss.ID.String(), "changed mind"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RejectRequest after approval err = %v, want ErrInvalidState", err)
	}
}

func TestPORequestDecideUnknownID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boss := f.seedUser(t, "boss", model.RoleSuperAdmin)

	if _, err := f.pos.ApproveRequest(ctx, uuid.NewString(), boss.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("ApproveRequest unknown id err = %v, want ErrNotFound", err)
	}
	if _, err := f.pos.RejectRequest(ctx, uuid.NewString(), boss.ID.String(), "no such request"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RejectRequest unknown id err = %v, want ErrNotFound", err)
	}
}
