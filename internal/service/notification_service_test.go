package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadfd/erp-deployment/internal/model"
)

func TestNotifyPersistsAndLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "alice", model.RoleUser)

	if err := f.notifications.Notify(ctx, user.ID, "Heads up", "something happened", model.NotifMRFUpdate); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	unread, err := f.notifications.ListUnreadForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListUnreadForUser: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("unread = %d, want 1", len(unread))
	}
	if unread[0].Title != "Heads up" || unread[0].IsRead {
		t.Errorf("notification = %+v", unread[0])
	}

	count, err := f.notifications.CountUnread(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestNotifySuperAdminsFansOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bossA := f.seedUser(t, "bossA", model.RoleSuperAdmin)
	bossB := f.seedUser(t, "bossB", model.RoleSuperAdmin)
	user := f.seedUser(t, "alice", model.RoleUser)

	if err := f.notifications.NotifySuperAdmins(ctx, "Approval needed", "a request is pending", model.NotifPOApprovalRequired); err != nil {
		t.Fatalf("NotifySuperAdmins: %v", err)
	}

	for _, boss := range []string{bossA.ID.String(), bossB.ID.String()} {
		if n := f.countNotifications(t, boss, model.NotifPOApprovalRequired); n != 1 {
			t.Errorf("super-admin %s notifications = %d, want 1", boss, n)
		}
	}
	if n := f.countNotifications(t, user.ID.String(), model.NotifPOApprovalRequired); n != 0 {
		t.Errorf("regular user notifications = %d, want 0", n)
	}
}

func TestMarkReadOwnershipAndIdempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", model.RoleUser)
	bob := f.seedUser(t, "bob", model.RoleUser)

	if err := f.notifications.Notify(ctx, alice.ID, "Heads up", "something happened", model.NotifMRFUpdate); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	list, err := f.notifications.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}
	id := list[0].ID

	if err := f.notifications.MarkRead(ctx, bob.ID, id); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign MarkRead err = %v, want ErrForbidden", err)
	}
	if err := f.notifications.MarkRead(ctx, alice.ID, id); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// marking twice is a no-op
	if err := f.notifications.MarkRead(ctx, alice.ID, id); err != nil {
		t.Errorf("second MarkRead: %v", err)
	}

	count, err := f.notifications.CountUnread(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 0 {
		t.Errorf("unread after MarkRead = %d, want 0", count)
	}
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.seedUser(t, "alice", model.RoleUser)

	for i := 0; i < 3; i++ {
		if err := f.notifications.Notify(ctx, alice.ID, "Heads up", "something happened", model.NotifMRFUpdate); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	if err := f.notifications.MarkAllRead(ctx, alice.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	count, err := f.notifications.CountUnread(ctx, alice.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 0 {
		t.Errorf("unread = %d, want 0", count)
	}

	// calling again with nothing unread is fine
	if err := f.notifications.MarkAllRead(ctx, alice.ID); err != nil {
		t.Errorf("second MarkAllRead: %v", err)
	}
}
