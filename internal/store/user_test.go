package store

import "testing"

func TestShiftLifecycle(t *testing.T) {
	_, users, _ := setupTestDB(t)

	u, err := users.CreateUser(1, "Avery", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.IsOnShift {
		t.Error("new user should not be on shift")
	}

	if err := users.StartShift(u.ID); err != nil {
		t.Fatalf("start shift: %v", err)
	}
	onShift, err := users.ListOnShift(1)
	if err != nil {
		t.Fatalf("list on shift: %v", err)
	}
	if len(onShift) != 1 || onShift[0].ID != u.ID {
		t.Fatalf("on-shift = %+v, want just %d", onShift, u.ID)
	}

	if err := users.EndShift(u.ID); err != nil {
		t.Fatalf("end shift: %v", err)
	}
	onShift, err = users.ListOnShift(1)
	if err != nil {
		t.Fatalf("list on shift after end: %v", err)
	}
	if len(onShift) != 0 {
		t.Errorf("on-shift after end = %d, want 0", len(onShift))
	}
}

func TestListOnShiftScopedToBusiness(t *testing.T) {
	_, users, _ := setupTestDB(t)

	a, err := users.CreateUser(1, "Avery", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	b, err := users.CreateUser(2, "Blair", true)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := users.StartShift(a.ID); err != nil {
		t.Fatalf("start shift: %v", err)
	}
	if err := users.StartShift(b.ID); err != nil {
		t.Fatalf("start shift: %v", err)
	}

	onShift, err := users.ListOnShift(1)
	if err != nil {
		t.Fatalf("list on shift: %v", err)
	}
	if len(onShift) != 1 || onShift[0].Name != "Avery" {
		t.Errorf("business 1 on-shift = %+v, want just Avery", onShift)
	}
}
