package store

import "testing"

func TestSubscriptionUpsert(t *testing.T) {
	_, _, push := setupTestDB(t)

	sub, err := push.CreateSubscription(1, nil, "https://push.example/abc", "p256dh-1", "auth-1", "bar tablet")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub == nil || sub.ID == 0 {
		t.Fatal("expected created subscription")
	}

	// Same endpoint again — keys should be replaced, not duplicated
	again, err := push.CreateSubscription(1, nil, "https://push.example/abc", "p256dh-2", "auth-2", "bar tablet")
	if err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if again.P256dhKey != "p256dh-2" {
		t.Errorf("p256dh = %q, want replaced key", again.P256dhKey)
	}

	subs, err := push.ListByBusiness(1)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("subscriptions = %d, want 1 after upsert", len(subs))
	}
}

func TestDeleteByEndpoint(t *testing.T) {
	_, _, push := setupTestDB(t)

	if _, err := push.CreateSubscription(1, nil, "https://push.example/gone", "k", "a", ""); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if err := push.DeleteByEndpoint("https://push.example/gone"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}

	subs, err := push.ListByBusiness(1)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("subscriptions = %d, want 0 after delete", len(subs))
	}
}
