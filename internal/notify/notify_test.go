package notify

import (
	"context"
	"testing"
	"time"

	"lettingscope/internal/models"
	"lettingscope/internal/storage"
)

type fakePusher struct {
	pushed []string // endpoints, one per delivery
	gone   map[string]bool
}

func (f *fakePusher) Push(_ context.Context, sub Subscription, _ []byte) (bool, error) {
	f.pushed = append(f.pushed, sub.Endpoint)
	return f.gone[sub.Endpoint], nil
}

func newTestNotifier(t *testing.T) (*Notifier, *storage.Store, *SubscriptionStore, *fakePusher) {
	t.Helper()
	kv := storage.NewMemKV()
	store := storage.NewStore(kv)
	subs := NewSubscriptionStore(kv)
	pusher := &fakePusher{gone: map[string]bool{}}
	return NewNotifier(store, subs, pusher), store, subs, pusher
}

func TestScanFlipsPendingPastDueToOverdue(t *testing.T) {
	n, store, _, _ := newTestNotifier(t)
	now := models.NowMillis()
	d := models.DefaultAppData()
	d.Bills = []models.Bill{
		{ID: "b1", PropertyID: "p1", Provider: "ACME", Status: models.BillStatusPending, DueDate: now - 1000},
		{ID: "b2", PropertyID: "p1", Provider: "ACME", Status: models.BillStatusPending, DueDate: now + 30*24*int64(time.Hour/time.Millisecond)},
	}
	if err := store.Replace(d); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Scan(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := store.Load()
	if got.Bills[0].Status != models.BillStatusOverdue {
		t.Fatalf("b1 status = %q, want overdue", got.Bills[0].Status)
	}
	if got.Bills[1].Status != models.BillStatusPending {
		t.Fatalf("b2 status = %q, want pending", got.Bills[1].Status)
	}
}

func TestScanCollectsRemindersWithinWindow(t *testing.T) {
	n, store, _, _ := newTestNotifier(t)
	now := models.NowMillis()
	day := int64(24 * time.Hour / time.Millisecond)
	d := models.DefaultAppData() // notificationDaysBefore = 7
	d.Bills = []models.Bill{
		{ID: "b1", PropertyID: "p1", Provider: "ACME", Status: models.BillStatusPending, DueDate: now + 3*day},
		{ID: "b2", PropertyID: "p1", Provider: "ACME", Status: models.BillStatusPaid, Paid: true, DueDate: now + 1*day},
		{ID: "b3", PropertyID: "p1", Provider: "ACME", Status: models.BillStatusPending, DueDate: now + 30*day},
	}
	d.Chasers = []models.Chaser{
		{ID: "c1", Title: "inspect", DueDate: now + 2*day},
		{ID: "c2", Title: "done", DueDate: now + 2*day, Completed: true},
		{ID: "c3", Title: "late", DueDate: now - day},
	}
	if err := store.Replace(d); err != nil {
		t.Fatal(err)
	}
	reminders, err := n.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// b1 due soon, c1 due soon, c3 overdue. Paid, completed and far-future
	// items are skipped.
	if len(reminders) != 3 {
		t.Fatalf("reminders = %+v, want 3", reminders)
	}
}

func TestDispatchDropsGoneSubscriptions(t *testing.T) {
	n, _, subs, pusher := newTestNotifier(t)
	if err := subs.Add(Subscription{Endpoint: "https://push/a", P256dh: "k", Auth: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := subs.Add(Subscription{Endpoint: "https://push/b", P256dh: "k", Auth: "a"}); err != nil {
		t.Fatal(err)
	}
	pusher.gone["https://push/b"] = true

	n.Dispatch(context.Background(), []Reminder{{Title: "t", Body: "b"}})
	if len(pusher.pushed) != 2 {
		t.Fatalf("pushed = %v", pusher.pushed)
	}
	remaining, err := subs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].Endpoint != "https://push/a" {
		t.Fatalf("remaining = %+v", remaining)
	}
}

func TestSubscriptionStoreReplacesByEndpoint(t *testing.T) {
	kv := storage.NewMemKV()
	subs := NewSubscriptionStore(kv)
	if err := subs.Add(Subscription{Endpoint: "https://push/a", P256dh: "k1", Auth: "a1"}); err != nil {
		t.Fatal(err)
	}
	if err := subs.Add(Subscription{Endpoint: "https://push/a", P256dh: "k2", Auth: "a2"}); err != nil {
		t.Fatal(err)
	}
	got, err := subs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].P256dh != "k2" {
		t.Fatalf("subs = %+v", got)
	}
	if err := subs.Remove("https://push/a"); err != nil {
		t.Fatal(err)
	}
	if got, _ := subs.List(); len(got) != 0 {
		t.Fatalf("subs after remove = %+v", got)
	}
}
