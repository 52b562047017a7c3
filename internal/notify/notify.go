// Package notify scans the store for upcoming and overdue deadlines and
// dispatches web push reminders to subscribed browsers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/robfig/cron/v3"

	"lettingscope/internal/models"
	"lettingscope/internal/storage"
)

// VAPIDKeys is the key pair identifying this server to push services.
type VAPIDKeys struct {
	Public  string
	Private string
}

// Pusher delivers one payload to one subscription. The production
// implementation wraps webpush; tests substitute a recorder.
type Pusher interface {
	// Push returns gone=true when the push service reports the subscription
	// is permanently invalid and should be dropped.
	Push(ctx context.Context, sub Subscription, payload []byte) (gone bool, err error)
}

// WebPusher sends through the Web Push protocol using VAPID authentication.
type WebPusher struct {
	Keys VAPIDKeys
}

// Push implements Pusher.
func (w *WebPusher) Push(_ context.Context, sub Subscription, payload []byte) (bool, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		VAPIDPublicKey:  w.Keys.Public,
		VAPIDPrivateKey: w.Keys.Private,
		TTL:             86400,
	})
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusGone, nil
}

// Reminder is one pending notification produced by a scan.
type Reminder struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier owns the scan and dispatch cycle.
type Notifier struct {
	store  *storage.Store
	subs   *SubscriptionStore
	pusher Pusher
	cron   *cron.Cron
}

// NewNotifier returns a notifier over the given store and subscriptions.
func NewNotifier(store *storage.Store, subs *SubscriptionStore, pusher Pusher) *Notifier {
	return &Notifier{store: store, subs: subs, pusher: pusher}
}

// Scan flips pending bills past their due date to overdue, then collects
// reminders for bills and chasers due within the configured window. The flip
// is persisted; reminder collection is read-only.
func (n *Notifier) Scan(ctx context.Context) ([]Reminder, error) {
	now := models.NowMillis()
	if err := n.flipOverdue(now); err != nil {
		return nil, err
	}

	d := n.store.Load()
	window := int64(d.Settings.NotificationDaysBefore) * 24 * int64(time.Hour/time.Millisecond)
	horizon := now + window

	var reminders []Reminder
	for _, b := range d.Bills {
		if b.Paid || b.Status == models.BillStatusPaid {
			continue
		}
		if b.Status == models.BillStatusOverdue {
			reminders = append(reminders, Reminder{
				Title: "Bill overdue",
				Body:  fmt.Sprintf("%s (%s %.2f) was due %s", billLabel(b), d.Settings.Currency, b.Amount, formatDay(b.DueDate)),
			})
		} else if b.DueDate <= horizon {
			reminders = append(reminders, Reminder{
				Title: "Bill due soon",
				Body:  fmt.Sprintf("%s (%s %.2f) is due %s", billLabel(b), d.Settings.Currency, b.Amount, formatDay(b.DueDate)),
			})
		}
	}
	for _, c := range d.Chasers {
		if c.Completed {
			continue
		}
		if c.DueDate < now {
			reminders = append(reminders, Reminder{
				Title: "Reminder overdue",
				Body:  fmt.Sprintf("%s was due %s", c.Title, formatDay(c.DueDate)),
			})
		} else if c.DueDate <= horizon {
			reminders = append(reminders, Reminder{
				Title: "Reminder due soon",
				Body:  fmt.Sprintf("%s is due %s", c.Title, formatDay(c.DueDate)),
			})
		}
	}
	return reminders, nil
}

// flipOverdue marks pending bills past due as overdue in a single write. No
// activity is recorded for the flip.
func (n *Notifier) flipOverdue(now int64) error {
	return n.store.Update(func(d *models.AppData) error {
		for i := range d.Bills {
			if d.Bills[i].Status == models.BillStatusPending && !d.Bills[i].Paid && d.Bills[i].DueDate < now {
				d.Bills[i].Status = models.BillStatusOverdue
				d.Bills[i].UpdatedAt = now
			}
		}
		return nil
	})
}

// Dispatch pushes every reminder to every subscription, dropping
// subscriptions the push service reports as gone. Delivery failures are
// logged and do not stop the rest of the batch.
func (n *Notifier) Dispatch(ctx context.Context, reminders []Reminder) {
	if len(reminders) == 0 || n.pusher == nil {
		return
	}
	subs, err := n.subs.List()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list push subscriptions", "err", err)
		return
	}
	for _, rem := range reminders {
		payload, _ := json.Marshal(rem)
		for _, sub := range subs {
			gone, err := n.pusher.Push(ctx, sub, payload)
			if err != nil {
				slog.ErrorContext(ctx, "Web push send failed", "err", err, "endpoint", sub.Endpoint)
				continue
			}
			if gone {
				if err := n.subs.Remove(sub.Endpoint); err != nil {
					slog.ErrorContext(ctx, "Failed to drop expired subscription", "err", err, "endpoint", sub.Endpoint)
				}
			}
		}
	}
}

// Run performs one scan-and-dispatch cycle.
func (n *Notifier) Run(ctx context.Context) {
	reminders, err := n.Scan(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Deadline scan failed", "err", err)
		return
	}
	slog.InfoContext(ctx, "Deadline scan complete", "reminders", len(reminders))
	n.Dispatch(ctx, reminders)
}

// Start schedules a daily scan at the given HH:MM local time and returns a
// stop function.
func (n *Notifier) Start(ctx context.Context, at string) (func(), error) {
	var hour, minute int
	if _, err := fmt.Sscanf(at, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("invalid scan time %q: %w", at, err)
	}
	n.cron = cron.New()
	if _, err := n.cron.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), func() { n.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("failed to schedule scan: %w", err)
	}
	n.cron.Start()
	slog.Info("Scheduled daily deadline scan", "at", at)
	return func() { n.cron.Stop() }, nil
}

func billLabel(b models.Bill) string {
	if b.Provider == "" {
		return b.UtilityType
	}
	if b.UtilityType == "" {
		return b.Provider
	}
	return b.UtilityType + " - " + b.Provider
}

func formatDay(millis int64) string {
	return time.UnixMilli(millis).Format("2 Jan 2006")
}
