package handlers

import (
	"context"

	"lettingscope/internal/notify"
	"lettingscope/internal/server/dto"
)

// Subscribe registers a browser push subscription.
func (svc *Services) Subscribe(_ context.Context, req *dto.SubscribeRequest) (*dto.OKResponse, error) {
	if svc.Subs == nil {
		return nil, dto.Internal("push notifications are not configured")
	}
	sub := notify.Subscription{Endpoint: req.Endpoint, P256dh: req.P256dh, Auth: req.Auth}
	if err := svc.Subs.Add(sub); err != nil {
		return nil, dto.StorageError("failed to store subscription").Wrap(err)
	}
	return &dto.OKResponse{OK: true}, nil
}

// Unsubscribe removes a browser push subscription.
func (svc *Services) Unsubscribe(_ context.Context, req *dto.UnsubscribeRequest) (*dto.OKResponse, error) {
	if svc.Subs == nil {
		return nil, dto.Internal("push notifications are not configured")
	}
	if err := svc.Subs.Remove(req.Endpoint); err != nil {
		return nil, dto.StorageError("failed to remove subscription").Wrap(err)
	}
	return &dto.OKResponse{OK: true}, nil
}

// VAPIDKey exposes the public key push clients subscribe with.
func (svc *Services) VAPIDKey(_ context.Context, _ *dto.EmptyRequest) (*dto.VAPIDKeyResponse, error) {
	return &dto.VAPIDKeyResponse{PublicKey: svc.VAPIDPublic}, nil
}

// RunScan triggers an immediate deadline scan and dispatches the resulting
// reminders to all subscriptions.
func (svc *Services) RunScan(ctx context.Context, _ *dto.EmptyRequest) (*dto.ScanResponse, error) {
	if svc.Notifier == nil {
		return nil, dto.Internal("push notifications are not configured")
	}
	reminders, err := svc.Notifier.Scan(ctx)
	if err != nil {
		return nil, storeErr(err, "record")
	}
	svc.Notifier.Dispatch(ctx, reminders)
	out := make([]dto.ReminderInfo, len(reminders))
	for i, rem := range reminders {
		out[i] = dto.ReminderInfo{Title: rem.Title, Body: rem.Body}
	}
	return &dto.ScanResponse{Reminders: out}, nil
}
