// Defines shared service dependencies for handlers.

package handlers

import (
	"lettingscope/internal/backup"
	"lettingscope/internal/history"
	"lettingscope/internal/notify"
	"lettingscope/internal/storage"
)

// Services holds all service dependencies for handlers.
type Services struct {
	Store    *storage.Store
	Docs     storage.DocStore
	Backup   *backup.Manager
	History  *history.Repo            // may be nil
	Subs     *notify.SubscriptionStore // may be nil
	Notifier *notify.Notifier          // may be nil

	Version     string
	VAPIDPublic string
}
