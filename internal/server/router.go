// Package server implements the HTTP server and routing logic.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"lettingscope/internal/server/handlers"
	"lettingscope/internal/server/ratelimit"
	"lettingscope/internal/server/reqctx"
)

// Options tunes the router.
type Options struct {
	// Limiter applies a per-IP request budget; nil disables rate limiting.
	Limiter *ratelimit.Limiter
	// MaxBodyBytes caps JSON request bodies. 0 disables the cap.
	MaxBodyBytes int64
	// MaxUploadBytes caps document and archive uploads. 0 disables the cap.
	MaxUploadBytes int64
}

// NewRouter creates and configures the HTTP router. All API endpoints are
// served under /api/v1/.
func NewRouter(svc *handlers.Services, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.Handle("GET /api/v1/health", Wrap(svc.Health, svc, opts.Limiter, opts.MaxBodyBytes))

	// Properties.
	mux.Handle("GET /api/v1/properties", Wrap(svc.ListProperties, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/properties", Wrap(svc.CreateProperty, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/properties/{id}", Wrap(svc.GetProperty, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("PUT /api/v1/properties/{id}", Wrap(svc.UpdateProperty, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("DELETE /api/v1/properties/{id}", Wrap(svc.DeleteProperty, svc, opts.Limiter, opts.MaxBodyBytes))

	// Bills.
	mux.Handle("GET /api/v1/bills", Wrap(svc.ListBills, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/bills", Wrap(svc.CreateBill, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/bills/{id}", Wrap(svc.GetBill, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("PUT /api/v1/bills/{id}", Wrap(svc.UpdateBill, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("DELETE /api/v1/bills/{id}", Wrap(svc.DeleteBill, svc, opts.Limiter, opts.MaxBodyBytes))

	// Chasers.
	mux.Handle("GET /api/v1/chasers", Wrap(svc.ListChasers, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/chasers", Wrap(svc.CreateChaser, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/chasers/{id}", Wrap(svc.GetChaser, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("PUT /api/v1/chasers/{id}", Wrap(svc.UpdateChaser, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("DELETE /api/v1/chasers/{id}", Wrap(svc.DeleteChaser, svc, opts.Limiter, opts.MaxBodyBytes))

	// Notes.
	mux.Handle("GET /api/v1/notes", Wrap(svc.ListNotes, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/notes", Wrap(svc.CreateNote, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/notes/{id}", Wrap(svc.GetNote, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("PUT /api/v1/notes/{id}", Wrap(svc.UpdateNote, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("DELETE /api/v1/notes/{id}", Wrap(svc.DeleteNote, svc, opts.Limiter, opts.MaxBodyBytes))

	// Dashboard.
	mux.Handle("GET /api/v1/stats", Wrap(svc.GetStats, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/activities", Wrap(svc.ListActivities, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/settings", Wrap(svc.GetSettings, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("PUT /api/v1/settings", Wrap(svc.UpdateSettings, svc, opts.Limiter, opts.MaxBodyBytes))

	// Documents.
	mux.Handle("GET /api/v1/documents", Wrap(svc.ListDocuments, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/documents", WrapRaw(svc.UploadDocument, svc, opts.Limiter, opts.MaxUploadBytes))
	mux.Handle("GET /api/v1/documents/{key}", WrapRaw(svc.DownloadDocument, svc, opts.Limiter, 0))
	mux.Handle("DELETE /api/v1/documents/{key}", Wrap(svc.DeleteDocument, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/documents/sweep", Wrap(svc.SweepDocuments, svc, opts.Limiter, opts.MaxBodyBytes))

	// Backup.
	mux.Handle("GET /api/v1/backup/archive", WrapRaw(svc.ExportArchive, svc, opts.Limiter, 0))
	mux.Handle("POST /api/v1/backup/archive", WrapRaw(svc.ImportArchive, svc, opts.Limiter, opts.MaxUploadBytes))
	mux.Handle("GET /api/v1/backup/json", Wrap(svc.ExportJSON, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/backup/json", Wrap(svc.ImportJSON, svc, opts.Limiter, opts.MaxUploadBytes))
	mux.Handle("POST /api/v1/backup/clear", Wrap(svc.ClearAll, svc, opts.Limiter, opts.MaxBodyBytes))

	// Notifications.
	mux.Handle("POST /api/v1/notifications/subscriptions", Wrap(svc.Subscribe, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("DELETE /api/v1/notifications/subscriptions", Wrap(svc.Unsubscribe, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("GET /api/v1/notifications/vapid-key", Wrap(svc.VAPIDKey, svc, opts.Limiter, opts.MaxBodyBytes))
	mux.Handle("POST /api/v1/notifications/scan", Wrap(svc.RunScan, svc, opts.Limiter, opts.MaxBodyBytes))

	// History.
	mux.Handle("GET /api/v1/history", Wrap(svc.ListHistory, svc, opts.Limiter, opts.MaxBodyBytes))

	return logRequests(mux)
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(statusCode int) {
	if sr.status == 0 {
		sr.status = statusCode
	}
	sr.ResponseWriter.WriteHeader(statusCode)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// logRequests logs each request with method, path, status and duration.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(sr, r)
		if sr.status == 0 {
			sr.status = http.StatusOK
		}
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.status,
			"dur", time.Since(start).Round(time.Millisecond),
			"ip", reqctx.GetClientIP(r))
	})
}
