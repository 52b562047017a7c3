// Defines request and response types for the HTTP API.

package dto

import (
	"lettingscope/internal/models"
)

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

// Validate implements Validatable.
func (r *EmptyRequest) Validate() error { return nil }

// IDRequest addresses one entity by path id.
type IDRequest struct {
	ID string `path:"id"`
}

// Validate implements Validatable.
func (r *IDRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// OKResponse acknowledges an operation with no other output.
type OKResponse struct {
	OK bool `json:"ok"`
}

// CreatePropertyRequest carries a new property. The id and timestamps are
// assigned server-side; any submitted values are ignored.
type CreatePropertyRequest struct {
	models.Property
}

// Validate implements Validatable.
func (r *CreatePropertyRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	if r.Address == "" {
		return MissingField("address")
	}
	return nil
}

// UpdatePropertyRequest carries a full replacement for one property.
type UpdatePropertyRequest struct {
	PathID string `path:"id" json:"-"`
	models.Property
}

// Validate implements Validatable.
func (r *UpdatePropertyRequest) Validate() error {
	if r.PathID == "" {
		return MissingField("id")
	}
	if r.Name == "" {
		return MissingField("name")
	}
	if r.Address == "" {
		return MissingField("address")
	}
	return nil
}

// CreateBillRequest carries a new bill.
type CreateBillRequest struct {
	models.Bill
}

// Validate implements Validatable.
func (r *CreateBillRequest) Validate() error {
	if r.PropertyID.IsZero() {
		return MissingField("propertyId")
	}
	if r.DueDate == 0 {
		return MissingField("dueDate")
	}
	return nil
}

// UpdateBillRequest carries a full replacement for one bill.
type UpdateBillRequest struct {
	PathID string `path:"id" json:"-"`
	models.Bill
}

// Validate implements Validatable.
func (r *UpdateBillRequest) Validate() error {
	if r.PathID == "" {
		return MissingField("id")
	}
	if r.PropertyID.IsZero() {
		return MissingField("propertyId")
	}
	return nil
}

// CreateChaserRequest carries a new chaser.
type CreateChaserRequest struct {
	models.Chaser
}

// Validate implements Validatable.
func (r *CreateChaserRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	if r.DueDate == 0 {
		return MissingField("dueDate")
	}
	return nil
}

// UpdateChaserRequest carries a full replacement for one chaser.
type UpdateChaserRequest struct {
	PathID string `path:"id" json:"-"`
	models.Chaser
}

// Validate implements Validatable.
func (r *UpdateChaserRequest) Validate() error {
	if r.PathID == "" {
		return MissingField("id")
	}
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// CreateNoteRequest carries a new note.
type CreateNoteRequest struct {
	models.Note
}

// Validate implements Validatable.
func (r *CreateNoteRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// UpdateNoteRequest carries a full replacement for one note.
type UpdateNoteRequest struct {
	PathID string `path:"id" json:"-"`
	models.Note
}

// Validate implements Validatable.
func (r *UpdateNoteRequest) Validate() error {
	if r.PathID == "" {
		return MissingField("id")
	}
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// ListActivitiesRequest bounds the activity feed read.
type ListActivitiesRequest struct {
	Limit int `query:"limit"`
}

// Validate implements Validatable.
func (r *ListActivitiesRequest) Validate() error {
	if r.Limit < 0 {
		return BadRequest("limit must not be negative")
	}
	return nil
}

// UpdateSettingsRequest replaces the stored settings.
type UpdateSettingsRequest struct {
	models.AppSettings
}

// Validate implements Validatable.
func (r *UpdateSettingsRequest) Validate() error {
	if r.NotificationDaysBefore < 0 {
		return BadRequest("notificationDaysBefore must not be negative")
	}
	return nil
}

// DocKeyRequest addresses one stored document by path key.
type DocKeyRequest struct {
	Key string `path:"key"`
}

// Validate implements Validatable.
func (r *DocKeyRequest) Validate() error {
	if r.Key == "" {
		return MissingField("key")
	}
	return nil
}

// DocumentInfo describes one stored document for listing.
type DocumentInfo struct {
	Key       string `json:"key"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// UploadDocumentResponse returns the key assigned to an uploaded document.
type UploadDocumentResponse struct {
	Key string `json:"key"`
}

// SweepResponse returns the keys removed by a document sweep.
type SweepResponse struct {
	Removed []string `json:"removed"`
}

// ImportJSONRequest carries a raw record for JSON import. The record is
// validated by the backup layer, not here.
type ImportJSONRequest struct {
	Data map[string]any `json:"data"`
}

// Validate implements Validatable.
func (r *ImportJSONRequest) Validate() error {
	if r.Data == nil {
		return MissingField("data")
	}
	return nil
}

// SubscribeRequest registers a browser push subscription.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// Validate implements Validatable.
func (r *SubscribeRequest) Validate() error {
	if r.Endpoint == "" {
		return MissingField("endpoint")
	}
	if r.P256dh == "" {
		return MissingField("p256dh")
	}
	if r.Auth == "" {
		return MissingField("auth")
	}
	return nil
}

// UnsubscribeRequest removes a browser push subscription.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Validate implements Validatable.
func (r *UnsubscribeRequest) Validate() error {
	if r.Endpoint == "" {
		return MissingField("endpoint")
	}
	return nil
}

// VAPIDKeyResponse exposes the public key push clients subscribe with.
type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// ScanResponse reports the reminders produced by a deadline scan.
type ScanResponse struct {
	Reminders []ReminderInfo `json:"reminders"`
}

// ReminderInfo is one pending reminder.
type ReminderInfo struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ListHistoryRequest bounds the history read.
type ListHistoryRequest struct {
	Limit int `query:"limit"`
}

// Validate implements Validatable.
func (r *ListHistoryRequest) Validate() error {
	if r.Limit < 0 {
		return BadRequest("limit must not be negative")
	}
	return nil
}

// CommitInfo is one entry of the data history.
type CommitInfo struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Date    int64  `json:"date"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
