package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lettingscope/internal/backup"
	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
	"lettingscope/internal/server/handlers"
	"lettingscope/internal/storage"
)

func newTestRouter(t *testing.T) (http.Handler, *storage.Store, *storage.MemDocStore) {
	t.Helper()
	store := storage.NewStore(storage.NewMemKV())
	docs := storage.NewMemDocStore()
	svc := &handlers.Services{
		Store:   store,
		Docs:    docs,
		Backup:  backup.NewManager(store, docs),
		Version: "test",
	}
	return NewRouter(svc, Options{}), store, docs
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(raw))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	h, _, _ := newTestRouter(t)
	w := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[dto.HealthResponse](t, w)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestPropertyCRUDOverHTTP(t *testing.T) {
	h, _, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/properties", map[string]any{
		"name":    "Flat 1",
		"address": "1 High St",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}
	created := decode[models.Property](t, w)
	if created.ID.IsZero() {
		t.Fatal("expected assigned id")
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/properties", nil)
	list := decode[dto.ListResponse[models.Property]](t, w)
	if len(list.Items) != 1 {
		t.Fatalf("items = %+v", list.Items)
	}

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/properties/%s", created.ID), map[string]any{
		"name":    "Flat 1A",
		"address": "1 High St",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d body = %s", w.Code, w.Body.String())
	}
	updated := decode[models.Property](t, w)
	if updated.Name != "Flat 1A" || updated.ID != created.ID {
		t.Fatalf("updated = %+v", updated)
	}

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/properties/%s", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/properties/%s", created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
	resp := decode[dto.ErrorResponse](t, w)
	if resp.Error.Code != dto.ErrorCodeNotFound {
		t.Fatalf("error code = %q", resp.Error.Code)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	h, _, _ := newTestRouter(t)
	w := doJSON(t, h, http.MethodPost, "/api/v1/properties", map[string]any{"address": "1 High St"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	resp := decode[dto.ErrorResponse](t, w)
	if resp.Error.Code != dto.ErrorCodeMissingField {
		t.Fatalf("error code = %q", resp.Error.Code)
	}
	if resp.Details["field"] != "name" {
		t.Fatalf("details = %+v", resp.Details)
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	h, _, _ := newTestRouter(t)
	w := doJSON(t, h, http.MethodPost, "/api/v1/properties", map[string]any{
		"name":    "Flat 1",
		"address": "1 High St",
		"bogus":   true,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestChaserCompletionOverHTTP(t *testing.T) {
	h, _, _ := newTestRouter(t)
	w := doJSON(t, h, http.MethodPost, "/api/v1/chasers", map[string]any{
		"title":   "chase deposit",
		"dueDate": 1000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}
	c := decode[models.Chaser](t, w)

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/chasers/%s", c.ID), map[string]any{
		"title":     "chase deposit",
		"dueDate":   1000,
		"priority":  "medium",
		"completed": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d body = %s", w.Code, w.Body.String())
	}
	done := decode[models.Chaser](t, w)
	if !done.Completed || done.CompletedDate == 0 {
		t.Fatalf("done = %+v", done)
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/activities?limit=1", nil)
	acts := decode[dto.ListResponse[models.Activity]](t, w)
	if len(acts.Items) != 1 || acts.Items[0].Action != models.ActivityCompleted {
		t.Fatalf("activities = %+v", acts.Items)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h, store, _ := newTestRouter(t)
	if _, err := store.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"}); err != nil {
		t.Fatal(err)
	}
	w := doJSON(t, h, http.MethodGet, "/api/v1/stats", nil)
	st := decode[storage.Stats](t, w)
	if st.TotalProperties != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestDocumentUploadDownloadOverHTTP(t *testing.T) {
	h, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "invoice.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body = %s", w.Code, w.Body.String())
	}
	up := decode[dto.UploadDocumentResponse](t, w)
	if !strings.HasPrefix(up.Key, "doc-") || !strings.HasSuffix(up.Key, "-invoice.pdf") {
		t.Fatalf("key = %q", up.Key)
	}

	w2 := doJSON(t, h, http.MethodGet, "/api/v1/documents/"+up.Key, nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("download status = %d", w2.Code)
	}
	if w2.Body.String() != "%PDF-1.4 fake" {
		t.Fatalf("body = %q", w2.Body.String())
	}
	if ct := w2.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}

	w3 := doJSON(t, h, http.MethodGet, "/api/v1/documents/doc-1-missing.pdf", nil)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("missing download status = %d", w3.Code)
	}
}

func TestBackupJSONEndpoints(t *testing.T) {
	h, store, _ := newTestRouter(t)
	if _, err := store.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodGet, "/api/v1/backup/json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	exported := decode[map[string]any](t, w)

	w = doJSON(t, h, http.MethodPost, "/api/v1/backup/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	if got := len(store.Load().Properties); got != 0 {
		t.Fatalf("properties after clear = %d", got)
	}

	w = doJSON(t, h, http.MethodPost, "/api/v1/backup/json", map[string]any{"data": exported})
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d body = %s", w.Code, w.Body.String())
	}
	if got := len(store.Load().Properties); got != 1 {
		t.Fatalf("properties after import = %d", got)
	}

	// Missing collections must be rejected and leave the store untouched.
	w = doJSON(t, h, http.MethodPost, "/api/v1/backup/json", map[string]any{"data": map[string]any{"properties": []any{}}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid import status = %d body = %s", w.Code, w.Body.String())
	}
	if got := len(store.Load().Properties); got != 1 {
		t.Fatalf("properties after rejected import = %d", got)
	}
}

func TestArchiveRoundTripOverHTTP(t *testing.T) {
	h, store, _ := newTestRouter(t)
	if _, err := store.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, h, http.MethodGet, "/api/v1/backup/archive", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	archive := w.Body.Bytes()

	h2, store2, _ := newTestRouter(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/backup/archive", bytes.NewReader(archive))
	w2 := httptest.NewRecorder()
	h2.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("import status = %d body = %s", w2.Code, w2.Body.String())
	}
	if got := len(store2.Load().Properties); got != 1 {
		t.Fatalf("properties after import = %d", got)
	}
}
