package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
)

// ExportArchive streams a full backup archive. Raw handler.
func (svc *Services) ExportArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := svc.Backup.ExportArchive(r.Context())
	if err != nil {
		writeErrorResponse(w, dto.Internal("failed to build archive").Wrap(err))
		return
	}
	filename := fmt.Sprintf("lettingscope-backup-%s.zip", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(archive)
}

// ImportArchive restores a full backup archive from the request body. Raw
// handler; accepts either a raw ZIP body or a multipart form with a "file"
// part.
func (svc *Services) ImportArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := readUpload(r)
	if err != nil {
		writeErrorResponse(w, dto.BadRequest("failed to read archive"))
		return
	}
	if err := svc.Backup.ImportArchive(r.Context(), archive); err != nil {
		writeErrorResponse(w, storeErr(err, "archive"))
		return
	}
	writeJSON(w, dto.OKResponse{OK: true})
}

// readUpload reads an uploaded body, unwrapping a multipart "file" part when
// present.
func readUpload(r *http.Request) ([]byte, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		defer func() { _ = file.Close() }()
		return io.ReadAll(file)
	}
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}

// ExportJSON returns the full record, without documents.
func (svc *Services) ExportJSON(_ context.Context, _ *dto.EmptyRequest) (*models.AppData, error) {
	return svc.Store.Load(), nil
}

// ImportJSON validates and wholesale-replaces the record.
func (svc *Services) ImportJSON(_ context.Context, req *dto.ImportJSONRequest) (*dto.OKResponse, error) {
	raw, err := json.Marshal(req.Data)
	if err != nil {
		return nil, dto.InvalidFormat("failed to serialize import data")
	}
	if err := svc.Backup.ImportJSON(raw); err != nil {
		return nil, storeErr(err, "record")
	}
	return &dto.OKResponse{OK: true}, nil
}

// ClearAll resets the record to empty defaults. Documents are kept; use the
// sweep endpoint to reclaim them.
func (svc *Services) ClearAll(_ context.Context, _ *dto.EmptyRequest) (*dto.OKResponse, error) {
	if err := svc.Backup.ClearAll(); err != nil {
		return nil, storeErr(err, "record")
	}
	return &dto.OKResponse{OK: true}, nil
}
