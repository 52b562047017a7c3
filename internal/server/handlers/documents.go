package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
	"lettingscope/internal/storage"
)

// UploadDocument accepts a multipart form with a "file" part, stores the
// bytes and returns the generated document key. Raw handler: use with
// server.WrapRaw.
func (svc *Services) UploadDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, dto.BadRequest("missing file part"))
		return
	}
	defer func() { _ = file.Close() }()

	blob, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, dto.BadRequest("failed to read file part"))
		return
	}
	// Browsers send octet-stream for unknown types; let the extension decide.
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	key := storage.MakeDocKey(models.NowMillis(), header.Filename)
	if err := svc.Docs.Put(r.Context(), key, blob, mimeType); err != nil {
		writeErrorResponse(w, dto.StorageError("failed to store document").Wrap(err))
		return
	}
	writeJSON(w, dto.UploadDocumentResponse{Key: key})
}

// DownloadDocument streams a stored document back. Raw handler.
func (svc *Services) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeErrorResponse(w, dto.MissingField("key"))
		return
	}
	blob, mimeType, ok, err := svc.Docs.Get(r.Context(), key)
	if err != nil {
		writeErrorResponse(w, dto.StorageError("failed to read document").Wrap(err))
		return
	}
	if !ok {
		writeErrorResponse(w, dto.NotFound("document"))
		return
	}
	filename := key
	if _, name, ok := storage.ParseDocKey(key); ok {
		filename = name
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(blob)
}

// ListDocuments returns every stored document key with its parsed display
// name and content type.
func (svc *Services) ListDocuments(ctx context.Context, _ *dto.EmptyRequest) (*dto.ListResponse[dto.DocumentInfo], error) {
	keys, err := svc.Docs.ListKeysWithPrefix(ctx, "")
	if err != nil {
		return nil, dto.StorageError("failed to list documents").Wrap(err)
	}
	items := make([]dto.DocumentInfo, 0, len(keys))
	for _, key := range keys {
		info := dto.DocumentInfo{Key: key, Filename: key}
		if ts, name, ok := storage.ParseDocKey(key); ok {
			info.Filename = name
			info.CreatedAt = ts
		}
		if _, mimeType, ok, err := svc.Docs.Get(ctx, key); err == nil && ok {
			info.MimeType = mimeType
		}
		items = append(items, info)
	}
	return &dto.ListResponse[dto.DocumentInfo]{Items: items}, nil
}

// DeleteDocument removes a stored document.
func (svc *Services) DeleteDocument(ctx context.Context, req *dto.DocKeyRequest) (*dto.OKResponse, error) {
	if err := svc.Docs.Delete(ctx, req.Key); err != nil {
		return nil, dto.StorageError("failed to delete document").Wrap(err)
	}
	return &dto.OKResponse{OK: true}, nil
}

// SweepDocuments removes every blob no bill references.
func (svc *Services) SweepDocuments(ctx context.Context, _ *dto.EmptyRequest) (*dto.SweepResponse, error) {
	removed, err := svc.Backup.SweepDocuments(ctx)
	if err != nil {
		return nil, dto.StorageError("failed to sweep documents").Wrap(err)
	}
	return &dto.SweepResponse{Removed: removed}, nil
}
