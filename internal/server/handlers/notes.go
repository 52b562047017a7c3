package handlers

import (
	"context"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
)

// ListNotes returns all notes.
func (svc *Services) ListNotes(_ context.Context, _ *dto.EmptyRequest) (*dto.ListResponse[models.Note], error) {
	return &dto.ListResponse[models.Note]{Items: svc.Store.Notes()}, nil
}

// GetNote returns one note by id.
func (svc *Services) GetNote(_ context.Context, req *dto.IDRequest) (*models.Note, error) {
	n, err := svc.Store.Note(models.ID(req.ID))
	if err != nil {
		return nil, storeErr(err, "note")
	}
	return &n, nil
}

// CreateNote stores a new note.
func (svc *Services) CreateNote(_ context.Context, req *dto.CreateNoteRequest) (*models.Note, error) {
	n, err := svc.Store.AddNote(req.Note)
	if err != nil {
		return nil, storeErr(err, "note")
	}
	return &n, nil
}

// UpdateNote replaces a stored note.
func (svc *Services) UpdateNote(_ context.Context, req *dto.UpdateNoteRequest) (*models.Note, error) {
	req.Note.ID = models.ID(req.PathID)
	n, err := svc.Store.UpdateNote(req.Note)
	if err != nil {
		return nil, storeErr(err, "note")
	}
	return &n, nil
}

// DeleteNote removes a note.
func (svc *Services) DeleteNote(_ context.Context, req *dto.IDRequest) (*dto.OKResponse, error) {
	if err := svc.Store.DeleteNote(models.ID(req.ID)); err != nil {
		return nil, storeErr(err, "note")
	}
	return &dto.OKResponse{OK: true}, nil
}
