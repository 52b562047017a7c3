package handlers

import (
	"context"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
)

// ListChasers returns all chasers.
func (svc *Services) ListChasers(_ context.Context, _ *dto.EmptyRequest) (*dto.ListResponse[models.Chaser], error) {
	return &dto.ListResponse[models.Chaser]{Items: svc.Store.Chasers()}, nil
}

// GetChaser returns one chaser by id.
func (svc *Services) GetChaser(_ context.Context, req *dto.IDRequest) (*models.Chaser, error) {
	c, err := svc.Store.Chaser(models.ID(req.ID))
	if err != nil {
		return nil, storeErr(err, "chaser")
	}
	return &c, nil
}

// CreateChaser stores a new chaser.
func (svc *Services) CreateChaser(_ context.Context, req *dto.CreateChaserRequest) (*models.Chaser, error) {
	c, err := svc.Store.AddChaser(req.Chaser)
	if err != nil {
		return nil, storeErr(err, "chaser")
	}
	return &c, nil
}

// UpdateChaser replaces a stored chaser, stamping the completion date on the
// first transition to completed.
func (svc *Services) UpdateChaser(_ context.Context, req *dto.UpdateChaserRequest) (*models.Chaser, error) {
	req.Chaser.ID = models.ID(req.PathID)
	c, err := svc.Store.UpdateChaser(req.Chaser)
	if err != nil {
		return nil, storeErr(err, "chaser")
	}
	return &c, nil
}

// DeleteChaser removes a chaser.
func (svc *Services) DeleteChaser(_ context.Context, req *dto.IDRequest) (*dto.OKResponse, error) {
	if err := svc.Store.DeleteChaser(models.ID(req.ID)); err != nil {
		return nil, storeErr(err, "chaser")
	}
	return &dto.OKResponse{OK: true}, nil
}
