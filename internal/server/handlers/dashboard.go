package handlers

import (
	"context"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
	"lettingscope/internal/storage"
)

// GetStats aggregates dashboard counters from the current record.
func (svc *Services) GetStats(_ context.Context, _ *dto.EmptyRequest) (*storage.Stats, error) {
	st := svc.Store.Stats()
	return &st, nil
}

// ListActivities returns the most recent activities, newest first.
func (svc *Services) ListActivities(_ context.Context, req *dto.ListActivitiesRequest) (*dto.ListResponse[models.Activity], error) {
	return &dto.ListResponse[models.Activity]{Items: svc.Store.Activities(req.Limit)}, nil
}

// GetSettings returns the stored settings.
func (svc *Services) GetSettings(_ context.Context, _ *dto.EmptyRequest) (*models.AppSettings, error) {
	settings := svc.Store.Settings()
	return &settings, nil
}

// UpdateSettings replaces the stored settings.
func (svc *Services) UpdateSettings(_ context.Context, req *dto.UpdateSettingsRequest) (*models.AppSettings, error) {
	if err := svc.Store.UpdateSettings(req.AppSettings); err != nil {
		return nil, storeErr(err, "settings")
	}
	return &req.AppSettings, nil
}

// Health reports liveness and the build version.
func (svc *Services) Health(_ context.Context, _ *dto.EmptyRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{Status: "ok", Version: svc.Version}, nil
}
