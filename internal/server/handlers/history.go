package handlers

import (
	"context"

	"lettingscope/internal/server/dto"
)

// ListHistory returns the most recent data commits, newest first. When
// history tracking is disabled the list is empty.
func (svc *Services) ListHistory(ctx context.Context, req *dto.ListHistoryRequest) (*dto.ListResponse[dto.CommitInfo], error) {
	items := []dto.CommitInfo{}
	if svc.History == nil {
		return &dto.ListResponse[dto.CommitInfo]{Items: items}, nil
	}
	commits, err := svc.History.Recent(ctx, req.Limit)
	if err != nil {
		return nil, dto.Internal("failed to read history").Wrap(err)
	}
	for _, c := range commits {
		items = append(items, dto.CommitInfo{
			Hash:    c.Hash,
			Message: c.Message,
			Date:    c.Date.UnixMilli(),
		})
	}
	return &dto.ListResponse[dto.CommitInfo]{Items: items}, nil
}
