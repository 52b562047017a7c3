package handlers

import (
	"context"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
)

// ListProperties returns all properties.
func (svc *Services) ListProperties(_ context.Context, _ *dto.EmptyRequest) (*dto.ListResponse[models.Property], error) {
	return &dto.ListResponse[models.Property]{Items: svc.Store.Properties()}, nil
}

// GetProperty returns one property by id.
func (svc *Services) GetProperty(_ context.Context, req *dto.IDRequest) (*models.Property, error) {
	p, err := svc.Store.Property(models.ID(req.ID))
	if err != nil {
		return nil, storeErr(err, "property")
	}
	return &p, nil
}

// CreateProperty stores a new property.
func (svc *Services) CreateProperty(_ context.Context, req *dto.CreatePropertyRequest) (*models.Property, error) {
	p, err := svc.Store.AddProperty(req.Property)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	return &p, nil
}

// UpdateProperty replaces a stored property.
func (svc *Services) UpdateProperty(_ context.Context, req *dto.UpdatePropertyRequest) (*models.Property, error) {
	req.Property.ID = models.ID(req.PathID)
	p, err := svc.Store.UpdateProperty(req.Property)
	if err != nil {
		return nil, storeErr(err, "property")
	}
	return &p, nil
}

// DeleteProperty removes a property and its dependent records.
func (svc *Services) DeleteProperty(_ context.Context, req *dto.IDRequest) (*dto.OKResponse, error) {
	if err := svc.Store.DeleteProperty(models.ID(req.ID)); err != nil {
		return nil, storeErr(err, "property")
	}
	return &dto.OKResponse{OK: true}, nil
}
