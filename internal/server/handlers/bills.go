package handlers

import (
	"context"

	"lettingscope/internal/models"
	"lettingscope/internal/server/dto"
)

// ListBills returns all bills.
func (svc *Services) ListBills(_ context.Context, _ *dto.EmptyRequest) (*dto.ListResponse[models.Bill], error) {
	return &dto.ListResponse[models.Bill]{Items: svc.Store.Bills()}, nil
}

// GetBill returns one bill by id.
func (svc *Services) GetBill(_ context.Context, req *dto.IDRequest) (*models.Bill, error) {
	b, err := svc.Store.Bill(models.ID(req.ID))
	if err != nil {
		return nil, storeErr(err, "bill")
	}
	return &b, nil
}

// CreateBill stores a new bill.
func (svc *Services) CreateBill(_ context.Context, req *dto.CreateBillRequest) (*models.Bill, error) {
	b, err := svc.Store.AddBill(req.Bill)
	if err != nil {
		return nil, storeErr(err, "bill")
	}
	return &b, nil
}

// UpdateBill replaces a stored bill.
func (svc *Services) UpdateBill(_ context.Context, req *dto.UpdateBillRequest) (*models.Bill, error) {
	req.Bill.ID = models.ID(req.PathID)
	b, err := svc.Store.UpdateBill(req.Bill)
	if err != nil {
		return nil, storeErr(err, "bill")
	}
	return &b, nil
}

// DeleteBill removes a bill and its dependent chasers.
func (svc *Services) DeleteBill(_ context.Context, req *dto.IDRequest) (*dto.OKResponse, error) {
	if err := svc.Store.DeleteBill(models.ID(req.ID)); err != nil {
		return nil, storeErr(err, "bill")
	}
	return &dto.OKResponse{OK: true}, nil
}
