package storage

import (
	"fmt"

	"lettingscope/internal/models"
)

// billTitle builds the denormalized activity title for a bill.
func billTitle(b models.Bill) string {
	if b.Provider == "" {
		return b.UtilityType
	}
	if b.UtilityType == "" {
		return b.Provider
	}
	return b.UtilityType + " - " + b.Provider
}

// Bills returns all stored bills.
func (s *Store) Bills() []models.Bill {
	return s.Load().Bills
}

// Bill returns the bill with the given id.
func (s *Store) Bill(id models.ID) (models.Bill, error) {
	for _, b := range s.Load().Bills {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Bill{}, fmt.Errorf("bill %s: %w", id, ErrNotFound)
}

// BillsForProperty returns the bills attached to a property.
func (s *Store) BillsForProperty(propertyID models.ID) []models.Bill {
	var out []models.Bill
	for _, b := range s.Load().Bills {
		if b.PropertyID == propertyID {
			out = append(out, b)
		}
	}
	return out
}

// AddBill assigns a fresh id and timestamps, appends the bill and records a
// created activity.
func (s *Store) AddBill(b models.Bill) (models.Bill, error) {
	now := models.NowMillis()
	b.ID = models.NewID()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = models.BillStatusPending
	}
	err := s.mutate(func(d *models.AppData) error {
		d.Bills = append(d.Bills, b)
		recordActivity(d, models.ActivityTypeBill, models.ActivityCreated, b.ID, billTitle(b))
		return nil
	})
	return b, err
}

// UpdateBill replaces the stored bill with the same id, preserving CreatedAt
// and stamping UpdatedAt.
func (s *Store) UpdateBill(b models.Bill) (models.Bill, error) {
	err := s.mutate(func(d *models.AppData) error {
		for i := range d.Bills {
			if d.Bills[i].ID == b.ID {
				b.CreatedAt = d.Bills[i].CreatedAt
				b.UpdatedAt = models.NowMillis()
				d.Bills[i] = b
				recordActivity(d, models.ActivityTypeBill, models.ActivityUpdated, b.ID, billTitle(b))
				return nil
			}
		}
		return fmt.Errorf("bill %s: %w", b.ID, ErrNotFound)
	})
	return b, err
}

// DeleteBill removes the bill and every chaser referencing it.
func (s *Store) DeleteBill(id models.ID) error {
	return s.mutate(func(d *models.AppData) error {
		idx := -1
		for i := range d.Bills {
			if d.Bills[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("bill %s: %w", id, ErrNotFound)
		}
		title := billTitle(d.Bills[idx])
		d.Bills = append(d.Bills[:idx], d.Bills[idx+1:]...)

		chasers := d.Chasers[:0]
		for _, c := range d.Chasers {
			if c.BillID == id {
				continue
			}
			chasers = append(chasers, c)
		}
		d.Chasers = chasers

		recordActivity(d, models.ActivityTypeBill, models.ActivityDeleted, id, title)
		return nil
	})
}
