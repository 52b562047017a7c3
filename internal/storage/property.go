package storage

import (
	"fmt"

	"lettingscope/internal/models"
)

// Properties returns all stored properties.
func (s *Store) Properties() []models.Property {
	return s.Load().Properties
}

// Property returns the property with the given id.
func (s *Store) Property(id models.ID) (models.Property, error) {
	for _, p := range s.Load().Properties {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
}

// AddProperty assigns a fresh id and timestamps, appends the property and
// records a created activity. The stored property is returned.
func (s *Store) AddProperty(p models.Property) (models.Property, error) {
	now := models.NowMillis()
	p.ID = models.NewID()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := s.mutate(func(d *models.AppData) error {
		d.Properties = append(d.Properties, p)
		recordActivity(d, models.ActivityTypeProperty, models.ActivityCreated, p.ID, p.Name)
		return nil
	})
	return p, err
}

// UpdateProperty replaces the stored property with the same id. The original
// CreatedAt is preserved and UpdatedAt is stamped.
func (s *Store) UpdateProperty(p models.Property) (models.Property, error) {
	err := s.mutate(func(d *models.AppData) error {
		for i := range d.Properties {
			if d.Properties[i].ID == p.ID {
				p.CreatedAt = d.Properties[i].CreatedAt
				p.UpdatedAt = models.NowMillis()
				d.Properties[i] = p
				recordActivity(d, models.ActivityTypeProperty, models.ActivityUpdated, p.ID, p.Name)
				return nil
			}
		}
		return fmt.Errorf("property %s: %w", p.ID, ErrNotFound)
	})
	return p, err
}

// DeleteProperty removes the property and cascades: bills of the property,
// chasers of the property or of any cascaded bill, and notes of the property
// are removed in the same write. Only the property itself gets an activity
// entry.
func (s *Store) DeleteProperty(id models.ID) error {
	return s.mutate(func(d *models.AppData) error {
		idx := -1
		for i := range d.Properties {
			if d.Properties[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("property %s: %w", id, ErrNotFound)
		}
		name := d.Properties[idx].Name
		d.Properties = append(d.Properties[:idx], d.Properties[idx+1:]...)

		billIDs := make(map[models.ID]bool)
		bills := d.Bills[:0]
		for _, b := range d.Bills {
			if b.PropertyID == id {
				billIDs[b.ID] = true
				continue
			}
			bills = append(bills, b)
		}
		d.Bills = bills

		chasers := d.Chasers[:0]
		for _, c := range d.Chasers {
			if c.PropertyID == id || billIDs[c.BillID] {
				continue
			}
			chasers = append(chasers, c)
		}
		d.Chasers = chasers

		notes := d.Notes[:0]
		for _, n := range d.Notes {
			if n.PropertyID == id {
				continue
			}
			notes = append(notes, n)
		}
		d.Notes = notes

		recordActivity(d, models.ActivityTypeProperty, models.ActivityDeleted, id, name)
		return nil
	})
}
