package storage

import (
	"fmt"

	"lettingscope/internal/models"
)

// Chasers returns all stored chasers.
func (s *Store) Chasers() []models.Chaser {
	return s.Load().Chasers
}

// Chaser returns the chaser with the given id.
func (s *Store) Chaser(id models.ID) (models.Chaser, error) {
	for _, c := range s.Load().Chasers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Chaser{}, fmt.Errorf("chaser %s: %w", id, ErrNotFound)
}

// AddChaser assigns a fresh id and timestamps, appends the chaser and records
// a created activity.
func (s *Store) AddChaser(c models.Chaser) (models.Chaser, error) {
	now := models.NowMillis()
	c.ID = models.NewID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	err := s.mutate(func(d *models.AppData) error {
		d.Chasers = append(d.Chasers, c)
		recordActivity(d, models.ActivityTypeChaser, models.ActivityCreated, c.ID, c.Title)
		return nil
	})
	return c, err
}

// UpdateChaser replaces the stored chaser with the same id. When the stored
// chaser was not completed and the incoming one is, CompletedDate is stamped
// and the activity action is "completed" instead of "updated". Un-completing
// leaves CompletedDate as it was.
func (s *Store) UpdateChaser(c models.Chaser) (models.Chaser, error) {
	err := s.mutate(func(d *models.AppData) error {
		for i := range d.Chasers {
			if d.Chasers[i].ID == c.ID {
				prev := d.Chasers[i]
				c.CreatedAt = prev.CreatedAt
				c.UpdatedAt = models.NowMillis()
				action := models.ActivityUpdated
				if c.Completed && !prev.Completed {
					c.CompletedDate = models.NowMillis()
					action = models.ActivityCompleted
				} else if c.CompletedDate == 0 {
					c.CompletedDate = prev.CompletedDate
				}
				d.Chasers[i] = c
				recordActivity(d, models.ActivityTypeChaser, action, c.ID, c.Title)
				return nil
			}
		}
		return fmt.Errorf("chaser %s: %w", c.ID, ErrNotFound)
	})
	return c, err
}

// DeleteChaser removes the chaser.
func (s *Store) DeleteChaser(id models.ID) error {
	return s.mutate(func(d *models.AppData) error {
		for i := range d.Chasers {
			if d.Chasers[i].ID == id {
				title := d.Chasers[i].Title
				d.Chasers = append(d.Chasers[:i], d.Chasers[i+1:]...)
				recordActivity(d, models.ActivityTypeChaser, models.ActivityDeleted, id, title)
				return nil
			}
		}
		return fmt.Errorf("chaser %s: %w", id, ErrNotFound)
	})
}
