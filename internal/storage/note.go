package storage

import (
	"fmt"

	"lettingscope/internal/models"
)

// Notes returns all stored notes.
func (s *Store) Notes() []models.Note {
	return s.Load().Notes
}

// Note returns the note with the given id.
func (s *Store) Note(id models.ID) (models.Note, error) {
	for _, n := range s.Load().Notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, fmt.Errorf("note %s: %w", id, ErrNotFound)
}

// AddNote assigns a fresh id and timestamps, appends the note and records a
// created activity.
func (s *Store) AddNote(n models.Note) (models.Note, error) {
	now := models.NowMillis()
	n.ID = models.NewID()
	n.CreatedAt = now
	n.UpdatedAt = now
	err := s.mutate(func(d *models.AppData) error {
		d.Notes = append(d.Notes, n)
		recordActivity(d, models.ActivityTypeNote, models.ActivityCreated, n.ID, n.Title)
		return nil
	})
	return n, err
}

// UpdateNote replaces the stored note with the same id, preserving CreatedAt
// and stamping UpdatedAt.
func (s *Store) UpdateNote(n models.Note) (models.Note, error) {
	err := s.mutate(func(d *models.AppData) error {
		for i := range d.Notes {
			if d.Notes[i].ID == n.ID {
				n.CreatedAt = d.Notes[i].CreatedAt
				n.UpdatedAt = models.NowMillis()
				d.Notes[i] = n
				recordActivity(d, models.ActivityTypeNote, models.ActivityUpdated, n.ID, n.Title)
				return nil
			}
		}
		return fmt.Errorf("note %s: %w", n.ID, ErrNotFound)
	})
	return n, err
}

// DeleteNote removes the note.
func (s *Store) DeleteNote(id models.ID) error {
	return s.mutate(func(d *models.AppData) error {
		for i := range d.Notes {
			if d.Notes[i].ID == id {
				title := d.Notes[i].Title
				d.Notes = append(d.Notes[:i], d.Notes[i+1:]...)
				recordActivity(d, models.ActivityTypeNote, models.ActivityDeleted, id, title)
				return nil
			}
		}
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	})
}
