package storage

import "lettingscope/internal/models"

// maxActivities caps the activity feed; oldest entries are evicted first.
const maxActivities = 100

// recordActivity prepends a new activity to the in-memory record and
// truncates to the newest maxActivities entries. It runs inside the same
// mutation that changed the entity, so the feed and the collection are
// persisted in one write.
func recordActivity(d *models.AppData, typ models.ActivityType, action models.ActivityAction, itemID models.ID, itemTitle string) {
	a := models.Activity{
		ID:        models.NewID(),
		Type:      typ,
		Action:    action,
		ItemID:    itemID,
		ItemTitle: itemTitle,
		Timestamp: models.NowMillis(),
	}
	d.Activities = append([]models.Activity{a}, d.Activities...)
	if len(d.Activities) > maxActivities {
		d.Activities = d.Activities[:maxActivities]
	}
}

// Activities returns the most recent n activities, newest first. n <= 0
// returns the whole feed.
func (s *Store) Activities(n int) []models.Activity {
	d := s.Load()
	if n <= 0 || n > len(d.Activities) {
		n = len(d.Activities)
	}
	return d.Activities[:n]
}
