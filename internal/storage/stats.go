package storage

import "lettingscope/internal/models"

// Stats summarizes the store for dashboard display. It is recomputed from the
// current record on every call; there is no cache to invalidate.
type Stats struct {
	TotalProperties int `json:"totalProperties"`
	TotalBills      int `json:"totalBills"`
	PendingBills    int `json:"pendingBills"`
	OverdueBills    int `json:"overdueBills"`
	UpcomingChasers int `json:"upcomingChasers"`
	OverdueChasers  int `json:"overdueChasers"`
}

// ComputeStats aggregates a record as of the given instant (milliseconds).
func ComputeStats(d *models.AppData, nowMillis int64) Stats {
	st := Stats{
		TotalProperties: len(d.Properties),
		TotalBills:      len(d.Bills),
	}
	for _, b := range d.Bills {
		switch b.Status {
		case models.BillStatusPending:
			st.PendingBills++
		case models.BillStatusOverdue:
			st.OverdueBills++
		}
	}
	for _, c := range d.Chasers {
		if c.Completed {
			continue
		}
		if c.DueDate >= nowMillis {
			st.UpcomingChasers++
		} else {
			st.OverdueChasers++
		}
	}
	return st
}

// Stats loads the current record and aggregates it.
func (s *Store) Stats() Stats {
	return ComputeStats(s.Load(), models.NowMillis())
}
