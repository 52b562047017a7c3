package storage

import (
	"testing"

	"lettingscope/internal/models"
)

func TestUpdateChaserCompletionStampsDate(t *testing.T) {
	s := NewStore(NewMemKV())
	before := models.NowMillis()
	c, err := s.AddChaser(models.Chaser{Title: "chase deposit", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if c.Completed || c.CompletedDate != 0 {
		t.Fatalf("new chaser completed=%v completedDate=%d", c.Completed, c.CompletedDate)
	}

	c.Completed = true
	done, err := s.UpdateChaser(c)
	if err != nil {
		t.Fatal(err)
	}
	if done.CompletedDate < before {
		t.Fatalf("completedDate = %d, want >= %d", done.CompletedDate, before)
	}
	acts := s.Activities(1)
	if len(acts) != 1 || acts[0].Action != models.ActivityCompleted {
		t.Fatalf("latest activity = %+v, want completed", acts)
	}
}

func TestUpdateChaserAlreadyCompletedLogsUpdated(t *testing.T) {
	s := NewStore(NewMemKV())
	c, err := s.AddChaser(models.Chaser{Title: "chase deposit", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.Completed = true
	done, err := s.UpdateChaser(c)
	if err != nil {
		t.Fatal(err)
	}

	// Re-saving an already completed chaser keeps the completion date and is
	// recorded as a plain update.
	again, err := s.UpdateChaser(done)
	if err != nil {
		t.Fatal(err)
	}
	if again.CompletedDate != done.CompletedDate {
		t.Fatalf("completedDate changed: %d -> %d", done.CompletedDate, again.CompletedDate)
	}
	acts := s.Activities(1)
	if len(acts) != 1 || acts[0].Action != models.ActivityUpdated {
		t.Fatalf("latest activity = %+v, want updated", acts)
	}
}

func TestUpdateChaserUncompleteKeepsDate(t *testing.T) {
	s := NewStore(NewMemKV())
	c, err := s.AddChaser(models.Chaser{Title: "chase deposit", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.Completed = true
	done, err := s.UpdateChaser(c)
	if err != nil {
		t.Fatal(err)
	}
	done.Completed = false
	back, err := s.UpdateChaser(done)
	if err != nil {
		t.Fatal(err)
	}
	if back.CompletedDate != done.CompletedDate {
		t.Fatalf("completedDate changed on un-complete: %d -> %d", done.CompletedDate, back.CompletedDate)
	}
}

func TestAddChaserDefaultsPriority(t *testing.T) {
	s := NewStore(NewMemKV())
	c, err := s.AddChaser(models.Chaser{Title: "chase deposit", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if c.Priority != models.PriorityMedium {
		t.Fatalf("priority = %q", c.Priority)
	}
}
