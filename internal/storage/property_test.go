package storage

import (
	"errors"
	"testing"

	"lettingscope/internal/models"
)

func TestAddPropertyAssignsIDAndTimestamps(t *testing.T) {
	s := NewStore(NewMemKV())
	p, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID.IsZero() {
		t.Fatal("expected assigned id")
	}
	if p.CreatedAt == 0 || p.UpdatedAt != p.CreatedAt {
		t.Fatalf("timestamps createdAt=%d updatedAt=%d", p.CreatedAt, p.UpdatedAt)
	}
	acts := s.Activities(0)
	if len(acts) != 1 || acts[0].Action != models.ActivityCreated || acts[0].Type != models.ActivityTypeProperty {
		t.Fatalf("activities = %+v", acts)
	}
	if acts[0].ItemTitle != "Flat 1" {
		t.Fatalf("itemTitle = %q", acts[0].ItemTitle)
	}
}

func TestUpdatePropertyPreservesCreatedAt(t *testing.T) {
	s := NewStore(NewMemKV())
	p, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if err != nil {
		t.Fatal(err)
	}
	p.Name = "Flat 1A"
	p.CreatedAt = 999 // must be ignored
	updated, err := s.UpdateProperty(p)
	if err != nil {
		t.Fatal(err)
	}
	stored, err := s.Property(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Flat 1A" {
		t.Fatalf("name = %q", stored.Name)
	}
	if stored.CreatedAt == 999 {
		t.Fatal("createdAt was overwritten by caller value")
	}
	if updated.CreatedAt != stored.CreatedAt {
		t.Fatal("returned and stored createdAt differ")
	}
}

func TestUpdatePropertyNotFound(t *testing.T) {
	s := NewStore(NewMemKV())
	_, err := s.UpdateProperty(models.Property{ID: "nonexistent", Name: "x", Address: "y"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePropertyCascades(t *testing.T) {
	s := NewStore(NewMemKV())
	p, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.AddProperty(models.Property{Name: "Flat 2", Address: "2 High St"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddBill(models.Bill{PropertyID: p.ID, UtilityType: "gas", Provider: "ACME", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddBill(models.Bill{PropertyID: other.ID, UtilityType: "water", Provider: "Aqua", DueDate: 1}); err != nil {
		t.Fatal(err)
	}
	// One chaser on the property, one on the bill, one unrelated.
	if _, err := s.AddChaser(models.Chaser{PropertyID: p.ID, Title: "inspect", DueDate: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddChaser(models.Chaser{BillID: b.ID, Title: "pay", DueDate: 1}); err != nil {
		t.Fatal(err)
	}
	keep, err := s.AddChaser(models.Chaser{PropertyID: other.ID, Title: "keep", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNote(models.Note{PropertyID: p.ID, Title: "note", Content: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteProperty(p.ID); err != nil {
		t.Fatal(err)
	}
	d := s.Load()
	if len(d.Properties) != 1 || d.Properties[0].ID != other.ID {
		t.Fatalf("properties = %+v", d.Properties)
	}
	for _, bill := range d.Bills {
		if bill.PropertyID == p.ID {
			t.Fatalf("bill %s still references deleted property", bill.ID)
		}
	}
	if len(d.Chasers) != 1 || d.Chasers[0].ID != keep.ID {
		t.Fatalf("chasers = %+v", d.Chasers)
	}
	for _, n := range d.Notes {
		if n.PropertyID == p.ID {
			t.Fatalf("note %s still references deleted property", n.ID)
		}
	}
}

func TestDeleteBillCascadesChasers(t *testing.T) {
	s := NewStore(NewMemKV())
	p, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddBill(models.Bill{PropertyID: p.ID, UtilityType: "gas", Provider: "ACME", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddChaser(models.Chaser{BillID: b.ID, Title: "pay", DueDate: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteBill(b.ID); err != nil {
		t.Fatal(err)
	}
	d := s.Load()
	if len(d.Bills) != 0 {
		t.Fatalf("bills = %+v", d.Bills)
	}
	if len(d.Chasers) != 0 {
		t.Fatalf("chasers = %+v", d.Chasers)
	}
}

func TestDeleteBillNotFound(t *testing.T) {
	s := NewStore(NewMemKV())
	if err := s.DeleteBill("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddBillDefaultsStatusPending(t *testing.T) {
	s := NewStore(NewMemKV())
	p, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddBill(models.Bill{PropertyID: p.ID, UtilityType: "gas", Provider: "ACME", DueDate: 1})
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != models.BillStatusPending {
		t.Fatalf("status = %q", b.Status)
	}
}
