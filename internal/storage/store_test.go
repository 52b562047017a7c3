package storage

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"lettingscope/internal/models"
)

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	s := NewStore(NewMemKV())
	d := s.Load()
	if len(d.Properties) != 0 || len(d.Bills) != 0 || len(d.Chasers) != 0 || len(d.Notes) != 0 || len(d.Activities) != 0 {
		t.Fatal("expected empty collections")
	}
	if d.Version != models.SchemaVersion {
		t.Fatalf("version = %q, want %q", d.Version, models.SchemaVersion)
	}
	if d.Settings.NotificationDaysBefore != 7 {
		t.Fatalf("notificationDaysBefore = %d, want 7", d.Settings.NotificationDaysBefore)
	}
	if d.Settings.Currency != "GBP" {
		t.Fatalf("currency = %q, want GBP", d.Settings.Currency)
	}
}

func TestLoadCorruptResetsToDefaults(t *testing.T) {
	kv := NewMemKV()
	if err := kv.Set(DataKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	s := NewStore(kv)
	d := s.Load()
	if len(d.Properties) != 0 {
		t.Fatal("expected defaults after corrupt load")
	}
	// The reset must have been persisted.
	raw, ok, err := kv.Get(DataKey)
	if err != nil || !ok {
		t.Fatalf("expected persisted defaults, ok=%v err=%v", ok, err)
	}
	var check models.AppData
	if err := json.Unmarshal(raw, &check); err != nil {
		t.Fatalf("persisted record does not parse: %v", err)
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	s := NewStore(NewMemKV())
	d := models.DefaultAppData()
	d.Properties = []models.Property{{ID: "p1", Name: "Flat 1", Address: "1 High St", CreatedAt: 1, UpdatedAt: 2}}
	d.Bills = []models.Bill{{ID: "b1", PropertyID: "p1", UtilityType: "gas", Provider: "ACME", Amount: 42.5, Status: models.BillStatusPending, LocalDocKeys: []string{"doc-1-a.pdf"}, CreatedAt: 3, UpdatedAt: 3}}
	if err := s.Replace(d.Clone()); err != nil {
		t.Fatal(err)
	}
	got := s.Load()
	if !reflect.DeepEqual(got, d) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, d)
	}
}

func TestMutateFailedWriteSurfacesError(t *testing.T) {
	kv := NewMemKV()
	s := NewStore(kv)
	kv.FailWrites = true
	_, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	kv.FailWrites = false
	if got := len(s.Load().Properties); got != 0 {
		t.Fatalf("properties = %d, want 0 after failed save", got)
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := kv.Set("data.json", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	raw, ok, err := kv.Get("data.json")
	if err != nil || !ok {
		t.Fatalf("expected stored key, ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"a":1}` {
		t.Fatalf("raw = %s", raw)
	}
}

func TestClearKeepsDefaults(t *testing.T) {
	s := NewStore(NewMemKV())
	if _, err := s.AddProperty(models.Property{Name: "Flat 1", Address: "1 High St"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	d := s.Load()
	if len(d.Properties) != 0 || len(d.Activities) != 0 {
		t.Fatal("expected empty record after clear")
	}
}
