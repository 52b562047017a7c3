package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestMakeAndParseDocKey(t *testing.T) {
	key := MakeDocKey(1700000000000, "invoice.pdf")
	if key != "doc-1700000000000-invoice.pdf" {
		t.Fatalf("key = %q", key)
	}
	ts, name, ok := ParseDocKey(key)
	if !ok {
		t.Fatal("expected parseable key")
	}
	if ts != 1700000000000 || name != "invoice.pdf" {
		t.Fatalf("ts=%d name=%q", ts, name)
	}
}

func TestParseDocKeyRejectsForeignKeys(t *testing.T) {
	for _, key := range []string{"", "invoice.pdf", "doc-", "doc-abc-x.pdf"} {
		if _, _, ok := ParseDocKey(key); ok {
			t.Fatalf("key %q parsed unexpectedly", key)
		}
	}
}

func TestMakeDocKeyStripsPathSeparators(t *testing.T) {
	key := MakeDocKey(1, "../../etc/passwd")
	if key != "doc-1-passwd" {
		t.Fatalf("key = %q", key)
	}
	key = MakeDocKey(1, `c:\docs\invoice.pdf`)
	if key != "doc-1-invoice.pdf" {
		t.Fatalf("key = %q", key)
	}
}

func TestFileDocStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds, err := NewFileDocStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	blob := []byte("%PDF-1.4 fake")
	key := MakeDocKey(1, "invoice.pdf")
	if err := ds.Put(ctx, key, blob, ""); err != nil {
		t.Fatal(err)
	}
	got, mimeType, ok, err := ds.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatal("blob mismatch")
	}
	if mimeType != "application/pdf" {
		t.Fatalf("mimeType = %q", mimeType)
	}
}

func TestFileDocStoreExplicitMimeType(t *testing.T) {
	ctx := context.Background()
	ds, err := NewFileDocStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := MakeDocKey(1, "scan.bin")
	if err := ds.Put(ctx, key, []byte{1, 2, 3}, "image/png"); err != nil {
		t.Fatal(err)
	}
	_, mimeType, ok, err := ds.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get ok=%v err=%v", ok, err)
	}
	if mimeType != "image/png" {
		t.Fatalf("mimeType = %q", mimeType)
	}
	// Sidecars never show up in listings.
	keys, err := ds.ListKeysWithPrefix(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("keys = %v", keys)
	}
}

func TestFileDocStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	ds, err := NewFileDocStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k1 := MakeDocKey(1, "a.txt")
	k2 := MakeDocKey(2, "b.txt")
	for _, k := range []string{k1, k2} {
		if err := ds.Put(ctx, k, []byte(k), ""); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := ds.ListKeysWithPrefix(ctx, "doc-")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v", keys)
	}
	if err := ds.Delete(ctx, k1); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, err := ds.Get(ctx, k1); err != nil || ok {
		t.Fatalf("deleted key still present, ok=%v err=%v", ok, err)
	}
	// Deleting an absent key is not an error.
	if err := ds.Delete(ctx, k1); err != nil {
		t.Fatal(err)
	}
}

func TestMemDocStoreMatchesFileBehavior(t *testing.T) {
	ctx := context.Background()
	ds := NewMemDocStore()
	key := MakeDocKey(1, "a.txt")
	if err := ds.Put(ctx, key, []byte("hello"), ""); err != nil {
		t.Fatal(err)
	}
	got, mimeType, ok, err := ds.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get ok=%v err=%v", ok, err)
	}
	if string(got) != "hello" {
		t.Fatalf("blob = %q", got)
	}
	if mimeType == "" {
		t.Fatal("expected derived mime type")
	}
	keys, err := ds.ListKeysWithPrefix(ctx, "doc-")
	if err != nil || len(keys) != 1 {
		t.Fatalf("keys=%v err=%v", keys, err)
	}
}
