// Package backup implements full-archive and JSON-only export and import of
// the letting store, plus maintenance of orphaned document blobs.
package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"lettingscope/internal/models"
	"lettingscope/internal/storage"
)

const (
	dataEntry     = "data.json"
	schemaEntry   = "schema.json"
	docsDir       = "docs/"
	metadataEntry = "docs/metadata.json"
)

// DocMeta describes one archived attachment.
type DocMeta struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// Manager ties the primary store and the document store together for backup
// operations.
type Manager struct {
	store *storage.Store
	docs  storage.DocStore
}

// NewManager returns a backup manager over the given stores.
func NewManager(store *storage.Store, docs storage.DocStore) *Manager {
	return &Manager{store: store, docs: docs}
}

// ExportArchive produces a ZIP archive holding the full record as data.json,
// every referenced attachment under docs/, a docs/metadata.json map of
// filename and content type per attachment, and a schema.json describing the
// record format. Referenced keys with no stored blob are skipped.
func (m *Manager) ExportArchive(ctx context.Context) ([]byte, error) {
	d := m.store.Load()
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := writeEntry(zw, dataEntry, raw); err != nil {
		return nil, err
	}
	if schema, err := recordSchema(); err == nil {
		if err := writeEntry(zw, schemaEntry, schema); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("Skipping schema entry", "err", err)
	}

	meta := map[string]DocMeta{}
	for _, key := range referencedDocKeys(d) {
		blob, mimeType, ok, err := m.docs.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", key, err)
		}
		if !ok {
			slog.Warn("Skipping missing document", "key", key)
			continue
		}
		if err := writeEntry(zw, docsDir+key, blob); err != nil {
			return nil, err
		}
		filename := key
		if _, name, ok := storage.ParseDocKey(key); ok {
			filename = name
		}
		meta[key] = DocMeta{Filename: filename, MimeType: mimeType}
	}

	metaRaw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document metadata: %w", err)
	}
	if err := writeEntry(zw, metadataEntry, metaRaw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportArchive replaces the primary store with the archive's data.json and
// restores every attachment under docs/. The record is replaced wholesale; no
// merge with existing data is attempted, and documents already restored stay
// restored if a later one fails.
func (m *Manager) ImportArchive(ctx context.Context, archive []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("%w: not a ZIP archive: %v", storage.ErrInvalidFormat, err)
	}

	raw, err := readEntry(zr, dataEntry)
	if err != nil {
		return fmt.Errorf("%w: archive has no %s entry", storage.ErrInvalidFormat, dataEntry)
	}
	d, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	if err := m.store.Replace(d); err != nil {
		return err
	}

	meta := map[string]DocMeta{}
	if metaRaw, err := readEntry(zr, metadataEntry); err == nil {
		if err := json.Unmarshal(metaRaw, &meta); err != nil {
			slog.Warn("Ignoring malformed document metadata", "err", err)
		}
	}

	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, docsDir) || f.Name == metadataEntry || strings.HasSuffix(f.Name, "/") {
			continue
		}
		key := path.Base(f.Name)
		blob, err := readFile(f)
		if err != nil {
			return fmt.Errorf("failed to read archived document %s: %w", key, err)
		}
		if err := m.docs.Put(ctx, key, blob, meta[key].MimeType); err != nil {
			return fmt.Errorf("failed to restore document %s: %w", key, err)
		}
	}
	return nil
}

// ExportJSON serializes only the primary store record, without documents.
func (m *Manager) ExportJSON() ([]byte, error) {
	raw, err := json.MarshalIndent(m.store.Load(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record: %w", err)
	}
	return raw, nil
}

// ImportJSON validates and wholesale-replaces the primary store record. On
// validation failure the existing record is left untouched.
func (m *Manager) ImportJSON(raw []byte) error {
	d, err := ParseRecord(raw)
	if err != nil {
		return err
	}
	return m.store.Replace(d)
}

// ClearAll resets the primary store to an empty record. Document blobs are
// left in place; SweepDocuments reclaims the orphans.
func (m *Manager) ClearAll() error {
	return m.store.Clear()
}

// SweepDocuments deletes every stored document blob no bill references and
// returns the removed keys.
func (m *Manager) SweepDocuments(ctx context.Context) ([]string, error) {
	d := m.store.Load()
	referenced := make(map[string]bool)
	for _, key := range referencedDocKeys(d) {
		referenced[key] = true
	}
	keys, err := m.docs.ListKeysWithPrefix(ctx, "")
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		if err := m.docs.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed = append(removed, key)
	}
	if len(removed) > 0 {
		slog.Info("Swept orphaned documents", "count", len(removed))
	}
	return removed, nil
}

// referencedDocKeys returns the de-duplicated union of document keys across
// all bills, in bill order.
func referencedDocKeys(d *models.AppData) []string {
	var keys []string
	seen := make(map[string]bool)
	for i := range d.Bills {
		for _, k := range d.Bills[i].DocKeys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// recordSchema reflects the JSON schema of the record format.
func recordSchema() ([]byte, error) {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.ReflectFromType(reflect.TypeOf(models.AppData{}))
	return json.MarshalIndent(schema, "", "  ")
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return readFile(f)
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
