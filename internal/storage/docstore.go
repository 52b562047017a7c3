package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// docKeyPrefix is the prefix every generated document key carries.
const docKeyPrefix = "doc-"

// mimeSidecarExt marks the sidecar files recording an explicit content type
// that differs from what the key's filename extension implies.
const mimeSidecarExt = ".mimetype"

// DocStore is the binary attachment store. It is keyed independently of the
// primary store; bills reference keys via their localDocKeys field.
type DocStore interface {
	// Put stores the blob under key, overwriting any previous blob. mimeType
	// may be empty, in which case the type is derived from the key.
	Put(ctx context.Context, key string, blob []byte, mimeType string) error
	// Get returns the blob and its content type, or ok=false if absent.
	Get(ctx context.Context, key string) (blob []byte, mimeType string, ok bool, err error)
	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// ListKeysWithPrefix returns all stored keys starting with prefix, sorted.
	ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// MakeDocKey builds a document key from a creation timestamp in milliseconds
// and the original filename. Path separators are stripped from the filename
// so the key stays a single path element.
func MakeDocKey(timestampMillis int64, filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	return docKeyPrefix + strconv.FormatInt(timestampMillis, 10) + "-" + filename
}

// ParseDocKey recovers the approximate creation timestamp and display name
// from a generated key. ok is false for keys not in the generated format;
// such keys are still valid storage keys, just not parseable.
func ParseDocKey(key string) (timestampMillis int64, filename string, ok bool) {
	rest, found := strings.CutPrefix(key, docKeyPrefix)
	if !found {
		return 0, "", false
	}
	ts, name, found := strings.Cut(rest, "-")
	if !found {
		return 0, "", false
	}
	millis, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return millis, name, true
}

// docMimeType derives the content type for a key, preferring an explicit
// override, then the filename extension, then a binary fallback.
func docMimeType(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if t := mime.TypeByExtension(filepath.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// FileDocStore stores each blob as a file in a directory. An explicit content
// type that differs from the extension-derived one is kept in a sidecar file
// next to the blob; sidecars never show up in listings.
type FileDocStore struct {
	dir string
}

// NewFileDocStore creates the directory if needed.
func NewFileDocStore(dir string) (*FileDocStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &FileDocStore{dir: dir}, nil
}

func (f *FileDocStore) path(key string) string {
	return filepath.Join(f.dir, filepath.Base(key))
}

// Put implements DocStore. The blob is written to a temp file and renamed.
func (f *FileDocStore) Put(ctx context.Context, key string, blob []byte, mimeType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".put.*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write document %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename document %s into place: %w", key, err)
	}
	sidecar := f.path(key) + mimeSidecarExt
	if mimeType != "" && mimeType != docMimeType(key, "") {
		if err := os.WriteFile(sidecar, []byte(mimeType), 0o644); err != nil {
			return fmt.Errorf("failed to record content type for %s: %w", key, err)
		}
	} else {
		_ = os.Remove(sidecar)
	}
	return nil
}

// Get implements DocStore.
func (f *FileDocStore) Get(ctx context.Context, key string) ([]byte, string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", false, err
	}
	blob, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	explicit := ""
	if raw, err := os.ReadFile(f.path(key) + mimeSidecarExt); err == nil {
		explicit = strings.TrimSpace(string(raw))
	}
	return blob, docMimeType(key, explicit), true, nil
}

// Delete implements DocStore.
func (f *FileDocStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	_ = os.Remove(f.path(key) + mimeSidecarExt)
	return nil
}

// ListKeysWithPrefix implements DocStore.
func (f *FileDocStore) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, mimeSidecarExt) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

type memDoc struct {
	blob     []byte
	mimeType string
}

// MemDocStore is an in-memory DocStore for tests.
type MemDocStore struct {
	mu sync.Mutex
	m  map[string]memDoc
}

// NewMemDocStore returns an empty in-memory document store.
func NewMemDocStore() *MemDocStore {
	return &MemDocStore{m: make(map[string]memDoc)}
}

// Put implements DocStore.
func (m *MemDocStore) Put(ctx context.Context, key string, blob []byte, mimeType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.m[key] = memDoc{blob: cp, mimeType: docMimeType(key, mimeType)}
	return nil
}

// Get implements DocStore.
func (m *MemDocStore) Get(ctx context.Context, key string) ([]byte, string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.m[key]
	if !ok {
		return nil, "", false, nil
	}
	cp := make([]byte, len(doc.blob))
	copy(cp, doc.blob)
	return cp, doc.mimeType, true, nil
}

// Delete implements DocStore.
func (m *MemDocStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, key)
	return nil
}

// ListKeysWithPrefix implements DocStore.
func (m *MemDocStore) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.m {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
