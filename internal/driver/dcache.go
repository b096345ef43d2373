package driver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"treeconv/internal/diag"
	"treeconv/internal/source"
	"treeconv/internal/target"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит отрисованные результаты конвертации по CacheKey на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the rendered form of a Result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name        string
	Units       []CachedUnit
	Fields      string // rendered field members
	Diagnostics []CachedDiagnostic
	Dropped     int
}

// CachedUnit is one rendered unit body.
type CachedUnit struct {
	Name    string
	Text    string
	Skipped bool
}

// CachedDiagnostic is a diagnostic without notes.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	File     uint32
	Start    uint32
	End      uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	// Подкаталог "docs" упрощает очистку.
	return filepath.Join(c.dir, "docs", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	// После успешного Rename временного файла уже нет.
	defer func() { _ = os.Remove(f.Name()) }()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// with another schema are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// NewPayload renders res for caching.
func NewPayload(res *Result) (*DiskPayload, error) {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Name:   res.Name,
		Units:  make([]CachedUnit, len(res.Units)),
	}
	for i, u := range res.Units {
		payload.Units[i] = CachedUnit{Name: u.Name, Text: target.Format(u.Stmts), Skipped: u.Skipped}
	}
	var buf bytes.Buffer
	if err := target.NewPrinter(&buf).PrintFields(res.Fields); err != nil {
		return nil, err
	}
	payload.Fields = buf.String()
	for _, d := range res.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			File:     uint32(d.Primary.File),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	payload.Dropped = res.Bag.Dropped()
	return payload, nil
}

// Bag rebuilds the diagnostics of a cached result.
func (p *DiskPayload) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, d := range p.Diagnostics {
		sp := source.Span{File: source.FileID(d.File), Start: d.Start, End: d.End}
		bag.Add(diag.New(diag.Severity(d.Severity), diag.Code(d.Code), sp, d.Message))
	}
	return bag
}
