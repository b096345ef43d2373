package driver

import (
	"context"
	"path/filepath"
	"testing"

	"treeconv/internal/convert"
	"treeconv/internal/src"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "treeconv"))
	if err != nil {
		t.Fatal(err)
	}
	b := src.NewBuilder()
	doc := &Document{Name: "Module1", Units: []Unit{callUnit(b, "A", "F")}}
	res, err := ConvertDocument(context.Background(), doc, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	payload, err := NewPayload(res)
	if err != nil {
		t.Fatal(err)
	}

	key := CacheKey("1.0.0", []byte("{}"), Options{})
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != "Module1" || len(got.Units) != 1 || got.Units[0].Text != "F();\n" {
		t.Errorf("payload = %+v", got)
	}
	if got.Bag().Len() != 0 {
		t.Errorf("unexpected diagnostics %v", got.Bag().Items())
	}

	other := CacheKey("1.0.0", []byte("{ }"), Options{})
	if ok, err := cache.Get(other, &got); ok || err != nil {
		t.Errorf("miss expected: ok=%v err=%v", ok, err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &got); ok {
		t.Error("entry survived DropAll")
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(Digest{}, &DiskPayload{}); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestCacheKey(t *testing.T) {
	base := CacheKey("1.0.0", []byte("doc"), Options{})
	tests := []struct {
		name string
		key  Digest
		same bool
	}{
		{"identical", CacheKey("1.0.0", []byte("doc"), Options{Jobs: 8}), true},
		{"version", CacheKey("1.0.1", []byte("doc"), Options{}), false},
		{"input", CacheKey("1.0.0", []byte("doc2"), Options{}), false},
		{"case", CacheKey("1.0.0", []byte("doc"), Options{Convert: convert.Options{CaseInsensitiveNames: true}}), false},
		{"limit", CacheKey("1.0.0", []byte("doc"), Options{MaxDiagnostics: 5}), false},
	}
	for _, tt := range tests {
		if (tt.key == base) != tt.same {
			t.Errorf("%s: same=%v, want %v", tt.name, tt.key == base, tt.same)
		}
	}
	if base.IsZero() || len(base.String()) != 64 {
		t.Errorf("bad digest %s", base)
	}
}
