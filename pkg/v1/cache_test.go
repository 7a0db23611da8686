package kad

import (
	"os"
	"testing"
	"time"

	"github.com/beetlebugorg/kirrakad/pkg/kad"
)

func TestDocumentCacheGetLoadsOnMiss(t *testing.T) {
	cache := NewDocumentCache(0)
	calls := 0
	loader := func() (*kad.Document, error) {
		calls++
		return parseInlineKAD(t, "POINT,0,#FF0000,1,2,3\n"), nil
	}
	modTime := time.Unix(1000, 0)
	doc1, err := cache.Get("a.kad", modTime, loader)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	doc2, err := cache.Get("a.kad", modTime, loader)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1 (second Get should hit cache)", calls)
	}
	if doc1 != doc2 {
		t.Error("expected the cached Get to return the same Document pointer")
	}
}

func TestDocumentCacheModTimeInvalidatesEntry(t *testing.T) {
	cache := NewDocumentCache(0)
	calls := 0
	loader := func() (*kad.Document, error) {
		calls++
		return parseInlineKAD(t, "POINT,0,#FF0000,1,2,3\n"), nil
	}
	cache.Get("a.kad", time.Unix(1000, 0), loader)
	cache.Get("a.kad", time.Unix(2000, 0), loader)
	if calls != 2 {
		t.Errorf("loader called %d times, want 2 (different modtime should miss)", calls)
	}
}

func TestDocumentCacheEvictsLRUUnderMemoryLimit(t *testing.T) {
	doc := parseInlineKAD(t, "POINT,0,#FF0000,1,2,3\n")
	// Room for roughly one document (base overhead ~1024 bytes), not two.
	cache := NewDocumentCache(1200)

	if err := cache.Add("k1", doc); err != nil {
		t.Fatalf("Add(k1) failed: %v", err)
	}
	if err := cache.Add("k2", doc); err != nil {
		t.Fatalf("Add(k2) failed: %v", err)
	}
	if cache.Stats().DocumentCount != 1 {
		t.Errorf("expected the tiny memory limit to evict k1 when k2 is added, got %d entries", cache.Stats().DocumentCount)
	}
	if _, ok := cache.entries["k1"]; ok {
		t.Error("expected k1 to have been evicted as least-recently-used")
	}
	if _, ok := cache.entries["k2"]; !ok {
		t.Error("expected k2 to remain cached")
	}
}

func TestDocumentCacheTooLargeForCacheIsRejected(t *testing.T) {
	cache := NewDocumentCache(1) // smaller than any real document's overhead
	doc := parseInlineKAD(t, "POINT,0,#FF0000,1,2,3\n")
	if err := cache.Add("k1", doc); err == nil {
		t.Error("expected Add to reject a document larger than the entire cache limit")
	}
	if cache.Stats().DocumentCount != 0 {
		t.Errorf("expected nothing cached after a rejected Add, got %d", cache.Stats().DocumentCount)
	}
}

func TestDocumentCacheRemoveAndClear(t *testing.T) {
	cache := NewDocumentCache(0)
	doc := parseInlineKAD(t, "POINT,0,#FF0000,1,2,3\n")
	modTime := time.Unix(1000, 0)
	cache.Get("a.kad", modTime, func() (*kad.Document, error) { return doc, nil })
	if cache.Stats().DocumentCount != 1 {
		t.Fatalf("expected 1 cached document, got %d", cache.Stats().DocumentCount)
	}
	cache.Remove("a.kad", modTime)
	if cache.Stats().DocumentCount != 0 {
		t.Errorf("expected Remove to evict the entry, got %d remaining", cache.Stats().DocumentCount)
	}
	cache.Get("b.kad", modTime, func() (*kad.Document, error) { return doc, nil })
	cache.Clear()
	if cache.Stats().DocumentCount != 0 {
		t.Errorf("expected Clear to empty the cache, got %d remaining", cache.Stats().DocumentCount)
	}
}

func parseInlineKAD(t *testing.T, text string) *kad.Document {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/inline.kad"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("writing inline KAD fixture failed: %v", err)
	}
	result, err := kad.NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return result.Document
}
