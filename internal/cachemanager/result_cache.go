package cachemanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/zjrosen/plis/internal/folding"
)

// ResultKey identifies a scan result by language and content hash.
type ResultKey string

// KeyFor derives the cache key for a document. Two documents with the same
// language and byte-identical text share a key.
func KeyFor(doc folding.Document) ResultKey {
	h := sha256.New()
	h.Write([]byte(doc.LanguageID))
	h.Write([]byte{0})
	h.Write([]byte(doc.Text))
	return ResultKey(hex.EncodeToString(h.Sum(nil)))
}

// ScanResult is the cached outcome of one engine pass.
type ScanResult struct {
	Ranges []folding.Range
	OK     bool
}

// ResultCache is a read-through cache around the folding engine. Scans are
// pure functions of their input, so entries never go stale; the TTL only
// bounds memory growth.
type ResultCache struct {
	cache CacheManager[ResultKey, ScanResult]
	fn    func(ctx context.Context, doc folding.Document) ([]folding.Range, bool)
	ttl   time.Duration
	skip  bool
}

func NewResultCache(
	fn func(ctx context.Context, doc folding.Document) ([]folding.Range, bool),
	ttl time.Duration,
	skip bool,
) *ResultCache {
	return &ResultCache{
		cache: NewInMemoryCacheManager[ResultKey, ScanResult]("fold-results", DefaultExpiration, DefaultCleanupInterval),
		fn:    fn,
		ttl:   ttl,
		skip:  skip,
	}
}

// Get returns the fold ranges for doc, scanning on a cache miss.
func (r *ResultCache) Get(ctx context.Context, doc folding.Document) ([]folding.Range, bool) {
	if r.skip {
		return r.fn(ctx, doc)
	}

	key := KeyFor(doc)
	if result, ok := r.cache.Get(ctx, key); ok {
		return result.Ranges, result.OK
	}

	ranges, ok := r.fn(ctx, doc)
	if ctx.Err() != nil {
		return ranges, ok
	}

	r.cache.Set(ctx, key, ScanResult{Ranges: ranges, OK: ok}, r.ttl)

	return ranges, ok
}

// Invalidate drops the cached result for doc, if any.
func (r *ResultCache) Invalidate(ctx context.Context, doc folding.Document) {
	_ = r.cache.Delete(ctx, KeyFor(doc))
}
