package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
	explru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/davfs/cacheapi"
	cachewrap "github.com/xxxsen/davfs/cacheapi/adaptor"
)

const (
	ContentCacheKindLru       = "lru"
	ContentCacheKindRistretto = "ristretto"

	defaultContentCacheTTL = 10 * time.Minute
	defaultContentItemSize = 64 * 1024
)

// CachedContent is a GET body kept for If-None-Match revalidation.
type CachedContent struct {
	ETag   string
	Header http.Header
	Body   []byte
}

func contentKey(url string) uint64 {
	return xxhash.Sum64String(url)
}

// NewContentCache builds a content cache. For "lru" size is the item count,
// for "ristretto" it is the total bytes of cached bodies.
func NewContentCache(kind string, size int64, ttl time.Duration) (cacheapi.ICache[uint64, *CachedContent], error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid content cache size:%d", size)
	}
	if ttl <= 0 {
		ttl = defaultContentCacheTTL
	}
	switch kind {
	case ContentCacheKindLru:
		cc := explru.NewLRU[uint64, *CachedContent](int(size), nil, ttl)
		return cachewrap.WrapExpirableLruCache(cc), nil
	case ContentCacheKindRistretto:
		numCounters := size / defaultContentItemSize * 10
		if numCounters < 100 {
			numCounters = 100
		}
		cc, err := ristretto.NewCache(&ristretto.Config[uint64, *CachedContent]{
			NumCounters: numCounters,
			MaxCost:     size,
			BufferItems: 64,
			Cost: func(value *CachedContent) int64 {
				return int64(len(value.Body))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create ristretto cache failed, err:%w", err)
		}
		return cachewrap.WrapRistrettoCache(cc), nil
	default:
		return nil, fmt.Errorf("unknown content cache kind:%s", kind)
	}
}
