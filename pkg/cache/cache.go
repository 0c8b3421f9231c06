package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
)

// Cache is the short-TTL read cache injected into each resource service.
// Values are JSON blobs; the service owns marshalling. There is no eviction on
// size, only time-based expiry and explicit prefix clears after known-stale
// events (writes to the owning resource).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	ClearPrefix(ctx context.Context, prefix string)
}

// Key derives a cache key from a resource prefix and the query parameters of
// the lookup. Parameters are serialized to JSON and hashed so that equal
// queries always land on the same key.
func Key(prefix string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return prefix + ":raw:" + fmt.Sprintf("%v", params)
	}
	return fmt.Sprintf("%s:%x", prefix, md5.Sum(data))
}
