package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// manifestTTL is how long a fetched version manifest stays fresh.
// mojang publishes snapshots roughly weekly, an hour is plenty
const manifestTTL = time.Hour

// manifestCache memoizes the version manifest behind a mutex, so
// bootstrapping multiple instances does not hammer the meta API
type manifestCache struct {
	mu        sync.Mutex
	client    *minecraft.VersionsClient
	manifest  *minecraft.VersionManifest
	fetchedAt time.Time
	ttl       time.Duration
}

func newManifestCache(client *minecraft.VersionsClient) *manifestCache {
	return &manifestCache{client: client, ttl: manifestTTL}
}

// get returns the cached manifest or fetches a fresh one after expiry
func (c *manifestCache) get(ctx context.Context) (*minecraft.VersionManifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manifest != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.manifest, nil
	}

	manifest, err := c.client.Manifest(ctx)
	if err != nil {
		// a stale manifest beats no manifest when the network is down
		if c.manifest != nil {
			return c.manifest, nil
		}
		return nil, err
	}

	c.manifest = manifest
	c.fetchedAt = time.Now()
	return manifest, nil
}
