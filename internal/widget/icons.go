package widget

import (
	"fmt"
	"log"
	"sync"

	"github.com/gotk3/gotk3/gdk"
	"github.com/hashicorp/golang-lru/v2"
)

// IconCache caches scaled pixbufs so the per-update row rebuilds do
// not re-read icon files from disk.
type IconCache struct {
	cache *lru.Cache[string, *gdk.Pixbuf]
	mu    sync.RWMutex
}

// NewIconCache creates a pixbuf cache holding up to maxSize entries.
func NewIconCache(maxSize int) (*IconCache, error) {
	if maxSize <= 0 {
		maxSize = 32
	}

	cache, err := lru.New[string, *gdk.Pixbuf](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create icon cache: %w", err)
	}

	return &IconCache{cache: cache}, nil
}

// Load returns the image at path scaled to the given height, keeping
// the aspect ratio.
func (ic *IconCache) Load(path string, height int) (*gdk.Pixbuf, error) {
	key := fmt.Sprintf("%s@%d", path, height)

	ic.mu.RLock()
	pixbuf, hit := ic.cache.Get(key)
	ic.mu.RUnlock()

	if hit && pixbuf != nil {
		return pixbuf, nil
	}

	ic.mu.Lock()
	defer ic.mu.Unlock()

	// Double-check after acquiring write lock
	if pixbuf, ok := ic.cache.Get(key); ok && pixbuf != nil {
		return pixbuf, nil
	}

	log.Printf("[ICON-CACHE] MISS: %s", key)

	pixbuf, err := gdk.PixbufNewFromFileAtScale(path, -1, height, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load icon %s: %w", path, err)
	}

	ic.cache.Add(key, pixbuf)
	log.Printf("[ICON-CACHE] STORED: %s (cache size: %d)", key, ic.cache.Len())

	return pixbuf, nil
}
