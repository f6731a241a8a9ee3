package render

import "fmt"

// Cache caps chosen for decoded grids: terminal-sized artwork runs a
// few hundred kilobytes per entry.
const (
	cacheMaxEntries = 64
	cacheMaxBytes   = 48 << 20
)

// Loader decodes artwork into drift-ready grids, caching results by
// path and geometry. All grids it returns carry overscan margins so
// ambient motion has room to move.
type Loader struct {
	cache *Cache[string, *Grid]
}

// NewLoader creates a loader with the default cache caps.
func NewLoader() *Loader {
	return &Loader{
		cache: NewCache[string, *Grid](cacheMaxEntries, cacheMaxBytes, func(_ string, g *Grid) int64 {
			return g.Bytes()
		}),
	}
}

// Artwork loads the image at path sized for a w by h pixel view plus
// overscan. Decode failures surface to the caller; the cycle decides
// what to skip.
func (l *Loader) Artwork(path string, w, h int) (*Grid, error) {
	ow, oh := overscanSize(w, h)
	key := fmt.Sprintf("art|%s|%dx%d", path, ow, oh)
	if g, ok := l.cache.Get(key); ok {
		return g, nil
	}
	g, err := loadImageGrid(path, ow, oh)
	if err != nil {
		return nil, err
	}
	l.cache.Put(key, g)
	return g, nil
}

// Placeholder returns substitute artwork for the unit, sized like
// Artwork output and cached the same way.
func (l *Loader) Placeholder(slug, hexColor string, w, h int) *Grid {
	ow, oh := overscanSize(w, h)
	key := fmt.Sprintf("ph|%s|%s|%dx%d", slug, hexColor, ow, oh)
	if g, ok := l.cache.Get(key); ok {
		return g
	}
	g := Placeholder(slug, hexColor, ow, oh)
	l.cache.Put(key, g)
	return g
}

// DropOtherGeometries evicts cached grids that no longer match the
// current view size, typically after a terminal resize.
func (l *Loader) DropOtherGeometries(w, h int) int {
	ow, oh := overscanSize(w, h)
	suffix := fmt.Sprintf("|%dx%d", ow, oh)
	return l.cache.DeleteFunc(func(key string, _ *Grid) bool {
		return len(key) < len(suffix) || key[len(key)-len(suffix):] != suffix
	})
}

// CacheLen reports how many grids are currently cached.
func (l *Loader) CacheLen() int {
	return l.cache.Len()
}

func overscanSize(w, h int) (int, int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w + 2*OverscanX(w), h + 2*OverscanY(h)
}
