package breadcrumb

import "sync"

// cacheKey identifies the inputs a layout result is valid for:
// (plugin_path, dpi, W, H, factory, formats) in the original
// algorithm's terms. ResourceEpoch stands in for the factory/formats
// half of that tuple, as noted on Params.
type cacheKey struct {
	pluginPath     string
	dpi            float64
	availableWidth float64
	sectionHeight  float64
	resourceEpoch  uint64
}

// Cache memoizes the last computed Layout result, so repeated calls
// with identical inputs (the common case: redraw with nothing
// changed) return without recomputation.
type Cache struct {
	mu     sync.Mutex
	key    cacheKey
	result Result
	valid  bool
}

// Layout returns the cached Result for these inputs if present,
// computing and storing it otherwise. dpi is folded into the cache
// key only (it does not otherwise affect layout math; the host bakes
// DPI into Padding/Spacing/SeparatorWidth/Measure already).
func (c *Cache) Layout(p Params, dpi float64) Result {
	key := cacheKey{
		pluginPath:     p.PluginPath,
		dpi:            dpi,
		availableWidth: p.AvailableWidth,
		sectionHeight:  p.SectionHeight,
		resourceEpoch:  p.ResourceEpoch,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.key == key {
		return c.result
	}

	result := Layout(p)
	c.key = key
	c.result = result
	c.valid = true
	return result
}

// Invalidate drops the cached result unconditionally.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
