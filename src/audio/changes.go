package audio

import (
	"sort"
	"sync"
)

// ----- Changes ----- //

// Changes collects the names of parameters edited since the last Drain.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// NewChanges ...
func NewChanges() *Changes {
	return &Changes{
		dict: make(map[string]struct{}),
	}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// Drain returns the pending keys in sorted order and clears them.
func (c *Changes) Drain() []string {
	c.Lock()
	defer c.Unlock()
	if len(c.dict) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.dict))
	for key := range c.dict {
		keys = append(keys, key)
	}
	c.dict = make(map[string]struct{})
	sort.Strings(keys)
	return keys
}
