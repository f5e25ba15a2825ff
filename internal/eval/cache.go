package eval

import (
	"sync"

	"github.com/ChallenHB/mill/internal/target"
)

// entry is one cached result: the last computed value, its serialized
// form, and the freshness token stamped when it was written.
//
// An entry is never partially updated: the evaluator replaces whole
// entries, and a failed evaluation leaves the previous entry intact.
type entry struct {
	value      any
	decoded    bool // value is populated (false for entries loaded from a store)
	serialized []byte
	token      int64
}

// cache maps identities to entries. It is owned by the evaluator; the
// per-identity slots are independently replaceable and guarded by one
// mutex since the evaluation walk is single-writer.
type cache struct {
	mu      sync.Mutex
	entries map[target.Identity]*entry
}

func newCache() *cache {
	return &cache{entries: make(map[target.Identity]*entry)}
}

func (c *cache) get(id target.Identity) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

func (c *cache) put(id target.Identity, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
}
