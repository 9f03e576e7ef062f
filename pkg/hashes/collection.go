package hashes

import (
	"encoding/json"
	"sync"

	"github.com/cperrin88/linkhash/pkg/errors"
)

// CollectionRecord is the serialized form of a Collection. It round-trips
// through LoadCollection and json without loss.
type CollectionRecord struct {
	Full      Hash   `json:"full"`
	ParLength int64  `json:"parLength"`
	Partials  []Hash `json:"partials"`
}

// Collection aggregates the verifiable hashes of a single download: one
// mandatory full-file hash plus zero or more partial hashes in chunk order.
// Partials are append-only; the serialized record is refreshed under the
// same lock as each append, so a concurrent reader of the record never sees
// a collection whose serialization lags behind its partials.
type Collection struct {
	mu        sync.Mutex
	full      Hash
	parLength int64
	partials  []Hash
	cached    CollectionRecord
}

// NewCollection creates a collection around its mandatory full-file hash.
func NewCollection(full Hash) (*Collection, error) {
	if !full.Valid() {
		return nil, errors.Wrap(errors.ErrInvalidCollection, "full hash is invalid")
	}
	c := &Collection{full: full}
	c.refreshLocked()
	return c, nil
}

// LoadCollection reconstructs a collection from a previously serialized
// record. The full hash is validated first and fails the whole load when
// malformed; partials are then validated in order, any malformed partial
// failing the load with no partial success.
func LoadCollection(rec CollectionRecord) (*Collection, error) {
	c, err := NewCollection(rec.Full)
	if err != nil {
		return nil, err
	}
	if rec.ParLength < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidCollection, "negative partial length %d", rec.ParLength)
	}
	c.parLength = rec.ParLength
	for i, p := range rec.Partials {
		if err := c.Add(p); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidCollection, "partial %d", i)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	return c, nil
}

// Full returns the full-file hash.
func (c *Collection) Full() Hash {
	return c.full
}

// Add appends a partial hash. Insertion order is chunk order.
func (c *Collection) Add(partial Hash) error {
	if !partial.Valid() {
		return errors.Wrap(errors.ErrInvalidHash, "partial hash is invalid")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partials = append(c.partials, partial)
	c.refreshLocked()
	return nil
}

// SetPartialLength records the chunk size in bytes covered by each partial
// hash. The length must not be negative.
func (c *Collection) SetPartialLength(n int64) error {
	if n < 0 {
		return errors.Wrapf(errors.ErrInvalidCollection, "negative partial length %d", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parLength = n
	c.refreshLocked()
	return nil
}

// PartialLength returns the chunk size covered by each partial hash.
func (c *Collection) PartialLength() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parLength
}

// Partials returns a copy of the partial hashes in chunk order.
func (c *Collection) Partials() []Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Hash, len(c.partials))
	copy(out, c.partials)
	return out
}

// HasPartials reports whether any partial hashes have been added.
func (c *Collection) HasPartials() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.partials) > 0
}

// Record returns the current serialized form. It is a pure projection with
// no side effects; the slice is a copy and safe to retain.
func (c *Collection) Record() CollectionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.cached
	rec.Partials = make([]Hash, len(c.cached.Partials))
	copy(rec.Partials, c.cached.Partials)
	return rec
}

// MarshalJSON serializes the cached record.
func (c *Collection) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Marshal(c.cached)
}

// UnmarshalJSON reconstructs the collection from its serialized record with
// full LoadCollection validation.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var rec CollectionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(errors.ErrInvalidCollection, err.Error())
	}
	loaded, err := LoadCollection(rec)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = loaded.full
	c.parLength = loaded.parLength
	c.partials = loaded.partials
	c.refreshLocked()
	return nil
}

// refreshLocked rebuilds the cached record. Callers must hold c.mu (or have
// exclusive access during construction).
func (c *Collection) refreshLocked() {
	partials := make([]Hash, len(c.partials))
	copy(partials, c.partials)
	c.cached = CollectionRecord{
		Full:      c.full,
		ParLength: c.parLength,
		Partials:  partials,
	}
}
