package mempool

import (
	"sync"
	"time"
)

// RemovalReasonKind tags why a previously admitted transaction was later
// evicted by proposal-time processing (spec.md §3, "Removal cache
// entry").
type RemovalReasonKind int

const (
	// ReasonExpired: the transaction aged out of the app mempool.
	ReasonExpired RemovalReasonKind = iota
	// ReasonFailedPrepareProposal: execution failed while assembling a
	// block proposal; Message carries the execution error.
	ReasonFailedPrepareProposal
	// ReasonNonceStale: the account's nonce advanced past the
	// transaction's declared nonce while it sat in the mempool.
	ReasonNonceStale
	// ReasonLowerNonceInvalidated: a lower-nonce transaction from the
	// same signer was invalidated, which also invalidates this one.
	ReasonLowerNonceInvalidated
)

// RemovalReason is the value type of a removal-cache entry.
type RemovalReason struct {
	Kind    RemovalReasonKind
	Message string // only meaningful for ReasonFailedPrepareProposal
}

// RemovalCache is the hash-keyed feedback channel from block-production
// paths back into the admission pipeline (spec.md §9, "Removal cache as
// feedback channel"). Entries are written once by a downstream proposer
// and read (never cleared implicitly) by CheckTx; pruning is the owner's
// responsibility via Prune.
type RemovalCache struct {
	mu      sync.RWMutex
	entries map[[32]byte]removalCacheEntry
}

type removalCacheEntry struct {
	reason    RemovalReason
	recordedAt time.Time
}

// NewRemovalCache returns an empty RemovalCache.
func NewRemovalCache() *RemovalCache {
	return &RemovalCache{entries: make(map[[32]byte]removalCacheEntry)}
}

// Record stores reason for hash, overwriting any prior entry. Durable
// until Prune removes it (spec.md §4.3, "Removal-cache durability").
func (c *RemovalCache) Record(hash [32]byte, reason RemovalReason, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = removalCacheEntry{reason: reason, recordedAt: now}
}

// Lookup returns the removal reason recorded for hash, if any.
func (c *RemovalCache) Lookup(hash [32]byte) (RemovalReason, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[hash]
	return e.reason, ok
}

// Prune drops every entry recorded at or before cutoff, bounding the
// cache's size; callers (the proposer/scheduler, not the admission core)
// decide the cutoff policy.
func (c *RemovalCache) Prune(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pruned := 0
	for hash, e := range c.entries {
		if !e.recordedAt.After(cutoff) {
			delete(c.entries, hash)
			pruned++
		}
	}
	return pruned
}

// Len reports the number of entries currently cached.
func (c *RemovalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
