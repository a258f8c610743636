// Package mempool implements the admission core's view of the
// application mempool (spec.md §4.3): at-most-once insertion per
// transaction hash, and the removal cache that records why previously
// admitted transactions were later evicted downstream. Ordering and
// eviction policy are the mempool's own internal concern and are out of
// scope here, following the teacher's internal/mempool package (a
// sync.RWMutex-guarded map keyed by transaction identity).
package mempool

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"empower1.com/sequencer/internal/core"
	"empower1.com/sequencer/internal/cost"
)

// ErrAlreadyInserted is wrapped into an InsertError when a transaction
// hash is already present (spec.md §4.3, "At-most-once insertion per
// hash"; §8, "the second returns TRANSACTION_INSERTION_FAILED").
var ErrAlreadyInserted = errors.New("mempool: transaction already present")

// InsertError is returned by Insert; its Error() message is surfaced
// verbatim in the CheckTx response log (spec.md §4.3).
type InsertError struct {
	Hash [32]byte
	Err  error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert %x failed: %v", e.Hash, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// Entry is a mempool-resident transaction plus the bookkeeping captured
// at admission time: the signer's nonce and balance snapshot, and the
// cost vector the admission pipeline computed (spec.md §3, "Mempool
// entry").
type Entry struct {
	Hash     [32]byte
	Tx       *core.SignedTransaction // shared; never copied (spec.md §4.3)
	Nonce    uint32
	Balances map[core.AssetID]cost.Amount
	Cost     cost.Vector
}

// Mempool is the opaque object the admission core inserts into and
// consults (spec.md §4.3). Internals beyond at-most-once insertion and
// removal-cache consultation — ordering, eviction, per-signer queues —
// are out of scope.
type Mempool struct {
	mu       sync.RWMutex
	entries  map[[32]byte]*Entry
	removals *RemovalCache
}

// New returns an empty Mempool backed by removals as its removal cache.
func New(removals *RemovalCache) *Mempool {
	if removals == nil {
		removals = NewRemovalCache()
	}
	return &Mempool{
		entries:  make(map[[32]byte]*Entry),
		removals: removals,
	}
}

// Insert installs tx with the bookkeeping CheckTx's pipeline derived for
// it. A second Insert for the same hash while the first entry is present
// fails deterministically (spec.md §8 scenario: "same hash inserted twice
// in succession").
func (m *Mempool) Insert(tx *core.SignedTransaction, nonce uint32, balances map[core.AssetID]cost.Amount, costVector cost.Vector) error {
	hash := tx.Hash()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[hash]; exists {
		return &InsertError{Hash: hash, Err: ErrAlreadyInserted}
	}

	m.entries[hash] = &Entry{
		Hash:     hash,
		Tx:       tx,
		Nonce:    nonce,
		Balances: balances,
		Cost:     costVector,
	}
	return nil
}

// CheckRemovedCometBFT looks up hash in the removal cache (spec.md §4.1
// step 8). The name mirrors the ABCI gossip layer's CheckTx call site,
// which is the only caller that needs this translation.
func (m *Mempool) CheckRemovedCometBFT(hash [32]byte) (RemovalReason, bool) {
	return m.removals.Lookup(hash)
}

// Remove drops an entry, e.g. once it has been included in a block.
// Removal does not, by itself, write a RemovalCache entry: callers that
// want the hash to be remembered (so gossip echoes are rejected) must
// call RecordRemoval explicitly.
func (m *Mempool) Remove(hash [32]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, hash)
}

// RecordRemoval is the write side of the removal cache, called by
// downstream block-production paths (spec.md §9, "written by the
// proposer"). It is exposed here because the admission core's mempool
// interaction surface includes both directions of that channel, even
// though proposal assembly itself is out of scope.
func (m *Mempool) RecordRemoval(hash [32]byte, reason RemovalReason) {
	m.removals.Record(hash, reason, time.Now())
}

// Len reports the current mempool cardinality (spec.md §4.1, "the
// post-insertion mempool cardinality").
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Get returns the entry for hash, if present, so an admitted transaction
// and its bookkeeping can be re-inspected.
func (m *Mempool) Get(hash [32]byte) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[hash]
	return e, ok
}
