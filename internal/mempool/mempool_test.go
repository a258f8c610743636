package mempool

import (
	"errors"
	"testing"
	"time"

	"empower1.com/sequencer/internal/core"
	"empower1.com/sequencer/internal/cost"
)

func newTestTx(t *testing.T, wireBytes string) *core.SignedTransaction {
	t.Helper()
	return &core.SignedTransaction{
		Body: core.UnsignedTransaction{
			Params: core.TransactionParams{Nonce: 0, ChainID: "test-chain-id"},
			Actions: []core.Action{
				core.TransferAction{Asset: "nria", Amount: 1, FeeDenom: "nria"},
			},
		},
		WireBytes: []byte(wireBytes),
	}
}

func TestInsertRejectsDuplicateHash(t *testing.T) {
	m := New(nil)
	tx := newTestTx(t, "same-bytes")

	if err := m.Insert(tx, 0, nil, cost.NewVector()); err != nil {
		t.Fatalf("first insert: unexpected error: %v", err)
	}
	err := m.Insert(tx, 0, nil, cost.NewVector())
	if err == nil {
		t.Fatalf("second insert: expected error, got nil")
	}
	if !errors.Is(err, ErrAlreadyInserted) {
		t.Fatalf("second insert: want ErrAlreadyInserted, got %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestLenIncrementsByExactlyOnePerDistinctInsert(t *testing.T) {
	m := New(nil)
	tx1 := newTestTx(t, "tx-one")
	tx2 := newTestTx(t, "tx-two")

	if err := m.Insert(tx1, 0, nil, cost.NewVector()); err != nil {
		t.Fatalf("insert tx1: %v", err)
	}
	if got := m.Len(); got != 1 {
		t.Fatalf("Len() after first insert = %d, want 1", got)
	}
	if err := m.Insert(tx2, 0, nil, cost.NewVector()); err != nil {
		t.Fatalf("insert tx2: %v", err)
	}
	if got := m.Len(); got != 2 {
		t.Fatalf("Len() after second insert = %d, want 2", got)
	}
}

func TestCheckRemovedCometBFTReflectsEveryReasonKind(t *testing.T) {
	cases := []RemovalReasonKind{
		ReasonExpired,
		ReasonFailedPrepareProposal,
		ReasonNonceStale,
		ReasonLowerNonceInvalidated,
	}

	for _, kind := range cases {
		m := New(nil)
		tx := newTestTx(t, "removable")
		hash := tx.Hash()

		if _, found := m.CheckRemovedCometBFT(hash); found {
			t.Fatalf("kind %v: expected no removal entry before recording", kind)
		}

		m.RecordRemoval(hash, RemovalReason{Kind: kind, Message: "detail"})

		reason, found := m.CheckRemovedCometBFT(hash)
		if !found {
			t.Fatalf("kind %v: expected removal entry after recording", kind)
		}
		if reason.Kind != kind {
			t.Fatalf("kind %v: got reason kind %v", kind, reason.Kind)
		}
	}
}

func TestRemovalCacheEntryIsDurableUntilPruned(t *testing.T) {
	cache := NewRemovalCache()
	var hash [32]byte
	hash[0] = 0x42

	early := time.Now()
	cache.Record(hash, RemovalReason{Kind: ReasonExpired}, early)

	if _, found := cache.Lookup(hash); !found {
		t.Fatalf("expected entry to be found before pruning")
	}

	cache.Prune(early.Add(-time.Second))
	if _, found := cache.Lookup(hash); !found {
		t.Fatalf("entry pruned by a cutoff before it was recorded")
	}

	cache.Prune(early.Add(time.Second))
	if _, found := cache.Lookup(hash); found {
		t.Fatalf("expected entry to be pruned by a cutoff after it was recorded")
	}
}

func TestGetReturnsInsertedEntry(t *testing.T) {
	m := New(nil)
	tx := newTestTx(t, "lookup-me")
	balances := map[core.AssetID]cost.Amount{}
	costVector := cost.NewVector()

	if err := m.Insert(tx, 7, balances, costVector); err != nil {
		t.Fatalf("insert: %v", err)
	}

	entry, ok := m.Get(tx.Hash())
	if !ok {
		t.Fatalf("expected entry to be present")
	}
	if entry.Nonce != 7 {
		t.Fatalf("entry.Nonce = %d, want 7", entry.Nonce)
	}
	if entry.Tx != tx {
		t.Fatalf("entry.Tx is not the same shared transaction pointer")
	}
}
