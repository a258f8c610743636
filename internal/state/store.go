// Package state is the in-memory stand-in for the versioned, persistent
// application-state store spec.md §1 names as an external collaborator.
// It exposes read-only Snapshots so that a single CheckTx admission call
// observes one consistent view of account nonces, balances, fee
// parameters and chain identity (spec.md §4.1 step 5, §9 "Snapshot
// binding over live reads").
package state

import (
	"errors"
	"sync"

	"empower1.com/sequencer/internal/cost"
	"empower1.com/sequencer/internal/core"
)

// ErrAccountNotFound is returned by Snapshot.BridgeAccountAsset for a
// bridge account with no registered asset. Nonce and balance reads never
// return it: an unseen account reads as nonce zero and an empty balance
// map, matching a fresh on-chain account.
var ErrAccountNotFound = errors.New("state: account not found")

// FeeParams holds the 128-bit fee parameters spec.md §3 reads from state.
type FeeParams struct {
	TransferBaseFee              cost.Amount
	SequenceActionBaseFee        cost.Amount
	SequenceActionByteMultiplier cost.Amount
	Ics20WithdrawalBaseFee       cost.Amount
	InitBridgeAccountBaseFee     cost.Amount
	BridgeLockByteCostMultiplier cost.Amount
	BridgeSudoChangeBaseFee      cost.Amount
}

type account struct {
	nonce    uint32
	balances map[core.AssetID]cost.Amount
}

// Store is the mutable backing store; block execution (out of scope here)
// is the only intended writer in a real node. It is guarded by a
// sync.RWMutex in the same style as the teacher's
// internal/state.StateManager.
type Store struct {
	mu sync.RWMutex

	chainID    string
	basePrefix string
	feeParams  FeeParams

	accounts       map[core.Address]*account
	bridgeAccounts map[core.Address]core.AssetID
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[core.Address]*account),
		bridgeAccounts: make(map[core.Address]core.AssetID),
	}
}

// SetChainID sets the chain identity new transactions must match
// (spec.md §4.1 step 7).
func (s *Store) SetChainID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainID = id
}

// SetBasePrefix sets the address-derivation prefix (spec.md §4.1 step 9).
func (s *Store) SetBasePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basePrefix = prefix
}

// SetFeeParams replaces the configured fee parameters wholesale.
func (s *Store) SetFeeParams(p FeeParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeParams = p
}

// RegisterBridgeAccount records the asset a bridge account was
// initialized with, consulted by the BridgeUnlock cost path.
func (s *Store) RegisterBridgeAccount(bridgeAddress core.Address, asset core.AssetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridgeAccounts[bridgeAddress] = asset
}

// SetAccountNonce seeds or overwrites an account's nonce, e.g. when
// replaying committed blocks into this stand-in store.
func (s *Store) SetAccountNonce(addr core.Address, nonce uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account(addr).nonce = nonce
}

// IncreaseBalance credits amount of asset to addr.
func (s *Store) IncreaseBalance(addr core.Address, asset core.AssetID, amount cost.Amount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.account(addr)
	acct.balances[asset] = acct.balances[asset].SaturatingAdd(amount)
}

// account returns (creating if necessary) the account entry for addr.
// Callers must hold s.mu.
func (s *Store) account(addr core.Address) *account {
	acct, ok := s.accounts[addr]
	if !ok {
		acct = &account{balances: make(map[core.AssetID]cost.Amount)}
		s.accounts[addr] = acct
	}
	return acct
}

// Snapshot captures the latest committed state as an immutable view
// (spec.md §4.1 step 5, "Acquire the latest committed snapshot"). This
// in-memory stand-in deep-copies every account and bridge-account entry,
// so the cost grows with the store's size; a real versioned KV store
// would instead hand out a cheap reference into an immutable revision.
// Either way, later writes to the Store are not visible in the Snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make(map[core.Address]account, len(s.accounts))
	for addr, acct := range s.accounts {
		balances := make(map[core.AssetID]cost.Amount, len(acct.balances))
		for asset, amt := range acct.balances {
			balances[asset] = amt
		}
		accounts[addr] = account{nonce: acct.nonce, balances: balances}
	}

	bridgeAccounts := make(map[core.Address]core.AssetID, len(s.bridgeAccounts))
	for addr, asset := range s.bridgeAccounts {
		bridgeAccounts[addr] = asset
	}

	return &Snapshot{
		chainID:        s.chainID,
		basePrefix:     s.basePrefix,
		feeParams:      s.feeParams,
		accounts:       accounts,
		bridgeAccounts: bridgeAccounts,
	}
}
