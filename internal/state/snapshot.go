package state

import (
	"empower1.com/sequencer/internal/cost"
	"empower1.com/sequencer/internal/core"
)

// Snapshot is an immutable, versioned read view of application state. A
// single CheckTx admission call binds exactly one Snapshot and resolves
// every read against it, so nonce and balance reads cannot observe two
// different committed heights within the same call (spec.md §5).
type Snapshot struct {
	chainID        string
	basePrefix     string
	feeParams      FeeParams
	accounts       map[core.Address]account
	bridgeAccounts map[core.Address]core.AssetID
}

// ChainID returns the chain identifier transactions must match
// (spec.md §4.1 step 7).
func (s *Snapshot) ChainID() string { return s.chainID }

// BasePrefix returns the address-derivation prefix (spec.md §4.1 step 9).
func (s *Snapshot) BasePrefix() string { return s.basePrefix }

// AccountNonce returns the current nonce for addr, or zero for an
// account the snapshot has never seen.
func (s *Snapshot) AccountNonce(addr core.Address) uint32 {
	if acct, ok := s.accounts[addr]; ok {
		return acct.nonce
	}
	return 0
}

// AccountBalance returns addr's balance in asset, or the zero Amount.
func (s *Snapshot) AccountBalance(addr core.Address, asset core.AssetID) cost.Amount {
	if acct, ok := s.accounts[addr]; ok {
		return acct.balances[asset]
	}
	return cost.Amount{}
}

// AccountBalances returns the full per-asset balance map for addr
// (spec.md §4.1 step 12, "Balance fetch").
func (s *Snapshot) AccountBalances(addr core.Address) map[core.AssetID]cost.Amount {
	acct, ok := s.accounts[addr]
	if !ok {
		return map[core.AssetID]cost.Amount{}
	}
	out := make(map[core.AssetID]cost.Amount, len(acct.balances))
	for asset, amt := range acct.balances {
		out[asset] = amt
	}
	return out
}

// BridgeAccountAsset resolves the asset a bridge account was initialized
// with (cost.StateReadView).
func (s *Snapshot) BridgeAccountAsset(bridgeAddress core.Address) (core.AssetID, error) {
	asset, ok := s.bridgeAccounts[bridgeAddress]
	if !ok {
		return core.AssetID{}, ErrAccountNotFound
	}
	return asset, nil
}

// The following methods implement cost.StateReadView.

func (s *Snapshot) TransferBaseFee() cost.Amount       { return s.feeParams.TransferBaseFee }
func (s *Snapshot) SequenceActionBaseFee() cost.Amount { return s.feeParams.SequenceActionBaseFee }
func (s *Snapshot) SequenceActionByteCostMultiplier() cost.Amount {
	return s.feeParams.SequenceActionByteMultiplier
}
func (s *Snapshot) Ics20WithdrawalBaseFee() cost.Amount {
	return s.feeParams.Ics20WithdrawalBaseFee
}
func (s *Snapshot) InitBridgeAccountBaseFee() cost.Amount {
	return s.feeParams.InitBridgeAccountBaseFee
}
func (s *Snapshot) BridgeLockByteCostMultiplier() cost.Amount {
	return s.feeParams.BridgeLockByteCostMultiplier
}
func (s *Snapshot) BridgeSudoChangeBaseFee() cost.Amount {
	return s.feeParams.BridgeSudoChangeBaseFee
}

var _ cost.StateReadView = (*Snapshot)(nil)
