package cost

import (
	"testing"

	"empower1.com/sequencer/internal/core"
)

type fakeStateReadView struct {
	transferBaseFee              uint64
	sequenceBaseFee              uint64
	sequenceByteCostMultiplier   uint64
	ics20WithdrawalBaseFee       uint64
	initBridgeAccountBaseFee     uint64
	bridgeLockByteCostMultiplier uint64
	bridgeSudoChangeBaseFee      uint64
	bridgeAccountAssets          map[core.Address]core.AssetID
}

func (f *fakeStateReadView) TransferBaseFee() Amount              { return NewAmount(f.transferBaseFee) }
func (f *fakeStateReadView) SequenceActionBaseFee() Amount        { return NewAmount(f.sequenceBaseFee) }
func (f *fakeStateReadView) SequenceActionByteCostMultiplier() Amount {
	return NewAmount(f.sequenceByteCostMultiplier)
}
func (f *fakeStateReadView) Ics20WithdrawalBaseFee() Amount { return NewAmount(f.ics20WithdrawalBaseFee) }
func (f *fakeStateReadView) InitBridgeAccountBaseFee() Amount {
	return NewAmount(f.initBridgeAccountBaseFee)
}
func (f *fakeStateReadView) BridgeLockByteCostMultiplier() Amount {
	return NewAmount(f.bridgeLockByteCostMultiplier)
}
func (f *fakeStateReadView) BridgeSudoChangeBaseFee() Amount {
	return NewAmount(f.bridgeSudoChangeBaseFee)
}
func (f *fakeStateReadView) BridgeAccountAsset(addr core.Address) (core.AssetID, error) {
	id, ok := f.bridgeAccountAssets[addr]
	if !ok {
		return core.AssetID{}, ErrBridgeAccountAssetUnresolved
	}
	return id, nil
}

// TestTotalTransactionCostMatchesSpecScenario reproduces spec.md §8
// scenario 5: transfer_base_fee=12, sequence_base_fee=0,
// sequence_byte_multiplier=1, tx = [Transfer(other,100,fee=nria),
// Sequence(32 zero bytes, fee=nria)] => {nria: 44, other: 100}.
func TestTotalTransactionCostMatchesSpecScenario(t *testing.T) {
	state := &fakeStateReadView{
		transferBaseFee:            12,
		sequenceBaseFee:            0,
		sequenceByteCostMultiplier: 1,
	}
	tx := &core.SignedTransaction{
		Body: core.UnsignedTransaction{
			Params: core.TransactionParams{Nonce: 0, ChainID: "test-chain-id"},
			Actions: []core.Action{
				core.TransferAction{Asset: "other", Amount: 100, FeeDenom: "nria"},
				core.SequenceAction{Data: make([]byte, 32), FeeDenom: "nria"},
			},
		},
	}

	total, err := TotalTransactionCost(tx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nria := core.Denom("nria").ToIBCPrefixed()
	other := core.Denom("other").ToIBCPrefixed()

	if got := total.Get(nria); got.Cmp(NewAmount(44)) != 0 {
		t.Fatalf("nria cost = %s, want 44", got)
	}
	if got := total.Get(other); got.Cmp(NewAmount(100)) != 0 {
		t.Fatalf("other cost = %s, want 100", got)
	}
}

// max128MultiplierState reports Max128 for both byte-cost multipliers, the
// largest value a 128-bit fee parameter can hold; a uint64 multiplier can
// never push a product past 2^128-1.
type max128MultiplierState struct{ *fakeStateReadView }

func (max128MultiplierState) SequenceActionByteCostMultiplier() Amount { return Amount{v: *Max128} }
func (max128MultiplierState) BridgeLockByteCostMultiplier() Amount     { return Amount{v: *Max128} }

func TestSequenceFeeHardErrorsOnOverflow(t *testing.T) {
	state := max128MultiplierState{&fakeStateReadView{
		sequenceBaseFee: 0,
	}}
	_, err := sequenceFee(make([]byte, 2), state)
	if err != ErrFeeOverflow {
		t.Fatalf("want ErrFeeOverflow, got %v", err)
	}
}

func TestSaturatingAddNeverExceedsMax128(t *testing.T) {
	near := Amount{v: *Max128}
	result := near.SaturatingAdd(NewAmount(1))
	if result.Cmp(Amount{v: *Max128}) != 0 {
		t.Fatalf("saturating add exceeded Max128: got %s", result)
	}
}

func TestBridgeUnlockCostUsesBridgeAccountAsset(t *testing.T) {
	bridgeAddr := core.Address{0x01}
	bridgeAsset := core.Denom("transfer/channel-0/rollup-asset").ToIBCPrefixed()

	state := &fakeStateReadView{
		transferBaseFee: 5,
		bridgeAccountAssets: map[core.Address]core.AssetID{
			bridgeAddr: bridgeAsset,
		},
	}
	tx := &core.SignedTransaction{
		Body: core.UnsignedTransaction{
			Actions: []core.Action{
				core.BridgeUnlockAction{To: bridgeAddr, Amount: 50, FeeDenom: "nria"},
			},
		},
	}

	total, err := TotalTransactionCost(tx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := total.Get(bridgeAsset); got.Cmp(NewAmount(50)) != 0 {
		t.Fatalf("bridge asset cost = %s, want 50", got)
	}
	if got := total.Get(core.Denom("nria").ToIBCPrefixed()); got.Cmp(NewAmount(5)) != 0 {
		t.Fatalf("fee asset cost = %s, want 5", got)
	}
}

// TestBridgeLockByteFeeSaturatesInsteadOfErroring reproduces the
// checks.rs ground truth (bridge_lock_update_fees uses
// saturating_mul): an overflowing byte-cost multiplier must clamp the
// fee to Max128, not surface ErrFeeOverflow the way the sequence-action
// fee does.
func TestBridgeLockByteFeeSaturatesInsteadOfErroring(t *testing.T) {
	state := max128MultiplierState{&fakeStateReadView{
		transferBaseFee: 5,
	}}
	tx := &core.SignedTransaction{
		Body: core.UnsignedTransaction{
			Actions: []core.Action{
				core.BridgeLockAction{
					To:                      core.Address{0x02},
					Asset:                   "nria",
					Amount:                  1,
					DestinationChainAddress: "rollup-address",
				},
			},
		},
	}

	total, err := TotalTransactionCost(tx, state)
	if err != nil {
		t.Fatalf("expected saturation, not an error: %v", err)
	}
	nria := core.Denom("nria").ToIBCPrefixed()
	if got := total.Get(nria); got.Cmp(Amount{v: *Max128}) != 0 {
		t.Fatalf("bridge lock fee = %s, want it saturated at Max128", got)
	}
}

func TestEveryCostVectorKeyIsIBCPrefixed(t *testing.T) {
	state := &fakeStateReadView{transferBaseFee: 1}
	tx := &core.SignedTransaction{
		Body: core.UnsignedTransaction{
			Actions: []core.Action{
				core.TransferAction{Asset: "other", Amount: 1, FeeDenom: "nria"},
			},
		},
	}
	total, err := TotalTransactionCost(tx, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for asset := range total {
		if _, err := core.ParseAssetID(asset.String()); err != nil {
			t.Fatalf("cost vector key %s is not a valid IBC-prefixed asset id: %v", asset, err)
		}
	}
}
