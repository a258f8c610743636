package state

import (
	"testing"

	"empower1.com/sequencer/internal/cost"
	"empower1.com/sequencer/internal/core"
)

func TestSnapshotIsolatesSubsequentMutation(t *testing.T) {
	store := NewStore()
	addr := core.Address{0x01}
	asset := core.Denom("nria").ToIBCPrefixed()

	store.IncreaseBalance(addr, asset, cost.NewAmount(100))
	snap := store.Snapshot()

	store.IncreaseBalance(addr, asset, cost.NewAmount(900))

	if got := snap.AccountBalance(addr, asset); got.Cmp(cost.NewAmount(100)) != 0 {
		t.Fatalf("snapshot observed a post-snapshot mutation: balance = %s, want 100", got)
	}
	if got := store.Snapshot().AccountBalance(addr, asset); got.Cmp(cost.NewAmount(1000)) != 0 {
		t.Fatalf("fresh snapshot = %s, want 1000", got)
	}
}

func TestUnseenAccountHasZeroNonceAndEmptyBalances(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	addr := core.Address{0xff}

	if got := snap.AccountNonce(addr); got != 0 {
		t.Fatalf("nonce = %d, want 0", got)
	}
	if got := snap.AccountBalances(addr); len(got) != 0 {
		t.Fatalf("balances = %v, want empty", got)
	}
}

func TestBridgeAccountAssetLookup(t *testing.T) {
	store := NewStore()
	bridgeAddr := core.Address{0x02}
	asset := core.Denom("rollup-asset").ToIBCPrefixed()
	store.RegisterBridgeAccount(bridgeAddr, asset)

	snap := store.Snapshot()
	got, err := snap.BridgeAccountAsset(bridgeAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != asset {
		t.Fatalf("asset = %s, want %s", got, asset)
	}

	if _, err := snap.BridgeAccountAsset(core.Address{0x03}); err == nil {
		t.Fatalf("expected error for unregistered bridge account")
	}
}
