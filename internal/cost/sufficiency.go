package cost

import (
	"errors"
	"fmt"

	"empower1.com/sequencer/internal/core"
)

// ErrInsufficientBalance is wrapped with the offending asset's
// IBC-prefixed string form (spec.md §8 scenario 6).
var ErrInsufficientBalance = errors.New("cost: signer balance is insufficient for transaction cost")

// CheckBalanceSufficiency computes tx's total cost against state and
// asserts that balances covers every entry (spec.md §4.4). This is a
// derived, reusable operation — the admission core itself does not call
// it; proposal-time revalidation does, so that a cheap-but-underfunded
// transaction can still be admitted and rejected in bulk later.
func CheckBalanceSufficiency(tx *core.SignedTransaction, state StateReadView, balances map[core.AssetID]Amount) error {
	total, err := TotalTransactionCost(tx, state)
	if err != nil {
		return fmt.Errorf("total transaction cost: %w", err)
	}

	for asset, required := range total {
		have := balances[asset]
		if have.Cmp(required) < 0 {
			return fmt.Errorf("%w: asset %s requires %s, have %s", ErrInsufficientBalance, asset.String(), required, have)
		}
	}
	return nil
}
