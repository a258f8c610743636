package cost

import "empower1.com/sequencer/internal/core"

// Vector maps an IBC-prefixed asset id to the signer's saturating
// aggregate obligation in that asset (spec.md §3, "Cost vector").
// Every key is normalized via Denom.ToIBCPrefixed before insertion
// (spec.md §3 invariant (b)).
type Vector map[core.AssetID]Amount

// NewVector returns an empty cost vector.
func NewVector() Vector {
	return make(Vector)
}

// Add accrues amount against asset, saturating per Amount.SaturatingAdd.
func (v Vector) Add(asset core.AssetID, amount Amount) {
	v[asset] = v[asset].SaturatingAdd(amount)
}

// Get returns the vector's entry for asset, or the zero Amount if absent.
func (v Vector) Get(asset core.AssetID) Amount {
	return v[asset]
}
