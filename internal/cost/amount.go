// Package cost implements the transaction-cost calculator of spec.md §4.2:
// it reduces a transaction to a per-asset balance requirement, using
// saturating 128-bit arithmetic throughout (spec.md §3 invariant (c)).
package cost

import (
	"errors"

	"github.com/holiman/uint256"
)

// Max128 is the saturation ceiling for every cost-vector entry: 2^128-1.
// Aggregation never produces a value above this, and never wraps past it
// (spec.md §3 invariant (c), §9 "Saturating vs. erroring arithmetic").
var Max128 = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), 128),
	uint256.NewInt(1),
)

// ErrFeeOverflow is returned by fee formulas that must hard-error on
// overflow instead of saturating — currently only the sequence-action fee
// (spec.md §4.2 table, §9): "pathological input size rather than
// accumulated total".
var ErrFeeOverflow = errors.New("cost: fee computation overflowed — data too large")

// Amount is a saturating 128-bit unsigned cost amount, backed by
// holiman/uint256's 256-bit integer so that AddOverflow can detect true
// arithmetic overflow before it is clamped to Max128.
type Amount struct {
	v uint256.Int
}

// NewAmount constructs an Amount from a uint64 value.
func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// Uint256 returns the underlying value as a *uint256.Int, never above
// Max128.
func (a Amount) Uint256() *uint256.Int {
	c := a.v
	return &c
}

// String renders the amount in base 10.
func (a Amount) String() string { return a.v.Dec() }

// Cmp compares two amounts the way uint256.Int.Cmp does.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// SaturatingAdd returns a+b, clamped to Max128 on overflow (either a true
// 256-bit carry, or a sum that exceeds the 128-bit ceiling). This is the
// saturating aggregation spec.md §3 invariant (c) requires: no cost field
// ever decreases across aggregation, and overflow is never a silent wrap.
func (a Amount) SaturatingAdd(b Amount) Amount {
	var sum uint256.Int
	_, overflowed := sum.AddOverflow(&a.v, &b.v)
	if overflowed || sum.Gt(Max128) {
		return Amount{v: *Max128}
	}
	return Amount{v: sum}
}

// SaturatingMul returns x*y, clamped to Max128 on overflow, the same way
// SaturatingAdd clamps a sum. Every fee path saturates except the
// sequence-action fee (spec.md §9, "the one exception").
func SaturatingMul(x, y *uint256.Int) *uint256.Int {
	var product uint256.Int
	_, overflowed := product.MulOverflow(x, y)
	if overflowed || product.Gt(Max128) {
		c := *Max128
		return &c
	}
	return &product
}

// CheckedAddUint64 returns a+b where b is a byte-derived quantity that
// must hard-error on overflow rather than saturate (the sequence-action
// fee formula, spec.md §4.2: "base + bytes(data)·byte_multiplier ...
// overflow is a hard error here").
func CheckedAddUint64(a Amount, b *uint256.Int) (Amount, error) {
	var sum uint256.Int
	_, overflowed := sum.AddOverflow(&a.v, b)
	if overflowed || sum.Gt(Max128) {
		return Amount{}, ErrFeeOverflow
	}
	return Amount{v: sum}, nil
}

// CheckedMulUint64 multiplies two uint256 values, reporting overflow
// (used by the sequence byte-cost formula: bytes(data) · byte_multiplier).
func CheckedMulUint64(x, y *uint256.Int) (*uint256.Int, error) {
	var product uint256.Int
	_, overflowed := product.MulOverflow(x, y)
	if overflowed || product.Gt(Max128) {
		return nil, ErrFeeOverflow
	}
	return &product, nil
}
