package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// AddressLength is the size in bytes of a derived signer address, matching
// the teacher's internal/core/types.Address convention but fixed-size so
// it can be used as a map key directly.
const AddressLength = 20

// ErrEmptyBasePrefix is returned when address derivation is attempted
// against a snapshot that has no base prefix configured; the CheckTx
// pipeline (spec.md §4.1 step 9) classifies this as INTERNAL_ERROR.
var ErrEmptyBasePrefix = errors.New("core: base prefix is empty")

// Address is a signer address, derived from a verification key and the
// chain's configured base prefix (spec.md §4.1 step 9: "address =
// base_prefix ⊕ key_bytes").
type Address [AddressLength]byte

// String renders the address as "<prefix>1<hex>", a minimal stand-in for
// the bech32 rendering cosmos-style chains use; no example in the pack
// imports a bech32 codec (cosmos-sdk appears only as an indirect,
// unused dependency of the go-ethereum example), so this stays on the
// standard library per DESIGN.md.
func (a Address) String(prefix string) string {
	return fmt.Sprintf("%s1%s", prefix, hex.EncodeToString(a[:]))
}

// DeriveAddress computes the signer address for a verification key under
// the given base prefix: sha256(prefix || key)[:AddressLength].
func DeriveAddress(basePrefix string, verificationKey []byte) (Address, error) {
	if basePrefix == "" {
		return Address{}, ErrEmptyBasePrefix
	}
	h := sha256.New()
	h.Write([]byte(basePrefix))
	h.Write(verificationKey)
	sum := h.Sum(nil)

	var addr Address
	copy(addr[:], sum[:AddressLength])
	return addr, nil
}
