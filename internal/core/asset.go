package core

import (
	"encoding/hex"
	"fmt"
	"strings"

	"crypto/sha256"
)

// AssetIDLength is the size in bytes of a normalized, IBC-prefixed asset
// identifier.
const AssetIDLength = 32

// AssetID is the normalized 32-byte IBC-prefixed form of a denomination.
// All cost bookkeeping keys on this form; the raw denom string never keys
// a cost vector (spec.md invariant (b)).
type AssetID [AssetIDLength]byte

// String returns the lowercase hex encoding of the asset id.
func (a AssetID) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the asset id is the zero value.
func (a AssetID) IsZero() bool {
	return a == AssetID{}
}

// Denom is a raw, possibly trace-prefixed, denomination string as carried
// on the wire (e.g. "nria", "transfer/channel-0/uatom"). ToIBCPrefixed
// normalizes it to the canonical AssetID form used for all cost
// bookkeeping.
type Denom string

// ToIBCPrefixed normalizes the denom to its 32-byte IBC-prefixed form.
// Denominations that differ only in letter case or surrounding whitespace
// collapse to the same AssetID: the hash is taken over the trimmed,
// lowercase denomination string, trace path included, so denoms with
// different trace paths map to different AssetIDs.
func (d Denom) ToIBCPrefixed() AssetID {
	normalized := strings.ToLower(strings.TrimSpace(string(d)))
	return AssetID(sha256.Sum256([]byte(normalized)))
}

// ParseAssetID parses a hex-encoded asset id, e.g. as read back from a
// removal-cache log line.
func ParseAssetID(s string) (AssetID, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return AssetID{}, fmt.Errorf("parse asset id: %w", err)
	}
	if len(b) != AssetIDLength {
		return AssetID{}, fmt.Errorf("parse asset id: want %d bytes, got %d", AssetIDLength, len(b))
	}
	var a AssetID
	copy(a[:], b)
	return a, nil
}
