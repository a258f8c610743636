// Package wireproto implements the signed-transaction wire codec: the
// protobuf-ish framing that carries a transaction body, its detached
// signature, and verification key across the gossip layer. It is the
// external collaborator spec.md §1 names as out of scope for the
// admission core proper, but the admission core still needs something to
// call, so this package gives it a real implementation built directly on
// google.golang.org/protobuf/encoding/protowire rather than
// protoc-generated types, since no .proto/.pb.go pair accompanies this
// module.
package wireproto

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"empower1.com/sequencer/internal/core"
)

// ErrMalformedTransaction wraps every Decode failure: an unparsable
// envelope or body, an unrecognized action type tag, a fixed-size field
// of the wrong length, or a failed signature verification. Fields are
// dispatched by field number only; their wire type is not checked. The
// CheckTx pipeline maps it to one INVALID_PARAMETER response (spec.md
// §4.1 step 3: "bytes were not a valid signed transaction, or the
// signature was invalid").
var ErrMalformedTransaction = errors.New("wireproto: malformed transaction bytes")

// Envelope field numbers.
const (
	fieldEnvelopeBody            protowire.Number = 1
	fieldEnvelopeSignature       protowire.Number = 2
	fieldEnvelopeVerificationKey protowire.Number = 3
)

// Body field numbers.
const (
	fieldBodyNonce   protowire.Number = 1
	fieldBodyChainID protowire.Number = 2
	fieldBodyActions protowire.Number = 3
)

// Action envelope field numbers: every action is framed as a type tag
// plus an opaque payload, so the body decoder never needs to know the
// action's shape — only decodeActionPayload does.
const (
	fieldActionType    protowire.Number = 1
	fieldActionPayload protowire.Number = 2
)

// Action type tags, stable across encode/decode but never exposed
// outside this package.
const (
	actionTypeTransfer uint64 = iota + 1
	actionTypeSequence
	actionTypeIcs20Withdrawal
	actionTypeInitBridgeAccount
	actionTypeBridgeLock
	actionTypeBridgeUnlock
	actionTypeBridgeSudoChange
	actionTypeValidatorUpdate
	actionTypeSudoAddressChange
	actionTypeIbcSudoChange
	actionTypeIbc
	actionTypeIbcRelayerChange
	actionTypeFeeAssetChange
	actionTypeFeeChange
)

// Decode parses txBytes as a signed-transaction envelope and verifies its
// signature over the canonical body bytes (spec.md §4.1 step 3). The
// returned transaction's WireBytes is txBytes itself, unchanged: hashing
// and mempool keying operate on exactly the bytes the gossip layer
// delivered (spec.md §4.1 step 2).
func Decode(txBytes []byte) (*core.SignedTransaction, error) {
	bodyBytes, sig, vk, err := decodeEnvelope(txBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	body, err := decodeBody(bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	tx := &core.SignedTransaction{
		Body:            body,
		Signature:       sig,
		VerificationKey: vk,
		WireBytes:       txBytes,
	}
	if err := tx.VerifySignature(bodyBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}
	return tx, nil
}

// Encode assembles a signed-transaction envelope from body, sig and vk,
// the inverse of Decode. Production callers never need it — the gossip
// layer hands the admission core already-framed bytes — but test
// fixtures use it to build realistic txBytes without hand-assembling
// protowire frames.
func Encode(body core.UnsignedTransaction, sig, verificationKey []byte) ([]byte, error) {
	bodyBytes, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, fieldEnvelopeBody, protowire.BytesType)
	b = protowire.AppendBytes(b, bodyBytes)
	b = protowire.AppendTag(b, fieldEnvelopeSignature, protowire.BytesType)
	b = protowire.AppendBytes(b, sig)
	b = protowire.AppendTag(b, fieldEnvelopeVerificationKey, protowire.BytesType)
	b = protowire.AppendBytes(b, verificationKey)
	return b, nil
}

// EncodeBody exposes the canonical body encoding that must be signed;
// callers constructing a test SignedTransaction sign this before calling
// Encode.
func EncodeBody(body core.UnsignedTransaction) ([]byte, error) {
	return encodeBody(body)
}

func decodeEnvelope(b []byte) (body, sig, vk []byte, err error) {
	err = forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case fieldEnvelopeBody:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			body = val
			return n, nil
		case fieldEnvelopeSignature:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			sig = val
			return n, nil
		case fieldEnvelopeVerificationKey:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			vk = val
			return n, nil
		default:
			return int(protowire.ConsumeFieldValue(num, typ, v)), nil
		}
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if body == nil {
		return nil, nil, nil, errors.New("wireproto: envelope missing body field")
	}
	return body, sig, vk, nil
}

func encodeBody(body core.UnsignedTransaction) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldBodyNonce, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(body.Params.Nonce))
	b = protowire.AppendTag(b, fieldBodyChainID, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(body.Params.ChainID))

	for _, act := range body.Actions {
		encoded, err := encodeAction(act)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, fieldBodyActions, protowire.BytesType)
		b = protowire.AppendBytes(b, encoded)
	}
	return b, nil
}

func decodeBody(b []byte) (core.UnsignedTransaction, error) {
	var params core.TransactionParams
	var actions []core.Action

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case fieldBodyNonce:
			val, n := protowire.ConsumeVarint(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			params.Nonce = uint32(val)
			return n, nil
		case fieldBodyChainID:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			params.ChainID = string(val)
			return n, nil
		case fieldBodyActions:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			act, err := decodeAction(val)
			if err != nil {
				return 0, err
			}
			actions = append(actions, act)
			return n, nil
		default:
			return int(protowire.ConsumeFieldValue(num, typ, v)), nil
		}
	})
	if err != nil {
		return core.UnsignedTransaction{}, err
	}
	return core.UnsignedTransaction{Params: params, Actions: actions}, nil
}

func encodeAction(act core.Action) ([]byte, error) {
	typeTag, payload, err := encodeActionPayload(act)
	if err != nil {
		return nil, err
	}
	var b []byte
	b = protowire.AppendTag(b, fieldActionType, protowire.VarintType)
	b = protowire.AppendVarint(b, typeTag)
	b = protowire.AppendTag(b, fieldActionPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b, nil
}

func decodeAction(b []byte) (core.Action, error) {
	var typeTag uint64
	var payload []byte

	err := forEachField(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case fieldActionType:
			val, n := protowire.ConsumeVarint(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			typeTag = val
			return n, nil
		case fieldActionPayload:
			val, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			payload = val
			return n, nil
		default:
			return int(protowire.ConsumeFieldValue(num, typ, v)), nil
		}
	})
	if err != nil {
		return nil, err
	}
	return decodeActionPayload(typeTag, payload)
}

// forEachField walks a protowire-encoded message, dispatching each field
// to fn. fn must consume exactly its field's value from v (whose prefix
// is the value, not the tag) and return the number of bytes consumed.
func forEachField(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return protowire.ParseError(tagLen)
		}
		b = b[tagLen:]

		valueLen, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if valueLen < 0 || valueLen > len(b) {
			return fmt.Errorf("wireproto: field %d consumed an invalid length", num)
		}
		b = b[valueLen:]
	}
	return nil
}
