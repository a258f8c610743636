package wireproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"empower1.com/sequencer/internal/core"
)

func encodeActionPayload(act core.Action) (typeTag uint64, payload []byte, err error) {
	switch a := act.(type) {
	case core.TransferAction:
		var b []byte
		b = appendAddressField(b, 1, a.To)
		b = appendStringField(b, 2, string(a.Asset))
		b = appendVarintField(b, 3, a.Amount)
		b = appendStringField(b, 4, string(a.FeeDenom))
		return actionTypeTransfer, b, nil

	case core.SequenceAction:
		var b []byte
		b = appendBytesField(b, 1, a.RollupID[:])
		b = appendBytesField(b, 2, a.Data)
		b = appendStringField(b, 3, string(a.FeeDenom))
		return actionTypeSequence, b, nil

	case core.Ics20WithdrawalAction:
		var b []byte
		b = appendVarintField(b, 1, a.Amount)
		b = appendStringField(b, 2, string(a.Denom))
		b = appendStringField(b, 3, a.DestinationChainAddress)
		b = appendStringField(b, 4, string(a.FeeDenom))
		return actionTypeIcs20Withdrawal, b, nil

	case core.InitBridgeAccountAction:
		var b []byte
		b = appendBytesField(b, 1, a.RollupID[:])
		b = appendStringField(b, 2, string(a.Asset))
		b = appendStringField(b, 3, string(a.FeeDenom))
		return actionTypeInitBridgeAccount, b, nil

	case core.BridgeLockAction:
		var b []byte
		b = appendAddressField(b, 1, a.To)
		b = appendStringField(b, 2, string(a.Asset))
		b = appendVarintField(b, 3, a.Amount)
		b = appendStringField(b, 4, a.DestinationChainAddress)
		return actionTypeBridgeLock, b, nil

	case core.BridgeUnlockAction:
		var b []byte
		b = appendAddressField(b, 1, a.To)
		b = appendVarintField(b, 2, a.Amount)
		b = appendStringField(b, 3, string(a.FeeDenom))
		return actionTypeBridgeUnlock, b, nil

	case core.BridgeSudoChangeAction:
		var b []byte
		b = appendAddressField(b, 1, a.BridgeAddress)
		b = appendStringField(b, 2, string(a.FeeDenom))
		return actionTypeBridgeSudoChange, b, nil

	case core.ValidatorUpdateAction:
		var b []byte
		b = appendBytesField(b, 1, a.PubKey)
		b = appendVarintField(b, 2, a.Power)
		return actionTypeValidatorUpdate, b, nil

	case core.SudoAddressChangeAction:
		var b []byte
		b = appendAddressField(b, 1, a.NewAddress)
		return actionTypeSudoAddressChange, b, nil

	case core.IbcSudoChangeAction:
		var b []byte
		b = appendAddressField(b, 1, a.NewAddress)
		return actionTypeIbcSudoChange, b, nil

	case core.IbcAction:
		var b []byte
		b = appendBytesField(b, 1, a.RawEnvelope)
		return actionTypeIbc, b, nil

	case core.IbcRelayerChangeAction:
		var b []byte
		b = appendAddressField(b, 1, a.Relayer)
		b = appendBoolField(b, 2, a.Add)
		return actionTypeIbcRelayerChange, b, nil

	case core.FeeAssetChangeAction:
		var b []byte
		b = appendStringField(b, 1, string(a.Asset))
		b = appendBoolField(b, 2, a.Add)
		return actionTypeFeeAssetChange, b, nil

	case core.FeeChangeAction:
		var b []byte
		b = appendStringField(b, 1, a.Field)
		b = appendVarintField(b, 2, a.Value)
		return actionTypeFeeChange, b, nil

	default:
		return 0, nil, fmt.Errorf("wireproto: unsupported action type %T", act)
	}
}

func decodeActionPayload(typeTag uint64, payload []byte) (core.Action, error) {
	switch typeTag {
	case actionTypeTransfer:
		var a core.TransferAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.To, v)
			case 2:
				return consumeStringInto((*string)(&a.Asset), v)
			case 3:
				return consumeVarintInto(&a.Amount, v)
			case 4:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeSequence:
		var a core.SequenceAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeFixedBytesInto(a.RollupID[:], v)
			case 2:
				val, n := protowire.ConsumeBytes(v)
				if n < 0 {
					return 0, protowire.ParseError(n)
				}
				a.Data = append([]byte{}, val...)
				return n, nil
			case 3:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeIcs20Withdrawal:
		var a core.Ics20WithdrawalAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeVarintInto(&a.Amount, v)
			case 2:
				return consumeStringInto((*string)(&a.Denom), v)
			case 3:
				return consumeStringInto(&a.DestinationChainAddress, v)
			case 4:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeInitBridgeAccount:
		var a core.InitBridgeAccountAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeFixedBytesInto(a.RollupID[:], v)
			case 2:
				return consumeStringInto((*string)(&a.Asset), v)
			case 3:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeBridgeLock:
		var a core.BridgeLockAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.To, v)
			case 2:
				return consumeStringInto((*string)(&a.Asset), v)
			case 3:
				return consumeVarintInto(&a.Amount, v)
			case 4:
				return consumeStringInto(&a.DestinationChainAddress, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeBridgeUnlock:
		var a core.BridgeUnlockAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.To, v)
			case 2:
				return consumeVarintInto(&a.Amount, v)
			case 3:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeBridgeSudoChange:
		var a core.BridgeSudoChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.BridgeAddress, v)
			case 2:
				return consumeStringInto((*string)(&a.FeeDenom), v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeValidatorUpdate:
		var a core.ValidatorUpdateAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				val, n := protowire.ConsumeBytes(v)
				if n < 0 {
					return 0, protowire.ParseError(n)
				}
				a.PubKey = append([]byte{}, val...)
				return n, nil
			case 2:
				return consumeVarintInto(&a.Power, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeSudoAddressChange:
		var a core.SudoAddressChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.NewAddress, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeIbcSudoChange:
		var a core.IbcSudoChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.NewAddress, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeIbc:
		var a core.IbcAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				val, n := protowire.ConsumeBytes(v)
				if n < 0 {
					return 0, protowire.ParseError(n)
				}
				a.RawEnvelope = append([]byte{}, val...)
				return n, nil
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeIbcRelayerChange:
		var a core.IbcRelayerChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeAddressInto(&a.Relayer, v)
			case 2:
				return consumeBoolInto(&a.Add, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeFeeAssetChange:
		var a core.FeeAssetChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeStringInto((*string)(&a.Asset), v)
			case 2:
				return consumeBoolInto(&a.Add, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	case actionTypeFeeChange:
		var a core.FeeChangeAction
		err := forEachField(payload, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
			switch num {
			case 1:
				return consumeStringInto(&a.Field, v)
			case 2:
				return consumeVarintInto(&a.Value, v)
			default:
				return int(protowire.ConsumeFieldValue(num, typ, v)), nil
			}
		})
		return a, err

	default:
		return nil, fmt.Errorf("wireproto: unrecognized action type tag %d", typeTag)
	}
}

// --- field append helpers ---

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	var n uint64
	if v {
		n = 1
	}
	return appendVarintField(b, num, n)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, []byte(v))
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendAddressField(b []byte, num protowire.Number, addr core.Address) []byte {
	return appendBytesField(b, num, addr[:])
}

// --- field consume helpers ---
// Each returns the number of bytes of v its field occupied, matching the
// (int, error) contract forEachField's callback requires.

func consumeVarintInto(dst *uint64, v []byte) (int, error) {
	val, n := protowire.ConsumeVarint(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = val
	return n, nil
}

func consumeBoolInto(dst *bool, v []byte) (int, error) {
	val, n := protowire.ConsumeVarint(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = val != 0
	return n, nil
}

func consumeStringInto(dst *string, v []byte) (int, error) {
	val, n := protowire.ConsumeBytes(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = string(val)
	return n, nil
}

func consumeAddressInto(dst *core.Address, v []byte) (int, error) {
	val, n := protowire.ConsumeBytes(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if len(val) != core.AddressLength {
		return 0, fmt.Errorf("wireproto: address field has %d bytes, want %d", len(val), core.AddressLength)
	}
	copy(dst[:], val)
	return n, nil
}

func consumeFixedBytesInto(dst []byte, v []byte) (int, error) {
	val, n := protowire.ConsumeBytes(v)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if len(val) != len(dst) {
		return 0, fmt.Errorf("wireproto: fixed bytes field has %d bytes, want %d", len(val), len(dst))
	}
	copy(dst, val)
	return n, nil
}
