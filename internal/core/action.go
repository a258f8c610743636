package core

// Action is a single tagged operation carried inside a transaction body.
// The admission core distinguishes fee-bearing actions (which implement
// FeeBearingAction's FeeAsset) from the no-fee governance/IBC actions,
// which implement only Action and have no FeeAsset method.
type Action interface {
	// TypeName is a short, stable, human-readable tag for logging and
	// metrics; it is never used as a wire discriminant.
	TypeName() string
}

// FeeBearingAction is implemented by every action that consumes a fee
// (spec.md §3, "fee-bearing variants").
type FeeBearingAction interface {
	Action
	FeeAsset() Denom
}

// ValueMovingAction is implemented by actions that additionally move a
// declared asset amount (spec.md §3, "value-moving actions").
type ValueMovingAction interface {
	FeeBearingAction
	MovedAsset() Denom
	MovedAmount() uint64
}

// --- Fee-bearing actions ---

// TransferAction moves Amount of Asset from the signer to To.
type TransferAction struct {
	To       Address
	Asset    Denom
	Amount   uint64
	FeeDenom Denom
}

func (TransferAction) TypeName() string      { return "Transfer" }
func (a TransferAction) FeeAsset() Denom      { return a.FeeDenom }
func (a TransferAction) MovedAsset() Denom    { return a.Asset }
func (a TransferAction) MovedAmount() uint64  { return a.Amount }

// SequenceAction posts opaque Data to a rollup identified by RollupID; its
// fee depends on the byte length of Data (spec.md §4.2).
type SequenceAction struct {
	RollupID [32]byte
	Data     []byte
	FeeDenom Denom
}

func (SequenceAction) TypeName() string { return "Sequence" }
func (a SequenceAction) FeeAsset() Denom { return a.FeeDenom }

// Ics20WithdrawalAction withdraws Amount of Denom to an IBC counterparty
// chain address.
type Ics20WithdrawalAction struct {
	Amount                  uint64
	Denom                   Denom
	DestinationChainAddress string
	FeeDenom                Denom
}

func (Ics20WithdrawalAction) TypeName() string     { return "Ics20Withdrawal" }
func (a Ics20WithdrawalAction) FeeAsset() Denom     { return a.FeeDenom }
func (a Ics20WithdrawalAction) MovedAsset() Denom   { return a.Denom }
func (a Ics20WithdrawalAction) MovedAmount() uint64 { return a.Amount }

// InitBridgeAccountAction initializes a new bridge account for RollupID.
type InitBridgeAccountAction struct {
	RollupID [32]byte
	Asset    Denom
	FeeDenom Denom
}

func (InitBridgeAccountAction) TypeName() string { return "InitBridgeAccount" }
func (a InitBridgeAccountAction) FeeAsset() Denom { return a.FeeDenom }

// BridgeLockAction locks Amount of Asset into the bridge account To, to be
// minted on the destination rollup at DestinationChainAddress.
type BridgeLockAction struct {
	To                      Address
	Asset                   Denom
	Amount                  uint64
	DestinationChainAddress string
}

func (BridgeLockAction) TypeName() string { return "BridgeLock" }

// BridgeLockAction's fee asset is always the locked asset itself (spec.md
// §4.2 table: "BridgeLock ... on asset"), so FeeAsset and MovedAsset
// coincide.
func (a BridgeLockAction) FeeAsset() Denom     { return a.Asset }
func (a BridgeLockAction) MovedAsset() Denom   { return a.Asset }
func (a BridgeLockAction) MovedAmount() uint64 { return a.Amount }

// BridgeUnlockAction releases Amount from the bridge account To back to
// the rollup-originated withdrawer. The asset moved is not declared on
// the action itself: it must be read from the bridge account (see
// SPEC_FULL.md §6, Open Question resolution).
type BridgeUnlockAction struct {
	To       Address
	Amount   uint64
	FeeDenom Denom
}

func (BridgeUnlockAction) TypeName() string { return "BridgeUnlock" }
func (a BridgeUnlockAction) FeeAsset() Denom { return a.FeeDenom }

// BridgeSudoChangeAction changes the sudo (admin) address of a bridge
// account.
type BridgeSudoChangeAction struct {
	BridgeAddress Address
	FeeDenom      Denom
}

func (BridgeSudoChangeAction) TypeName() string { return "BridgeSudoChange" }
func (a BridgeSudoChangeAction) FeeAsset() Denom { return a.FeeDenom }

// --- No-fee governance / IBC actions ---

type ValidatorUpdateAction struct {
	PubKey []byte
	Power  uint64
}

func (ValidatorUpdateAction) TypeName() string { return "ValidatorUpdate" }

type SudoAddressChangeAction struct {
	NewAddress Address
}

func (SudoAddressChangeAction) TypeName() string { return "SudoAddressChange" }

type IbcSudoChangeAction struct {
	NewAddress Address
}

func (IbcSudoChangeAction) TypeName() string { return "IbcSudoChange" }

// IbcAction carries an opaque IBC datagram; its contents are not
// interpreted by the admission core.
type IbcAction struct {
	RawEnvelope []byte
}

func (IbcAction) TypeName() string { return "Ibc" }

type IbcRelayerChangeAction struct {
	Relayer Address
	Add     bool
}

func (IbcRelayerChangeAction) TypeName() string { return "IbcRelayerChange" }

type FeeAssetChangeAction struct {
	Asset Denom
	Add   bool
}

func (FeeAssetChangeAction) TypeName() string { return "FeeAssetChange" }

type FeeChangeAction struct {
	Field string
	Value uint64
}

func (FeeChangeAction) TypeName() string { return "FeeChange" }
