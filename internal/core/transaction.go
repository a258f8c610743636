package core

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
)

// Errors produced while assembling or verifying a SignedTransaction.
// Cryptographic primitive implementation is out of scope (spec.md §1
// Non-goals); these wrap the standard library's crypto/ed25519 verifier.
var (
	ErrEmptyActions           = errors.New("core: transaction has no actions")
	ErrTooManyActions         = errors.New("core: transaction exceeds the maximum action count")
	ErrInvalidVerificationKey = errors.New("core: verification key has an invalid length")
	ErrInvalidSignature       = errors.New("core: signature has an invalid length")
	ErrSignatureVerification  = errors.New("core: signature verification failed")
)

// MaxActionsPerTransaction bounds the number of actions a single
// transaction may carry; enforced by the stateless validator
// (spec.md §4.1 step 4).
const MaxActionsPerTransaction = 128

// TransactionParams carries the fields of a transaction body that are not
// actions: its nonce and the chain it targets.
type TransactionParams struct {
	Nonce   uint32
	ChainID string
}

// UnsignedTransaction is the signable body of a transaction: its params
// plus an ordered sequence of actions.
type UnsignedTransaction struct {
	Params  TransactionParams
	Actions []Action
}

// SignedTransaction is the immutable unit of admission: an unsigned body
// plus a detached signature and the verification key that produced it.
// WireBytes retains the exact bytes the hash is computed from, so Hash is
// a pure function of the wire representation (spec.md §3 invariant (a)).
type SignedTransaction struct {
	Body            UnsignedTransaction
	Signature       []byte
	VerificationKey []byte
	WireBytes       []byte
}

// Hash returns the SHA-256 digest of the transaction's wire bytes.
func (tx *SignedTransaction) Hash() [32]byte {
	return sha256.Sum256(tx.WireBytes)
}

// Nonce returns the transaction's declared nonce.
func (tx *SignedTransaction) Nonce() uint32 { return tx.Body.Params.Nonce }

// ChainID returns the transaction's declared chain id.
func (tx *SignedTransaction) ChainID() string { return tx.Body.Params.ChainID }

// Actions returns the transaction's ordered action sequence.
func (tx *SignedTransaction) Actions() []Action { return tx.Body.Actions }

// ActionCount returns the number of actions in the transaction.
func (tx *SignedTransaction) ActionCount() int { return len(tx.Body.Actions) }

// VerifySignature checks that Signature is a valid ed25519 signature by
// VerificationKey over canonicalBody. internal/wireproto's Decode calls
// this once as part of structural acceptance.
func (tx *SignedTransaction) VerifySignature(canonicalBody []byte) error {
	if len(tx.VerificationKey) != ed25519.PublicKeySize {
		return ErrInvalidVerificationKey
	}
	if len(tx.Signature) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(tx.VerificationKey), canonicalBody, tx.Signature) {
		return ErrSignatureVerification
	}
	return nil
}

// Errors produced by CheckStateless.
var (
	ErrZeroAmount           = errors.New("core: value-moving action has a zero amount")
	ErrEmptyDestinationAddr = errors.New("core: ics20-style action has an empty destination chain address")
	ErrSequenceDataTooLarge = errors.New("core: sequence action data exceeds the maximum payload size")
)

// MaxSequenceDataBytes bounds a single Sequence action's payload. This is
// a structural (stateless) bound, distinct from the stateful byte-cost
// fee computed in internal/cost.
const MaxSequenceDataBytes = 256_000

// CheckStateless performs the properties derivable from the transaction
// alone (spec.md §4.1 step 4): a non-empty, bounded action list, and any
// action-specific structural invariants.
func (tx *SignedTransaction) CheckStateless() error {
	n := len(tx.Body.Actions)
	if n == 0 {
		return ErrEmptyActions
	}
	if n > MaxActionsPerTransaction {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyActions, n, MaxActionsPerTransaction)
	}
	for i, act := range tx.Body.Actions {
		if err := checkActionStateless(act); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, act.TypeName(), err)
		}
	}
	return nil
}

func checkActionStateless(act Action) error {
	switch a := act.(type) {
	case TransferAction:
		if a.Amount == 0 {
			return ErrZeroAmount
		}
	case SequenceAction:
		if len(a.Data) > MaxSequenceDataBytes {
			return fmt.Errorf("%w: %d bytes", ErrSequenceDataTooLarge, len(a.Data))
		}
	case Ics20WithdrawalAction:
		if a.Amount == 0 {
			return ErrZeroAmount
		}
		if a.DestinationChainAddress == "" {
			return ErrEmptyDestinationAddr
		}
	case BridgeLockAction:
		if a.Amount == 0 {
			return ErrZeroAmount
		}
		if a.DestinationChainAddress == "" {
			return ErrEmptyDestinationAddr
		}
	case BridgeUnlockAction:
		if a.Amount == 0 {
			return ErrZeroAmount
		}
	}
	return nil
}
