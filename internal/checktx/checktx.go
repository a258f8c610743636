// Package checktx implements the CheckTx admission pipeline (spec.md
// §4.1): the request/response handler a consensus engine's ABCI gossip
// layer calls for every candidate transaction. It wires together
// internal/wireproto (decode), internal/core (stateless checks),
// internal/state (snapshot binding), internal/cost (fee/value
// computation) and internal/mempool (insertion and removal-cache
// consultation), observing every stage through internal/telemetry and
// logging through zerolog in the teacher pack's style.
package checktx

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"empower1.com/sequencer/internal/core"
	"empower1.com/sequencer/internal/cost"
	"empower1.com/sequencer/internal/mempool"
	"empower1.com/sequencer/internal/state"
	"empower1.com/sequencer/internal/telemetry"
	"empower1.com/sequencer/internal/wireproto"
)

// Code is the stable integer response taxonomy of spec.md §6.
type Code int

const (
	CodeOK Code = iota
	CodeTransactionTooLarge
	CodeInvalidParameter
	CodeInvalidNonce
	CodeInvalidChainID
	CodeTransactionExpired
	CodeTransactionFailed
	CodeLowerNonceInvalidated
	CodeTransactionInsertionFailed
	CodeInternalError
)

// Response is the ABCI CheckTx response this package produces: an
// integer code, a short machine-friendly info tag, and a human log
// message (spec.md §4.1, §6).
type Response struct {
	Code Code
	Info string
	Log  string
}

func ok() Response { return Response{Code: CodeOK} }

func reject(code Code, info, log string) Response {
	return Response{Code: code, Info: info, Log: log}
}

// Service is the CheckTx handler: one instance is shared across all
// concurrent admission calls (spec.md §5, "the mempool handle, state-
// store handle, and metrics sink are cheaply cloneable reference-holders
// shared across tasks").
type Service struct {
	store          *state.Store
	mempool        *mempool.Mempool
	metrics        *telemetry.Metrics
	logger         zerolog.Logger
	maxTxSizeBytes int
}

// NewService constructs a Service. maxTxSizeBytes is typically
// config.DefaultMaxTxSizeBytes (spec.md §4.1 step 1).
func NewService(store *state.Store, mp *mempool.Mempool, metrics *telemetry.Metrics, logger zerolog.Logger, maxTxSizeBytes int) *Service {
	return &Service{
		store:          store,
		mempool:        mp,
		metrics:        metrics,
		logger:         logger,
		maxTxSizeBytes: maxTxSizeBytes,
	}
}

// CheckTx runs the full admission pipeline of spec.md §4.1 against
// txBytes. It never returns an error: every failure mode is folded into
// Response.Code, matching ABCI's "the pipeline always produces a
// well-formed response" contract (spec.md §7).
func (s *Service) CheckTx(ctx context.Context, txBytes []byte) Response {
	if err := ctx.Err(); err != nil {
		return reject(CodeInternalError, "cancelled", err.Error())
	}

	logger := s.logger.With().Str("admission_id", uuid.New().String()).Logger()

	// Step 1: size check. No further work, no state reads, on failure
	// (spec.md §8: "performs no state reads").
	if len(txBytes) > s.maxTxSizeBytes {
		log := fmt.Sprintf("transaction size %d exceeds the configured limit %d", len(txBytes), s.maxTxSizeBytes)
		s.metrics.IncRemoved(telemetry.RemovalTooLarge)
		logger.Warn().Int("size", len(txBytes)).Int("limit", s.maxTxSizeBytes).Msg("rejected oversize transaction")
		return reject(CodeTransactionTooLarge, "tx too large", log)
	}

	// Step 2: hash, retained regardless of how later stages resolve.
	hash := sha256.Sum256(txBytes)

	// Step 3: decode + signature verification.
	parseStart := time.Now()
	tx, err := wireproto.Decode(txBytes)
	s.metrics.ObserveStage(telemetry.StageParse, time.Since(parseStart).Seconds())
	if err != nil {
		logger.Warn().Err(err).Str("hash", fmt.Sprintf("%x", hash)).Msg("rejected undecodable transaction")
		return reject(CodeInvalidParameter, "invalid protobuf or signature", err.Error())
	}

	// Step 4: stateless checks.
	statelessStart := time.Now()
	if err := tx.CheckStateless(); err != nil {
		s.metrics.ObserveStage(telemetry.StageStateless, time.Since(statelessStart).Seconds())
		s.metrics.IncRemoved(telemetry.RemovalFailedStateless)
		logger.Warn().Err(err).Str("hash", fmt.Sprintf("%x", hash)).Msg("rejected stateless-invalid transaction")
		return reject(CodeInvalidParameter, "stateless", err.Error())
	}
	s.metrics.ObserveStage(telemetry.StageStateless, time.Since(statelessStart).Seconds())

	// Step 5: snapshot binding. Every subsequent read resolves against
	// this one snapshot (spec.md §9, "Snapshot binding over live reads").
	snap := s.store.Snapshot()

	// Step 9's signer derivation is pulled forward here so step 6's nonce
	// check and step 10's reuse both read the same value; §4.1 notes this
	// reordering is safe since both reads resolve against one snapshot.
	// Address conversion and the nonce fetch are still distinct
	// observation points (spec.md §4.1), so each gets its own timer.
	addressStart := time.Now()
	signer, derivErr := core.DeriveAddress(snap.BasePrefix(), tx.VerificationKey)
	s.metrics.ObserveStage(telemetry.StageAddress, time.Since(addressStart).Seconds())
	if derivErr != nil {
		logger.Error().Err(derivErr).Msg("signer address derivation failed")
		return reject(CodeInternalError, "internal error", derivErr.Error())
	}

	nonceStart := time.Now()
	currentNonce := snap.AccountNonce(signer)
	s.metrics.ObserveStage(telemetry.StageNonce, time.Since(nonceStart).Seconds())
	if tx.Nonce() < currentNonce {
		s.metrics.IncRemoved(telemetry.RemovalStaleNonce)
		logger.Warn().Uint32("tx_nonce", tx.Nonce()).Uint32("account_nonce", currentNonce).Msg("rejected stale nonce: nonce already used")
		return reject(CodeInvalidNonce, "stale nonce", fmt.Sprintf("nonce already used: tx nonce %d < account nonce %d", tx.Nonce(), currentNonce))
	}

	// Step 7: chain-id check.
	chainIDStart := time.Now()
	if tx.ChainID() != snap.ChainID() {
		s.metrics.ObserveStage(telemetry.StageChainID, time.Since(chainIDStart).Seconds())
		logger.Warn().Str("tx_chain_id", tx.ChainID()).Str("node_chain_id", snap.ChainID()).Msg("rejected chain-id mismatch")
		return reject(CodeInvalidChainID, "chain id mismatch", fmt.Sprintf("tx chain id %q does not match %q", tx.ChainID(), snap.ChainID()))
	}
	s.metrics.ObserveStage(telemetry.StageChainID, time.Since(chainIDStart).Seconds())

	// Step 8: removal-cache consultation.
	removalStart := time.Now()
	if reason, found := s.mempool.CheckRemovedCometBFT(hash); found {
		s.metrics.ObserveStage(telemetry.StageRemoval, time.Since(removalStart).Seconds())
		return s.respondForRemoval(reason, hash, logger)
	}
	s.metrics.ObserveStage(telemetry.StageRemoval, time.Since(removalStart).Seconds())

	// Step 11: cost computation.
	costStart := time.Now()
	costVector, err := cost.TotalTransactionCost(tx, snap)
	s.metrics.ObserveStage(telemetry.StageCost, time.Since(costStart).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("cost computation failed")
		return reject(CodeInternalError, "internal error", err.Error())
	}

	// Step 12: balance fetch.
	balanceStart := time.Now()
	balances := snap.AccountBalances(signer)
	s.metrics.ObserveStage(telemetry.StageBalance, time.Since(balanceStart).Seconds())

	// Step 13: insertion.
	insertStart := time.Now()
	if err := s.mempool.Insert(tx, currentNonce, balances, costVector); err != nil {
		s.metrics.ObserveStage(telemetry.StageInsertion, time.Since(insertStart).Seconds())
		logger.Warn().Err(err).Str("hash", fmt.Sprintf("%x", hash)).Msg("mempool rejected insertion")
		return reject(CodeTransactionInsertionFailed, "insertion failed", err.Error())
	}
	s.metrics.ObserveStage(telemetry.StageInsertion, time.Since(insertStart).Seconds())

	s.metrics.ObserveAccepted(tx.ActionCount(), len(txBytes), s.mempool.Len())
	return ok()
}

// respondForRemoval translates a removal-cache reason to its response
// code (spec.md §4.1 step 8), regardless of the transaction's current
// nonce or balance (spec.md §8, "entries rejected downstream must not
// be re-admitted via gossip echoes").
func (s *Service) respondForRemoval(reason mempool.RemovalReason, hash [32]byte, logger zerolog.Logger) Response {
	switch reason.Kind {
	case mempool.ReasonExpired:
		s.metrics.IncRemoved(telemetry.RemovalExpired)
		return reject(CodeTransactionExpired, "expired", "transaction previously expired from the mempool")
	case mempool.ReasonFailedPrepareProposal:
		s.metrics.IncRemoved(telemetry.RemovalFailedExecution)
		return reject(CodeTransactionFailed, "execution failed", reason.Message)
	case mempool.ReasonNonceStale:
		return reject(CodeInvalidNonce, "stale nonce", "nonce already used: invalidated after a prior admission")
	case mempool.ReasonLowerNonceInvalidated:
		return reject(CodeLowerNonceInvalidated, "lower nonce invalidated", "a lower-nonce transaction from this signer was invalidated")
	default:
		logger.Error().Int("kind", int(reason.Kind)).Str("hash", fmt.Sprintf("%x", hash)).Msg("unrecognized removal reason kind")
		return reject(CodeInternalError, "internal error", "unrecognized removal reason")
	}
}
