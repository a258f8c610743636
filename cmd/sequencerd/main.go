package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"empower1.com/sequencer/internal/checktx"
	"empower1.com/sequencer/internal/config"
	"empower1.com/sequencer/internal/cost"
	"empower1.com/sequencer/internal/mempool"
	"empower1.com/sequencer/internal/readiness"
	"empower1.com/sequencer/internal/state"
	"empower1.com/sequencer/internal/telemetry"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := setupLogger(&cfg.Logging)
	logger.Info().Msg("starting sequencer admission node")

	store := state.NewStore()
	store.SetChainID(cfg.Node.ChainID)
	store.SetBasePrefix(cfg.Node.BasePrefix)
	store.SetFeeParams(toStateFeeParams(cfg.Node.FeeParams))
	logger.Info().Str("chain_id", cfg.Node.ChainID).Msg("state store initialized")

	removals := mempool.NewRemovalCache()
	mp := mempool.New(removals)

	registry := prometheus.NewRegistry()
	metrics := telemetry.New(cfg.Metrics.Namespace, registry)

	svc := checktx.NewService(store, mp, metrics, logger, cfg.Node.MaxTxSizeBytes)

	readyFlag := readiness.NewFlag(logger)

	metricsServer := &http.Server{
		Addr:    cfg.Metrics.ListenAddr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		logger.Info().Str("addr", cfg.Metrics.ListenAddr).Msg("metrics server starting")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	readinessMux := http.NewServeMux()
	readinessMux.HandleFunc("/readyz", readyFlag.Handler())
	readinessServer := &http.Server{
		Addr:    cfg.Readiness.ListenAddr,
		Handler: readiness.WithRequestID(readinessMux),
	}
	go func() {
		logger.Info().Str("addr", cfg.Readiness.ListenAddr).Msg("readiness server starting")
		if err := readinessServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("readiness server failed")
		}
	}()

	readyFlag.Set(true)
	logger.Info().Msg("sequencer admission node ready; CheckTx service wired and accepting via svc.CheckTx")
	_ = svc // svc.CheckTx is invoked by the consensus engine's gossip layer, out of this binary's scope.

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	readyFlag.Set(false)
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics server shutdown failed")
	}
	if err := readinessServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("readiness server shutdown failed")
	}

	logger.Info().Msg("sequencer admission node shut down gracefully")
}

func toStateFeeParams(p config.FeeParams) state.FeeParams {
	return state.FeeParams{
		TransferBaseFee:              cost.NewAmount(p.TransferBaseFee),
		SequenceActionBaseFee:        cost.NewAmount(p.SequenceActionBaseFee),
		SequenceActionByteMultiplier: cost.NewAmount(p.SequenceActionByteMultiplier),
		Ics20WithdrawalBaseFee:       cost.NewAmount(p.Ics20WithdrawalBaseFee),
		InitBridgeAccountBaseFee:     cost.NewAmount(p.InitBridgeAccountBaseFee),
		BridgeLockByteCostMultiplier: cost.NewAmount(p.BridgeLockByteCostMultiplier),
		BridgeSudoChangeBaseFee:      cost.NewAmount(p.BridgeSudoChangeBaseFee),
	}
}

func setupLogger(cfg *config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
