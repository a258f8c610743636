package telemetry_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"empower1.com/sequencer/internal/telemetry"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestIncRemovedIncrementsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.New("test", reg)

	m.IncRemoved(telemetry.RemovalStaleNonce)
	m.IncRemoved(telemetry.RemovalStaleNonce)
	m.IncRemoved(telemetry.RemovalExpired)

	stale := counterValue(t, m.RemovedTotal.WithLabelValues(telemetry.RemovalStaleNonce))
	if stale != 2 {
		t.Fatalf("stale_nonce counter = %v, want 2", stale)
	}
	expired := counterValue(t, m.RemovedTotal.WithLabelValues(telemetry.RemovalExpired))
	if expired != 1 {
		t.Fatalf("expired counter = %v, want 1", expired)
	}
}

func TestObserveAcceptedSetsMempoolGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.New("test", reg)

	m.ObserveAccepted(3, 512, 7)

	if got := gaugeValue(t, m.MempoolSize); got != 7 {
		t.Fatalf("mempool size gauge = %v, want 7", got)
	}
}

func TestObserveStageRecordsHistogramSample(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.New("test", reg)

	m.ObserveStage(telemetry.StageParse, 0.002)

	var metric dto.Metric
	if err := m.StageDuration.WithLabelValues(telemetry.StageParse).(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("sample count = %d, want 1", got)
	}
}
