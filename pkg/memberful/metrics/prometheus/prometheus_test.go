package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")
	if metrics == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestRecordWebhookEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordWebhookEvent("member_signup", "success")
	metrics.RecordWebhookEvent("member_signup", "success")
	metrics.RecordWebhookEvent("order.purchased", "duplicate")

	families := gather(t, reg)
	family, ok := families["test_memberful_webhook_events_total"]
	if !ok {
		t.Fatalf("metric not registered; got %v", families)
	}

	for _, m := range family.GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		switch labels["event_type"] {
		case "member_signup":
			if labels["status"] != "success" || m.GetCounter().GetValue() != 2 {
				t.Fatalf("member_signup metric = %+v", m)
			}
		case "order.purchased":
			if labels["status"] != "duplicate" || m.GetCounter().GetValue() != 1 {
				t.Fatalf("order.purchased metric = %+v", m)
			}
		default:
			t.Fatalf("unexpected labels %v", labels)
		}
	}
}

func TestRecordWebhookError(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordWebhookError("invalid_signature")

	families := gather(t, reg)
	family, ok := families["test_memberful_webhook_errors_total"]
	if !ok {
		t.Fatal("error metric not registered")
	}
	if family.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("errors metric = %+v", family)
	}
}

func TestRecordDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordWebhookProcessingDuration("member_signup", 5*time.Millisecond)
	metrics.RecordAPICall("members", "200")
	metrics.RecordAPICallDuration("members", 20*time.Millisecond)

	families := gather(t, reg)
	for _, name := range []string{
		"test_memberful_webhook_processing_duration_seconds",
		"test_memberful_api_calls_total",
		"test_memberful_api_call_duration_seconds",
	} {
		if _, ok := families[name]; !ok {
			t.Fatalf("metric %q not registered", name)
		}
	}

	hist := families["test_memberful_webhook_processing_duration_seconds"].GetMetric()[0].GetHistogram()
	if hist.GetSampleCount() != 1 {
		t.Fatalf("histogram sample count = %d, want 1", hist.GetSampleCount())
	}
}
