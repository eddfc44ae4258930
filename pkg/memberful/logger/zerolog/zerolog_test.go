package zerolog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/memberful/memberful-go/pkg/memberful"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewLogger(zerolog.New(&buf))

	adapter.Info("webhook processed",
		memberful.Field{Key: "event_type", Value: "member_signup"},
		memberful.Field{Key: "attempt", Value: 2})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "webhook processed" {
		t.Fatalf("message = %v", entry["message"])
	}
	if entry["event_type"] != "member_signup" {
		t.Fatalf("event_type = %v", entry["event_type"])
	}
	if entry["level"] != "info" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestLogger_HonorsLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	adapter.Debug("too quiet")
	adapter.Info("still too quiet")
	if buf.Len() != 0 {
		t.Fatalf("suppressed levels wrote output: %s", buf.String())
	}

	adapter.Error("loud")
	if buf.Len() == 0 {
		t.Fatal("error level should write output")
	}
}
