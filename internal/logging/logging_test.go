package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Stage(New(&buf, "json"), "dedup")
	log.Info().Int("rows", 3).Msg("done")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if event["stage"] != "dedup" || event["message"] != "done" {
		t.Errorf("unexpected event %v", event)
	}
	if _, ok := event["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "text")
	log.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("unexpected console output %q", buf.String())
	}
}
