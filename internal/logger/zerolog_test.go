package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("unparseable log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapterEmitsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.DebugLevel)

	log.Debug("pipeline", "frame queued", map[string]interface{}{"dropped_total": 3})
	log.Info("camera", "capture started", nil)
	log.Warning("pipeline", "conversion failed", map[string]interface{}{"frame_id": "f-1"})
	log.Error("inference", errors.New("connection refused"), map[string]interface{}{"round_trip_ms": 12})

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("emitted %d lines, want 4", len(lines))
	}

	wantLevel := []string{"debug", "info", "warn", "error"}
	wantComponent := []string{"pipeline", "camera", "pipeline", "inference"}
	for i, m := range lines {
		if m["level"] != wantLevel[i] {
			t.Errorf("line %d level = %v, want %s", i, m["level"], wantLevel[i])
		}
		if m["component"] != wantComponent[i] {
			t.Errorf("line %d component = %v, want %s", i, m["component"], wantComponent[i])
		}
	}

	if lines[0]["message"] != "frame queued" {
		t.Errorf("debug message = %v", lines[0]["message"])
	}
	if lines[0]["dropped_total"] != float64(3) {
		t.Errorf("debug field dropped_total = %v, want 3", lines[0]["dropped_total"])
	}
	if lines[3]["error"] != "connection refused" {
		t.Errorf("error field = %v", lines[3]["error"])
	}
	if lines[3]["message"] != "operation failed" {
		t.Errorf("error message = %v", lines[3]["message"])
	}
	if lines[3]["round_trip_ms"] != float64(12) {
		t.Errorf("error field round_trip_ms = %v, want 12", lines[3]["round_trip_ms"])
	}
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, zerolog.WarnLevel)

	log.Debug("pipeline", "filtered", nil)
	log.Info("pipeline", "filtered", nil)
	log.Warning("pipeline", "kept", nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("emitted %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "kept" {
		t.Errorf("surviving message = %v, want kept", lines[0]["message"])
	}
}
