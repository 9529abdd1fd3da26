package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseLoggerCSV(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,temperature_c,humidity_rh,location",
		"2026-01-01T08:00:00Z,21.5,48,Dock 4",
		"2026-01-01T08:15:00Z,22.1,50.5,Dock 4",
	}, "\n")

	readings, err := ParseLoggerCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}

	first := readings[0]
	if first.Temperature != 21.5 || first.Humidity != 48 {
		t.Errorf("first reading = %+v", first)
	}
	if first.Location != "Dock 4" {
		t.Errorf("location = %q, want Dock 4", first.Location)
	}
	want := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if first.ID == "" {
		t.Error("reading has no id")
	}
}

func TestParseLoggerCSVBadTimestamp(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,temperature_c,humidity_rh,location",
		"not-a-time,21.5,48,Dock 4",
	}, "\n")

	if _, err := ParseLoggerCSV(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
