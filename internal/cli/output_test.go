package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/txbeach/sandcal/internal/tournament"
)

func sampleAggregate() tournament.Aggregate {
	agg := tournament.NewAggregate()
	agg.UpdatedAt = "2025-05-01T12:00:00Z"
	agg.Tournaments = []tournament.Tournament{
		{Title: "Spring Fling", Date: tournament.NewDate(2025, time.May, 3), Source: "512 Beach", Location: "Austin, TX"},
		{Title: "Summer Slam", Date: tournament.NewDate(2025, time.June, 14), Source: "Third Coast VB"},
	}
	agg.Errors["ATX Beach"] = "connection refused"
	return agg
}

func TestWriteAggregateText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAggregate(&buf, sampleAggregate(), FormatText, false); err != nil {
		t.Fatalf("WriteAggregate() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Last updated: 2025-05-01T12:00:00Z",
		"512 Beach (1):",
		"2025-05-03  Spring Fling",
		"Total: 2 tournaments across 2 sources",
		"ATX Beach: connection refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteAggregateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAggregate(&buf, sampleAggregate(), FormatJSON, false); err != nil {
		t.Fatalf("WriteAggregate() error = %v", err)
	}

	var got tournament.Aggregate
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got.Tournaments) != 2 || got.Errors["ATX Beach"] == "" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestWriteAggregateUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAggregate(&buf, sampleAggregate(), OutputFormat("yaml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteAggregateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAggregate(&buf, tournament.NewAggregate(), FormatText, false); err != nil {
		t.Fatalf("WriteAggregate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No tournaments found.") {
		t.Errorf("output = %q", buf.String())
	}
}
