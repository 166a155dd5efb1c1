package trace

import (
	"errors"
	"fmt"
	"testing"
)

func catalogAt(positions ...float64) []Record {
	recs := make([]Record, len(positions))
	for i, p := range positions {
		recs[i] = Record{
			Index:      i,
			Name:       fmt.Sprintf("SPAT%04d-SLIT0250-DET01", int(p)),
			SpatPixPos: p,
		}
	}
	return recs
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name        string
		positions   []float64
		id          string
		wantPos     float64
		wantOutcome Outcome
	}{
		{
			name:        "sole trace without request",
			positions:   []float64{412},
			wantPos:     412,
			wantOutcome: Sole,
		},
		{
			name:        "sole trace ignores request",
			positions:   []float64{412},
			id:          "7",
			wantPos:     412,
			wantOutcome: Sole,
		},
		{
			name:        "nearest to reference pixel",
			positions:   []float64{100, 248, 400},
			wantPos:     248,
			wantOutcome: Nearest,
		},
		{
			name:        "nearest tie goes to first",
			positions:   []float64{240, 260},
			wantPos:     240,
			wantOutcome: Nearest,
		},
		{
			name:        "request by index",
			positions:   []float64{100, 248, 400},
			id:          "2",
			wantPos:     400,
			wantOutcome: ByIndex,
		},
		{
			name:        "request by name",
			positions:   []float64{100, 248, 400},
			id:          "SPAT0100-SLIT0250-DET01",
			wantPos:     100,
			wantOutcome: ByName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(catalogAt(tt.positions...), tt.id, DefaultReferencePixel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.Record.SpatPixPos != tt.wantPos {
				t.Errorf("selected position %.0f, expected %.0f", sel.Record.SpatPixPos, tt.wantPos)
			}
			if sel.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, expected %v", sel.Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestSelectNotFound(t *testing.T) {
	for _, id := range []string{"3", "-1", "SPAT9999-SLIT0250-DET01"} {
		t.Run(id, func(t *testing.T) {
			_, err := Select(catalogAt(100, 248, 400), id, DefaultReferencePixel)
			if !errors.Is(err, ErrTraceNotFound) {
				t.Fatalf("Select(%q) error = %v, expected ErrTraceNotFound", id, err)
			}
			var nf *NotFoundError
			if !errors.As(err, &nf) || nf.ID != id {
				t.Errorf("expected NotFoundError for %q, got %v", id, err)
			}
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	_, err := Select(nil, "", DefaultReferencePixel)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Select(nil) error = %v, expected ErrEmptyCatalog", err)
	}
}

func TestSelectCustomReference(t *testing.T) {
	sel, err := Select(catalogAt(100, 248, 400), "", 390)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Record.SpatPixPos != 400 {
		t.Errorf("selected position %.0f, expected 400", sel.Record.SpatPixPos)
	}
}

func TestOutcomeString(t *testing.T) {
	if Nearest.String() != "nearest" || ByName.String() != "by-name" {
		t.Errorf("unexpected outcome names: %s %s", Nearest, ByName)
	}
}
