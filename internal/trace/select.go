// Package trace picks one extracted spectrum out of the traces the pipeline
// found on a slit.
package trace

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DefaultReferencePixel is the spatial position of the slit centre used when
// the caller does not name a trace
const DefaultReferencePixel = 250.0

var (
	// ErrEmptyCatalog is returned when a catalog lists no traces
	ErrEmptyCatalog = errors.New("catalog contains no traces")

	// ErrTraceNotFound matches any NotFoundError
	ErrTraceNotFound = errors.New("trace not found")
)

// NotFoundError reports a requested trace identifier absent from a catalog
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("objid %s not found in catalog", e.ID)
}

// Is lets errors.Is match NotFoundError against ErrTraceNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTraceNotFound
}

// Outcome records how a trace was chosen
type Outcome int

const (
	Sole    Outcome = iota // catalog held a single trace
	Nearest                // closest to the reference pixel
	ByIndex                // requested id parsed as a catalog index
	ByName                 // requested id matched a trace name
)

func (o Outcome) String() string {
	switch o {
	case Sole:
		return "sole"
	case Nearest:
		return "nearest"
	case ByIndex:
		return "by-index"
	case ByName:
		return "by-name"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Selection is the chosen trace and how it was found
type Selection struct {
	Record  Record
	Outcome Outcome
}

// Select chooses one trace from catalog. An empty id means no trace was
// requested: a lone trace is returned as is, otherwise the trace whose
// spatial position is closest to reference wins (first one on ties).
// A non-empty id is resolved first as a catalog index and then as a name.
func Select(catalog []Record, id string, reference float64) (Selection, error) {
	if len(catalog) == 0 {
		return Selection{}, ErrEmptyCatalog
	}

	if len(catalog) == 1 {
		return Selection{Record: catalog[0], Outcome: Sole}, nil
	}

	if id == "" {
		return Selection{Record: catalog[nearest(catalog, reference)], Outcome: Nearest}, nil
	}

	if i, ok := lookupIndex(catalog, id); ok {
		return Selection{Record: catalog[i], Outcome: ByIndex}, nil
	}
	if i, ok := lookupName(catalog, id); ok {
		return Selection{Record: catalog[i], Outcome: ByName}, nil
	}
	return Selection{}, &NotFoundError{ID: id}
}

func nearest(catalog []Record, reference float64) int {
	best := 0
	bestDiff := math.Abs(catalog[0].SpatPixPos - reference)
	for i := 1; i < len(catalog); i++ {
		d := math.Abs(catalog[i].SpatPixPos - reference)
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best
}

func lookupIndex(catalog []Record, id string) (int, bool) {
	i, err := strconv.Atoi(id)
	if err != nil || i < 0 || i >= len(catalog) {
		return 0, false
	}
	return i, true
}

func lookupName(catalog []Record, id string) (int, bool) {
	for i, r := range catalog {
		if r.Name == id {
			return i, true
		}
	}
	return 0, false
}
