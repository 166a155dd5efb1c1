// Package header assembles the metadata block written at the top of every
// converted spectrum. Values come from the reduction log, the raw frame
// header and the headers PypeIt wrote into the spec1d file.
package header

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Card is a single key/value entry
type Card struct {
	Key   string
	Value interface{}
}

// Header is an ordered list of cards. Keys may repeat.
type Header struct {
	cards []Card
}

// New returns an empty header
func New() *Header {
	return &Header{}
}

// Add appends a card
func (h *Header) Add(key string, value interface{}) {
	h.cards = append(h.cards, Card{Key: key, Value: value})
}

// Cards returns the cards in insertion order
func (h *Header) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards
func (h *Header) Len() int {
	return len(h.cards)
}

// Get returns the value of the first card with the given key
func (h *Header) Get(key string) (interface{}, bool) {
	for _, c := range h.cards {
		if c.Key == key {
			return c.Value, true
		}
	}
	return nil, false
}

// Keys returns the card keys in order
func (h *Header) Keys() []string {
	keys := make([]string, len(h.cards))
	for i, c := range h.cards {
		keys[i] = c.Key
	}
	return keys
}

// Comments renders the header as "KEY: value" lines
func (h *Header) Comments() []string {
	lines := make([]string, len(h.cards))
	for i, c := range h.cards {
		lines[i] = c.Key + ": " + FormatValue(c.Value)
	}
	return lines
}

// WriteTo writes the header as a block of "# KEY: value" lines
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, line := range h.Comments() {
		m, err := fmt.Fprintf(w, "# %s\n", line)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Map flattens the header into a map, for serialisation. Later cards win on
// repeated keys.
func (h *Header) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(h.cards))
	for _, c := range h.cards {
		m[c.Key] = c.Value
	}
	return m
}

// FormatValue renders a header value. Floats always carry a decimal point
// and switch to exponent notation below 1e-4 and from 1e16 on.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, bits)
	}
	s := strconv.FormatFloat(v, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
