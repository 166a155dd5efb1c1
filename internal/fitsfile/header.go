// Package fitsfile reads and rewrites the FITS files produced by the
// telescope and by PypeIt.
package fitsfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// Card is one header record
type Card struct {
	Name    string
	Value   interface{}
	Comment string
}

// Header is an ordered card list. Repeated COMMENT and HISTORY cards are
// kept in file order.
type Header struct {
	Cards []Card
}

// NewHeader builds a header from cards
func NewHeader(cards ...Card) *Header {
	return &Header{Cards: cards}
}

// commentary reports whether name is a COMMENT, HISTORY or blank card,
// which may repeat and carry their text in the comment field
func commentary(name string) bool {
	return name == "COMMENT" || name == "HISTORY" || name == ""
}

// cards returns every card of h in order, commentary cards included, up to
// END. fitsio exposes no card count and Keys skips commentary cards, so the
// walk ends at END or at the first index Card rejects.
func cards(h *fitsio.Header) []fitsio.Card {
	var out []fitsio.Card
	for i := 0; ; i++ {
		c, ok := cardAt(h, i)
		if !ok || c.Name == "END" {
			return out
		}
		out = append(out, *c)
	}
}

func cardAt(h *fitsio.Header, i int) (c *fitsio.Card, ok bool) {
	defer func() {
		if recover() != nil {
			c, ok = nil, false
		}
	}()
	c = h.Card(i)
	return c, c != nil
}

func fromFITS(h *fitsio.Header) *Header {
	out := &Header{}
	for _, c := range cards(h) {
		card := Card{Name: c.Name, Value: c.Value, Comment: c.Comment}
		if commentary(c.Name) && c.Value == nil {
			card.Value = c.Comment
		}
		out.Cards = append(out.Cards, card)
	}
	for i, n := range h.Axes() {
		key := fmt.Sprintf("NAXIS%d", i+1)
		if !out.Has(key) {
			out.Cards = append(out.Cards, Card{Name: key, Value: n})
		}
	}
	return out
}

// Merge combines headers in order. A card is taken from a later header only
// when no earlier header has a card of that name; COMMENT and HISTORY cards
// are always kept.
func Merge(hs ...*Header) *Header {
	out := &Header{}
	for _, h := range hs {
		if h == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, c := range h.Cards {
			if !commentary(c.Name) && !seen[c.Name] && out.Has(c.Name) {
				continue
			}
			seen[c.Name] = true
			out.Cards = append(out.Cards, c)
		}
	}
	return out
}

// Lookup returns the value of the first card named key
func (h *Header) Lookup(key string) (interface{}, bool) {
	for _, c := range h.Cards {
		if c.Name == key {
			return c.Value, true
		}
	}
	return nil, false
}

// Has reports whether a card named key exists
func (h *Header) Has(key string) bool {
	_, ok := h.Lookup(key)
	return ok
}

// Values returns every value of a repeated card such as HISTORY
func (h *Header) Values(key string) []string {
	var out []string
	for _, c := range h.Cards {
		if c.Name == key {
			out = append(out, strings.TrimRight(fmt.Sprint(c.Value), " "))
		}
	}
	return out
}

// String returns a card value as text
func (h *Header) String(key string) (string, error) {
	v, ok := h.Lookup(key)
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return fmt.Sprint(v), nil
}

// Float returns a numeric card value
func (h *Header) Float(key string) (float64, error) {
	v, ok := h.Lookup(key)
	if !ok {
		return 0, &MissingKeyError{Key: key}
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("keyword %s: %w", key, err)
	}
	return f, nil
}

// Int returns an integer card value
func (h *Header) Int(key string) (int, error) {
	f, err := h.Float(key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

// MissingKeyError is returned by the typed getters
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("keyword %s not found", e.Key)
}
