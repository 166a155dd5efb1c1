// Package sidecar writes the metadata of a converted spectrum as a
// machine-readable file next to its ASCII tables, in JSON or MessagePack.
package sidecar

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/specred/specred/internal/header"
)

// Format selects the encoding
type Format string

// Supported formats
const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat accepts json or msgpack, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSON:
		return JSON, nil
	case MsgPack:
		return MsgPack, nil
	default:
		return "", fmt.Errorf("unknown sidecar format %q, expected json or msgpack", s)
	}
}

// Ext is the file extension of the format, with the dot
func (f Format) Ext() string {
	if f == MsgPack {
		return ".msgpack"
	}
	return ".json"
}

// Card is one header entry; a list keeps order and repeated keys
type Card struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Table describes one written ASCII table
type Table struct {
	Path    string  `json:"path"`
	MinWave float64 `json:"minWave"`
	Pixels  int     `json:"pixels"`
}

// Document is the content of a sidecar file
type Document struct {
	Source    string  `json:"source"`
	Extension string  `json:"extension,omitempty"`
	Tables    []Table `json:"tables"`
	Header    []Card  `json:"header"`
}

// FromHeader converts a header into sidecar cards. Non-finite floats become
// strings because JSON cannot carry them.
func FromHeader(h *header.Header) []Card {
	cards := h.Cards()
	out := make([]Card, len(cards))
	for i, c := range cards {
		v := c.Value
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = header.FormatValue(f)
		}
		out[i] = Card{Key: c.Key, Value: v}
	}
	return out
}

// Write encodes doc in format f
func Write(w io.Writer, f Format, doc Document) error {
	if f == MsgPack {
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Read decodes a document written by Write
func Read(r io.Reader, f Format) (*Document, error) {
	var doc Document
	if f == MsgPack {
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteFile writes doc to base plus the format extension and returns the
// path written
func WriteFile(base string, f Format, doc Document) (string, error) {
	path := base + f.Ext()
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(out, f, doc); err != nil {
		out.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, out.Close()
}
