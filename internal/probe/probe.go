// Package probe models the raw probe events emitted by a Typst typesetting
// pass and handles their acquisition via `typst query`.
//
// A probe is one discrete event with an ordinal position, an identifier, an
// optional pairing edge (start/end/atomic), a page-relative location, and a
// free-form metadata payload. The stream as a whole is assumed well-nested;
// anything missing on an individual probe degrades to a default rather than
// being rejected.
package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Edge classifies a probe with respect to a logical element's extent.
type Edge string

const (
	// EdgeStart opens a paired element.
	EdgeStart Edge = "start"
	// EdgeEnd closes the most recently opened element.
	EdgeEnd Edge = "end"
	// EdgeNone marks a standalone (atomic) probe.
	EdgeNone Edge = ""
)

// DefaultKind is used when neither the payload nor the probe carries a kind.
const DefaultKind = "marker"

// Location is the position where a probe fired. Fields are pointers so that
// absent values can be distinguished from zero values; readers go through
// the PageOr/XOr/YOr accessors, which apply the documented defaults
// (page 1, x 0, y 0).
type Location struct {
	Page *int     `json:"page,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

// PageOr returns the page number, or def when absent.
func (l Location) PageOr(def int) int {
	if l.Page == nil {
		return def
	}
	return *l.Page
}

// XOr returns the x coordinate in points, or def when absent.
func (l Location) XOr(def float64) float64 {
	if l.X == nil {
		return def
	}
	return *l.X
}

// YOr returns the y coordinate in points, or def when absent.
func (l Location) YOr(def float64) float64 {
	if l.Y == nil {
		return def
	}
	return *l.Y
}

// HasPage reports whether the probe recorded a page number at all.
func (l Location) HasPage() bool {
	return l.Page != nil
}

// Probe is one record of the query output.
type Probe struct {
	Seq      int            `json:"_seq"`
	ID       string         `json:"id"`
	Kind     string         `json:"kind,omitempty"`
	Edge     Edge           `json:"edge,omitempty"`
	Location Location       `json:"location"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// EffectiveKind resolves the category label for this probe: a kind in the
// payload wins over the probe's own kind field, which wins over DefaultKind.
func (p Probe) EffectiveKind() string {
	if k, ok := p.Payload["kind"].(string); ok && k != "" {
		return k
	}
	if p.Kind != "" {
		return p.Kind
	}
	return DefaultKind
}

// EffectiveEdge resolves the pairing marker: an edge in the payload
// overrides the probe's own edge field.
func (p Probe) EffectiveEdge() Edge {
	if e, ok := p.Payload["edge"].(string); ok {
		return Edge(e)
	}
	return p.Edge
}

// Decode parses a JSON array of probe records.
func Decode(r io.Reader) ([]Probe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading probe data: %w", err)
	}
	var probes []Probe
	if err := json.Unmarshal(data, &probes); err != nil {
		return nil, fmt.Errorf("parsing probe data: %w", err)
	}
	return probes, nil
}

// SortBySeq orders probes by ascending ordinal, in place. The builder
// requires this order and does not sort on its own.
func SortBySeq(probes []Probe) {
	sort.SliceStable(probes, func(i, j int) bool {
		return probes[i].Seq < probes[j].Seq
	})
}
