// Package shadow reconstructs a document hierarchy (the "shadow tree") from
// an ordered probe stream and annotates each node with the page-relative
// rectangles approximating where the element landed.
package shadow

import "fmt"

// Rect is one contiguous visible fragment of a logical element on a single
// page. An element that crosses a page boundary carries one Rect per page.
// All values are in document points.
type Rect struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// String formats the rect as p<page>(x,y wxh) with whole-point precision.
func (r Rect) String() string {
	return fmt.Sprintf("p%d(%.0f,%.0f %.0fx%.0f)", r.Page, r.X, r.Y, r.W, r.H)
}

// Geometry holds the synthesis constants. Probe data carries no widths and
// no page dimensions, so rect widths and the cross-page split are driven by
// this configuration rather than discovered from input. Injectable so tests
// can exercise alternate page geometries.
type Geometry struct {
	// PageWidth and PageHeight are the rendered page size in points.
	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`

	// RectWidth is the fixed width given to every paired rect.
	RectWidth float64 `yaml:"rect_width"`

	// MinHeight is the floor for a same-page rect, keeping coincident or
	// inverted open/close locations visible.
	MinHeight float64 `yaml:"min_height"`

	// MinFragmentHeight is the floor for each cross-page fragment.
	MinFragmentHeight float64 `yaml:"min_fragment_height"`

	// TopMargin and BottomMargin bound cross-page fragments away from the
	// page edges.
	TopMargin    float64 `yaml:"top_margin"`
	BottomMargin float64 `yaml:"bottom_margin"`

	// MarkerSize is the side length of the square rect given to atomic
	// probes.
	MarkerSize float64 `yaml:"marker_size"`
}

// DefaultGeometry returns the A4 defaults.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:         595,
		PageHeight:        842,
		RectWidth:         400,
		MinHeight:         15,
		MinFragmentHeight: 50,
		TopMargin:         50,
		BottomMargin:      50,
		MarkerSize:        10,
	}
}
