package shadow

import (
	"fmt"
	"sort"
)

// Node is one logical element reconstructed from the probe stream.
//
// A paired node is created on its start probe and mutated exactly once
// more, when its end probe assigns its rects; after that it is immutable.
// An atomic node is complete on creation. Children are stored in arrival
// order, which is document order for a well-nested stream.
type Node struct {
	Kind     string         `json:"kind"`
	ID       string         `json:"id"`
	SeqStart int            `json:"seq_start"`
	Children []*Node        `json:"children,omitempty"`
	Rects    []Rect         `json:"rects,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Atomic   bool           `json:"atomic,omitempty"`

	// Open-state, meaningful only while the node is on the build stack.
	startPage int
	startX    float64
	startY    float64
}

// AddChild appends child as the last child of n.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// setStart records the opening location for the split calculation on close.
func (n *Node) setStart(page int, x, y float64) {
	n.startPage = page
	n.startX = x
	n.startY = y
}

// close assigns the node's rects from its recorded start location and the
// given end location.
//
// Same page: one rect from the start point down to the end point, floored
// at geo.MinHeight. Cross page: exactly two rects, one from the start point
// to the bottom of the start page and one from the top of the end page to
// the end point. Elements spanning three or more pages still get only
// these two fragments; middle pages are not synthesized.
func (n *Node) close(endPage int, endX, endY float64, geo Geometry) {
	if n.startPage == endPage {
		n.Rects = append(n.Rects, Rect{
			Page: n.startPage,
			X:    n.startX,
			Y:    n.startY,
			W:    geo.RectWidth,
			H:    max(endY-n.startY, geo.MinHeight),
		})
		return
	}

	n.Rects = append(n.Rects,
		Rect{
			Page: n.startPage,
			X:    n.startX,
			Y:    n.startY,
			W:    geo.RectWidth,
			H:    max(geo.PageHeight-n.startY-geo.BottomMargin, geo.MinFragmentHeight),
		},
		Rect{
			Page: endPage,
			X:    endX,
			Y:    geo.TopMargin,
			W:    geo.RectWidth,
			H:    max(endY-geo.TopMargin, geo.MinFragmentHeight),
		},
	)
}

// addMarkerRect gives an atomic node its single fixed-size rect at the
// probe's own location.
func (n *Node) addMarkerRect(page int, x, y float64, geo Geometry) {
	n.Rects = append(n.Rects, Rect{
		Page: page,
		X:    x,
		Y:    y,
		W:    geo.MarkerSize,
		H:    geo.MarkerSize,
	})
}

// Summary returns the one-line geometry annotation used by the tree
// printer: empty for an open node, page and vertical span for a single
// rect, page range and fragment count otherwise.
func (n *Node) Summary() string {
	switch len(n.Rects) {
	case 0:
		return ""
	case 1:
		r := n.Rects[0]
		return fmt.Sprintf("(p%d, y:%.0f-%.0f)", r.Page, r.Y, r.Y+r.H)
	default:
		pages := make([]int, 0, len(n.Rects))
		seen := make(map[int]bool)
		for _, r := range n.Rects {
			if !seen[r.Page] {
				seen[r.Page] = true
				pages = append(pages, r.Page)
			}
		}
		sort.Ints(pages)
		return fmt.Sprintf("(p%d-p%d, %d frags)", pages[0], pages[len(pages)-1], len(n.Rects))
	}
}

// PayloadType returns the secondary type drawn from the payload ("type",
// falling back to "kind"), or "" when it is absent or matches n.Kind.
func (n *Node) PayloadType() string {
	t, _ := n.Payload["type"].(string)
	if t == "" {
		t, _ = n.Payload["kind"].(string)
	}
	if t == n.Kind {
		return ""
	}
	return t
}

// Walk traverses the tree in pre-order, calling fn for each node.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// AllNodes returns every node in the tree, pre-order.
func (n *Node) AllNodes() []*Node {
	var nodes []*Node
	n.Walk(func(node *Node) {
		nodes = append(nodes, node)
	})
	return nodes
}
