package shadow

import "sort"

// Fragment pairs a rect with the identity of the node it belongs to.
type Fragment struct {
	Kind string
	ID   string
	Rect Rect
}

// Collect flattens the tree into fragments, parent before children,
// children in stored order. The root itself carries no rects, so an empty
// tree yields no fragments.
func Collect(root *Node) []Fragment {
	var frags []Fragment
	root.Walk(func(n *Node) {
		for _, r := range n.Rects {
			frags = append(frags, Fragment{Kind: n.Kind, ID: n.ID, Rect: r})
		}
	})
	return frags
}

// GroupByPage buckets fragments by page number, preserving their relative
// order within each page.
func GroupByPage(frags []Fragment) map[int][]Fragment {
	byPage := make(map[int][]Fragment)
	for _, f := range frags {
		byPage[f.Rect.Page] = append(byPage[f.Rect.Page], f)
	}
	return byPage
}

// Pages returns the page numbers present in the grouping in ascending
// order. Pages that had no probes at all are simply absent.
func Pages(byPage map[int][]Fragment) []int {
	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
