// Package render turns a reconstructed shadow tree into its two
// human-readable outputs: an indented terminal tree and a per-page HTML
// overlay.
package render

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/goshadow/internal/shadow"
)

// Tree renders the node tree as an indented outline with box-drawing
// connectors, one line per node. The string is plain text; callers decide
// where it goes and whether to style around it.
func Tree(root *shadow.Node) string {
	var b strings.Builder
	pages, _ := root.Payload["pages"].(int)
	fmt.Fprintf(&b, "[%s:%s] (pages: %d)\n", root.Kind, root.ID, pages)
	for i, child := range root.Children {
		writeSubtree(&b, child, "", i == len(root.Children)-1)
	}
	return b.String()
}

func writeSubtree(b *strings.Builder, n *shadow.Node, prefix string, isLast bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}

	b.WriteString(prefix)
	b.WriteString(connector)
	fmt.Fprintf(b, "[%s:%s]", n.Kind, n.ID)
	if ptype := n.PayloadType(); ptype != "" {
		fmt.Fprintf(b, " [%s]", ptype)
	}
	if summary := n.Summary(); summary != "" {
		b.WriteString(" ")
		b.WriteString(summary)
	}
	b.WriteString("\n")

	for i, child := range n.Children {
		writeSubtree(b, child, childPrefix, i == len(n.Children)-1)
	}
}
