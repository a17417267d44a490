package shadow

import (
	"strings"

	"github.com/itsmostafa/goshadow/internal/probe"
)

// Root node identity. The root is synthetic: it is never popped and its
// payload records the count of distinct pages observed.
const (
	RootKind = "DOCUMENT"
	RootID   = "ROOT"
)

// UnmatchedEnd records an end probe observed with only the root on the
// stack. The probe is absorbed without touching the tree, but whether such
// streams are legitimate is an open question upstream, so each one is
// reported rather than silently dropped.
type UnmatchedEnd struct {
	Seq int
	ID  string
}

// Report summarizes a build for diagnostics. Open is the number of paired
// nodes still on the stack after the last probe; a well-nested stream
// leaves it at zero.
type Report struct {
	Probes        int
	Pages         int
	Open          int
	UnmatchedEnds []UnmatchedEnd
}

// builder is the explicit state machine behind Build. Its whole state is
// the stack of currently-open nodes (root always at the bottom) plus the
// set of pages seen. One transition fires per probe:
//
//	start  -> push:        create node, attach to stack top, push
//	end    -> pop:         pop top (unless only root remains) and close it
//	atomic -> passthrough: create closed node, attach to stack top
type builder struct {
	geo    Geometry
	root   *Node
	stack  []*Node
	pages  map[int]struct{}
	report Report
}

// Build reconstructs the shadow tree from probes, which must already be in
// ascending ordinal order (probe.SortBySeq). The build is a single forward
// pass and never fails: missing fields default, unmatched ends are absorbed
// and counted in the report. Empty input yields a root with no children and
// a page count of zero.
func Build(probes []probe.Probe, geo Geometry) (*Node, Report) {
	b := &builder{
		geo: geo,
		root: &Node{
			Kind:    RootKind,
			ID:      RootID,
			Payload: map[string]any{},
		},
		pages: make(map[int]struct{}),
	}
	b.stack = []*Node{b.root}

	for _, p := range probes {
		b.step(p)
	}

	b.report.Probes = len(probes)
	b.report.Pages = len(b.pages)
	b.report.Open = len(b.stack) - 1
	b.root.Payload["pages"] = len(b.pages)
	return b.root, b.report
}

func (b *builder) step(p probe.Probe) {
	if p.Location.HasPage() {
		b.pages[p.Location.PageOr(1)] = struct{}{}
	}

	switch p.EffectiveEdge() {
	case probe.EdgeStart:
		b.push(p)
	case probe.EdgeEnd:
		b.pop(p)
	default:
		b.passthrough(p)
	}
}

// push opens a paired node under the current stack top.
func (b *builder) push(p probe.Probe) {
	node := &Node{
		Kind:     p.EffectiveKind(),
		ID:       strings.TrimSuffix(p.ID, "-start"),
		SeqStart: p.Seq,
		Payload:  p.Payload,
	}
	node.setStart(p.Location.PageOr(1), p.Location.XOr(0), p.Location.YOr(0))
	b.top().AddChild(node)
	b.stack = append(b.stack, node)
}

// pop closes the innermost open node at this probe's location. An end with
// only the root left is a no-op on the tree.
func (b *builder) pop(p probe.Probe) {
	if len(b.stack) <= 1 {
		b.report.UnmatchedEnds = append(b.report.UnmatchedEnds, UnmatchedEnd{Seq: p.Seq, ID: p.ID})
		return
	}
	node := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	node.close(p.Location.PageOr(1), p.Location.XOr(0), p.Location.YOr(0), b.geo)
}

// passthrough attaches a completed atomic node without touching the stack.
func (b *builder) passthrough(p probe.Probe) {
	node := &Node{
		Kind:     p.EffectiveKind(),
		ID:       p.ID,
		SeqStart: p.Seq,
		Payload:  p.Payload,
		Atomic:   true,
	}
	node.addMarkerRect(p.Location.PageOr(1), p.Location.XOr(0), p.Location.YOr(0), b.geo)
	b.top().AddChild(node)
}

func (b *builder) top() *Node {
	return b.stack[len(b.stack)-1]
}
