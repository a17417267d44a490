package shadow

import (
	"reflect"
	"testing"

	"github.com/itsmostafa/goshadow/internal/probe"
)

func ip(v int) *int         { return &v }
func fp(v float64) *float64 { return &v }

func loc(page int, x, y float64) probe.Location {
	return probe.Location{Page: ip(page), X: fp(x), Y: fp(y)}
}

func TestBuildSamePagePair(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "p1-start", Edge: probe.EdgeStart, Location: loc(1, 0, 100)},
		{Seq: 1, ID: "p1-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 140)},
	}
	root, report := Build(probes, DefaultGeometry())

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	node := root.Children[0]
	if node.ID != "p1" {
		t.Errorf("expected -start suffix stripped, got id %q", node.ID)
	}
	if node.Atomic {
		t.Error("paired node must not be atomic")
	}
	if len(node.Rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(node.Rects))
	}
	r := node.Rects[0]
	if r.Page != 1 || r.Y != 100 || r.H != 40 {
		t.Errorf("expected page 1, y 100, height 40, got %s", r)
	}
	if report.Pages != 1 {
		t.Errorf("expected 1 page seen, got %d", report.Pages)
	}
}

func TestBuildCrossPagePair(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "p1-start", Edge: probe.EdgeStart, Location: loc(1, 20, 800)},
		{Seq: 1, ID: "p1-end", Edge: probe.EdgeEnd, Location: loc(2, 30, 100)},
	}
	root, _ := Build(probes, DefaultGeometry())

	node := root.Children[0]
	if len(node.Rects) != 2 {
		t.Fatalf("expected 2 rects for cross-page element, got %d", len(node.Rects))
	}

	first := node.Rects[0]
	if first.Page != 1 || first.X != 20 || first.Y != 800 {
		t.Errorf("first fragment misplaced: %s", first)
	}
	// max(842-800-50, 50) = 50
	if first.H != 50 {
		t.Errorf("expected first fragment height 50, got %.0f", first.H)
	}

	second := node.Rects[1]
	if second.Page != 2 || second.X != 30 || second.Y != 50 {
		t.Errorf("second fragment misplaced: %s", second)
	}
	// max(100-50, 50) = 50
	if second.H != 50 {
		t.Errorf("expected second fragment height 50, got %.0f", second.H)
	}
}

func TestBuildCrossPageFloors(t *testing.T) {
	// Opening right at the bottom of page 1 and closing right at the top of
	// page 2 exercises both fragment floors.
	probes := []probe.Probe{
		{Seq: 0, ID: "x-start", Edge: probe.EdgeStart, Location: loc(1, 0, 840)},
		{Seq: 1, ID: "x-end", Edge: probe.EdgeEnd, Location: loc(2, 0, 10)},
	}
	root, _ := Build(probes, DefaultGeometry())

	node := root.Children[0]
	if node.Rects[0].H != 50 || node.Rects[1].H != 50 {
		t.Errorf("expected both fragments floored at 50, got %.0f and %.0f",
			node.Rects[0].H, node.Rects[1].H)
	}
}

func TestBuildInvertedSamePagePair(t *testing.T) {
	// Close above open: height floors at MinHeight instead of going negative.
	probes := []probe.Probe{
		{Seq: 0, ID: "q-start", Edge: probe.EdgeStart, Location: loc(1, 0, 200)},
		{Seq: 1, ID: "q-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 190)},
	}
	root, _ := Build(probes, DefaultGeometry())

	if h := root.Children[0].Rects[0].H; h != 15 {
		t.Errorf("expected height floored at 15, got %.0f", h)
	}
}

func TestBuildAtomic(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "fig1", Location: loc(1, 120, 300)},
	}
	root, _ := Build(probes, DefaultGeometry())

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	node := root.Children[0]
	if !node.Atomic {
		t.Error("expected atomic flag")
	}
	if node.ID != "fig1" {
		t.Errorf("atomic id must be carried unchanged, got %q", node.ID)
	}
	if len(node.Rects) != 1 {
		t.Fatalf("expected 1 marker rect, got %d", len(node.Rects))
	}
	r := node.Rects[0]
	if r.X != 120 || r.Y != 300 || r.W != 10 || r.H != 10 {
		t.Errorf("expected 10x10 marker at (120,300), got %s", r)
	}
}

func TestBuildUnmatchedEnd(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "stray-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 0)},
		{Seq: 1, ID: "m1", Location: loc(1, 0, 0)},
	}
	root, report := Build(probes, DefaultGeometry())

	if len(root.Children) != 1 {
		t.Fatalf("stray end must not affect the tree, got %d children", len(root.Children))
	}
	if len(report.UnmatchedEnds) != 1 {
		t.Fatalf("expected 1 unmatched end reported, got %d", len(report.UnmatchedEnds))
	}
	if report.UnmatchedEnds[0].Seq != 0 || report.UnmatchedEnds[0].ID != "stray-end" {
		t.Errorf("unexpected diagnostic: %+v", report.UnmatchedEnds[0])
	}
}

func TestBuildEmptyInput(t *testing.T) {
	root, report := Build(nil, DefaultGeometry())

	if root.Kind != RootKind || root.ID != RootID {
		t.Errorf("unexpected root identity [%s:%s]", root.Kind, root.ID)
	}
	if len(root.Children) != 0 {
		t.Errorf("expected no children, got %d", len(root.Children))
	}
	if pages, _ := root.Payload["pages"].(int); pages != 0 {
		t.Errorf("expected 0 pages recorded, got %d", pages)
	}
	if report.Probes != 0 || report.Pages != 0 || len(report.UnmatchedEnds) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestBuildNesting(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "sec-start", Edge: probe.EdgeStart, Location: loc(1, 0, 50), Payload: map[string]any{"kind": "section"}},
		{Seq: 1, ID: "par-start", Edge: probe.EdgeStart, Location: loc(1, 0, 60), Payload: map[string]any{"kind": "para"}},
		{Seq: 2, ID: "fn1", Location: loc(1, 40, 70), Payload: map[string]any{"kind": "footnote"}},
		{Seq: 3, ID: "par-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 90)},
		{Seq: 4, ID: "par2-start", Edge: probe.EdgeStart, Location: loc(1, 0, 100), Payload: map[string]any{"kind": "para"}},
		{Seq: 5, ID: "par2-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 130)},
		{Seq: 6, ID: "sec-end", Edge: probe.EdgeEnd, Location: loc(1, 0, 140)},
	}
	root, report := Build(probes, DefaultGeometry())

	if len(report.UnmatchedEnds) != 0 {
		t.Fatalf("well-nested stream must not report unmatched ends: %+v", report.UnmatchedEnds)
	}
	if report.Open != 0 {
		t.Fatalf("well-nested stream must leave only the root open, got %d open", report.Open)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(root.Children))
	}

	sec := root.Children[0]
	if sec.Kind != "section" || sec.ID != "sec" {
		t.Errorf("unexpected section node [%s:%s]", sec.Kind, sec.ID)
	}
	if len(sec.Children) != 2 {
		t.Fatalf("expected 2 paragraphs under section, got %d", len(sec.Children))
	}
	if sec.Children[0].ID != "par" || sec.Children[1].ID != "par2" {
		t.Error("children must be stored in arrival order")
	}

	par := sec.Children[0]
	if len(par.Children) != 1 || par.Children[0].ID != "fn1" {
		t.Error("expected footnote attached to the open paragraph")
	}
	if !par.Children[0].Atomic || len(par.Children[0].Children) != 0 {
		t.Error("atomic node must be a childless leaf")
	}

	// Every paired node is closed and carries geometry.
	for _, n := range root.AllNodes()[1:] {
		if len(n.Rects) == 0 {
			t.Errorf("node [%s:%s] has no rects after a well-nested build", n.Kind, n.ID)
		}
	}
}

func TestBuildNodeWhileOpenHasNoRects(t *testing.T) {
	// A start with no matching end: the node is in the tree immediately but
	// never receives geometry.
	probes := []probe.Probe{
		{Seq: 0, ID: "open-start", Edge: probe.EdgeStart, Location: loc(1, 0, 100)},
	}
	root, report := Build(probes, DefaultGeometry())

	if len(root.Children) != 1 {
		t.Fatal("open node must be reachable from root on creation")
	}
	if len(root.Children[0].Rects) != 0 {
		t.Error("open node must have zero rects")
	}
	if report.Open != 1 {
		t.Errorf("expected 1 node reported open, got %d", report.Open)
	}
}

func TestBuildPayloadEdgeOverride(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "a-start", Location: loc(1, 0, 10), Payload: map[string]any{"edge": "start"}},
		{Seq: 1, ID: "a-end", Edge: probe.EdgeStart, Location: loc(1, 0, 30), Payload: map[string]any{"edge": "end"}},
	}
	root, report := Build(probes, DefaultGeometry())

	if len(root.Children) != 1 || len(root.Children[0].Rects) != 1 {
		t.Error("payload edge must supply and override the pairing marker")
	}
	if len(report.UnmatchedEnds) != 0 {
		t.Errorf("unexpected diagnostics: %+v", report.UnmatchedEnds)
	}
}

func TestBuildMissingLocationDefaults(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "bare"},
	}
	root, report := Build(probes, DefaultGeometry())

	r := root.Children[0].Rects[0]
	if r.Page != 1 || r.X != 0 || r.Y != 0 {
		t.Errorf("expected defaults page 1, x 0, y 0, got %s", r)
	}
	// No page field at all: nothing recorded in the pages-seen set.
	if report.Pages != 0 {
		t.Errorf("expected 0 pages seen for pageless probe, got %d", report.Pages)
	}
}

func TestBuildCustomGeometry(t *testing.T) {
	geo := Geometry{
		PageWidth:         400,
		PageHeight:        1000,
		RectWidth:         300,
		MinHeight:         5,
		MinFragmentHeight: 20,
		TopMargin:         30,
		BottomMargin:      40,
		MarkerSize:        6,
	}
	probes := []probe.Probe{
		{Seq: 0, ID: "x-start", Edge: probe.EdgeStart, Location: loc(1, 0, 100)},
		{Seq: 1, ID: "x-end", Edge: probe.EdgeEnd, Location: loc(2, 0, 500)},
		{Seq: 2, ID: "m", Location: loc(2, 10, 10)},
	}
	root, _ := Build(probes, geo)

	pair := root.Children[0]
	// 1000 - 100 - 40
	if pair.Rects[0].H != 860 || pair.Rects[0].W != 300 {
		t.Errorf("first fragment ignored injected geometry: %s", pair.Rects[0])
	}
	// y = top margin, h = 500 - 30
	if pair.Rects[1].Y != 30 || pair.Rects[1].H != 470 {
		t.Errorf("second fragment ignored injected geometry: %s", pair.Rects[1])
	}
	marker := root.Children[1]
	if marker.Rects[0].W != 6 || marker.Rects[0].H != 6 {
		t.Errorf("marker ignored injected size: %s", marker.Rects[0])
	}
}

func TestBuildIdempotent(t *testing.T) {
	probes := []probe.Probe{
		{Seq: 0, ID: "a-start", Edge: probe.EdgeStart, Location: loc(1, 0, 100)},
		{Seq: 1, ID: "m1", Location: loc(1, 5, 110)},
		{Seq: 2, ID: "a-end", Edge: probe.EdgeEnd, Location: loc(2, 0, 60)},
		{Seq: 3, ID: "b-start", Edge: probe.EdgeStart, Location: loc(2, 0, 80)},
		{Seq: 4, ID: "b-end", Edge: probe.EdgeEnd, Location: loc(2, 0, 120)},
	}

	first, firstReport := Build(probes, DefaultGeometry())
	second, secondReport := Build(probes, DefaultGeometry())

	if !reflect.DeepEqual(first, second) {
		t.Error("expected structurally identical trees from identical input")
	}
	if !reflect.DeepEqual(firstReport, secondReport) {
		t.Error("expected identical reports from identical input")
	}
}
