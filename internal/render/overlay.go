package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/itsmostafa/goshadow/internal/shadow"
)

// overlayTemplate lays out one white page panel per page in the grouping,
// with an absolutely positioned, hoverable region per fragment. Document
// points map 1:1 to CSS pixels.
const overlayTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Shadow Tree Debug Overlay</title>
<style>
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #1a1a2e;
    color: #eee;
    padding: 20px;
}
h1 { color: #00d4ff; }
.legend {
    margin-bottom: 20px;
    padding: 15px;
    background: #16213e;
    border-radius: 8px;
}
.page-container {
    display: inline-block;
    margin: 20px;
    vertical-align: top;
}
.page-label {
    text-align: center;
    margin-bottom: 10px;
    font-weight: bold;
}
.page {
    width: {{printf "%.0f" .Geometry.PageWidth}}px;
    height: {{printf "%.0f" .Geometry.PageHeight}}px;
    background: white;
    position: relative;
    border: 2px solid #333;
    box-shadow: 0 4px 20px rgba(0,0,0,0.5);
}
.rect {
    position: absolute;
    border: 2px solid rgba(255, 50, 50, 0.8);
    background: rgba(255, 50, 50, 0.15);
    cursor: pointer;
    box-sizing: border-box;
}
.rect:hover {
    background: rgba(255, 50, 50, 0.4);
    border-color: #ff0000;
    z-index: 100;
}
.rect .tooltip {
    display: none;
    position: absolute;
    top: -30px;
    left: 0;
    background: #222;
    color: #fff;
    padding: 4px 8px;
    border-radius: 4px;
    font-size: 12px;
    white-space: nowrap;
    z-index: 1000;
}
.rect:hover .tooltip { display: block; }
</style>
</head>
<body>
<h1>Shadow Tree Debug Overlay</h1>
<div class="legend">
<strong>Legend:</strong> Red boxes = probe regions | Hover for details |
Total: {{.TotalRects}} rects across {{.TotalPages}} pages
</div>
{{range .Pages}}
<div class="page-container">
<div class="page-label">Page {{.Number}}</div>
<div class="page">
{{- range .Regions}}
<div class="rect" style="left:{{printf "%.1f" .Rect.X}}px; top:{{printf "%.1f" .Rect.Y}}px; width:{{printf "%.1f" .Rect.W}}px; height:{{printf "%.1f" .Rect.H}}px;">
<span class="tooltip">[{{.Kind}}] {{.ID}}</span>
</div>
{{- end}}
</div>
</div>
{{end}}
</body>
</html>
`

var overlayTmpl = template.Must(template.New("overlay").Parse(overlayTemplate))

type overlayPage struct {
	Number  int
	Regions []shadow.Fragment
}

type overlayData struct {
	Geometry   shadow.Geometry
	TotalRects int
	TotalPages int
	Pages      []overlayPage
}

// Overlay writes the visual overlay document for the page-grouped fragment
// list. Pages appear in ascending page-number order; pages absent from the
// grouping are not rendered. An empty grouping still produces a complete,
// valid document with no page panels.
func Overlay(w io.Writer, byPage map[int][]shadow.Fragment, totalPages int, geo shadow.Geometry) error {
	data := overlayData{
		Geometry:   geo,
		TotalPages: totalPages,
	}
	for _, page := range shadow.Pages(byPage) {
		frags := byPage[page]
		data.TotalRects += len(frags)
		data.Pages = append(data.Pages, overlayPage{Number: page, Regions: frags})
	}

	if err := overlayTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering overlay: %w", err)
	}
	return nil
}
