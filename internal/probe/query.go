package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultSelector is the metadata label the query filters on.
const DefaultSelector = "<shadow-probe>"

// Querier acquires the probe stream by running `typst query` against a
// source file. Acquisition is a single discrete step; once Query returns,
// nothing else touches the typst process.
type Querier struct {
	// Bin is the typst executable name or path.
	Bin string
	// Selector is the probe label passed to typst query.
	Selector string
}

// NewQuerier returns a Querier with the default binary and selector.
func NewQuerier() *Querier {
	return &Querier{Bin: "typst", Selector: DefaultSelector}
}

// Query runs `typst query <path> <selector> --field value`, decodes the JSON
// output, and returns the probes sorted by ordinal. Any failure here is
// fatal to the caller: no tree can be built without a probe stream.
func (q *Querier) Query(ctx context.Context, path string) ([]Probe, error) {
	if _, err := exec.LookPath(q.Bin); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", q.Bin, err)
	}

	cmd := exec.CommandContext(ctx, q.Bin, "query", path, q.Selector, "--field", "value")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("typst query failed: %s", msg)
		}
		return nil, fmt.Errorf("typst query failed: %w", err)
	}

	probes, err := Decode(bytes.NewReader(output))
	if err != nil {
		return nil, err
	}
	SortBySeq(probes)
	return probes, nil
}
