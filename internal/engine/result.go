package engine

import (
	"io"
	"strings"

	"github.com/leapstack-labs/benchrules/internal/dag"
	"github.com/leapstack-labs/benchrules/internal/rules"
)

// Header is the first line of every generated file.
const Header = "# Generated by benchrules. Do not edit."

// Result holds the output of one generation.
type Result struct {
	// CommonFragments fetch model artifacts
	CommonFragments []string
	// IreeFragments import and compile models
	IreeFragments []string
	// Rules are all generated rules, forwarded imports included
	Rules []rules.Rule
	// Graph links every emitted target to its dependencies
	Graph *dag.Graph
}

// Fragments returns all fragments in emission order: fetch rules first, then
// import and compile rules.
func (r *Result) Fragments() []string {
	fragments := make([]string, 0, len(r.CommonFragments)+len(r.IreeFragments))
	fragments = append(fragments, r.CommonFragments...)
	fragments = append(fragments, r.IreeFragments...)
	return fragments
}

// Render returns the generated file contents.
func (r *Result) Render() string {
	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString("\n")
	for _, fragment := range r.Fragments() {
		sb.WriteString("\n")
		sb.WriteString(fragment)
		if !strings.HasSuffix(fragment, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WriteTo writes the generated file contents to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Render())
	return int64(n), err
}
