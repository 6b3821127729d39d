package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/spf13/cobra"
)

// GraphQuerier provides read-only access to the target graph.
type GraphQuerier interface {
	GetParents(string) []string
	GetChildren(string) []string
	NodeCount() int
	EdgeCount() int
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the target dependency graph",
		Long: `Display the dependency graph of the generated targets.

Targets are grouped by level: fetch rules have no dependencies, imports depend
on fetches, and modules depend on imports. Forwarded imports have no target of
their own, so their modules depend directly on the fetch rule.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the whole graph
  benchrules graph

  # Show one module and everything it needs
  benchrules graph --target iree-module-1234-compa

  # Output as JSON
  benchrules graph --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, target)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Only show this target and its upstream targets")

	return cmd
}

func runGraph(cmd *cobra.Command, target string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	gen, err := cmdCtx.Generate(cmd.Context())
	if err != nil {
		return err
	}
	graph := gen.Result.Graph

	levels, err := graph.GetExecutionLevels()
	if err != nil {
		return fmt.Errorf("failed to get execution levels: %w", err)
	}

	if target != "" {
		if _, ok := graph.GetNode(target); !ok {
			return fmt.Errorf("target not found: %s", target)
		}
		keep := append(graph.GetUpstreamNodes(target), target)
		levels = filterLevels(levels, keep)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(r, graph, levels)
	case output.ModeMarkdown:
		return graphMarkdown(r, graph, levels)
	default:
		return graphText(r, graph, levels)
	}
}

// filterLevels keeps only the listed targets, dropping levels left empty.
func filterLevels(levels [][]string, keep []string) [][]string {
	var filtered [][]string
	for _, level := range levels {
		var kept []string
		for _, t := range level {
			if slices.Contains(keep, t) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

// graphText outputs the graph in styled text format.
func graphText(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	styles := r.Styles()

	r.Header(1, "Target Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, target := range level {
			deps := graph.GetParents(target)
			children := graph.GetChildren(target)

			r.Printf("  %s\n", styles.Target.Render(target))
			if len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if len(children) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d targets, %d dependencies", graph.NodeCount(), graph.EdgeCount())))

	return nil
}

// graphMarkdown outputs the graph in markdown format.
func graphMarkdown(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	r.Println(output.FormatHeader(1, "Target Graph"))
	r.Println("")

	for i, level := range levels {
		r.Println(output.FormatHeader(2, fmt.Sprintf("Level %d", i)))

		for _, target := range level {
			deps := graph.GetParents(target)
			children := graph.GetChildren(target)

			r.Printf("- %s\n", target)
			if len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if len(children) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(children, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Targets", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))

	return nil
}

// graphJSON outputs the graph in JSON format.
func graphJSON(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	graphOutput := output.GraphOutput{
		Levels:       make([]output.GraphLevel, 0, len(levels)),
		TotalTargets: graph.NodeCount(),
		TotalEdges:   graph.EdgeCount(),
	}

	for i, level := range levels {
		graphLevel := output.GraphLevel{
			Level:   i,
			Targets: make([]output.GraphNode, 0, len(level)),
		}
		for _, target := range level {
			graphLevel.Targets = append(graphLevel.Targets, output.GraphNode{
				Target:    target,
				DependsOn: graph.GetParents(target),
				UsedBy:    graph.GetChildren(target),
			})
		}
		graphOutput.Levels = append(graphOutput.Levels, graphLevel)
	}

	return r.JSON(graphOutput)
}
