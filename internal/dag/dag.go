// Package dag provides the dependency graph between generated build targets.
// It supports cycle detection, producer-first ordering, and verification that a
// given emission order never places a consumer before its producer.
package dag

import (
	"fmt"
	"slices"
	"sort"
)

// Node represents a build target in the graph.
type Node struct {
	// Target is the unique build target name
	Target string
	// Data holds the rule behind the target
	Data any
}

// Graph is a directed acyclic graph of build targets.
// Nodes iterate in the order they were added.
type Graph struct {
	nodes   map[string]*Node
	order   []string
	edges   map[string][]string // producer -> consumers
	parents map[string][]string // consumer -> producers
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a target to the graph. Adding an existing target is an error:
// target names are unique within one generation.
func (g *Graph) AddNode(target string, data any) error {
	if _, exists := g.nodes[target]; exists {
		return fmt.Errorf("target %q already exists", target)
	}
	g.nodes[target] = &Node{Target: target, Data: data}
	g.order = append(g.order, target)
	return nil
}

// AddEdge records that consumer depends on producer.
func (g *Graph) AddEdge(producer, consumer string) error {
	if _, exists := g.nodes[producer]; !exists {
		return fmt.Errorf("dependency %q of %q is not a known target", producer, consumer)
	}
	if _, exists := g.nodes[consumer]; !exists {
		return fmt.Errorf("target %q does not exist", consumer)
	}
	if producer == consumer {
		return fmt.Errorf("self-dependency detected: %s", producer)
	}

	if !slices.Contains(g.edges[producer], consumer) {
		g.edges[producer] = append(g.edges[producer], consumer)
	}
	if !slices.Contains(g.parents[consumer], producer) {
		g.parents[consumer] = append(g.parents[consumer], producer)
	}
	return nil
}

// GetNode returns a node by target name.
func (g *Graph) GetNode(target string) (*Node, bool) {
	node, exists := g.nodes[target]
	return node, exists
}

// GetParents returns the producers a target depends on.
func (g *Graph) GetParents(target string) []string {
	return g.parents[target]
}

// GetChildren returns the consumers of a target.
func (g *Graph) GetChildren(target string) []string {
	return g.edges[target]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, target := range g.order {
		nodes = append(nodes, g.nodes[target])
	}
	return nodes
}

// NodeCount returns the number of targets in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of dependencies in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, consumers := range g.edges {
		count += len(consumers)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	via := make(map[string]string)

	var cyclePath []string

	var dfs func(target string) bool
	dfs = func(target string) bool {
		visited[target] = true
		onStack[target] = true

		for _, consumer := range g.edges[target] {
			if !visited[consumer] {
				via[consumer] = target
				if dfs(consumer) {
					return true
				}
			} else if onStack[consumer] {
				cyclePath = []string{consumer}
				for curr := target; curr != consumer; curr = via[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{consumer}, cyclePath...)
				return true
			}
		}

		onStack[target] = false
		return false
	}

	for _, target := range g.order {
		if !visited[target] && dfs(target) {
			return true, cyclePath
		}
	}
	return false, nil
}

// GetExecutionLevels groups targets by depth. Level 0 holds targets without
// dependencies; level N targets depend only on levels below N.
func (g *Graph) GetExecutionLevels() ([][]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	assigned := make(map[string]int)

	var levelOf func(target string) int
	levelOf = func(target string) int {
		if level, ok := assigned[target]; ok {
			return level
		}
		level := 0
		for _, producer := range g.parents[target] {
			level = max(level, levelOf(producer)+1)
		}
		assigned[target] = level
		return level
	}

	var levels [][]string
	for _, target := range g.order {
		level := levelOf(target)
		for len(levels) <= level {
			levels = append(levels, []string{})
		}
	}
	// Fill in insertion order so each level lists targets as they were emitted.
	for _, target := range g.order {
		level := assigned[target]
		levels[level] = append(levels[level], target)
	}
	return levels, nil
}

// GetUpstreamNodes returns every target the given target transitively depends on.
func (g *Graph) GetUpstreamNodes(target string) []string {
	upstream := make(map[string]bool)

	var mark func(t string)
	mark = func(t string) {
		for _, producer := range g.parents[t] {
			if !upstream[producer] {
				upstream[producer] = true
				mark(producer)
			}
		}
	}
	mark(target)

	result := make([]string, 0, len(upstream))
	for t := range upstream {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// VerifyOrder checks that order lists every target of the graph exactly once
// and that each target appears after all of its producers.
func (g *Graph) VerifyOrder(order []string) error {
	position := make(map[string]int, len(order))
	for i, target := range order {
		if _, exists := g.nodes[target]; !exists {
			return fmt.Errorf("target %q is not in the graph", target)
		}
		if _, seen := position[target]; seen {
			return fmt.Errorf("target %q appears more than once", target)
		}
		position[target] = i
	}
	if len(position) != len(g.nodes) {
		return fmt.Errorf("order lists %d of %d targets", len(position), len(g.nodes))
	}

	for i, target := range order {
		for _, producer := range g.parents[target] {
			if position[producer] > i {
				return &OrderViolationError{Target: target, Dependency: producer}
			}
		}
	}
	return nil
}

// OrderViolationError is returned when a target is emitted before a target it
// depends on.
type OrderViolationError struct {
	Target     string
	Dependency string
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("target %q is emitted before its dependency %q", e.Target, e.Dependency)
}
