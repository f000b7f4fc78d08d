package graph

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Key is the identity of a node. String must be stable; it orders
// traversals so that reports are deterministic.
type Key interface {
	comparable
	String() string
}

// DependencyGraph holds declared dependency relationships.
// It provides validation, cycle detection and topological sorting.
type DependencyGraph[K Key] struct {
	mu    sync.RWMutex
	nodes map[K]*Node[K]
}

// Node represents a registered provider in the graph
type Node[K Key] struct {
	Key K

	// Dependencies in declaration order, registered or not.
	Dependencies []K

	// Dependents are registered nodes that declare this node.
	Dependents []K

	InDegree  int // number of registered dependencies
	OutDegree int // number of dependents
	Depth     int // longest dependency chain below this node, -1 when on a cycle
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph[K Key]() *DependencyGraph[K] {
	return &DependencyGraph[K]{
		nodes: make(map[K]*Node[K]),
	}
}

// AddNode adds or replaces the node for key with the given dependencies.
func (g *DependencyGraph[K]) AddNode(key K, dependencies []K) {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps := make([]K, 0, len(dependencies))
	for _, d := range dependencies {
		if !slices.Contains(deps, d) {
			deps = append(deps, d)
		}
	}

	g.nodes[key] = &Node[K]{Key: key, Dependencies: deps}
	g.updateDegrees()
}

// updateDegrees recalculates degrees and dependents. Callers hold mu.
func (g *DependencyGraph[K]) updateDegrees() {
	for _, node := range g.nodes {
		node.InDegree = 0
		node.OutDegree = 0
		node.Dependents = node.Dependents[:0]
	}

	for _, key := range g.sortedKeys() {
		node := g.nodes[key]
		for _, dep := range node.Dependencies {
			if depNode, ok := g.nodes[dep]; ok {
				node.InDegree++
				depNode.OutDegree++
				depNode.Dependents = append(depNode.Dependents, key)
			}
		}
	}
}

// sortedKeys returns registered keys ordered by String. Callers hold mu.
func (g *DependencyGraph[K]) sortedKeys() []K {
	keys := make([]K, 0, len(g.nodes))
	for k := range g.nodes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// Size returns the number of nodes in the graph
func (g *DependencyGraph[K]) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// HasNode checks if a node exists in the graph
func (g *DependencyGraph[K]) HasNode(key K) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.nodes[key]
	return ok
}

// GetDependencies returns the declared dependencies of key.
func (g *DependencyGraph[K]) GetDependencies(key K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if node, ok := g.nodes[key]; ok {
		return slices.Clone(node.Dependencies)
	}
	return nil
}

// GetDependents returns the registered nodes that declare key.
func (g *DependencyGraph[K]) GetDependents(key K) []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if node, ok := g.nodes[key]; ok {
		return slices.Clone(node.Dependents)
	}
	return nil
}

// Sources returns nodes that no other node depends on, ordered by String.
func (g *DependencyGraph[K]) Sources() []K {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var sources []K
	for _, key := range g.sortedKeys() {
		if g.nodes[key].OutDegree == 0 {
			sources = append(sources, key)
		}
	}
	return sources
}

// Check validates the subgraph reachable from roots and returns every
// problem found: MissingDependencyError for dependencies with no node and
// CircularDependencyError for each distinct cycle.
func (g *DependencyGraph[K]) Check(roots []K) []error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.check(roots)
}

// CheckAll validates every node regardless of reachability.
func (g *DependencyGraph[K]) CheckAll() []error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.check(g.sortedKeys())
}

type color uint8

const (
	white color = iota
	gray
	black
)

func (g *DependencyGraph[K]) check(roots []K) []error {
	var (
		errs    []error
		colors  = make(map[K]color, len(g.nodes))
		stack   []K
		missing = make(map[[2]K]bool)
		cycles  = make(map[string]bool)
	)

	var visit func(k K)
	visit = func(k K) {
		colors[k] = gray
		stack = append(stack, k)

		for _, dep := range g.nodes[k].Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				pair := [2]K{k, dep}
				if !missing[pair] {
					missing[pair] = true
					errs = append(errs, MissingDependencyError[K]{Dependent: k, Missing: dep})
				}
				continue
			}

			switch colors[dep] {
			case white:
				visit(dep)
			case gray:
				start := slices.Index(stack, dep)
				path := append(slices.Clone(stack[start:]), dep)
				if id := cycleID(path); !cycles[id] {
					cycles[id] = true
					errs = append(errs, CircularDependencyError[K]{Path: path})
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[k] = black
	}

	for _, root := range roots {
		if _, ok := g.nodes[root]; !ok {
			pair := [2]K{root, root}
			if !missing[pair] {
				missing[pair] = true
				errs = append(errs, MissingDependencyError[K]{Dependent: root, Missing: root, Root: true})
			}
			continue
		}
		if colors[root] == white {
			visit(root)
		}
	}

	return errs
}

// cycleID returns a rotation-independent identity for a closed path.
func cycleID[K Key](path []K) string {
	ring := path[:len(path)-1]
	names := make([]string, len(ring))
	minAt := 0
	for i, k := range ring {
		names[i] = k.String()
		if names[i] < names[minAt] {
			minAt = i
		}
	}
	rotated := append(slices.Clone(names[minAt:]), names[:minAt]...)
	return strings.Join(rotated, " -> ")
}

// DetectCycles returns the first cycle found anywhere in the graph.
func (g *DependencyGraph[K]) DetectCycles() error {
	for _, err := range g.CheckAll() {
		if _, ok := err.(CircularDependencyError[K]); ok {
			return err
		}
	}
	return nil
}

// IsAcyclic returns true if the graph has no cycles
func (g *DependencyGraph[K]) IsAcyclic() bool {
	return g.DetectCycles() == nil
}

// TopologicalSort returns registered keys in dependency order
// (dependencies first). Dependencies without a node are ignored.
func (g *DependencyGraph[K]) TopologicalSort() ([]K, error) {
	g.mu.RLock()

	inDegrees := make(map[K]int, len(g.nodes))
	var queue []K
	for _, key := range g.sortedKeys() {
		inDegrees[key] = g.nodes[key].InDegree
		if inDegrees[key] == 0 {
			queue = append(queue, key)
		}
	}

	result := make([]K, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, dependent := range g.nodes[current].Dependents {
			inDegrees[dependent]--
			if inDegrees[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	total := len(g.nodes)
	g.mu.RUnlock()

	if len(result) != total {
		if err := g.DetectCycles(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("circular dependency detected: graph contains %d nodes but only %d could be sorted",
			total, len(result))
	}

	return result, nil
}

// CalculateDepths assigns depth levels to nodes based on their dependencies.
// Nodes on or above a cycle keep depth -1.
func (g *DependencyGraph[K]) CalculateDepths() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calculateDepths()
}

func (g *DependencyGraph[K]) calculateDepths() {
	for _, node := range g.nodes {
		node.Depth = -1
	}

	var queue []*Node[K]
	for _, key := range g.sortedKeys() {
		if node := g.nodes[key]; node.InDegree == 0 {
			node.Depth = 0
			queue = append(queue, node)
		}
	}

	remaining := make(map[K]int, len(g.nodes))
	for k, node := range g.nodes {
		remaining[k] = node.InDegree
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, depKey := range current.Dependents {
			dep := g.nodes[depKey]
			if dep.Depth < current.Depth+1 {
				dep.Depth = current.Depth + 1
			}
			remaining[depKey]--
			if remaining[depKey] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	// Nodes never released by the queue sit on or above a cycle.
	for k, left := range remaining {
		if left > 0 {
			g.nodes[k].Depth = -1
		}
	}
}

// String returns a string representation of the node
func (n *Node[K]) String() string {
	return fmt.Sprintf("Node{%s, in:%d, out:%d, depth:%d}",
		n.Key.String(), n.InDegree, n.OutDegree, n.Depth)
}
