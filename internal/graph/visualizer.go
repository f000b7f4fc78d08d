package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer[K Key] struct {
	graph *DependencyGraph[K]

	// Color picks a fill color for a registered node. Optional.
	Color func(K) string
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer[K Key](graph *DependencyGraph[K]) *Visualizer[K] {
	return &Visualizer[K]{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format. Declared dependencies
// without a node are drawn gray with a dashed edge.
func (v *Visualizer[K]) WriteDOT(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	nodeIDs := make(map[K]string)
	keys := v.graph.sortedKeys()
	for i, key := range keys {
		nodeIDs[key] = fmt.Sprintf("n%d", i)
		fmt.Fprintf(&b, "  %s [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			nodeIDs[key], v.formatNodeLabel(v.graph.nodes[key]), v.nodeColor(key))
	}

	missing := 0
	for _, key := range keys {
		for _, dep := range v.graph.nodes[key].Dependencies {
			if _, ok := nodeIDs[dep]; ok {
				if _, registered := v.graph.nodes[dep]; registered {
					fmt.Fprintf(&b, "  %s -> %s;\n", nodeIDs[key], nodeIDs[dep])
					continue
				}
			} else {
				nodeIDs[dep] = fmt.Sprintf("m%d", missing)
				missing++
				fmt.Fprintf(&b, "  %s [label=\"%s\\n(missing)\", fillcolor=\"lightgray\", style=filled];\n",
					nodeIDs[dep], escape(dep.String()))
			}
			fmt.Fprintf(&b, "  %s -> %s [style=dashed];\n", nodeIDs[key], nodeIDs[dep])
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes a text representation of the graph grouped by depth.
func (v *Visualizer[K]) WriteText(w io.Writer) error {
	v.graph.mu.Lock()
	defer v.graph.mu.Unlock()

	v.graph.calculateDepths()

	var b strings.Builder
	b.WriteString("Dependency Graph:\n")
	b.WriteString("=================\n\n")

	levels := make(map[int][]*Node[K])
	maxDepth := -1
	for _, key := range v.graph.sortedKeys() {
		node := v.graph.nodes[key]
		levels[node.Depth] = append(levels[node.Depth], node)
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
	}

	for depth := 0; depth <= maxDepth; depth++ {
		nodes, ok := levels[depth]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "Level %d:\n", depth)
		b.WriteString("--------\n")
		for _, node := range nodes {
			v.writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	if cyclic, ok := levels[-1]; ok {
		b.WriteString("Nodes on or above a cycle:\n")
		b.WriteString("--------------------------\n")
		for _, node := range cyclic {
			v.writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	v.writeStatistics(&b, len(levels[-1]) == 0)

	_, err := io.WriteString(w, b.String())
	return err
}

// formatNodeLabel creates a label for a node
func (v *Visualizer[K]) formatNodeLabel(node *Node[K]) string {
	return fmt.Sprintf("%s\\nIn:%d Out:%d", escape(node.Key.String()), node.InDegree, node.OutDegree)
}

func (v *Visualizer[K]) nodeColor(key K) string {
	if v.Color != nil {
		if c := v.Color(key); c != "" {
			return c
		}
	}
	return "white"
}

// writeNodeDetails writes detailed information about a node
func (v *Visualizer[K]) writeNodeDetails(b *strings.Builder, node *Node[K], indent string) {
	fmt.Fprintf(b, "%s%s\n", indent, node.Key.String())

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(b, "%s  Dependencies: [%s]\n", indent, joinKeys(node.Dependencies))
	}

	if len(node.Dependents) > 0 {
		fmt.Fprintf(b, "%s  Dependents: [%s]\n", indent, joinKeys(node.Dependents))
	}
}

// writeStatistics writes graph statistics
func (v *Visualizer[K]) writeStatistics(b *strings.Builder, acyclic bool) {
	b.WriteString("Statistics:\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(b, "  Total nodes: %d\n", len(v.graph.nodes))

	edges, leaves, roots := 0, 0, 0
	for _, node := range v.graph.nodes {
		edges += len(node.Dependencies)
		if node.InDegree == 0 {
			leaves++
		}
		if node.OutDegree == 0 {
			roots++
		}
	}

	fmt.Fprintf(b, "  Total edges: %d\n", edges)
	fmt.Fprintf(b, "  Nodes without dependencies: %d\n", leaves)
	fmt.Fprintf(b, "  Nodes without dependents: %d\n", roots)

	if acyclic {
		b.WriteString("  Cycles: None (graph is acyclic)\n")
	} else {
		b.WriteString("  Cycles: DETECTED (graph contains circular dependencies)\n")
	}
}

func joinKeys[K Key](keys []K) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
