package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned (wrapped) when the graph contains a dependency cycle.
var ErrCycle = errors.New("cycle detected")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. It reports whether
// the node was added; if a node with the same ID already exists the graph is
// left unchanged and false is returned.
func (g *Graph) AddNode(id string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return false
	}

	g.nodes[id] = &node{
		id:     id,
		depSet: make(map[string]struct{}),
	}
	g.order = append(g.order, id)
	return true
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding the same edge twice is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, dup := toNode.depSet[fromID]; dup {
		return nil
	}
	toNode.deps = append(toNode.deps, fromNode)
	toNode.depSet[fromID] = struct{}{}

	return nil
}

// Nodes returns every node ID in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the IDs the given node depends on, in the order the
// edges were added.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	deps := make([]string, 0, len(n.deps))
	for _, dep := range n.deps {
		deps = append(deps, dep.id)
	}
	return deps, nil
}

// DetectCycles checks the graph for any cycles. It returns an error wrapping
// ErrCycle if a cycle is found, naming the first node involved in it. Nodes
// are visited in insertion order so the reported node is stable.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, n.id)
		}

		temporary[n.id] = true

		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}

// TopologicalOrder returns every node ID ordered so that each node comes
// after all of its dependencies. Dependencies are walked depth-first in edge
// order, starting from each node in insertion order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	done := make(map[string]bool, len(g.nodes))
	out := make([]string, 0, len(g.nodes))

	var visit func(n *node)
	visit = func(n *node) {
		if done[n.id] {
			return
		}
		done[n.id] = true
		for _, dep := range n.deps {
			visit(dep)
		}
		out = append(out, n.id)
	}
	for _, id := range g.order {
		visit(g.nodes[id])
	}
	return out, nil
}
