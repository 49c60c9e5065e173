package spreadsheet

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// DependencyGraph owns every Cell of a sheet and the edges between them.
// cells refer to each other only by Address, so the graph may contain cycles
// without any ownership cycle.
type DependencyGraph struct {
	nodes     map[Address]*Cell // all nodes in the graph
	insertion []Address         // node creation order, used to seed sorts
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[Address]*Cell),
	}
}

// GetOrCreateNode gets an existing node or creates a new one. created is
// true when the node did not exist before.
func (dg *DependencyGraph) GetOrCreateNode(addr Address) (node *Cell, created bool) {
	if node, exists := dg.nodes[addr]; exists {
		return node, false
	}

	node = newCell(addr)
	dg.nodes[addr] = node
	dg.insertion = append(dg.insertion, addr)
	return node, true
}

// GetNode retrieves a node if it exists
func (dg *DependencyGraph) GetNode(addr Address) (*Cell, bool) {
	node, exists := dg.nodes[addr]
	return node, exists
}

// removeIsolatedNode drops a node that has no edges. it is used to undo lazy
// creation when an edit is rolled back.
func (dg *DependencyGraph) removeIsolatedNode(addr Address) bool {
	node, exists := dg.nodes[addr]
	if !exists || node.dependencies.Len() > 0 || node.dependents.Len() > 0 {
		return false
	}

	delete(dg.nodes, addr)
	dg.insertion = slices.DeleteFunc(dg.insertion, func(a Address) bool {
		return a == addr
	})
	return true
}

// SetDependencies replaces the dependency set of addr, keeping the
// dependents of every old and new dependency consistent. this is the only
// place edges change.
func (dg *DependencyGraph) SetDependencies(addr Address, dependencies sets.Set[Address]) {
	node, _ := dg.GetOrCreateNode(addr)

	// remove this node from dependencies it no longer reads
	for removed := range node.dependencies.Difference(dependencies) {
		if dep, exists := dg.nodes[removed]; exists {
			dep.dependents.Delete(addr)
		}
	}

	// add this node to its new dependencies
	for added := range dependencies.Difference(node.dependencies) {
		dep, _ := dg.GetOrCreateNode(added)
		dep.dependents.Insert(addr)
	}

	node.dependencies = dependencies.Clone()
}

// Nodes returns every address in node creation order
func (dg *DependencyGraph) Nodes() []Address {
	return slices.Clone(dg.insertion)
}

// NodeCount returns the number of nodes in the graph
func (dg *DependencyGraph) NodeCount() int {
	return len(dg.nodes)
}

// TopologicalSort orders addrs so that every cell comes after each of its
// dependencies that is also in addrs. it uses Kahn's algorithm with a FIFO
// worklist seeded in input order. if some cells cannot be placed, a
// *CycleError naming them is returned and no partial order.
func (dg *DependencyGraph) TopologicalSort(addrs []Address) ([]Address, error) {
	members := sets.New(addrs...)
	inDegree := make(map[Address]int, members.Len())
	queue := make([]Address, 0, members.Len())

	for _, addr := range addrs {
		if _, seen := inDegree[addr]; seen {
			continue
		}

		degree := 0
		if node, exists := dg.nodes[addr]; exists {
			for dep := range node.dependencies {
				if members.Has(dep) {
					degree++
				}
			}
		}

		inDegree[addr] = degree
		if degree == 0 {
			queue = append(queue, addr)
		}
	}

	result := make([]Address, 0, len(inDegree))
	var ready []Address
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		result = append(result, addr)

		node, exists := dg.nodes[addr]
		if !exists {
			continue
		}

		// newly ready cells are enqueued row-major so the order is stable
		ready = ready[:0]
		for dependent := range node.dependents {
			if _, tracked := inDegree[dependent]; !tracked {
				continue
			}
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		if len(ready) > 1 {
			slices.SortFunc(ready, Address.Compare)
		}
		queue = append(queue, ready...)
	}

	if len(result) != len(inDegree) {
		remaining := sets.New[Address]()
		for addr, degree := range inDegree {
			if degree > 0 {
				remaining.Insert(addr)
			}
		}
		return nil, &CycleError{Cells: sortedAddresses(remaining)}
	}

	return result, nil
}

// GetCalculationOrder sorts the whole graph
func (dg *DependencyGraph) GetCalculationOrder() ([]Address, error) {
	return dg.TopologicalSort(dg.insertion)
}

// HasCycle checks if there are circular dependencies
func (dg *DependencyGraph) HasCycle() bool {
	_, err := dg.GetCalculationOrder()
	return err != nil
}

// GetAffectedCells returns addr together with every cell reachable from it
// through dependents (its transitive closure)
func (dg *DependencyGraph) GetAffectedCells(addr Address) sets.Set[Address] {
	visited := sets.New[Address]()
	dg.collectDependents(addr, visited)
	return visited
}

// collectDependents recursively collects all dependents
func (dg *DependencyGraph) collectDependents(addr Address, visited sets.Set[Address]) {
	if visited.Has(addr) {
		return
	}
	visited.Insert(addr)

	node, exists := dg.nodes[addr]
	if !exists {
		return
	}

	for dependent := range node.dependents {
		dg.collectDependents(dependent, visited)
	}
}
