package spreadsheet

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Cell represents one spreadsheet slot with its cached value and its edges
// in the dependency graph. edges are stored as addresses and resolved through
// the owning DependencyGraph.
type Cell struct {
	Address  Address
	Value    int64  // cached result, 0 until first evaluated
	Contents string // raw text last installed, empty for never-set cells

	expr         ASTNode
	dependencies sets.Set[Address] // cells this cell depends on
	dependents   sets.Set[Address] // cells that depend on this cell
}

func newCell(addr Address) *Cell {
	return &Cell{
		Address:      addr,
		expr:         zeroExpression(),
		dependencies: sets.New[Address](),
		dependents:   sets.New[Address](),
	}
}

// Expression returns the installed expression
func (c *Cell) Expression() ASTNode {
	return c.expr
}

// Dependencies returns the addresses this cell reads, sorted row-major
func (c *Cell) Dependencies() []Address {
	return sortedAddresses(c.dependencies)
}

// Dependents returns the addresses that read this cell, sorted row-major
func (c *Cell) Dependents() []Address {
	return sortedAddresses(c.dependents)
}

// HasDependent reports whether addr reads this cell
func (c *Cell) HasDependent(addr Address) bool {
	return c.dependents.Has(addr)
}

// HasDependency reports whether this cell reads addr
func (c *Cell) HasDependency(addr Address) bool {
	return c.dependencies.Has(addr)
}

// evaluate runs the expression against r and returns the new value without
// storing it
func (c *Cell) evaluate(r ValueResolver) (int64, error) {
	return c.expr.Eval(r)
}

func sortedAddresses(s sets.Set[Address]) []Address {
	result := s.UnsortedList()
	slices.SortFunc(result, Address.Compare)
	return result
}
