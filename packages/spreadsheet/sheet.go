package spreadsheet

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Option configures a Sheet
type Option func(*Sheet)

// WithLogger sets the logger used to report recomputations and rejected
// edits. recomputations are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(s *Sheet) {
		s.log = log
	}
}

// Sheet maps addresses to cells and keeps a cached topological order of all
// of them. every edit either fully succeeds or leaves the sheet unchanged.
//
// A Sheet is not safe for concurrent use; callers that share one must
// serialize all calls.
type Sheet struct {
	graph *DependencyGraph
	order []Address // cached topological order of every cell in graph
	log   logr.Logger
}

var _ ValueResolver = (*Sheet)(nil)

// NewSheet creates an empty sheet
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		graph: NewDependencyGraph(),
		order: []Address{},
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetContents installs content at address and recomputes the cell and all
// of its transitive dependents. content is either a formula starting with
// '=' or a bare integer literal.
//
// tokenizer and parser failures are returned before anything changes. a
// cycle or a division by zero during recomputation rolls the edit back:
// expression, edges, cached order and values stay as they were.
func (s *Sheet) SetContents(address string, content string) error {
	addr, err := ParseAddress(address)
	if err != nil {
		return err
	}

	expr, refs, err := ParseFormula(content)
	if err != nil {
		return err
	}

	return s.install(addr, content, expr, refs)
}

// Clear reverts the cell at address to the zero expression with no
// dependencies and recomputes its dependents
func (s *Sheet) Clear(address string) error {
	addr, err := ParseAddress(address)
	if err != nil {
		return err
	}
	return s.install(addr, "", zeroExpression(), sets.New[Address]())
}

// edit records what install changed so it can be undone
type edit struct {
	addr         Address
	prevExpr     ASTNode
	prevContents string
	prevDeps     sets.Set[Address]
	created      []Address
}

func (s *Sheet) install(addr Address, content string, expr ASTNode, refs sets.Set[Address]) error {
	e := &edit{addr: addr}

	cell := s.resolve(addr, e)
	for ref := range refs {
		s.resolve(ref, e)
	}

	e.prevExpr = cell.expr
	e.prevContents = cell.Contents
	e.prevDeps = cell.dependencies.Clone()

	cell.expr = expr
	cell.Contents = content
	s.graph.SetDependencies(addr, refs)

	order, err := s.graph.GetCalculationOrder()
	if err != nil {
		s.rollback(e)
		s.log.Info("rejected edit", "address", addr.String(), "reason", err.Error())
		return err
	}

	values, err := s.recompute(addr, order)
	if err != nil {
		s.rollback(e)
		s.log.Info("rejected edit", "address", addr.String(), "reason", err.Error())
		return err
	}

	s.order = order
	for a, v := range values {
		s.graph.nodes[a].Value = v
	}

	s.log.V(1).Info("recomputed", "address", addr.String(), "cells", len(values))
	return nil
}

// resolve returns the cell at addr, creating it if needed and remembering the
// creation on e
func (s *Sheet) resolve(addr Address, e *edit) *Cell {
	cell, created := s.graph.GetOrCreateNode(addr)
	if created {
		e.created = append(e.created, addr)
	}
	return cell
}

func (s *Sheet) rollback(e *edit) {
	cell := s.graph.nodes[e.addr]
	cell.expr = e.prevExpr
	cell.Contents = e.prevContents
	s.graph.SetDependencies(e.addr, e.prevDeps)

	for i := len(e.created) - 1; i >= 0; i-- {
		s.graph.removeIsolatedNode(e.created[i])
	}
}

// pendingValues resolves references to values computed earlier in the same
// recomputation before falling back to the committed values
type pendingValues struct {
	sheet  *Sheet
	values map[Address]int64
}

func (p *pendingValues) ValueAt(addr Address) int64 {
	if v, ok := p.values[addr]; ok {
		return v
	}
	return p.sheet.ValueAt(addr)
}

// recompute evaluates addr and every cell reachable from it through
// dependents, in order. nothing is stored on the cells.
func (s *Sheet) recompute(addr Address, order []Address) (map[Address]int64, error) {
	affected := s.graph.GetAffectedCells(addr)
	pending := &pendingValues{
		sheet:  s,
		values: make(map[Address]int64, affected.Len()),
	}

	for _, a := range order {
		if !affected.Has(a) {
			continue
		}
		v, err := s.graph.nodes[a].evaluate(pending)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", a, err)
		}
		pending.values[a] = v
	}

	return pending.values, nil
}

// ValueAt returns the cached value of the cell at addr, or 0 if the cell does
// not exist
func (s *Sheet) ValueAt(addr Address) int64 {
	if node, exists := s.graph.GetNode(addr); exists {
		return node.Value
	}
	return 0
}

// GetCell resolves address to its cell, creating an empty one if needed
func (s *Sheet) GetCell(address string) (*Cell, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	return s.getOrCreateCell(addr), nil
}

// getOrCreateCell is the single insertion point for cells created outside an
// edit. a new cell has no edges, so appending it keeps the cached order valid.
func (s *Sheet) getOrCreateCell(addr Address) *Cell {
	cell, created := s.graph.GetOrCreateNode(addr)
	if created {
		s.order = append(s.order, addr)
	}
	return cell
}

// GetVal returns the cached value of the cell at address
func (s *Sheet) GetVal(address string) (int64, error) {
	cell, err := s.GetCell(address)
	if err != nil {
		return 0, err
	}
	return cell.Value, nil
}

// Contents returns the text last installed at address
func (s *Sheet) Contents(address string) (string, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return "", err
	}
	if node, exists := s.graph.GetNode(addr); exists {
		return node.Contents, nil
	}
	return "", nil
}

// Precedents returns the cells address directly reads
func (s *Sheet) Precedents(address string) ([]Address, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if node, exists := s.graph.GetNode(addr); exists {
		return node.Dependencies(), nil
	}
	return nil, nil
}

// Dependents returns the cells that directly read address
func (s *Sheet) Dependents(address string) ([]Address, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if node, exists := s.graph.GetNode(addr); exists {
		return node.Dependents(), nil
	}
	return nil, nil
}

// SortedDependents returns address followed by all of its transitive
// dependents, in the cached topological order
func (s *Sheet) SortedDependents(address string) ([]Address, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if _, exists := s.graph.GetNode(addr); !exists {
		return []Address{addr}, nil
	}

	affected := s.graph.GetAffectedCells(addr)
	result := make([]Address, 0, affected.Len())
	for _, a := range s.order {
		if affected.Has(a) {
			result = append(result, a)
		}
	}
	return result, nil
}

// Addresses returns every cell in the sheet, sorted row-major
func (s *Sheet) Addresses() []Address {
	result := s.graph.Nodes()
	slices.SortFunc(result, Address.Compare)
	return result
}

// Order returns a copy of the cached topological order
func (s *Sheet) Order() []Address {
	return slices.Clone(s.order)
}
