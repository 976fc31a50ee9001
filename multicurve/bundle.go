package multicurve

import (
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/market"
	"gonum.org/v1/gonum/mat"
)

// Block is the row range of one curve's nodes.
type Block struct {
	Offset int
	Count  int
}

// BuildingBlock maps curve names to row ranges, in insertion order.
type BuildingBlock struct {
	names  []string
	blocks map[string]Block
}

func (b *BuildingBlock) add(name string, blk Block) {
	if b.blocks == nil {
		b.blocks = make(map[string]Block)
	}
	b.names = append(b.names, name)
	b.blocks[name] = blk
}

// Block returns the row range of name.
func (b BuildingBlock) Block(name string) (Block, bool) {
	blk, ok := b.blocks[name]
	return blk, ok
}

// Names returns the curve names in row order.
func (b BuildingBlock) Names() []string {
	return append([]string(nil), b.names...)
}

// Size is the total number of rows.
func (b BuildingBlock) Size() int {
	n := 0
	for _, blk := range b.blocks {
		n += blk.Count
	}
	return n
}

// Unit is the building block of one curve and the Jacobian of its nodes with respect to its
// quotes.
type Unit struct {
	Block    BuildingBlock
	Jacobian *mat.Dense
}

// Bundle holds the curves of one configuration. It is not modified after Assemble returns.
type Bundle struct {
	discounting map[market.Currency]curve.Curve
	ibor        map[string]curve.Curve
	overnight   map[string]curve.Curve
	curves      map[string]curve.Curve
	roles       map[string][]Role
	block       BuildingBlock
	units       map[string]Unit
}

func newBundle() *Bundle {
	return &Bundle{
		discounting: make(map[market.Currency]curve.Curve),
		ibor:        make(map[string]curve.Curve),
		overnight:   make(map[string]curve.Curve),
		curves:      make(map[string]curve.Curve),
		roles:       make(map[string][]Role),
		units:       make(map[string]Unit),
	}
}

func (b *Bundle) setRoles(c curve.Curve, roles []Role) {
	for _, r := range roles {
		switch r := r.(type) {
		case Discounting:
			b.discounting[r.Currency] = c
		case IborForward:
			b.ibor[r.Index.Name] = c
		case OvernightForward:
			b.overnight[r.Index.Name] = c
		}
	}
}

// merge copies the curves of dep without giving them Jacobian rows.
func (b *Bundle) merge(dep *Bundle) {
	for k, c := range dep.discounting {
		b.discounting[k] = c
	}
	for k, c := range dep.ibor {
		b.ibor[k] = c
	}
	for k, c := range dep.overnight {
		b.overnight[k] = c
	}
	for k, c := range dep.curves {
		b.curves[k] = c
		b.roles[k] = dep.roles[k]
	}
}

func (b *Bundle) add(def CurveDefinition, c curve.Curve, offset int) {
	n := c.NodeCount()
	b.curves[def.Name] = c
	b.roles[def.Name] = append([]Role(nil), def.Roles...)
	b.setRoles(c, def.Roles)

	blk := Block{Offset: offset, Count: n}
	b.block.add(def.Name, blk)

	var unit BuildingBlock
	unit.add(def.Name, blk)
	jac := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		jac.Set(i, i, 1)
	}
	b.units[def.Name] = Unit{Block: unit, Jacobian: jac}
}

// DiscountCurve returns the discount curve of ccy.
func (b *Bundle) DiscountCurve(ccy market.Currency) (curve.Curve, bool) {
	c, ok := b.discounting[ccy]
	return c, ok
}

// IborCurve returns the projection curve of index.
func (b *Bundle) IborCurve(index market.IborIndex) (curve.Curve, bool) {
	c, ok := b.ibor[index.Name]
	return c, ok
}

// OvernightCurve returns the projection curve of index.
func (b *Bundle) OvernightCurve(index market.OvernightIndex) (curve.Curve, bool) {
	c, ok := b.overnight[index.Name]
	return c, ok
}

// Curve returns a curve by name, including curves taken from dependent bundles.
func (b *Bundle) Curve(name string) (curve.Curve, bool) {
	c, ok := b.curves[name]
	return c, ok
}

// Roles returns the roles name was assembled with.
func (b *Bundle) Roles(name string) []Role {
	return append([]Role(nil), b.roles[name]...)
}

// CurveNames returns the curves built in this bundle, in row order.
func (b *Bundle) CurveNames() []string {
	return b.block.Names()
}

// BuildingBlock returns the row ranges of every curve built in this bundle.
func (b *Bundle) BuildingBlock() BuildingBlock {
	return b.block
}

// Unit returns the building block and Jacobian of one curve.
func (b *Bundle) Unit(name string) (Unit, bool) {
	u, ok := b.units[name]
	return u, ok
}

// FullJacobian returns the block-diagonal Jacobian of the bundle, or nil for a bundle without
// rows.
func (b *Bundle) FullJacobian() *mat.Dense {
	size := b.block.Size()
	if size == 0 {
		return nil
	}
	full := mat.NewDense(size, size, nil)
	for _, name := range b.block.names {
		blk := b.block.blocks[name]
		view := full.Slice(blk.Offset, blk.Offset+blk.Count, blk.Offset, blk.Offset+blk.Count).(*mat.Dense)
		view.Copy(b.units[name].Jacobian)
	}
	return full
}
