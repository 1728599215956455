package bvals

import (
	"fmt"

	"github.com/notargets/goamr/mesh"
)

// DirKind classifies a neighbor slot by interface type. Faces are 2D
// interfaces orthogonal to one axis; edges are 1D interfaces along one axis.
type DirKind int

const (
	X1Face DirKind = iota
	X2Face
	X3Face
	X1X2Edge
	X3X1Edge
	X2X3Edge
)

func (k DirKind) String() string {
	switch k {
	case X1Face:
		return "x1face"
	case X2Face:
		return "x2face"
	case X3Face:
		return "x3face"
	case X1X2Edge:
		return "x1x2edge"
	case X3X1Edge:
		return "x3x1edge"
	case X2X3Edge:
		return "x2x3edge"
	}
	return "unknown"
}

// Direction is the decoded classification of one neighbor-table slot. Side1
// and Side2 give the low/high position on the fixed axes (faces fix one axis,
// edges two). F1/F2 select which quadrant (faces) or half (edges) of the
// interface a finer neighbor covers, used only on the receiving side.
type Direction struct {
	Kind   DirKind
	Slot   int
	Side1  int
	Side2  int
	F1, F2 int
}

// Inert reports whether the direction's restriction path is deliberately
// inactive. The x3x1 and x2x3 edge paths never arise in the supported
// refinement topologies; their buffers exchange but carry no payload.
func (d Direction) Inert() bool {
	return d.Kind == X3X1Edge || d.Kind == X2X3Edge
}

// Classify decodes a neighbor-table slot. Total over all 48 slots.
func Classify(slot int) (d Direction) {
	d.Slot = slot
	switch {
	case slot < 0 || slot >= mesh.MaxNeighbors:
		panic(fmt.Sprintf("neighbor slot %d out of range [0,%d)", slot, mesh.MaxNeighbors))
	case slot < 8:
		d.Kind = X1Face
		d.Side1 = slot / 4
		q := slot % 4
		d.F1, d.F2 = q%2, q/2
	case slot < 16:
		d.Kind = X2Face
		d.Side1 = (slot - 8) / 4
		q := (slot - 8) % 4
		d.F1, d.F2 = q%2, q/2
	case slot < 24:
		d.Kind = X1X2Edge
		e := (slot - 16) / 2
		d.Side1, d.Side2 = e%2, e/2
		d.F1 = (slot - 16) % 2
	case slot < 32:
		d.Kind = X3Face
		d.Side1 = (slot - 24) / 4
		q := (slot - 24) % 4
		d.F1, d.F2 = q%2, q/2
	case slot < 40:
		d.Kind = X3X1Edge
		e := (slot - 32) / 2
		d.Side1, d.Side2 = e%2, e/2
		d.F1 = (slot - 32) % 2
	default:
		d.Kind = X2X3Edge
		e := (slot - 40) / 2
		d.Side1, d.Side2 = e%2, e/2
		d.F1 = (slot - 40) % 2
	}
	return
}

// IndexRange holds inclusive index bounds on the three axes. A null range
// (high bound below low) marks a component that does not participate.
type IndexRange struct {
	Is, Ie, Js, Je, Ks, Ke int
}

var nullRange = IndexRange{Ie: -1, Je: -1, Ke: -1}

func (r IndexRange) Ni() int { return r.Ie - r.Is + 1 }
func (r IndexRange) Nj() int { return r.Je - r.Js + 1 }
func (r IndexRange) Nk() int { return r.Ke - r.Ks + 1 }

func (r IndexRange) Size() int {
	if r.Ie < r.Is || r.Je < r.Js || r.Ke < r.Ks {
		return 0
	}
	return r.Ni() * r.Nj() * r.Nk()
}

// Offset flattens (i,j,k) within the range, i fastest. This is the linear
// wire layout of the exchange buffers.
func (r IndexRange) Offset(i, j, k int) int {
	return (i - r.Is) + r.Ni()*((j-r.Js)+r.Nj()*(k-r.Ks))
}

// SendRanges returns, per component, the coarse-representation index ranges a
// fine block restricts into when sending across this direction. Only
// components tangential to the interface participate; an edge component
// normal to a face lies in the interface plane and is already double-valued
// there. Inert directions return null ranges throughout.
func (d Direction) SendRanges(x mesh.Indcs) (r [3]IndexRange) {
	r = [3]IndexRange{nullRange, nullRange, nullRange}
	var (
		c1lo, c1hi = x.Cis, x.Cie
		c2lo, c2hi = x.Cjs, x.Cje
		c3lo, c3hi = x.Cks, x.Cke
		f1hi       = x.Cie + 1
		f2hi, f3hi = c2hi, c3hi
	)
	if x.Nx2 > 1 {
		f2hi = x.Cje + 1
	}
	if x.Nx3 > 1 {
		f3hi = x.Cke + 1
	}
	pick := func(side, clo, fhi int) int {
		if side == 0 {
			return clo
		}
		return fhi
	}
	switch d.Kind {
	case X1Face:
		fi := pick(d.Side1, c1lo, f1hi)
		r[1] = IndexRange{fi, fi, c2lo, c2hi, c3lo, f3hi}
		r[2] = IndexRange{fi, fi, c2lo, f2hi, c3lo, c3hi}
	case X2Face:
		fj := pick(d.Side1, c2lo, f2hi)
		r[0] = IndexRange{c1lo, c1hi, fj, fj, c3lo, f3hi}
		r[2] = IndexRange{c1lo, f1hi, fj, fj, c3lo, c3hi}
	case X3Face:
		fk := pick(d.Side1, c3lo, f3hi)
		r[0] = IndexRange{c1lo, c1hi, c2lo, f2hi, fk, fk}
		r[1] = IndexRange{c1lo, f1hi, c2lo, c2hi, fk, fk}
	case X1X2Edge:
		fi := pick(d.Side1, c1lo, f1hi)
		fj := pick(d.Side2, c2lo, f2hi)
		r[2] = IndexRange{fi, fi, fj, fj, c3lo, c3hi}
	case X3X1Edge, X2X3Edge:
		// inert, see Direction.Inert
	}
	return
}

// RecvRanges returns, per component, the regular-mesh index ranges on the
// coarse receiver where a finer neighbor's restricted data lands. F1/F2
// select the quadrant or half of the interface the sender covers; halves of
// staggered (face-positioned) axes overlap by one shared line.
func (d Direction) RecvRanges(x mesh.Indcs) (r [3]IndexRange) {
	r = [3]IndexRange{nullRange, nullRange, nullRange}
	var (
		n1h, n2h, n3h = x.Nx1 / 2, x.Nx2 / 2, x.Nx3 / 2
	)
	if x.Nx2 == 1 {
		n2h = 0
	}
	if x.Nx3 == 1 {
		n3h = 0
	}
	cellsub := func(lo, nh, f int) (int, int) {
		if nh == 0 {
			return 0, 0
		}
		s := lo + f*nh
		return s, s + nh - 1
	}
	facesub := func(lo, nh, f int) (int, int) {
		if nh == 0 {
			return 0, 0
		}
		s := lo + f*nh
		return s, s + nh
	}
	pick := func(side, lo, hi int) int {
		if side == 0 {
			return lo
		}
		return hi + 1
	}
	switch d.Kind {
	case X1Face:
		fi := pick(d.Side1, x.Is, x.Ie)
		j1s, j1e := cellsub(x.Js, n2h, d.F1)
		k1s, k1e := facesub(x.Ks, n3h, d.F2)
		r[1] = IndexRange{fi, fi, j1s, j1e, k1s, k1e}
		j2s, j2e := facesub(x.Js, n2h, d.F1)
		k2s, k2e := cellsub(x.Ks, n3h, d.F2)
		r[2] = IndexRange{fi, fi, j2s, j2e, k2s, k2e}
	case X2Face:
		fj := pick(d.Side1, x.Js, x.Je)
		i0s, i0e := cellsub(x.Is, n1h, d.F1)
		k0s, k0e := facesub(x.Ks, n3h, d.F2)
		r[0] = IndexRange{i0s, i0e, fj, fj, k0s, k0e}
		i2s, i2e := facesub(x.Is, n1h, d.F1)
		k2s, k2e := cellsub(x.Ks, n3h, d.F2)
		r[2] = IndexRange{i2s, i2e, fj, fj, k2s, k2e}
	case X3Face:
		fk := pick(d.Side1, x.Ks, x.Ke)
		i0s, i0e := cellsub(x.Is, n1h, d.F1)
		j0s, j0e := facesub(x.Js, n2h, d.F2)
		r[0] = IndexRange{i0s, i0e, j0s, j0e, fk, fk}
		i1s, i1e := facesub(x.Is, n1h, d.F1)
		j1s, j1e := cellsub(x.Js, n2h, d.F2)
		r[1] = IndexRange{i1s, i1e, j1s, j1e, fk, fk}
	case X1X2Edge:
		fi := pick(d.Side1, x.Is, x.Ie)
		fj := pick(d.Side2, x.Js, x.Je)
		ks, ke := cellsub(x.Ks, n3h, d.F1)
		r[2] = IndexRange{fi, fi, fj, fj, ks, ke}
	case X3X1Edge, X2X3Edge:
		// inert, see Direction.Inert
	}
	return
}
