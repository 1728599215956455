// Package mesh holds the per-rank view of a block-structured AMR mesh: block
// index descriptors, refinement levels, neighbor tables and the edge-centered
// field arrays exchanged at block boundaries.
package mesh

import "github.com/notargets/goamr/utils"

// Indcs holds the interior index bounds of every block in a pack, plus the
// bounds of the next-coarser representation used during restriction. Ghost
// cells are carried only on active (extent > 1) dimensions; degenerate axes
// collapse to a single index at 0.
type Indcs struct {
	Ng            int // ghost cells on active dimensions
	Nx1, Nx2, Nx3 int // interior cells per block

	Is, Ie, Js, Je, Ks, Ke int // interior bounds, inclusive

	// bounds of the block restricted to the next-coarser level
	Cis, Cie, Cjs, Cje, Cks, Cke int

	OneD, TwoD, ThreeD bool
}

func NewIndcs(nx1, nx2, nx3, ng int) (x Indcs) {
	if nx1 < 2 || nx1%2 != 0 {
		panic("nx1 must be even and at least 2 for 2:1 restriction")
	}
	if (nx2 > 1 && nx2%2 != 0) || (nx3 > 1 && nx3%2 != 0) {
		panic("active nx2/nx3 must be even for 2:1 restriction")
	}
	if nx3 > 1 && nx2 == 1 {
		panic("nx3 > 1 requires nx2 > 1")
	}
	x = Indcs{Ng: ng, Nx1: nx1, Nx2: nx2, Nx3: nx3}
	x.OneD = nx2 == 1 && nx3 == 1
	x.TwoD = nx2 > 1 && nx3 == 1
	x.ThreeD = nx3 > 1

	x.Is, x.Ie = ng, ng+nx1-1
	x.Cis, x.Cie = ng, ng+nx1/2-1
	if nx2 > 1 {
		x.Js, x.Je = ng, ng+nx2-1
		x.Cjs, x.Cje = ng, ng+nx2/2-1
	}
	if nx3 > 1 {
		x.Ks, x.Ke = ng, ng+nx3-1
		x.Cks, x.Cke = ng, ng+nx3/2-1
	}
	return
}

// cell and face extents per axis, including ghosts; degenerate axes are 1
func (x Indcs) extents1() (nc, nf int) { return x.Nx1 + 2*x.Ng, x.Nx1 + 2*x.Ng + 1 }

func (x Indcs) extents2() (nc, nf int) {
	if x.Nx2 == 1 {
		return 1, 1
	}
	return x.Nx2 + 2*x.Ng, x.Nx2 + 2*x.Ng + 1
}

func (x Indcs) extents3() (nc, nf int) {
	if x.Nx3 == 1 {
		return 1, 1
	}
	return x.Nx3 + 2*x.Ng, x.Nx3 + 2*x.Ng + 1
}

// EdgeField holds the three edge-centered flux components for all blocks in a
// pack. X1E is centered on edges parallel to x1 (i cell centers, j/k faces),
// and cyclically for X2E and X3E.
type EdgeField struct {
	X1E, X2E, X3E utils.Field4D
}

func NewEdgeField(nmb int, x Indcs) (e EdgeField) {
	var (
		n1c, n1f = x.extents1()
		n2c, n2f = x.extents2()
		n3c, n3f = x.extents3()
	)
	e.X1E = utils.NewField4D(nmb, n3f, n2f, n1c)
	e.X2E = utils.NewField4D(nmb, n3f, n2c, n1f)
	e.X3E = utils.NewField4D(nmb, n3c, n2f, n1f)
	return
}

// Component selects an edge component by index: 0 = X1E, 1 = X2E, 2 = X3E.
func (e EdgeField) Component(v int) utils.Field4D {
	switch v {
	case 0:
		return e.X1E
	case 1:
		return e.X2E
	case 2:
		return e.X3E
	}
	panic("edge component index out of range")
}
