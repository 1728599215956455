package bvals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/goamr/mesh"
)

func TestClassify(t *testing.T) {
	// total over all 48 slots
	counts := make(map[DirKind]int)
	for n := 0; n < mesh.MaxNeighbors; n++ {
		counts[Classify(n).Kind]++
	}
	assert.Equal(t, map[DirKind]int{
		X1Face: 8, X2Face: 8, X3Face: 8,
		X1X2Edge: 8, X3X1Edge: 8, X2X3Edge: 8,
	}, counts)
	assert.Panics(t, func() { Classify(48) })
	assert.Panics(t, func() { Classify(-1) })

	// decoded positions
	d := Classify(mesh.SlotX1Face(1, 3))
	assert.Equal(t, X1Face, d.Kind)
	assert.Equal(t, 1, d.Side1)
	assert.Equal(t, 1, d.F1)
	assert.Equal(t, 1, d.F2)

	d = Classify(mesh.SlotX1X2Edge(3, 1))
	assert.Equal(t, X1X2Edge, d.Kind)
	assert.Equal(t, 1, d.Side1)
	assert.Equal(t, 1, d.Side2)
	assert.Equal(t, 1, d.F1)
}

func TestTangentialComponentsOnly(t *testing.T) {
	// a component normal to the interface never participates
	x := mesh.NewIndcs(4, 4, 4, 2)
	for n := 0; n < mesh.MaxNeighbors; n++ {
		var (
			d = Classify(n)
			s = d.SendRanges(x)
		)
		switch d.Kind {
		case X1Face:
			assert.Equal(t, 0, s[0].Size())
			assert.NotEqual(t, 0, s[1].Size())
			assert.NotEqual(t, 0, s[2].Size())
		case X2Face:
			assert.Equal(t, 0, s[1].Size())
		case X3Face:
			assert.Equal(t, 0, s[2].Size())
		case X1X2Edge:
			assert.Equal(t, 0, s[0].Size())
			assert.Equal(t, 0, s[1].Size())
			assert.NotEqual(t, 0, s[2].Size())
		case X3X1Edge, X2X3Edge:
			assert.True(t, d.Inert())
			for v := 0; v < 3; v++ {
				assert.Equal(t, 0, s[v].Size())
			}
		}
	}
}

func TestSendRecvSizesMatch(t *testing.T) {
	// the restricted payload a fine block sends must exactly fill the
	// sub-range its coarse neighbor scatters, in every dimensionality
	for _, x := range []mesh.Indcs{
		mesh.NewIndcs(4, 1, 1, 2),
		mesh.NewIndcs(4, 4, 1, 2),
		mesh.NewIndcs(8, 6, 4, 2),
	} {
		for n := 0; n < mesh.MaxNeighbors; n++ {
			var (
				d = Classify(n)
				s = d.SendRanges(x)
				r = d.RecvRanges(x)
			)
			for v := 0; v < 3; v++ {
				assert.Equal(t, s[v].Size(), r[v].Size(),
					"slot %d (%s) component %d", n, d.Kind, v)
			}
		}
	}
}

func TestSendRangesX1Face(t *testing.T) {
	x := mesh.NewIndcs(4, 4, 4, 2)
	s := Classify(mesh.SlotX1Face(1, 0)).SendRanges(x)
	// x2e: fixed at the outer coarse face column, j cells, k faces
	assert.Equal(t, IndexRange{4, 4, 2, 3, 2, 4}, s[1])
	// x3e: j faces, k cells
	assert.Equal(t, IndexRange{4, 4, 2, 4, 2, 3}, s[2])

	// 1D collapses everything but the fixed face column
	x1 := mesh.NewIndcs(4, 1, 1, 2)
	s1 := Classify(mesh.SlotX1Face(1, 0)).SendRanges(x1)
	assert.Equal(t, IndexRange{4, 4, 0, 0, 0, 0}, s1[1])
	assert.Equal(t, 1, s1[1].Size())
}

func TestRecvRangesQuadrants(t *testing.T) {
	x := mesh.NewIndcs(4, 4, 4, 2)
	// the four quadrants of an inner x1-face tile the coarse face: cell
	// halves are disjoint, staggered halves share one line
	r00 := Classify(mesh.SlotX1Face(0, 0)).RecvRanges(x)
	r10 := Classify(mesh.SlotX1Face(0, 1)).RecvRanges(x)
	r01 := Classify(mesh.SlotX1Face(0, 2)).RecvRanges(x)
	assert.Equal(t, IndexRange{2, 2, 2, 3, 2, 4}, r00[1])
	assert.Equal(t, IndexRange{2, 2, 4, 5, 2, 4}, r10[1]) // j half advances
	assert.Equal(t, IndexRange{2, 2, 2, 3, 4, 6}, r01[1]) // k half shares k=4
	assert.Equal(t, x.Js, r00[1].Js)
	assert.Equal(t, x.Je, r10[1].Je)
	assert.Equal(t, x.Ke+1, r01[1].Ke)

	// outer face sits one past the interior
	rOut := Classify(mesh.SlotX1Face(1, 0)).RecvRanges(x)
	assert.Equal(t, x.Ie+1, rOut[1].Is)
}

func TestOffsetLayout(t *testing.T) {
	r := IndexRange{2, 2, 2, 4, 0, 1}
	// i fastest, then j, then k
	assert.Equal(t, 0, r.Offset(2, 2, 0))
	assert.Equal(t, 1, r.Offset(2, 3, 0))
	assert.Equal(t, 3, r.Offset(2, 2, 1))
	assert.Equal(t, r.Size()-1, r.Offset(2, 4, 1))
}

func TestBufferCapacity(t *testing.T) {
	// capacity covers the largest component sub-range of the direction, and
	// paired send/recv slots agree so wire payloads line up
	var (
		x   = mesh.NewIndcs(4, 4, 1, 2)
		bp  = mesh.NewBlockPack(0, 1, 0, []int{0}, x)
		bv  = NewBoundaryValuesFC(Config{Rank: 0, NRanks: 1}, bp, newTestTransport(1))
		d   = Classify(mesh.SlotX1Face(1, 0))
		s   = d.SendRanges(x)
		max = s[1].Size()
	)
	if s[2].Size() > max {
		max = s[2].Size()
	}
	assert.Equal(t, max, bv.Send[mesh.SlotX1Face(1, 0)].Ndat)
	assert.Equal(t, bv.Send[mesh.SlotX1Face(1, 0)].Ndat, bv.Recv[mesh.SlotX1Face(0, 0)].Ndat)

	// inert directions still carry a minimal region
	assert.Equal(t, 1, bv.Send[mesh.SlotX3X1Edge(0, 0)].Ndat)
}
