package mesh

// MaxNeighbors is the number of neighbor-table slots participating in flux
// correction: faces and edges only, since edge-centered fluxes carry no
// information at block corners.
//
// Slot layout:
//
//	[ 0, 8)  x1-faces  (2 sides x 4 quadrants)
//	[ 8,16)  x2-faces  (2 sides x 4 quadrants)
//	[16,24)  x1x2-edges (4 edges x 2 halves)
//	[24,32)  x3-faces  (2 sides x 4 quadrants)
//	[32,40)  x3x1-edges (4 edges x 2 halves)
//	[40,48)  x2x3-edges (4 edges x 2 halves)
const MaxNeighbors = 48

// NeighborBlock describes one neighbor of a block, as produced by the mesh
// tree layer. This subsystem never mutates neighbor tables.
type NeighborBlock struct {
	GID  int // global ID of the neighbor block; < 0 means no neighbor
	Lev  int // refinement level of the neighbor
	Rank int // owning rank of the neighbor
	Dest int // buffer slot this block's data lands in on the receiving side
}

// Exists reports whether the slot holds a real neighbor.
func (nb NeighborBlock) Exists() bool { return nb.GID >= 0 }

// Slot constructors for the table layout above. side/quad/half select the
// position of the neighbor relative to the block: side 0 is the low side of
// the axis, quadrants and halves index the finer neighbors covering a face
// or edge.

func SlotX1Face(side, quad int) int { return side*4 + quad }

func SlotX2Face(side, quad int) int { return 8 + side*4 + quad }

func SlotX1X2Edge(edge, half int) int { return 16 + edge*2 + half }

func SlotX3Face(side, quad int) int { return 24 + side*4 + quad }

func SlotX3X1Edge(edge, half int) int { return 32 + edge*2 + half }

func SlotX2X3Edge(edge, half int) int { return 40 + edge*2 + half }

// EmptyNeighbors returns a neighbor table with every slot vacant.
func EmptyNeighbors() (nghbr [MaxNeighbors]NeighborBlock) {
	for n := range nghbr {
		nghbr[n] = NeighborBlock{GID: -1}
	}
	return
}
