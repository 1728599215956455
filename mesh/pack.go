package mesh

// BlockPack is the per-rank view of the mesh: a contiguous run of global
// block IDs, their refinement levels, and the neighbor table for every block.
// Block array index m equals (gid - GidStart) because IDs are assigned
// sequentially within a rank.
type BlockPack struct {
	Rank     int
	Nmb      int
	GidStart int   // global ID of the first block in this pack
	GidBase  []int // first global ID on every rank, indexed by rank
	Levels   []int
	Nghbr    [][MaxNeighbors]NeighborBlock
	Indcs    Indcs
}

func NewBlockPack(rank, nmb, gidStart int, gidBase []int, x Indcs) (bp *BlockPack) {
	bp = &BlockPack{
		Rank:     rank,
		Nmb:      nmb,
		GidStart: gidStart,
		GidBase:  gidBase,
		Levels:   make([]int, nmb),
		Nghbr:    make([][MaxNeighbors]NeighborBlock, nmb),
		Indcs:    x,
	}
	for m := 0; m < nmb; m++ {
		bp.Nghbr[m] = EmptyNeighbors()
	}
	return
}

// LocalID converts the global ID of a block in this pack to its array index.
func (bp *BlockPack) LocalID(gid int) int { return gid - bp.GidStart }

// RemoteLocalID converts a global ID to its array index on the owning rank.
func (bp *BlockPack) RemoteLocalID(gid, rank int) int { return gid - bp.GidBase[rank] }
