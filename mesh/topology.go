package mesh

import "github.com/notargets/goamr/utils"

// BuildRefinedPairs constructs a synthetic two-level topology of npairs
// fine/coarse block pairs and distributes the blocks over np ranks. In each
// pair the fine block (even gid, level 1) abuts the coarse block (odd gid,
// level 0) on its outer x1-face, covering quadrant (0,0) of the coarse face.
// Pairs that straddle a rank boundary exercise the remote exchange path.
func BuildRefinedPairs(npairs int, x Indcs, np int) (packs []*BlockPack) {
	var (
		nBlocks = 2 * npairs
		pm      = utils.NewPartitionMap(np, nBlocks)
		gidBase = make([]int, np)
	)
	if np > nBlocks {
		panic("more ranks than blocks")
	}
	for r := 0; r < np; r++ {
		gidBase[r], _ = pm.GetBucketRange(r)
	}
	rankOf := func(gid int) (r int) {
		r, _, _ = pm.GetBucket(gid)
		return
	}
	packs = make([]*BlockPack, np)
	for r := 0; r < np; r++ {
		var (
			gMin, gMax = pm.GetBucketRange(r)
			bp         = NewBlockPack(r, gMax-gMin, gMin, gidBase, x)
		)
		for gid := gMin; gid < gMax; gid++ {
			m := bp.LocalID(gid)
			if gid%2 == 0 { // fine block, coarser neighbor behind its outer x1-face
				bp.Levels[m] = 1
				bp.Nghbr[m][SlotX1Face(1, 0)] = NeighborBlock{
					GID:  gid + 1,
					Lev:  0,
					Rank: rankOf(gid + 1),
					Dest: SlotX1Face(0, 0),
				}
			} else { // coarse block, finer neighbor on its inner x1-face
				bp.Levels[m] = 0
				bp.Nghbr[m][SlotX1Face(0, 0)] = NeighborBlock{
					GID:  gid - 1,
					Lev:  1,
					Rank: rankOf(gid - 1),
					Dest: SlotX1Face(1, 0),
				}
			}
		}
		packs[r] = bp
	}
	return
}
