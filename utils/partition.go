package utils

// PartitionMap distributes a contiguous range of global block IDs across a
// set of ranks. Buckets are contiguous with a maximum imbalance of one block,
// so a block's owning rank is recoverable from its global ID alone.
type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree buckets
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// GetBucket returns the bucket holding global ID gid and its [min,max) range.
func (pm *PartitionMap) GetBucket(gid int) (bucketNum, min, max int) {
	// Initial guess, then walk toward the containing bucket
	bucketNum = int(float64(pm.ParallelDegree*gid) / float64(pm.MaxIndex))
	for !(pm.Partitions[bucketNum][0] <= gid && pm.Partitions[bucketNum][1] > gid) {
		if pm.Partitions[bucketNum][0] > gid {
			bucketNum--
		} else {
			bucketNum++
		}
		if bucketNum == -1 || bucketNum == pm.ParallelDegree {
			return -1, 0, 0
		}
	}
	min, max = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (gidMin, gidMax int) {
	gidMin, gidMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (nBlocks int) {
	if bn == -1 {
		nBlocks = pm.MaxIndex
		return
	}
	var (
		g1, g2 = pm.GetBucketRange(bn)
	)
	nBlocks = g2 - g1
	return
}

// GetLocalID converts a global block ID into (local ID, bucket size, bucket).
func (pm *PartitionMap) GetLocalID(gid int) (lid, nBlocks, bn int) {
	var (
		gMin, gMax int
	)
	bn, gMin, gMax = pm.GetBucket(gid)
	nBlocks = gMax - gMin
	lid = gid - gMin
	return
}

func (pm *PartitionMap) GetGlobalID(lid, bn int) (gid int) {
	if bn == -1 {
		gid = lid
		return
	}
	var (
		gMin = pm.Partitions[bn][0]
	)
	gid = gMin + lid
	return
}

func (pm *PartitionMap) Split1D(bucketNum int) (bucket [2]int) {
	// Splits one dimension into ParallelDegree pieces with a maximum imbalance
	// of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if bucketNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = bucketNum
			endAdd = 1
		}
	}
	bucket[0] = bucketNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}
