package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(nBlocks, np int) (histo map[int]int) {
		pm := NewPartitionMap(np, nBlocks)
		histo = make(map[int]int)
		for n := 0; n < pm.ParallelDegree; n++ {
			histo[pm.GetBucketDimension(n)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 287, getTotal(getHisto(287, 32)))
	for n := 64; n < 2048; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}

	// global <-> local round trip lands in the right bucket
	pm := NewPartitionMap(4, 10)
	for gid := 0; gid < 10; gid++ {
		lid, nBlocks, bn := pm.GetLocalID(gid)
		assert.True(t, lid >= 0 && lid < nBlocks)
		assert.Equal(t, gid, pm.GetGlobalID(lid, bn))
	}
}

func TestField4D(t *testing.T) {
	f := NewField4D(2, 3, 4, 5)
	assert.Equal(t, 2*3*4*5, len(f.Data()))

	// i is the fastest index, m the slowest
	assert.Equal(t, 0, f.Index(0, 0, 0, 0))
	assert.Equal(t, 1, f.Index(0, 0, 0, 1))
	assert.Equal(t, 5, f.Index(0, 0, 1, 0))
	assert.Equal(t, 20, f.Index(0, 1, 0, 0))
	assert.Equal(t, 60, f.Index(1, 0, 0, 0))

	f.Set(1, 2, 3, 4, 42.0)
	assert.Equal(t, 42.0, f.At(1, 2, 3, 4))
	assert.Equal(t, 42.0, f.BlockData(1)[f.Index(1, 2, 3, 4)-60])

	f.Fill(7.0)
	for _, v := range f.Data() {
		assert.Equal(t, 7.0, v)
	}
}
