package bvals

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goamr/mesh"
	"github.com/notargets/goamr/transport"
)

func TestPhaseStateMachine(t *testing.T) {
	var (
		x       = mesh.NewIndcs(4, 4, 1, 2)
		bv, flx = newLocalPair(x)
	)
	assert.Equal(t, Idle, bv.State())

	require.Equal(t, TaskComplete, bv.BeginExchange(flx))
	assert.Equal(t, Sent, bv.State())

	// a phase cannot be reopened while in flight
	assert.Panics(t, func() { bv.BeginExchange(flx) })

	require.Equal(t, TaskComplete, bv.TryComplete(flx))
	assert.Equal(t, Idle, bv.State())

	// polling a closed phase reports complete and leaves field data alone
	after := make([]float64, len(flx.X2E.Data()))
	copy(after, flx.X2E.Data())
	assert.Equal(t, TaskComplete, bv.TryComplete(flx))
	assert.Equal(t, after, flx.X2E.Data())
}

func TestRepeatedPhasesReuseBuffers(t *testing.T) {
	var (
		x       = mesh.NewIndcs(4, 4, 1, 2)
		bv, flx = newLocalPair(x)
	)
	for cycle := 1; cycle <= 3; cycle++ {
		for j := 2; j <= 5; j++ {
			flx.X2E.Set(0, 0, j, 6, float64(cycle)*float64(j-1))
		}
		runCycle(t, bv, flx)
		assert.Equal(t, float64(cycle)*1.5, flx.X2E.At(1, 0, 2, x.Is))
		assert.Equal(t, float64(cycle)*3.5, flx.X2E.At(1, 0, 3, x.Is))
	}
}

func TestRemoteExchange(t *testing.T) {
	// one pair split over two ranks: the fine block on rank 0, the coarse
	// block on rank 1, exchanging through the in-process cluster
	var (
		x     = mesh.NewIndcs(4, 4, 1, 2)
		packs = mesh.BuildRefinedPairs(1, x, 2)
		cl    = transport.NewCluster(2)

		bvF = NewBoundaryValuesFC(Config{Rank: 0, NRanks: 2}, packs[0], cl.Endpoint(0))
		bvC = NewBoundaryValuesFC(Config{Rank: 1, NRanks: 2}, packs[1], cl.Endpoint(1))

		flxF = mesh.NewEdgeField(1, x)
		flxC = mesh.NewEdgeField(1, x)
	)
	for j := 2; j <= 5; j++ {
		flxF.X2E.Set(0, 0, j, 6, float64(j-1))
	}

	// the receiver opens first and must poll incomplete until the sender runs
	require.Equal(t, TaskComplete, bvC.BeginExchange(flxC))
	assert.Equal(t, TaskIncomplete, bvC.TryComplete(flxC))
	assert.Equal(t, Draining, bvC.State())

	require.Equal(t, TaskComplete, bvF.BeginExchange(flxF))
	require.Equal(t, TaskComplete, bvF.TryComplete(flxF))

	for i := 0; bvC.TryComplete(flxC) != TaskComplete; i++ {
		require.Less(t, i, 1000, "remote exchange did not complete")
	}
	assert.Equal(t, Idle, bvC.State())
	assert.Equal(t, 1.5, flxC.X2E.At(0, 0, 2, x.Is))
	assert.Equal(t, 3.5, flxC.X2E.At(0, 0, 3, x.Is))
	// the sender's own field is never written by the exchange
	assert.Equal(t, 0.0, flxF.X2E.At(0, 0, 2, x.Is))
}

func TestSenderRunsAheadOfReceiver(t *testing.T) {
	// no inter-rank phase synchronization: the fine rank completes several
	// whole phases before the coarse rank polls even once, and the queued
	// payloads arrive one per phase in send order
	var (
		x     = mesh.NewIndcs(4, 4, 1, 2)
		packs = mesh.BuildRefinedPairs(1, x, 2)
		cl    = transport.NewCluster(2)

		bvF = NewBoundaryValuesFC(Config{Rank: 0, NRanks: 2}, packs[0], cl.Endpoint(0))
		bvC = NewBoundaryValuesFC(Config{Rank: 1, NRanks: 2}, packs[1], cl.Endpoint(1))

		flxF = mesh.NewEdgeField(1, x)
		flxC = mesh.NewEdgeField(1, x)
	)
	for cycle := 1; cycle <= 3; cycle++ {
		for j := 0; j < x.Nx2+2*x.Ng; j++ {
			flxF.X2E.Set(0, 0, j, 6, float64(cycle))
		}
		require.Equal(t, TaskComplete, bvF.BeginExchange(flxF))
		require.Equal(t, TaskComplete, bvF.TryComplete(flxF))
	}
	for cycle := 1; cycle <= 3; cycle++ {
		require.Equal(t, TaskComplete, bvC.BeginExchange(flxC))
		for i := 0; bvC.TryComplete(flxC) != TaskComplete; i++ {
			require.Less(t, i, 1000, "exchange did not complete")
		}
		assert.Equal(t, float64(cycle), flxC.X2E.At(0, 0, 2, x.Is), "cycle %d", cycle)
	}
}

func TestFailedPhaseAbortsToIdle(t *testing.T) {
	// a neighbor on an unreachable rank forces the send post to fail; the
	// phase must abort back to Idle with every request slot released
	var (
		x  = mesh.NewIndcs(4, 4, 1, 2)
		bp = mesh.NewBlockPack(0, 1, 0, []int{0, 1}, x)
	)
	bp.Levels[0] = 1
	bp.Nghbr[0][mesh.SlotX1Face(1, 0)] = mesh.NeighborBlock{GID: 1, Lev: 0, Rank: 1, Dest: mesh.SlotX1Face(0, 0)}

	var (
		bv  = NewBoundaryValuesFC(Config{Rank: 0, NRanks: 1}, bp, newTestTransport(1))
		flx = mesh.NewEdgeField(1, x)
	)
	require.Equal(t, TaskFail, bv.BeginExchange(flx))
	assert.Equal(t, Idle, bv.State())

	// reopening is legal after the abort and fails the same way, not a panic
	require.Equal(t, TaskFail, bv.BeginExchange(flx))
	assert.Equal(t, Idle, bv.State())
	assert.Equal(t, TaskComplete, bv.TryComplete(flx))
}

func TestConcurrentMixedExchange(t *testing.T) {
	// three pairs over two ranks: pairs (0,1) and (4,5) are rank-local, pair
	// (2,3) straddles the rank boundary. Each rank polls on its own goroutine.
	var (
		x      = mesh.NewIndcs(4, 4, 1, 2)
		np     = 2
		packs  = mesh.BuildRefinedPairs(3, x, np)
		cl     = transport.NewCluster(np)
		fields = make([]mesh.EdgeField, np)
		wg     = sync.WaitGroup{}
	)
	for r := 0; r < np; r++ {
		bp := packs[r]
		fields[r] = mesh.NewEdgeField(bp.Nmb, x)
		for m := 0; m < bp.Nmb; m++ {
			if bp.Levels[m] != 1 {
				continue
			}
			// j-uniform interface values survive the pair average intact,
			// tagged by the fine block's global id
			val := float64(bp.GidStart+m) + 0.5
			for j := 0; j < x.Nx2+2*x.Ng; j++ {
				fields[r].X2E.Set(m, 0, j, 6, val)
			}
		}
	}
	for r := 0; r < np; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			bv := NewBoundaryValuesFC(Config{Rank: r, NRanks: np}, packs[r], cl.Endpoint(r))
			for cycle := 0; cycle < 3; cycle++ {
				assert.Equal(t, TaskComplete, bv.BeginExchange(fields[r]))
				for bv.TryComplete(fields[r]) != TaskComplete {
					runtime.Gosched()
				}
			}
		}(r)
	}
	wg.Wait()

	for r := 0; r < np; r++ {
		bp := packs[r]
		for m := 0; m < bp.Nmb; m++ {
			if bp.Levels[m] != 0 {
				continue
			}
			fineGid := bp.GidStart + m - 1
			want := float64(fineGid) + 0.5
			for j := 2; j <= 3; j++ {
				assert.Equal(t, want, fields[r].X2E.At(m, 0, j, x.Is),
					"coarse block %d", bp.GidStart+m)
			}
		}
	}
}
