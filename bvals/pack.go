package bvals

import (
	"sync"

	"github.com/notargets/goamr/mesh"
	"github.com/notargets/goamr/transport"
)

// PackAndSendFlux restricts this pack's edge fluxes at every fine-to-coarse
// boundary and routes them toward the coarse neighbor: a direct deposit into
// the destination block's receive buffer when both blocks live on this rank,
// or a deposit into the send buffer followed by an asynchronous send.
// Correction only flows fine to coarse, so nothing is packed for neighbors at
// the same or a finer level.
func (bv *BoundaryValuesFC) PackAndSendFlux(flx mesh.EdgeField) TaskStatus {
	var (
		bp = bv.pack
		wg = sync.WaitGroup{}
	)
	// Restrict and deposit in parallel across blocks. Each (block, slot,
	// component) unit writes a disjoint buffer region, so no locking.
	for m := 0; m < bp.Nmb; m++ {
		wg.Add(1)
		go func(m int) {
			defer wg.Done()
			for n := 0; n < mesh.MaxNeighbors; n++ {
				nb := bp.Nghbr[m][n]
				if !nb.Exists() || nb.Lev >= bp.Levels[m] {
					continue
				}
				sb := bv.Send[n]
				for v := 0; v < 3; v++ {
					r := sb.Ranges[v]
					if r.Size() == 0 {
						continue
					}
					var dst []float64
					if nb.Rank == bv.cfg.Rank {
						// same-rank fast path, bypassing the transport
						dm := bp.LocalID(nb.GID)
						dst = bv.Recv[nb.Dest].Comp(dm, v)
					} else {
						dst = sb.Comp(m, v)
					}
					bv.restrictTo(dst, flx, m, v, r)
				}
			}
		}(m)
	}
	wg.Wait()

	// Issue the sends. Local deposits are already in place, so their only
	// side effect here is flipping the destination's completion status.
	noErrors := true
	for m := 0; m < bp.Nmb; m++ {
		for n := 0; n < mesh.MaxNeighbors; n++ {
			nb := bp.Nghbr[m][n]
			if !nb.Exists() || nb.Lev >= bp.Levels[m] {
				continue
			}
			if nb.Rank == bv.cfg.Rank {
				dm := bp.LocalID(nb.GID)
				bv.Recv[nb.Dest].Stat[dm] = CommReceived
			} else {
				// tag is derived from the *receiving* block's local ID and
				// destination buffer slot
				lid := bp.RemoteLocalID(nb.GID, nb.Rank)
				tag := transport.Tag(transport.FluxCorrection, lid, nb.Dest)
				req, err := bv.tr.PostSend(bv.Send[n].Flux(m), nb.Rank, tag)
				if err != nil {
					noErrors = false
					continue
				}
				bv.Send[n].Req[m].Post(req)
			}
		}
	}
	if noErrors {
		return TaskComplete
	}
	return TaskFail
}

// restrictTo averages the fine-level samples covering each coarse sample of
// range r and writes the result into dst using the range's wire layout. A
// coarse edge sample is covered by the two fine edges adjacent along the
// component's own axis; on a degenerate axis the single coincident sample is
// copied directly. Fine indices follow from the 2:1 refinement ratio as
// fine = 2*coarse - coarseStart.
func (bv *BoundaryValuesFC) restrictTo(dst []float64, flx mesh.EdgeField, m, v int, r IndexRange) {
	var (
		x          = bv.pack.Indcs
		f          = flx.Component(v)
		di, dj, dk int
	)
	switch v {
	case 0:
		di = 1
	case 1:
		dj = 1
	case 2:
		dk = 1
	}
	avg := (v == 0 && x.Nx1 > 1) || (v == 1 && x.Nx2 > 1) || (v == 2 && x.Nx3 > 1)
	for k := r.Ks; k <= r.Ke; k++ {
		fk := 2*k - x.Cks
		for j := r.Js; j <= r.Je; j++ {
			fj := 2*j - x.Cjs
			for i := r.Is; i <= r.Ie; i++ {
				fi := 2*i - x.Cis
				var rflx float64
				if avg {
					rflx = 0.5 * (f.At(m, fk, fj, fi) + f.At(m, fk+dk, fj+dj, fi+di))
				} else {
					rflx = f.At(m, fk, fj, fi)
				}
				dst[r.Offset(i, j, k)] = rflx
			}
		}
	}
}
