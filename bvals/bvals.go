// Package bvals implements the flux-correction boundary exchange for
// edge-centered flux fields at fine/coarse block boundaries. Fluxes computed
// on a fine block are restricted to the coarse geometry and replace the
// coarse neighbor's values at the shared interface, so conserved quantities
// stay consistent across refinement levels.
package bvals

import (
	"fmt"

	"github.com/notargets/goamr/mesh"
	"github.com/notargets/goamr/transport"
)

// TaskStatus is the tri-state result of a lifecycle operation.
type TaskStatus int

const (
	TaskIncomplete TaskStatus = iota
	TaskComplete
	TaskFail
)

// CommStatus tracks one block's completion state in a receive buffer. It is
// Waiting from the moment a receive is posted and becomes Received exactly
// once, by direct local deposit or confirmed remote arrival.
type CommStatus int

const (
	CommWaiting CommStatus = iota
	CommReceived
)

// Config carries the immutable per-rank execution parameters. It is passed at
// construction; nothing in this package reads ambient global state.
type Config struct {
	Rank   int
	NRanks int
}

// BoundaryValuesFC owns the send/receive buffer pool and the phase state for
// one rank's flux-correction exchange.
type BoundaryValuesFC struct {
	cfg   Config
	pack  *mesh.BlockPack
	tr    transport.Transport
	state PhaseState

	// one buffer per neighbor-table slot, shared across all blocks in the pack
	Send [mesh.MaxNeighbors]*FluxBuffer
	Recv [mesh.MaxNeighbors]*FluxBuffer
}

func NewBoundaryValuesFC(cfg Config, bp *mesh.BlockPack, tr transport.Transport) (bv *BoundaryValuesFC) {
	if bp.Rank != cfg.Rank {
		panic(fmt.Sprintf("block pack belongs to rank %d, config says %d", bp.Rank, cfg.Rank))
	}
	if tr == nil {
		panic("nil transport")
	}
	// a neighbor more than one level away breaks the 2:1 index algebra
	for m := 0; m < bp.Nmb; m++ {
		for n := 0; n < mesh.MaxNeighbors; n++ {
			nb := bp.Nghbr[m][n]
			if !nb.Exists() {
				continue
			}
			if dl := nb.Lev - bp.Levels[m]; dl < -1 || dl > 1 {
				panic(fmt.Sprintf("block %d slot %d: neighbor level %d violates 2:1 refinement against level %d",
					bp.GidStart+m, n, nb.Lev, bp.Levels[m]))
			}
		}
	}
	bv = &BoundaryValuesFC{
		cfg:  cfg,
		pack: bp,
		tr:   tr,
	}
	for n := 0; n < mesh.MaxNeighbors; n++ {
		d := Classify(n)
		bv.Send[n] = newFluxBuffer(d, d.SendRanges(bp.Indcs), bp.Nmb)
		bv.Recv[n] = newFluxBuffer(d, d.RecvRanges(bp.Indcs), bp.Nmb)
	}
	return
}

// State reports the current phase state.
func (bv *BoundaryValuesFC) State() PhaseState { return bv.state }

// FluxBuffer is the exchange buffer for one neighbor direction, shared by all
// blocks in the pack. Each block owns a fixed 3*Ndat payload region, written
// exclusively by one (block, direction, component) unit per phase.
type FluxBuffer struct {
	Dir    Direction
	Ranges [3]IndexRange       // per-component index sub-ranges, inclusive
	Ndat   int                 // capacity of the largest component sub-range
	Data   []float64           // payload, Nmb consecutive regions of 3*Ndat
	Stat   []CommStatus        // per-block completion status
	Req    []transport.ReqSlot // per-block in-flight request slots
}

func newFluxBuffer(d Direction, ranges [3]IndexRange, nmb int) (b *FluxBuffer) {
	ndat := 1 // inert directions still carry a minimal region
	for v := 0; v < 3; v++ {
		if s := ranges[v].Size(); s > ndat {
			ndat = s
		}
	}
	b = &FluxBuffer{
		Dir:    d,
		Ranges: ranges,
		Ndat:   ndat,
		Data:   make([]float64, nmb*3*ndat),
		Stat:   make([]CommStatus, nmb),
		Req:    make([]transport.ReqSlot, nmb),
	}
	return
}

// Flux returns block m's full payload region.
func (b *FluxBuffer) Flux(m int) []float64 {
	return b.Data[m*3*b.Ndat : (m+1)*3*b.Ndat]
}

// Comp returns block m's payload region for component v.
func (b *FluxBuffer) Comp(m, v int) []float64 {
	flux := b.Flux(m)
	return flux[v*b.Ndat : (v+1)*b.Ndat]
}
