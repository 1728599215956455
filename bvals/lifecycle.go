package bvals

import "github.com/notargets/goamr/mesh"

// PhaseState tracks the progress of one exchange phase:
//
//	Idle -> ReceivesPosted -> Packing -> Sent -> Draining -> Idle
//
// Packing is transient within BeginExchange; Draining persists across
// TryComplete polls until every expected transfer has arrived.
type PhaseState int

const (
	Idle PhaseState = iota
	ReceivesPosted
	Packing
	Sent
	Draining
)

func (s PhaseState) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReceivesPosted:
		return "receives-posted"
	case Packing:
		return "packing"
	case Sent:
		return "sent"
	case Draining:
		return "draining"
	}
	return "unknown"
}

// BeginExchange opens a phase: post receives, restrict and pack fluxes, and
// issue the remote sends. On success the phase is in Sent and TryComplete may
// be polled. A transport failure reports TaskFail and aborts the phase back
// to Idle, releasing whatever was posted before the failure; retry policy is
// the caller's, since a failed post usually means prior work must drain first.
func (bv *BoundaryValuesFC) BeginExchange(flx mesh.EdgeField) TaskStatus {
	if bv.state != Idle {
		panic("BeginExchange called outside the Idle state")
	}
	if bv.InitFluxRecv(3) == TaskFail {
		bv.abortPhase()
		return TaskFail
	}
	bv.state = ReceivesPosted

	bv.state = Packing
	if bv.PackAndSendFlux(flx) == TaskFail {
		bv.abortPhase()
		return TaskFail
	}
	bv.state = Sent
	return TaskComplete
}

// abortPhase cancels every request slot posted in a failed phase and returns
// to Idle. Cancelled receives may never arrive, so waiting is not an option.
func (bv *BoundaryValuesFC) abortPhase() {
	for m := 0; m < bv.pack.Nmb; m++ {
		for n := 0; n < mesh.MaxNeighbors; n++ {
			bv.Send[n].Req[m].Cancel()
			bv.Recv[n].Req[m].Cancel()
		}
	}
	bv.state = Idle
}

// TryComplete advances an open phase without blocking: it polls the expected
// receives, unpacks once all have arrived, then drains outstanding requests
// and closes the phase. While transfers are outstanding it returns
// TaskIncomplete and the caller re-invokes on a later scheduling tick,
// interleaving other work. Polling after the phase is closed returns
// TaskComplete without touching field data.
func (bv *BoundaryValuesFC) TryComplete(flx mesh.EdgeField) TaskStatus {
	switch bv.state {
	case Idle:
		return TaskComplete
	case Sent, Draining:
	default:
		panic("TryComplete called before sends were issued")
	}
	bv.state = Draining
	if s := bv.RecvAndUnpackFlux(flx); s != TaskComplete {
		return s
	}
	// sends and receives must all resolve before buffers may be reused
	if bv.ClearFluxSend() == TaskFail {
		return TaskFail
	}
	if bv.ClearFluxRecv() == TaskFail {
		return TaskFail
	}
	bv.state = Idle
	return TaskComplete
}

// WaitAll blocks until every outstanding send and receive has resolved. Used
// only at teardown of a communication phase: once receives are posted they
// must drain before the buffers can be released or reused.
func (bv *BoundaryValuesFC) WaitAll() {
	bv.ClearFluxSend()
	bv.ClearFluxRecv()
}
