// Package transport provides asynchronous point-to-point messaging between
// ranks for boundary-buffer exchange. Completion is observed by non-blocking
// tests or a blocking wait; no ordering is guaranteed between distinct tags.
package transport

// Request represents one posted asynchronous send or receive.
type Request interface {
	// Test is a non-blocking completion check. Once it returns true the
	// associated buffer holds the transferred data.
	Test() bool
	// Wait blocks until the transfer completes.
	Wait()
}

// Transport is the messaging surface consumed by the boundary exchange. One
// Transport instance belongs to exactly one rank.
type Transport interface {
	Rank() int
	Size() int
	// PostSend issues an asynchronous send of buf to destRank under tag. The
	// buffer must not be overwritten until the returned request completes.
	PostSend(buf []float64, destRank, tag int) (Request, error)
	// PostRecv pre-registers an asynchronous receive into buf from srcRank
	// under tag.
	PostRecv(buf []float64, srcRank, tag int) (Request, error)
}

// ReqSlot holds either nothing in flight or one posted request, so the empty
// state is explicit rather than a sentinel request value.
type ReqSlot struct {
	req Request
}

func (s *ReqSlot) Post(r Request) {
	if s.req != nil {
		panic("request slot already holds an in-flight request")
	}
	s.req = r
}

func (s *ReqSlot) Active() bool {
	return s.req != nil
}

// Test checks the held request without consuming it. An empty slot is
// trivially complete.
func (s *ReqSlot) Test() bool {
	if s.req == nil {
		return true
	}
	return s.req.Test()
}

// Wait drains the held request and empties the slot.
func (s *ReqSlot) Wait() {
	if s.req == nil {
		return
	}
	s.req.Wait()
	s.req = nil
}

// Cancel empties the slot without waiting. Only for aborting a failed phase,
// where the peer transfer may never arrive.
func (s *ReqSlot) Cancel() {
	s.req = nil
}
