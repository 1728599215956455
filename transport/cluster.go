package transport

import (
	"fmt"
	"sync"
)

// Cluster connects a fixed number of in-process ranks through FIFO mailboxes,
// one per (receiving rank, tag). Each rank runs on its own goroutine and
// exchanges only through its endpoint, mirroring the post/deliver/receive
// mailbox discipline used for partition messaging. A mailbox queues every
// posted payload in send order, so a rank may run phases ahead of a receiver
// that has not yet polled.
type Cluster struct {
	NP    int
	mu    sync.Mutex
	cond  *sync.Cond
	boxes []map[int][][]float64 // one map per rank, key is tag, FIFO per key
}

func NewCluster(np int) (c *Cluster) {
	c = &Cluster{
		NP:    np,
		boxes: make([]map[int][][]float64, np),
	}
	c.cond = sync.NewCond(&c.mu)
	for n := 0; n < np; n++ {
		c.boxes[n] = make(map[int][][]float64)
	}
	return
}

// Endpoint returns rank's view of the cluster.
func (c *Cluster) Endpoint(rank int) Transport {
	if rank < 0 || rank >= c.NP {
		panic(fmt.Sprintf("rank %d out of range [0,%d)", rank, c.NP))
	}
	return &endpoint{c: c, rank: rank}
}

// deposit appends a payload to the (rank, tag) mailbox and wakes any waiter.
func (c *Cluster) deposit(rank, tag int, payload []float64) {
	c.mu.Lock()
	c.boxes[rank][tag] = append(c.boxes[rank][tag], payload)
	c.mu.Unlock()
	c.cond.Broadcast()
}

// collect pops the oldest payload from the (rank, tag) mailbox, or nil when
// the mailbox is empty. Caller must hold c.mu.
func (c *Cluster) collect(rank, tag int) (payload []float64) {
	q := c.boxes[rank][tag]
	if len(q) == 0 {
		return nil
	}
	payload = q[0]
	c.boxes[rank][tag] = q[1:]
	return
}

type endpoint struct {
	c    *Cluster
	rank int
}

func (e *endpoint) Rank() int { return e.rank }
func (e *endpoint) Size() int { return e.c.NP }

func (e *endpoint) PostSend(buf []float64, destRank, tag int) (Request, error) {
	if destRank < 0 || destRank >= e.c.NP {
		return nil, fmt.Errorf("send to rank %d out of range [0,%d)", destRank, e.c.NP)
	}
	// The payload is copied out so the caller's buffer is reusable as soon as
	// the send request completes, which here is immediately.
	payload := make([]float64, len(buf))
	copy(payload, buf)
	e.c.deposit(destRank, tag, payload)
	return sendReq{}, nil
}

func (e *endpoint) PostRecv(buf []float64, srcRank, tag int) (Request, error) {
	if srcRank < 0 || srcRank >= e.c.NP {
		return nil, fmt.Errorf("receive from rank %d out of range [0,%d)", srcRank, e.c.NP)
	}
	return &recvReq{c: e.c, rank: e.rank, tag: tag, buf: buf}, nil
}

// sendReq completes at post time; the payload was copied into the mailbox.
type sendReq struct{}

func (sendReq) Test() bool { return true }
func (sendReq) Wait()      {}

type recvReq struct {
	c    *Cluster
	rank int
	tag  int
	buf  []float64
	done bool
}

func (r *recvReq) Test() bool {
	if r.done {
		return true
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if payload := r.c.collect(r.rank, r.tag); payload != nil {
		copy(r.buf, payload)
		r.done = true
	}
	return r.done
}

func (r *recvReq) Wait() {
	if r.done {
		return
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for {
		if payload := r.c.collect(r.rank, r.tag); payload != nil {
			copy(r.buf, payload)
			r.done = true
			return
		}
		r.c.cond.Wait()
	}
}
