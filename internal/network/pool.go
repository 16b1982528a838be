package network

import "context"

// pool bounds the number of RPC handlers that execute concurrently (§4.4,
// §5). Worker-to-request assignment is arbitrary: a fixed number of
// goroutines drain a shared job queue, so a burst of requests queues rather
// than spawning unbounded goroutines against the shared dealer and solver.
type pool struct {
	jobs chan job
	done chan struct{}
}

type job struct {
	fn     func() (interface{}, error)
	result chan<- jobResult
}

type jobResult struct {
	value interface{}
	err   error
}

// newPool starts size worker goroutines draining a shared, unbuffered job
// queue. size must be >= 1.
func newPool(size int) *pool {
	if size < 1 {
		size = 1
	}
	p := &pool{
		jobs: make(chan job),
		done: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	for {
		select {
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			value, err := j.fn()
			j.result <- jobResult{value: value, err: err}
		case <-p.done:
			return
		}
	}
}

// submit runs fn on a pool worker, blocking the caller until a worker picks
// it up, executes it, and returns the result, or ctx is cancelled first.
func (p *pool) submit(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	result := make(chan jobResult, 1)
	select {
	case p.jobs <- job{fn: fn, result: result}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, context.Canceled
	}

	select {
	case r := <-result:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// close stops all workers. In-flight jobs already picked up still complete
// and deliver their result; submissions that haven't been picked up yet
// unblock right away with context.Canceled.
func (p *pool) close() {
	close(p.done)
}
