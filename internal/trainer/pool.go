package trainer

import (
	"runtime"
	"sync"
)

// maxWorkers bounds the user-supplied worker count.
const maxWorkers = 1024

// ResolveWorkerCount returns requested if it lies in [1, maxWorkers], and
// half the machine's logical CPUs (at least one) otherwise.
func ResolveWorkerCount(requested int) int {
	if requested >= 1 && requested <= maxWorkers {
		return requested
	}
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Pool is a fixed-size set of long-lived workers used in a fork-join idiom:
// Run hands over a batch of independent tasks and blocks until every one has
// completed. Tasks must not share mutable state.
type Pool struct {
	tasks chan func()

	mu          sync.Mutex
	drained     *sync.Cond
	outstanding int

	workers sync.WaitGroup
}

// NewPool starts n workers waiting for batches.
func NewPool(n int) *Pool {
	p := &Pool{tasks: make(chan func(), n)}
	p.drained = sync.NewCond(&p.mu)

	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for task := range p.tasks {
		task()

		p.mu.Lock()
		p.outstanding--
		if p.outstanding == 0 {
			p.drained.Broadcast()
		}
		p.mu.Unlock()
	}
}

// Run submits the batch and blocks until every task has completed. Only one
// batch may be in flight at a time; the trainer's cycle structure guarantees
// that.
func (p *Pool) Run(batch []func()) {
	if len(batch) == 0 {
		return
	}

	p.mu.Lock()
	p.outstanding += len(batch)
	p.mu.Unlock()

	for _, task := range batch {
		p.tasks <- task
	}

	p.mu.Lock()
	for p.outstanding > 0 {
		p.drained.Wait()
	}
	p.mu.Unlock()
}

// Close terminates the workers once the current batch, if any, has drained.
func (p *Pool) Close() {
	close(p.tasks)
	p.workers.Wait()
}
