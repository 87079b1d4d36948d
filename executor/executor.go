// Package executor provides the single-threaded, cooperatively-scheduled
// task queue shared by the main forwarding thread and the RIB thread
// (§5). It generalizes the teacher's fw.Thread select-loop
// (pendingInterests/pendingDatas channels drained one at a time) into a
// reusable building block, since the teacher has no standalone executor
// type and no RIB executor at all.
package executor

// Executor runs posted closures one at a time, in FIFO order, on a single
// goroutine. Cross-executor communication is exclusively by Post: no
// executor ever reaches into another's state directly.
type Executor struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
}

// New creates an Executor with the given task queue depth. Run must be
// called to start draining it.
func New(queueSize int) *Executor {
	return &Executor{
		tasks: make(chan func(), queueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Post enqueues task for execution on this executor's goroutine. Safe to
// call from any goroutine, including from within another Executor's task.
func (e *Executor) Post(task func()) {
	select {
	case e.tasks <- task:
	case <-e.quit:
	}
}

// Run drains the task queue until Stop is called. Intended to be launched
// with `go e.Run()` once, by whichever package owns this executor (fw.Thread
// for main, rib.Manager for rib).
func (e *Executor) Run() {
	defer close(e.done)
	for {
		select {
		case task := <-e.tasks:
			task()
		case <-e.quit:
			// Drain whatever is already queued before exiting, so a Stop
			// racing with a Post does not silently drop pending work.
			for {
				select {
				case task := <-e.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Stop signals Run to exit after draining the queue, and blocks until it
// has.
func (e *Executor) Stop() {
	close(e.quit)
	<-e.done
}
