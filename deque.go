package sched

import "sync"

// deque is a double-ended job queue. The owning worker pushes and pops at
// the back (LIFO locality for fan-out work); thieves steal from the front.
// A mutex guards both ends: steals are infrequent relative to local pops, so
// the contention is acceptable.
//
// The shared injector queue reuses this type with a pure FIFO discipline:
// producers push at the back under the mutex, workers steal from the front.
type deque struct {
	mu   sync.Mutex
	jobs []job
}

// push appends a job at the back.
func (d *deque) push(j job) {
	d.mu.Lock()
	d.jobs = append(d.jobs, j)
	d.mu.Unlock()
}

// pushAll appends a batch of jobs at the back under a single lock hold.
func (d *deque) pushAll(js []job) {
	d.mu.Lock()
	d.jobs = append(d.jobs, js...)
	d.mu.Unlock()
}

// pop removes and returns the job at the back (owner end).
func (d *deque) pop() (job, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.jobs)
	if n == 0 {
		return nil, false
	}
	j := d.jobs[n-1]
	d.jobs[n-1] = nil
	d.jobs = d.jobs[:n-1]
	return j, true
}

// steal removes and returns the job at the front (thief end).
func (d *deque) steal() (job, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.jobs) == 0 {
		return nil, false
	}
	j := d.jobs[0]
	d.jobs[0] = nil
	d.jobs = d.jobs[1:]
	if len(d.jobs) == 0 {
		// release the drained backing array instead of growing it forever
		d.jobs = nil
	}
	return j, true
}

// size returns the current number of queued jobs.
func (d *deque) size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}
