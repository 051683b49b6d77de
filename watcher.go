package sched

import "time"

// watcher parks idle workers and wakes them when new work appears. It is a
// token channel sized to the worker count: notifications are non-blocking
// sends and a park consumes one token or times out. Tokens are sticky, so a
// notify that races a worker between its last queue check and its park is
// never lost; the worker finds the token buffered and returns immediately.
// Spurious wake-ups are possible and harmless, the steal loop just re-checks
// its sources.
type watcher struct {
	tokens chan struct{}
}

func newWatcher(n int) *watcher {
	if n < 1 {
		n = 1
	}
	return &watcher{tokens: make(chan struct{}, n)}
}

// notifyOne wakes at most one parked worker.
func (w *watcher) notifyOne() {
	select {
	case w.tokens <- struct{}{}:
	default:
	}
}

// notifyAll wakes every parked worker.
func (w *watcher) notifyAll() {
	for i := 0; i < cap(w.tokens); i++ {
		select {
		case w.tokens <- struct{}{}:
		default:
			return
		}
	}
}

// wait parks the caller until a notification arrives or the timeout elapses.
func (w *watcher) wait(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-w.tokens:
	case <-t.C:
	}
}
