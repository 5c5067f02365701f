package narrator

import (
	"sync"

	"github.com/dgallion1/papervox/internal/playback"
)

// emitter delivers events in order without ever blocking the caller of
// push. Events queue in memory until the reader catches up.
type emitter struct {
	mu    sync.Mutex
	queue []playback.Event
	wake  chan struct{}
	out   chan playback.Event
	done  chan struct{}
	once  sync.Once
}

func newEmitter() *emitter {
	e := &emitter{
		wake: make(chan struct{}, 1),
		out:  make(chan playback.Event),
		done: make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *emitter) push(ev playback.Event) {
	e.mu.Lock()
	e.queue = append(e.queue, ev)
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *emitter) run() {
	defer close(e.out)
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			select {
			case <-e.wake:
				continue
			case <-e.done:
				return
			}
		}
		ev := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		select {
		case e.out <- ev:
		case <-e.done:
			return
		}
	}
}

func (e *emitter) close() {
	e.once.Do(func() { close(e.done) })
}
