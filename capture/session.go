package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/viant/calltrace/graph"
	"github.com/viant/calltrace/serialization"
)

// ErrSessionActive is returned by Start while another session owns the
// process-wide capture slot.
var ErrSessionActive = errors.New("capture session already active")

var sessionActive atomic.Bool

// Session is one capture run. Producers publish events from any goroutine; a
// single coordinator goroutine drains them in arrival order and builds the
// graph. End closes the session and returns the result.
type Session struct {
	config      *Config
	execution   *graph.ProgramExecution
	events      chan Event
	coordinator *coordinator
	endOnce     sync.Once
}

// Start begins a capture session. Only one session may be active at a time;
// a concurrent Start fails with ErrSessionActive.
func Start(config *Config) (*Session, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.init()
	if !sessionActive.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	session := &Session{
		config:    config,
		execution: graph.NewProgramExecution(config.Language),
		events:    make(chan Event, config.QueueSize),
	}
	session.coordinator = newCoordinator(session.execution, session.events)
	go session.coordinator.run()
	return session, nil
}

// Publish enqueues one event. It blocks while the queue is full. Nesting
// levels come from a single session-wide counter, so recorded levels are only
// meaningful for producers sharing one logical call stack.
func (s *Session) Publish(event Event) {
	s.events <- event
}

// End publishes the shutdown sentinel, waits for the coordinator to drain it
// and returns the captured graph together with the first structural error
// encountered, if any. End is idempotent; a partial graph is still returned
// alongside an error.
func (s *Session) End() (*graph.ProgramExecution, error) {
	s.endOnce.Do(func() {
		s.events <- EndCapture{}
		<-s.coordinator.done
		sessionActive.Store(false)
	})
	return s.execution, s.coordinator.err
}

// Wait blocks until the coordinator drains the shutdown sentinel, publishing
// nothing itself, and returns the captured graph with the first structural
// error. Another party must call End for Wait to return.
func (s *Session) Wait() (*graph.ProgramExecution, error) {
	<-s.coordinator.done
	return s.execution, s.coordinator.err
}

// Dump persists the captured graph at the given URL, falling back to the
// configured dump location when URL is empty. With PreserveDumps set, an
// existing capture is kept and the new one gets an indexed name.
func (s *Session) Dump(ctx context.Context, URL string) error {
	if URL == "" {
		URL = s.config.DumpURL
	}
	if s.config.PreserveDumps {
		unique, err := serialization.UniqueDumpURL(ctx, URL)
		if err != nil {
			return err
		}
		URL = unique
	}
	return serialization.DumpToURL(ctx, s.execution, URL)
}
