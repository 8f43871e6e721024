package capture

import (
	"fmt"

	"github.com/viant/calltrace/graph"
)

// DesyncError reports an exit event with no matching call in flight. The
// producers and the graph disagree about the call stack, so the session is
// aborted rather than recording a misleading graph.
type DesyncError struct {
	CorrelationID uint64
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("capture desynchronized: exit event %d has no matching enter", e.CorrelationID)
}

// coordinator drains the event queue and builds the program execution. It is
// the only writer of the graph, so dequeue order defines the total order of
// object and call ids.
type coordinator struct {
	execution *graph.ProgramExecution
	resolver  *resolver
	events    <-chan Event
	inFlight  map[uint64]*graph.FunctionCall
	level     int
	nextCall  int
	err       error
	done      chan struct{}
}

func newCoordinator(execution *graph.ProgramExecution, events <-chan Event) *coordinator {
	return &coordinator{
		execution: execution,
		resolver:  newResolver(execution),
		events:    events,
		inFlight:  map[uint64]*graph.FunctionCall{},
		level:     graph.MinLevel - 1,
		nextCall:  1,
		done:      make(chan struct{}),
	}
}

// run consumes events until the EndCapture sentinel is drained. After a
// structural failure the loop keeps draining and discarding, so producers
// never block on a stalled consumer; the first error is surfaced at End.
func (c *coordinator) run() {
	defer close(c.done)
	for event := range c.events {
		if _, ok := event.(EndCapture); ok {
			return
		}
		if c.err != nil {
			continue
		}
		if err := c.apply(event); err != nil {
			c.err = err
		}
	}
}

func (c *coordinator) apply(event Event) error {
	switch actual := event.(type) {
	case *FunctionEntered:
		return c.enter(actual)
	case *FunctionExited:
		return c.exit(actual)
	}
	return fmt.Errorf("unsupported capture event: %T", event)
}

func (c *coordinator) enter(event *FunctionEntered) error {
	c.level++
	callee, err := c.resolver.declare(event.Callee, true)
	if err != nil {
		return err
	}
	arguments := make([]*graph.Argument, 0, len(event.Args)+len(event.Kwargs))
	for _, arg := range event.Args {
		object, err := c.resolver.declare(arg, false)
		if err != nil {
			return err
		}
		arguments = append(arguments, &graph.Argument{Object: object})
	}
	for _, kwarg := range event.Kwargs {
		object, err := c.resolver.declare(kwarg.Value, false)
		if err != nil {
			return err
		}
		arguments = append(arguments, &graph.Argument{Object: object, Name: kwarg.Name})
	}
	call := &graph.FunctionCall{
		ID:        c.nextCall,
		Callee:    callee,
		Function:  event.Function,
		Kind:      event.Kind,
		Arguments: arguments,
		Level:     c.level,
	}
	c.nextCall++
	c.execution.AddCall(call)
	c.inFlight[event.CorrelationID] = call
	return nil
}

func (c *coordinator) exit(event *FunctionExited) error {
	call, ok := c.inFlight[event.CorrelationID]
	if !ok {
		return &DesyncError{CorrelationID: event.CorrelationID}
	}
	delete(c.inFlight, event.CorrelationID)
	returned, err := c.resolver.declare(event.Returned, false)
	if err != nil {
		return err
	}
	call.Complete(returned, event.ThrewException, event.Elapsed)
	c.level--
	return nil
}
