package capture

import (
	"time"

	"github.com/viant/calltrace/graph"
)

// Event is one message drained by the capture coordinator. Producers may
// publish from any number of goroutines; events are applied strictly in
// arrival order.
type Event interface {
	isEvent()
}

// NamedValue carries one keyword argument.
type NamedValue struct {
	Name  string
	Value *Value
}

// FunctionEntered reports that an instrumented function started executing.
// CorrelationID pairs the event with its FunctionExited counterpart and must
// be unique among calls in flight.
type FunctionEntered struct {
	CorrelationID uint64
	Callee        *Value
	Function      string
	Kind          graph.MethodKind
	Args          []*Value
	Kwargs        []NamedValue
}

// FunctionExited reports that a previously entered function finished. When
// ThrewException is set, Returned carries the raised exception.
type FunctionExited struct {
	CorrelationID  uint64
	ThrewException bool
	Returned       *Value
	Elapsed        time.Duration
}

// EndCapture is the shutdown sentinel: the coordinator stops once it drains
// it, and events queued behind it are discarded.
type EndCapture struct{}

func (*FunctionEntered) isEvent() {}
func (*FunctionExited) isEvent()  {}
func (EndCapture) isEvent()       {}
