package graph

import "time"

// Argument references one LanguageObject used as a call parameter. Name is
// set for keyword arguments only. Mode and Const matter for C-like captures
// and are ignored otherwise.
type Argument struct {
	Object *LanguageObject
	Name   string
	Mode   PassingMode
	Const  bool
}

// FunctionCall records a single invocation of an instrumented function.
// A call is created when the matching enter event is drained and completed
// exactly once when its exit event arrives; a call with a nil Returned never
// finished within the capture session.
type FunctionCall struct {
	ID             int
	Callee         *LanguageObject
	Function       string
	Kind           MethodKind
	Arguments      []*Argument
	Level          int
	Returned       *LanguageObject
	ThrewException bool
	Elapsed        time.Duration
}

// Complete records the call outcome. When threw is set, returned holds the
// raised exception instead of a return value.
func (c *FunctionCall) Complete(returned *LanguageObject, threw bool, elapsed time.Duration) {
	c.Returned = returned
	c.ThrewException = threw
	c.Elapsed = elapsed
}
