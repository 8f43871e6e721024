package graph

import "fmt"

// MinLevel is the nesting level assigned to top level calls.
const MinLevel = 0

// ProgramExecution holds the complete captured behavior of one program run:
// the deduplicated object store and the ordered call list. The store keeps
// insertion order, which by construction declares every parent before its
// children.
type ProgramExecution struct {
	Language Language
	objects  []*LanguageObject
	byID     map[int]int
	calls    []*FunctionCall
}

func NewProgramExecution(language Language) *ProgramExecution {
	return &ProgramExecution{Language: language, byID: map[int]int{}}
}

// AddObject registers an object in the store. The id must be unused and the
// parent, if any, must have been registered already.
func (p *ProgramExecution) AddObject(object *LanguageObject) error {
	if _, ok := p.byID[object.ID]; ok {
		return &DuplicateIDError{ID: object.ID}
	}
	if object.Parent != nil {
		if _, ok := p.byID[object.Parent.ID]; !ok {
			return fmt.Errorf("language object %d references unregistered parent %d", object.ID, object.Parent.ID)
		}
	}
	p.byID[object.ID] = len(p.objects)
	p.objects = append(p.objects, object)
	return nil
}

// AddCall appends a call to the graph. Calls are kept strictly in the order
// they were added.
func (p *ProgramExecution) AddCall(call *FunctionCall) {
	p.calls = append(p.calls, call)
}

// Object returns the registered object with the given id, or nil.
func (p *ProgramExecution) Object(id int) *LanguageObject {
	index, ok := p.byID[id]
	if !ok {
		return nil
	}
	return p.objects[index]
}

// Objects returns the object store in insertion order.
func (p *ProgramExecution) Objects() []*LanguageObject {
	return p.objects
}

// Calls returns the recorded calls in capture order.
func (p *ProgramExecution) Calls() []*FunctionCall {
	return p.calls
}

// LanguageTypes returns the valid language type table of this execution,
// persisted with the document as a format sanity check.
func (p *ProgramExecution) LanguageTypes() []LanguageType {
	return AllLanguageTypes()
}
