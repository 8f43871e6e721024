package graph

import "fmt"

// LanguageObject represents one deduplicated runtime value referenced by the
// call graph: a module, a class, or an instance. Every value involved in a
// recorded call appears exactly once in the graph and is referenced by id
// afterwards.
type LanguageObject struct {
	ID          int
	Type        LanguageType
	Declaration DeclarationType
	Code        string
	Parent      *LanguageObject
}

// NewLanguageObject builds a LanguageObject, validating the hierarchy
// invariant: the parent's rank must sit exactly one step above the child's.
// Code carries the JSON declaration payload interpreted per Declaration.
func NewLanguageObject(id int, languageType LanguageType, declaration DeclarationType, code string, parent *LanguageObject) (*LanguageObject, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid language object id: %d", id)
	}
	parentType := LanguageTypeNone
	if parent != nil {
		parentType = parent.Type
	}
	if !IsValidParent(parentType, languageType) {
		return nil, &InvalidParentError{Parent: parentType, Child: languageType}
	}
	return &LanguageObject{
		ID:          id,
		Type:        languageType,
		Declaration: declaration,
		Code:        code,
		Parent:      parent,
	}, nil
}

// ParentID returns the owning object's id, or 0 for top rank objects.
func (o *LanguageObject) ParentID() int {
	if o.Parent == nil {
		return 0
	}
	return o.Parent.ID
}
