package graph

import "fmt"

// InvalidParentError reports a parent/child pairing that violates the
// None/Module/Class/Instance hierarchy.
type InvalidParentError struct {
	Parent LanguageType
	Child  LanguageType
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("%s is not a valid parent language type for %s", e.Parent, e.Child)
}

// DuplicateIDError reports an attempt to register a language object under an
// id that is already taken.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicated language object id: %d", e.ID)
}
