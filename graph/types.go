package graph

// Language identifies the source language a program execution was captured
// from. The tag is persisted verbatim, so values must stay stable.
type Language string

const (
	LanguagePython Language = "Python"
	LanguageCPP    Language = "C++"
)

// LanguageType places an object in the language hierarchy. The ranks form a
// strict chain: None owns Modules, Modules own Classes, Classes own
// Instances.
type LanguageType int

const (
	LanguageTypeNone LanguageType = iota
	LanguageTypeModule
	LanguageTypeClass
	LanguageTypeInstance
)

var languageTypeNames = map[LanguageType]string{
	LanguageTypeNone:     "None",
	LanguageTypeModule:   "Module",
	LanguageTypeClass:    "Class",
	LanguageTypeInstance: "Instance",
}

func (t LanguageType) String() string {
	if name, ok := languageTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// AllLanguageTypes returns the fixed language type table in rank order.
func AllLanguageTypes() []LanguageType {
	return []LanguageType{LanguageTypeNone, LanguageTypeModule, LanguageTypeClass, LanguageTypeInstance}
}

// IsValidParent reports whether parent may own a child of the given type;
// the parent rank must sit exactly one step above the child rank.
func IsValidParent(parent, child LanguageType) bool {
	if child == LanguageTypeNone {
		return false
	}
	return parent == child-1
}

// DeclarationType tells the code generator how to reconstruct an object.
type DeclarationType string

const (
	// DeclarationConstructor marks objects rebuilt by replaying their
	// constructor call.
	DeclarationConstructor DeclarationType = "CONSTRUCTOR"
	// DeclarationFixedValue marks objects rebuilt from a serialized literal.
	DeclarationFixedValue DeclarationType = "FIXED_VALUE"
	// DeclarationDummy marks opaque objects replaced by a placeholder.
	DeclarationDummy DeclarationType = "DUMMY"
)

// MethodKind classifies how a recorded function was invoked.
type MethodKind string

const (
	MethodKindMethod      MethodKind = "method"
	MethodKindStatic      MethodKind = "static method"
	MethodKindClassMethod MethodKind = "class method"
	MethodKindProperty    MethodKind = "property"
	MethodKindConstructor MethodKind = "constructor"
	MethodKindDestructor  MethodKind = "destructor"
)

// PassingMode describes how a C-like argument travels into a call.
type PassingMode int

const (
	PassByValue PassingMode = iota
	PassByPointer
	PassByReference
)
