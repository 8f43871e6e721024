package generator

import (
	"fmt"

	"github.com/viant/calltrace/graph"
)

// SourceKind selects the flavor of generated output.
type SourceKind int

const (
	// SourceProgram replays the recorded calls as a standalone program.
	SourceProgram SourceKind = iota
	// SourceProgramWithAsserts additionally asserts each recorded return value inline.
	SourceProgramWithAsserts
	// SourceUnitTest wraps the calls into a test case asserting outcomes.
	SourceUnitTest
)

// AllLevels disables the nesting level filter.
const AllLevels = -1

// GenerationError reports a recorded construct the target dialect cannot
// express.
type GenerationError struct {
	Dialect string
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v generation failed: %v", e.Dialect, e.Message)
}

// Element is a rendered container member. Named marks members referenced
// through a variable binding rather than an inline literal.
type Element struct {
	Expr  string
	Named bool
}

// Dialect answers the syntax questions of one target language. Graph
// traversal, naming and declaration bookkeeping stay in the driver.
type Dialect interface {
	// Language names the dialect for diagnostics.
	Language() graph.Language
	// Indent is one indentation unit.
	Indent() string
	// Terminator closes a call statement.
	Terminator() string
	// FileProlog opens the generated file.
	FileProlog(kind SourceKind) string
	// FileEpilog closes the generated file.
	FileEpilog(kind SourceKind) string
	// MainProlog opens the replay body and returns its base indentation.
	MainProlog(kind SourceKind, projectName string) (string, string)
	// MainEpilog closes the replay body.
	MainEpilog(kind SourceKind) string
	// PlaceholderProlog imports the helper backing placeholder values.
	PlaceholderProlog() string
	// ImportModule declares a module, or returns "" when none is needed.
	ImportModule(name string) string
	// FormatScalar renders a scalar literal.
	FormatScalar(literal *Literal) (string, error)
	// NeedsBinding reports whether a fixed value must be bound to a variable
	// before use instead of being repeated inline.
	NeedsBinding(literal *Literal) bool
	// PlaceholderValue renders the stand-in expression for an opaque object.
	PlaceholderValue(classHint string) string
	// DeclareValue binds a rendered expression to a name.
	DeclareValue(indent, name, typeName, value string) string
	// DeclareList declares a sequence from rendered member expressions.
	DeclareList(indent, name, typeName string, elements []Element) (string, error)
	// DeclareMap declares a mapping from rendered key/value expressions.
	DeclareMap(indent, name, typeName string, entries [][2]Element) (string, error)
	// DefaultConstruct builds a receiver with its class default constructor.
	DefaultConstruct(indent, name, className string) string
	// IsConstructorName reports whether the function name denotes the
	// constructor of the given class.
	IsConstructorName(function, className string) bool
	// ConstructorReceiver opens a constructing call statement.
	ConstructorReceiver(name, className string) string
	// DestructorStatement destroys the named receiver.
	DestructorStatement(name string) string
	// MethodReceiver opens a method call on an instance receiver.
	MethodReceiver(name, function string) string
	// QualifyCallee prefixes a module or class level function reference.
	QualifyCallee(calleeRepr string, calleeType graph.LanguageType, function string) string
	// SkipArgument suppresses recorded receiver arguments.
	SkipArgument(call *graph.FunctionCall, index int) bool
	// NamedArgument renders one keyword argument.
	NamedArgument(name, value string) string
	// ComposeCall joins a receiver expression with rendered arguments.
	ComposeCall(receiver string, args []string) string
	// EqualAssertion asserts that the call expression yields expected.
	EqualAssertion(expected, callExpr string) string
	// RaiseAssertion asserts that invoking the receiver raises excClass.
	RaiseAssertion(excClass, receiver string, args []string) string
	// InlineAssert renders a standalone assertion over the call expression.
	InlineAssert(callExpr, expected string) string
}
