// Package generator replays a captured program execution as source text in
// the execution's own language.
package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/viant/calltrace/graph"
)

// Generator drives code generation for one program execution, delegating all
// syntax decisions to a target dialect.
type Generator struct {
	execution *graph.ProgramExecution
	dialect   Dialect
}

// New creates a generator replaying the execution through the given dialect.
func New(execution *graph.ProgramExecution, dialect Dialect) *Generator {
	return &Generator{execution: execution, dialect: dialect}
}

// Generate writes source of the requested kind to the writer, filtered to a
// single nesting level or to AllLevels. The project name seeds test case
// naming and may be empty.
func (g *Generator) Generate(writer io.Writer, level int, kind SourceKind, projectName string) error {
	run := &generation{
		execution:   g.execution,
		dialect:     g.dialect,
		level:       level,
		kind:        kind,
		projectName: projectName,
		bindings:    map[int]*binding{},
		constructed: map[int]bool{},
		out:         &strings.Builder{},
	}
	if err := run.generate(); err != nil {
		return err
	}
	_, err := io.WriteString(writer, run.out.String())
	return err
}

// binding is the bookkeeping for one declared object: the name assigned to it
// and how emitted code refers to it.
type binding struct {
	name    string
	byName  bool
	literal *Literal
}

// generation is the per-invocation state, discarded after each Generate call.
type generation struct {
	execution   *graph.ProgramExecution
	dialect     Dialect
	level       int
	kind        SourceKind
	projectName string

	bindings    map[int]*binding
	constructed map[int]bool
	modules     int
	classes     int
	instances   int

	bodyIndent string
	indent     string
	out        *strings.Builder
}

func (r *generation) generate() error {
	r.out.WriteString(r.dialect.FileProlog(r.kind))
	if r.usesPlaceholders() {
		r.out.WriteString(r.dialect.PlaceholderProlog())
	}
	for _, object := range r.execution.Objects() {
		if object.Type == graph.LanguageTypeModule {
			if err := r.declare(object); err != nil {
				return err
			}
		}
	}
	for _, object := range r.execution.Objects() {
		if object.Type == graph.LanguageTypeClass {
			if err := r.declare(object); err != nil {
				return err
			}
		}
	}
	r.out.WriteString("\n")
	prolog, bodyIndent := r.dialect.MainProlog(r.kind, r.projectName)
	r.out.WriteString(prolog)
	r.bodyIndent = bodyIndent
	r.indent = bodyIndent
	lastLevel := -1
	for _, call := range r.execution.Calls() {
		if r.level != AllLevels && call.Level != r.level {
			continue
		}
		if call.Level != lastLevel {
			r.indent = r.bodyIndent + strings.Repeat(r.dialect.Indent(), call.Level)
			lastLevel = call.Level
		}
		if err := r.emitCall(call); err != nil {
			return err
		}
	}
	r.out.WriteString(r.dialect.MainEpilog(r.kind))
	r.out.WriteString(r.dialect.FileEpilog(r.kind))
	return nil
}

func (r *generation) usesPlaceholders() bool {
	for _, call := range r.execution.Calls() {
		if r.level != AllLevels && call.Level != r.level {
			continue
		}
		if call.Callee.Declaration == graph.DeclarationDummy {
			return true
		}
		for _, argument := range call.Arguments {
			if argument.Object.Declaration == graph.DeclarationDummy {
				return true
			}
		}
		if r.kind == SourceUnitTest && !call.ThrewException &&
			call.Returned != nil && call.Returned.Declaration == graph.DeclarationDummy {
			return true
		}
	}
	return false
}

// declare binds an object to a name and emits its declaration statements when
// the dialect requires them. Declaring an already bound object is a no-op.
func (r *generation) declare(object *graph.LanguageObject) error {
	if _, ok := r.bindings[object.ID]; ok {
		return nil
	}
	literal, err := ParseLiteral(object.Code)
	if err != nil {
		return err
	}
	switch object.Type {
	case graph.LanguageTypeModule:
		bound := &binding{name: fmt.Sprintf("mod%d", r.modules), literal: literal}
		r.modules++
		r.bindings[object.ID] = bound
		r.out.WriteString(r.dialect.ImportModule(literal.Str))
		return nil
	case graph.LanguageTypeClass:
		bound := &binding{name: fmt.Sprintf("cls%d", r.classes), literal: literal}
		r.classes++
		r.bindings[object.ID] = bound
		return nil
	}
	// container members take their names first, so member declarations
	// precede the container's own statement
	if object.Declaration == graph.DeclarationFixedValue {
		switch literal.Kind {
		case LiteralList:
			return r.declareList(object, literal)
		case LiteralMap:
			return r.declareMap(object, literal)
		}
	}
	bound := r.bindInstance(object, literal)
	if object.Declaration != graph.DeclarationFixedValue {
		// constructed at the replayed constructor call or rendered inline
		bound.byName = object.Declaration == graph.DeclarationConstructor
		return nil
	}
	if r.dialect.NeedsBinding(literal) {
		value, err := r.dialect.FormatScalar(literal)
		if err != nil {
			return err
		}
		bound.byName = true
		r.out.WriteString(r.dialect.DeclareValue(r.indent, bound.name, r.typeName(object), value))
	}
	return nil
}

func (r *generation) bindInstance(object *graph.LanguageObject, literal *Literal) *binding {
	bound := &binding{name: fmt.Sprintf("var%d", r.instances), literal: literal}
	r.instances++
	r.bindings[object.ID] = bound
	return bound
}

func (r *generation) declareList(object *graph.LanguageObject, literal *Literal) error {
	elements := make([]Element, 0, len(literal.Elems))
	for _, id := range literal.Elems {
		element, err := r.member(object, id)
		if err != nil {
			return err
		}
		elements = append(elements, element)
	}
	bound := r.bindInstance(object, literal)
	bound.byName = true
	code, err := r.dialect.DeclareList(r.indent, bound.name, r.typeName(object), elements)
	if err != nil {
		return err
	}
	r.out.WriteString(code)
	return nil
}

func (r *generation) declareMap(object *graph.LanguageObject, literal *Literal) error {
	entries := make([][2]Element, 0, len(literal.Entries))
	for _, entry := range literal.Entries {
		key, err := r.member(object, entry.Key)
		if err != nil {
			return err
		}
		value, err := r.member(object, entry.Value)
		if err != nil {
			return err
		}
		entries = append(entries, [2]Element{key, value})
	}
	bound := r.bindInstance(object, literal)
	bound.byName = true
	code, err := r.dialect.DeclareMap(r.indent, bound.name, r.typeName(object), entries)
	if err != nil {
		return err
	}
	r.out.WriteString(code)
	return nil
}

// member resolves one container member, declaring it first so that member
// declarations precede the container's own.
func (r *generation) member(container *graph.LanguageObject, id int) (Element, error) {
	object := r.execution.Object(id)
	if object == nil {
		return Element{}, fmt.Errorf("container %d references unknown object %d", container.ID, id)
	}
	if err := r.declare(object); err != nil {
		return Element{}, err
	}
	expr, err := r.repr(object)
	if err != nil {
		return Element{}, err
	}
	return Element{Expr: expr, Named: r.bindings[id].byName}, nil
}

// repr renders the expression referring to a declared object.
func (r *generation) repr(object *graph.LanguageObject) (string, error) {
	bound, ok := r.bindings[object.ID]
	if !ok {
		return "", fmt.Errorf("language object %d referenced before declaration", object.ID)
	}
	if bound.byName {
		return bound.name, nil
	}
	switch object.Type {
	case graph.LanguageTypeModule, graph.LanguageTypeClass:
		return bound.literal.Str, nil
	}
	if object.Declaration == graph.DeclarationDummy {
		return r.dialect.PlaceholderValue(bound.literal.Str), nil
	}
	return r.dialect.FormatScalar(bound.literal)
}

// typeName names the class an instance belongs to, for dialects that declare
// typed variables.
func (r *generation) typeName(object *graph.LanguageObject) string {
	if object.Parent == nil {
		return ""
	}
	if bound, ok := r.bindings[object.Parent.ID]; ok {
		return bound.literal.Str
	}
	return ""
}

func (r *generation) emitCall(call *graph.FunctionCall) error {
	callee := call.Callee
	if err := r.declare(callee); err != nil {
		return err
	}
	calleeRepr, err := r.repr(callee)
	if err != nil {
		return err
	}
	className := r.typeName(callee)
	constructor := callee.Type == graph.LanguageTypeInstance &&
		(call.Kind == graph.MethodKindConstructor || r.dialect.IsConstructorName(call.Function, className))

	if callee.Type == graph.LanguageTypeInstance && !constructor && !r.constructed[callee.ID] &&
		callee.Declaration == graph.DeclarationConstructor {
		r.out.WriteString(r.dialect.DefaultConstruct(r.indent, calleeRepr, className))
		r.constructed[callee.ID] = true
	}

	if call.Kind == graph.MethodKindDestructor {
		r.out.WriteString(r.indent + r.dialect.DestructorStatement(calleeRepr) + r.dialect.Terminator() + "\n")
		return nil
	}

	var receiver string
	switch {
	case constructor:
		receiver = r.dialect.ConstructorReceiver(calleeRepr, className)
	case callee.Type == graph.LanguageTypeInstance:
		receiver = r.dialect.MethodReceiver(calleeRepr, call.Function)
	default:
		receiver = r.dialect.QualifyCallee(calleeRepr, callee.Type, call.Function)
	}

	args, err := r.renderArguments(call)
	if err != nil {
		return err
	}
	callExpr := r.dialect.ComposeCall(receiver, args)

	statement, err := r.statement(call, constructor, receiver, args, callExpr)
	if err != nil {
		return err
	}
	if constructor {
		r.constructed[callee.ID] = true
	}
	r.out.WriteString(r.indent + statement + r.dialect.Terminator() + "\n")
	return nil
}

func (r *generation) renderArguments(call *graph.FunctionCall) ([]string, error) {
	args := make([]string, 0, len(call.Arguments))
	for index, argument := range call.Arguments {
		if err := r.declare(argument.Object); err != nil {
			return nil, err
		}
		if r.dialect.SkipArgument(call, index) {
			continue
		}
		expr, err := r.repr(argument.Object)
		if err != nil {
			return nil, err
		}
		if argument.Name != "" {
			expr = r.dialect.NamedArgument(argument.Name, expr)
		}
		args = append(args, expr)
	}
	return args, nil
}

// statement shapes the final call line: constructors assign their receiver,
// calls returning a constructed object capture it, test kinds wrap the call
// into an assertion.
func (r *generation) statement(call *graph.FunctionCall, constructor bool, receiver string, args []string, callExpr string) (string, error) {
	returned := call.Returned
	if constructor || returned == nil {
		return callExpr, nil
	}
	if returned.Declaration == graph.DeclarationConstructor {
		if err := r.declare(returned); err != nil {
			return "", err
		}
		name, err := r.repr(returned)
		if err != nil {
			return "", err
		}
		r.constructed[returned.ID] = true
		return name + " = " + callExpr, nil
	}
	switch r.kind {
	case SourceUnitTest:
		if call.ThrewException {
			if returned.Parent == nil {
				return callExpr, nil
			}
			excClass, err := r.repr(returned.Parent)
			if err != nil {
				return "", err
			}
			return r.dialect.RaiseAssertion(excClass, receiver, args), nil
		}
		if err := r.declare(returned); err != nil {
			return "", err
		}
		expected, err := r.repr(returned)
		if err != nil {
			return "", err
		}
		return r.dialect.EqualAssertion(expected, callExpr), nil
	case SourceProgramWithAsserts:
		if call.ThrewException || returned.Declaration != graph.DeclarationFixedValue {
			return callExpr, nil
		}
		if err := r.declare(returned); err != nil {
			return "", err
		}
		expected, err := r.repr(returned)
		if err != nil {
			return "", err
		}
		return r.dialect.InlineAssert(callExpr, expected), nil
	}
	return callExpr, nil
}
