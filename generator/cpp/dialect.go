// Package cpp emits C++ syntax for the code generation driver.
package cpp

import (
	"fmt"
	"strings"

	"github.com/viant/calltrace/generator"
	"github.com/viant/calltrace/graph"
)

const maxInlineString = 50

// Dialect generates C++ statements. Receivers are heap allocated and called
// through pointers, mirroring how the capture instrumentation observes them.
type Dialect struct{}

func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Language() graph.Language {
	return graph.LanguageCPP
}

func (d *Dialect) Indent() string {
	return "\t"
}

func (d *Dialect) Terminator() string {
	return ";"
}

func (d *Dialect) FileProlog(kind generator.SourceKind) string {
	return "#include <tchar.h>\n"
}

func (d *Dialect) FileEpilog(kind generator.SourceKind) string {
	return ""
}

func (d *Dialect) MainProlog(kind generator.SourceKind, projectName string) (string, string) {
	return "int _tmain(int argc, _TCHAR* argv[])\n{\n", "\t"
}

func (d *Dialect) MainEpilog(kind generator.SourceKind) string {
	return "\treturn 0;\n}\n"
}

func (d *Dialect) PlaceholderProlog() string {
	return "#include <calltrace/Dummy.h>\n"
}

var builtinModules = map[string]bool{
	"__builtin__":  true,
	"__builtins__": true,
	"builtins":     true,
}

// ImportModule emits the include backing a module. Names already wrapped in
// angle brackets stay system includes, the rest become quoted includes.
func (d *Dialect) ImportModule(name string) string {
	if name == "" || builtinModules[name] {
		return ""
	}
	if strings.HasPrefix(name, "<") {
		return "#include " + name + "\n"
	}
	return "#include \"" + name + "\"\n"
}

func (d *Dialect) FormatScalar(literal *generator.Literal) (string, error) {
	switch literal.Kind {
	case generator.LiteralNull:
		return "NULL", nil
	case generator.LiteralBool:
		if literal.Bool {
			return "true", nil
		}
		return "false", nil
	case generator.LiteralNumber:
		return literal.Number, nil
	case generator.LiteralString:
		return quote(literal.Str), nil
	}
	return "", &generator.GenerationError{Dialect: "C++", Message: fmt.Sprintf("literal kind %d is not scalar", literal.Kind)}
}

func (d *Dialect) NeedsBinding(literal *generator.Literal) bool {
	switch literal.Kind {
	case generator.LiteralList, generator.LiteralMap:
		return true
	case generator.LiteralString:
		return len(literal.Str) > maxInlineString
	}
	return false
}

func (d *Dialect) PlaceholderValue(classHint string) string {
	return "Dummy(" + quote(classHint) + ")"
}

func (d *Dialect) DeclareValue(indent, name, typeName, value string) string {
	return indent + typeName + " " + name + " = " + value + ";\n"
}

func (d *Dialect) DeclareList(indent, name, typeName string, elements []generator.Element) (string, error) {
	builder := &strings.Builder{}
	builder.WriteString(indent + typeName + " " + name + ";\n")
	for _, element := range elements {
		if element.Named {
			return "", &generator.GenerationError{Dialect: "C++", Message: "sequence members must be simple values"}
		}
		builder.WriteString(indent + name + ".push_back(" + element.Expr + ");\n")
	}
	return builder.String(), nil
}

func (d *Dialect) DeclareMap(indent, name, typeName string, entries [][2]generator.Element) (string, error) {
	builder := &strings.Builder{}
	builder.WriteString(indent + typeName + " " + name + ";\n")
	for _, entry := range entries {
		if entry[0].Named || entry[1].Named {
			return "", &generator.GenerationError{Dialect: "C++", Message: "mapping members must be simple values"}
		}
		builder.WriteString(indent + name + "[" + entry[0].Expr + "] = " + entry[1].Expr + ";\n")
	}
	return builder.String(), nil
}

func (d *Dialect) DefaultConstruct(indent, name, className string) string {
	return indent + className + " * " + name + " = new " + className + ";\n"
}

func (d *Dialect) IsConstructorName(function, className string) bool {
	return function != "" && function == className
}

func (d *Dialect) ConstructorReceiver(name, className string) string {
	return className + " * " + name + " = new " + className
}

func (d *Dialect) DestructorStatement(name string) string {
	return "delete " + name
}

func (d *Dialect) MethodReceiver(name, function string) string {
	return name + "->" + function
}

func (d *Dialect) QualifyCallee(calleeRepr string, calleeType graph.LanguageType, function string) string {
	if calleeType == graph.LanguageTypeClass {
		return calleeRepr + "::" + function
	}
	return function
}

func (d *Dialect) SkipArgument(call *graph.FunctionCall, index int) bool {
	return false
}

func (d *Dialect) NamedArgument(name, value string) string {
	return value
}

func (d *Dialect) ComposeCall(receiver string, args []string) string {
	return receiver + "(" + strings.Join(args, ", ") + ")"
}

// EqualAssertion degrades to the bare call: there is no portable assertion
// facility to target, so the generated test still exercises the call path.
func (d *Dialect) EqualAssertion(expected, callExpr string) string {
	return callExpr
}

func (d *Dialect) RaiseAssertion(excClass, receiver string, args []string) string {
	return d.ComposeCall(receiver, args)
}

func (d *Dialect) InlineAssert(callExpr, expected string) string {
	return "assert(" + callExpr + " == " + expected + ")"
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
