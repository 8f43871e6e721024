// Package python emits Python syntax for the code generation driver.
package python

import (
	"fmt"
	"strings"

	"github.com/viant/calltrace/generator"
	"github.com/viant/calltrace/graph"
)

const (
	indentUnit      = "    "
	constructorName = "__init__"
	// maxInlineString is the longest string literal repeated inline; longer
	// ones are bound to a variable once.
	maxInlineString = 50
	defaultTestCase = "UNIT_TEST_CASE"
)

var builtinModules = map[string]bool{
	"__builtin__":  true,
	"__builtins__": true,
	"builtins":     true,
}

// Dialect generates Python statements.
type Dialect struct{}

func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Language() graph.Language {
	return graph.LanguagePython
}

func (d *Dialect) Indent() string {
	return indentUnit
}

func (d *Dialect) Terminator() string {
	return ""
}

func (d *Dialect) FileProlog(kind generator.SourceKind) string {
	if kind == generator.SourceUnitTest {
		return "import unittest\n"
	}
	return ""
}

func (d *Dialect) FileEpilog(kind generator.SourceKind) string {
	if kind == generator.SourceUnitTest {
		return "\nif __name__ == '__main__':\n" + indentUnit + "unittest.main()\n"
	}
	return ""
}

func (d *Dialect) MainProlog(kind generator.SourceKind, projectName string) (string, string) {
	if kind != generator.SourceUnitTest {
		return "", ""
	}
	testCase := defaultTestCase
	if projectName != "" {
		testCase = strings.ReplaceAll(projectName, " ", "_") + "Test"
	}
	prolog := fmt.Sprintf("class %v(unittest.TestCase):\n%vdef test_main(self):\n", testCase, indentUnit)
	return prolog, indentUnit + indentUnit
}

func (d *Dialect) MainEpilog(kind generator.SourceKind) string {
	return ""
}

func (d *Dialect) PlaceholderProlog() string {
	return "from calltrace import dummy\n"
}

func (d *Dialect) ImportModule(name string) string {
	if builtinModules[name] {
		return ""
	}
	return "import " + name + "\n"
}

func (d *Dialect) FormatScalar(literal *generator.Literal) (string, error) {
	switch literal.Kind {
	case generator.LiteralNull:
		return "None", nil
	case generator.LiteralBool:
		if literal.Bool {
			return "True", nil
		}
		return "False", nil
	case generator.LiteralNumber:
		return literal.Number, nil
	case generator.LiteralString:
		return quote(literal.Str), nil
	}
	return "", &generator.GenerationError{Dialect: "Python", Message: fmt.Sprintf("literal kind %d is not scalar", literal.Kind)}
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
	return "dummy.Dummy(" + quote(classHint) + ")"
}

func (d *Dialect) DeclareValue(indent, name, typeName, value string) string {
	return indent + name + " = " + value + "\n"
}

func (d *Dialect) DeclareList(indent, name, typeName string, elements []generator.Element) (string, error) {
	exprs := make([]string, 0, len(elements))
	for _, element := range elements {
		exprs = append(exprs, element.Expr)
	}
	return indent + name + " = [" + strings.Join(exprs, ", ") + "]\n", nil
}

func (d *Dialect) DeclareMap(indent, name, typeName string, entries [][2]generator.Element) (string, error) {
	builder := &strings.Builder{}
	builder.WriteString(indent + name + " = {}\n")
	for _, entry := range entries {
		builder.WriteString(indent + name + "[" + entry[0].Expr + "] = " + entry[1].Expr + "\n")
	}
	return builder.String(), nil
}

func (d *Dialect) DefaultConstruct(indent, name, className string) string {
	return indent + name + " = " + className + "()\n"
}

func (d *Dialect) IsConstructorName(function, className string) bool {
	return function == constructorName
}

func (d *Dialect) ConstructorReceiver(name, className string) string {
	return name + " = " + className
}

func (d *Dialect) DestructorStatement(name string) string {
	return "del " + name
}

func (d *Dialect) MethodReceiver(name, function string) string {
	return name + "." + function
}

func (d *Dialect) QualifyCallee(calleeRepr string, calleeType graph.LanguageType, function string) string {
	if calleeType == graph.LanguageTypeModule && builtinModules[calleeRepr] {
		return function
	}
	return calleeRepr + "." + function
}

// SkipArgument drops the recorded receiver: instance and class method calls
// carry it as their first argument, but generated code passes it implicitly.
func (d *Dialect) SkipArgument(call *graph.FunctionCall, index int) bool {
	if index != 0 {
		return false
	}
	return call.Kind == graph.MethodKindClassMethod || call.Callee.Type == graph.LanguageTypeInstance
}

func (d *Dialect) NamedArgument(name, value string) string {
	return name + " = " + value
}

func (d *Dialect) ComposeCall(receiver string, args []string) string {
	return receiver + "(" + strings.Join(args, ", ") + ")"
}

func (d *Dialect) EqualAssertion(expected, callExpr string) string {
	return "self.assertEqual(" + expected + ", " + callExpr + ")"
}

func (d *Dialect) RaiseAssertion(excClass, receiver string, args []string) string {
	parts := append([]string{excClass, receiver}, args...)
	return "self.assertRaises(" + strings.Join(parts, ", ") + ")"
}

func (d *Dialect) InlineAssert(callExpr, expected string) string {
	return "assert " + callExpr + " == " + expected
}

// quote renders a single quoted Python string literal.
func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	return "'" + escaped + "'"
}
