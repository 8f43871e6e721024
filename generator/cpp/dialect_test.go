package cpp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/calltrace/generator"
	"github.com/viant/calltrace/generator/cpp"
	"github.com/viant/calltrace/graph"
)

func addObject(t *testing.T, execution *graph.ProgramExecution, id int, languageType graph.LanguageType, declaration graph.DeclarationType, code string, parent *graph.LanguageObject) *graph.LanguageObject {
	object, err := graph.NewLanguageObject(id, languageType, declaration, code, parent)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	if !assert.Nil(t, execution.AddObject(object)) {
		t.FailNow()
	}
	return object
}

func TestGenerateObjectLifecycle(t *testing.T) {
	execution := graph.NewProgramExecution(graph.LanguageCPP)
	header := addObject(t, execution, 1, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"MyClass.h"`, nil)
	class := addObject(t, execution, 2, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"MyClass"`, header)
	receiver := addObject(t, execution, 3, graph.LanguageTypeInstance, graph.DeclarationConstructor, "null", class)
	builtins := addObject(t, execution, 4, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"__builtin__"`, nil)
	intClass := addObject(t, execution, 5, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"int"`, builtins)
	seven := addObject(t, execution, 6, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "7", intClass)

	execution.AddCall(&graph.FunctionCall{
		ID: 1, Callee: receiver, Function: "MyClass", Kind: graph.MethodKindConstructor,
		Arguments: []*graph.Argument{{Object: seven}}, Level: graph.MinLevel,
	})
	execution.AddCall(&graph.FunctionCall{
		ID: 2, Callee: receiver, Function: "getValue", Kind: graph.MethodKindMethod,
		Level: graph.MinLevel, Returned: seven,
	})
	execution.AddCall(&graph.FunctionCall{
		ID: 3, Callee: receiver, Function: "~MyClass", Kind: graph.MethodKindDestructor,
		Level: graph.MinLevel,
	})

	builder := &strings.Builder{}
	err := generator.New(execution, cpp.New()).Generate(builder, graph.MinLevel, generator.SourceProgram, "")
	if !assert.Nil(t, err) {
		return
	}
	expect := "#include <tchar.h>\n" +
		"#include \"MyClass.h\"\n\n" +
		"int _tmain(int argc, _TCHAR* argv[])\n{\n" +
		"\tMyClass * var0 = new MyClass(7);\n" +
		"\tvar0->getValue();\n" +
		"\tdelete var0;\n" +
		"\treturn 0;\n}\n"
	assert.Equal(t, expect, builder.String())
}

func TestGenerateVectorDeclaration(t *testing.T) {
	execution := graph.NewProgramExecution(graph.LanguageCPP)
	header := addObject(t, execution, 1, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"Sink.h"`, nil)
	class := addObject(t, execution, 2, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"Sink"`, header)
	receiver := addObject(t, execution, 3, graph.LanguageTypeInstance, graph.DeclarationConstructor, "null", class)
	vectorModule := addObject(t, execution, 4, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"<vector>"`, nil)
	vectorClass := addObject(t, execution, 5, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"std::vector<int>"`, vectorModule)
	builtins := addObject(t, execution, 6, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"__builtin__"`, nil)
	intClass := addObject(t, execution, 7, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"int"`, builtins)
	seven := addObject(t, execution, 8, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "7", intClass)
	nine := addObject(t, execution, 9, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "9", intClass)
	vector := addObject(t, execution, 10, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "[8,9]", vectorClass)

	execution.AddCall(&graph.FunctionCall{
		ID: 1, Callee: receiver, Function: "Sink", Kind: graph.MethodKindConstructor, Level: graph.MinLevel,
	})
	execution.AddCall(&graph.FunctionCall{
		ID: 2, Callee: receiver, Function: "setAll", Kind: graph.MethodKindMethod,
		Arguments: []*graph.Argument{{Object: vector, Mode: graph.PassByReference, Const: true}},
		Level:     graph.MinLevel,
	})
	_ = seven
	_ = nine

	builder := &strings.Builder{}
	err := generator.New(execution, cpp.New()).Generate(builder, graph.MinLevel, generator.SourceProgram, "")
	if !assert.Nil(t, err) {
		return
	}
	expect := "#include <tchar.h>\n" +
		"#include \"Sink.h\"\n" +
		"#include <vector>\n\n" +
		"int _tmain(int argc, _TCHAR* argv[])\n{\n" +
		"\tSink * var0 = new Sink();\n" +
		"\tstd::vector<int> var3;\n" +
		"\tvar3.push_back(7);\n" +
		"\tvar3.push_back(9);\n" +
		"\tvar0->setAll(var3);\n" +
		"\treturn 0;\n}\n"
	assert.Equal(t, expect, builder.String())
}

func TestDialectErrors(t *testing.T) {
	dialect := cpp.New()

	_, err := dialect.DeclareList("\t", "var0", "std::vector<int>", []generator.Element{{Expr: "var1", Named: true}})
	var generation *generator.GenerationError
	assert.ErrorAs(t, err, &generation)

	_, err = dialect.DeclareMap("\t", "var0", "std::map<int, int>", [][2]generator.Element{{{Expr: "1"}, {Expr: "var1", Named: true}}})
	assert.ErrorAs(t, err, &generation)
}

func TestDialectSyntax(t *testing.T) {
	dialect := cpp.New()
	assert.Equal(t, "", dialect.ImportModule("__builtin__"))
	assert.Equal(t, "#include <vector>\n", dialect.ImportModule("<vector>"))
	assert.Equal(t, "#include \"MyClass.h\"\n", dialect.ImportModule("MyClass.h"))
	assert.Equal(t, "Sink::flush", dialect.QualifyCallee("Sink", graph.LanguageTypeClass, "flush"))
	assert.Equal(t, "process", dialect.QualifyCallee("MyLib.h", graph.LanguageTypeModule, "process"))
	assert.True(t, dialect.IsConstructorName("Sink", "Sink"))
	assert.False(t, dialect.IsConstructorName("flush", "Sink"))

	value, err := dialect.FormatScalar(&generator.Literal{Kind: generator.LiteralString, Str: `say "hi"`})
	assert.Nil(t, err)
	assert.Equal(t, `"say \"hi\""`, value)
}
