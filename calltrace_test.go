package calltrace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/calltrace"
	"github.com/viant/calltrace/capture"
	"github.com/viant/calltrace/generator"
	"github.com/viant/calltrace/graph"
)

func TestNewDialect(t *testing.T) {
	python, err := calltrace.NewDialect(graph.LanguagePython)
	if assert.Nil(t, err) {
		assert.Equal(t, graph.LanguagePython, python.Language())
	}
	cpp, err := calltrace.NewDialect(graph.LanguageCPP)
	if assert.Nil(t, err) {
		assert.Equal(t, graph.LanguageCPP, cpp.Language())
	}
	_, err = calltrace.NewDialect(graph.Language("Rust"))
	assert.NotNil(t, err)
}

func TestGenerateSource(t *testing.T) {
	execution := captureExecution(t, "")
	actual, err := calltrace.GenerateSource(context.Background(), execution, calltrace.Options{
		Level:  generator.AllLevels,
		Kind:   generator.SourceProgram,
		Verify: true,
	})
	if !assert.Nil(t, err) {
		return
	}
	expect := "import MyFunctions\n\n" +
		"var0 = MyFunctions.ClassWithConstructor(1, 2)\n" +
		"var0.getX()\n"
	assert.Equal(t, expect, actual)
}

func TestGenerateFromURL(t *testing.T) {
	projectDir := t.TempDir()
	err := os.WriteFile(filepath.Join(projectDir, "pyproject.toml"), []byte("[project]\nname = \"demoapp\"\n"), 0644)
	if !assert.Nil(t, err) {
		return
	}
	dumpURL := filepath.Join(projectDir, "callGraph.json")
	captureExecution(t, dumpURL)

	actual, err := calltrace.GenerateFromURL(context.Background(), dumpURL, calltrace.Options{
		Level:  generator.AllLevels,
		Kind:   generator.SourceUnitTest,
		Verify: true,
	})
	if !assert.Nil(t, err) {
		return
	}
	expect := "import unittest\n" +
		"import MyFunctions\n\n" +
		"class demoappTest(unittest.TestCase):\n" +
		"    def test_main(self):\n" +
		"        var0 = MyFunctions.ClassWithConstructor(1, 2)\n" +
		"        self.assertEqual(1, var0.getX())\n" +
		"\nif __name__ == '__main__':\n" +
		"    unittest.main()\n"
	assert.Equal(t, expect, actual)
}

func TestGenerateFromURLMissingDocument(t *testing.T) {
	_, err := calltrace.GenerateFromURL(context.Background(), filepath.Join(t.TempDir(), "no-such.json"), calltrace.Options{})
	assert.NotNil(t, err)
}

// captureExecution records a constructor with a follow-up getter call,
// optionally dumping the capture, and returns the resulting graph.
func captureExecution(t *testing.T, dumpURL string) *graph.ProgramExecution {
	session, err := capture.Start(&capture.Config{Language: graph.LanguagePython})
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	instance := capture.Object("MyFunctions", "ClassWithConstructor", 1)
	session.Publish(&capture.FunctionEntered{
		CorrelationID: 1,
		Callee:        instance,
		Function:      "__init__",
		Kind:          graph.MethodKindConstructor,
		Args:          []*capture.Value{instance, capture.Int(1), capture.Int(2)},
	})
	session.Publish(&capture.FunctionExited{CorrelationID: 1, Returned: capture.Null()})
	session.Publish(&capture.FunctionEntered{
		CorrelationID: 2,
		Callee:        instance,
		Function:      "getX",
		Kind:          graph.MethodKindMethod,
		Args:          []*capture.Value{instance},
	})
	session.Publish(&capture.FunctionExited{CorrelationID: 2, Returned: capture.Int(1)})
	execution, err := session.End()
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	if dumpURL != "" {
		if !assert.Nil(t, session.Dump(context.Background(), dumpURL)) {
			t.FailNow()
		}
	}
	return execution
}
