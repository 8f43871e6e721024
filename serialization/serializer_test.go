package serialization_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/calltrace/graph"
	"github.com/viant/calltrace/serialization"
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

func pythonExecution(t *testing.T) *graph.ProgramExecution {
	execution := graph.NewProgramExecution(graph.LanguagePython)
	module := addObject(t, execution, 1, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"mymod"`, nil)
	class := addObject(t, execution, 2, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"mymod.MyClass"`, module)
	receiver := addObject(t, execution, 3, graph.LanguageTypeInstance, graph.DeclarationConstructor, "null", class)
	number := addObject(t, execution, 4, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "10", class)
	text := addObject(t, execution, 5, graph.LanguageTypeInstance, graph.DeclarationFixedValue, `"hello"`, class)

	execution.AddCall(&graph.FunctionCall{
		ID:       1,
		Callee:   receiver,
		Function: "__init__",
		Kind:     graph.MethodKindConstructor,
		Arguments: []*graph.Argument{
			{Object: number},
			{Object: text, Name: "label"},
		},
		Level:    graph.MinLevel,
		Returned: receiver,
		Elapsed:  1500 * time.Millisecond,
	})
	execution.AddCall(&graph.FunctionCall{
		ID:             2,
		Callee:         module,
		Function:       "run",
		Kind:           graph.MethodKindMethod,
		Level:          graph.MinLevel + 1,
		Returned:       text,
		ThrewException: true,
	})
	return execution
}

func TestSerializerRoundTrip(t *testing.T) {
	execution := pythonExecution(t)
	serializer := &serialization.Serializer{}

	buffer := new(bytes.Buffer)
	if !assert.Nil(t, serializer.Dump(execution, buffer)) {
		return
	}
	loaded, err := serializer.Load(bytes.NewReader(buffer.Bytes()))
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, execution.Language, loaded.Language)
	if !assert.Equal(t, len(execution.Objects()), len(loaded.Objects())) {
		return
	}
	for i, expect := range execution.Objects() {
		actual := loaded.Objects()[i]
		assert.Equal(t, expect.ID, actual.ID)
		assert.Equal(t, expect.Type, actual.Type)
		assert.Equal(t, expect.Declaration, actual.Declaration)
		assert.Equal(t, expect.Code, actual.Code)
		assert.Equal(t, expect.ParentID(), actual.ParentID())
	}

	if !assert.Equal(t, len(execution.Calls()), len(loaded.Calls())) {
		return
	}
	for i, expect := range execution.Calls() {
		actual := loaded.Calls()[i]
		assert.Equal(t, expect.ID, actual.ID)
		assert.Equal(t, expect.Callee.ID, actual.Callee.ID)
		assert.Equal(t, expect.Function, actual.Function)
		assert.Equal(t, expect.Kind, actual.Kind)
		assert.Equal(t, expect.Level, actual.Level)
		assert.Equal(t, expect.ThrewException, actual.ThrewException)
		assert.Equal(t, expect.Elapsed, actual.Elapsed)
		if !assert.Equal(t, len(expect.Arguments), len(actual.Arguments)) {
			continue
		}
		for j, argument := range expect.Arguments {
			assert.Equal(t, argument.Object.ID, actual.Arguments[j].Object.ID)
			assert.Equal(t, argument.Name, actual.Arguments[j].Name)
		}
		if expect.Returned != nil {
			assert.Equal(t, expect.Returned.ID, actual.Returned.ID)
		}
	}

	// dumping the loaded graph reproduces the document byte for byte
	second := new(bytes.Buffer)
	if assert.Nil(t, serializer.Dump(loaded, second)) {
		assert.Equal(t, buffer.String(), second.String())
	}
}

func TestSerializerDumpShape(t *testing.T) {
	execution := pythonExecution(t)
	serializer := &serialization.Serializer{}
	buffer := new(bytes.Buffer)
	if !assert.Nil(t, serializer.Dump(execution, buffer)) {
		return
	}
	document := buffer.String()
	assert.Contains(t, document, `"language": "Python"`)
	assert.Contains(t, document, `"name": "Instance"`)
	// declaration payloads are embedded as raw JSON, not escaped strings
	assert.Contains(t, document, `"declarationCode": "mymod.MyClass"`)
	assert.Contains(t, document, `"declarationCode": 10`)
	assert.Contains(t, document, `"totalTime": 1.5`)
	assert.Contains(t, document, `"label": 5`)
	// python arguments are bare object ids
	assert.NotContains(t, document, `"argType"`)
}

func TestSerializerRichArguments(t *testing.T) {
	execution := graph.NewProgramExecution(graph.LanguageCPP)
	module := addObject(t, execution, 1, graph.LanguageTypeModule, graph.DeclarationFixedValue, `"MyLib.h"`, nil)
	class := addObject(t, execution, 2, graph.LanguageTypeClass, graph.DeclarationFixedValue, `"MyClass"`, module)
	value := addObject(t, execution, 3, graph.LanguageTypeInstance, graph.DeclarationFixedValue, "7", class)
	execution.AddCall(&graph.FunctionCall{
		ID:       1,
		Callee:   module,
		Function: "process",
		Kind:     graph.MethodKindMethod,
		Arguments: []*graph.Argument{
			{Object: value, Mode: graph.PassByReference, Const: true},
			{Object: value, Mode: graph.PassByValue},
		},
		Level: graph.MinLevel,
	})

	serializer := &serialization.Serializer{}
	buffer := new(bytes.Buffer)
	if !assert.Nil(t, serializer.Dump(execution, buffer)) {
		return
	}
	assert.Contains(t, buffer.String(), `"argType": 2`)
	assert.Contains(t, buffer.String(), `"isConst": true`)

	loaded, err := serializer.Load(bytes.NewReader(buffer.Bytes()))
	if !assert.Nil(t, err) {
		return
	}
	arguments := loaded.Calls()[0].Arguments
	if !assert.Equal(t, 2, len(arguments)) {
		return
	}
	assert.Equal(t, graph.PassByReference, arguments[0].Mode)
	assert.True(t, arguments[0].Const)
	assert.Equal(t, graph.PassByValue, arguments[1].Mode)
	assert.False(t, arguments[1].Const)
}

func TestSerializerLoadErrors(t *testing.T) {
	var testCases = []struct {
		description string
		document    string
	}{
		{
			description: "malformed document",
			document:    `{"language": `,
		},
		{
			description: "unsupported language",
			document:    `{"language": "Rust", "languageTypes": [], "languageObjects": [], "callGraph": []}`,
		},
		{
			description: "language type table too short",
			document:    `{"language": "Python", "languageTypes": [{"id": 0, "name": "None"}], "languageObjects": [], "callGraph": []}`,
		},
		{
			description: "language type renamed",
			document: `{"language": "Python", "languageTypes": [
				{"id": 0, "name": "None"}, {"id": 1, "name": "Package"},
				{"id": 2, "name": "Class"}, {"id": 3, "name": "Instance"}],
				"languageObjects": [], "callGraph": []}`,
		},
		{
			description: "undeclared parent",
			document: `{"language": "Python", "languageTypes": [
				{"id": 0, "name": "None"}, {"id": 1, "name": "Module"},
				{"id": 2, "name": "Class"}, {"id": 3, "name": "Instance"}],
				"languageObjects": [
				{"id": 1, "languageTypeId": 2, "declarationType": "FIXED_VALUE", "declarationCode": "Lost", "parentId": 9}],
				"callGraph": []}`,
		},
		{
			description: "undeclared callee",
			document: `{"language": "Python", "languageTypes": [
				{"id": 0, "name": "None"}, {"id": 1, "name": "Module"},
				{"id": 2, "name": "Class"}, {"id": 3, "name": "Instance"}],
				"languageObjects": [],
				"callGraph": [{"id": 1, "calleeId": 5, "funcName": "f", "methodType": "method",
				"level": 0, "returnedObject": 0, "threwException": false, "arguments": {"args": [], "kargs": {}}}]}`,
		},
	}

	serializer := &serialization.Serializer{}
	for _, testCase := range testCases {
		_, err := serializer.Load(strings.NewReader(testCase.document))
		var formatError *serialization.LoadFormatError
		assert.ErrorAs(t, err, &formatError, testCase.description)
	}
}
