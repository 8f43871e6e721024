package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/viant/calltrace/graph"
)

const jsonIndent = "    "

// LoadFormatError reports a persisted document whose shape does not match
// what this codec produces.
type LoadFormatError struct {
	Message string
}

func (e *LoadFormatError) Error() string {
	return e.Message
}

// Serializer converts program executions to and from their JSON document
// form, so capture and generation can run as separate processes at different
// times.
type Serializer struct{}

// Dump writes the execution as an indented JSON document, walking the object
// store and call list once in storage order.
func (s *Serializer) Dump(execution *graph.ProgramExecution, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndent)
	return encoder.Encode(s.document(execution))
}

func (s *Serializer) document(execution *graph.ProgramExecution) *Document {
	document := &Document{
		Language:        string(execution.Language),
		LanguageObjects: []ObjectRecord{},
		CallGraph:       []CallRecord{},
	}
	for _, languageType := range execution.LanguageTypes() {
		document.LanguageTypes = append(document.LanguageTypes, LanguageTypeRecord{
			ID:   int(languageType),
			Name: languageType.String(),
		})
	}
	for _, object := range execution.Objects() {
		document.LanguageObjects = append(document.LanguageObjects, ObjectRecord{
			ID:              object.ID,
			LanguageTypeID:  int(object.Type),
			DeclarationType: string(object.Declaration),
			DeclarationCode: json.RawMessage(object.Code),
			ParentID:        object.ParentID(),
		})
	}
	rich := execution.Language == graph.LanguageCPP
	for _, call := range execution.Calls() {
		record := CallRecord{
			ID:             call.ID,
			CalleeID:       call.Callee.ID,
			FuncName:       call.Function,
			MethodType:     string(call.Kind),
			Level:          call.Level,
			ThrewException: call.ThrewException,
			TotalTime:      call.Elapsed.Seconds(),
			Arguments:      ArgumentsRecord{Args: []ArgRecord{}, Kargs: map[string]int{}},
		}
		if call.Returned != nil {
			record.ReturnedObject = call.Returned.ID
		}
		for _, argument := range call.Arguments {
			if argument.Name != "" {
				record.Arguments.Kargs[argument.Name] = argument.Object.ID
				continue
			}
			record.Arguments.Args = append(record.Arguments.Args, ArgRecord{
				ID:    argument.Object.ID,
				Mode:  argument.Mode,
				Const: argument.Const,
				Rich:  rich,
			})
		}
		document.CallGraph = append(document.CallGraph, record)
	}
	return document
}

// Load reconstructs an execution from its document form. The language type
// table must match the expected set exactly, parents must be declared before
// their children and every id reference must resolve.
func (s *Serializer) Load(reader io.Reader) (*graph.ProgramExecution, error) {
	document := &Document{}
	if err := json.NewDecoder(reader).Decode(document); err != nil {
		return nil, &LoadFormatError{Message: fmt.Sprintf("malformed call graph document: %v", err)}
	}
	return s.execution(document)
}

func (s *Serializer) execution(document *Document) (*graph.ProgramExecution, error) {
	language := graph.Language(document.Language)
	switch language {
	case graph.LanguagePython, graph.LanguageCPP:
	default:
		return nil, &LoadFormatError{Message: fmt.Sprintf("unsupported language: %q", document.Language)}
	}
	if err := validateLanguageTypes(document.LanguageTypes); err != nil {
		return nil, err
	}
	execution := graph.NewProgramExecution(language)
	for _, record := range document.LanguageObjects {
		var parent *graph.LanguageObject
		if record.ParentID != 0 {
			if parent = execution.Object(record.ParentID); parent == nil {
				return nil, &LoadFormatError{Message: fmt.Sprintf("language object %d references undeclared parent %d", record.ID, record.ParentID)}
			}
		}
		object, err := graph.NewLanguageObject(record.ID, graph.LanguageType(record.LanguageTypeID), graph.DeclarationType(record.DeclarationType), string(record.DeclarationCode), parent)
		if err != nil {
			return nil, err
		}
		if err = execution.AddObject(object); err != nil {
			return nil, err
		}
	}
	for i := range document.CallGraph {
		call, err := s.call(execution, &document.CallGraph[i])
		if err != nil {
			return nil, err
		}
		execution.AddCall(call)
	}
	return execution, nil
}

func (s *Serializer) call(execution *graph.ProgramExecution, record *CallRecord) (*graph.FunctionCall, error) {
	callee := execution.Object(record.CalleeID)
	if callee == nil {
		return nil, &LoadFormatError{Message: fmt.Sprintf("call %d references undeclared callee %d", record.ID, record.CalleeID)}
	}
	arguments := make([]*graph.Argument, 0, len(record.Arguments.Args)+len(record.Arguments.Kargs))
	for _, arg := range record.Arguments.Args {
		object := execution.Object(arg.ID)
		if object == nil {
			return nil, &LoadFormatError{Message: fmt.Sprintf("call %d references undeclared argument %d", record.ID, arg.ID)}
		}
		arguments = append(arguments, &graph.Argument{Object: object, Mode: arg.Mode, Const: arg.Const})
	}
	names := make([]string, 0, len(record.Arguments.Kargs))
	for name := range record.Arguments.Kargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := record.Arguments.Kargs[name]
		object := execution.Object(id)
		if object == nil {
			return nil, &LoadFormatError{Message: fmt.Sprintf("call %d references undeclared argument %d", record.ID, id)}
		}
		arguments = append(arguments, &graph.Argument{Object: object, Name: name})
	}
	var returned *graph.LanguageObject
	if record.ReturnedObject != 0 {
		if returned = execution.Object(record.ReturnedObject); returned == nil {
			return nil, &LoadFormatError{Message: fmt.Sprintf("call %d references undeclared result %d", record.ID, record.ReturnedObject)}
		}
	}
	return &graph.FunctionCall{
		ID:             record.ID,
		Callee:         callee,
		Function:       record.FuncName,
		Kind:           graph.MethodKind(record.MethodType),
		Arguments:      arguments,
		Level:          record.Level,
		Returned:       returned,
		ThrewException: record.ThrewException,
		Elapsed:        time.Duration(record.TotalTime * float64(time.Second)),
	}, nil
}

func validateLanguageTypes(records []LanguageTypeRecord) error {
	expected := graph.AllLanguageTypes()
	if len(records) != len(expected) {
		return &LoadFormatError{Message: fmt.Sprintf("language type table has %d entries, expected %d", len(records), len(expected))}
	}
	seen := map[int]bool{}
	for _, record := range records {
		if graph.LanguageType(record.ID).String() != record.Name {
			return &LoadFormatError{Message: fmt.Sprintf("invalid language type: id %d named %q", record.ID, record.Name)}
		}
		seen[record.ID] = true
	}
	for _, languageType := range expected {
		if !seen[int(languageType)] {
			return &LoadFormatError{Message: fmt.Sprintf("language type table misses %s", languageType)}
		}
	}
	return nil
}
