package capture

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/viant/calltrace/graph"
)

// identity is the deduplication key of a runtime value: instances dedup by
// address reference, everything else by the content hash of its declaration
// payload.
type identity struct {
	byRef bool
	key   uint64
}

// resolver turns runtime value descriptors into deduplicated language
// objects. It is confined to the coordinator goroutine, which makes object id
// allocation a total order: structural parents and container elements always
// receive ids before the value that references them.
type resolver struct {
	execution *graph.ProgramExecution
	known     map[identity]int
	nextID    int
}

func newResolver(execution *graph.ProgramExecution) *resolver {
	return &resolver{execution: execution, known: map[identity]int{}, nextID: 1}
}

// declare resolves a value into its LanguageObject, declaring parents and
// container elements first. A value already seen in this session returns the
// existing object.
func (r *resolver) declare(value *Value, isCallee bool) (*graph.LanguageObject, error) {
	if value == nil {
		value = Null()
	}
	declaration, code, err := r.declarationOf(value, isCallee)
	if err != nil {
		return nil, err
	}
	key, err := r.identityOf(value, code)
	if err != nil {
		return nil, err
	}
	if id, ok := r.known[key]; ok {
		return r.execution.Object(id), nil
	}
	parent, err := r.parentOf(value)
	if err != nil {
		return nil, err
	}
	object, err := graph.NewLanguageObject(r.nextID, languageTypeOf(value), declaration, code, parent)
	if err != nil {
		return nil, err
	}
	if err = r.execution.AddObject(object); err != nil {
		return nil, err
	}
	r.nextID++
	r.known[key] = object.ID
	return object, nil
}

// declarationOf computes the declaration type and JSON payload. Container
// payloads reference element object ids, so elements are resolved here,
// before the container's own id is allocated. Values with no serializable
// literal degrade to a placeholder declaration carrying the class name hint.
func (r *resolver) declarationOf(value *Value, isCallee bool) (graph.DeclarationType, string, error) {
	switch value.Kind {
	case KindList, KindTuple:
		ids := make([]int, 0, len(value.Items))
		for _, item := range value.Items {
			element, err := r.declare(item, false)
			if err != nil {
				return "", "", err
			}
			ids = append(ids, element.ID)
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return "", "", err
		}
		return graph.DeclarationFixedValue, string(data), nil
	case KindMap:
		pairs := make(map[string]int, len(value.Entries))
		for _, entry := range value.Entries {
			key, err := r.declare(entry.Key, false)
			if err != nil {
				return "", "", err
			}
			element, err := r.declare(entry.Value, false)
			if err != nil {
				return "", "", err
			}
			pairs[strconv.Itoa(key.ID)] = element.ID
		}
		data, err := json.Marshal(pairs)
		if err != nil {
			return "", "", err
		}
		return graph.DeclarationFixedValue, string(data), nil
	case KindObject:
		if isCallee {
			return graph.DeclarationConstructor, "null", nil
		}
		return graph.DeclarationDummy, jsonString(value.className()), nil
	}
	code, err := value.literal()
	if err != nil {
		return graph.DeclarationDummy, jsonString(value.className()), nil
	}
	return graph.DeclarationFixedValue, code, nil
}

func (r *resolver) identityOf(value *Value, code string) (identity, error) {
	if value.Kind == KindObject {
		return identity{byRef: true, key: value.Ref}, nil
	}
	hashed, err := contentHash([]byte(fmt.Sprintf("%d:%s", languageTypeOf(value), code)))
	if err != nil {
		return identity{}, err
	}
	return identity{key: hashed}, nil
}

// parentOf resolves the structural parent: modules have none, classes live in
// their defining module, everything else under its class.
func (r *resolver) parentOf(value *Value) (*graph.LanguageObject, error) {
	switch value.Kind {
	case KindModule:
		return nil, nil
	case KindClass:
		return r.declare(Module(value.moduleName()), false)
	case KindObject:
		return r.declare(Class(value.Module, value.Class), false)
	}
	return r.declare(Class("", value.className()), false)
}

func languageTypeOf(value *Value) graph.LanguageType {
	switch value.Kind {
	case KindModule:
		return graph.LanguageTypeModule
	case KindClass:
		return graph.LanguageTypeClass
	}
	return graph.LanguageTypeInstance
}

func jsonString(value string) string {
	data, _ := json.Marshal(value)
	return string(data)
}
