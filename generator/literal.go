package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LiteralKind discriminates decoded declaration payloads.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBool
	LiteralNumber
	LiteralString
	LiteralList
	LiteralMap
)

// Literal is a decoded declaration payload. Container literals reference
// already declared element objects by id.
type Literal struct {
	Kind    LiteralKind
	Bool    bool
	Number  string
	Str     string
	Elems   []int
	Entries []LiteralEntry
}

// LiteralEntry is one mapping entry, both sides object ids.
type LiteralEntry struct {
	Key   int
	Value int
}

// ParseLiteral decodes a declaration payload. Container members are object id
// references; mapping keys travel as JSON object keys and are restored to ids
// here.
func ParseLiteral(code string) (*Literal, error) {
	decoder := json.NewDecoder(strings.NewReader(code))
	decoder.UseNumber()
	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed declaration payload %q: %w", code, err)
	}
	return fromRaw(raw)
}

func fromRaw(raw interface{}) (*Literal, error) {
	switch value := raw.(type) {
	case nil:
		return &Literal{Kind: LiteralNull}, nil
	case bool:
		return &Literal{Kind: LiteralBool, Bool: value}, nil
	case json.Number:
		return &Literal{Kind: LiteralNumber, Number: value.String()}, nil
	case string:
		return &Literal{Kind: LiteralString, Str: value}, nil
	case []interface{}:
		literal := &Literal{Kind: LiteralList}
		for _, element := range value {
			id, err := objectID(element)
			if err != nil {
				return nil, err
			}
			literal.Elems = append(literal.Elems, id)
		}
		return literal, nil
	case map[string]interface{}:
		literal := &Literal{Kind: LiteralMap}
		for key, element := range value {
			keyID, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("mapping key %q is not an object id", key)
			}
			valueID, err := objectID(element)
			if err != nil {
				return nil, err
			}
			literal.Entries = append(literal.Entries, LiteralEntry{Key: keyID, Value: valueID})
		}
		sort.Slice(literal.Entries, func(i, j int) bool {
			return literal.Entries[i].Key < literal.Entries[j].Key
		})
		return literal, nil
	}
	return nil, fmt.Errorf("unsupported declaration payload: %T", raw)
}

func objectID(raw interface{}) (int, error) {
	number, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("container member %v is not an object id", raw)
	}
	id, err := strconv.Atoi(number.String())
	if err != nil {
		return 0, fmt.Errorf("container member %v is not an object id", raw)
	}
	return id, nil
}
