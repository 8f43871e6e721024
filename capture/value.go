package capture

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates runtime value descriptors.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindTuple
	KindMap
	KindModule
	KindClass
	KindObject
)

// builtinsModule groups the primitive classes the way the source language
// runtime does.
const builtinsModule = "__builtin__"

// Value describes a runtime value observed by an instrumentation producer.
// The capture pipeline never touches live program values; producers translate
// them into descriptors before publishing, so descriptors must stay immutable
// once published.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Items   []*Value
	Entries []MapEntry
	// Module is the defining module; for module descriptors it is the module
	// name itself.
	Module string
	// Class names the value's class for class and object descriptors.
	Class string
	// Ref is the instance identity, stable for the object's lifetime.
	Ref uint64
}

// MapEntry is one key/value pair of a map descriptor, in observed order.
type MapEntry struct {
	Key   *Value
	Value *Value
}

func Null() *Value                { return &Value{Kind: KindNull} }
func Bool(value bool) *Value      { return &Value{Kind: KindBool, Bool: value} }
func Int(value int64) *Value      { return &Value{Kind: KindInt, Int: value} }
func Float(value float64) *Value  { return &Value{Kind: KindFloat, Float: value} }
func String(value string) *Value  { return &Value{Kind: KindString, Str: value} }
func List(items ...*Value) *Value { return &Value{Kind: KindList, Items: items} }

func Tuple(items ...*Value) *Value {
	return &Value{Kind: KindTuple, Items: items}
}

func Map(entries ...MapEntry) *Value {
	return &Value{Kind: KindMap, Entries: entries}
}

func Entry(key, value *Value) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// Module describes a loaded module by name.
func Module(name string) *Value {
	return &Value{Kind: KindModule, Module: name}
}

// Class describes a class by defining module and name. An empty module marks
// a builtin class.
func Class(module, name string) *Value {
	return &Value{Kind: KindClass, Module: module, Class: name}
}

// Object describes an opaque instance by class and identity reference.
func Object(module, class string, ref uint64) *Value {
	return &Value{Kind: KindObject, Module: module, Class: class, Ref: ref}
}

// className returns the name of the class the value belongs to.
func (v *Value) className() string {
	switch v.Kind {
	case KindNull:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "dict"
	case KindObject, KindClass:
		return v.Class
	}
	return ""
}

// moduleName returns the module defining the value's class.
func (v *Value) moduleName() string {
	switch v.Kind {
	case KindModule:
		return v.Module
	case KindClass, KindObject:
		if v.Module == "" {
			return builtinsModule
		}
		return v.Module
	}
	return builtinsModule
}

// qualifiedClass renders the class name the way generated code references it:
// builtin classes stay bare, the rest carry their module prefix.
func (v *Value) qualifiedClass() string {
	module := v.moduleName()
	if module == builtinsModule {
		return v.className()
	}
	return module + "." + v.className()
}

// literal renders the scalar declaration payload as JSON. Containers are
// rebuilt from element ids by the resolver and never pass through here.
func (v *Value) literal() (string, error) {
	switch v.Kind {
	case KindNull:
		return "null", nil
	case KindBool:
		return strconv.FormatBool(v.Bool), nil
	case KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case KindFloat:
		data, err := json.Marshal(v.Float)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case KindString:
		data, err := json.Marshal(v.Str)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case KindModule:
		data, err := json.Marshal(v.Module)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case KindClass:
		data, err := json.Marshal(v.qualifiedClass())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("value kind %d has no literal form", v.Kind)
}
