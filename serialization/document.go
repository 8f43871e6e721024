package serialization

import (
	"bytes"
	"encoding/json"

	"github.com/viant/calltrace/graph"
)

// Document is the persisted form of a program execution.
type Document struct {
	Language        string               `json:"language"`
	LanguageTypes   []LanguageTypeRecord `json:"languageTypes"`
	LanguageObjects []ObjectRecord       `json:"languageObjects"`
	CallGraph       []CallRecord         `json:"callGraph"`
}

// LanguageTypeRecord pins the language type table the document was written
// with, letting a reader reject incompatible producers.
type LanguageTypeRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ObjectRecord is one persisted LanguageObject. ParentID 0 marks a top rank
// object. DeclarationCode embeds the payload as raw JSON rather than an
// escaped string.
type ObjectRecord struct {
	ID              int             `json:"id"`
	LanguageTypeID  int             `json:"languageTypeId"`
	DeclarationType string          `json:"declarationType"`
	DeclarationCode json.RawMessage `json:"declarationCode"`
	ParentID        int             `json:"parentId"`
}

// CallRecord is one persisted FunctionCall. ReturnedObject 0 marks a call
// that never completed.
type CallRecord struct {
	ID             int             `json:"id"`
	CalleeID       int             `json:"calleeId"`
	FuncName       string          `json:"funcName"`
	MethodType     string          `json:"methodType"`
	Level          int             `json:"level"`
	ReturnedObject int             `json:"returnedObject"`
	ThrewException bool            `json:"threwException"`
	TotalTime      float64         `json:"totalTime,omitempty"`
	Arguments      ArgumentsRecord `json:"arguments"`
}

// ArgumentsRecord splits call arguments into positional entries and keyword
// name to id references.
type ArgumentsRecord struct {
	Args  []ArgRecord    `json:"args"`
	Kargs map[string]int `json:"kargs"`
}

// ArgRecord is one positional argument reference. Python documents persist a
// bare object id; C-like documents persist an object carrying the passing
// mode and const qualifier.
type ArgRecord struct {
	ID    int
	Mode  graph.PassingMode
	Const bool
	Rich  bool
}

type richArg struct {
	ID      int  `json:"id"`
	ArgType int  `json:"argType"`
	IsConst bool `json:"isConst"`
}

func (a ArgRecord) MarshalJSON() ([]byte, error) {
	if !a.Rich {
		return json.Marshal(a.ID)
	}
	return json.Marshal(richArg{ID: a.ID, ArgType: int(a.Mode), IsConst: a.Const})
}

func (a *ArgRecord) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var rich richArg
		if err := json.Unmarshal(trimmed, &rich); err != nil {
			return err
		}
		*a = ArgRecord{ID: rich.ID, Mode: graph.PassingMode(rich.ArgType), Const: rich.IsConst, Rich: true}
		return nil
	}
	var id int
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return err
	}
	*a = ArgRecord{ID: id}
	return nil
}
