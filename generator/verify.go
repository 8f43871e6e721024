package generator

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/calltrace/graph"
)

// VerifySyntax parses generated source with the grammar of the target
// language and fails when the parse tree contains error or missing nodes.
func VerifySyntax(ctx context.Context, language graph.Language, source []byte) error {
	var grammar *sitter.Language
	switch language {
	case graph.LanguagePython:
		grammar = python.GetLanguage()
	case graph.LanguageCPP:
		grammar = cpp.GetLanguage()
	default:
		return &GenerationError{Dialect: string(language), Message: "no grammar available"}
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return err
	}
	defer tree.Close()
	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	node := firstErrorNode(root)
	return &GenerationError{
		Dialect: string(language),
		Message: fmt.Sprintf("emitted source is not parseable at %d:%d", node.StartPoint().Row+1, node.StartPoint().Column+1),
	}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstErrorNode(child)
	}
	return node
}
