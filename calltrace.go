// Package calltrace records the function call behavior of an instrumented
// program as a replayable call graph and regenerates equivalent source code
// from it, either as a standalone program or as a unit test.
package calltrace

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/calltrace/generator"
	"github.com/viant/calltrace/generator/cpp"
	"github.com/viant/calltrace/generator/python"
	"github.com/viant/calltrace/graph"
	"github.com/viant/calltrace/repository"
	"github.com/viant/calltrace/serialization"
)

// Options tunes source generation.
type Options struct {
	// Level filters calls to one nesting level; generator.AllLevels keeps all.
	Level int
	// Kind selects program, program with asserts or unit test output.
	Kind generator.SourceKind
	// ProjectName seeds generated test case names; empty means detect or default.
	ProjectName string
	// Verify parses the generated source and fails on syntax errors.
	Verify bool
}

// NewDialect returns the token dialect emitting the given language.
func NewDialect(language graph.Language) (generator.Dialect, error) {
	switch language {
	case graph.LanguagePython:
		return python.New(), nil
	case graph.LanguageCPP:
		return cpp.New(), nil
	}
	return nil, fmt.Errorf("unsupported language: %v", language)
}

// NewGenerator creates a generator wired with the dialect matching the
// execution's language.
func NewGenerator(execution *graph.ProgramExecution) (*generator.Generator, error) {
	dialect, err := NewDialect(execution.Language)
	if err != nil {
		return nil, err
	}
	return generator.New(execution, dialect), nil
}

// GenerateSource renders the execution according to the options.
func GenerateSource(ctx context.Context, execution *graph.ProgramExecution, options Options) (string, error) {
	gen, err := NewGenerator(execution)
	if err != nil {
		return "", err
	}
	builder := &strings.Builder{}
	if err = gen.Generate(builder, options.Level, options.Kind, options.ProjectName); err != nil {
		return "", err
	}
	source := builder.String()
	if options.Verify {
		if err = generator.VerifySyntax(ctx, execution.Language, []byte(source)); err != nil {
			return "", err
		}
	}
	return source, nil
}

// GenerateFromURL loads a persisted capture and renders it. When the options
// carry no project name, the project owning the document names the output.
func GenerateFromURL(ctx context.Context, URL string, options Options) (string, error) {
	execution, err := serialization.LoadFromURL(ctx, URL)
	if err != nil {
		return "", err
	}
	if options.ProjectName == "" {
		if project, err := repository.New().DetectProject(url.Path(URL)); err == nil {
			options.ProjectName = project.Name
		}
	}
	return GenerateSource(ctx, execution, options)
}
