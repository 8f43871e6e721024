package serialization

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/calltrace/graph"
)

// DumpToURL persists the execution document at the given URL.
func DumpToURL(ctx context.Context, execution *graph.ProgramExecution, URL string) error {
	buffer := new(bytes.Buffer)
	serializer := &Serializer{}
	if err := serializer.Dump(execution, buffer); err != nil {
		return err
	}
	fs := afs.New()
	if err := fs.Upload(ctx, URL, 0644, bytes.NewReader(buffer.Bytes())); err != nil {
		return fmt.Errorf("failed to upload call graph: %s %w", URL, err)
	}
	return nil
}

// LoadFromURL loads a persisted execution document from the given URL.
func LoadFromURL(ctx context.Context, URL string) (*graph.ProgramExecution, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load call graph: %s %w", URL, err)
	}
	serializer := &Serializer{}
	return serializer.Load(bytes.NewReader(data))
}

// UniqueDumpURL returns a URL that does not clash with an existing capture,
// suffixing the base name with (1), (2) and so on until a free name is found.
func UniqueDumpURL(ctx context.Context, URL string) (string, error) {
	fs := afs.New()
	extension := path.Ext(URL)
	base := strings.TrimSuffix(URL, extension)
	candidate := URL
	for index := 1; ; index++ {
		exists, err := fs.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s(%d)%s", base, index, extension)
	}
}
