package capture

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/calltrace/graph"
	"gopkg.in/yaml.v3"
)

const defaultQueueSize = 256

// Config controls a capture session.
type Config struct {
	Language      graph.Language `yaml:"language"`
	QueueSize     int            `yaml:"queueSize,omitempty"`
	DumpURL       string         `yaml:"dumpURL,omitempty"`
	PreserveDumps bool           `yaml:"preserveDumps,omitempty"`
}

// DefaultConfig returns a Python capture configuration that keeps previous
// dumps.
func DefaultConfig() *Config {
	return &Config{
		Language:      graph.LanguagePython,
		QueueSize:     defaultQueueSize,
		DumpURL:       "callGraph.json",
		PreserveDumps: true,
	}
}

func (c *Config) init() {
	if c.Language == "" {
		c.Language = graph.LanguagePython
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.DumpURL == "" {
		c.DumpURL = "callGraph.json"
	}
}

// LoadConfig reads a YAML capture configuration from the given URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load capture config: %s %w", URL, err)
	}
	config := &Config{}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse capture config: %s %w", URL, err)
	}
	config.init()
	return config, nil
}
