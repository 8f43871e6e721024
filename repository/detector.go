// Package repository locates the project owning a capture, so generated test
// cases and dump files can be named after it.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes the host project owning a captured program.
type Project struct {
	RootPath string
	Type     string
	Name     string
}

// Detector identifies project root folders and extracts the project name.
type Detector struct {
	markers []string
}

// New creates a project detector covering the captured language ecosystems.
func New() *Detector {
	return &Detector{
		markers: []string{
			"pyproject.toml",   // Python projects
			"setup.py",         // Python projects
			"requirements.txt", // Python projects
			"CMakeLists.txt",   // C++ projects
			"go.mod",           // Go projects
			"package.json",     // JavaScript/Node projects
			".git",             // Generic VCS marker
		},
	}
}

// DetectProject identifies the project root above the given path and returns
// project info. A path outside any recognized project yields an unknown
// project rooted at the path itself.
func (d *Detector) DetectProject(filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: absPath,
	}
	if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
		info.Name = extractProjectName(rootPath, projectType)
	} else {
		info.Name = filepath.Base(startDir)
	}
	return info, nil
}

// findProjectRoot searches up from the start directory for project markers.
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			markerPath := filepath.Join(dir, marker)
			if _, err := os.Stat(markerPath); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

func determineProjectType(marker string) string {
	switch marker {
	case "pyproject.toml", "setup.py", "requirements.txt":
		return "python"
	case "CMakeLists.txt":
		return "cpp"
	case "go.mod":
		return "go"
	case "package.json":
		return "javascript"
	case ".git":
		return "git"
	}
	return "unknown"
}

// extractProjectName pulls the project name from the root configuration file,
// falling back to the root directory name.
func extractProjectName(rootPath, projectType string) string {
	switch projectType {
	case "python":
		if name := extractPyProjectName(filepath.Join(rootPath, "pyproject.toml")); name != "" {
			return name
		}
		if name := extractSetupName(filepath.Join(rootPath, "setup.py")); name != "" {
			return name
		}
	case "cpp":
		if name := extractCMakeProjectName(filepath.Join(rootPath, "CMakeLists.txt")); name != "" {
			return name
		}
	case "go":
		if name := extractGoModuleName(filepath.Join(rootPath, "go.mod")); name != "" {
			return name
		}
	case "javascript":
		if name := extractJSPackageName(filepath.Join(rootPath, "package.json")); name != "" {
			return name
		}
	}
	return filepath.Base(rootPath)
}

var (
	pyProjectNameRegex = regexp.MustCompile(`(?m)^\s*name\s*=\s*["']([^"']+)["']`)
	setupNameRegex     = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	cmakeProjectRegex  = regexp.MustCompile(`(?i)project\s*\(\s*([A-Za-z0-9_.-]+)`)
	jsNameRegex        = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

func extractPyProjectName(path string) string {
	return extractByRegex(path, pyProjectNameRegex)
}

func extractSetupName(path string) string {
	return extractByRegex(path, setupNameRegex)
}

func extractCMakeProjectName(path string) string {
	return extractByRegex(path, cmakeProjectRegex)
}

func extractJSPackageName(path string) string {
	return extractByRegex(path, jsNameRegex)
}

func extractGoModuleName(goModPath string) string {
	fs := afs.New()
	content, err := fs.DownloadWithURL(context.Background(), goModPath)
	if err != nil || len(content) == 0 {
		return ""
	}
	if mod, _ := modfile.Parse(goModPath, content, nil); mod != nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	return ""
}

func extractByRegex(path string, expr *regexp.Regexp) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	matches := expr.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}
