// Package loader reads spreadsheet scripts: YAML documents listing cell
// assignments that are applied in order.
//
//	cells:
//	- address: A1
//	  contents: "2"
//	- address: B1
//	  contents: =A1*3
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"
)

// Assignment installs Contents at Address
type Assignment struct {
	Address  string `json:"address"`
	Contents string `json:"contents"`
}

type Script struct {
	Cells []Assignment `json:"cells"`
}

type ScriptLoadResult struct {
	Path   string
	Script *Script
	Err    error
}

// collectYAMLFiles returns a list of YAML file paths from the given path.
// If path is a file, it returns a single-element slice.
// If path is a directory, it returns all .yaml and .yml files in the directory (non-recursive).
func collectYAMLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if !isYAML(path) {
			return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// LoadScriptsDetailed loads scripts from a file or directory, returning
// per-file results (including parse errors) so callers can continue on failure.
// Only errors related to accessing the path (stat/readdir) are returned directly.
func LoadScriptsDetailed(path string) ([]ScriptLoadResult, error) {
	files, err := collectYAMLFiles(path)
	if err != nil {
		return nil, err
	}

	results := make([]ScriptLoadResult, 0, len(files))
	for _, file := range files {
		script, loadErr := LoadScript(file)
		results = append(results, ScriptLoadResult{Path: file, Script: script, Err: loadErr})
	}

	return results, nil
}

// LoadScripts loads every script under path, in file name order. The first
// broken file fails the whole load.
func LoadScripts(path string) ([]*Script, error) {
	results, err := LoadScriptsDetailed(path)
	if err != nil {
		return nil, err
	}

	loaded := make([]*Script, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", result.Path, result.Err)
		}
		loaded = append(loaded, result.Script)
	}

	return loaded, nil
}

// LoadScript reads a single script file.
func LoadScript(path string) (*Script, error) {
	data, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes a script document. Unknown fields are rejected so a
// misspelled key does not silently drop an assignment.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.UnmarshalStrict(data, &script); err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}

	for i, a := range script.Cells {
		if a.Address == "" {
			return nil, fmt.Errorf("cells[%d]: address is required", i)
		}
	}

	return &script, nil
}

// loadFile reads a YAML file and returns its content as a byte slice.
func loadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory, provide a path to a script file (.yaml or .yml)", path)
	}

	if !isYAML(path) {
		return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, nil
}
