// Package prompts holds the system prompts and user-message templates for the model-backed stages.
// Each JSON file maps a key to a template and is embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// File names one embedded prompt file.
type File string

// Prompt files, one per model-backed stage
const (
	Profile File = "profile.json"
	RoleFit File = "rolefit.json"
	Roadmap File = "roadmap.json"
)

var (
	loadOnce sync.Once
	loaded   map[File]map[string]string
	loadErr  error
)

// all parses every embedded prompt file on first use.
func all() (map[File]map[string]string, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseFiles(promptFiles)
	})
	return loaded, loadErr
}

func parseFiles(fsys fs.FS) (map[File]map[string]string, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	files := make(map[File]map[string]string, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var templates map[string]string
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		files[File(name)] = templates
	}
	return files, nil
}

// Get returns the template stored under key in file.
func Get(file File, key string) (string, error) {
	files, err := all()
	if err != nil {
		return "", err
	}

	templates, ok := files[file]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", file)
	}
	prompt, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot run without. It panics on a missing prompt.
func MustGet(file File, key string) string {
	prompt, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Keys returns the sorted template keys of file.
func Keys(file File) ([]string, error) {
	files, err := all()
	if err != nil {
		return nil, err
	}
	templates, ok := files[file]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", file)
	}
	return slices.Sorted(maps.Keys(templates)), nil
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so values that themselves contain placeholders are left as-is.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
