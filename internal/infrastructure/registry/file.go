package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads a JSON object of public_key -> URL from disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Lookup(_ context.Context, publicKey string) (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", s.path, err)
	}

	var entries map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return "", false, fmt.Errorf("parse %s: %w", s.path, err)
	}

	value, ok := entries[publicKey]
	if !ok || value == nil {
		return "", false, nil
	}

	url, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("destination for %q in %s is %T, want string", publicKey, s.path, value)
	}
	return url, true, nil
}
