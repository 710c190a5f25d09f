package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/crudcontract/pkg/stub"
)

// stubFile is the content of a stub file: a single stub or a list.
type stubFile []*stub.Stub

func (f *stubFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []*stub.Stub
		if err := node.Decode(&list); err != nil {
			return err
		}
		*f = list
		return nil
	}
	var single stub.Stub
	if err := node.Decode(&single); err != nil {
		return err
	}
	*f = stubFile{&single}
	return nil
}

// LoadStubs returns the inline stubs followed by the stubs of every file
// matched by StubFiles. Files of one pattern load in lexical order.
// Stubs are not validated; the engine does that on registration.
func (c *Config) LoadStubs() ([]*stub.Stub, error) {
	out := make([]*stub.Stub, 0, len(c.Stubs))
	for _, s := range c.Stubs {
		out = append(out, s.Clone())
	}

	seen := make(map[string]bool)
	for _, pattern := range c.StubFiles {
		files, err := doublestar.FilepathGlob(c.ResolvePath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid stub pattern %q: %w", pattern, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w: no files match %q", ErrFileNotFound, pattern)
		}
		sort.Strings(files)

		for _, path := range files {
			if seen[path] {
				continue
			}
			seen[path] = true

			stubs, err := LoadStubFile(path)
			if err != nil {
				return nil, err
			}
			out = append(out, stubs...)
		}
	}
	return out, nil
}

// LoadStubFile reads one YAML or JSON stub file.
func LoadStubFile(path string) ([]*stub.Stub, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var f stubFile
	dec := yaml.NewDecoder(bytes.NewReader([]byte(ExpandEnvVars(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", filepath.Base(path), ErrInvalidYAML, err)
	}
	return f, nil
}

// WriteStubFile writes stubs to path as YAML, creating parent directories.
func WriteStubFile(path string, stubs []*stub.Stub) error {
	data, err := yaml.Marshal(stubs)
	if err != nil {
		return fmt.Errorf("failed to marshal stubs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
