package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records who set a config value.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch {
	case s.Kind == SourceFile && s.File == "":
		return "file"
	case s.Kind == SourceFile && s.Line > 0:
		return fmt.Sprintf("file:%s:%d:%d", s.File, s.Line, s.Column)
	case s.Kind == SourceFile:
		return "file:" + s.File
	case s.Name != "":
		return string(s.Kind) + ":" + s.Name
	default:
		return string(s.Kind)
	}
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "stackwm", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "stackwm", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the daemon.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		visited: make(map[string]bool),
		sources: make(map[string]Source),
	}

	var raw RawConfig
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges a config file with its includes depth first. Includes are
// applied before the file that names them, so the including file wins.
type loader struct {
	visited map[string]bool
	chain   []string
	sources map[string]Source
	files   []string
}

type includeRef struct {
	path string
	at   Source
}

func (l *loader) load(path string) (RawConfig, error) {
	file, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, err
	}
	if slices.Contains(l.chain, file) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.visited[file] {
		return RawConfig{}, nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}
	top := documentRoot(&doc)

	l.chain = append(l.chain, file)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	var merged RawConfig
	for _, ref := range includeRefs(top, file) {
		paths, err := expandInclude(file, ref.path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s:%d:%d: include %q: %w", ref.at.File, ref.at.Line, ref.at.Column, ref.path, err)
		}
		for _, p := range paths {
			inc, err := l.load(p)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(inc)
		}
	}

	maps.Copy(l.sources, fileSources(top, file))
	l.files = append(l.files, file)
	return merged.merge(own), nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	path, err := resolveInclude(from, include)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func resolveInclude(from, include string) (string, error) {
	switch {
	case include == "":
		return "", fmt.Errorf("path is empty")
	case include == "~" || strings.HasPrefix(include, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(include[1:], "/")), nil
	case filepath.IsAbs(include):
		return include, nil
	default:
		return filepath.Join(filepath.Dir(from), include), nil
	}
}

// fileSources maps every dotted key path written in a document to its
// position. Sequences are recorded as a whole.
func fileSources(node *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key, val := n.Content[i].Value, n.Content[i+1]
				if prefix != "" {
					key = prefix + "." + key
				}
				out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
				walk(val, key)
			}
		case yaml.SequenceNode:
			if prefix != "" {
				out[prefix] = Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
			}
		}
	}
	walk(node, "")
	return out
}

// includeRefs returns the include entries of a document with their
// positions, for error messages.
func includeRefs(node *yaml.Node, file string) []includeRef {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "include" {
			continue
		}
		val := node.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []includeRef{{path: val.Value, at: at(val)}}
		case yaml.SequenceNode:
			refs := make([]includeRef, 0, len(val.Content))
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					refs = append(refs, includeRef{path: item.Value, at: at(item)})
				}
			}
			return refs
		}
	}
	return nil
}

// attachSourceContext fills in the file position of every validation error
// whose path was written by a config file.
func attachSourceContext(err error, sources map[string]Source) error {
	verrs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		verrs = joined.Unwrap()
	}
	for _, e := range verrs {
		var verr *ValidationError
		if !errors.As(e, &verr) || verr.Path == "" {
			continue
		}
		if src, ok := sourceFor(sources, verr.Path); ok {
			verr.Source = src
		}
	}
	return err
}

// sourceFor finds the source of path or of its nearest written parent.
func sourceFor(sources map[string]Source, path string) (Source, bool) {
	for {
		if src, ok := sources[path]; ok {
			return src, true
		}
		i := strings.LastIndex(path, ".")
		if i < 0 {
			return Source{}, false
		}
		path = path[:i]
	}
}
