package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path (for example
// "screen_padding.top" or "layouts.0.type") and the file that set it.
// Values nobody wrote report SourceDefault.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	var root yaml.Node
	data, err := res.Config.Marshal()
	if err != nil {
		return nil, Source{}, err
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, Source{}, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, part := range strings.Split(path, ".") {
		next, err := child(node, part)
		if err != nil {
			return nil, Source{}, fmt.Errorf("%s: %w", path, err)
		}
		node = next
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, err
	}

	src, ok := sourceFor(res.Sources, path)
	if !ok {
		src = Source{Kind: SourceDefault, Name: "default"}
	}
	return value, src, nil
}

func child(node *yaml.Node, key string) (*yaml.Node, error) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return node.Content[i+1], nil
			}
		}
		return nil, fmt.Errorf("no key %q", key)
	case yaml.SequenceNode:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(node.Content) {
			return nil, fmt.Errorf("no index %q", key)
		}
		return node.Content[i], nil
	default:
		return nil, fmt.Errorf("%q is not a container", key)
	}
}
