package document

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// IncludeTag is the custom tag that marks an include directive.
const IncludeTag = "!include"

// ParseFile reads and parses one YAML document from path.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file %q: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses YAML bytes into the untyped tree. source names the
// origin for error reporting; it is not read.
func ParseBytes(data []byte, source string) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: source, Err: err}
	}

	// An empty file parses to a zero node; treat it as an empty mapping so
	// includes of empty fragments are harmless.
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewMapping(), nil
	}

	return fromYAML(root.Content[0], source)
}

// fromYAML converts one yaml.Node subtree into the document tree,
// recognizing the !include tag on scalar values.
func fromYAML(n *yaml.Node, source string) (*Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		out := &Node{Kind: KindMapping, Line: n.Line, Column: n.Column}
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &ParseError{
					Path: source,
					Err:  fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line),
				}
			}
			key := keyNode.Value
			if seen[key] {
				return nil, &ParseError{
					Path: source,
					Err:  fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key),
				}
			}
			seen[key] = true

			value, err := fromYAML(n.Content[i+1], source)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, Entry{Key: key, Value: value})
		}
		return out, nil

	case yaml.SequenceNode:
		out := &Node{Kind: KindSequence, Line: n.Line, Column: n.Column}
		for _, item := range n.Content {
			converted, err := fromYAML(item, source)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, converted)
		}
		return out, nil

	case yaml.ScalarNode:
		return scalarFromYAML(n, source)

	case yaml.AliasNode:
		return fromYAML(n.Alias, source)

	default:
		return nil, &ParseError{
			Path: source,
			Err:  fmt.Errorf("line %d: unsupported node kind", n.Line),
		}
	}
}

// scalarFromYAML converts a scalar node, dispatching on the resolved tag.
func scalarFromYAML(n *yaml.Node, source string) (*Node, error) {
	if n.Tag == IncludeTag {
		if n.Value == "" {
			return nil, &ParseError{
				Path: source,
				Err:  fmt.Errorf("line %d: !include requires a path", n.Line),
			}
		}
		return &Node{
			Kind:      KindDirective,
			Directive: &Directive{Kind: classifyInclude(n.Value), Target: n.Value},
			Line:      n.Line,
			Column:    n.Column,
		}, nil
	}

	out := &Node{Kind: KindScalar, Line: n.Line, Column: n.Column}
	switch n.Tag {
	case "!!null", "":
		if n.Tag == "!!null" || n.Value == "" {
			out.Kind = KindNull
			return out, nil
		}
		out.Value = n.Value
	case "!!int":
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, &ParseError{
				Path: source,
				Err:  fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value),
			}
		}
		out.Value = v
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, &ParseError{
				Path: source,
				Err:  fmt.Errorf("line %d: invalid float %q", n.Line, n.Value),
			}
		}
		out.Value = v
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, &ParseError{
				Path: source,
				Err:  fmt.Errorf("line %d: invalid boolean %q", n.Line, n.Value),
			}
		}
		out.Value = v
	default:
		// !!str and any unrecognized tag keep the raw string.
		out.Value = n.Value
	}
	return out, nil
}

// ToYAML converts the tree back to a yaml.Node with declaration order
// preserved, for deterministic re-emission of resolved documents.
func (n *Node) ToYAML() *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch n.Kind {
	case KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range n.Entries {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				e.Value.ToYAML(),
			)
		}
		return out
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			out.Content = append(out.Content, item.ToYAML())
		}
		return out
	case KindScalar:
		return scalarToYAML(n.Value)
	case KindDirective:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   IncludeTag,
			Value: n.Directive.Target,
		}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func scalarToYAML(v any) *yaml.Node {
	out := &yaml.Node{Kind: yaml.ScalarNode}
	switch val := v.(type) {
	case string:
		out.Tag = "!!str"
		out.Value = val
	case int:
		out.Tag = "!!int"
		out.Value = strconv.Itoa(val)
	case float64:
		out.Tag = "!!float"
		out.Value = strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		out.Tag = "!!bool"
		out.Value = strconv.FormatBool(val)
	default:
		out.Tag = "!!str"
		out.Value = fmt.Sprint(val)
	}
	return out
}
