package registry

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML re-emits the resolved registry as YAML with datasets in
// declaration order, then the passthrough extras. Output is deterministic:
// two resolutions of the same filesystem state serialize identically.
func (r *Registry) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	datasets := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, nd := range r.All() {
		var value yaml.Node
		if err := value.Encode(nd.Descriptor); err != nil {
			return nil, err
		}
		datasets.Content = append(datasets.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: nd.Name},
			&value,
		)
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: datasetsKey},
		datasets,
	)

	for _, extra := range r.extras {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: extra.Key},
			extra.Value.ToYAML(),
		)
	}
	return root, nil
}
