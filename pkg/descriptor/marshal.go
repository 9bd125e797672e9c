package descriptor

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML re-emits the descriptor with a fixed field order so that two
// resolutions of the same configuration serialize byte-for-byte identically.
func (d *Descriptor) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value *yaml.Node) {
		m.Content = append(m.Content, yamlStr(key), value)
	}

	add("name", yamlStr(d.Name))
	if d.Moabb != nil {
		add("moabb", yamlMoabb(d.Moabb))
	} else {
		add("toplevel", yamlStr(d.Toplevel))
	}
	add("tmin", yamlFloat(d.TMin))
	add("tlen", yamlFloat(d.TLen))
	if d.Stride != nil {
		add("stride", yamlFloat(*d.Stride))
	}

	events := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, label := range d.EventLabels {
		events.Content = append(events.Content, yamlStr(label), yamlInt(d.Events[label]))
	}
	add("events", events)

	if len(d.Picks) > 0 {
		add("picks", yamlStrSeq(d.Picks))
	}
	if len(d.excludePeople) > 0 {
		add("exclude_people", yamlStrSeq(d.ExcludePeople()))
	}
	if len(d.exclude) > 0 {
		add("exclude", yamlExclude(d.exclude))
	}

	add("decimate", yamlInt(d.Decimate))
	if d.Baseline != nil {
		add("baseline", yamlSpan(*d.Baseline))
	}
	if d.Bandpass != nil {
		add("bandpass", yamlSpan(*d.Bandpass))
	}
	add("drop_bad", yamlBool(d.DropBad))
	if d.Min != nil {
		add("min", yamlFloat(*d.Min))
	}
	if d.Max != nil {
		add("max", yamlFloat(*d.Max))
	}
	add("file_extensions", yamlStrSeq(d.FileExtensions))
	if d.FilenameFormat != "" {
		add("filename_format", yamlStr(d.FilenameFormat))
	}

	extraKeys := make([]string, 0, len(d.Extras))
	for k := range d.Extras {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		var value yaml.Node
		if err := value.Encode(d.Extras[k]); err != nil {
			return nil, err
		}
		add(k, &value)
	}

	return m, nil
}

func yamlStr(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func yamlInt(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func yamlFloat(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func yamlBool(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func yamlNull() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlStrSeq(items []string) *yaml.Node {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, item := range items {
		out.Content = append(out.Content, yamlStr(item))
	}
	return out
}

func yamlSpan(s Span) *yaml.Node {
	out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, bound := range []*float64{s.Lo, s.Hi} {
		if bound == nil {
			out.Content = append(out.Content, yamlNull())
		} else {
			out.Content = append(out.Content, yamlFloat(*bound))
		}
	}
	return out
}

func yamlMoabb(src *MoabbSource) *yaml.Node {
	if len(src.Params) == 0 {
		return yamlStr(src.Name)
	}
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	out.Content = append(out.Content, yamlStr("name"), yamlStr(src.Name))
	keys := make([]string, 0, len(src.Params))
	for k := range src.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(src.Params[k]); err == nil {
			out.Content = append(out.Content, yamlStr(k), &value)
		}
	}
	return out
}

func yamlExclude(subjects map[string]*subjectExclusion) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	subjectKeys := make([]string, 0, len(subjects))
	for k := range subjects {
		subjectKeys = append(subjectKeys, k)
	}
	sort.Strings(subjectKeys)

	for _, subject := range subjectKeys {
		sub := subjects[subject]
		if sub.all {
			out.Content = append(out.Content, yamlStr(subject), yamlNull())
			continue
		}
		inner := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		nodeKeys := make([]string, 0, len(sub.nodes))
		for k := range sub.nodes {
			nodeKeys = append(nodeKeys, k)
		}
		sort.Strings(nodeKeys)
		for _, key := range nodeKeys {
			node := sub.nodes[key]
			if node.all {
				inner.Content = append(inner.Content, yamlStr(key), yamlNull())
				continue
			}
			spans := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, span := range node.spans {
				spans.Content = append(spans.Content, yamlSpan(span))
			}
			inner.Content = append(inner.Content, yamlStr(key), spans)
		}
		out.Content = append(out.Content, yamlStr(subject), inner)
	}
	return out
}
