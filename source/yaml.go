package source

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/oasmd/internal/engine"
	"github.com/reoring/oasmd/tree"
)

func decodeYAML(data []byte, maxDepth int, sink func(eng.SimpleIssue)) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidYAML, err.Error())
	}
	if doc.Kind == 0 {
		return nil, errors.Wrap(ErrInvalidYAML, "empty input")
	}
	c := &yamlConverter{maxDepth: maxDepth, sink: sink}
	return c.value(&doc, "", 0)
}

type yamlConverter struct {
	maxDepth int
	sink     func(eng.SimpleIssue)

	// Node counters for the alias expansion limit.
	decoded    int
	aliased    int
	aliasDepth int
}

// allowedAliasRatio is the share of decoded nodes that may come from alias
// expansion. Small documents may alias freely; large ones are held to 10%.
// The thresholds are those of yaml.v3's own decoder.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= 400000:
		return 0.99
	case decoded >= 4000000:
		return 0.10
	}
	return 0.99 - 0.89*(float64(decoded-400000)/3600000)
}

func (c *yamlConverter) value(n *yaml.Node, path string, depth int) (any, error) {
	c.decoded++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.decoded > 1000 && float64(c.aliased)/float64(c.decoded) > allowedAliasRatio(c.decoded) {
		return nil, errors.Wrapf(ErrInvalidYAML, "excessive aliasing at %s", displayPath(path))
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.value(n.Content[0], path, depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.value(n.Alias, path, depth)
	case yaml.MappingNode:
		if err := c.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		return c.mapping(n, path, depth+1)
	case yaml.SequenceNode:
		if err := c.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := c.value(item, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalar(n), nil
	}
	return nil, nil
}

func (c *yamlConverter) mapping(n *yaml.Node, path string, depth int) (*tree.Object, error) {
	m := tree.NewObject()
	var merges []*tree.Object
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Tag == "!!merge" {
			// "<<: *anchor" or "<<: [*a, *b]"; explicit keys win.
			v, err := c.value(vn, path, depth)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case *tree.Object:
				merges = append(merges, t)
			case []any:
				for _, e := range t {
					if o, ok := e.(*tree.Object); ok {
						merges = append(merges, o)
					}
				}
			}
			continue
		}
		key := kn.Value
		v, err := c.value(vn, path+"/"+escape(key), depth)
		if err != nil {
			return nil, err
		}
		if m.Set(key, v) && c.sink != nil {
			c.sink(eng.SimpleIssue{Code: "duplicate_key", Path: displayPath(path), Message: "key '" + key + "' duplicated"})
		}
	}
	for _, src := range merges {
		for _, k := range src.Keys() {
			if !m.Has(k) {
				v, _ := src.Get(k)
				m.Set(k, v)
			}
		}
	}
	return m, nil
}

func (c *yamlConverter) checkDepth(path string, depth int) error {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return errors.Wrapf(ErrInvalidYAML, "max depth %d exceeded at %s", c.maxDepth, displayPath(path))
	}
	return nil
}

func scalar(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int", "!!float":
		return tree.Number(numberLiteral(n.Value))
	}
	return n.Value
}

// numberLiteral normalizes YAML-only spellings (0x1F, 1_000, .inf) to JSON text.
func numberLiteral(s string) string {
	if _, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "xXoObB_") {
		return s
	}
	var f float64
	if err := yaml.Unmarshal([]byte(s), &f); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
