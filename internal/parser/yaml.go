package parser

import (
	stdjson "encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a single YAML document. Mapping order is kept, integers
// and floats become json.Number like JSON input, and aliases are expanded.
func ParseYAML(reader io.Reader) (models.IntermediateRepresentation, error) {
	return NewParser().ParseYAML(reader)
}

// ParseYAML decodes a single YAML document from reader
func (p *Parser) ParseYAML(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := yaml.NewDecoder(reader)

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, invalidYAML(err)
	}

	var next yaml.Node
	if err := decoder.Decode(&next); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, invalidYAML(err)
	}

	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return newIR(nil, models.FormatYAML), nil
		}
		root = doc.Content[0]
	}

	c := &yamlConverter{maxDepth: p.maxDepth}
	value, err := c.convert(root, rootPath, 0)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return newIR(value, models.FormatYAML), nil
}

// Alias expansion limits, matching the ratios yaml.v3 applies when it
// decodes into Go values itself.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
)

// allowedAliasRatio returns the share of converted values that may come from
// alias expansion. Small documents may be almost entirely aliases; large ones
// may not.
func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= aliasRatioRangeLow:
		return 0.99
	case decodeCount >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-aliasRatioRangeLow)/float64(aliasRatioRangeHigh-aliasRatioRangeLow))
	}
}

// yamlConverter turns one yaml.Node tree into models values. It is used for
// a single document and then discarded.
type yamlConverter struct {
	maxDepth    int
	decodeCount int
	aliasCount  int
	aliasDepth  int
}

// count records a converted node and fails once aliases dominate the output
func (c *yamlConverter) count(node *yaml.Node) error {
	c.decodeCount++
	if c.aliasDepth > 0 {
		c.aliasCount++
	}
	if c.aliasCount > 100 && c.decodeCount > 1000 &&
		float64(c.aliasCount)/float64(c.decodeCount) > allowedAliasRatio(c.decodeCount) {
		return invalidYAML(fmt.Errorf("line %d: document contains excessive aliasing", node.Line))
	}
	return nil
}

func (c *yamlConverter) convert(node *yaml.Node, path string, depth int) (models.JSONValue, error) {
	if err := c.count(node); err != nil {
		return nil, err
	}

	switch node.Kind {
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, invalidYAML(fmt.Errorf("line %d: unresolved alias", node.Line))
		}
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.convert(node.Alias, path, depth)
	case yaml.ScalarNode:
		return convertScalar(node)
	case yaml.SequenceNode:
		if depth+1 > c.maxDepth {
			return nil, tooDeep(path, c.maxDepth)
		}
		arr := make(models.Array, 0, len(node.Content))
		for i, item := range node.Content {
			val, err := c.convert(item, analyzer.IndexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case yaml.MappingNode:
		if depth+1 > c.maxDepth {
			return nil, tooDeep(path, c.maxDepth)
		}
		obj := models.Object{}
		if err := c.convertMapping(node, &obj, path, depth); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, invalidYAML(fmt.Errorf("line %d: unexpected node kind %d", node.Line, node.Kind))
	}
}

// convertMapping adds the pairs of node to obj. Explicit keys override keys
// pulled in through "<<" merges regardless of their order.
func (c *yamlConverter) convertMapping(node *yaml.Node, obj *models.Object, path string, depth int) error {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := resolveAlias(node.Content[i]), node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			if err := c.mergeInto(valNode, obj, explicit, path, depth); err != nil {
				return err
			}
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return errors.NewParsingError(
				fmt.Sprintf("line %d: mapping keys must be scalars", keyNode.Line),
				&errors.InvalidLabelError{Path: path, Label: fmt.Sprintf("<%s>", kindName(keyNode.Kind))},
			)
		}

		key := keyNode.Value
		val, err := c.convert(valNode, analyzer.KeyPath(path, key), depth+1)
		if err != nil {
			return err
		}
		explicit[key] = true
		obj.Set(key, val)
	}
	return nil
}

func (c *yamlConverter) mergeInto(valNode *yaml.Node, obj *models.Object, explicit map[string]bool, path string, depth int) error {
	sources := []*yaml.Node{valNode}
	if resolved := resolveAlias(valNode); resolved.Kind == yaml.SequenceNode {
		sources = resolved.Content
	}

	for _, src := range sources {
		merged, err := c.convert(src, path, depth)
		if err != nil {
			return err
		}
		mapping, ok := merged.(models.Object)
		if !ok {
			return invalidYAML(fmt.Errorf("line %d: merge value must be a mapping", src.Line))
		}
		for _, m := range mapping {
			if explicit[m.Key] {
				continue
			}
			// Earlier merge sources take precedence over later ones
			if _, exists := obj.Get(m.Key); exists {
				continue
			}
			obj.Set(m.Key, m.Value)
		}
	}
	return nil
}

// convertScalar maps a YAML scalar onto the same Go values the JSON decoder
// produces.
func convertScalar(node *yaml.Node) (models.JSONValue, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, invalidYAML(err)
		}
		return b, nil
	case "!!int":
		if _, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
			return stdjson.Number(node.Value), nil
		}
		var i int64
		if err := node.Decode(&i); err == nil {
			return stdjson.Number(strconv.FormatInt(i, 10)), nil
		}
		var u uint64
		if err := node.Decode(&u); err == nil {
			return stdjson.Number(strconv.FormatUint(u, 10)), nil
		}
		return stdjson.Number(node.Value), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, invalidYAML(err)
		}
		if _, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return stdjson.Number(node.Value), nil
		}
		// .inf, .nan and other YAML spellings have no JSON literal
		return f, nil
	default:
		// Strings, timestamps and binary data keep their source text
		return node.Value, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}

func invalidYAML(err error) error {
	return errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidYAML)
}
