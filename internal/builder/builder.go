// Package builder turns decoded JSON-like values into labelled trees.
//
// Values are classified into four shapes (see analyzer.Classify) and each
// shape has a fixed tree layout:
//
//	simple value  label ─ value
//	simple list   label ─ elem, elem, ...
//	simple dict   label ─ (key ─ value | key ─ elem, elem, ...) per key
//	complex       label ─ Build(key, value) per key, or
//	              label ─ Build(label, elem) per element
//
// A Builder carries no mutable state and may be shared between goroutines.
package builder

import (
	"unicode/utf8"

	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
)

// Builder builds TreeNodes from values
type Builder struct {
	maxDepth int
}

// NewBuilder creates a Builder with the default nesting limit
func NewBuilder() *Builder {
	return &Builder{maxDepth: config.DefaultMaxDepth}
}

// NewBuilderWithConfig creates a Builder using the configured nesting limit
func NewBuilderWithConfig(cfg *config.Config) *Builder {
	return &Builder{maxDepth: cfg.MaxDepth}
}

// Build builds a tree with the default builder
func Build(label string, value models.JSONValue) (*models.TreeNode, error) {
	return NewBuilder().Build(label, value)
}

// Build returns the tree for value with label on its root. On failure no
// tree is returned.
func (b *Builder) Build(label string, value models.JSONValue) (*models.TreeNode, error) {
	if !utf8.ValidString(label) {
		return nil, &errors.InvalidLabelError{Label: label}
	}
	path := label
	if path == "" {
		path = analyzer.DefaultRootLabel
	}
	return b.build(label, value, path, 0)
}

// build dispatches on the shape of value. path locates value for error
// messages and depth counts the containers enclosing it.
func (b *Builder) build(label string, value models.JSONValue, path string, depth int) (*models.TreeNode, error) {
	switch analyzer.Classify(value) {
	case models.SimpleValue:
		return namedValue(label, value), nil
	case models.SimpleList:
		if err := b.checkDepth(path, depth); err != nil {
			return nil, err
		}
		return simpleList(label, value), nil
	case models.SimpleDict:
		if err := b.checkDepth(path, depth); err != nil {
			return nil, err
		}
		return b.simpleDict(label, value, path, depth)
	default:
		return b.complex(label, value, path, depth)
	}
}

// checkDepth fails when a container at depth would exceed the limit
func (b *Builder) checkDepth(path string, depth int) error {
	if depth+1 > b.maxDepth {
		return &errors.DepthExceededError{Path: path, Limit: b.maxDepth}
	}
	return nil
}

// leaf is the node for a bare simple value
func leaf(value models.JSONValue) *models.TreeNode {
	valueType, _ := analyzer.TypeOf(value)
	return &models.TreeNode{
		Label:     analyzer.FormatScalar(value),
		Kind:      models.SimpleValue,
		ValueType: valueType,
	}
}

// namedValue is a key/value pair rendered as parent and child
func namedValue(label string, value models.JSONValue) *models.TreeNode {
	child := leaf(value)
	return &models.TreeNode{
		Label:     label,
		Kind:      models.SimpleValue,
		ValueType: child.ValueType,
		Children:  []*models.TreeNode{child},
	}
}

func simpleList(label string, value models.JSONValue) *models.TreeNode {
	elems, _ := analyzer.Elements(value)
	node := &models.TreeNode{
		Label:     label,
		Kind:      models.SimpleList,
		ValueType: models.List,
		Children:  make([]*models.TreeNode, 0, len(elems)),
	}
	for _, elem := range elems {
		node.Children = append(node.Children, leaf(elem))
	}
	return node
}

func (b *Builder) simpleDict(label string, value models.JSONValue, path string, depth int) (*models.TreeNode, error) {
	members, _, err := analyzer.Members(value, path)
	if err != nil {
		return nil, err
	}

	node := &models.TreeNode{
		Label:     label,
		Kind:      models.SimpleDict,
		ValueType: models.Dict,
		Children:  make([]*models.TreeNode, 0, len(members)),
	}
	for _, m := range members {
		if analyzer.IsSimpleValue(m.Value) {
			node.Children = append(node.Children, namedValue(m.Key, m.Value))
			continue
		}
		if err := b.checkDepth(analyzer.KeyPath(path, m.Key), depth+1); err != nil {
			return nil, err
		}
		node.Children = append(node.Children, simpleList(m.Key, m.Value))
	}
	return node, nil
}

func (b *Builder) complex(label string, value models.JSONValue, path string, depth int) (*models.TreeNode, error) {
	if members, ok, err := analyzer.Members(value, path); ok {
		if err != nil {
			return nil, err
		}
		if err := b.checkDepth(path, depth); err != nil {
			return nil, err
		}

		node := &models.TreeNode{
			Label:     label,
			Kind:      models.Complex,
			ValueType: models.Dict,
			Children:  make([]*models.TreeNode, 0, len(members)),
		}
		for _, m := range members {
			child, err := b.build(m.Key, m.Value, analyzer.KeyPath(path, m.Key), depth+1)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	}

	if elems, ok := analyzer.Elements(value); ok {
		if err := b.checkDepth(path, depth); err != nil {
			return nil, err
		}

		node := &models.TreeNode{
			Label:     label,
			Kind:      models.Complex,
			ValueType: models.List,
			Children:  make([]*models.TreeNode, 0, len(elems)),
		}
		// Elements are built under the label of the list itself
		for i, elem := range elems {
			child, err := b.build(label, elem, analyzer.IndexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	}

	return nil, &errors.UnsupportedValueError{Path: path, Type: analyzer.TypeName(value)}
}
