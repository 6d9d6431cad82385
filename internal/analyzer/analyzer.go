package analyzer

import (
	"fmt"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
)

// DefaultRootLabel is the path prefix used when the caller gives none.
const DefaultRootLabel = "root"

// Analyzer walks a decoded document and summarizes its shape
type Analyzer struct {
	// config holds configuration settings for analysis
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		config: config.NewConfig(), // Use default config if none provided
	}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

// Analyze counts the values of the document by shape class and concrete
// type. It fails on the same inputs the tree builder rejects, so a
// successful analysis means the document can be built.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootLabel string) (models.Summary, error) {
	if rootLabel == "" {
		rootLabel = DefaultRootLabel
	}

	summary := models.Summary{
		Kinds: make(map[models.Kind]int),
		Types: make(map[models.ValueType]int),
	}
	if err := a.analyzeNode(ir.Root, rootLabel, 0, &summary); err != nil {
		return models.Summary{}, fmt.Errorf("failed to analyze document: %w", err)
	}
	return summary, nil
}

// analyzeNode records node and recurses into its children. depth is the
// number of containers enclosing node.
func (a *Analyzer) analyzeNode(node models.JSONValue, path string, depth int, summary *models.Summary) error {
	valueType, ok := TypeOf(node)
	if !ok {
		return &errors.UnsupportedValueError{Path: path, Type: TypeName(node)}
	}
	summary.Values++
	summary.Types[valueType]++
	summary.Kinds[Classify(node)]++

	if valueType.IsScalar() {
		return nil
	}

	if depth+1 > a.config.MaxDepth {
		return &errors.DepthExceededError{Path: path, Limit: a.config.MaxDepth}
	}
	if depth+1 > summary.MaxDepth {
		summary.MaxDepth = depth + 1
	}

	if valueType == models.Dict {
		members, _, err := Members(node, path)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := a.analyzeNode(m.Value, KeyPath(path, m.Key), depth+1, summary); err != nil {
				return err
			}
		}
		return nil
	}

	elems, _ := Elements(node)
	for i, elem := range elems {
		if err := a.analyzeNode(elem, IndexPath(path, i), depth+1, summary); err != nil {
			return err
		}
	}
	return nil
}
