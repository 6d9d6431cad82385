package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/models"
	"gopkg.in/yaml.v3"
)

// Options controls how a tree is exported
type Options struct {
	Format        string
	Indent        int
	ShowKinds     bool
	LabelCase     string
	LabelMappings map[string]string
}

// DefaultOptions returns text output with two-space indentation
func DefaultOptions() Options {
	return Options{
		Format:    config.OutputText,
		Indent:    2,
		LabelCase: config.CaseNone,
	}
}

// OptionsFromConfig builds export options from the output and label config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format:        cfg.Output.Format,
		Indent:        cfg.Output.Indent,
		ShowKinds:     cfg.Output.ShowKinds,
		LabelCase:     cfg.Labels.Case,
		LabelMappings: cfg.Labels.Mappings,
	}
}

// Formatter is responsible for rendering trees as plain data
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// exportNode is the serialised shape of a TreeNode
type exportNode struct {
	Label    string        `json:"label" yaml:"label"`
	Kind     string        `json:"kind" yaml:"kind"`
	Type     string        `json:"type" yaml:"type"`
	Children []*exportNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Format renders node in the requested format
func (f *Formatter) Format(node *models.TreeNode, opts Options) (string, error) {
	if node == nil {
		return "", fmt.Errorf("no tree to format")
	}
	if opts.Indent < 0 {
		return "", fmt.Errorf("indent must not be negative, got %d", opts.Indent)
	}

	labels := config.LabelsConfig{Case: opts.LabelCase, Mappings: opts.LabelMappings}

	switch opts.Format {
	case config.OutputText, "":
		return f.formatText(node, opts, labels), nil
	case config.OutputJSON:
		return f.formatJSON(f.export(node, labels), opts.Indent)
	case config.OutputYAML:
		return f.formatYAML(f.export(node, labels), opts.Indent)
	default:
		return "", fmt.Errorf("unknown output format '%s'", opts.Format)
	}
}

// formatText writes one label per line, children indented below their parent
func (f *Formatter) formatText(node *models.TreeNode, opts Options, labels config.LabelsConfig) string {
	var sb strings.Builder
	pad := strings.Repeat(" ", opts.Indent)

	node.Walk(func(n *models.TreeNode, depth int) bool {
		sb.WriteString(strings.Repeat(pad, depth))
		sb.WriteString(textLabel(displayLabel(n, labels)))
		if opts.ShowKinds {
			fmt.Fprintf(&sb, " [%s/%s]", n.Kind, n.ValueType)
		}
		sb.WriteByte('\n')
		return true
	})

	return sb.String()
}

func (f *Formatter) formatJSON(root *exportNode, indent int) (string, error) {
	var (
		data []byte
		err  error
	)
	if indent == 0 {
		data, err = json.Marshal(root)
	} else {
		data, err = json.MarshalIndent(root, "", strings.Repeat(" ", indent))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode tree as JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (f *Formatter) formatYAML(root *exportNode, indent int) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("failed to encode tree as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode tree as YAML: %w", err)
	}
	return buf.String(), nil
}

func (f *Formatter) export(node *models.TreeNode, labels config.LabelsConfig) *exportNode {
	out := &exportNode{
		Label: displayLabel(node, labels),
		Kind:  node.Kind.String(),
		Type:  node.ValueType.String(),
	}
	for _, child := range node.Children {
		out.Children = append(out.Children, f.export(child, labels))
	}
	return out
}

// displayLabel rewrites branch labels only. Value leaves are left as-is.
func displayLabel(node *models.TreeNode, labels config.LabelsConfig) string {
	if node.Kind == models.SimpleValue && node.IsLeaf() {
		return node.Label
	}
	return labels.Display(node.Label)
}

// textLabel quotes labels holding control characters so that each node
// stays on a single line of the outline
func textLabel(label string) string {
	if strings.IndexFunc(label, unicode.IsControl) >= 0 {
		return strconv.Quote(label)
	}
	return label
}
