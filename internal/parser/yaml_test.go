package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_ScalarsMatchJSON(t *testing.T) {
	yamlInput := `
name: John Doe
age: 30
score: 99.5
active: true
city: null
tilde: ~
quoted: "42"
`
	ir, err := ParseYAML(strings.NewReader(yamlInput))
	require.NoError(t, err)

	expectedRoot := models.Object{
		{Key: "name", Value: "John Doe"},
		{Key: "age", Value: json.Number("30")},
		{Key: "score", Value: json.Number("99.5")},
		{Key: "active", Value: true},
		{Key: "city", Value: nil},
		{Key: "tilde", Value: nil},
		{Key: "quoted", Value: "42"},
	}
	assert.Equal(t, expectedRoot, ir.Root)
}

func TestParseYAML_SameAsJSON(t *testing.T) {
	jsonIR, err := ParseString(`{"users": [{"id": 1, "tags": ["a", "b"]}, {"id": 2, "tags": []}], "ok": false}`)
	require.NoError(t, err)

	yamlIR, err := ParseYAML(strings.NewReader(`
users:
  - id: 1
    tags: [a, b]
  - id: 2
    tags: []
ok: false
`))
	require.NoError(t, err)

	assert.Equal(t, jsonIR.Root, yamlIR.Root)
}

func TestParseYAML_IntegerSpellings(t *testing.T) {
	ir, err := ParseYAML(strings.NewReader("hex: 0x1F\noctal: 0o17\n"))
	require.NoError(t, err)

	expectedRoot := models.Object{
		{Key: "hex", Value: json.Number("31")},
		{Key: "octal", Value: json.Number("15")},
	}
	assert.Equal(t, expectedRoot, ir.Root)
}

func TestParseYAML_SpecialFloats(t *testing.T) {
	ir, err := ParseYAML(strings.NewReader("up: .inf\n"))
	require.NoError(t, err)

	obj := ir.Root.(models.Object)
	v, ok := obj.Get("up")
	require.True(t, ok)
	f, ok := v.(float64)
	require.True(t, ok, "got %T", v)
	assert.True(t, math.IsInf(f, 1))
}

func TestParseYAML_AliasesAndMerge(t *testing.T) {
	yamlInput := `
base: &base
  host: localhost
  port: 5432
dev:
  <<: *base
  port: 6543
copy: *base
`
	ir, err := ParseYAML(strings.NewReader(yamlInput))
	require.NoError(t, err)

	obj := ir.Root.(models.Object)
	assert.Equal(t, []string{"base", "dev", "copy"}, obj.Keys())

	dev, _ := obj.Get("dev")
	assert.Equal(t, models.Object{
		{Key: "host", Value: "localhost"},
		{Key: "port", Value: json.Number("6543")},
	}, dev)

	base, _ := obj.Get("base")
	cp, _ := obj.Get("copy")
	assert.Equal(t, base, cp)
}

// nestedAliases builds a document where each level lists the previous level
// ten times, so full expansion grows as 10^levels.
func nestedAliases(levels int, mergeKeys bool) string {
	var sb strings.Builder
	sb.WriteString("l0: &l0 {k0: v, k1: v, k2: v, k3: v, k4: v, k5: v, k6: v, k7: v, k8: v, k9: v}\n")
	for i := 1; i <= levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		if mergeKeys {
			fmt.Fprintf(&sb, "l%d: &l%d {<<: [%s]}\n", i, i, refs)
		} else {
			fmt.Fprintf(&sb, "l%d: &l%d [%s]\n", i, i, refs)
		}
	}
	return sb.String()
}

func TestParseYAML_ModestAliasing(t *testing.T) {
	ir, err := ParseYAML(strings.NewReader(nestedAliases(1, false)))
	require.NoError(t, err)

	obj := ir.Root.(models.Object)
	l1, _ := obj.Get("l1")
	assert.Len(t, l1, 10)
}

func TestParseYAML_ExcessiveAliasing(t *testing.T) {
	tests := []struct {
		name      string
		mergeKeys bool
	}{
		{"sequences", false},
		{"merge keys", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				_, err := ParseYAML(strings.NewReader(nestedAliases(9, tt.mergeKeys)))
				done <- err
			}()

			select {
			case err := <-done:
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidYAML)
				assert.Contains(t, err.Error(), "excessive aliasing")
			case <-time.After(10 * time.Second):
				t.Fatal("alias expansion was not bounded")
			}
		})
	}
}

func TestParseYAML_NonScalarKey(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("? [a, b]\n: value\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidLabel)
}

func TestParseYAML_NumericKeysBecomeLabels(t *testing.T) {
	ir, err := ParseYAML(strings.NewReader("1: one\ntrue: yes\n"))
	require.NoError(t, err)

	obj := ir.Root.(models.Object)
	assert.Equal(t, []string{"1", "true"}, obj.Keys())
}

func TestParseYAML_MultipleDocuments(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("a: 1\n---\nb: 2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMultipleJSON)
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML(strings.NewReader("a: [unclosed\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidYAML)
}

func TestParseYAML_Empty(t *testing.T) {
	_, err := ParseYAML(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestParseYAML_DepthLimit(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxDepth = 2
	p := NewParserWithConfig(cfg)

	_, err := p.ParseYAML(strings.NewReader("a:\n  b: 1\n"))
	require.NoError(t, err)

	_, err = p.ParseYAML(strings.NewReader("a:\n  b:\n    c: 1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDepthExceeded)
	assert.Contains(t, err.Error(), "$.a.b")
}
