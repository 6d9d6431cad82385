package analyzer

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SimpleValues(t *testing.T) {
	type label string

	values := []models.JSONValue{
		"text", "", 0, -3, int64(9), uint16(7), 1.5, float32(0.25),
		json.Number("12"), json.Number("1.2e3"), true, false, nil, label("named"),
	}
	for _, v := range values {
		assert.True(t, IsSimpleValue(v), "%#v", v)
		assert.Equal(t, models.SimpleValue, Classify(v), "%#v", v)
	}
}

func TestClassify_SimpleLists(t *testing.T) {
	lists := []models.JSONValue{
		models.Array{},
		models.Array{1, "a", nil, true},
		[]interface{}{json.Number("1"), 2.5},
		[]string{"a", "b"},
		[3]int{1, 2, 3},
		[]int(nil),
	}
	for _, v := range lists {
		assert.True(t, IsSimpleList(v), "%#v", v)
		assert.Equal(t, models.SimpleList, Classify(v), "%#v", v)
	}
}

func TestClassify_SimpleDicts(t *testing.T) {
	dicts := []models.JSONValue{
		models.Object{},
		models.Object{{Key: "a", Value: 1}, {Key: "b", Value: models.Array{1, 2}}},
		map[string]interface{}{"x": nil, "y": []string{"z"}},
		map[string]int{"n": 1},
	}
	for _, v := range dicts {
		assert.True(t, IsSimpleDict(v), "%#v", v)
		assert.Equal(t, models.SimpleDict, Classify(v), "%#v", v)
	}
}

func TestClassify_Complex(t *testing.T) {
	values := []models.JSONValue{
		models.Object{{Key: "a", Value: models.Object{{Key: "b", Value: 1}}}},
		models.Object{{Key: "a", Value: models.Array{models.Array{1}}}},
		models.Array{models.Object{{Key: "a", Value: 1}}},
		models.Array{models.Array{}},
		map[string]interface{}{"set": map[string]struct{}{}},
		struct{}{},
		func() {},
		complex(1, 1),
	}
	for _, v := range values {
		assert.False(t, IsSimpleValue(v))
		assert.False(t, IsSimpleList(v))
		assert.False(t, IsSimpleDict(v))
		assert.Equal(t, models.Complex, Classify(v))
	}
}

func TestClassify_ObjectIsNotAList(t *testing.T) {
	obj := models.Object{{Key: "a", Value: 1}}

	_, isList := Elements(obj)
	assert.False(t, isList)
	assert.False(t, IsSimpleList(obj))

	_, isMapping, _ := Members(obj, "root")
	assert.True(t, isMapping)

	_, isMapping, _ = Members(models.Array{}, "root")
	assert.False(t, isMapping)
	_, isMapping, _ = Members(nil, "root")
	assert.False(t, isMapping)
	_, isList = Elements("abc")
	assert.False(t, isList)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value    models.JSONValue
		expected models.ValueType
	}{
		{nil, models.Null},
		{true, models.Bool},
		{"s", models.String},
		{7, models.Int},
		{uint64(7), models.Int},
		{json.Number("123456789012345678901234567890"), models.Int},
		{json.Number("-0.5"), models.Float},
		{json.Number("2E10"), models.Float},
		{3.0, models.Float},
		{models.Array{}, models.List},
		{[]int{}, models.List},
		{models.Object{}, models.Dict},
		{map[string]bool{}, models.Dict},
	}

	for _, tt := range tests {
		got, ok := TypeOf(tt.value)
		assert.True(t, ok, "%#v", tt.value)
		assert.Equal(t, tt.expected, got, "%#v", tt.value)
	}

	_, ok := TypeOf(struct{}{})
	assert.False(t, ok)
}

func TestFormatScalar(t *testing.T) {
	type flag bool

	assert.Equal(t, "null", FormatScalar(nil))
	assert.Equal(t, "abc", FormatScalar("abc"))
	assert.Equal(t, "1.10", FormatScalar(json.Number("1.10")))
	assert.Equal(t, "true", FormatScalar(true))
	assert.Equal(t, "false", FormatScalar(flag(false)))
	assert.Equal(t, "0.1", FormatScalar(0.1))
	assert.Equal(t, "0.1", FormatScalar(float32(0.1)))
	assert.Equal(t, "-12", FormatScalar(int16(-12)))
	assert.Equal(t, "18446744073709551615", FormatScalar(uint64(18446744073709551615)))
}

func TestMembers(t *testing.T) {
	obj := models.Object{{Key: "z", Value: 1}, {Key: "a", Value: 2}}
	members, ok, err := Members(obj, "root")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"z", "a"}, members.Keys(), "objects keep their order")

	members, ok, err = Members(map[string]int{"z": 1, "a": 2}, "root")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "z"}, members.Keys(), "maps are sorted")

	_, ok, err = Members(models.Array{}, "root")
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok, err = Members(map[int]string{2: "b", 1: "a"}, "root.m")
	assert.True(t, ok)
	var labelErr *errors.InvalidLabelError
	require.True(t, stderrors.As(err, &labelErr))
	assert.Equal(t, "root.m", labelErr.Path)
	assert.Equal(t, 1, labelErr.Label)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "root.name", KeyPath("root", "name"))
	assert.Equal(t, "root.user_id", KeyPath("root", "user_id"))
	assert.Equal(t, `root["first name"]`, KeyPath("root", "first name"))
	assert.Equal(t, `root[""]`, KeyPath("root", ""))
	assert.Equal(t, "root[3]", IndexPath("root", 3))
}

func TestAnalyze_Summary(t *testing.T) {
	ir := models.IntermediateRepresentation{Root: models.Object{
		{Key: "name", Value: "gopher"},
		{Key: "tags", Value: models.Array{"a", "b"}},
		{Key: "owner", Value: models.Object{{Key: "id", Value: json.Number("1")}, {Key: "score", Value: json.Number("2.5")}}},
		{Key: "items", Value: models.Array{models.Object{{Key: "ok", Value: true}}, nil}},
	}}

	summary, err := NewAnalyzer().Analyze(ir, "doc")
	require.NoError(t, err)

	// root, name, tags, a, b, owner, id, score, items, {ok}, ok, null
	assert.Equal(t, 12, summary.Values)
	assert.Equal(t, 3, summary.MaxDepth)

	assert.Equal(t, 1, summary.Types[models.Int])
	assert.Equal(t, 1, summary.Types[models.Float])
	assert.Equal(t, 3, summary.Types[models.String])
	assert.Equal(t, 1, summary.Types[models.Bool])
	assert.Equal(t, 1, summary.Types[models.Null])
	assert.Equal(t, 2, summary.Types[models.List])
	assert.Equal(t, 3, summary.Types[models.Dict])

	assert.Equal(t, 7, summary.Kinds[models.SimpleValue])
	assert.Equal(t, 1, summary.Kinds[models.SimpleList])
	assert.Equal(t, 2, summary.Kinds[models.SimpleDict])
	assert.Equal(t, 2, summary.Kinds[models.Complex])
}

func TestAnalyze_ScalarRoot(t *testing.T) {
	ir := models.IntermediateRepresentation{Root: "just a string"}

	summary, err := NewAnalyzer().Analyze(ir, "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Values)
	assert.Equal(t, 0, summary.MaxDepth)
	assert.Equal(t, 1, summary.Kinds[models.SimpleValue])
}

func TestAnalyze_DepthLimit(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxDepth = 2

	ir := models.IntermediateRepresentation{Root: models.Array{models.Array{models.Array{1}}}, RootIsArray: true}
	_, err := NewAnalyzerWithConfig(cfg).Analyze(ir, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDepthExceeded)
	assert.Contains(t, err.Error(), "root[0][0]")
}

func TestAnalyze_UnsupportedValue(t *testing.T) {
	ir := models.IntermediateRepresentation{Root: models.Object{{Key: "fn", Value: func() {}}}}
	_, err := NewAnalyzer().Analyze(ir, "doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedValue)
	assert.Contains(t, err.Error(), "doc.fn")
}

func TestAnalyze_InvalidKey(t *testing.T) {
	ir := models.IntermediateRepresentation{Root: map[float64]string{1.5: "x"}}
	_, err := NewAnalyzer().Analyze(ir, "doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidLabel)
}
