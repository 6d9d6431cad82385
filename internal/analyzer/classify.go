package analyzer

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/mcncl/jsontree/internal/models"
)

// IsSimpleValue reports whether v is a string, number, boolean or null.
// Named types whose underlying kind is one of those also count.
func IsSimpleValue(v models.JSONValue) bool {
	switch v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsSimpleList reports whether v is a list whose every element is a simple
// value. An empty list is simple.
func IsSimpleList(v models.JSONValue) bool {
	elems, ok := Elements(v)
	if !ok {
		return false
	}
	for _, e := range elems {
		if !IsSimpleValue(e) {
			return false
		}
	}
	return true
}

// IsSimpleDict reports whether v is a mapping whose every value is either a
// simple value or a simple list.
func IsSimpleDict(v models.JSONValue) bool {
	simple := true
	isMapping := eachMappingValue(v, func(val models.JSONValue) bool {
		if !IsSimpleValue(val) && !IsSimpleList(val) {
			simple = false
		}
		return simple
	})
	return isMapping && simple
}

// Classify returns the shape class of v. It never fails: anything that is
// not one of the simple shapes is Complex.
func Classify(v models.JSONValue) models.Kind {
	switch {
	case IsSimpleValue(v):
		return models.SimpleValue
	case IsSimpleList(v):
		return models.SimpleList
	case IsSimpleDict(v):
		return models.SimpleDict
	default:
		return models.Complex
	}
}

// TypeOf returns the concrete value type of v. The second result is false
// for values that are neither simple values, lists nor mappings.
func TypeOf(v models.JSONValue) (models.ValueType, bool) {
	switch val := v.(type) {
	case nil:
		return models.Null, true
	case json.Number:
		return numberType(string(val)), true
	case models.Object:
		return models.Dict, true
	case models.Array:
		return models.List, true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return models.Bool, true
	case reflect.String:
		return models.String, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return models.Int, true
	case reflect.Float32, reflect.Float64:
		return models.Float, true
	case reflect.Slice, reflect.Array:
		return models.List, true
	case reflect.Map:
		return models.Dict, true
	}
	return 0, false
}

// numberType decides between Int and Float from the literal text, so that
// integers too large for int64 stay integers.
func numberType(text string) models.ValueType {
	if strings.ContainsAny(text, ".eE") {
		return models.Float
	}
	return models.Int
}

// TypeName returns a printable name for the Go type of v
func TypeName(v models.JSONValue) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
