package analyzer

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
)

// Elements returns the elements of a list value in order
func Elements(v models.JSONValue) (models.Array, bool) {
	switch val := v.(type) {
	case models.Array:
		return val, true
	case nil, string, models.Object:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elems := make(models.Array, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// Members returns the entries of a mapping value. Objects keep their order;
// Go maps are returned sorted by key since their iteration order is random.
// The error is an InvalidLabelError located at path when a key is not a
// valid UTF-8 string.
func Members(v models.JSONValue, path string) (models.Object, bool, error) {
	switch val := v.(type) {
	case models.Object:
		for _, m := range val {
			if !utf8.ValidString(m.Key) {
				return nil, true, &errors.InvalidLabelError{Path: path, Label: m.Key}
			}
		}
		return val, true, nil
	case nil:
		return nil, false, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false, nil
	}

	members := make(models.Object, 0, rv.Len())
	var badKeys []interface{}
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key()
		if key.Kind() == reflect.Interface && !key.IsNil() {
			key = key.Elem()
		}
		if key.Kind() != reflect.String || !utf8.ValidString(key.String()) {
			badKeys = append(badKeys, iter.Key().Interface())
			continue
		}
		members = append(members, models.Member{Key: key.String(), Value: iter.Value().Interface()})
	}
	if len(badKeys) > 0 {
		sort.Slice(badKeys, func(i, j int) bool {
			return fmt.Sprint(badKeys[i]) < fmt.Sprint(badKeys[j])
		})
		return nil, true, &errors.InvalidLabelError{Path: path, Label: badKeys[0]}
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].Key < members[j].Key
	})
	return members, true, nil
}

// eachMappingValue calls fn for every value of a mapping until fn returns
// false. It reports whether v is a mapping at all.
func eachMappingValue(v models.JSONValue, fn func(models.JSONValue) bool) bool {
	switch val := v.(type) {
	case models.Object:
		for _, m := range val {
			if !fn(m.Value) {
				break
			}
		}
		return true
	case nil:
		return false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return false
	}
	iter := rv.MapRange()
	for iter.Next() {
		if !fn(iter.Value().Interface()) {
			break
		}
	}
	return true
}

// FormatScalar returns the label used for a simple value
func FormatScalar(v models.JSONValue) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// KeyPath appends a mapping key to a path
func KeyPath(parent, key string) string {
	if isPlainKey(key) {
		return parent + "." + key
	}
	return parent + "[" + strconv.Quote(key) + "]"
}

// IndexPath appends a list index to a path
func IndexPath(parent string, index int) string {
	return parent + "[" + strconv.Itoa(index) + "]"
}

func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
