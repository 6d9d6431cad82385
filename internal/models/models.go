package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value JSONValue
}

// Object represents a JSON object as an ordered list of members.
// Keys appear in the order they were first seen in the source.
type Object []Member

// Array represents a JSON array, which is a slice of JSONValues.
type Array []JSONValue

// Len returns the number of members
func (o Object) Len() int {
	return len(o)
}

// Get returns the value stored under key
func (o Object) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position and only
// its value is replaced.
func (o *Object) Set(key string, value JSONValue) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: value})
}

// Keys returns the member keys in order
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Format identifies the encoding of a parsed document.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IntermediateRepresentation holds a decoded document ready for the
// analyzer and builder.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the document is an array vs an object
	Format      Format
}

// Summary describes the shape of a document as seen by the analyzer.
type Summary struct {
	Values   int               // Total number of values, containers included
	MaxDepth int               // Deepest container nesting; 0 for a scalar document
	Kinds    map[Kind]int      // Number of values per shape class
	Types    map[ValueType]int // Number of values per concrete type
}
