package errors

import "fmt"

// InvalidLabelError reports a node label that cannot be used, such as a
// mapping key that is not a string or a string that is not valid UTF-8.
type InvalidLabelError struct {
	Path  string
	Label any
}

func (e *InvalidLabelError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid label %#v: labels must be UTF-8 strings", e.Label)
	}
	return fmt.Sprintf("invalid label %#v at %s: labels must be UTF-8 strings", e.Label, e.Path)
}

// Is matches ErrInvalidLabel
func (e *InvalidLabelError) Is(target error) bool {
	return target == ErrInvalidLabel
}

// UnsupportedValueError reports a value whose shape is not a simple value,
// a mapping or a list.
type UnsupportedValueError struct {
	Path string
	Type string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value of type %s at %s", e.Type, e.Path)
}

// Is matches ErrUnsupportedValue
func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}

// DepthExceededError reports input nested deeper than the configured limit.
type DepthExceededError struct {
	Path  string
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("nesting depth exceeds limit of %d at %s", e.Limit, e.Path)
}

// Is matches ErrDepthExceeded
func (e *DepthExceededError) Is(target error) bool {
	return target == ErrDepthExceeded
}
