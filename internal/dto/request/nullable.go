package request

import (
	"encoding/json"
	"reflect"

	"cinephile/pkg/utils"
)

// Nullable tells an absent field from an explicit null. Set is true for both
// a value and null; Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Of returns a Nullable holding v.
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// assign copies the value into dst when the field was sent, so null clears it.
func (n Nullable[T]) assign(dst **T) {
	if n.Set {
		*dst = n.Value
	}
}

func (n Nullable[T]) underlying() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}

// Struct tags on a Nullable apply to the value it carries.
func init() {
	utils.RegisterValueType(func(field reflect.Value) any {
		if n, ok := field.Interface().(interface{ underlying() any }); ok {
			return n.underlying()
		}
		return nil
	}, Nullable[string]{}, Nullable[int]{})
}
