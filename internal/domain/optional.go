package domain

import "encoding/json"

// Optional tracks whether a JSON field was present in a payload. Set is true
// only when the key appeared; Null is true when it appeared with an explicit
// null. This keeps "leave unchanged" distinct from "clear this field" in
// partial updates.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON is only invoked for keys present in the payload, so absence
// leaves Set false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Some wraps a value as a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}
