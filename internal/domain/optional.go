package domain

// Optional distinguishes an absent patch field from an explicit null and from a value.
// The zero value means "not supplied".
type Optional[T any] struct {
	Set   bool // field was present in the request
	Null  bool // field was present and explicitly null
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Apply overlays the optional onto an existing pointer field and returns the result.
func (o Optional[T]) Apply(current *T) *T {
	switch {
	case !o.Set:
		return current
	case o.Null:
		return nil
	default:
		v := o.Value
		return &v
	}
}
