// Package patch applies partial updates where a nil pointer means "leave unchanged".
package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Nullable resolves a field that can also be cleared. clear wins over ptr; the result never aliases ptr.
func Nullable[T any](ptr *T, clear bool, current *T) *T {
	switch {
	case clear:
		return nil
	case ptr != nil:
		v := *ptr
		return &v
	default:
		return current
	}
}

// MapSlice converts *ptr element-wise, or returns fallback when ptr is nil.
func MapSlice[S, T any](ptr *[]S, fallback []T, f func(S) T) []T {
	if ptr == nil {
		return fallback
	}
	out := make([]T, 0, len(*ptr))
	for _, s := range *ptr {
		out = append(out, f(s))
	}
	return out
}
