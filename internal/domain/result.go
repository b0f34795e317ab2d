package domain

// BestEffort is the outcome of a non-essential call: either the real value or a
// fallback used because the call failed.
type BestEffort[T any] struct {
	Value    T
	Degraded bool
	Cause    error
}

func Present[T any](v T) BestEffort[T] { return BestEffort[T]{Value: v} }

func Fallback[T any](v T, cause error) BestEffort[T] {
	return BestEffort[T]{Value: v, Degraded: true, Cause: cause}
}
