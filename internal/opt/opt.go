// Package opt provides the explicit optional value used for fields that may
// be absent, such as a queued weapon or the client that froze a character.
package opt

// Value holds either a T or nothing. The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some wraps v in a present Value.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSome reports whether a value is present.
func (o Value[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the value is absent.
func (o Value[T]) IsNone() bool {
	return !o.ok
}

// Or returns the held value, or fallback when absent.
func (o Value[T]) Or(fallback T) T {
	if o.ok {
		return o.v
	}
	return fallback
}

// Map applies fn to a present value.
func Map[T, U any](o Value[T], fn func(T) U) Value[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.v))
}
