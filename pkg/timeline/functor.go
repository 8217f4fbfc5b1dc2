package timeline

// Datum is one event as supplied by the caller. The timeline never looks
// inside it except through accessors.
type Datum = any

// Functor is a value that is either a constant or computed per event from
// the datum and its index. The zero Functor is unset; see IsSet.
type Functor[T any] struct {
	fn func(d Datum, i int) (T, error)
}

// Const returns a functor that ignores the event.
func Const[T any](v T) Functor[T] {
	return Functor[T]{fn: func(Datum, int) (T, error) { return v, nil }}
}

// Func wraps an accessor that may fail.
func Func[T any](fn func(d Datum, i int) (T, error)) Functor[T] {
	if fn == nil {
		return Functor[T]{}
	}
	return Functor[T]{fn: fn}
}

// Map wraps an accessor that cannot fail and ignores the index.
func Map[T any](fn func(d Datum) T) Functor[T] {
	if fn == nil {
		return Functor[T]{}
	}
	return Functor[T]{fn: func(d Datum, _ int) (T, error) { return fn(d), nil }}
}

// IsSet reports whether the functor holds a value or accessor.
func (f Functor[T]) IsSet() bool { return f.fn != nil }

// Get evaluates the functor. An unset functor yields the zero value.
func (f Functor[T]) Get(d Datum, i int) (T, error) {
	if f.fn == nil {
		var zero T
		return zero, nil
	}
	return f.fn(d, i)
}

// Or returns f when set, def otherwise.
func (f Functor[T]) Or(def Functor[T]) Functor[T] {
	if f.fn == nil {
		return def
	}
	return f
}
