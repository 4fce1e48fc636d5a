// Package guard provides a lightweight mechanism for enforcing that value
// types are created through their constructors. Embedding a ConstructorGuard
// in a struct makes the zero value detectable, so commands and value objects
// cannot bypass validation by direct literal construction.
package guard

import "errors"

// ErrNotConstructed is the default error returned when a guarded value was
// not created through its constructor.
var ErrNotConstructed = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as properly constructed. The zero value is
// invalid; constructors must embed the result of NewConstructorGuard.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard creates a guard marking the enclosing value as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil when the enclosing value was built through its
// constructor. For a zero-value guard it returns notConstructedErr, or
// ErrNotConstructed when notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.constructed {
		return nil
	}
	if notConstructedErr == nil {
		return ErrNotConstructed
	}
	return notConstructedErr
}
