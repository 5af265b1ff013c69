package ir

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced by Validate, corresponding to the
// *InvalidInput* error kind of spec.md §7.
var (
	ErrMissingConstructor = errors.New("JS class has no exported \"constructor\" member")
	ErrMissingSuper       = errors.New("non-Object class has no super class")
)

// ValidationError wraps a single InvalidInput finding with the offending
// class's encoded name, so a caller can report every precondition violation
// from a single aggregated error instead of failing mid-emission (SPEC_FULL.md
// §4, "Validate(unit) pre-flight check").
type ValidationError struct {
	EncodedName string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("class %q: %v", e.EncodedName, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks every InvalidInput precondition spec.md §7 calls out as a
// fatal bug in the input, and returns every violation found rather than
// stopping at the first one. A non-nil, non-empty result means the caller
// must abort before starting a run: the propagation policy of spec.md §7 is
// "no partial output".
func Validate(unit *LinkingUnit) []error {
	var errs []error
	for _, c := range unit.Classes {
		if c.Kind.IsJSType() && c.Kind == KindJSClass {
			if _, ok := c.ConstructorExportedMember(); !ok {
				errs = append(errs, &ValidationError{EncodedName: c.EncodedName, Err: ErrMissingConstructor})
			}
		}
		if c.SuperClass == "" && c.EncodedName != "O" && c.EncodedName != "java.lang.Object" && c.Kind != KindInterface && c.Kind != KindRawJSType {
			// A class with no super is only legal for the root Object class
			// (by convention "O" or a dotted display name) or for raw JS
			// types / interfaces, which never carry a super in this IR.
			errs = append(errs, &ValidationError{EncodedName: c.EncodedName, Err: ErrMissingSuper})
		}
	}
	return errs
}
