// Package errors provides structured error types for the ffi-layout library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the C type name, the target triple, the field path
// and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindOverflow).
//		Path("Array2", "t").
//		CType("G[3]").
//		Target("i386-linux").
//		Detail("array size exceeds 4 GiB").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownType(errors.PhaseLookup, "Foo")
//	err := errors.OutOfRange(errors.PhaseLookup, "field", 5, 4)
//
// The descriptor package maps every one of these to a sentinel value for
// callers that use the integer query API.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
