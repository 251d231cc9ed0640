package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLookup Phase = "lookup" // type table queries
	PhaseLayout Phase = "layout" // size/offset computation
	PhaseProbe  Phase = "probe"  // alignment probe
	PhaseTarget Phase = "target" // platform selection
	PhaseBridge Phase = "bridge" // WIT to C type mapping
	PhaseMemory Phase = "memory" // struct storage in linear memory
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType    Kind = "unknown_type"
	KindOutOfRange     Kind = "out_of_range"
	KindInvalidPacking Kind = "invalid_packing"
	KindOverflow       Kind = "overflow"
	KindUnsupported    Kind = "unsupported"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindAllocation     Kind = "allocation"
	KindInvalidInput   Kind = "invalid_input"
	KindMismatch       Kind = "mismatch"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	CType  string
	Target string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.CType != "" || e.Target != "" {
		b.WriteString(": ")
		if e.CType != "" && e.Target != "" {
			b.WriteString("type ")
			b.WriteString(e.CType)
			b.WriteString(" on ")
			b.WriteString(e.Target)
		} else if e.CType != "" {
			b.WriteString("type ")
			b.WriteString(e.CType)
		} else {
			b.WriteString("target ")
			b.WriteString(e.Target)
		}
	}

	if e.Detail != "" {
		if e.CType != "" || e.Target != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// CType sets the C type name
func (b *Builder) CType(t string) *Builder {
	b.err.CType = t
	return b
}

// Target sets the target triple
func (b *Builder) Target(t string) *Builder {
	b.err.Target = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnknownType creates an error for a type name missing from a closed table
func UnknownType(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		CType:  name,
		Detail: fmt.Sprintf("no type named %q", name),
		Value:  name,
	}
}

// OutOfRange creates an error for an index outside [0, max]
func OutOfRange(phase Phase, what string, index, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("%s %d out of range (max %d)", what, index, max),
		Value:  index,
	}
}

// InvalidPacking creates an error for a packing directive that is not a power of two up to 16
func InvalidPacking(phase Phase, packing int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidPacking,
		Detail: fmt.Sprintf("packing %d is not one of 1, 2, 4, 8, 16", packing),
		Value:  packing,
	}
}

// Overflow creates a size overflow error
func Overflow(phase Phase, path []string, ctype string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		CType:  ctype,
		Detail: "size exceeds uint32",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access [%d, %d) outside memory of %d bytes", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// Mismatch creates a layout comparison error for one field or the whole type
func Mismatch(path []string, what string, want, got uint32) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindMismatch,
		Path:   path,
		Detail: fmt.Sprintf("%s: want %d, got %d", what, want, got),
		Value:  got,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
