// Package descriptor answers size, alignment and field-offset queries over a
// closed table of C fixture types for one target.
//
// Two query styles are offered. The integer API (SizeOf, AlignmentOf,
// AlignedSize, FieldOffset, InnerAlignedSize, InnerFieldOffset) is total:
// an unknown name yields 0 and an out-of-range field or level yields
// InvalidOffset, so a test harness can compare plain integers. The typed API
// (Lookup, PackedLayout, InnerPackedLayout, Layout) reports the same
// failures as *errors.Error values.
//
// Alignment is measured with the probe technique: the offset of the type
// after a single leading char in a synthetic struct.
//
// Every answer is computed when the Descriptor is built; queries only read
// immutable maps and are safe for concurrent use.
package descriptor
