// Package ctype models C types and the platforms that lay them out.
//
// A Type is either a Scalar (one of the fixed primitive kinds) or a composite:
// Struct, Union or Array. Scalars carry no size of their own; their size and
// in-struct alignment come from a Target, which is a data-driven table for one
// ABI (x86_64-linux, i386-linux, wasm32 ...). Composite layout is computed by
// the layout package.
//
// # Packing
//
// A Packing value caps the alignment of every field in a composite, the way
// `#pragma pack(push, N)` does. Natural (0) means no cap.
//
// # WIT
//
// FromWIT maps Component Model types to the C types a binding generator
// would emit for them, so Canonical ABI layouts can be checked against C
// layouts on the wasm32 target.
package ctype
