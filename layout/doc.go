// Package layout computes C struct, union and array layouts for a target.
//
// The calculator reproduces what a C compiler emits for a declaration: size,
// alignment and the byte offset of every field, including the effect of a
// `#pragma pack(N)` directive passed as a ctype.Packing.
//
// # Layout Rules
//
//   - Scalars: size and alignment come from the ctype.Target table
//   - Structs: each field is placed at the previous end rounded up to
//     min(field alignment, packing); the total is rounded up to the largest
//     such alignment (tail padding)
//   - Unions: every field at offset zero, size rounded up to the largest
//     capped alignment
//   - Arrays: element size times length, element alignment
//
// Packing applies to every composite reached from the type being laid out,
// the way a pragma region applies to every declaration inside it. A Struct or
// Union with its own Pack overrides the inherited value.
//
// # Usage
//
//	calc := layout.NewCalculator(target)
//	info, err := calc.Layout(typ, 2)
//	// info.Size, info.Align, info.Fields available
//
//	align, err := calc.Probe(typ) // offset of typ after a leading char
//
// Calculators are safe for concurrent use.
package layout
