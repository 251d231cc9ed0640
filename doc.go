// Package ffilayout reproduces how a C compiler lays out primitive, nested,
// union and array types in memory, so an FFI binding harness can check its own
// layout arithmetic against ground truth.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	ffilayout/           Root package (documentation only)
//	├── ctype/           C type model, packing directives, target data models, WIT bridge
//	├── layout/          Layout calculator: offsets, sizes, padding, probe, verification
//	├── descriptor/      Closed fixture table answering sizeof/alignof/offset queries
//	├── memory/          Struct instances stored in wazero linear memory
//	├── errors/          Structured error types
//	└── cmd/layout/      CLI and interactive browser
//
// # Quick Start
//
// Query the fixture table for the host:
//
//	target, err := ctype.Host()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d, err := descriptor.New(target)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d.SizeOf("Array1")          // 72 on x86_64-linux
//	d.AlignmentOf("long long")  // 4 on i386-linux
//	d.FieldOffset(1, 4)         // 15: void* after packed 1+2+4+8
//	d.InnerFieldOffset(1, 2, 0) // 46: first field of the third nested level
//
// Unknown names yield 0 and out-of-range fields or levels yield
// descriptor.InvalidOffset. Lookup, PackedLayout and InnerPackedLayout return
// *errors.Error instead.
//
// # Layout Rules
//
// A field's effective alignment is min(natural, packing). Each field starts at
// the previous field's end rounded up to that alignment, and the total size is
// rounded up to the largest effective alignment. Union members all start at
// offset 0. A directive applies to every composite declared under it, nested
// ones included; a composite's own Pack overrides the inherited value.
//
// Alignment is measured the way C test suites do: the offset of T in
// struct { char c; T d; }. On i386 this reports 4 for double and long long,
// which is what matters for struct members.
//
// # Thread Safety
//
// Descriptor is immutable after New. Calculator caches computed layouts in a
// sync.Map and is safe for concurrent use. Arena serializes allocation; a
// Record is not synchronized.
package ffilayout
