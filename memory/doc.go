// Package memory stores C struct instances in a little-endian linear memory.
//
// An Arena owns one wazero memory instance and hands out aligned blocks
// from it. A Record binds a block to a layout.Info so scalar members can be
// written and read back by name at the offsets the calculator produced:
//
//	arena, err := memory.NewArena(ctx, memory.Config{Pages: 1})
//	defer arena.Close(ctx)
//
//	rec, err := memory.NewRecord(arena, info)
//	err = rec.SetUint("l", 0x0102030405060708)
//	raw, err := rec.Bytes()
//
// Pointer members are stored with the target's pointer width. long double
// has no Go representation and is rejected.
package memory
