package memory

import (
	"bytes"
)

// WebAssembly binary constants used by the memory-only module.
const (
	wasmMagic   = "\x00asm"
	wasmVersion = 0x01

	sectionMemory byte = 5
	sectionExport byte = 7

	kindMemory byte = 2

	limitsNoMax  byte = 0x00
	limitsHasMax byte = 0x01

	// PageSize is the size of one linear-memory page.
	PageSize = 65536

	// MaxPages is the page limit of a 32-bit memory.
	MaxPages uint32 = 65536

	exportName = "memory"
)

// memoryModule encodes a module with no code whose only content is one
// exported memory of minPages, capped at maxPages when that is non-zero.
func memoryModule(minPages, maxPages uint32) []byte {
	var mem bytes.Buffer
	writeU32(&mem, 1)
	if maxPages > 0 {
		mem.WriteByte(limitsHasMax)
		writeU32(&mem, minPages)
		writeU32(&mem, maxPages)
	} else {
		mem.WriteByte(limitsNoMax)
		writeU32(&mem, minPages)
	}

	var exp bytes.Buffer
	writeU32(&exp, 1)
	writeU32(&exp, uint32(len(exportName)))
	exp.WriteString(exportName)
	exp.WriteByte(kindMemory)
	writeU32(&exp, 0)

	var out bytes.Buffer
	out.WriteString(wasmMagic)
	out.Write([]byte{wasmVersion, 0, 0, 0})
	writeSection(&out, sectionMemory, mem.Bytes())
	writeSection(&out, sectionExport, exp.Bytes())
	return out.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data []byte) {
	w.WriteByte(id)
	writeU32(w, uint32(len(data)))
	w.Write(data)
}

// writeU32 writes v as unsigned LEB128.
func writeU32(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}
