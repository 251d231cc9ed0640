package abi

import "math"

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// AlignTo rounds offset up to a multiple of align, which must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// SafeAlignTo is AlignTo with overflow detection.
func SafeAlignTo(offset, align uint32) (uint32, bool) {
	if align == 0 {
		return offset, true
	}
	end, ok := SafeAddU32(offset, align-1)
	if !ok {
		return 0, false
	}
	return end &^ (align - 1), true
}

func IsPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
