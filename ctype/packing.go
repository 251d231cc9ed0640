package ctype

import (
	"strconv"

	"github.com/wippyai/ffi-layout/errors"
)

// Packing is the maximum alignment a composite may give any of its fields.
type Packing uint8

// Natural lays fields out at their natural alignment.
const Natural Packing = 0

// Directives lists the packing values accepted by `#pragma pack`.
var Directives = []Packing{1, 2, 4, 8, 16}

// ParsePacking validates n as a packing directive; 0 means Natural.
func ParsePacking(n int) (Packing, error) {
	switch n {
	case 0, 1, 2, 4, 8, 16:
		return Packing(n), nil
	default:
		return Natural, errors.InvalidPacking(errors.PhaseLayout, n)
	}
}

func (p Packing) Valid() bool {
	switch p {
	case Natural, 1, 2, 4, 8, 16:
		return true
	default:
		return false
	}
}

// Cap returns min(align, p), or align when p is Natural.
func (p Packing) Cap(align uint32) uint32 {
	if p == Natural || uint32(p) >= align {
		return align
	}
	return uint32(p)
}

func (p Packing) String() string {
	if p == Natural {
		return "natural"
	}
	return "pack(" + strconv.Itoa(int(p)) + ")"
}
