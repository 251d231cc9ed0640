package layout

import (
	"strconv"

	"github.com/wippyai/ffi-layout/ctype"
)

// Info is the computed layout of one type.
type Info struct {
	Elem   *Info // arrays only
	Fields []FieldInfo
	Size   uint32
	Align  uint32
	Len    uint32 // arrays only
	Kind   ctype.Kind
}

// FieldInfo is one member of a struct or union.
type FieldInfo struct {
	Type   ctype.Type
	Layout *Info // nil for scalars
	Name   string
	Offset uint32
	Size   uint32
	Align  uint32 // after packing
}

// Hole is a run of padding bytes.
type Hole struct {
	Offset uint32
	Size   uint32
}

// Field returns the member with the given name.
func (i Info) Field(name string) (FieldInfo, bool) {
	for _, f := range i.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Resolve walks a member path such as ("f5", "f5", "f3") or ("t", "2", "y")
// and returns the final member with its offset from the start of i.
// Numeric elements index into arrays.
func (i Info) Resolve(path ...string) (FieldInfo, uint32, bool) {
	if len(path) == 0 {
		return FieldInfo{}, 0, false
	}

	cur := &i
	var base uint32
	var last FieldInfo
	for n := 0; n < len(path); n++ {
		if cur == nil {
			return FieldInfo{}, 0, false
		}
		if cur.Kind == ctype.KindArray {
			idx, err := strconv.ParseUint(path[n], 10, 32)
			if err != nil || uint32(idx) >= cur.Len || cur.Elem == nil {
				return FieldInfo{}, 0, false
			}
			var elem ctype.Type
			if a, ok := last.Type.(*ctype.Array); ok {
				elem = a.Elem
			} else if cur.Elem.Kind.IsScalar() {
				// root array: scalar kinds carry their own type
				elem = ctype.Scalar(cur.Elem.Kind)
			}
			base += uint32(idx) * cur.Elem.Size
			last = FieldInfo{
				Type:   elem,
				Name:   path[n],
				Layout: cur.Elem,
				Offset: uint32(idx) * cur.Elem.Size,
				Size:   cur.Elem.Size,
				Align:  cur.Elem.Align,
			}
			cur = cur.Elem
			continue
		}
		f, ok := cur.Field(path[n])
		if !ok {
			return FieldInfo{}, 0, false
		}
		base += f.Offset
		last = f
		cur = f.Layout
	}
	return last, base, true
}

// Padding lists the padding holes of a struct or union, tail padding included.
func (i Info) Padding() []Hole {
	var holes []Hole
	var end uint32
	for _, f := range i.Fields {
		if i.Kind == ctype.KindStruct && f.Offset > end {
			holes = append(holes, Hole{Offset: end, Size: f.Offset - end})
		}
		if e := f.Offset + f.Size; e > end {
			end = e
		}
	}
	if len(i.Fields) > 0 && i.Size > end {
		holes = append(holes, Hole{Offset: end, Size: i.Size - end})
	}
	return holes
}

// Offsets returns the field offsets in declaration order.
func (i Info) Offsets() []uint32 {
	out := make([]uint32, len(i.Fields))
	for n, f := range i.Fields {
		out[n] = f.Offset
	}
	return out
}
