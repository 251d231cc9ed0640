package ctype

import "strconv"

// Type is a C type: a Scalar, *Struct, *Union or *Array.
type Type interface {
	Kind() Kind
	String() string
}

// Scalar is a primitive C type. Its size and alignment depend on the Target.
type Scalar Kind

func (s Scalar) Kind() Kind     { return Kind(s) }
func (s Scalar) String() string { return Kind(s).String() }

var (
	Int8       = Scalar(KindInt8)
	Uint8      = Scalar(KindUint8)
	Int16      = Scalar(KindInt16)
	Uint16     = Scalar(KindUint16)
	Int32      = Scalar(KindInt32)
	Uint32     = Scalar(KindUint32)
	Int64      = Scalar(KindInt64)
	Uint64     = Scalar(KindUint64)
	Long       = Scalar(KindLong)
	ULong      = Scalar(KindULong)
	Size       = Scalar(KindSize)
	Float      = Scalar(KindFloat)
	Double     = Scalar(KindDouble)
	LongDouble = Scalar(KindLongDouble)
	Bool       = Scalar(KindBool)
	Pointer    = Scalar(KindPointer)
	Enum       = Scalar(KindEnum)
)

// Field is a named member of a Struct or Union.
type Field struct {
	Type Type
	Name string
}

// Struct is a C struct. Pack, when set, overrides the packing inherited from
// the enclosing declaration.
//
// A struct with ExplicitPack was declared on its own: its layout is fixed
// under Pack (Natural meaning outside any directive), and an enclosing
// directive only caps its alignment as a member. Without ExplicitPack and
// with a Natural Pack, the struct is declared inline and inherits the
// enclosing directive.
type Struct struct {
	Name         string
	Fields       []Field
	Pack         Packing
	ExplicitPack bool
}

func (s *Struct) Kind() Kind { return KindStruct }

func (s *Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	return "struct {...}"
}

// Union is a C union; every field starts at offset zero. Pack and
// ExplicitPack behave as on Struct.
type Union struct {
	Name         string
	Fields       []Field
	Pack         Packing
	ExplicitPack bool
}

func (u *Union) Kind() Kind { return KindUnion }

func (u *Union) String() string {
	if u.Name != "" {
		return u.Name
	}
	return "union {...}"
}

// Array is a fixed-length C array.
type Array struct {
	Elem Type
	Len  uint32
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	return a.Elem.String() + "[" + strconv.FormatUint(uint64(a.Len), 10) + "]"
}

// F builds a Field.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// StructOf builds a named struct that inherits the directive it is laid out
// under.
func StructOf(name string, fields ...Field) *Struct {
	return &Struct{Name: name, Fields: fields}
}

// NaturalStructOf builds a struct declared outside any `#pragma pack`. Used
// as a member of a packed struct it keeps its natural size.
func NaturalStructOf(name string, fields ...Field) *Struct {
	return &Struct{Name: name, Fields: fields, ExplicitPack: true}
}

// PackedStructOf builds a named struct declared under `#pragma pack(p)`.
// Passing Natural is the same as NaturalStructOf.
func PackedStructOf(name string, p Packing, fields ...Field) *Struct {
	return &Struct{Name: name, Fields: fields, Pack: p, ExplicitPack: true}
}

// UnionOf builds a named union.
func UnionOf(name string, fields ...Field) *Union {
	return &Union{Name: name, Fields: fields}
}

// ArrayOf builds elem[n].
func ArrayOf(elem Type, n uint32) *Array {
	return &Array{Elem: elem, Len: n}
}

// ScalarByName resolves a scalar kind name such as "uint16_t" or "long double".
func ScalarByName(name string) (Scalar, bool) {
	for k := KindInt8; k <= KindEnum; k++ {
		if kindNames[k] == name {
			return Scalar(k), true
		}
	}
	return 0, false
}
