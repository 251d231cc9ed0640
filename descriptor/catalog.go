package descriptor

import (
	"github.com/wippyai/ffi-layout/ctype"
)

// scalarNames maps every scalar name in the table, fixture aliases included.
var scalarNames = map[string]ctype.Type{
	"int8_t":      ctype.Int8,
	"uint8_t":     ctype.Uint8,
	"int16_t":     ctype.Int16,
	"uint16_t":    ctype.Uint16,
	"int32_t":     ctype.Int32,
	"uint32_t":    ctype.Uint32,
	"int64_t":     ctype.Int64,
	"uint64_t":    ctype.Uint64,
	"long":        ctype.Long,
	"ulong":       ctype.ULong,
	"size_t":      ctype.Size,
	"float":       ctype.Float,
	"double":      ctype.Double,
	"long double": ctype.LongDouble,
	"bool":        ctype.Bool,
	"pointer":     ctype.Pointer,
	"Enum":        ctype.Enum,

	"char":      ctype.Int8,
	"short":     ctype.Int16,
	"int":       ctype.Int32,
	"long long": ctype.Int64,

	"Signed8":    ctype.Int8,
	"Signed16":   ctype.Int16,
	"Signed32":   ctype.Int32,
	"Signed64":   ctype.Int64,
	"Float32":    ctype.Float,
	"Float64":    ctype.Double,
	"SignedLong": ctype.Long,
}

// alignmentFields is the field list shared by StructAlignment and every level
// of InnerStructAlignment.
func alignmentFields() []ctype.Field {
	return []ctype.Field{
		ctype.F("f0", ctype.Uint8),
		ctype.F("f1", ctype.Uint16),
		ctype.F("f2", ctype.Uint32),
		ctype.F("f3", ctype.Uint64),
		ctype.F("f4", ctype.Pointer),
	}
}

func structAlignment() *ctype.Struct {
	return ctype.StructOf("StructAlignment", alignmentFields()...)
}

// innerStructAlignment nests the five-field composite three levels deep as
// field f5 of each enclosing level.
func innerStructAlignment() *ctype.Struct {
	l3 := ctype.StructOf("InnerStructAlignment3", alignmentFields()...)
	l2 := ctype.StructOf("InnerStructAlignment2", append(alignmentFields(), ctype.F("f5", l3))...)
	return ctype.StructOf("InnerStructAlignment1", append(alignmentFields(), ctype.F("f5", l2))...)
}

func numericFields() []ctype.Field {
	return []ctype.Field{
		ctype.F("val_int8_t", ctype.Int8),
		ctype.F("val_int16_t", ctype.Int16),
		ctype.F("val_int32_t", ctype.Int32),
		ctype.F("val_long", ctype.Long),
		ctype.F("val_int64_t", ctype.Int64),
		ctype.F("val_uint8_t", ctype.Uint8),
		ctype.F("val_uint16_t", ctype.Uint16),
		ctype.F("val_uint32_t", ctype.Uint32),
		ctype.F("val_ulong", ctype.ULong),
		ctype.F("val_uint64_t", ctype.Uint64),
		ctype.F("val_float", ctype.Float),
		ctype.F("val_double", ctype.Double),
		ctype.F("val_bool", ctype.Bool),
		ctype.F("val_Enum", ctype.Enum),
		ctype.F("val_pointer", ctype.Pointer),
	}
}

// composites builds the fixture declarations for target. Only pack2_on_osx
// depends on the target: it is packed on darwin and natural elsewhere.
func composites(target ctype.Target) map[string]ctype.Type {
	a := ctype.StructOf("A", ctype.F("x", ctype.Int32), ctype.F("y", ctype.Int8))
	b := ctype.StructOf("B", ctype.F("x", ctype.Int8), ctype.F("y", ctype.Int32))
	c := ctype.StructOf("C", ctype.F("x", ctype.Int8), ctype.F("y", ctype.Int8), ctype.F("z", ctype.Int32))
	d := ctype.StructOf("D", ctype.F("x", ctype.Int8), ctype.F("y", ctype.Int64), ctype.F("z", ctype.Int32))
	e := ctype.StructOf("E", ctype.F("x", ctype.Int8), ctype.F("y", d))
	array1 := ctype.StructOf("Array1", ctype.F("t", ctype.ArrayOf(d, 3)))

	largeInt := ctype.UnionOf("MyLargeInteger",
		ctype.F("u", ctype.StructOf("",
			ctype.F("LowPart", ctype.Uint32),
			ctype.F("HighPart", ctype.Int32),
		)),
		ctype.F("QuadPart", ctype.Int64),
	)
	f := ctype.StructOf("F", ctype.F("x", ctype.Int32), ctype.F("y", largeInt))
	g := ctype.StructOf("G", ctype.F("x", ctype.Int8), ctype.F("y", largeInt), ctype.F("z", ctype.Int32))
	array2 := ctype.StructOf("Array2", ctype.F("t", ctype.ArrayOf(g, 3)))
	union1 := ctype.UnionOf("Union1",
		ctype.F("intVal", ctype.ArrayOf(ctype.Int32, 2)),
		ctype.F("ch", ctype.ArrayOf(ctype.Int8, 8)),
		ctype.F("my", largeInt),
		ctype.F("ss", ctype.ArrayOf(ctype.Int16, 4)),
		ctype.F("u", ctype.Int64),
	)
	h := ctype.StructOf("H", ctype.F("x", ctype.ArrayOf(ctype.Int8, 3)))
	union2 := ctype.UnionOf("Union2", ctype.F("x", ctype.ArrayOf(h, 5)))
	j := ctype.StructOf("J", ctype.F("x", ctype.Int16), ctype.F("y", ctype.ArrayOf(ctype.Int8, 3)))
	union3 := ctype.UnionOf("Union3", ctype.F("x", ctype.ArrayOf(j, 5)), ctype.F("y", ctype.ArrayOf(ctype.Int8, 13)))

	numericStruct := ctype.StructOf("NumericStruct", numericFields()...)
	numericUnion := ctype.UnionOf("NumericUnion", numericFields()...)
	nestedFields := []ctype.Field{
		ctype.F("inner_NumericStruct", numericStruct),
		ctype.F("inner_NumericUnion", numericUnion),
		ctype.F("ptr_NumericStruct", ctype.Pointer),
		ctype.F("ptr_NumericUnion", ctype.Pointer),
	}

	test1 := ctype.StructOf("test1",
		ctype.F("b", ctype.Int8),
		ctype.F("s", ctype.Int16),
		ctype.F("i", ctype.Int32),
		ctype.F("j", ctype.Int64),
		ctype.F("l", ctype.Long),
		ctype.F("f", ctype.Float),
		ctype.F("d", ctype.Double),
		ctype.F("string", ctype.ArrayOf(ctype.Int8, 32)),
	)

	// Catalog types other than the pack2 family inherit the directive they are
	// laid out under, so LayoutUnder re-declares the whole header under it.
	osxFields := []ctype.Field{ctype.F("i", ctype.Uint32), ctype.F("l", ctype.Uint64)}
	pack2OnOSX := ctype.StructOf("pack2_on_osx", osxFields...)
	if target.IsDarwin() {
		pack2OnOSX = ctype.PackedStructOf("pack2_on_osx", 2, osxFields...)
	}

	return map[string]ctype.Type{
		"A":              a,
		"B":              b,
		"C":              c,
		"D":              d,
		"E":              e,
		"Array1":         array1,
		"MyLargeInteger": largeInt,
		"F":              f,
		"G":              g,
		"Array2":         array2,
		"Union1":         union1,
		"H":              h,
		"Union2":         union2,
		"J":              j,
		"Union3":         union3,

		"NumericStruct": numericStruct,
		"NumericUnion":  numericUnion,
		"NestedStruct":  ctype.StructOf("NestedStruct", nestedFields...),
		"NestedUnion":   ctype.UnionOf("NestedUnion", nestedFields...),

		"test1":         test1,
		"PointerStruct": ctype.StructOf("PointerStruct", ctype.F("s8", ctype.Int8), ctype.F("p", ctype.Pointer)),

		"pack2": ctype.PackedStructOf("pack2", 2,
			ctype.F("i", ctype.Uint32),
			ctype.F("l", ctype.Uint64),
		),
		"pack2_small": ctype.PackedStructOf("pack2_small", 2,
			ctype.F("tiny", ctype.Uint8),
			ctype.F("tiny2", ctype.Uint8),
			ctype.F("deadbeef", ctype.Uint32),
		),
		"pack2_on_osx": pack2OnOSX,

		"StructAlignment":       structAlignment(),
		"InnerStructAlignment1": innerStructAlignment(),
	}
}
