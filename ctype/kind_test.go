package ctype

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"int8_t", KindInt8},
		{"uint8_t", KindUint8},
		{"int16_t", KindInt16},
		{"uint16_t", KindUint16},
		{"int32_t", KindInt32},
		{"uint32_t", KindUint32},
		{"int64_t", KindInt64},
		{"uint64_t", KindUint64},
		{"long", KindLong},
		{"ulong", KindULong},
		{"size_t", KindSize},
		{"float", KindFloat},
		{"double", KindDouble},
		{"long double", KindLongDouble},
		{"bool", KindBool},
		{"pointer", KindPointer},
		{"Enum", KindEnum},
		{"struct", KindStruct},
		{"union", KindUnion},
		{"array", KindArray},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindClasses(t *testing.T) {
	for k := KindInt8; k <= KindEnum; k++ {
		if !k.IsScalar() || k.IsComposite() {
			t.Errorf("%s: want scalar", k)
		}
	}
	for _, k := range []Kind{KindStruct, KindUnion, KindArray} {
		if k.IsScalar() || !k.IsComposite() {
			t.Errorf("%s: want composite", k)
		}
	}
	if !KindLongDouble.IsFloat() || KindInt64.IsFloat() {
		t.Error("IsFloat misclassifies")
	}
	if !KindLong.IsSigned() || KindULong.IsSigned() || KindPointer.IsSigned() {
		t.Error("IsSigned misclassifies")
	}
}

func TestScalarByName(t *testing.T) {
	s, ok := ScalarByName("long double")
	if !ok || s != LongDouble {
		t.Errorf("ScalarByName(long double) = %v, %v", s, ok)
	}
	if _, ok := ScalarByName("struct"); ok {
		t.Error("composite kinds must not resolve as scalars")
	}
	if _, ok := ScalarByName("int128_t"); ok {
		t.Error("unknown scalar resolved")
	}
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Uint16, "uint16_t"},
		{StructOf("D", F("x", Int8)), "D"},
		{&Struct{}, "struct {...}"},
		{UnionOf("Union1"), "Union1"},
		{&Union{}, "union {...}"},
		{ArrayOf(StructOf("G"), 3), "G[3]"},
		{ArrayOf(ArrayOf(Int8, 3), 5), "int8_t[3][5]"},
	}
	for _, tc := range tests {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
