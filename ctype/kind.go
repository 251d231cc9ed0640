package ctype

type Kind uint8

const (
	KindInt8 Kind = iota
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindLong
	KindULong
	KindSize
	KindFloat
	KindDouble
	KindLongDouble
	KindBool
	KindPointer
	KindEnum
	KindStruct
	KindUnion
	KindArray
)

// numScalarKinds bounds the per-target scalar table.
const numScalarKinds = int(KindEnum) + 1

var kindNames = [...]string{
	KindInt8:       "int8_t",
	KindUint8:      "uint8_t",
	KindInt16:      "int16_t",
	KindUint16:     "uint16_t",
	KindInt32:      "int32_t",
	KindUint32:     "uint32_t",
	KindInt64:      "int64_t",
	KindUint64:     "uint64_t",
	KindLong:       "long",
	KindULong:      "ulong",
	KindSize:       "size_t",
	KindFloat:      "float",
	KindDouble:     "double",
	KindLongDouble: "long double",
	KindBool:       "bool",
	KindPointer:    "pointer",
	KindEnum:       "Enum",
	KindStruct:     "struct",
	KindUnion:      "union",
	KindArray:      "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k <= KindEnum
}

func (k Kind) IsComposite() bool {
	return k >= KindStruct && k <= KindArray
}

// IsFloat reports whether values of the kind are stored as IEEE 754 bits.
func (k Kind) IsFloat() bool {
	return k == KindFloat || k == KindDouble || k == KindLongDouble
}

// IsSigned reports whether the kind is a signed integer.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindLong, KindEnum:
		return true
	default:
		return false
	}
}
