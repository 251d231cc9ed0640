package ctype

import (
	"fmt"
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ffi-layout/errors"
)

// FromWIT maps a WIT type to the C type wit-bindgen would declare for it.
// Strings and lists become {ptr, len} pairs; option, result and variant
// become a tag followed by a union payload.
func FromWIT(t wit.Type) (Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return Bool, nil
	case wit.U8:
		return Uint8, nil
	case wit.S8:
		return Int8, nil
	case wit.U16:
		return Uint16, nil
	case wit.S16:
		return Int16, nil
	case wit.U32, wit.Char:
		return Uint32, nil
	case wit.S32:
		return Int32, nil
	case wit.U64:
		return Uint64, nil
	case wit.S64:
		return Int64, nil
	case wit.F32:
		return Float, nil
	case wit.F64:
		return Double, nil
	case wit.String:
		return StructOf("string", F("ptr", Pointer), F("len", Size)), nil
	case *wit.TypeDef:
		return fromTypeDef(typ)
	default:
		return nil, errors.Unsupported(errors.PhaseBridge, fmt.Sprintf("WIT type %T", t))
	}
}

func fromTypeDef(td *wit.TypeDef) (Type, error) {
	name := ""
	if td.Name != nil {
		name = *td.Name
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		fields := make([]Field, 0, len(kind.Fields))
		for _, f := range kind.Fields {
			ft, err := FromWIT(f.Type)
			if err != nil {
				return nil, withPath(err, name, f.Name)
			}
			fields = append(fields, F(f.Name, ft))
		}
		return StructOf(name, fields...), nil

	case *wit.Tuple:
		fields := make([]Field, 0, len(kind.Types))
		for i, et := range kind.Types {
			ft, err := FromWIT(et)
			if err != nil {
				return nil, withPath(err, name, "f"+strconv.Itoa(i))
			}
			fields = append(fields, F("f"+strconv.Itoa(i), ft))
		}
		return StructOf(name, fields...), nil

	case *wit.Enum:
		return discriminant(len(kind.Cases)), nil

	case *wit.Flags:
		return flagsType(len(kind.Flags)), nil

	case *wit.List:
		if _, err := FromWIT(kind.Type); err != nil {
			return nil, withPath(err, name, "elem")
		}
		return StructOf(name, F("ptr", Pointer), F("len", Size)), nil

	case *wit.Option:
		val, err := FromWIT(kind.Type)
		if err != nil {
			return nil, withPath(err, name, "val")
		}
		return StructOf(name, F("is_some", Bool), F("val", val)), nil

	case *wit.Result:
		payload := &Union{}
		if kind.OK != nil {
			ok, err := FromWIT(kind.OK)
			if err != nil {
				return nil, withPath(err, name, "ok")
			}
			payload.Fields = append(payload.Fields, F("ok", ok))
		}
		if kind.Err != nil {
			e, err := FromWIT(kind.Err)
			if err != nil {
				return nil, withPath(err, name, "err")
			}
			payload.Fields = append(payload.Fields, F("err", e))
		}
		if len(payload.Fields) == 0 {
			return StructOf(name, F("is_err", Bool)), nil
		}
		return StructOf(name, F("is_err", Bool), F("val", payload)), nil

	case *wit.Variant:
		payload := &Union{}
		for _, c := range kind.Cases {
			if c.Type == nil {
				continue
			}
			ct, err := FromWIT(c.Type)
			if err != nil {
				return nil, withPath(err, name, c.Name)
			}
			payload.Fields = append(payload.Fields, F(c.Name, ct))
		}
		tag := discriminant(len(kind.Cases))
		if len(payload.Fields) == 0 {
			return StructOf(name, F("tag", tag)), nil
		}
		return StructOf(name, F("tag", tag), F("val", payload)), nil

	case *wit.Own, *wit.Borrow:
		return StructOf(name, F("__handle", Int32)), nil

	case wit.Type:
		return FromWIT(kind)

	default:
		return nil, errors.Unsupported(errors.PhaseBridge, "WIT type definition "+name)
	}
}

// discriminant picks the smallest unsigned tag that holds n cases.
func discriminant(n int) Scalar {
	switch {
	case n <= 1<<8:
		return Uint8
	case n <= 1<<16:
		return Uint16
	default:
		return Uint32
	}
}

func flagsType(n int) Type {
	switch {
	case n <= 8:
		return Uint8
	case n <= 16:
		return Uint16
	case n <= 32:
		return Uint32
	case n <= 64:
		return Uint64
	default:
		return ArrayOf(Uint32, uint32((n+31)/32))
	}
}

// withPath prefixes the error path with the enclosing type and member.
func withPath(err error, typeName, member string) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	prefix := []string{member}
	if typeName != "" {
		prefix = []string{typeName, member}
	}
	e.Path = append(prefix, e.Path...)
	return e
}
