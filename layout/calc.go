package layout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/errors"
	"github.com/wippyai/ffi-layout/internal/abi"
)

// maxDepth bounds composite nesting; deeper graphs are cyclic in practice.
const maxDepth = 64

type cacheKey struct {
	typ  ctype.Type
	pack ctype.Packing
}

type Calculator struct {
	cache  sync.Map // cacheKey -> *Info
	target ctype.Target
}

func NewCalculator(target ctype.Target) *Calculator {
	return &Calculator{target: target}
}

func (c *Calculator) Target() ctype.Target {
	return c.target
}

// Layout computes the layout of t declared under packing p.
func (c *Calculator) Layout(t ctype.Type, p ctype.Packing) (Info, error) {
	if !p.Valid() {
		return Info{}, errors.InvalidPacking(errors.PhaseLayout, int(p))
	}
	info, err := c.get(t, p, nil)
	if err != nil {
		return Info{}, err
	}
	return *info, nil
}

// Probe returns the natural alignment of t as the compiler reveals it: the
// offset of t in `struct { char c; T d; }`.
func (c *Calculator) Probe(t ctype.Type) (uint32, error) {
	wrapper := &ctype.Struct{Fields: []ctype.Field{
		ctype.F("c", ctype.Int8),
		ctype.F("d", t),
	}}
	info, err := c.structInfo(wrapper, ctype.Natural, []string{"probe"})
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Phase == errors.PhaseLayout {
			e.Phase = errors.PhaseProbe
		}
		return 0, err
	}
	return info.Fields[1].Offset, nil
}

func (c *Calculator) get(t ctype.Type, p ctype.Packing, path []string) (*Info, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Path(path...).
			Target(c.target.Name).
			Detail("nil type").
			Build()
	}
	if len(path) > maxDepth {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Path(path...).
			CType(t.String()).
			Detail("nesting deeper than %d", maxDepth).
			Build()
	}

	if s, ok := t.(ctype.Scalar); ok {
		return c.scalarInfo(s, path)
	}

	p = declaredPacking(t, p)
	key := cacheKey{typ: t, pack: p}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*Info), nil
	}

	var info *Info
	var err error
	switch typ := t.(type) {
	case *ctype.Struct:
		info, err = c.structInfo(typ, p, path)
	case *ctype.Union:
		info, err = c.unionInfo(typ, p, path)
	case *ctype.Array:
		info, err = c.arrayInfo(typ, p, path)
	default:
		err = errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			CType(t.String()).
			Build()
	}
	if err != nil {
		return nil, err
	}

	actual, loaded := c.cache.LoadOrStore(key, info)
	if !loaded {
		Logger().Debug("layout computed",
			zap.String("type", t.String()),
			zap.String("target", c.target.Name),
			zap.Stringer("packing", p),
			zap.Uint32("size", info.Size),
			zap.Uint32("align", info.Align))
	}
	return actual.(*Info), nil
}

// declaredPacking returns the directive a composite is laid out under when it
// appears in a region packed with p. Member alignment is still capped by p.
func declaredPacking(t ctype.Type, p ctype.Packing) ctype.Packing {
	switch typ := t.(type) {
	case *ctype.Struct:
		if typ.ExplicitPack || typ.Pack != ctype.Natural {
			return typ.Pack
		}
	case *ctype.Union:
		if typ.ExplicitPack || typ.Pack != ctype.Natural {
			return typ.Pack
		}
	}
	return p
}

func (c *Calculator) scalarInfo(s ctype.Scalar, path []string) (*Info, error) {
	sl, ok := c.target.Scalar(s.Kind())
	if !ok {
		return nil, errors.New(errors.PhaseLayout, errors.KindUnsupported).
			Path(path...).
			CType(s.String()).
			Target(c.target.Name).
			Detail("no scalar layout").
			Build()
	}
	return &Info{Kind: s.Kind(), Size: sl.Size, Align: sl.Align}, nil
}

func (c *Calculator) structInfo(s *ctype.Struct, p ctype.Packing, path []string) (*Info, error) {
	path = append(path[:len(path):len(path)], s.String())

	fields := make([]FieldInfo, 0, len(s.Fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range s.Fields {
		fl, err := c.get(field.Type, p, append(path[:len(path):len(path)], field.Name))
		if err != nil {
			return nil, err
		}

		align := p.Cap(fl.Align)
		start, ok := abi.SafeAlignTo(offset, align)
		if !ok {
			return nil, c.overflow(path, s)
		}
		fields = append(fields, fieldInfo(field, fl, start, align))

		if align > maxAlign {
			maxAlign = align
		}

		offset, ok = abi.SafeAddU32(start, fl.Size)
		if !ok {
			return nil, c.overflow(path, s)
		}
	}

	totalSize, ok := abi.SafeAlignTo(offset, maxAlign)
	if !ok {
		return nil, c.overflow(path, s)
	}

	return &Info{
		Kind:   ctype.KindStruct,
		Size:   totalSize,
		Align:  maxAlign,
		Fields: fields,
	}, nil
}

func (c *Calculator) unionInfo(u *ctype.Union, p ctype.Packing, path []string) (*Info, error) {
	path = append(path[:len(path):len(path)], u.String())

	fields := make([]FieldInfo, 0, len(u.Fields))
	maxAlign := uint32(1)
	maxSize := uint32(0)

	for _, field := range u.Fields {
		fl, err := c.get(field.Type, p, append(path[:len(path):len(path)], field.Name))
		if err != nil {
			return nil, err
		}

		align := p.Cap(fl.Align)
		fields = append(fields, fieldInfo(field, fl, 0, align))

		if align > maxAlign {
			maxAlign = align
		}
		if fl.Size > maxSize {
			maxSize = fl.Size
		}
	}

	totalSize, ok := abi.SafeAlignTo(maxSize, maxAlign)
	if !ok {
		return nil, c.overflow(path, u)
	}

	return &Info{
		Kind:   ctype.KindUnion,
		Size:   totalSize,
		Align:  maxAlign,
		Fields: fields,
	}, nil
}

func (c *Calculator) arrayInfo(a *ctype.Array, p ctype.Packing, path []string) (*Info, error) {
	elem, err := c.get(a.Elem, p, path)
	if err != nil {
		return nil, err
	}

	size, ok := abi.SafeMulU32(elem.Size, a.Len)
	if !ok {
		return nil, c.overflow(path, a)
	}

	return &Info{
		Kind:  ctype.KindArray,
		Size:  size,
		Align: elem.Align,
		Elem:  elem,
		Len:   a.Len,
	}, nil
}

func (c *Calculator) overflow(path []string, t ctype.Type) error {
	err := errors.Overflow(errors.PhaseLayout, path, t.String())
	err.Target = c.target.Name
	return err
}

func fieldInfo(field ctype.Field, fl *Info, offset, align uint32) FieldInfo {
	fi := FieldInfo{
		Name:   field.Name,
		Type:   field.Type,
		Offset: offset,
		Size:   fl.Size,
		Align:  align,
	}
	if fl.Kind.IsComposite() {
		fi.Layout = fl
	}
	return fi
}
