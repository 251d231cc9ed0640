package descriptor

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/errors"
	"github.com/wippyai/ffi-layout/layout"
)

// InvalidOffset is returned by the integer API for an out-of-range field,
// level or packing directive.
const InvalidOffset = -1

// NumFields is the field count of the packing composite (f0..f4).
const NumFields = 5

// NestingLevel selects a level of InnerStructAlignment1; 0 is the outermost.
type NestingLevel int

const MaxNestingLevel NestingLevel = 2

// TypeDescriptor is the memory footprint of one named type.
type TypeDescriptor struct {
	Name      string
	Size      int
	Alignment int
}

// FieldOffset is the byte offset of one declared field.
type FieldOffset struct {
	Index  int
	Offset int
}

// PackedLayout is the field arrangement of the packing composite under one
// directive. For nested levels the offsets are absolute, measured from the
// start of the outermost struct.
type PackedLayout struct {
	Fields  []FieldOffset
	Size    int
	Packing ctype.Packing
}

type nestedLayout struct {
	levels [MaxNestingLevel + 1]PackedLayout
	size   int
}

// Descriptor holds the precomputed answers for one target.
type Descriptor struct {
	calc   *layout.Calculator
	types  map[string]TypeDescriptor
	ctypes map[string]ctype.Type
	infos  map[string]layout.Info
	packed map[ctype.Packing]PackedLayout
	nested map[ctype.Packing]nestedLayout
	target ctype.Target
}

type Option func(*Descriptor)

// WithCalculator shares a calculator (and its cache) across descriptors.
// The calculator must be built for the same target.
func WithCalculator(c *layout.Calculator) Option {
	return func(d *Descriptor) {
		d.calc = c
	}
}

// New builds the descriptor for target.
func New(target ctype.Target, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		target: target,
		types:  make(map[string]TypeDescriptor),
		ctypes: make(map[string]ctype.Type),
		infos:  make(map[string]layout.Info),
		packed: make(map[ctype.Packing]PackedLayout),
		nested: make(map[ctype.Packing]nestedLayout),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.calc == nil {
		d.calc = layout.NewCalculator(target)
	} else if d.calc.Target().Name != target.Name {
		return nil, errors.New(errors.PhaseTarget, errors.KindInvalidInput).
			Target(target.Name).
			Detail("calculator built for %s", d.calc.Target().Name).
			Build()
	}

	for name, t := range scalarNames {
		if err := d.addType(name, t); err != nil {
			return nil, err
		}
	}
	for name, t := range composites(target) {
		if err := d.addType(name, t); err != nil {
			return nil, err
		}
	}

	if err := d.buildPacked(); err != nil {
		return nil, err
	}

	Logger().Debug("descriptor built",
		zap.String("target", target.Name),
		zap.Int("types", len(d.types)))
	return d, nil
}

func (d *Descriptor) addType(name string, t ctype.Type) error {
	info, err := d.calc.Layout(t, ctype.Natural)
	if err != nil {
		return err
	}
	align, err := d.calc.Probe(t)
	if err != nil {
		return err
	}
	d.ctypes[name] = t
	d.infos[name] = info
	d.types[name] = TypeDescriptor{Name: name, Size: int(info.Size), Alignment: int(align)}
	return nil
}

func (d *Descriptor) buildPacked() error {
	flat := structAlignment()
	nested := innerStructAlignment()

	for _, p := range append([]ctype.Packing{ctype.Natural}, ctype.Directives...) {
		info, err := d.calc.Layout(flat, p)
		if err != nil {
			return err
		}
		d.packed[p] = PackedLayout{Packing: p, Size: int(info.Size), Fields: fieldOffsets(info, 0)}

		ninfo, err := d.calc.Layout(nested, p)
		if err != nil {
			return err
		}
		var nl nestedLayout
		nl.size = int(ninfo.Size)
		level := ninfo
		var base uint32
		for l := range nl.levels {
			nl.levels[l] = PackedLayout{Packing: p, Size: int(level.Size), Fields: fieldOffsets(level, base)}
			if l == len(nl.levels)-1 {
				break
			}
			f5, ok := level.Field("f5")
			if !ok || f5.Layout == nil {
				return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
					CType(nested.String()).
					Detail("level %d has no nested struct", l).
					Build()
			}
			base += f5.Offset
			level = *f5.Layout
		}
		d.nested[p] = nl
	}
	return nil
}

// fieldOffsets returns the offsets of f0..f4 shifted by base.
func fieldOffsets(info layout.Info, base uint32) []FieldOffset {
	out := make([]FieldOffset, 0, NumFields)
	for i := 0; i < NumFields && i < len(info.Fields); i++ {
		out = append(out, FieldOffset{Index: i, Offset: int(base + info.Fields[i].Offset)})
	}
	return out
}

func (d *Descriptor) Target() ctype.Target {
	return d.target
}

// Names lists every type in the table, sorted.
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.types))
	for name := range d.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the descriptor of a named type.
func (d *Descriptor) Lookup(name string) (TypeDescriptor, error) {
	td, ok := d.types[name]
	if !ok {
		err := errors.UnknownType(errors.PhaseLookup, name)
		err.Target = d.target.Name
		return TypeDescriptor{Name: name}, err
	}
	return td, nil
}

// Layout returns the full natural layout of a named type.
func (d *Descriptor) Layout(name string) (layout.Info, error) {
	info, ok := d.infos[name]
	if !ok {
		err := errors.UnknownType(errors.PhaseLookup, name)
		err.Target = d.target.Name
		return layout.Info{}, err
	}
	return info, nil
}

// LayoutUnder lays out a named type as if declared under directive p.
// Types with their own packing keep it.
func (d *Descriptor) LayoutUnder(name string, p ctype.Packing) (layout.Info, error) {
	t, ok := d.ctypes[name]
	if !ok {
		err := errors.UnknownType(errors.PhaseLookup, name)
		err.Target = d.target.Name
		return layout.Info{}, err
	}
	if p == ctype.Natural {
		return d.infos[name], nil
	}
	return d.calc.Layout(t, p)
}

// Describe returns {name, 0, 0} for unknown names.
func (d *Descriptor) Describe(name string) TypeDescriptor {
	td, err := d.Lookup(name)
	if err != nil {
		unrecognized(err)
	}
	return td
}

// SizeOf returns the size of a named type, or 0 when the name is unknown.
func (d *Descriptor) SizeOf(name string) int {
	return d.Describe(name).Size
}

// AlignmentOf returns the probed alignment of a named type, or 0 when the
// name is unknown.
func (d *Descriptor) AlignmentOf(name string) int {
	return d.Describe(name).Alignment
}

// PackedLayout returns the packing composite's layout under p.
func (d *Descriptor) PackedLayout(p ctype.Packing) (PackedLayout, error) {
	pl, ok := d.packed[p]
	if !ok {
		return PackedLayout{}, errors.InvalidPacking(errors.PhaseLookup, int(p))
	}
	return pl, nil
}

// InnerPackedLayout returns one level of the nested composite under p with
// absolute offsets. Size is the size of that level's struct.
func (d *Descriptor) InnerPackedLayout(p ctype.Packing, level NestingLevel) (PackedLayout, error) {
	nl, ok := d.nested[p]
	if !ok {
		return PackedLayout{}, errors.InvalidPacking(errors.PhaseLookup, int(p))
	}
	if level < 0 || level > MaxNestingLevel {
		return PackedLayout{}, errors.OutOfRange(errors.PhaseLookup, "level", int(level), int(MaxNestingLevel))
	}
	return nl.levels[level], nil
}

// AlignedSize returns the size of the packing composite under directive, or
// 0 for a directive other than 0, 1, 2, 4, 8 or 16.
func (d *Descriptor) AlignedSize(directive int) int {
	pl, err := d.packedByDirective(directive)
	if err != nil {
		unrecognized(err)
		return 0
	}
	return pl.Size
}

// FieldOffset returns the offset of field 0..4 under directive, or
// InvalidOffset.
func (d *Descriptor) FieldOffset(directive, field int) int {
	pl, err := d.packedByDirective(directive)
	if err != nil {
		unrecognized(err)
		return InvalidOffset
	}
	return offsetOf(pl, field)
}

// InnerAlignedSize returns the size of the outermost nested composite under
// directive, or 0.
func (d *Descriptor) InnerAlignedSize(directive int) int {
	p, err := ctype.ParsePacking(directive)
	if err != nil {
		unrecognized(err)
		return 0
	}
	return d.nested[p].size
}

// InnerFieldOffset returns the absolute offset of field 0..4 at nesting level
// 0..2 under directive, or InvalidOffset.
func (d *Descriptor) InnerFieldOffset(directive, level, field int) int {
	p, err := ctype.ParsePacking(directive)
	if err != nil {
		unrecognized(err)
		return InvalidOffset
	}
	pl, err := d.InnerPackedLayout(p, NestingLevel(level))
	if err != nil {
		unrecognized(err)
		return InvalidOffset
	}
	return offsetOf(pl, field)
}

func (d *Descriptor) packedByDirective(directive int) (PackedLayout, error) {
	p, err := ctype.ParsePacking(directive)
	if err != nil {
		return PackedLayout{}, err
	}
	return d.PackedLayout(p)
}

func offsetOf(pl PackedLayout, field int) int {
	if field < 0 || field >= len(pl.Fields) {
		unrecognized(errors.OutOfRange(errors.PhaseLookup, "field", field, NumFields-1))
		return InvalidOffset
	}
	return pl.Fields[field].Offset
}

func unrecognized(err error) {
	Logger().Debug("unrecognized query", zap.Error(err))
}
