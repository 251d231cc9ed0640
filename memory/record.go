package memory

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/errors"
	"github.com/wippyai/ffi-layout/layout"
)

// Record is one struct, union or array instance living in an arena.
type Record struct {
	mem  Memory
	info layout.Info
	ptr  uint32
}

// NewRecord allocates a zeroed instance of info in a.
func NewRecord(a *Arena, info layout.Info) (*Record, error) {
	ptr, err := a.Alloc(info.Size, info.Align)
	if err != nil {
		return nil, err
	}
	r := &Record{mem: a.Memory(), info: info, ptr: ptr}
	if err := r.mem.Write(ptr, make([]byte, info.Size)); err != nil {
		return nil, err
	}
	return r, nil
}

// Ptr returns the record's offset in linear memory.
func (r *Record) Ptr() uint32 {
	return r.ptr
}

func (r *Record) Layout() layout.Info {
	return r.info
}

// Bytes returns a copy of the record's raw storage.
func (r *Record) Bytes() ([]byte, error) {
	data, err := r.mem.Read(r.ptr, r.info.Size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// SetInt stores v in the integer, bool or pointer member at path. Paths are
// dotted member names; numeric elements index arrays ("t.2.y"). A value
// outside the member's range is rejected rather than truncated.
func (r *Record) SetInt(path string, v int64) error {
	f, off, err := r.integer(path)
	if err != nil {
		return err
	}
	if !fitsInt(v, f.Size, f.Type.Kind().IsSigned()) {
		return r.overflow(path, f, v)
	}
	return Store(r.mem, off, f.Size, uint64(v))
}

// SetUint stores v in the integer, bool or pointer member at path.
func (r *Record) SetUint(path string, v uint64) error {
	f, off, err := r.integer(path)
	if err != nil {
		return err
	}
	if !fitsUint(v, f.Size, f.Type.Kind().IsSigned()) {
		return r.overflow(path, f, v)
	}
	return Store(r.mem, off, f.Size, v)
}

func (r *Record) SetBool(path string, v bool) error {
	var n uint64
	if v {
		n = 1
	}
	return r.SetUint(path, n)
}

// SetFloat stores v in the float or double member at path.
func (r *Record) SetFloat(path string, v float64) error {
	f, off, err := r.scalar(path)
	if err != nil {
		return err
	}
	switch f.Type.Kind() {
	case ctype.KindFloat:
		return Store(r.mem, off, 4, uint64(math.Float32bits(float32(v))))
	case ctype.KindDouble:
		return Store(r.mem, off, 8, math.Float64bits(v))
	default:
		return r.mismatch(path, f, "float")
	}
}

// SetBytes copies data into the array member at path. Shorter data leaves
// the tail untouched.
func (r *Record) SetBytes(path string, data []byte) error {
	f, off, err := r.member(path)
	if err != nil {
		return err
	}
	if uint32(len(data)) > f.Size {
		return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Path(splitPath(path)...).
			Detail("%d bytes into member of %d", len(data), f.Size).
			Build()
	}
	return r.mem.Write(off, data)
}

// Int loads the integer member at path, sign-extending signed kinds.
func (r *Record) Int(path string) (int64, error) {
	f, off, err := r.integer(path)
	if err != nil {
		return 0, err
	}
	bits, err := Load(r.mem, off, f.Size)
	if err != nil {
		return 0, err
	}
	if f.Type.Kind().IsSigned() {
		return signExtend(bits, f.Size), nil
	}
	return int64(bits), nil
}

func (r *Record) Uint(path string) (uint64, error) {
	f, off, err := r.integer(path)
	if err != nil {
		return 0, err
	}
	return Load(r.mem, off, f.Size)
}

func (r *Record) Bool(path string) (bool, error) {
	v, err := r.Uint(path)
	return v != 0, err
}

func (r *Record) Float(path string) (float64, error) {
	f, off, err := r.scalar(path)
	if err != nil {
		return 0, err
	}
	switch f.Type.Kind() {
	case ctype.KindFloat:
		bits, err := Load(r.mem, off, 4)
		return float64(math.Float32frombits(uint32(bits))), err
	case ctype.KindDouble:
		bits, err := Load(r.mem, off, 8)
		return math.Float64frombits(bits), err
	default:
		return 0, r.mismatch(path, f, "float")
	}
}

// Member returns a copy of the raw bytes of the member at path.
func (r *Record) Member(path string) ([]byte, error) {
	f, off, err := r.member(path)
	if err != nil {
		return nil, err
	}
	data, err := r.mem.Read(off, f.Size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (r *Record) member(path string) (layout.FieldInfo, uint32, error) {
	parts := splitPath(path)
	f, rel, ok := r.info.Resolve(parts...)
	if !ok {
		return layout.FieldInfo{}, 0, errors.New(errors.PhaseMemory, errors.KindUnknownType).
			Path(parts...).
			Detail("no member %q", path).
			Build()
	}
	return f, r.ptr + rel, nil
}

func (r *Record) scalar(path string) (layout.FieldInfo, uint32, error) {
	f, off, err := r.member(path)
	if err != nil {
		return f, off, err
	}
	if f.Type == nil {
		return f, off, errors.Unsupported(errors.PhaseMemory, "untyped member "+path)
	}
	k := f.Type.Kind()
	if !k.IsScalar() || k == ctype.KindLongDouble {
		return f, off, errors.New(errors.PhaseMemory, errors.KindUnsupported).
			Path(splitPath(path)...).
			CType(f.Type.String()).
			Detail("member is not a storable scalar").
			Build()
	}
	Logger().Debug("member access",
		zap.String("path", path),
		zap.Uint32("offset", off),
		zap.Uint32("size", f.Size))
	return f, off, nil
}

func (r *Record) integer(path string) (layout.FieldInfo, uint32, error) {
	f, off, err := r.scalar(path)
	if err != nil {
		return f, off, err
	}
	if f.Type.Kind().IsFloat() {
		return f, off, r.mismatch(path, f, "integer")
	}
	return f, off, nil
}

func (r *Record) overflow(path string, f layout.FieldInfo, v any) error {
	return errors.New(errors.PhaseMemory, errors.KindOverflow).
		Path(splitPath(path)...).
		CType(f.Type.String()).
		Value(v).
		Detail("%v does not fit in %d-byte %s", v, f.Size, f.Type).
		Build()
}

// fitsInt reports whether v is representable in size bytes.
func fitsInt(v int64, size uint32, signed bool) bool {
	if signed {
		if size >= 8 {
			return true
		}
		bits := 8 * size
		return v >= -(1<<(bits-1)) && v < 1<<(bits-1)
	}
	return v >= 0 && fitsUint(uint64(v), size, false)
}

func fitsUint(v uint64, size uint32, signed bool) bool {
	bits := 8 * size
	if signed {
		bits--
	}
	if bits >= 64 {
		return true
	}
	return v < 1<<bits
}

func (r *Record) mismatch(path string, f layout.FieldInfo, want string) error {
	return errors.New(errors.PhaseMemory, errors.KindInvalidInput).
		Path(splitPath(path)...).
		CType(f.Type.String()).
		Detail("%s value for %s member", want, f.Type).
		Build()
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// Store writes the low size bytes of bits at offset, little-endian.
func Store(mem Memory, offset, size uint32, bits uint64) error {
	switch size {
	case 1:
		return mem.WriteU8(offset, uint8(bits))
	case 2:
		return mem.WriteU16(offset, uint16(bits))
	case 4:
		return mem.WriteU32(offset, uint32(bits))
	case 8:
		return mem.WriteU64(offset, bits)
	default:
		return errors.Unsupported(errors.PhaseMemory, "scalar width")
	}
}

// Load reads a size-byte little-endian value at offset, zero-extended.
func Load(mem Memory, offset, size uint32) (uint64, error) {
	switch size {
	case 1:
		v, err := mem.ReadU8(offset)
		return uint64(v), err
	case 2:
		v, err := mem.ReadU16(offset)
		return uint64(v), err
	case 4:
		v, err := mem.ReadU32(offset)
		return uint64(v), err
	case 8:
		return mem.ReadU64(offset)
	default:
		return 0, errors.Unsupported(errors.PhaseMemory, "scalar width")
	}
}

func signExtend(bits uint64, size uint32) int64 {
	shift := 64 - 8*size
	return int64(bits<<shift) >> shift
}
