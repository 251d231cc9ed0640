package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/descriptor"
	lerrors "github.com/wippyai/ffi-layout/errors"
	"github.com/wippyai/ffi-layout/layout"
)

func fixture(t *testing.T, target, name string) layout.Info {
	t.Helper()
	tgt, err := ctype.TargetByName(target)
	if err != nil {
		t.Fatal(err)
	}
	d, err := descriptor.New(tgt)
	if err != nil {
		t.Fatal(err)
	}
	info, err := d.Layout(name)
	if err != nil {
		t.Fatal(err)
	}
	return info
}

func newRecord(t *testing.T, a *Arena, info layout.Info) *Record {
	t.Helper()
	r, err := NewRecord(a, info)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if r.Ptr()%info.Align != 0 {
		t.Errorf("ptr %d not aligned to %d", r.Ptr(), info.Align)
	}
	return r
}

func TestRecordPack2(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "pack2"))

	if err := r.SetUint("i", 0x01020304); err != nil {
		t.Fatal(err)
	}
	if err := r.SetUint("l", 0x05060708090a0b0c); err != nil {
		t.Fatal(err)
	}

	got, err := r.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x04, 0x03, 0x02, 0x01, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06, 0x05}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}

	l, err := r.Uint("l")
	if err != nil {
		t.Fatal(err)
	}
	if l != 0x05060708090a0b0c {
		t.Errorf("l: got %#x", l)
	}
}

func TestRecordPack2Small(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "pack2_small"))

	for _, set := range []struct {
		path string
		v    uint64
	}{
		{"tiny", 0x12},
		{"tiny2", 0x34},
		{"deadbeef", 0xdeadbeef},
	} {
		if err := r.SetUint(set.path, set.v); err != nil {
			t.Fatalf("%s: %v", set.path, err)
		}
	}

	got, _ := r.Bytes()
	want := []byte{0x12, 0x34, 0xef, 0xbe, 0xad, 0xde}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestRecordTest1(t *testing.T) {
	for _, target := range []string{"x86_64-linux", "i386-linux", "x86_64-windows"} {
		t.Run(target, func(t *testing.T) {
			a := newArena(t, Config{})
			r := newRecord(t, a, fixture(t, target, "test1"))

			ints := []struct {
				path string
				v    int64
			}{
				{"b", -1},
				{"s", -2},
				{"i", -3},
				{"j", -4},
				{"l", -5},
			}
			for _, in := range ints {
				if err := r.SetInt(in.path, in.v); err != nil {
					t.Fatalf("%s: %v", in.path, err)
				}
			}
			if err := r.SetFloat("f", 1.5); err != nil {
				t.Fatal(err)
			}
			if err := r.SetFloat("d", 2.25); err != nil {
				t.Fatal(err)
			}
			if err := r.SetBytes("string", []byte("hello")); err != nil {
				t.Fatal(err)
			}

			for _, in := range ints {
				got, err := r.Int(in.path)
				if err != nil {
					t.Fatal(err)
				}
				if got != in.v {
					t.Errorf("%s: got %d, want %d", in.path, got, in.v)
				}
			}
			if got, _ := r.Float("f"); got != 1.5 {
				t.Errorf("f: got %v, want 1.5", got)
			}
			if got, _ := r.Float("d"); got != 2.25 {
				t.Errorf("d: got %v, want 2.25", got)
			}
			s, err := r.Member("string")
			if err != nil {
				t.Fatal(err)
			}
			if len(s) != 32 || string(s[:6]) != "hello\x00" {
				t.Errorf("string: got %q", s)
			}
		})
	}
}

func TestRecordNestedPath(t *testing.T) {
	a := newArena(t, Config{})
	info := fixture(t, "x86_64-linux", "Array1")
	r := newRecord(t, a, info)

	if err := r.SetInt("t.2.y", 0x1122334455667788); err != nil {
		t.Fatal(err)
	}

	raw, _ := r.Bytes()
	// t[2] starts at 48, y at +8
	if raw[56] != 0x88 || raw[63] != 0x11 {
		t.Errorf("t[2].y bytes: % x", raw[56:64])
	}
	if got, _ := r.Int("t.1.y"); got != 0 {
		t.Errorf("t[1].y: got %d, want 0", got)
	}
}

func TestRecordBool(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "NumericStruct"))

	if err := r.SetBool("val_bool", true); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Bool("val_bool"); !got {
		t.Error("val_bool: got false")
	}
	if err := r.SetUint("val_pointer", 0xfeedface); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Uint("val_pointer"); got != 0xfeedface {
		t.Errorf("val_pointer: got %#x", got)
	}
}

func TestRecordErrors(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "Array1"))
	n := newRecord(t, a, fixture(t, "x86_64-linux", "test1"))

	tests := []struct {
		name string
		err  error
		kind lerrors.Kind
	}{
		{"unknown member", r.SetInt("nope", 1), lerrors.KindUnknownType},
		{"composite", r.SetInt("t", 1), lerrors.KindUnsupported},
		{"float into int", n.SetFloat("i", 1), lerrors.KindInvalidInput},
		{"int into float", n.SetInt("d", 1), lerrors.KindInvalidInput},
		{"bytes too long", n.SetBytes("string", make([]byte, 33)), lerrors.KindOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, &lerrors.Error{Phase: lerrors.PhaseMemory, Kind: tt.kind}) {
				t.Errorf("got %v, want %s", tt.err, tt.kind)
			}
		})
	}
}

func TestRecordLongDoubleRejected(t *testing.T) {
	tgt, _ := ctype.TargetByName("x86_64-linux")
	info, err := layout.NewCalculator(tgt).Layout(
		ctype.StructOf("ld", ctype.F("x", ctype.LongDouble)), ctype.Natural)
	if err != nil {
		t.Fatal(err)
	}

	a := newArena(t, Config{})
	r := newRecord(t, a, info)
	_, err = r.Float("x")
	if !errors.Is(err, &lerrors.Error{Phase: lerrors.PhaseMemory, Kind: lerrors.KindUnsupported}) {
		t.Errorf("got %v, want unsupported", err)
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		bits uint64
		size uint32
		want int64
	}{
		{0xff, 1, -1},
		{0x7f, 1, 127},
		{0xfffe, 2, -2},
		{0x80000000, 4, -2147483648},
		{0xffffffffffffffff, 8, -1},
	}
	for _, tt := range tests {
		if got := signExtend(tt.bits, tt.size); got != tt.want {
			t.Errorf("signExtend(%#x, %d): got %d, want %d", tt.bits, tt.size, got, tt.want)
		}
	}
}

func TestRecordArrayElement(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "Union1"))

	if err := r.SetInt("ss.3", -7); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Int("ss.3"); got != -7 {
		t.Errorf("ss[3]: got %d, want -7", got)
	}
	// ss[3] overlaps the high half of u
	u, _ := r.Uint("u")
	if u>>48 != 0xfff9 {
		t.Errorf("u: got %#x", u)
	}
}

func TestRecordIntegerRange(t *testing.T) {
	a := newArena(t, Config{})
	r := newRecord(t, a, fixture(t, "x86_64-linux", "NumericStruct"))

	tests := []struct {
		name string
		set  func() error
		ok   bool
	}{
		{"int8 max", func() error { return r.SetInt("val_int8_t", 127) }, true},
		{"int8 min", func() error { return r.SetInt("val_int8_t", -128) }, true},
		{"int8 too big", func() error { return r.SetInt("val_int8_t", 300) }, false},
		{"int8 too small", func() error { return r.SetInt("val_int8_t", -129) }, false},
		{"uint8 max", func() error { return r.SetUint("val_uint8_t", 255) }, true},
		{"uint8 too big", func() error { return r.SetUint("val_uint8_t", 256) }, false},
		{"uint8 negative", func() error { return r.SetInt("val_uint8_t", -1) }, false},
		{"uint16 via SetInt", func() error { return r.SetInt("val_uint16_t", 65535) }, true},
		{"int32 via SetUint", func() error { return r.SetUint("val_int32_t", 1<<31) }, false},
		{"int64 via SetUint", func() error { return r.SetUint("val_int64_t", 1<<63) }, false},
		{"uint64 max", func() error { return r.SetUint("val_uint64_t", 1<<64-1) }, true},
		{"uint64 negative", func() error { return r.SetInt("val_uint64_t", -1) }, false},
		{"int64 min", func() error { return r.SetInt("val_int64_t", -1<<63) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			if tt.ok {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, &lerrors.Error{Phase: lerrors.PhaseMemory, Kind: lerrors.KindOverflow}) {
				t.Errorf("got %v, want overflow", err)
			}
		})
	}

	// A rejected store leaves the member untouched.
	if err := r.SetInt("val_int8_t", 5); err != nil {
		t.Fatal(err)
	}
	_ = r.SetInt("val_int8_t", 300)
	if got, _ := r.Int("val_int8_t"); got != 5 {
		t.Errorf("val_int8_t: got %d, want 5", got)
	}
}

func TestRecordRootArray(t *testing.T) {
	tgt, _ := ctype.TargetByName("x86_64-linux")
	info, err := layout.NewCalculator(tgt).Layout(ctype.ArrayOf(ctype.Int16, 4), ctype.Natural)
	if err != nil {
		t.Fatal(err)
	}

	a := newArena(t, Config{})
	r := newRecord(t, a, info)
	if err := r.SetInt("2", -3); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Int("2"); got != -3 {
		t.Errorf("[2]: got %d, want -3", got)
	}
	raw, _ := r.Bytes()
	if raw[4] != 0xfd || raw[5] != 0xff {
		t.Errorf("bytes: % x", raw)
	}
}
