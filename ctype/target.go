package ctype

import (
	"runtime"
	"sort"

	"github.com/wippyai/ffi-layout/errors"
)

// ScalarLayout is the size of a scalar and its alignment as a struct member.
type ScalarLayout struct {
	Size  uint32
	Align uint32
}

// DataModel holds the scalar layouts that differ between ABIs. Everything
// else (8, 16 and 32-bit integers, float, bool, enum) is the same on every
// supported target.
type DataModel struct {
	Pointer    ScalarLayout
	Long       ScalarLayout
	Int64      ScalarLayout
	Double     ScalarLayout
	LongDouble ScalarLayout
}

// Target is the layout table for one ABI.
type Target struct {
	Name    string // e.g. "x86_64-linux"
	OS      string
	Arch    string
	scalars [numScalarKinds]ScalarLayout
}

// NewTarget builds a target from its data model.
func NewTarget(name, os, arch string, dm DataModel) Target {
	t := Target{Name: name, OS: os, Arch: arch}
	t.scalars = [numScalarKinds]ScalarLayout{
		KindInt8:       {1, 1},
		KindUint8:      {1, 1},
		KindInt16:      {2, 2},
		KindUint16:     {2, 2},
		KindInt32:      {4, 4},
		KindUint32:     {4, 4},
		KindInt64:      dm.Int64,
		KindUint64:     dm.Int64,
		KindLong:       dm.Long,
		KindULong:      dm.Long,
		KindSize:       dm.Pointer,
		KindFloat:      {4, 4},
		KindDouble:     dm.Double,
		KindLongDouble: dm.LongDouble,
		KindBool:       {1, 1},
		KindPointer:    dm.Pointer,
		KindEnum:       {4, 4},
	}
	return t
}

// Scalar returns the layout of a scalar kind.
func (t Target) Scalar(k Kind) (ScalarLayout, bool) {
	if !k.IsScalar() {
		return ScalarLayout{}, false
	}
	l := t.scalars[k]
	return l, l.Size != 0
}

func (t Target) PointerSize() uint32 {
	return t.scalars[KindPointer].Size
}

func (t Target) LongSize() uint32 {
	return t.scalars[KindLong].Size
}

func (t Target) IsDarwin() bool {
	return t.OS == "darwin"
}

func (t Target) String() string {
	return t.Name
}

var (
	lp64 = DataModel{
		Pointer:    ScalarLayout{8, 8},
		Long:       ScalarLayout{8, 8},
		Int64:      ScalarLayout{8, 8},
		Double:     ScalarLayout{8, 8},
		LongDouble: ScalarLayout{16, 16},
	}

	// System V i386 aligns 64-bit scalars to 4 inside structs.
	i386SysV = DataModel{
		Pointer:    ScalarLayout{4, 4},
		Long:       ScalarLayout{4, 4},
		Int64:      ScalarLayout{8, 4},
		Double:     ScalarLayout{8, 4},
		LongDouble: ScalarLayout{12, 4},
	}

	ilp32 = DataModel{
		Pointer:    ScalarLayout{4, 4},
		Long:       ScalarLayout{4, 4},
		Int64:      ScalarLayout{8, 8},
		Double:     ScalarLayout{8, 8},
		LongDouble: ScalarLayout{8, 8},
	}

	llp64 = DataModel{
		Pointer:    ScalarLayout{8, 8},
		Long:       ScalarLayout{4, 4},
		Int64:      ScalarLayout{8, 8},
		Double:     ScalarLayout{8, 8},
		LongDouble: ScalarLayout{8, 8},
	}
)

func withLongDouble(dm DataModel, ld ScalarLayout) DataModel {
	dm.LongDouble = ld
	return dm
}

var targets = map[string]Target{
	"x86_64-linux":   NewTarget("x86_64-linux", "linux", "x86_64", lp64),
	"aarch64-linux":  NewTarget("aarch64-linux", "linux", "aarch64", lp64),
	"i386-linux":     NewTarget("i386-linux", "linux", "i386", i386SysV),
	"arm-linux-eabi": NewTarget("arm-linux-eabi", "linux", "arm", ilp32),
	"x86_64-darwin":  NewTarget("x86_64-darwin", "darwin", "x86_64", lp64),
	"aarch64-darwin": NewTarget("aarch64-darwin", "darwin", "aarch64", withLongDouble(lp64, ScalarLayout{8, 8})),
	"x86_64-windows": NewTarget("x86_64-windows", "windows", "x86_64", llp64),
	"i386-windows":   NewTarget("i386-windows", "windows", "i386", ilp32),
	"wasm32":         NewTarget("wasm32", "wasi", "wasm32", withLongDouble(ilp32, ScalarLayout{16, 16})),
}

// Targets returns every built-in target sorted by name.
func Targets() []Target {
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TargetByName resolves a built-in target.
func TargetByName(name string) (Target, error) {
	t, ok := targets[name]
	if !ok {
		return Target{}, errors.New(errors.PhaseTarget, errors.KindUnsupported).
			Target(name).
			Detail("no built-in target").
			Build()
	}
	return t, nil
}

var goArchs = map[string]string{
	"amd64": "x86_64",
	"386":   "i386",
	"arm64": "aarch64",
	"arm":   "arm",
	"wasm":  "wasm32",
}

// Host returns the target matching the running binary.
func Host() (Target, error) {
	return hostTarget(runtime.GOOS, runtime.GOARCH)
}

func hostTarget(goos, goarch string) (Target, error) {
	arch, ok := goArchs[goarch]
	if !ok {
		return Target{}, errors.New(errors.PhaseTarget, errors.KindUnsupported).
			Target(goos+"/"+goarch).
			Detail("unsupported architecture").
			Build()
	}

	var name string
	switch {
	case arch == "wasm32":
		name = "wasm32"
	case goos == "darwin" || goos == "ios":
		name = arch + "-darwin"
	case goos == "windows":
		name = arch + "-windows"
	case arch == "arm":
		name = "arm-linux-eabi"
	default:
		// The BSDs share the System V layouts of Linux.
		name = arch + "-linux"
	}
	return TargetByName(name)
}
