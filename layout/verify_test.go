package layout

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/ffi-layout/ctype"
	lerrors "github.com/wippyai/ffi-layout/errors"
)

func TestVerifyMatch(t *testing.T) {
	c := NewCalculator(mustTarget(t, "x86_64-linux"))
	info, err := c.Layout(alignmentStruct(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(info, info); err != nil {
		t.Errorf("Verify(same) = %v", err)
	}
}

func TestVerifyReportsEveryMismatch(t *testing.T) {
	x64 := NewCalculator(mustTarget(t, "x86_64-linux"))
	x86 := NewCalculator(mustTarget(t, "i386-linux"))

	d := ctype.StructOf("D",
		ctype.F("x", ctype.Int8),
		ctype.F("y", ctype.Int64),
		ctype.F("z", ctype.Int32),
	)
	want, _ := x64.Layout(d, ctype.Natural)
	got, _ := x86.Layout(d, ctype.Natural)

	err := Verify(want, got)
	if err == nil {
		t.Fatal("expected mismatches")
	}

	// size, align, y offset, z offset
	errs := multierr.Errors(err)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), err)
	}
	for _, e := range errs {
		if !errors.Is(e, &lerrors.Error{Phase: lerrors.PhaseLayout, Kind: lerrors.KindMismatch}) {
			t.Errorf("unexpected error kind: %v", e)
		}
	}
}

func TestVerifyMissingField(t *testing.T) {
	c := NewCalculator(mustTarget(t, "x86_64-linux"))
	want, _ := c.Layout(ctype.StructOf("a", ctype.F("x", ctype.Int32), ctype.F("y", ctype.Int32)), ctype.Natural)
	got, _ := c.Layout(ctype.StructOf("b", ctype.F("x", ctype.Int32), ctype.F("w", ctype.Int32)), ctype.Natural)

	err := Verify(want, got)
	var le *lerrors.Error
	if !errors.As(err, &le) {
		t.Fatalf("err = %v", err)
	}
	if len(le.Path) != 1 || le.Path[0] != "y" {
		t.Errorf("path = %v, want [y]", le.Path)
	}
}
