package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/descriptor"
	lerrors "github.com/wippyai/ffi-layout/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"layout"}, args...))
	return out.String(), err
}

func TestSizeofAlignof(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--target", "x86_64-linux", "sizeof", "D"}, "24\n"},
		{[]string{"--target", "x86_64-linux", "alignof", "D"}, "8\n"},
		{[]string{"--target", "i386-linux", "sizeof", "D"}, "16\n"},
		{[]string{"--target", "i386-linux", "alignof", "long long"}, "4\n"},
		{[]string{"--target", "aarch64-darwin", "sizeof", "pack2_on_osx"}, "12\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetFromEnv(t *testing.T) {
	t.Setenv("LAYOUT_TARGET", "i386-linux")

	got, err := run(t, "sizeof", "pointer")
	if err != nil {
		t.Fatal(err)
	}
	if got != "4\n" {
		t.Errorf("got %q, want %q", got, "4\n")
	}
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "--target", "x86_64-linux", "sizeof", "nope")
	if !errors.Is(err, &lerrors.Error{Phase: lerrors.PhaseLookup, Kind: lerrors.KindUnknownType}) {
		t.Errorf("unknown name: got %v", err)
	}

	_, err = run(t, "--target", "pdp11", "sizeof", "int")
	if !errors.Is(err, &lerrors.Error{Phase: lerrors.PhaseTarget, Kind: lerrors.KindUnsupported}) {
		t.Errorf("unknown target: got %v", err)
	}

	if _, err := run(t, "--target", "x86_64-linux", "sizeof"); err == nil {
		t.Error("missing name: expected error")
	}

	_, err = run(t, "--target", "x86_64-linux", "describe", "--pack", "3", "D")
	if !errors.Is(err, &lerrors.Error{Phase: lerrors.PhaseLayout, Kind: lerrors.KindInvalidPacking}) {
		t.Errorf("bad pack: got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	got, err := run(t, "--target", "x86_64-linux", "describe", "D")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"D (x86_64-linux, natural): size 24, align 8",
		"     8      8      8  y int64_t",
		"padding: [1,8) [20,24)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	got, err = run(t, "--target", "x86_64-linux", "describe", "--pack", "1", "D")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "D (x86_64-linux, pack(1)): size 13, align 1") {
		t.Errorf("packed describe:\n%s", got)
	}
	if strings.Contains(got, "padding") {
		t.Errorf("pack(1) should have no padding:\n%s", got)
	}
}

func TestPacked(t *testing.T) {
	got, err := run(t, "--target", "x86_64-linux", "packed")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), got)
	}
	if want := "pack(1)     23     0     1     3     7    15"; lines[2] != want {
		t.Errorf("got %q, want %q", lines[2], want)
	}

	got, err = run(t, "--target", "x86_64-linux", "packed", "--nested", "--pack", "1")
	if err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if want := "pack(1)      2    23    46    47    49    53    61"; lines[3] != want {
		t.Errorf("got %q, want %q", lines[3], want)
	}
}

func TestListAndTargets(t *testing.T) {
	got, err := run(t, "--target", "wasm32", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "long double") || !strings.Contains(got, "InnerStructAlignment1") {
		t.Errorf("list output:\n%s", got)
	}

	got, err = run(t, "targets")
	if err != nil {
		t.Fatal(err)
	}
	for _, tgt := range ctype.Targets() {
		if !strings.Contains(got, tgt.Name) {
			t.Errorf("missing target %s", tgt.Name)
		}
	}
}

func browseFixture(t *testing.T) *browseModel {
	t.Helper()
	tgt, err := ctype.TargetByName("x86_64-linux")
	if err != nil {
		t.Fatal(err)
	}
	d, err := descriptor.New(tgt)
	if err != nil {
		t.Fatal(err)
	}
	return newBrowseModel(d)
}

func TestBrowseFilter(t *testing.T) {
	m := browseFixture(t)
	if got, want := len(m.table.Rows()), len(m.names); got != want {
		t.Errorf("rows: got %d, want %d", got, want)
	}

	m.filter.SetValue("union")
	m.refresh()
	if got := len(m.table.Rows()); got != 5 {
		t.Errorf("filtered rows: got %d, want 5", got)
	}
	for _, row := range m.table.Rows() {
		if !strings.Contains(strings.ToLower(row[0]), "union") {
			t.Errorf("unexpected row %v", row)
		}
	}
}

func TestBrowseKeys(t *testing.T) {
	m := browseFixture(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.pack != 1 {
		t.Errorf("pack: got %d, want 1", m.pack)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showing {
		t.Fatal("enter should show fields")
	}
	view := m.View()
	if !strings.Contains(view, "pack(1)") || !strings.Contains(view, m.selected()) {
		t.Errorf("view:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showing {
		t.Error("esc should hide fields")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestNextPacking(t *testing.T) {
	p := ctype.Natural
	var seen []ctype.Packing
	for i := 0; i < 6; i++ {
		p = nextPacking(p)
		seen = append(seen, p)
	}
	want := []ctype.Packing{1, 2, 4, 8, 16, ctype.Natural}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d: got %d, want %d", i, seen[i], want[i])
		}
	}
}
