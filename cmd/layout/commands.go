package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/descriptor"
	"github.com/wippyai/ffi-layout/layout"
)

func sizeofAction(c *cli.Context) error {
	td, err := lookup(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, td.Size)
	return nil
}

func alignofAction(c *cli.Context) error {
	td, err := lookup(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, td.Alignment)
	return nil
}

func lookup(c *cli.Context) (descriptor.TypeDescriptor, error) {
	name, err := nameArg(c)
	if err != nil {
		return descriptor.TypeDescriptor{}, err
	}
	d, err := descriptorFor(c)
	if err != nil {
		return descriptor.TypeDescriptor{}, err
	}
	return d.Lookup(name)
}

func describeAction(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	p, err := ctype.ParsePacking(c.Int("pack"))
	if err != nil {
		return err
	}
	d, err := descriptorFor(c)
	if err != nil {
		return err
	}
	info, err := d.LayoutUnder(name, p)
	if err != nil {
		return err
	}
	writeDescribe(c.App.Writer, name, d.Target(), p, info)
	return nil
}

func packedAction(c *cli.Context) error {
	d, err := descriptorFor(c)
	if err != nil {
		return err
	}

	packs := append([]ctype.Packing{ctype.Natural}, ctype.Directives...)
	if c.IsSet("pack") {
		p, err := ctype.ParsePacking(c.Int("pack"))
		if err != nil {
			return err
		}
		packs = []ctype.Packing{p}
	}

	if c.Bool("nested") {
		return writeNested(c.App.Writer, d, packs)
	}
	return writePacked(c.App.Writer, d, packs)
}

func listAction(c *cli.Context) error {
	d, err := descriptorFor(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%-24s %6s %6s\n", "NAME", "SIZE", "ALIGN")
	for _, name := range d.Names() {
		td := d.Describe(name)
		fmt.Fprintf(c.App.Writer, "%-24s %6d %6d\n", td.Name, td.Size, td.Alignment)
	}
	return nil
}

func targetsAction(c *cli.Context) error {
	host, _ := ctype.Host()
	fmt.Fprintf(c.App.Writer, "%-16s %-8s %-8s %4s %4s\n", "NAME", "OS", "ARCH", "PTR", "LONG")
	for _, t := range ctype.Targets() {
		mark := ""
		if t.Name == host.Name {
			mark = " (host)"
		}
		fmt.Fprintf(c.App.Writer, "%-16s %-8s %-8s %4d %4d%s\n",
			t.Name, t.OS, t.Arch, t.PointerSize(), t.LongSize(), mark)
	}
	return nil
}

func writeDescribe(w io.Writer, name string, target ctype.Target, p ctype.Packing, info layout.Info) {
	fmt.Fprintf(w, "%s (%s, %s): size %d, align %d\n", name, target.Name, p, info.Size, info.Align)

	switch info.Kind {
	case ctype.KindArray:
		if info.Elem != nil {
			fmt.Fprintf(w, "  %d x %d bytes\n", info.Len, info.Elem.Size)
		}
		return
	case ctype.KindStruct, ctype.KindUnion:
	default:
		return
	}

	fmt.Fprintf(w, "  %6s %6s %6s  %s\n", "OFFSET", "SIZE", "ALIGN", "FIELD")
	for _, f := range info.Fields {
		fmt.Fprintf(w, "  %6d %6d %6d  %s %s\n", f.Offset, f.Size, f.Align, f.Name, f.Type)
	}
	holes := info.Padding()
	if len(holes) == 0 {
		return
	}
	fmt.Fprint(w, "  padding:")
	for _, h := range holes {
		fmt.Fprintf(w, " [%d,%d)", h.Offset, h.Offset+h.Size)
	}
	fmt.Fprintln(w)
}

func writePacked(w io.Writer, d *descriptor.Descriptor, packs []ctype.Packing) error {
	fmt.Fprintf(w, "%-8s %5s %5s %5s %5s %5s %5s\n", "PACK", "SIZE", "f0", "f1", "f2", "f3", "f4")
	for _, p := range packs {
		pl, err := d.PackedLayout(p)
		if err != nil {
			return err
		}
		writePackedRow(w, p.String(), pl)
	}
	return nil
}

func writeNested(w io.Writer, d *descriptor.Descriptor, packs []ctype.Packing) error {
	fmt.Fprintf(w, "%-8s %5s %5s %5s %5s %5s %5s %5s\n", "PACK", "LEVEL", "SIZE", "f0", "f1", "f2", "f3", "f4")
	for _, p := range packs {
		for level := descriptor.NestingLevel(0); level <= descriptor.MaxNestingLevel; level++ {
			pl, err := d.InnerPackedLayout(p, level)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-8s %5d", p, level)
			writePackedRow(w, "", pl)
		}
	}
	return nil
}

func writePackedRow(w io.Writer, label string, pl descriptor.PackedLayout) {
	if label != "" {
		fmt.Fprintf(w, "%-8s", label)
	}
	fmt.Fprintf(w, " %5d", pl.Size)
	for _, f := range pl.Fields {
		fmt.Fprintf(w, " %5d", f.Offset)
	}
	fmt.Fprintln(w)
}
