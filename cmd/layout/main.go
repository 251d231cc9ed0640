package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/descriptor"
	"github.com/wippyai/ffi-layout/layout"
	"github.com/wippyai/ffi-layout/memory"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "layout",
		Usage: "C struct layout ground truth for FFI binding checks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Usage:   "target ABI (see 'layout targets'); defaults to the host",
				EnvVars: []string{"LAYOUT_TARGET"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log layout computation to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool("verbose") {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			layout.SetLogger(l)
			descriptor.SetLogger(l)
			memory.SetLogger(l)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "sizeof",
				Usage:     "print the size of a type",
				ArgsUsage: "NAME",
				Action:    sizeofAction,
			},
			{
				Name:      "alignof",
				Usage:     "print the alignment of a type",
				ArgsUsage: "NAME",
				Action:    alignofAction,
			},
			{
				Name:      "describe",
				Usage:     "print field offsets and padding of a type",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{packFlag()},
				Action:    describeAction,
			},
			{
				Name:  "packed",
				Usage: "print the packing composite under every directive",
				Flags: []cli.Flag{
					packFlag(),
					&cli.BoolFlag{
						Name:  "nested",
						Usage: "show the three-level nested composite",
					},
				},
				Action: packedAction,
			},
			{
				Name:   "list",
				Usage:  "list every known type",
				Action: listAction,
			},
			{
				Name:   "targets",
				Usage:  "list built-in targets",
				Action: targetsAction,
			},
			{
				Name:   "browse",
				Usage:  "browse the type table interactively",
				Action: browseAction,
			},
		},
	}
}

func packFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "pack",
		Usage: "packing directive (0, 1, 2, 4, 8 or 16); 0 is natural",
	}
}

// resolveTarget returns the named target, or the host when name is empty.
func resolveTarget(name string) (ctype.Target, error) {
	if name == "" {
		return ctype.Host()
	}
	return ctype.TargetByName(name)
}

func descriptorFor(c *cli.Context) (*descriptor.Descriptor, error) {
	target, err := resolveTarget(c.String("target"))
	if err != nil {
		return nil, err
	}
	return descriptor.New(target)
}

func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: expected one type name", c.Command.Name)
	}
	return c.Args().First(), nil
}
