package layout

import (
	"go.uber.org/multierr"

	"github.com/wippyai/ffi-layout/errors"
)

// Verify compares a layout computed elsewhere (got) against ground truth
// (want) and returns every difference as one combined error. Fields are
// matched by name; nested composites are compared recursively.
func Verify(want, got Info) error {
	return verify(nil, want, got)
}

func verify(path []string, want, got Info) error {
	var err error
	if want.Size != got.Size {
		err = multierr.Append(err, errors.Mismatch(path, "size", want.Size, got.Size))
	}
	if want.Align != got.Align {
		err = multierr.Append(err, errors.Mismatch(path, "align", want.Align, got.Align))
	}
	if want.Elem != nil && got.Elem != nil {
		err = multierr.Append(err, verify(append(path[:len(path):len(path)], "[]"), *want.Elem, *got.Elem))
	}

	for _, wf := range want.Fields {
		fp := append(path[:len(path):len(path)], wf.Name)
		gf, ok := got.Field(wf.Name)
		if !ok {
			err = multierr.Append(err, errors.New(errors.PhaseLayout, errors.KindMismatch).
				Path(fp...).
				Detail("field missing").
				Build())
			continue
		}
		if wf.Offset != gf.Offset {
			err = multierr.Append(err, errors.Mismatch(fp, "offset", wf.Offset, gf.Offset))
		}
		if wf.Size != gf.Size {
			err = multierr.Append(err, errors.Mismatch(fp, "size", wf.Size, gf.Size))
		}
		if wf.Layout != nil && gf.Layout != nil {
			err = multierr.Append(err, verify(fp, *wf.Layout, *gf.Layout))
		}
	}
	return err
}
