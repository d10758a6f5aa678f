package clips

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Dataset is an ordered set of clips keyed by id.
type Dataset struct {
	order []string
	byID  map[string]Clip
}

// NewDataset builds a dataset from clips in file order. Missing and
// duplicate ids are rejected since either would corrupt the file on save.
func NewDataset(clips []Clip) (*Dataset, error) {
	ds := &Dataset{
		order: make([]string, 0, len(clips)),
		byID:  make(map[string]Clip, len(clips)),
	}
	for i, c := range clips {
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("clip %d: missing id", i)
		}
		if _, dup := ds.byID[c.ID]; dup {
			return nil, fmt.Errorf("clip %d: duplicate id %q", i, c.ID)
		}
		ds.order = append(ds.order, c.ID)
		ds.byID[c.ID] = c
	}
	return ds, nil
}

// Len returns the number of clips.
func (d *Dataset) Len() int {
	return len(d.order)
}

// Get returns the clip with the given id.
func (d *Dataset) Get(id string) (Clip, bool) {
	c, ok := d.byID[id]
	return c, ok
}

// Set replaces an existing clip. The id must already be present so file
// order is never disturbed.
func (d *Dataset) Set(c Clip) error {
	if _, ok := d.byID[c.ID]; !ok {
		return fmt.Errorf("clip %q not in dataset", c.ID)
	}
	d.byID[c.ID] = c
	return nil
}

// Clips returns every clip in file order.
func (d *Dataset) Clips() []Clip {
	out := make([]Clip, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// Clone returns an independent copy. Theme slices are copied too so edits to
// the clone never reach the original.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		order: slices.Clone(d.order),
		byID:  make(map[string]Clip, len(d.byID)),
	}
	for id, c := range d.byID {
		c.Themes = slices.Clone(c.Themes)
		out.byID[id] = c
	}
	return out
}

// Interviews lists the interview ids referenced by the dataset in order of
// first appearance.
func (d *Dataset) Interviews() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range d.order {
		iv := d.byID[id].InterviewID
		if _, ok := seen[iv]; ok {
			continue
		}
		seen[iv] = struct{}{}
		out = append(out, iv)
	}
	return out
}

// ByInterview returns the clips of one interview in file order.
func (d *Dataset) ByInterview(interviewID string) []Clip {
	var out []Clip
	for _, id := range d.order {
		if c := d.byID[id]; c.InterviewID == interviewID {
			out = append(out, c)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate joins the field errors of every clip in file order. Field errors
// never block a run; see Clip.Validate.
func (d *Dataset) Validate() error {
	var errs []error
	for _, id := range d.order {
		if err := d.byID[id].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func describeValidation(id string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("clip %q: %w", id, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Clip.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("clip %q: %s", id, strings.Join(parts, "; "))
}
