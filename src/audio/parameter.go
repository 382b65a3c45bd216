package audio

import (
	"errors"
	"fmt"
	"math"
)

// ----- Param ID ----- //

// ParamID identifies a parameter by a dense ordinal starting at 0.
type ParamID uint32

const (
	Detune ParamID = iota
	StutterTime
	StutterDepth

	numParams
)

var paramNames = [numParams]string{
	Detune:       "detune",
	StutterTime:  "stutter_time",
	StutterDepth: "stutter_depth",
}

// ErrUnknownParameter ...
var ErrUnknownParameter = errors.New("unknown parameter")

// ParamIDFromOrdinal ...
func ParamIDFromOrdinal(ordinal uint32) (ParamID, error) {
	if ordinal >= uint32(numParams) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParameter, ordinal)
	}
	return ParamID(ordinal), nil
}

// ParamIDFromString ...
func ParamIDFromString(name string) (ParamID, error) {
	for i, n := range paramNames {
		if n == name {
			return ParamID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

func (id ParamID) String() string {
	if id >= numParams {
		return fmt.Sprintf("ParamID(%d)", uint32(id))
	}
	return paramNames[id]
}

// ParamIter walks ParamIDs from ordinal 0 up to the first invalid ordinal.
type ParamIter struct {
	next uint32
}

// Next ...
func (it *ParamIter) Next() (ParamID, bool) {
	id, err := ParamIDFromOrdinal(it.next)
	if err != nil {
		return 0, false
	}
	it.next++
	return id, true
}

// ----- Descriptor ----- //

// RangeKind tags which Normalizable shape a Descriptor carries.
type RangeKind int

const (
	KindInteger RangeKind = iota
	KindList
)

// Descriptor describes one parameter to the host. It is never mutated after
// NewDescriptor returns.
type Descriptor struct {
	Range        Normalizable // IntegerRange or LabelList
	Title        string
	ShortTitle   string
	UnitName     string
	StepCount    int32
	DefaultValue float64 // plain
}

// NewDescriptor validates r and derives the step count from it.
func NewDescriptor(r Normalizable, title, shortTitle, unitName string, defaultValue float64) (*Descriptor, error) {
	var steps int32
	switch r := r.(type) {
	case IntegerRange:
		if err := r.validate(); err != nil {
			return nil, err
		}
		steps = r.stepCount()
	case LabelList:
		if err := r.validate(); err != nil {
			return nil, err
		}
		steps = r.stepCount()
	default:
		return nil, fmt.Errorf("unsupported range %T", r)
	}
	return &Descriptor{
		Range:        r,
		Title:        title,
		ShortTitle:   shortTitle,
		UnitName:     unitName,
		StepCount:    steps,
		DefaultValue: defaultValue,
	}, nil
}

// Kind ...
func (d *Descriptor) Kind() RangeKind {
	if _, ok := d.Range.(LabelList); ok {
		return KindList
	}
	return KindInteger
}

func (d *Descriptor) Normalize(plain float64) float64 {
	return d.Range.Normalize(plain)
}

func (d *Descriptor) Denormalize(normalized float64) float64 {
	return d.Range.Denormalize(normalized)
}

// Format renders the plain value followed by the unit name, if any.
func (d *Descriptor) Format(normalized float64) string {
	s := d.Range.Format(normalized)
	if d.UnitName == "" {
		return s
	}
	return s + " " + d.UnitName
}

func (d *Descriptor) Parse(s string) (float64, bool) {
	return d.Range.Parse(s)
}

// NormalizedDefault is the default value as the host sees it.
func (d *Descriptor) NormalizedDefault() float64 {
	return d.Normalize(d.DefaultValue)
}

// ----- Registry ----- //

// Registry holds one Descriptor per ParamID. Build it once with NewRegistry
// and share it read-only.
type Registry struct {
	descriptors [numParams]*Descriptor
}

// NewRegistry ...
func NewRegistry() (*Registry, error) {
	r := &Registry{}
	var err error
	if r.descriptors[Detune], err = NewDescriptor(
		IntegerRange{Min: -200, Max: 200}, "Detune", "Detune", "cent", 0,
	); err != nil {
		return nil, fmt.Errorf("detune: %w", err)
	}
	if r.descriptors[StutterTime], err = NewDescriptor(
		IntegerRange{Min: 0, Max: 1000}, "Stutter Time", "Time", "ms", defaultStutterTime*1000,
	); err != nil {
		return nil, fmt.Errorf("stutter time: %w", err)
	}
	if r.descriptors[StutterDepth], err = NewDescriptor(
		IntegerRange{Min: 0, Max: 100}, "Stutter Depth", "Depth", "%", defaultStutterDepth*100,
	); err != nil {
		return nil, fmt.Errorf("stutter depth: %w", err)
	}
	return r, nil
}

// MustNewRegistry panics if the built-in descriptors are invalid.
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Descriptor returns nil for an unknown id.
func (r *Registry) Descriptor(id ParamID) *Descriptor {
	if id >= numParams {
		return nil
	}
	return r.descriptors[id]
}

// IDs returns every ParamID in ordinal order.
func (r *Registry) IDs() []ParamID {
	ids := make([]ParamID, 0, numParams)
	it := &ParamIter{}
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		ids = append(ids, id)
	}
	return ids
}

// Denormalize clamps normalized to [0,1] before converting. NaN reads as 0.
func (r *Registry) Denormalize(id ParamID, normalized float64) float64 {
	d := r.Descriptor(id)
	if d == nil {
		return 0
	}
	if math.IsNaN(normalized) || normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}
	return d.Denormalize(normalized)
}
