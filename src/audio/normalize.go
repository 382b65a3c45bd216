package audio

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Normalizable converts between the normalized host domain [0,1] and plain
// engine values.
type Normalizable interface {
	Normalize(plain float64) float64
	Denormalize(normalized float64) float64
	Format(normalized float64) string
	Parse(s string) (float64, bool)
}

// The range is |max| + |min|, which equals max - min only when min <= 0 <= max.
func linearNormalize(x, min, max float64) float64 {
	return (x - min) / (math.Abs(max) + math.Abs(min))
}

func linearDenormalize(v, min, max float64) float64 {
	return v*(math.Abs(max)+math.Abs(min)) + min
}

// ----- Integer Range ----- //

// IntegerRange is an inclusive range of integral plain values.
type IntegerRange struct {
	Min int32
	Max int32
}

var _ Normalizable = IntegerRange{}

func (r IntegerRange) Normalize(plain float64) float64 {
	return linearNormalize(plain, float64(r.Min), float64(r.Max))
}

// Denormalize truncates toward zero. Going through int64 also avoids -0.
func (r IntegerRange) Denormalize(normalized float64) float64 {
	return float64(int64(linearDenormalize(normalized, float64(r.Min), float64(r.Max))))
}

func (r IntegerRange) Format(normalized float64) string {
	return strconv.FormatFloat(r.Denormalize(normalized), 'f', 2, 64)
}

// Parse reads the first whitespace-delimited token, so "12 cent" is accepted.
// NaN and infinities are rejected.
func (r IntegerRange) Parse(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return r.Normalize(v), true
}

func (r IntegerRange) stepCount() int32 {
	return abs32(r.Max) + abs32(r.Min)
}

func (r IntegerRange) validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("invalid integer range: min %d > max %d", r.Min, r.Max)
	}
	if r.Min == 0 && r.Max == 0 {
		return fmt.Errorf("invalid integer range: empty")
	}
	return nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ----- Label List ----- //

// LabelList selects one of a sorted list of labels. The plain value is the
// label index.
type LabelList []string

var _ Normalizable = LabelList(nil)

func (l LabelList) Normalize(plain float64) float64 {
	return plain / float64(len(l)-1)
}

func (l LabelList) Denormalize(normalized float64) float64 {
	return float64(int64(normalized * float64(len(l)-1)))
}

// Format returns "" when the index falls outside the list.
func (l LabelList) Format(normalized float64) string {
	i := l.Denormalize(normalized)
	if i < 0 || i >= float64(len(l)) {
		return ""
	}
	return l[int(i)]
}

// Parse looks up the whole string. Labels must be sorted.
func (l LabelList) Parse(s string) (float64, bool) {
	i := sort.SearchStrings(l, s)
	if i >= len(l) || l[i] != s {
		return 0, false
	}
	return l.Normalize(float64(i)), true
}

func (l LabelList) stepCount() int32 {
	return int32(len(l) - 1)
}

func (l LabelList) validate() error {
	if len(l) < 2 {
		return fmt.Errorf("invalid label list: need at least 2 labels, got %d", len(l))
	}
	if !sort.StringsAreSorted(l) {
		return fmt.Errorf("invalid label list: labels must be sorted: %v", []string(l))
	}
	return nil
}
