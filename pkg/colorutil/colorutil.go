// Package colorutil provides the named color palette used to label shapes.
//
// All HSV values follow the OpenCV 8-bit convention: H 0-180, S 0-255, V 0-255.
package colorutil

import (
	"math"

	"github.com/pkg/errors"
)

// Name is a named color bucket.
type Name string

// Palette color names.
const (
	Red     Name = "red"
	Orange  Name = "orange"
	Yellow  Name = "yellow"
	Green   Name = "green"
	Blue    Name = "blue"
	Purple  Name = "purple"
	White   Name = "white"
	Black   Name = "black"
	Gray    Name = "gray"
	Unknown Name = "unknown"
)

// HSV is a color in OpenCV HSV space.
type HSV struct {
	H float64 `yaml:"h" json:"h"`
	S float64 `yaml:"s" json:"s"`
	V float64 `yaml:"v" json:"v"`
}

// Range is an inclusive HSV box.
type Range struct {
	Lo HSV `yaml:"lo" json:"lo"`
	Hi HSV `yaml:"hi" json:"hi"`
}

// Contains reports whether c lies inside the box (bounds inclusive).
func (r Range) Contains(c HSV) bool {
	return c.H >= r.Lo.H && c.H <= r.Hi.H &&
		c.S >= r.Lo.S && c.S <= r.Hi.S &&
		c.V >= r.Lo.V && c.V <= r.Hi.V
}

// Bucket is a named color made of one or more HSV boxes. Red needs two
// boxes because its hue wraps around 0/180.
type Bucket struct {
	Name   Name    `yaml:"name" json:"name"`
	Ranges []Range `yaml:"ranges" json:"ranges"`
}

// Palette is an ordered list of buckets. Order matters: on equal pixel
// counts the earlier bucket wins.
type Palette []Bucket

func box(h0, s0, v0, h1, s1, v1 float64) Range {
	return Range{Lo: HSV{H: h0, S: s0, V: v0}, Hi: HSV{H: h1, S: s1, V: v1}}
}

// DefaultPalette returns the nine calibrated buckets.
func DefaultPalette() Palette {
	return Palette{
		{Name: Red, Ranges: []Range{box(0, 120, 80, 10, 255, 255), box(160, 120, 80, 180, 255, 255)}},
		{Name: Orange, Ranges: []Range{box(11, 120, 80, 25, 255, 255)}},
		{Name: Yellow, Ranges: []Range{box(26, 120, 80, 34, 255, 255)}},
		{Name: Green, Ranges: []Range{box(35, 80, 60, 85, 255, 255)}},
		{Name: Blue, Ranges: []Range{box(86, 80, 60, 130, 255, 255)}},
		{Name: Purple, Ranges: []Range{box(131, 80, 60, 159, 255, 255)}},
		{Name: White, Ranges: []Range{box(0, 0, 190, 180, 40, 255)}},
		{Name: Black, Ranges: []Range{box(0, 0, 0, 180, 255, 60)}},
		{Name: Gray, Ranges: []Range{box(0, 0, 61, 180, 40, 189)}},
	}
}

// Lookup returns the first bucket containing the given RGB color, or Unknown.
func (p Palette) Lookup(r, g, b uint8) Name {
	h, s, v := RGBToHSV(float64(r), float64(g), float64(b))
	c := HSV{H: math.Round(h), S: math.Round(s), V: math.Round(v)}
	for _, bucket := range p {
		for _, rng := range bucket.Ranges {
			if rng.Contains(c) {
				return bucket.Name
			}
		}
	}
	return Unknown
}

// Names returns the bucket names in palette order.
func (p Palette) Names() []Name {
	names := make([]Name, len(p))
	for i, b := range p {
		names[i] = b.Name
	}
	return names
}

// Validate rejects unnamed, duplicate, reserved, or empty buckets.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return errors.New("palette must not be empty")
	}
	seen := make(map[Name]bool, len(p))
	for i, name := range p.Names() {
		switch {
		case name == "":
			return errors.Errorf("palette bucket %d has no name", i)
		case name == Unknown:
			return errors.Errorf("palette bucket %d uses the reserved name %q", i, name)
		case seen[name]:
			return errors.Errorf("duplicate palette bucket %q", name)
		case len(p[i].Ranges) == 0:
			return errors.Errorf("palette bucket %q has no ranges", name)
		}
		seen[name] = true
	}
	return nil
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	switch {
	case diff == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/diff, 6)
	case maxC == g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h / 2, s, v
}
