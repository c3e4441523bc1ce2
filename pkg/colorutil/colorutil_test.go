package colorutil

import (
	"testing"

	"go.viam.com/test"
)

func TestRGBToHSV(t *testing.T) {
	h, s, v := RGBToHSV(0, 0, 255)
	test.That(t, h, test.ShouldAlmostEqual, 120)
	test.That(t, s, test.ShouldAlmostEqual, 255)
	test.That(t, v, test.ShouldAlmostEqual, 255)

	h, s, v = RGBToHSV(255, 0, 0)
	test.That(t, h, test.ShouldAlmostEqual, 0)
	test.That(t, s, test.ShouldAlmostEqual, 255)
	test.That(t, v, test.ShouldAlmostEqual, 255)

	// magenta wraps to the top of the hue circle
	h, _, _ = RGBToHSV(255, 0, 255)
	test.That(t, h, test.ShouldAlmostEqual, 150)

	h, s, v = RGBToHSV(128, 128, 128)
	test.That(t, h, test.ShouldEqual, 0)
	test.That(t, s, test.ShouldEqual, 0)
	test.That(t, v, test.ShouldAlmostEqual, 128)
}

func TestPaletteLookup(t *testing.T) {
	p := DefaultPalette()
	for _, tc := range []struct {
		r, g, b uint8
		want    Name
	}{
		{255, 0, 0, Red},
		{200, 0, 40, Red},
		{255, 128, 0, Orange},
		{255, 230, 0, Yellow},
		{0, 200, 0, Green},
		{0, 0, 255, Blue},
		{128, 0, 200, Purple},
		{255, 255, 255, White},
		{10, 10, 10, Black},
		{128, 128, 128, Gray},
	} {
		test.That(t, p.Lookup(tc.r, tc.g, tc.b), test.ShouldEqual, tc.want)
	}
}

func TestPaletteOrder(t *testing.T) {
	names := DefaultPalette().Names()
	test.That(t, names, test.ShouldResemble, []Name{
		Red, Orange, Yellow, Green, Blue, Purple, White, Black, Gray,
	})
}

func TestRangeContainsInclusive(t *testing.T) {
	r := Range{Lo: HSV{H: 10, S: 20, V: 30}, Hi: HSV{H: 40, S: 50, V: 60}}
	test.That(t, r.Contains(HSV{H: 10, S: 20, V: 30}), test.ShouldBeTrue)
	test.That(t, r.Contains(HSV{H: 40, S: 50, V: 60}), test.ShouldBeTrue)
	test.That(t, r.Contains(HSV{H: 41, S: 50, V: 60}), test.ShouldBeFalse)
}

func TestPaletteValidate(t *testing.T) {
	test.That(t, DefaultPalette().Validate(), test.ShouldBeNil)
	test.That(t, Palette{}.Validate(), test.ShouldNotBeNil)

	p := DefaultPalette()
	p[1].Name = Red
	test.That(t, p.Validate(), test.ShouldNotBeNil)

	p = DefaultPalette()
	p[0].Name = Unknown
	test.That(t, p.Validate(), test.ShouldNotBeNil)

	p = DefaultPalette()
	p[2].Ranges = nil
	test.That(t, p.Validate(), test.ShouldNotBeNil)
}
