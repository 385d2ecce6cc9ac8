package point

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= eps }

func TestShift(t *testing.T) {
	tests := []struct {
		name     string
		p        Point
		delta    [2]float64
		relative bool
		resist   bool
		want     Point
	}{
		{"absolute", XY(1, 1), [2]float64{2, 3}, false, false, XY(3, 4)},
		{"relative unrotated", XY(0, 0), [2]float64{2, 3}, true, false, XY(2, 3)},
		{"relative r=90", New(0, 0, 90), [2]float64{1, 0}, true, false, New(0, 1, 90)},
		{"relative r=-90", New(0, 0, -90), [2]float64{0, 1}, true, false, New(1, 0, -90)},
		{"absolute ignores r", New(0, 0, 90), [2]float64{1, 0}, false, false, New(1, 0, 90)},
		{
			"mirrored negates x",
			Point{Meta: Meta{Mirrored: true}},
			[2]float64{2, 3}, true, false,
			Point{X: -2, Y: 3, Meta: Meta{Mirrored: true}},
		},
		{
			"mirrored resist keeps x",
			Point{Meta: Meta{Mirrored: true}},
			[2]float64{2, 3}, true, true,
			Point{X: 2, Y: 3, Meta: Meta{Mirrored: true}},
		},
		{
			// negation happens before the relative rotation
			"mirrored then rotated",
			Point{R: 90, Meta: Meta{Mirrored: true}},
			[2]float64{1, 0}, true, false,
			Point{X: 0, Y: -1, R: 90, Meta: Meta{Mirrored: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Shift(tt.delta, tt.relative, tt.resist)
			if !got.Equal(tt.want, eps) {
				t.Errorf("Shift() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShiftDoesNotMutateReceiver(t *testing.T) {
	p := XY(1, 2)
	_ = p.Shift([2]float64{5, 5}, true, false)
	if p.X != 1 || p.Y != 2 {
		t.Errorf("receiver changed: %v", p)
	}
}

func TestRotate(t *testing.T) {
	origin := [2]float64{0, 0}
	tests := []struct {
		name   string
		p      Point
		angle  float64
		origin *[2]float64
		resist bool
		want   Point
	}{
		{"no origin changes r only", XY(3, 4), 30, nil, false, New(3, 4, 30)},
		{"about origin", XY(1, 0), 90, &origin, false, New(0, 1, 90)},
		{"about other origin", XY(2, 1), 180, &[2]float64{1, 1}, false, New(0, 1, 180)},
		{"accumulates r", New(0, 0, 350), 20, nil, false, New(0, 0, 370)},
		{
			"mirrored negates angle",
			Point{Meta: Meta{Mirrored: true}}, 10, nil, false,
			Point{R: -10, Meta: Meta{Mirrored: true}},
		},
		{
			"mirrored resist",
			Point{Meta: Meta{Mirrored: true}}, 10, nil, true,
			Point{R: 10, Meta: Meta{Mirrored: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Rotate(tt.angle, tt.origin, tt.resist)
			if !got.Equal(tt.want, eps) {
				t.Errorf("Rotate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Mirror uses r = -r. An alternative convention (r = 180 - r) exists in other
// layout tools; this test pins ours.
func TestMirrorNegatesRotation(t *testing.T) {
	p := New(3, 5, 20).Mirror(10)
	want := Point{X: 17, Y: 5, R: -20, Meta: Meta{Mirrored: true}}
	if !p.Equal(want, eps) {
		t.Errorf("Mirror() = %v, want %v", p, want)
	}
}

func TestMirrorUnrotatedKeepsPositiveZero(t *testing.T) {
	for _, r := range []float64{0, math.Copysign(0, -1)} {
		p := New(1, 2, r).Mirror(0)
		if p.R != 0 || math.Signbit(p.R) {
			t.Errorf("Mirror() of r=%v gave r=%v", r, p.R)
		}
	}
}

func TestMirrorTwiceRestoresPosition(t *testing.T) {
	p := New(3, 5, 20)
	back := p.Mirror(7).Mirror(7)
	if !approx(back.X, p.X) || !approx(back.Y, p.Y) || !approx(back.R, p.R) {
		t.Errorf("double mirror = %v, want position of %v", back, p)
	}
	if !back.Meta.Mirrored {
		t.Error("mirrored flag should stay set")
	}
}

func TestAngleTo(t *testing.T) {
	tests := []struct {
		name  string
		other Point
		want  float64
	}{
		{"up", XY(0, 10), 0},
		{"left", XY(-10, 0), 90},
		{"right", XY(10, 0), -90},
		{"down", XY(0, -10), -180},
		{"diagonal", XY(-1, 1), 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := XY(0, 0).AngleTo(tt.other); !approx(got, tt.want) {
				t.Errorf("AngleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleToThenShiftReachesTarget(t *testing.T) {
	p := XY(1, 1)
	target := XY(4, 5)
	p.R = p.AngleTo(target)
	got := p.Shift([2]float64{0, 5}, true, false)
	if !approx(got.X, target.X) || !approx(got.Y, target.Y) {
		t.Errorf("shifting towards target = %v, want %v", got, target)
	}
}

func TestString(t *testing.T) {
	if got := New(1, 2, 3).String(); got != "(1, 2, 3°)" {
		t.Errorf("String() = %q", got)
	}
	if got := New(1, 0, 10).Mirror(0).String(); got != "(-1, 0, -10°) mirrored" {
		t.Errorf("String() = %q", got)
	}
}
