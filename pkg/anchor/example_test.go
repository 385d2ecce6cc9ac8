package anchor_test

import (
	"fmt"

	"github.com/matzehuels/keygrid/pkg/anchor"
	"github.com/matzehuels/keygrid/pkg/expr"
	"github.com/matzehuels/keygrid/pkg/point"
)

func ExampleResolve() {
	// Turn right, then move one unit "up" in the point's own frame
	cfg := anchor.Of(anchor.Anchor{
		Orient: anchor.Angle(-90),
		Shift:  anchor.ShiftBy(0, 1),
	})
	p, err := anchor.Resolve(cfg, "points.k", nil, point.Point{}, nil, false)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("x=%.0f y=%.0f r=%.0f\n", p.X, p.Y, p.R)
	// Output:
	// x=1 y=0 r=-90
}

func ExampleDecode() {
	raw := map[string]any{
		"ref":   "home",
		"shift": []any{"u", 0},
	}
	cfg, err := anchor.Decode(raw, "points.next")
	if err != nil {
		fmt.Println(err)
		return
	}
	points := map[string]point.Point{"home": point.XY(10, 0)}
	p, _ := anchor.Resolve(cfg, "points.next", points, point.Point{}, expr.Vars{"u": 19}, false)
	fmt.Printf("x=%.0f y=%.0f\n", p.X, p.Y)
	// Output:
	// x=29 y=0
}

func ExampleResolver_mirror() {
	points := map[string]point.Point{
		"home":        point.XY(10, 0),
		"mirror_home": point.XY(10, 0).Mirror(0),
	}
	r := &anchor.Resolver{Points: points, Mirror: true}

	// "home" refers to the mirrored copy; the shift is flipped with it
	home := anchor.Ref("home")
	cfg := anchor.Of(anchor.Anchor{Ref: &home, Shift: anchor.ShiftBy(5, 0)})
	p, _ := r.Resolve(cfg, "points.k", point.Point{})
	fmt.Printf("x=%.0f mirrored=%v\n", p.X, p.Meta.Mirrored)
	// Output:
	// x=-15 mirrored=true
}

func ExampleAverage() {
	p := anchor.Average([]point.Point{point.New(0, 0, 0), point.New(10, 10, -90)})
	fmt.Printf("x=%.0f y=%.0f r=%.0f\n", p.X, p.Y, p.R)
	// Output:
	// x=5 y=5 r=-45
}
