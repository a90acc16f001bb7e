package wheel

import (
	"fmt"
	"math"
	"strconv"
)

// Layout holds the radii of a wheel drawn in a size×size box.
type Layout struct {
	Size       float64
	Segments   int
	Rings      int
	Outer      float64
	Inner      float64
	RingWidth  float64
	SegmentDeg float64
}

func NewLayout(size float64, segments, rings int) Layout {
	l := Layout{Size: size, Segments: segments, Rings: rings}
	l.Outer = size/2 - 10
	l.Inner = size * 0.125
	if rings > 0 {
		l.RingWidth = (l.Outer - l.Inner) / float64(rings)
	}
	if segments > 0 {
		l.SegmentDeg = 360 / float64(segments)
	}
	return l
}

func (l Layout) center() float64 { return l.Size / 2 }

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// CellPath returns the SVG path of one annular sector. Angles start at
// twelve o'clock and run clockwise.
func (l Layout) CellPath(seg, ring int) string {
	c := l.center()
	start := rad(float64(seg)*l.SegmentDeg - 90)
	end := rad(float64(seg+1)*l.SegmentDeg - 90)
	r1 := l.Inner + float64(ring)*l.RingWidth
	r2 := l.Inner + float64(ring+1)*l.RingWidth

	largeArc := 0
	if l.SegmentDeg > 180 {
		largeArc = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s L %s %s A %s %s 0 %d 0 %s %s",
		num(c+r1*math.Cos(start)), num(c+r1*math.Sin(start)),
		num(c+r2*math.Cos(start)), num(c+r2*math.Sin(start)),
		num(r2), num(r2), largeArc,
		num(c+r2*math.Cos(end)), num(c+r2*math.Sin(end)),
		num(c+r1*math.Cos(end)), num(c+r1*math.Sin(end)),
		num(r1), num(r1), largeArc,
		num(c+r1*math.Cos(start)), num(c+r1*math.Sin(start)),
	)
}

// CellPath is the package-level form of Layout.CellPath.
func CellPath(size float64, segments, rings, seg, ring int) string {
	return NewLayout(size, segments, rings).CellPath(seg, ring)
}

// LabelPoint is where a segment's edge label sits. Rotation keeps text
// upright on the lower half.
type LabelPoint struct {
	X, Y     float64
	Rotation float64
}

func (l Layout) LabelPosition(seg int) LabelPoint {
	c := l.center()
	mid := float64(seg)*l.SegmentDeg + l.SegmentDeg/2
	r := l.Outer + 20
	p := LabelPoint{
		X:        c + r*math.Cos(rad(mid-90)),
		Y:        c + r*math.Sin(rad(mid-90)),
		Rotation: mid,
	}
	if p.Rotation > 90 && p.Rotation < 270 {
		p.Rotation += 180
	}
	return p
}

// num formats a coordinate to two decimals without trailing zeros.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
