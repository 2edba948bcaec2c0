package render

import (
	"image/color"
	"math"

	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/geom"
)

const circleSegments = 72

// Options tune how a frame is painted. Zero values pick per-frame defaults.
type Options struct {
	// ArrowScale is the magnitude drawn at full arrow length. Zero uses the
	// frame's largest scaled arrow magnitude.
	ArrowScale float64
	// ScalarScale is the absolute value mapped to full color. Zero uses the
	// grid's largest value.
	ScalarScale float64
	// ArrowLength is the world length of a full arrow. Zero uses 0.15 of the
	// view extent.
	ArrowLength float64
	// Marker is the source marker radius in pixels.
	Marker int
}

// Paint draws st onto r with default options.
func Paint(st frame.State, r *Raster) {
	PaintWith(st, r, Options{})
}

// PaintWith clears r and draws every primitive of st, back to front: scalar
// field, circles, helper segments, field lines, arrows, markers.
func PaintWith(st frame.State, r *Raster, opt Options) {
	r.Clear(Background)
	p := NewProjector(st.View, r.Width(), r.Height())
	pt := painter{r: r, p: p, opt: opt.withDefaults(st, r)}

	if st.Scalar != nil {
		if st.View.Planar {
			pt.scalarPlane(st.Scalar)
		} else {
			pt.scalarSurface(st.Scalar, st.View.Extent)
		}
	}
	for _, c := range st.Circles {
		pt.circle(c)
	}
	for _, s := range st.Segs {
		pt.segment(s.From, s.To, segmentColor)
	}
	for _, l := range st.Lines {
		pt.polyline(l.Points, groupColor(l.Group))
	}
	for _, a := range st.Arrows {
		pt.arrow(a)
	}
	for _, m := range st.Markers {
		x, y := p.Project(m.Position)
		rad := pt.opt.Marker
		if m.Probe {
			rad = max(1, rad-1)
		}
		r.Disc(int(math.Round(x)), int(math.Round(y)), rad, markerColor(m))
	}
}

func (o Options) withDefaults(st frame.State, r *Raster) Options {
	if !(o.ArrowScale > 0) {
		o.ArrowScale = st.MaxArrow()
	}
	if !(o.ScalarScale > 0) && st.Scalar != nil {
		o.ScalarScale = st.Scalar.MaxAbs()
	}
	if !(o.ArrowLength > 0) {
		extent := st.View.Extent
		if !(extent > 0) {
			extent = 1
		}
		o.ArrowLength = 0.15 * extent
	}
	if o.Marker <= 0 {
		o.Marker = max(1, min(r.Width(), r.Height())/60)
	}
	return o
}

type painter struct {
	r   *Raster
	p   Projector
	opt Options
}

// line draws between two pixel positions, skipping segments that land far
// outside the raster.
func (pt painter) line(x0, y0, x1, y1 float64, c color.RGBA) {
	limit := 4 * float64(max(pt.r.Width(), pt.r.Height()))
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.Abs(v) > limit {
			return
		}
	}
	pt.r.Line(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), c)
}

func (pt painter) segment(a, b geom.Point3, c color.RGBA) {
	x0, y0 := pt.p.Project(a)
	x1, y1 := pt.p.Project(b)
	pt.line(x0, y0, x1, y1, c)
}

func (pt painter) polyline(pts []geom.Point3, c color.RGBA) {
	for i := 1; i < len(pts); i++ {
		pt.segment(pts[i-1], pts[i], c)
	}
}

func (pt painter) circle(c frame.Circle) {
	n := c.Normal.Unit()
	if n.IsZero() {
		n = geom.UnitZ
	}
	ref := geom.UnitZ
	if math.Abs(n.Z) > 0.9 {
		ref = geom.UnitX
	}
	a := n.Cross(ref).Unit()
	b := n.Cross(a)

	pts := make([]geom.Point3, circleSegments+1)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = c.Center.Add(a.Scale(c.Radius * math.Cos(t))).Add(b.Scale(c.Radius * math.Sin(t)))
	}
	pt.polyline(pts, circleColors[c.Role])
}

func (pt painter) arrow(a frame.Arrow) {
	mag := a.Vector.Norm()
	if mag == 0 {
		return
	}
	var world geom.Vector3
	col, ok := componentColors[a.Role]
	if a.Role.Scaled() {
		frac := 1.0
		if pt.opt.ArrowScale > 0 {
			frac = clamp01(a.Magnitude / pt.opt.ArrowScale)
		}
		if !ok {
			col = heatColor(frac)
		}
		// very weak samples still show their direction
		world = a.Vector.Scale(pt.opt.ArrowLength * math.Max(frac, 0.2) / mag)
	} else {
		world = a.Vector
	}

	x0, y0 := pt.p.Project(a.Origin)
	dx, dy := pt.p.ProjectVector(world)
	x1, y1 := x0+dx, y0+dy
	pt.line(x0, y0, x1, y1, col)

	length := math.Hypot(dx, dy)
	if length < 2 {
		return
	}
	head := math.Max(2, 0.3*length)
	ang := math.Atan2(dy, dx)
	for _, side := range [2]float64{-0.5, 0.5} {
		hx := x1 - head*math.Cos(ang+side)
		hy := y1 - head*math.Sin(ang+side)
		pt.line(x1, y1, hx, hy, col)
	}
}

// scalarPlane fills every pixel with the nearest grid value.
func (pt painter) scalarPlane(g *frame.ScalarGrid) {
	scale := pt.opt.ScalarScale
	if !(scale > 0) {
		return
	}
	for y := range pt.r.Height() {
		for x := range pt.r.Width() {
			w := pt.p.Unproject(float64(x)+0.5, float64(y)+0.5)
			ix, iy := nearestIndex(g.Xs, w.X), nearestIndex(g.Ys, w.Y)
			if ix < 0 || iy < 0 {
				continue
			}
			pt.r.Set(x, y, divergingColor(g.At(ix, iy)/scale))
		}
	}
}

// scalarSurface draws the grid as a wireframe with height proportional to
// the value.
func (pt painter) scalarSurface(g *frame.ScalarGrid, extent float64) {
	scale := pt.opt.ScalarScale
	if !(scale > 0) {
		return
	}
	if !(extent > 0) {
		extent = 1
	}
	height := 0.4 * extent / scale
	at := func(ix, iy int) (geom.Point3, float64) {
		v := g.At(ix, iy)
		return geom.Point3{X: g.Xs[ix], Y: g.Ys[iy], Z: v * height}, v / scale
	}
	for iy := range g.Ys {
		for ix := range g.Xs {
			p0, v0 := at(ix, iy)
			if ix+1 < len(g.Xs) {
				p1, v1 := at(ix+1, iy)
				pt.segment(p0, p1, divergingColor((v0+v1)/2))
			}
			if iy+1 < len(g.Ys) {
				p1, v1 := at(ix, iy+1)
				pt.segment(p0, p1, divergingColor((v0+v1)/2))
			}
		}
	}
}

// nearestIndex returns the index of the sample of an ascending uniform axis
// closest to v, or -1 when v is more than half a step outside the axis.
func nearestIndex(axis []float64, v float64) int {
	switch len(axis) {
	case 0:
		return -1
	case 1:
		return 0
	}
	step := axis[1] - axis[0]
	if step <= 0 {
		return -1
	}
	i := int(math.Floor((v-axis[0])/step + 0.5))
	if i < 0 || i >= len(axis) {
		return -1
	}
	return i
}
