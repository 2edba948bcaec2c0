package render

import (
	"math"

	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/geom"
)

// Projector maps world points onto raster pixels with an orthographic camera.
// Pixels are assumed square, which holds for half-block cells and braille
// dots.
type Projector struct {
	right, up geom.Vector3
	cx, cy    float64
	scale     float64 // pixels per world unit
}

// NewProjector builds the camera for view on a w×h raster. Elevation and
// azimuth follow the usual convention: elevation 90, azimuth -90 looks down
// the z axis with x to the right.
func NewProjector(v frame.View, w, h int) Projector {
	extent := v.Extent
	if !(extent > 0) {
		extent = 1
	}
	p := Projector{
		cx:    float64(w) / 2,
		cy:    float64(h) / 2,
		scale: float64(min(w, h)) / (2 * extent),
	}
	if v.Planar {
		p.right, p.up = geom.UnitX, geom.UnitY
		return p
	}
	el := v.Elevation * math.Pi / 180
	az := v.Azimuth * math.Pi / 180
	p.right = geom.Vector3{X: -math.Sin(az), Y: math.Cos(az)}
	p.up = geom.Vector3{X: -math.Sin(el) * math.Cos(az), Y: -math.Sin(el) * math.Sin(az), Z: math.Cos(el)}
	return p
}

// Scale returns the number of pixels per world unit.
func (p Projector) Scale() float64 { return p.scale }

// Project returns the pixel position of a world point.
func (p Projector) Project(pt geom.Point3) (float64, float64) {
	v := pt.Vec()
	return p.cx + v.Dot(p.right)*p.scale, p.cy - v.Dot(p.up)*p.scale
}

// ProjectVector returns the screen displacement of a world vector.
func (p Projector) ProjectVector(v geom.Vector3) (float64, float64) {
	return v.Dot(p.right) * p.scale, -v.Dot(p.up) * p.scale
}

// Unproject returns the world point on the screen plane through the origin
// that projects to pixel (x, y).
func (p Projector) Unproject(x, y float64) geom.Point3 {
	u := (x - p.cx) / p.scale
	w := (p.cy - y) / p.scale
	return geom.Point3{}.Add(p.right.Scale(u)).Add(p.up.Scale(w))
}
