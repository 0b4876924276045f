package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orthographic view of render space. Yaw turns about +y and
// pitch about +x, both in radians; Zoom is dots per render unit.
type Camera struct {
	Center     mgl32.Vec3
	Yaw, Pitch float32
	Zoom       float32
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) Rotate(yaw, pitch float32) {
	c.Yaw += yaw
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = min(c.Zoom*1.25, 1e6) }
func (c *Camera) ZoomOut() { c.Zoom = max(c.Zoom/1.25, 1e-6) }

func (c *Camera) view() mgl32.Mat3 {
	return mgl32.Rotate3DX(c.Pitch).Mul3(mgl32.Rotate3DY(c.Yaw))
}

// Fit centers the camera on the centroid of points and zooms so that all of
// them fall inside a w by h dot area with a margin.
func (c *Camera) Fit(points []mgl32.Vec3, w, h int) {
	if len(points) == 0 {
		return
	}
	var center mgl32.Vec3
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Mul(1 / float32(len(points)))

	extent := float32(0)
	for _, p := range points {
		extent = max(extent, p.Sub(center).Len())
	}

	c.Center = center
	if extent > 0 {
		c.Zoom = 0.45 * float32(min(w, h)) / extent
	}
}

// Project maps a render-space point to dot coordinates on a w by h canvas.
// ok is false when the point falls outside it.
func (c *Camera) Project(p mgl32.Vec3, w, h int) (x, y int, ok bool) {
	q := c.view().Mul3x1(p.Sub(c.Center)).Mul(c.Zoom)
	x = w/2 + int(math.Round(float64(q.X())))
	y = h/2 - int(math.Round(float64(q.Y())))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}
