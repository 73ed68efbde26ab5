package render

import "math"

// ViewSpan is how many world units fit across the view width at zoom 1.
const ViewSpan = 1000.0

// Camera translates between world coordinates and screen coordinates.
// Terminal cells are about twice as tall as they are wide, so one row covers
// twice the world distance of one column.
type Camera struct {
	X, Y       float64 // world point at the center of the view
	Zoom       float64
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centered on (cx, cy).
func NewCamera(cx, cy, zoom float64, viewW, viewH int) *Camera {
	return &Camera{X: cx, Y: cy, Zoom: zoom, ViewWidth: viewW, ViewHeight: viewH}
}

// Center repositions the camera on world position (cx, cy) at the given zoom.
func (c *Camera) Center(cx, cy, zoom float64) {
	c.X, c.Y, c.Zoom = cx, cy, zoom
}

// Scale is the number of columns per world unit.
func (c *Camera) Scale() float64 {
	if c.ViewWidth <= 0 || c.Zoom <= 0 {
		return 0
	}
	return c.Zoom * float64(c.ViewWidth) / ViewSpan
}

// WorldToScreen converts world (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy int, visible bool) {
	s := c.Scale()
	sx = int(math.Floor(float64(c.ViewWidth)/2 + (wx-c.X)*s))
	sy = int(math.Floor(float64(c.ViewHeight)/2 + (wy-c.Y)*s/2))
	visible = sx >= 0 && sx < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts the center of screen cell (sx, sy) to world
// coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	s := c.Scale()
	if s == 0 {
		return c.X, c.Y
	}
	wx := c.X + (float64(sx)+0.5-float64(c.ViewWidth)/2)/s
	wy := c.Y + (float64(sy)+0.5-float64(c.ViewHeight)/2)*2/s
	return wx, wy
}
