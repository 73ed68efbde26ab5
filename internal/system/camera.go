package system

import (
	"math"

	"cell-arena/internal/arena"
	"cell-arena/internal/tuning"
)

// UpdateCamera eases the camera toward the mass-weighted centroid of the
// local owners' cells and toward the zoom their combined mass calls for.
// With no owned cells the camera holds still.
func UpdateCamera(s *arena.State) {
	var total, cx, cy float64
	for _, o := range s.Owners {
		for _, id := range s.Cells(o) {
			m := s.Body(id).Mass()
			p := s.Pos(id)
			total += m
			cx += p.X * m
			cy += p.Y * m
		}
	}
	if total <= 0 {
		return
	}
	cx /= total
	cy /= total

	zoom := TargetZoom(s, total)
	k := s.Tuning.Camera.Smoothing
	cam := &s.Camera
	cam.X += (cx - cam.X) * k
	cam.Y += (cy - cam.Y) * k
	cam.Zoom += (zoom - cam.Zoom) * k
	cam.Zoom = zoomCurve(s).Clamp(cam.Zoom)
}

// TargetZoom is the clamped k / sqrt(mass/π) zoom for totalMass.
func TargetZoom(s *arena.State, totalMass float64) float64 {
	z := zoomCurve(s)
	if totalMass <= 0 {
		return z.Max
	}
	return z.Clamp(z.K / math.Sqrt(totalMass/math.Pi))
}

func zoomCurve(s *arena.State) tuning.Zoom {
	if s.TwoOwner() {
		return s.Tuning.Camera.Duo
	}
	return s.Tuning.Camera.Solo
}
