package render

import (
	"math"

	"cell-arena/internal/arena"
	"cell-arena/internal/sim"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDRows is how many rows at the bottom of the screen belong to the HUD.
const HUDRows = 5

// Renderer draws arena snapshots onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen, camera: NewCamera(0, 0, 1, 0, 0)}
	r.Resize()
	return r
}

// Resize re-reads the screen size. Call it after a resize event.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = max(h-HUDRows, 1)
}

// Camera exposes the view transform used for the last frame.
func (r *Renderer) Camera() *Camera { return r.camera }

// CenterOn points the view at the simulation camera.
func (r *Renderer) CenterOn(cam arena.Camera) { r.camera.Center(cam.X, cam.Y, cam.Zoom) }

// ScreenToWorld converts a screen cell (e.g. a mouse position) to world
// coordinates using the current view.
func (r *Renderer) ScreenToWorld(sx, sy int) (float64, float64) {
	return r.camera.ScreenToWorld(sx, sy)
}

// DrawFrame renders the arena background and every entity in snap.
func (r *Renderer) DrawFrame(snap sim.Snapshot) {
	r.screen.Clear()
	r.CenterOn(snap.Camera)
	r.drawBackground(snap.WorldWidth, snap.WorldHeight)
	for _, e := range snap.Entities {
		r.drawBody(e)
	}
	for _, e := range snap.Entities {
		if e.Kind == sim.KindCell && e.Name != "" {
			r.drawLabel(e)
		}
	}
}

// drawBackground paints the playfield, the area outside the world and a
// sparse grid so movement is visible on an empty field.
func (r *Renderer) drawBackground(worldW, worldH float64) {
	inside := tcell.StyleDefault.Background(ColorBackground)
	outside := tcell.StyleDefault.Background(ColorOutside)
	for sy := 0; sy < r.camera.ViewHeight; sy++ {
		for sx := 0; sx < r.camera.ViewWidth; sx++ {
			wx, wy := r.camera.ScreenToWorld(sx, sy)
			style := inside
			if wx < 0 || wx > worldW || wy < 0 || wy > worldH {
				style = outside
			}
			r.screen.SetContent(sx, sy, ' ', nil, style)
		}
	}

	x0, y0 := r.camera.ScreenToWorld(0, 0)
	x1, y1 := r.camera.ScreenToWorld(r.camera.ViewWidth-1, r.camera.ViewHeight-1)
	dot := tcell.StyleDefault.Foreground(ColorGridDot).Background(ColorBackground)
	for gy := math.Max(0, math.Ceil(y0/gridSpacing)*gridSpacing); gy <= math.Min(y1, worldH); gy += gridSpacing {
		for gx := math.Max(0, math.Ceil(x0/gridSpacing)*gridSpacing); gx <= math.Min(x1, worldW); gx += gridSpacing {
			if sx, sy, ok := r.camera.WorldToScreen(gx, gy); ok {
				r.screen.SetContent(sx, sy, '·', nil, dot)
			}
		}
	}
}

// drawBody fills every screen cell whose center lies inside the entity's
// circle. Bodies smaller than a cell are drawn as a single dot.
func (r *Renderer) drawBody(e sim.Entity) {
	glyphs, ok := KindGlyphs[e.Kind]
	if !ok {
		glyphs = Glyphs{Fill: '?', Dot: '?'}
	}
	style := tcell.StyleDefault.Foreground(e.Color).Background(ColorBackground)
	cx, cy, visible := r.camera.WorldToScreen(e.X, e.Y)

	rx := e.Radius * r.camera.Scale()
	ry := rx / 2
	if rx < 1 {
		if visible {
			r.screen.SetContent(cx, cy, glyphs.Dot, nil, style)
		}
		return
	}

	drawn := 0
	r2 := e.Radius * e.Radius
	for sy := cy - int(math.Ceil(ry)) - 1; sy <= cy+int(math.Ceil(ry))+1; sy++ {
		if sy < 0 || sy >= r.camera.ViewHeight {
			continue
		}
		for sx := cx - int(math.Ceil(rx)) - 1; sx <= cx+int(math.Ceil(rx))+1; sx++ {
			if sx < 0 || sx >= r.camera.ViewWidth {
				continue
			}
			wx, wy := r.camera.ScreenToWorld(sx, sy)
			dx, dy := wx-e.X, wy-e.Y
			if dx*dx+dy*dy > r2 {
				continue
			}
			r.screen.SetContent(sx, sy, glyphs.Fill, nil, style)
			drawn++
		}
	}
	if drawn == 0 && visible {
		r.screen.SetContent(cx, cy, glyphs.Dot, nil, style)
	}
}

// drawLabel writes a cell's name across its middle when it fits.
func (r *Renderer) drawLabel(e sim.Entity) {
	cx, cy, visible := r.camera.WorldToScreen(e.X, e.Y)
	if !visible {
		return
	}
	width := runewidth.StringWidth(e.Name)
	if float64(width) > 2*e.Radius*r.camera.Scale() {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(e.Color).Bold(true)
	r.drawText(cx-width/2, cy, e.Name, style)
}

// drawText writes text at (x, y), advancing by each rune's display width.
// It returns the column after the last rune.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
	return col
}
