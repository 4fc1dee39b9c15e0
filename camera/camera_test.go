package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(800, 600, 400, 2, 1)

	// Should be centered on the tile
	if cam.X != 1 || cam.Y != 0.5 {
		t.Errorf("expected camera at (1, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}

	unbounded := New(800, 600, 400, 0, 0)
	if unbounded.X != 0.5 || unbounded.Y != 0.5 {
		t.Errorf("expected unbounded camera at (0.5, 0.5), got (%f, %f)", unbounded.X, unbounded.Y)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)

	sx, sy := cam.WorldToScreen(0.5, 0.5)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}

	// One tile unit is UnitPixels wide at zoom 1.
	sx, _ = cam.WorldToScreen(0.75, 0.5)
	if !near(sx, 500) {
		t.Errorf("expected x 500 a quarter tile right of center, got %f", sx)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cams := map[string]*Camera{
		"unbounded": New(800, 600, 400, 0, 0),
		"wrapped":   New(800, 600, 400, 1, 1),
	}
	// Keep the view narrower than half a tile so the shortest path is unique.
	cams["wrapped"].SetZoom(4)

	testCases := []struct{ sx, sy float32 }{
		{400, 300}, // center
		{100, 100}, // top-left
		{700, 500}, // near bottom-right
	}

	for name, cam := range cams {
		for _, tc := range testCases {
			wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
			sx, sy := cam.WorldToScreen(wx, wy)
			if !near(sx, tc.sx) || !near(sy, tc.sy) {
				t.Errorf("%s roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
					name, tc.sx, tc.sy, wx, wy, sx, sy)
			}
		}
	}
}

func TestScreenToWorldWrapsIntoTile(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)

	// Left screen edge is half a tile left of the origin.
	wx, _ := cam.ScreenToWorld(0, 300)
	if !near(wx, 0.5) {
		t.Errorf("expected wrapped x 0.5, got %f", wx)
	}

	cam.SetWorld(0, 0)
	wx, _ = cam.ScreenToWorld(0, 300)
	if !near(wx, -0.5) {
		t.Errorf("expected unwrapped x -0.5, got %f", wx)
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)
	cam.SetZoom(4)
	cam.X = 0.05 // Near left edge

	// A point at the right edge of the tile is closer across the seam.
	sx, _ := cam.WorldToScreen(0.95, 0.5)
	if sx >= 400 {
		t.Errorf("expected point on left of screen, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)
	cam.X = 0.05

	cam.Pan(-100, 0)
	if !near(cam.X, 0.8) {
		t.Errorf("expected X to wrap to 0.8, got %f", cam.X)
	}

	free := New(800, 600, 400, 0, 0)
	free.X = 0.05
	free.Pan(-100, 0)
	if !near(free.X, -0.2) {
		t.Errorf("expected unbounded X -0.2, got %f", free.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)

	cam.SetZoom(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(2)
	cam.ZoomBy(1.5)
	if cam.Zoom != 3 {
		t.Errorf("expected zoom 3, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 600, 400, 0, 0)

	// Visible range in tile coords: (-0.5, -0.25) to (1.5, 1.25)
	if !cam.IsVisible(0.5, 0.5, 0.01) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(3, 3, 0.01) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(-0.6, 0.5, 0.2) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestTileLines(t *testing.T) {
	cam := New(800, 600, 400, 1, 1)

	xs, ys := cam.TileLines()
	if len(xs) != 2 || !near(xs[0], 200) || !near(xs[1], 600) {
		t.Errorf("expected vertical borders at 200 and 600, got %v", xs)
	}
	// Visible y spans (-0.25, 1.25): borders at 0 and 1.
	if len(ys) != 2 || !near(ys[0], 100) || !near(ys[1], 500) {
		t.Errorf("expected horizontal borders at 100 and 500, got %v", ys)
	}

	cam.SetWorld(0, 0)
	xs, ys = cam.TileLines()
	if xs != nil || ys != nil {
		t.Errorf("unbounded camera should draw no borders, got %v %v", xs, ys)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 400, 2, 2)
	cam.X = 0.3
	cam.Y = 1.7
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1 || cam.Y != 1 {
		t.Errorf("expected position (1, 1), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
