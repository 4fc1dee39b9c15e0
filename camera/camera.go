// Package camera provides a 2D camera over the noise plane.
package camera

import "math"

// Camera controls the viewport into tile space.
// Axes with a positive world size wrap; a zero size leaves the axis unbounded.
type Camera struct {
	// Position is the camera center in tile coordinates
	X, Y float32

	// Zoom level (1.0 = UnitPixels screen pixels per tile unit)
	Zoom float32

	// UnitPixels is the screen size of one tile unit at zoom 1
	UnitPixels float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions in tile units (0 = unbounded)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the first tile with 1:1 zoom.
func New(viewportW, viewportH, unitPixels, worldW, worldH float32) *Camera {
	c := &Camera{
		Zoom:       1.0,
		UnitPixels: unitPixels,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		MinZoom:    1.0 / 16,
		MaxZoom:    64.0,
	}
	c.Reset()
	return c
}

// scale returns screen pixels per tile unit.
func (c *Camera) scale() float32 {
	return c.UnitPixels * c.Zoom
}

// WorldToScreen converts tile coordinates to screen coordinates.
// On wrapping axes this takes the shortest path to the camera center.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	s := c.scale()
	sx = c.ViewportW/2 + dx*s
	sy = c.ViewportH/2 + dy*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to tile coordinates, wrapped into
// the first tile on wrapping axes.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.scale()
	dx := (sx - c.ViewportW/2) / s
	dy := (sy - c.ViewportH/2) / s

	wx = mod(c.X+dx, c.WorldW)
	wy = mod(c.Y+dy, c.WorldH)
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with the given radius in
// tile units could be visible on screen.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	s := c.scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(dx) <= halfW && absf(dy) <= halfH
}

// TileLines returns the screen x positions of vertical tile borders and the
// screen y positions of horizontal ones. Unbounded axes return nil.
func (c *Camera) TileLines() (xs, ys []float32) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	s := c.scale()
	if c.WorldW > 0 {
		for k := float32(math.Ceil(float64(minX / c.WorldW))); k*c.WorldW <= maxX; k++ {
			xs = append(xs, c.ViewportW/2+(k*c.WorldW-c.X)*s)
		}
	}
	if c.WorldH > 0 {
		for k := float32(math.Ceil(float64(minY / c.WorldH))); k*c.WorldH <= maxY; k++ {
			ys = append(ys, c.ViewportH/2+(k*c.WorldH-c.Y)*s)
		}
	}
	return xs, ys
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetWorld changes the wrap extents, keeping the camera inside the new tile.
func (c *Camera) SetWorld(worldW, worldH float32) {
	c.WorldW = worldW
	c.WorldH = worldH
	c.X = mod(c.X, worldW)
	c.Y = mod(c.Y, worldH)
}

// Pan moves the camera by the given delta in screen pixels.
// Wraps around world boundaries on wrapping axes.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	c.X = mod(c.X+dx/s, c.WorldW)
	c.Y = mod(c.Y+dy/s, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the unit tile at zoom 1.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	if c.WorldW > 0 {
		c.X = c.WorldW / 2
	}
	if c.WorldH > 0 {
		c.Y = c.WorldH / 2
	}
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the tile-coordinate bounds of the visible area
// as (minX, minY, maxX, maxY). The bounds are not wrapped; sampling a
// periodic field over them shows the repeats.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size. A zero size means no wrapping.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if size <= 0 {
		return d
	}
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
// A zero modulus returns x unchanged.
func mod(x, m float32) float32 {
	if m <= 0 {
		return x
	}
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
