// Noise field preview tool - interactive pan/zoom view with sliders.
//
// Usage: go run ./cmd/noisepreview [-config path]
//
// Drag with the left mouse button to pan, scroll to zoom. Press C to copy the
// field settings as YAML.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/latnoise/camera"
	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
	"github.com/pthm-cable/latnoise/telemetry"
)

const (
	panelWidth  = 340
	sliderWidth = panelWidth - 110
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	defaults := cfg.Field

	windowWidth := int32(cfg.Preview.Width)
	windowHeight := int32(cfg.Preview.Height)
	viewW := float32(windowWidth - panelWidth)
	viewH := float32(windowHeight)

	rl.InitWindow(windowWidth, windowHeight, "Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Preview.TargetFPS))

	// Texture keeps the viewport aspect ratio
	texW := cfg.Preview.TextureSize
	texH := max(1, int(float32(texW)*viewH/viewW))
	values := make([]float32, texW*texH)
	pixels := make([]color.RGBA, texW*texH)
	img := rl.GenImageColor(texW, texH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pool := field.NewPool(cfg.Grid.Workers)
	defer pool.Close()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	fld, err := field.New(cfg)
	if err != nil {
		slog.Error("failed to build field", "error", err)
		os.Exit(1)
	}
	cam := camera.New(viewW, viewH, 0.8*min(viewW, viewH), 0, 0)
	setWorld(cam, cfg, fld)

	var stats telemetry.FieldStats
	var fieldErr error
	animating := false
	needsRegen := true

	// rebuild applies edited field settings, keeping the last good field on error.
	rebuild := func() {
		next, err := buildField(cfg)
		fieldErr = err
		if err != nil {
			return
		}
		fld = next
		setWorld(cam, cfg, fld)
		needsRegen = true
	}

	for !rl.WindowShouldClose() {
		perf.RecordFrame()

		// Input
		mouse := rl.GetMousePosition()
		inView := rl.CheckCollisionPointRec(mouse, rl.Rectangle{Width: viewW, Height: viewH})
		if inView && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			if d.X != 0 || d.Y != 0 {
				cam.Pan(-d.X, -d.Y)
				needsRegen = true
			}
		}
		if wheel := rl.GetMouseWheelMove(); inView && wheel != 0 {
			cam.ZoomBy(float32(math.Pow(1.15, float64(wheel))))
			needsRegen = true
		}

		if animating {
			advanceZ(cfg, rl.GetFrameTime())
			rebuild()
		}

		if needsRegen {
			stats = regenerate(pool, perf, fld, cam, values, pixels, texW, texH, texture)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(texW), Height: float32(texH)},
			rl.Rectangle{X: 0, Y: 0, Width: viewW, Height: viewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)

		// Tile borders
		xs, ys := cam.TileLines()
		for _, x := range xs {
			rl.DrawLineV(rl.Vector2{X: x, Y: 0}, rl.Vector2{X: x, Y: viewH}, rl.Fade(rl.Red, 0.6))
		}
		for _, y := range ys {
			rl.DrawLineV(rl.Vector2{X: 0, Y: y}, rl.Vector2{X: viewW, Y: y}, rl.Fade(rl.Red, 0.6))
		}

		// Stats overlay
		ps := perf.Stats()
		rl.DrawRectangle(8, int32(viewH)-58, 420, 50, rl.Fade(rl.Black, 0.6))
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f", stats.Min, stats.Max, stats.Mean, stats.Std),
			15, int32(viewH)-52, 14, rl.RayWhite)
		rl.DrawText(fmt.Sprintf("FPS: %.0f  Fill: %v  %.1fM samples/s  Zoom: %.2f", ps.FPS,
			ps.PhaseAvg[telemetry.PhaseFill].Round(1000), ps.SamplesPerSec/1e6, cam.Zoom),
			15, int32(viewH)-32, 14, rl.RayWhite)

		// Control panel
		panelX := viewW + 15
		panelY := float32(10)

		rl.DrawText("Noise Field", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		kindIdx := int(fld.Kind)
		newKind := slider(&panelY, panelX, "Kind", fld.Kind.String(), float32(kindIdx), 0, float32(len(field.AllKinds)-1))
		if int(newKind+0.5) != kindIdx {
			selectKind(cfg, field.AllKinds[int(newKind+0.5)])
			rebuild()
		}

		freq := float32(cfg.Field.Frequency)
		newFreq := slider(&panelY, panelX, "Frequency (cells per tile)", fmt.Sprintf("%.2f", freq), freq, 1, 64)
		if cfg.Field.Tileable {
			newFreq = float32(max(2, math.Round(float64(newFreq))))
		}
		if newFreq != freq {
			cfg.Field.Frequency = float64(newFreq)
			rebuild()
		}

		newSeed := slider(&panelY, panelX, "Seed", fmt.Sprintf("%d", cfg.Field.Seed), float32(cfg.Field.Seed), 0, 99999)
		if int32(newSeed) != cfg.Field.Seed {
			cfg.Field.Seed = int32(newSeed)
			rebuild()
		}

		z := float32(cfg.Field.Z)
		newZ := slider(&panelY, panelX, "Z (gradient_3d slice)", fmt.Sprintf("%.3f", z), z, 0, 8)
		if newZ != z {
			cfg.Field.Z = float64(newZ)
			rebuild()
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+panelWidth-30, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, toggleText(cfg.Field.Tileable, "Tileable: on", "Tileable: off")) && toggleTileable(cfg, fld.Kind) {
			rebuild()
			cam.Reset()
		}
		if gui.Button(rl.Rectangle{X: panelX + 160, Y: panelY, Width: 150, Height: 30}, toggleText(animating, "Stop", "Animate Z")) {
			animating = !animating
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, "Random Seed") {
			cfg.Field.Seed = rl.GetRandomValue(0, 99999)
			rebuild()
		}
		if gui.Button(rl.Rectangle{X: panelX + 160, Y: panelY, Width: 150, Height: 30}, "Reset View") {
			cam.Reset()
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, "Reset All") {
			cfg.Field = defaults
			animating = false
			rebuild()
			cam.Reset()
		}
		panelY += 50

		if fieldErr != nil {
			rl.DrawText(fieldErr.Error(), int32(panelX), int32(panelY), 12, rl.Maroon)
			panelY += 20
		}

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		snippet := fieldYAML(cfg.Field)
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

func buildField(cfg *config.Config) (*field.Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return field.New(cfg)
}

// setWorld wraps the camera at the period extent when the field repeats.
func setWorld(cam *camera.Camera, cfg *config.Config, fld *field.Field) {
	if !fld.Kind.Periodic() {
		cam.SetWorld(0, 0)
		return
	}
	cam.SetWorld(cfg.TileExtent())
}

// regenerate samples the visible area into the texture.
func regenerate(pool *field.Pool, perf *telemetry.PerfCollector, fld *field.Field, cam *camera.Camera,
	values []float32, pixels []color.RGBA, texW, texH int, texture rl.Texture2D) telemetry.FieldStats {
	perf.StartRun()

	perf.StartPhase(telemetry.PhaseFill)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	region := field.Region{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
	if err := pool.FillRegion(fld, values, texW, texH, region); err != nil {
		slog.Error("fill failed", "error", err)
	}

	perf.StartPhase(telemetry.PhaseStats)
	stats := telemetry.ComputeFieldStats(values)

	perf.StartPhase(telemetry.PhaseUpload)
	for i, v := range values {
		pixels[i] = palette(fld.Normalize(v))
	}
	rl.UpdateTexture(texture, pixels)

	perf.EndRun(len(values))
	return stats
}

// slider draws a labeled slider and advances the panel cursor.
func slider(y *float32, x float32, label, value string, v, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	out := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: sliderWidth, Height: 20},
		"", "",
		v, lo, hi,
	)
	rl.DrawText(value, int32(x+sliderWidth+10), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return out
}

// fieldYAML renders the field section in config file format.
func fieldYAML(f config.FieldConfig) string {
	out, err := yaml.Marshal(struct {
		Field config.FieldConfig `yaml:"field"`
	}{f})
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// palette maps [0, 1] to a color gradient: dark blue -> cyan -> yellow -> white
func palette(v float32) color.RGBA {
	var r, g, b uint8
	if v < 0.25 {
		t := v / 0.25
		r = uint8(10 + t*30)
		g = uint8(20 + t*60)
		b = uint8(60 + t*100)
	} else if v < 0.5 {
		t := (v - 0.25) / 0.25
		r = uint8(40 + t*20)
		g = uint8(80 + t*120)
		b = uint8(160 + t*40)
	} else if v < 0.75 {
		t := (v - 0.5) / 0.25
		r = uint8(60 + t*140)
		g = uint8(200 - t*40)
		b = uint8(200 - t*150)
	} else {
		t := (v - 0.75) / 0.25
		r = uint8(200 + t*55)
		g = uint8(160 + t*95)
		b = uint8(50 + t*205)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
