// Noise image tool - renders one tile to a file for inspection.
//
// Usage: go run ./cmd/noiseimage -kind cellular_edge -freq 6 -tileable -out edge.png
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
	"github.com/pthm-cable/latnoise/tiles"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml for defaults (empty = use defaults)")
	kind := flag.String("kind", "", "Field kind (empty = use config)")
	seed := flag.Int("seed", 0, "Seed (0 = use config)")
	freq := flag.Float64("freq", 0, "Lattice cells per tile (0 = use config)")
	tileable := flag.Bool("tileable", false, "Wrap the tile at the frequency")
	size := flag.Int("size", 512, "Image width and height")
	tx := flag.Int("tx", 0, "Tile x")
	ty := flag.Int("ty", 0, "Tile y")
	format := flag.String("format", "png", "Output format: png or f32")
	outPath := flag.String("out", "noise.png", "Output path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	req := tiles.Request{
		Seed:      cfg.Field.Seed,
		Frequency: cfg.Derived.Frequency32,
		Tileable:  *tileable || cfg.Field.Tileable,
		TX:        *tx,
		TY:        *ty,
		Size:      *size,
	}
	name := cfg.Field.Kind
	if *kind != "" {
		name = *kind
	}
	if req.Kind, err = field.ParseKind(name); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		req.Seed = int32(*seed)
	}
	if *freq != 0 {
		req.Frequency = float32(*freq)
	}
	if req.Format, err = tiles.ParseFormat(*format); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if req.Size < 1 {
		fmt.Fprintf(os.Stderr, "Size must be positive, got %d\n", req.Size)
		os.Exit(1)
	}

	fld, err := req.Field()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	pool := field.NewPool(cfg.Grid.Workers)
	defer pool.Close()
	values := make([]float32, req.Size*req.Size)
	if err := pool.FillRegion(fld, values, req.Size, req.Size, req.Region()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sample field: %v\n", err)
		os.Exit(1)
	}

	data, err := tiles.Encode(values, req.Size, fld, req.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s rendered to: %s (%dx%d)\n", req.Key(), *outPath, req.Size, req.Size)
}
