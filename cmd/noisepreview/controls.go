package main

import (
	"math"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/field"
)

// zSpeed is how far the z slice moves per second while animating.
const zSpeed = 0.25

func advanceZ(cfg *config.Config, dt float32) {
	cfg.Field.Z += zSpeed * float64(dt)
}

// selectKind switches the field kind. Kinds without a periodic evaluator
// turn tiling off so the config stays valid.
func selectKind(cfg *config.Config, k field.Kind) {
	cfg.Field.Kind = k.String()
	if !k.Periodic() {
		cfg.Field.Tileable = false
	}
}

// toggleTileable flips tiling for kinds that support it and reports whether
// anything changed. Tiling snaps the frequency to an integer >= 2.
func toggleTileable(cfg *config.Config, k field.Kind) bool {
	if !k.Periodic() {
		return false
	}
	cfg.Field.Tileable = !cfg.Field.Tileable
	if cfg.Field.Tileable {
		cfg.Field.Frequency = max(2, math.Round(cfg.Field.Frequency))
	}
	return true
}
