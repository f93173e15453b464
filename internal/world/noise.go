package world

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// noiseLayer is one independently seeded coherent-noise octave.
type noiseLayer interface {
	Eval2(x, y float64) float64
}

// perlinPeriod is the lattice period of go-perlin's permutation table.
const perlinPeriod = 256

// perlinLayer adapts go-perlin to the noiseLayer shape.
// Its raw output can stray slightly past the unit range, so it is clamped.
type perlinLayer struct {
	p *perlin.Perlin
}

// Eval2 folds both inputs into one period first. go-perlin truncates its
// lattice coordinate toward zero, which is only correct for inputs above
// -4096; every octave's period divides perlinPeriod, so folding keeps the
// field continuous.
func (l perlinLayer) Eval2(x, y float64) float64 {
	return clampUnit(l.p.Noise2D(foldPeriod(x), foldPeriod(y)))
}

// foldPeriod maps v into [0, perlinPeriod].
func foldPeriod(v float64) float64 {
	v = math.Mod(v, perlinPeriod)
	if v < 0 {
		v += perlinPeriod
	}
	return v
}

// detailWeight is the amplitude of the second octave relative to the base.
const detailWeight = 0.5

// NoiseField samples deterministic two-octave coherent noise in tile space.
type NoiseField struct {
	base   noiseLayer
	detail noiseLayer
	scale  float64
}

// NewNoiseField creates a noise field for the given backend.
// Each octave gets its own seed, as independent layers.
func NewNoiseField(seed int64, scale float64, backend string) *NoiseField {
	f := &NoiseField{scale: scale}
	switch backend {
	case NoisePerlin:
		f.base = perlinLayer{perlin.NewPerlin(2, 2, 3, seed)}
		f.detail = perlinLayer{perlin.NewPerlin(2, 2, 3, seed+1)}
	default:
		f.base = opensimplex.New(seed)
		f.detail = opensimplex.New(seed + 1)
	}
	return f
}

// Sample returns the combined noise value at tile-space (x, y), in [-1, 1].
func (f *NoiseField) Sample(x, y float64) float64 {
	half := f.scale / 2
	total := f.base.Eval2(x/f.scale, y/f.scale) + detailWeight*f.detail.Eval2(x/half, y/half)
	return clampUnit(total / (1 + detailWeight))
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
