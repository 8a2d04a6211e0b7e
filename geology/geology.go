// Package geology generates per-cell permeability and porosity fields from a
// named spatial pattern.
package geology

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/notargets/resim/utils"
)

type Model uint8

const (
	Homogeneous Model = iota
	Layered
	Channel
	Random
	Simplex
)

var ModelNames = map[string]Model{
	"homogeneous": Homogeneous,
	"layered":     Layered,
	"channel":     Channel,
	"random":      Random,
	"simplex":     Simplex,
}

func (m Model) String() string {
	for name, mm := range ModelNames {
		if mm == m {
			return name
		}
	}
	return fmt.Sprintf("Model(%d)", uint8(m))
}

func NewModel(label string) (m Model, err error) {
	var ok bool
	if len(label) == 0 {
		return Homogeneous, nil
	}
	if m, ok = ModelNames[strings.ToLower(label)]; !ok {
		var names []string
		for name := range ModelNames {
			names = append(names, name)
		}
		sort.Strings(names)
		err = fmt.Errorf("unknown geology model %q, must be one of %v", label, names)
	}
	return
}

func (m Model) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Model) UnmarshalText(text []byte) (err error) {
	*m, err = NewModel(string(text))
	return
}

const (
	LayerPeriod      = 5    // Every fifth row is a high permeability streak
	ChannelHalfWidth = 3.   // Columns either side of the channel center line
	LogPermSigma     = 0.5  // Standard deviation of ln(K) for the random field
	SimplexScale     = 0.15 // Noise frequency, per cell, for the simplex field
	MaxPorosity      = 1.
)

// RockField holds the two dense cell arrays describing the rock
type RockField struct {
	K   []float64 // Permeability, mD
	Phi []float64 // Porosity, fraction
}

func NewRockField(N int) RockField {
	return RockField{
		K:   make([]float64, N),
		Phi: make([]float64, N),
	}
}

func (rf RockField) Copy() RockField {
	return RockField{
		K:   append([]float64(nil), rf.K...),
		Phi: append([]float64(nil), rf.Phi...),
	}
}

// Generator draws rock fields from a seeded pseudo random stream. Two
// generators built with the same seed produce identical fields.
type Generator struct {
	Seed uint64
	rng  *rand.Rand
}

// NewGenerator seeds a PCG stream, a zero seed draws a fresh one
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		Seed: seed,
		rng:  rand.New(rand.NewPCG(seed, 0)),
	}
}

// NewGeneratorFromSource uses src for every uniform draw
func NewGeneratorFromSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// uniform is in [lo, hi)
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

// normal is a standard normal sample by the Box-Muller transform
func (g *Generator) normal() float64 {
	// 1 - Float64() is in (0, 1], so the log stays finite
	u1, u2 := 1-g.rng.Float64(), g.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Generate fills a rock field for an nx x ny grid with average permeability
// avgPerm and average porosity avgPoro, shaped by the pattern m.
func (g *Generator) Generate(nx, ny int, avgPerm, avgPoro float64, m Model) (rf RockField, err error) {
	if nx <= 0 || ny <= 0 {
		err = fmt.Errorf("grid dimensions must be positive, have nx = %d, ny = %d", nx, ny)
		return
	}
	if avgPerm <= 0 || avgPoro <= 0 {
		err = fmt.Errorf("average rock properties must be positive, have K = %v, Phi = %v", avgPerm, avgPoro)
		return
	}
	rf = NewRockField(nx * ny)
	switch m {
	case Homogeneous:
		copy(rf.K, utils.ConstArray(nx*ny, avgPerm))
		copy(rf.Phi, utils.ConstArray(nx*ny, avgPoro))
	case Layered:
		g.layered(nx, ny, avgPerm, avgPoro, rf)
	case Channel:
		channel(nx, ny, avgPerm, avgPoro, rf)
	case Random:
		g.random(nx, ny, avgPerm, avgPoro, rf)
	case Simplex:
		g.simplex(nx, ny, avgPerm, avgPoro, rf)
	default:
		err = fmt.Errorf("unknown geology model %d", uint8(m))
		return
	}
	for k, phi := range rf.Phi {
		rf.Phi[k] = math.Min(phi, MaxPorosity)
	}
	return
}

func (g *Generator) layered(nx, ny int, avgPerm, avgPoro float64, rf RockField) {
	for j := 0; j < ny; j++ {
		layerFactor := 0.5
		if j%LayerPeriod == 0 {
			layerFactor = 5.
		}
		for i := 0; i < nx; i++ {
			k := j*nx + i
			rf.K[k] = avgPerm * layerFactor * g.uniform(0.8, 1.2)
			rf.Phi[k] = avgPoro * g.uniform(0.9, 1.1)
		}
	}
}

// ChannelCenter is the column of the sinuous channel axis at row j
func ChannelCenter(nx, j int) float64 {
	return float64(nx)/2 + (float64(nx)/4)*math.Sin(float64(j)/5)
}

func channel(nx, ny int, avgPerm, avgPoro float64, rf RockField) {
	for j := 0; j < ny; j++ {
		center := ChannelCenter(nx, j)
		for i := 0; i < nx; i++ {
			k := j*nx + i
			if math.Abs(float64(i)-center) < ChannelHalfWidth {
				rf.K[k] = avgPerm * 10
				rf.Phi[k] = avgPoro * 1.2
			} else {
				rf.K[k] = avgPerm * 0.1
				rf.Phi[k] = avgPoro * 0.8
			}
		}
	}
}

func (g *Generator) random(nx, ny int, avgPerm, avgPoro float64, rf RockField) {
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			k := j*nx + i
			rf.K[k] = avgPerm * math.Exp(LogPermSigma*g.normal())
			rf.Phi[k] = avgPoro * g.uniform(0.85, 1.15)
		}
	}
}

// simplex is a spatially correlated log-normal field. The noise generator is
// seeded from the stream so the field follows the generator seed.
func (g *Generator) simplex(nx, ny int, avgPerm, avgPoro float64, rf RockField) {
	var (
		permNoise = opensimplex.NewNormalized(g.rng.Int64())
		poroNoise = opensimplex.NewNormalized(g.rng.Int64())
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var (
				k = j*nx + i
				x = float64(i) * SimplexScale
				y = float64(j) * SimplexScale
				// Normalized noise is in [0, 1), recentered to roughly +/-2 sigma
				z = 4 * (permNoise.Eval2(x, y) - 0.5)
			)
			rf.K[k] = avgPerm * math.Exp(LogPermSigma*z)
			rf.Phi[k] = avgPoro * (0.85 + 0.3*poroNoise.Eval2(x, y))
		}
	}
}
