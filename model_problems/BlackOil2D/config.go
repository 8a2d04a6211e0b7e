package BlackOil2D

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/notargets/resim/geology"
	"github.com/notargets/resim/grid"
	"github.com/notargets/resim/types"
	"github.com/notargets/resim/utils"
)

const (
	MinPermeability = 0.1  // mD, floor for the average permeability
	MinPorosity     = 0.01 // floor for the average porosity
)

// PVT holds the scalar fluid properties. It may be replaced between steps
// without touching the grid or the field arrays.
type PVT struct {
	MuO, MuW float64 // Viscosity, cp
	Ct       float64 // Total compressibility, 1/psi
	Bo, Bw   float64 // Formation volume factors, rb/STB
}

func DefaultPVT() PVT {
	return PVT{
		MuO: 2.0,
		MuW: 1.0,
		Ct:  1.e-5,
		Bo:  1.2,
		Bw:  1.0,
	}
}

func (p PVT) Validate() (err error) {
	for _, v := range []struct {
		name string
		val  float64
	}{{"MuO", p.MuO}, {"MuW", p.MuW}, {"Ct", p.Ct}, {"Bo", p.Bo}, {"Bw", p.Bw}} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be positive and finite, have %v", v.name, v.val))
		}
	}
	return
}

type Config struct {
	Nx, Ny                 int
	Dx, Dy, Dz             float64 // Cell extents, ft
	Permeability, Porosity float64 // Field averages, mD and fraction
	GeoModel               geology.Model
	Seed                   uint64 // Geology seed, zero draws a fresh one
	PVT                    PVT
	InitialPressure        float64 // psi
	InitialSw              float64
	Dt                     float64 // Initial time step, days
	Wells                  []Well
}

func DefaultWells() []Well {
	return []Well{
		{I: 4, J: 4, Type: types.Injector, Rate: 500},
		{I: 15, J: 15, Type: types.Producer, Rate: 500},
	}
}

func DefaultConfig() Config {
	return Config{
		Nx:              20,
		Ny:              20,
		Dx:              100,
		Dy:              100,
		Dz:              50,
		Permeability:    100,
		Porosity:        0.2,
		GeoModel:        geology.Homogeneous,
		PVT:             DefaultPVT(),
		InitialPressure: 3000,
		InitialSw:       0.2,
		Dt:              0.1,
		Wells:           DefaultWells(),
	}
}

// Validate reports every problem found in the configuration at once
func (cfg Config) Validate() (err error) {
	if cfg.Nx <= 0 || cfg.Ny <= 0 {
		err = multierr.Append(err, fmt.Errorf("grid dimensions must be positive, have Nx = %d, Ny = %d", cfg.Nx, cfg.Ny))
	}
	if !(cfg.Dx > 0 && cfg.Dy > 0 && cfg.Dz > 0) {
		err = multierr.Append(err, fmt.Errorf("cell extents must be positive, have Dx = %v, Dy = %v, Dz = %v", cfg.Dx, cfg.Dy, cfg.Dz))
	}
	if !utils.IsFinite(cfg.Permeability) || !utils.IsFinite(cfg.Porosity) {
		err = multierr.Append(err, fmt.Errorf("rock averages must be finite, have K = %v, Phi = %v", cfg.Permeability, cfg.Porosity))
	}
	if _, ok := geology.ModelNames[cfg.GeoModel.String()]; !ok {
		err = multierr.Append(err, fmt.Errorf("unknown geology model %d", uint8(cfg.GeoModel)))
	}
	err = multierr.Append(err, cfg.PVT.Validate())
	if !utils.IsFinite(cfg.InitialPressure) {
		err = multierr.Append(err, fmt.Errorf("initial pressure must be finite, have %v", cfg.InitialPressure))
	}
	if !(cfg.InitialSw >= 0 && cfg.InitialSw <= 1) {
		err = multierr.Append(err, fmt.Errorf("initial water saturation must be in [0,1], have %v", cfg.InitialSw))
	}
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		err = multierr.Append(err, fmt.Errorf("time step must be positive, have %v", cfg.Dt))
	}
	for n, w := range cfg.Wells {
		if cfg.Nx > 0 && cfg.Ny > 0 && (w.I < 0 || w.I >= cfg.Nx || w.J < 0 || w.J >= cfg.Ny) {
			err = multierr.Append(err, fmt.Errorf("well %d at (%d,%d) is outside the %dx%d grid", n, w.I, w.J, cfg.Nx, cfg.Ny))
		}
		if w.Type > types.Producer {
			err = multierr.Append(err, fmt.Errorf("well %d has unknown type %d", n, uint8(w.Type)))
		}
		if !(w.Rate >= 0) || math.IsInf(w.Rate, 0) {
			err = multierr.Append(err, fmt.Errorf("well %d rate must be a non-negative magnitude, have %v", n, w.Rate))
		}
	}
	return
}

// normalized applies the floors and clamps the engine relies on
func (cfg Config) normalized() Config {
	cfg.Permeability = math.Max(MinPermeability, cfg.Permeability)
	cfg.Porosity = math.Max(MinPorosity, cfg.Porosity)
	cfg.InitialSw = utils.Clamp(cfg.InitialSw, 0, 1)
	cfg.Dt = utils.Clamp(cfg.Dt, MinDt, MaxDt)
	cfg.Wells = NormalizeWells(cfg.Wells)
	return cfg
}

func (cfg Config) Grid() (grid.Grid, error) {
	return grid.NewGrid(cfg.Nx, cfg.Ny, cfg.Dx, cfg.Dy, cfg.Dz)
}

// needsReset is true when going from cfg to next changes the grid or the geology
func (cfg Config) needsReset(next Config) bool {
	return cfg.Nx != next.Nx || cfg.Ny != next.Ny ||
		cfg.Dx != next.Dx || cfg.Dy != next.Dy || cfg.Dz != next.Dz ||
		cfg.GeoModel != next.GeoModel || cfg.Seed != next.Seed
}
