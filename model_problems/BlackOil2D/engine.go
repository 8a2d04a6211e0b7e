package BlackOil2D

import (
	"fmt"
	"log/slog"

	"github.com/notargets/resim/geology"
	"github.com/notargets/resim/grid"
	"github.com/notargets/resim/relperm"
	"github.com/notargets/resim/utils"
)

// FluidState holds the cell unknowns of one time level
type FluidState struct {
	P, Sw []float64
}

func NewFluidState(N int, p0, sw0 float64) FluidState {
	return FluidState{
		P:  utils.ConstArray(N, p0),
		Sw: utils.ConstArray(N, sw0),
	}
}

func (fs FluidState) Copy() FluidState {
	return FluidState{
		P:  append([]float64(nil), fs.P...),
		Sw: append([]float64(nil), fs.Sw...),
	}
}

// Engine advances a two phase oil/water reservoir with IMPES. Each step
// solves pressure implicitly then transports water explicitly. It is not
// safe for concurrent use, a Runner serializes access when driven live.
type Engine struct {
	Grid     grid.Grid
	Rock     geology.RockField
	PVT      PVT
	RelPerm  relperm.Model
	Time     float64 // days
	Steps    int
	Balance  MaterialBalance
	TimeStep *TimeStepController
	Logger   *slog.Logger

	cfg        Config
	gen        *geology.Generator
	wells      []Well
	state      [2]FluidState
	cur        int
	trans      *Transmissibility
	poreVolume []float64
	lambdaT    []float64
	pressure   *PressureSolver
	transport  *SaturationTransport
	sources    *WellSources
	last       stepSummary
	ready      bool
}

type stepSummary struct {
	dt    float64
	solve SolveReport
	res   TransportResult
}

// NewEngine builds and initializes an engine. Geology is drawn from gen, or
// from a generator seeded with cfg.Seed when gen is nil.
func NewEngine(cfg Config, gen *geology.Generator) (c *Engine, err error) {
	c = &Engine{
		Logger: slog.Default(),
		gen:    gen,
	}
	if c.RelPerm, err = relperm.New("corey"); err != nil {
		return
	}
	if err = c.Reinitialize(cfg); err != nil {
		return nil, err
	}
	return
}

// Reinitialize discards all state and rebuilds the engine from cfg. A non
// zero cfg.Seed reseeds the geology so the same config gives the same rock.
func (c *Engine) Reinitialize(cfg Config) (err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	cfg = cfg.normalized()
	if c.gen == nil || cfg.Seed != 0 {
		c.gen = geology.NewGenerator(cfg.Seed)
	}
	if c.Grid, err = cfg.Grid(); err != nil {
		return
	}
	N := c.Grid.N()
	c.state[0] = NewFluidState(N, cfg.InitialPressure, cfg.InitialSw)
	c.state[1] = NewFluidState(N, cfg.InitialPressure, cfg.InitialSw)
	c.cur = 0
	if c.Rock, err = c.gen.Generate(cfg.Nx, cfg.Ny, cfg.Permeability, cfg.Porosity, cfg.GeoModel); err != nil {
		return
	}
	utils.IsNanPanic(c.Rock.K)
	utils.IsNanPanic(c.Rock.Phi)
	c.cfg = cfg
	c.PVT = cfg.PVT
	c.wells = cfg.Wells
	c.Time, c.Steps = 0, 0
	c.last = stepSummary{}
	c.Balance = NewMaterialBalance(OriginalOilInPlace(c.Grid, c.Rock.Phi, cfg.InitialSw, cfg.PVT.Bo))
	c.TimeStep = NewTimeStepController(cfg.Dt)
	c.poreVolume = make([]float64, N)
	for k, phi := range c.Rock.Phi {
		c.poreVolume[k] = c.Grid.CellVolume() * phi
	}
	c.lambdaT = make([]float64, N)
	c.trans = NewTransmissibility(c.Grid, c.Rock.K)
	c.pressure = NewPressureSolver(c.trans)
	c.transport = &SaturationTransport{
		Trans:      c.trans,
		PoreVolume: c.poreVolume,
		RelPerm:    c.RelPerm,
	}
	c.sources = NewWellSources(N)
	c.ready = true
	c.Logger.Info("engine initialized",
		"nx", cfg.Nx, "ny", cfg.Ny, "geology", cfg.GeoModel.String(), "seed", c.gen.Seed,
		"wells", len(c.wells), "ooip", c.Balance.OOIP)
	return
}

// Reset rebuilds the engine from the configuration it was last given
func (c *Engine) Reset() error {
	return c.Reinitialize(c.cfg)
}

// Config returns the configuration in effect, including the current wells
func (c *Engine) Config() (cfg Config) {
	cfg = c.cfg
	cfg.PVT = c.PVT
	cfg.Wells = c.Wells()
	return
}

// State is the current time level. The slices belong to the engine.
func (c *Engine) State() FluidState { return c.state[c.cur] }

func (c *Engine) Wells() []Well { return append([]Well(nil), c.wells...) }

// Step advances the reservoir by one adaptive time step
func (c *Engine) Step() (snap Snapshot) {
	if !c.ready {
		panic(fmt.Errorf("engine is not initialized, construct it with NewEngine"))
	}
	var (
		dt   = c.TimeStep.Begin()
		prev = c.state[c.cur]
		next = c.state[1-c.cur]
	)
	c.sources.Map(c.Grid, c.wells, c.PVT)
	for k, sw := range prev.Sw {
		c.lambdaT[k] = relperm.TotalMobility(c.RelPerm, sw, c.PVT.MuW, c.PVT.MuO)
	}
	copy(next.P, prev.P)
	c.pressure.Assemble(c.trans, c.lambdaT, c.poreVolume, c.PVT.Ct, dt, prev.P, c.sources.Q)
	solve := c.pressure.Solve(next.P)
	if !solve.Converged {
		c.Logger.Warn("pressure solve did not converge",
			"step", c.Steps+1, "sweeps", solve.Iterations, "max_update", solve.MaxUpdate,
			"residual", solve.Residual)
	}
	res := c.transport.Advance(next.P, prev.Sw, next.Sw, c.sources, c.PVT, dt)
	c.Balance.Record(res, dt)
	c.cur = 1 - c.cur
	c.Time += dt
	c.Steps++
	c.TimeStep.Adapt(res.MaxDeltaSw)
	c.last = stepSummary{dt: dt, solve: solve, res: res}
	c.Logger.Debug("step",
		"step", c.Steps, "time", c.Time, "dt", dt, "sweeps", solve.Iterations,
		"max_dsw", res.MaxDeltaSw, "invaded_cells", utils.Count(next.Sw, utils.Greater, c.cfg.InitialSw))
	return c.Snapshot()
}

// Snapshot copies the current state, later steps do not change it
func (c *Engine) Snapshot() (snap Snapshot) {
	if !c.ready {
		panic(fmt.Errorf("engine is not initialized, construct it with NewEngine"))
	}
	fs := c.state[c.cur].Copy()
	snap = Snapshot{
		Pressure:       fs.P,
		Saturation:     fs.Sw,
		Time:           c.Time,
		RecoveryFactor: c.Balance.RecoveryFactor(),
		Step:           c.Steps,
		Dt:             c.last.dt,
		NextDt:         c.TimeStep.Dt,
		AvgPressure:    utils.Mean(fs.P),
		AvgSw:          utils.Mean(fs.Sw),
		OilRate:        c.last.res.OilRate,
		WaterRate:      c.last.res.WaterProd,
		InjectionRate:  c.last.res.WaterInj,
		CumulativeOil:  c.Balance.CumulativeOil,
		OOIP:           c.Balance.OOIP,
		MaxDeltaSw:     c.last.res.MaxDeltaSw,
		Solve:          c.last.solve,
	}
	if total := snap.OilRate + snap.WaterRate; total > 0 {
		snap.WaterCut = snap.WaterRate / total
	}
	return
}

// ApplyConfig moves the engine to cfg between steps. A change of grid,
// geology pattern or seed rebuilds everything and reset is true. Otherwise
// the rock averages, fluid properties and wells are updated in place and a
// changed dt replaces the adapted one, keeping pressure, saturation, time
// and cumulative production.
func (c *Engine) ApplyConfig(cfg Config) (reset bool, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	next := cfg.normalized()
	if !c.ready || c.cfg.needsReset(next) {
		return true, c.Reinitialize(cfg)
	}
	if next.Dt != c.cfg.Dt {
		c.TimeStep.Set(next.Dt)
	}
	c.PVT = next.PVT
	c.wells = next.Wells
	c.cfg = next
	c.Logger.Debug("configuration updated", "wells", len(c.wells), "dt", c.TimeStep.Dt)
	return
}

// SetWells replaces the well list, a later well at an occupied cell wins
func (c *Engine) SetWells(wells []Well) {
	c.wells = NormalizeWells(wells)
	c.cfg.Wells = c.wells
}

// PlaceWell adds w or replaces the well already at its cell
func (c *Engine) PlaceWell(w Well) error {
	if !c.Grid.InBounds(w.I, w.J) {
		return fmt.Errorf("well at (%d,%d) is outside the %dx%d grid", w.I, w.J, c.Grid.Nx, c.Grid.Ny)
	}
	c.SetWells(PlaceWell(c.wells, w))
	return nil
}

func (c *Engine) RemoveWell(i, j int) (found bool) {
	var wells []Well
	if wells, found = RemoveWell(c.wells, i, j); found {
		c.SetWells(wells)
	}
	return
}

func (c *Engine) SetWellRate(i, j int, rate float64) (found bool) {
	var wells []Well
	if wells, found = SetWellRate(c.wells, i, j, rate); found {
		c.SetWells(wells)
	}
	return
}

func (c *Engine) SetPVT(pvt PVT) (err error) {
	if err = pvt.Validate(); err != nil {
		return
	}
	c.PVT = pvt
	c.cfg.PVT = pvt
	return
}

func (c *Engine) SetDt(dt float64) {
	c.TimeStep.Set(dt)
	c.cfg.Dt = c.TimeStep.Dt
}

// SetRockAverages records new field averages for the next reinitialization,
// the current rock field is left as generated
func (c *Engine) SetRockAverages(perm, poro float64) {
	c.cfg.Permeability = perm
	c.cfg.Porosity = poro
	c.cfg = c.cfg.normalized()
}
