package BlackOil2D

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/resim/geology"
	"github.com/notargets/resim/types"
)

func quietEngine(t *testing.T, cfg Config) (c *Engine) {
	var err error
	c, err = NewEngine(cfg, nil)
	require.NoError(t, err)
	c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return
}

func fiveByFive() (cfg Config) {
	cfg = DefaultConfig()
	cfg.Nx, cfg.Ny = 5, 5
	cfg.Wells = []Well{
		{I: 0, J: 0, Type: types.Injector, Rate: 100},
		{I: 4, J: 4, Type: types.Producer, Rate: 100},
	}
	return
}

func TestEngineInitialize(t *testing.T) {
	c := quietEngine(t, DefaultConfig())
	assert.Equal(t, 400, c.Grid.N())
	{ // Homogeneous rock carries the averages everywhere
		for k := range c.Rock.K {
			assert.Equal(t, 100., c.Rock.K[k])
			assert.Equal(t, 0.2, c.Rock.Phi[k])
		}
	}
	{ // Uniform initial state and the oil in place
		s := c.Snapshot()
		for k := range s.Pressure {
			assert.Equal(t, 3000., s.Pressure[k])
			assert.Equal(t, 0.2, s.Saturation[k])
		}
		ooip := 400 * 100 * 100 * 50 * 0.2 * 0.8 * CubicFeetToBarrels / 1.2
		assert.InDelta(t, ooip, s.OOIP, ooip*1.e-12)
		assert.Equal(t, 0., s.Time)
		assert.Equal(t, 0., s.RecoveryFactor)
	}
	{ // Averages are floored
		cfg := DefaultConfig()
		cfg.Permeability, cfg.Porosity = 0.001, 0.
		c = quietEngine(t, cfg)
		assert.Equal(t, MinPermeability, c.Rock.K[0])
		assert.Equal(t, MinPorosity, c.Rock.Phi[0])
	}
	{ // Bad configurations are rejected with every problem listed
		cfg := DefaultConfig()
		cfg.Nx = 0
		cfg.PVT.MuO = -1
		_, err := NewEngine(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grid dimensions")
		assert.Contains(t, err.Error(), "MuO")
	}
}

func TestEngineStepDeterminism(t *testing.T) {
	c := quietEngine(t, fiveByFive())
	s := c.Step()
	assert.Equal(t, 0.1, s.Time)
	assert.Equal(t, 0.1, s.Dt)
	assert.Equal(t, 1, s.Step)
	// Water is immobile at the initial saturation so only the well moves it
	assert.InDelta(t, 0.2+1.e-4, s.Saturation[0], 1.e-12)
	assert.GreaterOrEqual(t, s.Saturation[0], 0.2)
	assert.LessOrEqual(t, s.Saturation[24], 0.2)
	// The producer sees no water so all of its rate is oil
	assert.InDelta(t, 100., s.OilRate, 1.e-9)
	assert.InDelta(t, 10., s.CumulativeOil, 1.e-9)
	assert.Equal(t, 0., s.WaterCut)
	assert.True(t, s.Solve.Converged)
	assert.Greater(t, s.RecoveryFactor, 0.)
	{ // Pressure rises at the injector and falls at the producer
		assert.Greater(t, s.Pressure[0], 3000.)
		assert.Less(t, s.Pressure[24], 3000.)
	}
	{ // The same configuration gives the same answer
		c2 := quietEngine(t, fiveByFive())
		assert.Equal(t, s, c2.Step())
	}
}

func TestEngineInvariants(t *testing.T) {
	for _, m := range []geology.Model{geology.Homogeneous, geology.Layered, geology.Channel, geology.Random, geology.Simplex} {
		cfg := DefaultConfig()
		cfg.GeoModel = m
		cfg.Seed = 11
		c := quietEngine(t, cfg)
		var cum, rf float64
		for n := 0; n < 40; n++ {
			s := c.Step()
			for k, sw := range s.Saturation {
				require.True(t, sw >= 0 && sw <= 1, "model %s step %d Sw[%d] = %v", m, n, k, sw)
			}
			assert.GreaterOrEqual(t, s.CumulativeOil, cum)
			assert.GreaterOrEqual(t, s.RecoveryFactor, rf)
			assert.True(t, s.NextDt >= MinDt && s.NextDt <= MaxDt)
			assert.LessOrEqual(t, s.Dt, StepDtCap)
			cum, rf = s.CumulativeOil, s.RecoveryFactor
		}
		assert.Greater(t, cum, 0.)
	}
}

func TestEngineNoWellsHoldsPressure(t *testing.T) {
	for _, m := range []geology.Model{geology.Homogeneous, geology.Random} {
		cfg := DefaultConfig()
		cfg.Nx, cfg.Ny = 8, 6
		cfg.GeoModel = m
		cfg.Seed = 5
		cfg.Wells = nil
		c := quietEngine(t, cfg)
		var s Snapshot
		for n := 0; n < 10; n++ {
			s = c.Step()
		}
		var sum float64
		for _, p := range s.Pressure {
			sum += p - cfg.InitialPressure
		}
		assert.InDelta(t, 0, sum, 1.e-6)
		assert.Equal(t, 0., s.CumulativeOil)
		assert.Equal(t, 0., s.MaxDeltaSw)
	}
}

func TestEngineAdaptiveDt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nx, cfg.Ny = 5, 5
	cfg.Dx, cfg.Dy, cfg.Dz = 10, 10, 1
	cfg.Wells = []Well{{I: 2, J: 2, Type: types.Injector, Rate: 500}}
	c := quietEngine(t, cfg)
	{ // A large saturation change halves dt
		s := c.Step()
		assert.Greater(t, s.MaxDeltaSw, ShrinkAbove)
		assert.Equal(t, 0.1, s.Dt)
		assert.Equal(t, 0.05, s.NextDt)
		assert.Equal(t, 1., s.Saturation[12])
	}
	{ // Every later step follows the same rule and stays within bounds
		for n := 0; n < 30; n++ {
			s := c.Step()
			expect := s.Dt
			switch {
			case s.MaxDeltaSw > ShrinkAbove:
				expect *= ShrinkFactor
			case s.MaxDeltaSw < GrowBelow:
				expect *= GrowFactor
			}
			expect = math.Min(math.Max(expect, MinDt), MaxDt)
			assert.InDelta(t, expect, s.NextDt, 1.e-15)
			assert.True(t, s.NextDt >= MinDt && s.NextDt <= MaxDt)
		}
	}
	{ // Quiet steps grow dt, each step is capped before it is taken
		cfg = DefaultConfig()
		cfg.Wells = nil
		cfg.Dt = 10
		c = quietEngine(t, cfg)
		s := c.Step()
		assert.Equal(t, StepDtCap, s.Dt)
		assert.InDelta(t, 6., s.NextDt, 1.e-12)
		s = c.Step()
		assert.Equal(t, StepDtCap, s.Dt)
		assert.Equal(t, 10., s.Time)
	}
}

func TestEngineSnapshotIsACopy(t *testing.T) {
	c := quietEngine(t, fiveByFive())
	s := c.Step()
	s.Pressure[3] = -1
	s.Saturation[3] = 7
	s2 := c.Snapshot()
	assert.NotEqual(t, -1., s2.Pressure[3])
	assert.NotEqual(t, 7., s2.Saturation[3])
	assert.NotEqual(t, -1., c.State().P[3])
}

func TestEngineZeroOOIP(t *testing.T) {
	cfg := fiveByFive()
	cfg.InitialSw = 1
	c := quietEngine(t, cfg)
	s := c.Step()
	assert.Equal(t, 0., s.OOIP)
	assert.Equal(t, 0., s.RecoveryFactor)
	assert.False(t, math.IsNaN(s.RecoveryFactor))
}

func TestEngineApplyConfig(t *testing.T) {
	c := quietEngine(t, DefaultConfig())
	for n := 0; n < 3; n++ {
		c.Step()
	}
	time, cum := c.Time, c.Balance.CumulativeOil
	{ // Parameter changes keep the state
		cfg := c.Config()
		cfg.PVT.MuO = 5
		cfg.Permeability = 250
		cfg.Wells = append(cfg.Wells, Well{I: 0, J: 19, Type: types.Producer, Rate: 50})
		reset, err := c.ApplyConfig(cfg)
		require.NoError(t, err)
		assert.False(t, reset)
		assert.Equal(t, time, c.Time)
		assert.Equal(t, cum, c.Balance.CumulativeOil)
		assert.Equal(t, 5., c.PVT.MuO)
		assert.Len(t, c.Wells(), 3)
		assert.Equal(t, 100., c.Rock.K[0])
	}
	{ // An unchanged dt leaves the adapted one alone
		dt := c.TimeStep.Dt
		cfg := c.Config()
		cfg.PVT.MuW = 0.8
		_, err := c.ApplyConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, dt, c.TimeStep.Dt)
		cfg.Dt = 0.5
		_, err = c.ApplyConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.5, c.TimeStep.Dt)
	}
	{ // A grid change rebuilds everything, with the new averages
		cfg := c.Config()
		cfg.Nx = 10
		cfg.Wells = []Well{{I: 1, J: 1, Type: types.Injector, Rate: 10}}
		reset, err := c.ApplyConfig(cfg)
		require.NoError(t, err)
		assert.True(t, reset)
		assert.Equal(t, 0., c.Time)
		assert.Equal(t, 0, c.Steps)
		assert.Equal(t, 0., c.Balance.CumulativeOil)
		assert.Equal(t, 200, c.Grid.N())
		assert.Len(t, c.State().P, 200)
		assert.Equal(t, 250., c.Rock.K[0])
	}
	{ // A geology change also rebuilds
		cfg := c.Config()
		cfg.GeoModel = geology.Channel
		reset, err := c.ApplyConfig(cfg)
		require.NoError(t, err)
		assert.True(t, reset)
	}
	{ // Rejected configurations leave the engine as it was
		cfg := c.Config()
		cfg.Ny = -3
		_, err := c.ApplyConfig(cfg)
		assert.Error(t, err)
		assert.Equal(t, 200, c.Grid.N())
	}
}

func TestEngineHotUpdates(t *testing.T) {
	c := quietEngine(t, DefaultConfig())
	require.NoError(t, c.PlaceWell(Well{I: 4, J: 4, Type: types.Producer, Rate: 20}))
	wells := c.Wells()
	require.Len(t, wells, 2)
	assert.Equal(t, types.Producer, wells[0].Type)
	assert.Error(t, c.PlaceWell(Well{I: 20, J: 0}))
	assert.True(t, c.SetWellRate(15, 15, 75))
	assert.Equal(t, 75., c.Wells()[1].Rate)
	assert.True(t, c.RemoveWell(4, 4))
	assert.False(t, c.RemoveWell(4, 4))
	assert.Len(t, c.Wells(), 1)
	c.SetDt(100)
	assert.Equal(t, MaxDt, c.TimeStep.Dt)
	assert.Error(t, c.SetPVT(PVT{}))
	c.SetRockAverages(0, 0.3)
	assert.Equal(t, MinPermeability, c.Config().Permeability)
	{ // The stored averages take effect at the next reset
		require.NoError(t, c.Reset())
		assert.Equal(t, MinPermeability, c.Rock.K[0])
		assert.Equal(t, 0.3, c.Rock.Phi[0])
		assert.Len(t, c.Wells(), 1)
	}
}

func TestEngineSeededGeology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GeoModel = geology.Random
	cfg.Seed = 2024
	c1 := quietEngine(t, cfg)
	c2 := quietEngine(t, cfg)
	assert.Equal(t, c1.Rock, c2.Rock)
	{ // Resetting with the same seed regenerates the same rock
		rock := c1.Rock.Copy()
		c1.Step()
		require.NoError(t, c1.Reset())
		assert.Equal(t, rock, c1.Rock)
	}
	{ // An injected generator is used when no seed is given
		cfg.Seed = 0
		c3, err := NewEngine(cfg, geology.NewGenerator(2024))
		require.NoError(t, err)
		assert.Equal(t, c2.Rock, c3.Rock)
	}
}

func TestEngineUninitialized(t *testing.T) {
	var c Engine
	assert.Panics(t, func() { c.Step() })
	assert.Panics(t, func() { c.Snapshot() })
}
