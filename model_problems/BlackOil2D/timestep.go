package BlackOil2D

import (
	"math"

	"github.com/notargets/resim/utils"
)

const (
	MinDt        = 0.001 // days
	MaxDt        = 10.   // days
	StepDtCap    = 5.    // days, applied before each step
	ShrinkAbove  = 0.05  // max |dSw| above which dt is halved
	GrowBelow    = 0.01  // max |dSw| below which dt grows
	ShrinkFactor = 0.5
	GrowFactor   = 1.2
)

// TimeStepController adapts dt to the largest saturation change of the
// previous step
type TimeStepController struct {
	Dt                     float64
	MinDt, MaxDt, Cap      float64
	ShrinkAbove, GrowBelow float64
	Shrink, Grow           float64
}

func NewTimeStepController(dt float64) (ts *TimeStepController) {
	ts = &TimeStepController{
		MinDt:       MinDt,
		MaxDt:       MaxDt,
		Cap:         StepDtCap,
		ShrinkAbove: ShrinkAbove,
		GrowBelow:   GrowBelow,
		Shrink:      ShrinkFactor,
		Grow:        GrowFactor,
	}
	ts.Set(dt)
	return
}

// Set replaces dt, clamped to [MinDt, MaxDt]
func (ts *TimeStepController) Set(dt float64) {
	ts.Dt = utils.Clamp(dt, ts.MinDt, ts.MaxDt)
}

// Begin caps dt for the step about to be taken and returns it
func (ts *TimeStepController) Begin() (dt float64) {
	ts.Dt = math.Min(ts.Dt, ts.Cap)
	return ts.Dt
}

// Adapt sets dt for the next step from the max |dSw| just observed
func (ts *TimeStepController) Adapt(maxDeltaSw float64) (next float64) {
	switch {
	case maxDeltaSw > ts.ShrinkAbove:
		ts.Dt *= ts.Shrink
	case maxDeltaSw < ts.GrowBelow:
		ts.Dt *= ts.Grow
	}
	ts.Set(ts.Dt)
	return ts.Dt
}
