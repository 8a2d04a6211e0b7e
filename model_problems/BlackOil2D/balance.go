package BlackOil2D

import (
	"math"

	"github.com/notargets/resim/grid"
)

// CubicFeetToBarrels converts reservoir ft^3 to bbl
const CubicFeetToBarrels = 0.1781076

// OriginalOilInPlace is the stock tank oil initially in place, STB
func OriginalOilInPlace(g grid.Grid, phi []float64, initialSw, bo float64) (ooip float64) {
	vol := g.CellVolume()
	for _, p := range phi {
		ooip += vol * p * (1 - initialSw) * CubicFeetToBarrels / bo
	}
	return
}

// MaterialBalance accumulates the produced and injected volumes of a run
type MaterialBalance struct {
	OOIP                    float64 // STB
	CumulativeOil           float64 // STB
	CumulativeWaterProduced float64 // STB
	CumulativeWaterInjected float64 // STB
}

func NewMaterialBalance(ooip float64) MaterialBalance {
	return MaterialBalance{OOIP: ooip}
}

// Record adds one step's volumes, negative contributions are ignored so the
// cumulative totals never decrease
func (mb *MaterialBalance) Record(res TransportResult, dt float64) {
	mb.CumulativeOil += math.Max(0, res.OilRate*dt)
	mb.CumulativeWaterProduced += math.Max(0, res.WaterProd*dt)
	mb.CumulativeWaterInjected += math.Max(0, res.WaterInj*dt)
}

// RecoveryFactor is the percentage of OOIP produced, zero without oil in place
func (mb MaterialBalance) RecoveryFactor() float64 {
	if mb.OOIP == 0 {
		return 0
	}
	return mb.CumulativeOil / mb.OOIP * 100
}
