package BlackOil2D

import (
	"math"

	"github.com/notargets/resim/grid"
	"github.com/notargets/resim/relperm"
	"github.com/notargets/resim/types"
)

// Well is a point source or sink. Rate is a surface rate magnitude in STB/day,
// its direction follows from the type.
type Well struct {
	I, J int
	Type types.WellType
	Rate float64
}

func (w Well) Key() types.CellKey { return types.NewCellKey(w.I, w.J) }

// NormalizeWells leaves at most one well per cell. A later well at an
// occupied cell replaces the earlier one in the earlier one's position.
// Negative rates become zero.
func NormalizeWells(wells []Well) (out []Well) {
	var (
		slot = make(map[types.CellKey]int, len(wells))
	)
	out = make([]Well, 0, len(wells))
	for _, w := range wells {
		w.Rate = math.Max(0, w.Rate)
		if w.I < 0 || w.J < 0 {
			out = append(out, w)
			continue
		}
		if n, ok := slot[w.Key()]; ok {
			out[n] = w
			continue
		}
		slot[w.Key()] = len(out)
		out = append(out, w)
	}
	return
}

// PlaceWell returns wells with w added, or replacing the well already at its cell
func PlaceWell(wells []Well, w Well) []Well {
	return NormalizeWells(append(append([]Well(nil), wells...), w))
}

// RemoveWell drops the well at (i, j), if any
func RemoveWell(wells []Well, i, j int) (out []Well, found bool) {
	out = make([]Well, 0, len(wells))
	for _, w := range wells {
		if w.I == i && w.J == j {
			found = true
			continue
		}
		out = append(out, w)
	}
	return
}

// SetWellRate changes the rate of the well at (i, j), if any
func SetWellRate(wells []Well, i, j int, rate float64) (out []Well, found bool) {
	out = append([]Well(nil), wells...)
	for n := range out {
		if out[n].I == i && out[n].J == j {
			out[n].Rate = math.Max(0, rate)
			found = true
		}
	}
	return
}

// WellSources maps a sparse well list onto the grid once per step
type WellSources struct {
	Q      []float64 // Pressure equation source by cell, rb/day, injection positive
	WellAt []int     // Index into Wells by cell, -1 where there is no well
	Wells  []Well
}

func NewWellSources(N int) (ws *WellSources) {
	ws = &WellSources{
		Q:      make([]float64, N),
		WellAt: make([]int, N),
	}
	return
}

// Map rebuilds the per cell maps. Injectors contribute rate*Bw, producers
// withdraw rate*(Bo+Bw)/2. Wells outside the grid are ignored.
func (ws *WellSources) Map(g grid.Grid, wells []Well, pvt PVT) {
	for k := range ws.Q {
		ws.Q[k] = 0
		ws.WellAt[k] = -1
	}
	ws.Wells = wells
	for n, w := range wells {
		if !g.InBounds(w.I, w.J) {
			continue
		}
		k := g.Index(w.I, w.J)
		ws.WellAt[k] = n
		switch w.Type {
		case types.Injector:
			ws.Q[k] = w.Rate * pvt.Bw
		case types.Producer:
			ws.Q[k] = -w.Rate * (pvt.Bo + pvt.Bw) * 0.5
		}
	}
}

// At returns the well occupying cell k
func (ws *WellSources) At(k int) (w Well, ok bool) {
	if n := ws.WellAt[k]; n >= 0 {
		return ws.Wells[n], true
	}
	return
}

// WellRates is the split of one well's stream at the current saturation
type WellRates struct {
	Water   float64 // Saturation equation source, rb/day, injection positive
	Oil     float64 // Produced oil, STB/day
	WaterIn float64 // Injected water, STB/day
	WaterPr float64 // Produced water, STB/day
}

// SaturationSource splits a well's stream using the fractional flow of the
// cell it sits in. Injectors add rate*Bw of water, producers withdraw
// rate*fw*Bw of water and rate*(1-fw) of oil.
func SaturationSource(w Well, sw float64, pvt PVT, m relperm.Model) (wr WellRates) {
	switch w.Type {
	case types.Injector:
		wr.Water = w.Rate * pvt.Bw
		wr.WaterIn = w.Rate
	case types.Producer:
		fw := relperm.FractionalFlow(m, sw, pvt.MuW, pvt.MuO)
		wr.Water = -w.Rate * fw * pvt.Bw
		wr.Oil = w.Rate * (1 - fw)
		wr.WaterPr = w.Rate * fw
	}
	return
}
