package BlackOil2D

import (
	"math"

	"github.com/notargets/resim/relperm"
	"github.com/notargets/resim/utils"
)

// PoreVolumeEps keeps the saturation update finite in cells with no pore space
const PoreVolumeEps = 1.e-10

// TransportResult summarizes one explicit saturation update
type TransportResult struct {
	MaxDeltaSw float64
	OilRate    float64 // STB/day, summed over producers
	WaterProd  float64 // STB/day, summed over producers
	WaterInj   float64 // STB/day, summed over injectors
}

// SaturationTransport moves water explicitly with single point upstream
// weighting of the water mobility, using the pressure from the implicit solve.
type SaturationTransport struct {
	Trans      *Transmissibility
	PoreVolume []float64
	RelPerm    relperm.Model
}

// Advance computes swNew from swOld over dt. Each face flux is
// T * mob_w(upstream) * (p_nb - p_i), where the neighbor is upstream when
// its pressure is higher. Saturations are clamped to [0, 1].
func (st *SaturationTransport) Advance(pNew, swOld, swNew []float64, src *WellSources,
	pvt PVT, dt float64) (res TransportResult) {
	for k, faces := range st.Trans.Faces {
		var flux float64
		for _, f := range faces {
			dP := pNew[f.Neighbor] - pNew[k]
			up := k
			if dP > 0 {
				up = f.Neighbor
			}
			mw, _ := relperm.Mobilities(st.RelPerm, swOld[up], pvt.MuW, pvt.MuO)
			flux += f.T * mw * dP
		}
		var source float64
		if w, ok := src.At(k); ok {
			wr := SaturationSource(w, swOld[k], pvt, st.RelPerm)
			source = wr.Water
			res.OilRate += wr.Oil
			res.WaterProd += wr.WaterPr
			res.WaterInj += wr.WaterIn
		}
		dSw := (flux + source) * dt / math.Max(st.PoreVolume[k], PoreVolumeEps)
		swNew[k] = utils.Clamp(swOld[k]+dSw, 0, 1)
		res.MaxDeltaSw = math.Max(res.MaxDeltaSw, math.Abs(dSw))
	}
	return
}
