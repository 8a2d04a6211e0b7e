package BlackOil2D

import (
	"github.com/notargets/resim/grid"
)

// Alpha converts Darcy flow to field units, bbl/(day cp) per mD ft psi
const Alpha = 0.001127

// Face is one cell connection with its rock and geometry transmissibility,
// Alpha * k_harm * area / dist. Phase mobilities are applied on top.
type Face struct {
	Neighbor int
	T        float64
}

// Transmissibility lists the faces of every cell in West, East, South, North
// order. The rock field is fixed for the life of an engine so this is built
// once per initialization.
type Transmissibility struct {
	Faces [][]Face
}

func NewTransmissibility(g grid.Grid, K []float64) (tr *Transmissibility) {
	var (
		conn [4]grid.Connection
	)
	tr = &Transmissibility{
		Faces: make([][]Face, g.N()),
	}
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			k := g.Index(i, j)
			n := g.Neighbors(i, j, &conn)
			faces := make([]Face, n)
			for f := 0; f < n; f++ {
				nb := conn[f].Neighbor
				kHarm := grid.HarmonicPerm(K[k], K[nb])
				faces[f] = Face{Neighbor: nb, T: Alpha * (kHarm * conn[f].Area / conn[f].Dist)}
			}
			tr.Faces[k] = faces
		}
	}
	return
}

// Pattern is the 5-point sparsity pattern, each cell and its neighbors
func (tr *Transmissibility) Pattern() (rows [][]int) {
	rows = make([][]int, len(tr.Faces))
	for k, faces := range tr.Faces {
		cols := make([]int, 0, len(faces)+1)
		cols = append(cols, k)
		for _, f := range faces {
			cols = append(cols, f.Neighbor)
		}
		rows[k] = cols
	}
	return
}
