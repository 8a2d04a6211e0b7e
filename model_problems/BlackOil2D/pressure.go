package BlackOil2D

import (
	"fmt"
	"math"

	"github.com/notargets/resim/utils"
)

const (
	DefaultOmega     = 1.2   // SOR relaxation factor
	DefaultMaxSweeps = 50    // Gauss-Seidel sweeps per step
	DefaultTolerance = 1.e-3 // psi, on the largest update of a sweep
	DiagTol          = 1.e-15
)

// SolveReport describes how a pressure solve ended
type SolveReport struct {
	Iterations int     // Sweeps performed
	MaxUpdate  float64 // Largest pressure change in the last sweep, psi
	Residual   float64 // Max norm of b - A*p after the last sweep
	Converged  bool
}

func (sr SolveReport) String() string {
	return fmt.Sprintf("sweeps = %d, max update = %8.5g, residual = %8.5g, converged = %v",
		sr.Iterations, sr.MaxUpdate, sr.Residual, sr.Converged)
}

// PressureSolver assembles the implicit pressure equation on the 5-point
// pattern and relaxes it in place with SOR.
//
//	(Vp*ct/dt + sum T*lt) p_i - sum T*lt p_nb = Vp*ct/dt p_i_old + q_i
//
// The total mobility lt is taken from the cell being solved for, at the
// saturation from the start of the step.
type PressureSolver struct {
	Omega     float64
	MaxSweeps int
	Tolerance float64
	A         utils.CSR
	B         []float64
	r         []float64
}

func NewPressureSolver(tr *Transmissibility) (ps *PressureSolver) {
	N := len(tr.Faces)
	ps = &PressureSolver{
		Omega:     DefaultOmega,
		MaxSweeps: DefaultMaxSweeps,
		Tolerance: DefaultTolerance,
		A:         utils.NewCSRPattern(N, N, tr.Pattern()),
		B:         make([]float64, N),
		r:         make([]float64, N),
	}
	return
}

// Assemble fills A and B for one step
func (ps *PressureSolver) Assemble(tr *Transmissibility, lambdaT, poreVolume []float64,
	ct, dt float64, pOld, q []float64) {
	ps.A.Zero()
	for k, faces := range tr.Faces {
		acc := poreVolume[k] * ct / dt
		ps.A.AddAt(k, k, acc)
		for _, f := range faces {
			tl := f.T * lambdaT[k]
			ps.A.AddAt(k, k, tl)
			ps.A.AddAt(k, f.Neighbor, -tl)
		}
		ps.B[k] = acc*pOld[k] + q[k]
	}
}

// Solve relaxes p toward the solution of A*p = B. p carries the starting
// guess in and the result out. Updated values are used as soon as they are
// produced within a sweep. A row with a vanishing diagonal keeps its value.
func (ps *PressureSolver) Solve(p []float64) (sr SolveReport) {
	var (
		data = ps.A.Data()
		w    = ps.Omega
	)
	for sr.Iterations < ps.MaxSweeps {
		sr.Iterations++
		sr.MaxUpdate = 0
		for k := range p {
			var (
				cols, vals = ps.A.Row(k)
				diag       = data[ps.A.DiagPos(k)]
				sum        = ps.B[k]
			)
			if math.Abs(diag) < DiagTol {
				continue
			}
			for n, col := range cols {
				if col != k {
					sum -= vals[n] * p[col]
				}
			}
			pNew := (1-w)*p[k] + w*sum/diag
			sr.MaxUpdate = math.Max(sr.MaxUpdate, math.Abs(pNew-p[k]))
			p[k] = pNew
		}
		if sr.MaxUpdate < ps.Tolerance {
			sr.Converged = true
			break
		}
	}
	ps.A.MulVec(p, ps.r)
	for k := range ps.r {
		ps.r[k] = ps.B[k] - ps.r[k]
	}
	sr.Residual = utils.NormInf(ps.r)
	return
}
