package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix with a sparsity pattern fixed at
// construction. Only the stored values change afterwards, so a system with a
// constant stencil can be refilled every time step without reallocating.
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
	diag     []int // Position of the diagonal entry within Data for each row, -1 if absent
}

// NewCSRPattern builds an nr x nc matrix with explicit storage for the
// column indices in rows[i] of each row i. All values start at zero.
func NewCSRPattern(nr, nc int, rows [][]int) (R CSR) {
	if len(rows) != nr {
		panic(fmt.Errorf("pattern has %d rows, matrix has %d", len(rows), nr))
	}
	var (
		indptr = make([]int, nr+1)
		nnz    int
	)
	for i, cols := range rows {
		nnz += len(cols)
		indptr[i+1] = nnz
	}
	var (
		ind  = make([]int, 0, nnz)
		data = make([]float64, nnz)
		diag = make([]int, nr)
	)
	for i, cols := range rows {
		sorted := append([]int(nil), cols...)
		sort.Ints(sorted)
		diag[i] = -1
		for n, j := range sorted {
			if j < 0 || j >= nc {
				panic(fmt.Errorf("column index %d out of bounds in row %d", j, i))
			}
			if n > 0 && sorted[n-1] == j {
				panic(fmt.Errorf("duplicate column index %d in row %d", j, i))
			}
			if j == i {
				diag[i] = indptr[i] + n
			}
			ind = append(ind, j)
		}
	}
	R = CSR{
		M:    sparse.NewCSR(nr, nc, indptr, ind, data),
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
		diag: diag,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

func (m CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

// Row returns views of the column indices and values stored for row i
func (m CSR) Row(i int) (cols []int, vals []float64) {
	raw := m.RawMatrix()
	b, e := raw.Indptr[i], raw.Indptr[i+1]
	return raw.Ind[b:e], raw.Data[b:e]
}

// DiagPos is the position of A[i][i] within Data, or -1 when it is not stored
func (m CSR) DiagPos(i int) int { return m.diag[i] }

// Pos is the position of A[i][j] within Data, or -1 when it is not stored
func (m CSR) Pos(i, j int) int {
	raw := m.RawMatrix()
	b, e := raw.Indptr[i], raw.Indptr[i+1]
	n := sort.SearchInts(raw.Ind[b:e], j)
	if b+n < e && raw.Ind[b+n] == j {
		return b + n
	}
	return -1
}

func (m CSR) Zero() {
	m.checkWritable()
	data := m.Data()
	for i := range data {
		data[i] = 0
	}
}

// AddAt accumulates val into A[i][j], which must be part of the pattern
func (m CSR) AddAt(i, j int, val float64) {
	m.checkWritable()
	pos := m.Pos(i, j)
	if i == j {
		pos = m.diag[i]
	}
	if pos < 0 {
		panic(fmt.Errorf("entry (%d,%d) is not in the sparsity pattern of \"%v\"", i, j, m.name))
	}
	m.Data()[pos] += val
}

// MulVec computes dst = A*x
func (m CSR) MulVec(x, dst []float64) {
	var (
		nr, nc = m.Dims()
		raw    = m.RawMatrix()
	)
	if len(x) != nc || len(dst) != nr {
		panic(fmt.Errorf("dimension mismatch: A is %dx%d, len(x) = %d, len(dst) = %d", nr, nc, len(x), len(dst)))
	}
	for i := 0; i < nr; i++ {
		var sum float64
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			sum += raw.Data[p] * x[raw.Ind[p]]
		}
		dst[i] = sum
	}
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
