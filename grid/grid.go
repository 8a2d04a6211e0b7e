package grid

import "fmt"

// Grid is a uniform Cartesian block of Nx x Ny cells, one cell thick.
// Cell (i, j) has linear index j*Nx + i.
type Grid struct {
	Nx, Ny     int
	Dx, Dy, Dz float64 // Cell extents, ft
}

func NewGrid(nx, ny int, dx, dy, dz float64) (g Grid, err error) {
	if nx <= 0 || ny <= 0 {
		err = fmt.Errorf("grid dimensions must be positive, have nx = %d, ny = %d", nx, ny)
		return
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		err = fmt.Errorf("cell extents must be positive, have dx = %v, dy = %v, dz = %v", dx, dy, dz)
		return
	}
	g = Grid{Nx: nx, Ny: ny, Dx: dx, Dy: dy, Dz: dz}
	return
}

// N is the total cell count
func (g Grid) N() int { return g.Nx * g.Ny }

func (g Grid) Index(i, j int) int { return j*g.Nx + i }

func (g Grid) IJ(k int) (i, j int) {
	j = k / g.Nx
	i = k - j*g.Nx
	return
}

func (g Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.Nx && j >= 0 && j < g.Ny
}

func (g Grid) CellVolume() float64 { return g.Dx * g.Dy * g.Dz }

// Connection is the face shared by a cell and one of its axis aligned neighbors.
type Connection struct {
	Neighbor   int
	Area, Dist float64
}

// Neighbors fills conn with the existing neighbors of (i, j) in West, East,
// South, North order and returns how many there are. Missing neighbors at the
// boundary are simply omitted, which is a no-flow boundary.
func (g Grid) Neighbors(i, j int, conn *[4]Connection) (n int) {
	var (
		areaX = g.Dy * g.Dz
		areaY = g.Dx * g.Dz
	)
	if i > 0 {
		conn[n] = Connection{Neighbor: g.Index(i-1, j), Area: areaX, Dist: g.Dx}
		n++
	}
	if i < g.Nx-1 {
		conn[n] = Connection{Neighbor: g.Index(i+1, j), Area: areaX, Dist: g.Dx}
		n++
	}
	if j > 0 {
		conn[n] = Connection{Neighbor: g.Index(i, j-1), Area: areaY, Dist: g.Dy}
		n++
	}
	if j < g.Ny-1 {
		conn[n] = Connection{Neighbor: g.Index(i, j+1), Area: areaY, Dist: g.Dy}
		n++
	}
	return
}

// HarmonicEps keeps the harmonic average finite when both permeabilities vanish
const HarmonicEps = 1.e-10

// HarmonicPerm is the interface permeability between two cells, which keeps
// the flux continuous across a change in rock.
func HarmonicPerm(k1, k2 float64) float64 {
	return (2 * k1 * k2) / (k1 + k2 + HarmonicEps)
}
