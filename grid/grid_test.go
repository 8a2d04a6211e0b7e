package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	{ // Test construction and indexing
		g, err := NewGrid(4, 3, 100, 50, 10)
		require.NoError(t, err)
		assert.Equal(t, 12, g.N())
		assert.Equal(t, 50000., g.CellVolume())
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				k := g.Index(i, j)
				assert.Equal(t, j*4+i, k)
				ii, jj := g.IJ(k)
				assert.Equal(t, [2]int{i, j}, [2]int{ii, jj})
			}
		}
		assert.True(t, g.InBounds(0, 0))
		assert.True(t, g.InBounds(3, 2))
		assert.False(t, g.InBounds(4, 0))
		assert.False(t, g.InBounds(0, -1))
	}
	{ // Test invalid dimensions
		_, err := NewGrid(0, 3, 1, 1, 1)
		assert.Error(t, err)
		_, err = NewGrid(3, 3, 1, 0, 1)
		assert.Error(t, err)
	}
}

func TestNeighbors(t *testing.T) {
	g, err := NewGrid(3, 3, 100, 50, 10)
	require.NoError(t, err)
	var conn [4]Connection
	{ // Corner cell has two neighbors, East then North
		n := g.Neighbors(0, 0, &conn)
		require.Equal(t, 2, n)
		assert.Equal(t, Connection{Neighbor: 1, Area: 50 * 10, Dist: 100}, conn[0])
		assert.Equal(t, Connection{Neighbor: 3, Area: 100 * 10, Dist: 50}, conn[1])
	}
	{ // Interior cell, West East South North
		n := g.Neighbors(1, 1, &conn)
		require.Equal(t, 4, n)
		assert.Equal(t, []int{3, 5, 1, 7},
			[]int{conn[0].Neighbor, conn[1].Neighbor, conn[2].Neighbor, conn[3].Neighbor})
	}
	{ // Edge cell
		n := g.Neighbors(2, 1, &conn)
		assert.Equal(t, 3, n)
	}
	{ // Single cell grid is isolated
		g1, _ := NewGrid(1, 1, 1, 1, 1)
		assert.Equal(t, 0, g1.Neighbors(0, 0, &conn))
	}
}

func TestHarmonicPerm(t *testing.T) {
	pairs := [][2]float64{{1, 1}, {100, 10}, {0.1, 5000}, {3.5, 3.5}, {250, 1}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		assert.Equal(t, HarmonicPerm(a, b), HarmonicPerm(b, a))
	}
	for _, a := range []float64{0.1, 1, 100, 1000} {
		assert.InDelta(t, a, HarmonicPerm(a, a), a*1.e-9)
	}
	// Dominated by the smaller value
	assert.Less(t, HarmonicPerm(1, 1000), 2.)
	assert.Equal(t, 0., HarmonicPerm(0, 0))
}
