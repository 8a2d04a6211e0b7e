package geology

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelNames(t *testing.T) {
	for name, m := range ModelNames {
		mm, err := NewModel(name)
		require.NoError(t, err)
		assert.Equal(t, m, mm)
		assert.Equal(t, name, m.String())
	}
	m, err := NewModel("")
	require.NoError(t, err)
	assert.Equal(t, Homogeneous, m)
	m, err = NewModel("Channel")
	require.NoError(t, err)
	assert.Equal(t, Channel, m)
	_, err = NewModel("karst")
	assert.Error(t, err)
	require.NoError(t, m.UnmarshalText([]byte("layered")))
	assert.Equal(t, Layered, m)
}

func TestHomogeneous(t *testing.T) {
	g := NewGenerator(1)
	rf, err := g.Generate(7, 5, 100, 0.2, Homogeneous)
	require.NoError(t, err)
	require.Len(t, rf.K, 35)
	require.Len(t, rf.Phi, 35)
	for k := range rf.K {
		assert.Equal(t, 100., rf.K[k])
		assert.Equal(t, 0.2, rf.Phi[k])
	}
}

func TestPatternsArePositive(t *testing.T) {
	for _, m := range []Model{Homogeneous, Layered, Channel, Random, Simplex} {
		g := NewGenerator(42)
		rf, err := g.Generate(20, 20, 100, 0.2, m)
		require.NoError(t, err)
		for k := range rf.K {
			assert.True(t, rf.K[k] > 0 && !math.IsInf(rf.K[k], 0), "model %s K[%d] = %v", m, k, rf.K[k])
			assert.True(t, rf.Phi[k] > 0 && rf.Phi[k] <= 1, "model %s Phi[%d] = %v", m, k, rf.Phi[k])
		}
	}
}

func TestLayered(t *testing.T) {
	g := NewGenerator(7)
	nx, ny := 6, 11
	rf, err := g.Generate(nx, ny, 100, 0.2, Layered)
	require.NoError(t, err)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			k := j*nx + i
			if j%5 == 0 {
				assert.True(t, rf.K[k] >= 400 && rf.K[k] < 600, "K = %v", rf.K[k])
			} else {
				assert.True(t, rf.K[k] >= 40 && rf.K[k] < 60, "K = %v", rf.K[k])
			}
			assert.True(t, rf.Phi[k] > 0.179 && rf.Phi[k] < 0.221)
		}
	}
}

func TestChannel(t *testing.T) {
	g := NewGenerator(7)
	nx, ny := 20, 20
	rf, err := g.Generate(nx, ny, 100, 0.2, Channel)
	require.NoError(t, err)
	for j := 0; j < ny; j++ {
		center := ChannelCenter(nx, j)
		for i := 0; i < nx; i++ {
			k := j*nx + i
			if math.Abs(float64(i)-center) < 3 {
				assert.Equal(t, 1000., rf.K[k])
				assert.InDelta(t, 0.24, rf.Phi[k], 1.e-12)
			} else {
				assert.InDelta(t, 10., rf.K[k], 1.e-12)
				assert.InDelta(t, 0.16, rf.Phi[k], 1.e-12)
			}
		}
	}
	// Row zero is centered at nx/2
	assert.Equal(t, 10., ChannelCenter(nx, 0))
	{ // Porosity is capped at one
		rf, err = g.Generate(nx, ny, 100, 0.9, Channel)
		require.NoError(t, err)
		assert.Equal(t, 1., rf.Phi[ny/2*nx+int(ChannelCenter(nx, ny/2))])
	}
}

func TestRandomIsLogNormal(t *testing.T) {
	g := NewGenerator(99)
	nx, ny := 100, 100
	rf, err := g.Generate(nx, ny, 100, 0.2, Random)
	require.NoError(t, err)
	var sum, sum2 float64
	for _, k := range rf.K {
		z := math.Log(k/100) / 0.5
		sum += z
		sum2 += z * z
	}
	N := float64(nx * ny)
	mean := sum / N
	variance := sum2/N - mean*mean
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.1)
	for _, phi := range rf.Phi {
		assert.True(t, phi > 0.169 && phi < 0.231)
	}
}

func TestSeededGeneratorIsReproducible(t *testing.T) {
	for _, m := range []Model{Layered, Random, Simplex} {
		rf1, err := NewGenerator(12345).Generate(10, 8, 100, 0.2, m)
		require.NoError(t, err)
		rf2, err := NewGenerator(12345).Generate(10, 8, 100, 0.2, m)
		require.NoError(t, err)
		assert.Equal(t, rf1, rf2)
		rf3, err := NewGenerator(54321).Generate(10, 8, 100, 0.2, m)
		require.NoError(t, err)
		assert.NotEqual(t, rf1.K, rf3.K)
	}
	{ // An injected source drives every draw
		src := rand.NewPCG(3, 4)
		rf1, _ := NewGeneratorFromSource(src).Generate(4, 4, 10, 0.1, Random)
		rf2, _ := NewGeneratorFromSource(rand.NewPCG(3, 4)).Generate(4, 4, 10, 0.1, Random)
		assert.Equal(t, rf1, rf2)
	}
	{ // A zero seed is replaced by a drawn one
		g := NewGenerator(0)
		assert.NotEqual(t, uint64(0), g.Seed)
	}
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(1)
	_, err := g.Generate(0, 5, 100, 0.2, Homogeneous)
	assert.Error(t, err)
	_, err = g.Generate(5, 5, -1, 0.2, Homogeneous)
	assert.Error(t, err)
	_, err = g.Generate(5, 5, 100, 0.2, Model(99))
	assert.Error(t, err)
}
