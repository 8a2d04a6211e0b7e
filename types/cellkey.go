package types

import (
	"fmt"
	"math"
)

/*
CellKey packs the (i, j) coordinates of a grid cell into one comparable value,
used to key per-cell objects like wells by location independent of the grid size.
*/
type CellKey uint64

func NewCellKey(i, j int) (packed CellKey) {
	var (
		limit = math.MaxUint32
	)
	if i < 0 || i > limit || j < 0 || j > limit {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs", i, j))
	}
	packed = CellKey(uint64(j)<<32 + uint64(i))
	return
}

func (ck CellKey) IJ() (i, j int) {
	var (
		jBits = ck >> 32
		iBits = ck - jBits<<32
	)
	i, j = int(iBits), int(jBits)
	return
}

func (ck CellKey) String() string {
	i, j := ck.IJ()
	return fmt.Sprintf("(%d,%d)", i, j)
}
