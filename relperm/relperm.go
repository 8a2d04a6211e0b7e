// Package relperm implements saturation dependent relative permeability
// models for two phase oil/water flow.
package relperm

import (
	"fmt"
	"sort"
	"strings"
)

// Model maps water saturation to the relative permeability of each phase
type Model interface {
	Name() string
	Krw(sw float64) float64 // Krw returns water relative permeability
	Kro(sw float64) float64 // Kro returns oil relative permeability
}

// New returns the model registered under name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("relative permeability model %q is not available, have %v", name, Names())
	}
	return allocator(), nil
}

// Names lists the registered models
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// MobilityEps keeps the fractional flow finite when both phases are immobile
const MobilityEps = 1.e-10

// Mobilities returns the phase mobilities kr/mu at water saturation sw
func Mobilities(m Model, sw, muW, muO float64) (mw, mo float64) {
	mw = m.Krw(sw) / muW
	mo = m.Kro(sw) / muO
	return
}

// TotalMobility is the sum of both phase mobilities
func TotalMobility(m Model, sw, muW, muO float64) float64 {
	mw, mo := Mobilities(m, sw, muW, muO)
	return mw + mo
}

// FractionalFlow is the fraction of the total flowing stream that is water
func FractionalFlow(m Model, sw, muW, muO float64) (fw float64) {
	mw, mo := Mobilities(m, sw, muW, muO)
	fw = mw / (mw + mo + MobilityEps)
	return
}
