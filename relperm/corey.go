package relperm

import "github.com/notargets/resim/utils"

func init() {
	allocators["corey"] = func() Model { return NewCorey() }
}

// Corey power law curves on the normalised saturation
//
//	Swn = (Sw - Swirr) / (1 - Swirr - Sor)
//	krw = KrwEnd * Swn^Nw
//	kro = KroEnd * (1 - Swn)^No
//
// Outside the mobile range the curves take their limiting values: krw is 0 at
// or below Swirr and 1 at or above 1-Sor, kro is 1 at or below Swirr and 0 at
// or above 1-Sor.
type Corey struct {
	Swirr, Sor     float64 // Irreducible water and residual oil saturations
	KrwEnd, KroEnd float64
	Nw, No         int
}

func NewCorey() *Corey {
	return &Corey{
		Swirr:  0.2,
		Sor:    0.2,
		KrwEnd: 0.3,
		KroEnd: 0.8,
		Nw:     2,
		No:     2,
	}
}

func (c *Corey) Name() string { return "corey" }

func (c *Corey) normalized(sw float64) float64 {
	return (sw - c.Swirr) / (1 - c.Swirr - c.Sor)
}

func (c *Corey) Krw(sw float64) float64 {
	switch {
	case sw <= c.Swirr:
		return 0
	case sw >= 1-c.Sor:
		return 1
	}
	return c.KrwEnd * utils.POW(c.normalized(sw), c.Nw)
}

func (c *Corey) Kro(sw float64) float64 {
	switch {
	case sw <= c.Swirr:
		return 1
	case sw >= 1-c.Sor:
		return 0
	}
	return c.KroEnd * utils.POW(1-c.normalized(sw), c.No)
}
