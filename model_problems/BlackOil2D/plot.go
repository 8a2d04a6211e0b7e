package BlackOil2D

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/notargets/resim/grid"
	"github.com/notargets/resim/types"
	"github.com/notargets/resim/utils"
)

type PlotField uint8

const (
	PressureField PlotField = iota
	SaturationField
)

func (pf PlotField) String() string {
	switch pf {
	case PressureField:
		return "pressure"
	case SaturationField:
		return "saturation"
	}
	return fmt.Sprintf("PlotField(%d)", uint8(pf))
}

func (pf PlotField) Units() string {
	if pf == PressureField {
		return "psi"
	}
	return "Sw"
}

// FieldRange is the color range for a field. Saturation is always [0, 1],
// pressure spans its finite values. A flat field is widened so the range
// never collapses.
func FieldRange(pf PlotField, data []float64) (lo, hi float64) {
	if pf == SaturationField {
		return 0, 1
	}
	fs := utils.Stats(data)
	lo, hi = fs.Min, fs.Max
	if hi-lo < utils.EPS*math.Max(1, math.Abs(lo)) {
		lo, hi = lo-0.5, hi+0.5
	}
	return
}

// NormalizeForDisplay maps data onto [0, 1] over [lo, hi]. Non finite values
// are shown as the minimum.
func NormalizeForDisplay(data []float64, lo, hi float64) (out []float64) {
	out = make([]float64, len(data))
	span := hi - lo
	for k, v := range data {
		if !utils.IsFinite(v) || span <= 0 {
			continue
		}
		out[k] = utils.Clamp((v-lo)/span, 0, 1)
	}
	return
}

// fieldGrid presents a cell field as a plotter.GridXYZ at cell centers
type fieldGrid struct {
	g    grid.Grid
	data []float64
	lo   float64
}

func (f fieldGrid) Dims() (c, r int) { return f.g.Nx, f.g.Ny }
func (f fieldGrid) X(c int) float64  { return (float64(c) + 0.5) * f.g.Dx }
func (f fieldGrid) Y(r int) float64  { return (float64(r) + 0.5) * f.g.Dy }
func (f fieldGrid) Z(c, r int) float64 {
	if v := f.data[f.g.Index(c, r)]; utils.IsFinite(v) {
		return v
	}
	return f.lo
}

// WriteFieldPNG renders one field as a heat map with the wells marked,
// injectors in blue and producers in red
func WriteFieldPNG(path string, g grid.Grid, pf PlotField, data []float64, wells []Well, title string) (err error) {
	lo, hi := FieldRange(pf, data)
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (ft)"
	p.Y.Label.Text = "y (ft)"
	hm := plotter.NewHeatMap(fieldGrid{g: g, data: data, lo: lo}, moreland.Kindlmann().Palette(255))
	hm.Min, hm.Max = lo, hi
	hm.Underflow, hm.Overflow = color.Black, color.White
	p.Add(hm)
	for _, wt := range []types.WellType{types.Injector, types.Producer} {
		var pts plotter.XYs
		for _, w := range wells {
			if w.Type == wt && g.InBounds(w.I, w.J) {
				pts = append(pts, plotter.XY{X: (float64(w.I) + 0.5) * g.Dx, Y: (float64(w.J) + 0.5) * g.Dy})
			}
		}
		if len(pts) == 0 {
			continue
		}
		var sc *plotter.Scatter
		if sc, err = plotter.NewScatter(pts); err != nil {
			return
		}
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
		if wt == types.Producer {
			sc.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
		}
		p.Add(sc)
		p.Legend.Add(wt.String(), sc)
	}
	p.Legend.Top = true
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// WriteSnapshotPNGs writes the pressure and saturation maps of a snapshot
// into dir and returns the file names
func WriteSnapshotPNGs(dir string, g grid.Grid, s Snapshot, wells []Well) (files []string, err error) {
	for _, pf := range []PlotField{PressureField, SaturationField} {
		data := s.Pressure
		if pf == SaturationField {
			data = s.Saturation
		}
		name := filepath.Join(dir, fmt.Sprintf("%s_%06d.png", pf, s.Step))
		title := fmt.Sprintf("%s (%s), t = %.2f days", pf, pf.Units(), s.Time)
		if err = WriteFieldPNG(name, g, pf, data, wells, title); err != nil {
			return
		}
		files = append(files, name)
	}
	return
}

// WriteHistoryPNGs charts average pressure, average Sw and recovery factor
// against time into dir
func WriteHistoryPNGs(dir string, samples []Sample) (files []string, err error) {
	series := []struct {
		name, label string
		val         func(Sample) float64
	}{
		{"avg_pressure", "Average pressure (psi)", func(s Sample) float64 { return s.AvgPressure }},
		{"avg_sw", "Average Sw", func(s Sample) float64 { return s.AvgSw }},
		{"recovery", "Recovery factor (%)", func(s Sample) float64 { return s.RecoveryFactor }},
	}
	for _, sr := range series {
		pts := make(plotter.XYs, len(samples))
		for n, s := range samples {
			pts[n] = plotter.XY{X: s.Time, Y: sr.val(s)}
		}
		p := plot.New()
		p.Title.Text = sr.label
		p.X.Label.Text = "Time (days)"
		p.Y.Label.Text = sr.label
		var line *plotter.Line
		if line, err = plotter.NewLine(pts); err != nil {
			return
		}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line, plotter.NewGrid())
		name := filepath.Join(dir, sr.name+".png")
		if err = p.Save(8*vg.Inch, 4*vg.Inch, name); err != nil {
			return
		}
		files = append(files, name)
	}
	return
}
