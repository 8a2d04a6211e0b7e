package InputParameters

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"go.uber.org/multierr"

	"github.com/notargets/resim/geology"
	"github.com/notargets/resim/model_problems/BlackOil2D"
)

// Parameters obtained from the YAML scenario file. Keys not present in the
// file keep the defaults set by NewInputParameters.
type InputParameters struct {
	Title           string            `json:"Title"`
	Nx              int               `json:"Nx"`
	Ny              int               `json:"Ny"`
	Dx              float64           `json:"Dx"`
	Dy              float64           `json:"Dy"`
	Dz              float64           `json:"Dz"`
	Permeability    float64           `json:"Permeability"`
	Porosity        float64           `json:"Porosity"`
	GeoModel        geology.Model     `json:"GeoModel"`
	Seed            uint64            `json:"Seed"` // Zero draws a fresh seed each run
	MuO             float64           `json:"MuO"`
	MuW             float64           `json:"MuW"`
	Ct              float64           `json:"Ct"`
	Bo              float64           `json:"Bo"`
	Bw              float64           `json:"Bw"`
	InitialPressure float64           `json:"InitialPressure"`
	InitialSw       float64           `json:"InitialSw"`
	Dt              float64           `json:"Dt"`
	Wells           []BlackOil2D.Well `json:"Wells"`
	FinalTime       float64           `json:"FinalTime"` // days, zero runs until MaxSteps
	MaxSteps        int               `json:"MaxSteps"`  // zero runs until FinalTime
}

func NewInputParameters() (ip *InputParameters) {
	cfg := BlackOil2D.DefaultConfig()
	ip = &InputParameters{
		Title:           "Five spot quarter",
		Nx:              cfg.Nx,
		Ny:              cfg.Ny,
		Dx:              cfg.Dx,
		Dy:              cfg.Dy,
		Dz:              cfg.Dz,
		Permeability:    cfg.Permeability,
		Porosity:        cfg.Porosity,
		GeoModel:        cfg.GeoModel,
		MuO:             cfg.PVT.MuO,
		MuW:             cfg.PVT.MuW,
		Ct:              cfg.PVT.Ct,
		Bo:              cfg.PVT.Bo,
		Bw:              cfg.PVT.Bw,
		InitialPressure: cfg.InitialPressure,
		InitialSw:       cfg.InitialSw,
		Dt:              cfg.Dt,
		Wells:           cfg.Wells,
		FinalTime:       365,
	}
	return
}

// ReadFile parses a scenario file over the defaults
func ReadFile(path string) (ip *InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = NewInputParameters()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	return
}

// Parse overlays data on ip. A Wells key replaces the whole well list.
func (ip *InputParameters) Parse(data []byte) (err error) {
	wells := ip.Wells
	ip.Wells = nil
	if err = yaml.Unmarshal(data, ip); err != nil {
		ip.Wells = wells
		return
	}
	if ip.Wells == nil {
		ip.Wells = wells
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t\t= Grid\n", ip.Nx, ip.Ny)
	fmt.Printf("[%g, %g, %g]\t\t= Dx, Dy, Dz (ft)\n", ip.Dx, ip.Dy, ip.Dz)
	fmt.Printf("%8.5g\t\t= Permeability (mD)\n", ip.Permeability)
	fmt.Printf("%8.5g\t\t= Porosity\n", ip.Porosity)
	fmt.Printf("[%s]\t\t= Geology, Seed = %d\n", ip.GeoModel, ip.Seed)
	fmt.Printf("[%g, %g]\t\t\t= MuO, MuW (cp)\n", ip.MuO, ip.MuW)
	fmt.Printf("[%g, %g]\t\t= Bo, Bw\n", ip.Bo, ip.Bw)
	fmt.Printf("%8.5g\t\t= Ct (1/psi)\n", ip.Ct)
	fmt.Printf("%8.5g\t\t= Initial Pressure (psi)\n", ip.InitialPressure)
	fmt.Printf("%8.5f\t\t= Initial Sw\n", ip.InitialSw)
	fmt.Printf("%8.5f\t\t= Dt (days)\n", ip.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime (days)\n", ip.FinalTime)
	fmt.Printf("[%d]\t\t\t\t= MaxSteps\n", ip.MaxSteps)
	for n, w := range ip.Wells {
		fmt.Printf("Wells[%d] = %s at (%d,%d), %g STB/day\n", n, w.Type, w.I, w.J, w.Rate)
	}
}

func (ip *InputParameters) ToConfig() (cfg BlackOil2D.Config) {
	cfg = BlackOil2D.Config{
		Nx:           ip.Nx,
		Ny:           ip.Ny,
		Dx:           ip.Dx,
		Dy:           ip.Dy,
		Dz:           ip.Dz,
		Permeability: ip.Permeability,
		Porosity:     ip.Porosity,
		GeoModel:     ip.GeoModel,
		Seed:         ip.Seed,
		PVT: BlackOil2D.PVT{
			MuO: ip.MuO,
			MuW: ip.MuW,
			Ct:  ip.Ct,
			Bo:  ip.Bo,
			Bw:  ip.Bw,
		},
		InitialPressure: ip.InitialPressure,
		InitialSw:       ip.InitialSw,
		Dt:              ip.Dt,
		Wells:           append([]BlackOil2D.Well(nil), ip.Wells...),
	}
	return
}

// Validate reports every problem with the scenario at once
func (ip *InputParameters) Validate() (err error) {
	err = ip.ToConfig().Validate()
	if ip.FinalTime < 0 {
		err = multierr.Append(err, fmt.Errorf("FinalTime must not be negative, have %v", ip.FinalTime))
	}
	if ip.MaxSteps < 0 {
		err = multierr.Append(err, fmt.Errorf("MaxSteps must not be negative, have %d", ip.MaxSteps))
	}
	if ip.FinalTime == 0 && ip.MaxSteps == 0 {
		err = multierr.Append(err, fmt.Errorf("one of FinalTime or MaxSteps must be set"))
	}
	return
}

// Example renders the default scenario as YAML
func Example() (data []byte, err error) {
	return yaml.Marshal(NewInputParameters())
}
