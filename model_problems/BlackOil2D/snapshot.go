package BlackOil2D

// Snapshot is an independent copy of the engine output after a step
type Snapshot struct {
	Pressure       []float64 // psi, by cell
	Saturation     []float64 // Sw, by cell
	Time           float64   // days
	RecoveryFactor float64   // percent of OOIP
	Step           int
	Dt             float64 // Step size just taken, days
	NextDt         float64 // Step size the next step will start from, days
	AvgPressure    float64
	AvgSw          float64
	OilRate        float64 // STB/day
	WaterRate      float64 // Produced, STB/day
	InjectionRate  float64 // Injected, STB/day
	WaterCut       float64
	CumulativeOil  float64 // STB
	OOIP           float64 // STB
	MaxDeltaSw     float64
	Solve          SolveReport
}
