package BlackOil2D

// DefaultHistoryCapacity bounds the number of retained samples
const DefaultHistoryCapacity = 500

// Sample is the scalar part of a snapshot, retained for charts
type Sample struct {
	Step               int
	Time, Dt           float64
	AvgPressure, AvgSw float64
	RecoveryFactor     float64
	OilRate, WaterCut  float64
	CumulativeOil      float64
	SolveSweeps        int
	SolveConverged     bool
}

func NewSample(s Snapshot) Sample {
	return Sample{
		Step:           s.Step,
		Time:           s.Time,
		Dt:             s.Dt,
		AvgPressure:    s.AvgPressure,
		AvgSw:          s.AvgSw,
		RecoveryFactor: s.RecoveryFactor,
		OilRate:        s.OilRate,
		WaterCut:       s.WaterCut,
		CumulativeOil:  s.CumulativeOil,
		SolveSweeps:    s.Solve.Iterations,
		SolveConverged: s.Solve.Converged,
	}
}

// History keeps the most recent Capacity samples, oldest first
type History struct {
	Capacity int
	samples  []Sample
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		Capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

func (h *History) Add(s Sample) {
	if len(h.samples) == h.Capacity {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}
	h.samples = append(h.samples, s)
}

func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy, oldest first
func (h *History) Samples() []Sample { return append([]Sample(nil), h.samples...) }

func (h *History) Last() (s Sample, ok bool) {
	if len(h.samples) == 0 {
		return
	}
	return h.samples[len(h.samples)-1], true
}

func (h *History) Reset() { h.samples = h.samples[:0] }
