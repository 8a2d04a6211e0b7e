package utils

// EPS is the small additive guard used in denominators that may vanish
const EPS = 1.e-10

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// Count returns the number of entries of v satisfying "v[i] op target"
func Count(v []float64, op EvalOp, target float64) (n int) {
	for _, val := range v {
		var hit bool
		switch op {
		case Equal:
			hit = val == target
		case Less:
			hit = val < target
		case Greater:
			hit = val > target
		case LessOrEqual:
			hit = val <= target
		case GreaterOrEqual:
			hit = val >= target
		}
		if hit {
			n++
		}
	}
	return
}
