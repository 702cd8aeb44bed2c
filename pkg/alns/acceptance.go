package alns

import "math"

// AcceptanceCriterion decides whether a candidate objective value should
// replace the current one, given the current objective, and updates its
// own internal state (e.g. a cooling temperature) for the next call.
type AcceptanceCriterion interface {
	Accept(currentObjective, candidateObjective float64, rng randFloat) bool
}

// randFloat is the minimal random source an AcceptanceCriterion needs;
// *math/rand.Rand satisfies it.
type randFloat interface {
	Float64() float64
}

// HillClimbing accepts a candidate only if it is no worse than the
// current objective.
type HillClimbing struct{}

func (HillClimbing) Accept(current, candidate float64, _ randFloat) bool {
	return candidate <= current
}

// CoolingMethod selects how SimulatedAnnealing's temperature decays.
type CoolingMethod int

const (
	Linear CoolingMethod = iota
	Exponential
)

// SimulatedAnnealing accepts worsening candidates with probability
// exp(-(candidate-current)/temperature), and cools its temperature by a
// fixed step after every call: temperature = max(end, temperature-step)
// for Linear, or max(end, step*temperature) for Exponential.
type SimulatedAnnealing struct {
	Temperature float64
	End         float64
	Step        float64
	Method      CoolingMethod
}

// NewSimulatedAnnealing creates a SimulatedAnnealing criterion starting
// at startTemperature.
func NewSimulatedAnnealing(startTemperature, endTemperature, step float64, method CoolingMethod) *SimulatedAnnealing {
	return &SimulatedAnnealing{Temperature: startTemperature, End: endTemperature, Step: step, Method: method}
}

func (sa *SimulatedAnnealing) Accept(current, candidate float64, rng randFloat) bool {
	accept := candidate <= current
	if !accept && sa.Temperature > 0 {
		delta := candidate - current
		accept = rng.Float64() < math.Exp(-delta/sa.Temperature)
	}

	switch sa.Method {
	case Linear:
		sa.Temperature = math.Max(sa.End, sa.Temperature-sa.Step)
	case Exponential:
		sa.Temperature = math.Max(sa.End, sa.Step*sa.Temperature)
	}

	return accept
}
