// Package refsolver is a brute-force implementation of engine.Solver, used
// only in tests so internal/engine's MIP encoding can be exercised without
// the real HiGHS binary, per spec.md's solver-abstraction design note.
//
// It enumerates every assignment of the model's binary variables and, for
// each one, resolves every continuous variable from the single equality
// constraint that defines it as a linear function of binaries -- the only
// way engine.go's calculate ever introduces a continuous variable. It is
// exponential in the number of binary variables and exists purely for the
// small instances unit tests build; Optimize refuses to run past a fixed
// variable-count ceiling rather than silently hanging.
package refsolver

import (
	"fmt"
	"math"
	"time"

	"github.com/Staffjoy/mobius-assignment/internal/engine"
)

// MaxBinaryVars bounds the brute-force search space. Production-sized
// models must use engine.NewHighsSolver instead.
const MaxBinaryVars = 24

type varBounds struct {
	lo, hi float64
}

type constraint struct {
	sense engine.Sense
	rhs   float64
	terms []engine.Term
}

// Solver is a brute-force engine.Solver.
type Solver struct {
	binary      []bool
	bounds      []varBounds
	constraints []constraint
	maximize    bool
	objTerms    []engine.Term
}

// New builds an empty Solver.
func New() *Solver {
	return &Solver{}
}

// AddBinaryVar implements engine.Solver.
func (s *Solver) AddBinaryVar() engine.Var {
	s.binary = append(s.binary, true)
	s.bounds = append(s.bounds, varBounds{0, 1})
	return engine.Var(len(s.binary) - 1)
}

// AddContinuousVar implements engine.Solver.
func (s *Solver) AddContinuousVar(lo, hi float64) engine.Var {
	s.binary = append(s.binary, false)
	s.bounds = append(s.bounds, varBounds{lo, hi})
	return engine.Var(len(s.binary) - 1)
}

// AddLinearConstraint implements engine.Solver.
func (s *Solver) AddLinearConstraint(sense engine.Sense, rhs float64, terms ...engine.Term) {
	s.constraints = append(s.constraints, constraint{
		sense: sense,
		rhs:   rhs,
		terms: append([]engine.Term(nil), terms...),
	})
}

// SetObjective implements engine.Solver.
func (s *Solver) SetObjective(maximize bool, terms ...engine.Term) {
	s.maximize = maximize
	s.objTerms = append([]engine.Term(nil), terms...)
}

// SetTimeLimit implements engine.Solver. Brute-force search has no clock to
// bound, so this is a no-op; MaxBinaryVars is the real backstop.
func (s *Solver) SetTimeLimit(time.Duration) {}

// SetRelativeGap implements engine.Solver. Brute force always finds the
// true optimum, so there is no gap to tolerate.
func (s *Solver) SetRelativeGap(float64) {}

// Optimize implements engine.Solver.
func (s *Solver) Optimize() (engine.Solution, error) {
	var binaryIdx []int
	for i, isBin := range s.binary {
		if isBin {
			binaryIdx = append(binaryIdx, i)
		}
	}
	if len(binaryIdx) > MaxBinaryVars {
		return nil, fmt.Errorf("refsolver: %d binary variables exceeds brute-force limit %d; use engine.NewHighsSolver for real instances", len(binaryIdx), MaxBinaryVars)
	}

	values := make([]float64, len(s.binary))
	best := make([]float64, len(s.binary))
	bestScore := 0.0
	found := false

	total := 1 << len(binaryIdx)
	for mask := 0; mask < total; mask++ {
		for bit, idx := range binaryIdx {
			if mask&(1<<bit) != 0 {
				values[idx] = 1
			} else {
				values[idx] = 0
			}
		}

		if !s.resolveContinuous(values) {
			continue
		}
		if !s.satisfiesAll(values) {
			continue
		}

		score := evaluate(s.objTerms, values)
		better := !found
		if found {
			if s.maximize {
				better = score > bestScore
			} else {
				better = score < bestScore
			}
		}
		if better {
			found = true
			bestScore = score
			copy(best, values)
		}
	}

	if !found {
		return refSolution{status: engine.StatusInfeasible}, nil
	}
	return refSolution{status: engine.StatusOptimal, values: best, objective: bestScore}, nil
}

// resolveContinuous fills in every continuous variable's value from the
// unique equality constraint defining it, checking the result against its
// declared bounds.
func (s *Solver) resolveContinuous(values []float64) bool {
	for i, isBin := range s.binary {
		if isBin {
			continue
		}
		val, ok := s.defineValue(engine.Var(i), values)
		if !ok {
			return false
		}
		b := s.bounds[i]
		if val < b.lo-1e-6 || val > b.hi+1e-6 {
			return false
		}
		values[i] = val
	}
	return true
}

func (s *Solver) defineValue(v engine.Var, values []float64) (float64, bool) {
	for _, c := range s.constraints {
		if c.sense != engine.Equal {
			continue
		}
		coef := 0.0
		found := false
		other := 0.0
		for _, t := range c.terms {
			if t.Var == v {
				coef = t.Coefficient
				found = true
				continue
			}
			other += t.Coefficient * values[t.Var]
		}
		if found && coef != 0 {
			return (c.rhs - other) / coef, true
		}
	}
	return 0, false
}

func (s *Solver) satisfiesAll(values []float64) bool {
	for _, c := range s.constraints {
		sum := evaluate(c.terms, values)
		switch c.sense {
		case engine.LessThanOrEqual:
			if sum > c.rhs+1e-6 {
				return false
			}
		case engine.GreaterThanOrEqual:
			if sum < c.rhs-1e-6 {
				return false
			}
		default:
			if math.Abs(sum-c.rhs) > 1e-6 {
				return false
			}
		}
	}
	return true
}

func evaluate(terms []engine.Term, values []float64) float64 {
	sum := 0.0
	for _, t := range terms {
		sum += t.Coefficient * values[t.Var]
	}
	return sum
}

type refSolution struct {
	status    engine.Status
	values    []float64
	objective float64
}

func (r refSolution) Status() engine.Status { return r.status }

func (r refSolution) Value(v engine.Var) float64 {
	if int(v) >= len(r.values) {
		return 0
	}
	return r.values[v]
}

func (r refSolution) ObjectiveValue() float64 { return r.objective }
