package engine

import (
	"time"

	"github.com/nextmv-io/go-highs"
	"github.com/nextmv-io/go-mip"
)

// HighsSolver is the production Solver, built directly on go-mip/go-highs
// (the direct-construction idiom from knapsack-gosdk/main.go, not the
// model/MultiMap idiom order-fulfillment-gosdk uses).
type HighsSolver struct {
	model     mip.Model
	vars      []highsVar
	timeLimit time.Duration
	relGap    float64
}

type highsVar struct {
	continuous bool
	b          mip.Bool
	f          mip.Float
}

// NewHighsSolver builds an empty go-mip model.
func NewHighsSolver() *HighsSolver {
	return &HighsSolver{model: mip.NewModel()}
}

// AddBinaryVar implements Solver.
func (s *HighsSolver) AddBinaryVar() Var {
	s.vars = append(s.vars, highsVar{b: s.model.NewBool()})
	return Var(len(s.vars) - 1)
}

// AddContinuousVar implements Solver.
func (s *HighsSolver) AddContinuousVar(lo, hi float64) Var {
	s.vars = append(s.vars, highsVar{continuous: true, f: s.model.NewFloat(lo, hi)})
	return Var(len(s.vars) - 1)
}

func (s *HighsSolver) addTerm(c mip.Constraint, t Term) {
	v := s.vars[t.Var]
	if v.continuous {
		c.NewTerm(t.Coefficient, v.f)
		return
	}
	c.NewTerm(t.Coefficient, v.b)
}

// AddLinearConstraint implements Solver.
func (s *HighsSolver) AddLinearConstraint(sense Sense, rhs float64, terms ...Term) {
	var op mip.ConstraintSense
	switch sense {
	case LessThanOrEqual:
		op = mip.LessThanOrEqual
	case GreaterThanOrEqual:
		op = mip.GreaterThanOrEqual
	default:
		op = mip.Equal
	}
	c := s.model.NewConstraint(op, rhs)
	for _, t := range terms {
		s.addTerm(c, t)
	}
}

// SetObjective implements Solver.
func (s *HighsSolver) SetObjective(maximize bool, terms ...Term) {
	obj := s.model.Objective()
	if maximize {
		obj.SetMaximize()
	} else {
		obj.SetMinimize()
	}
	for _, t := range terms {
		v := s.vars[t.Var]
		if v.continuous {
			obj.NewTerm(t.Coefficient, v.f)
			continue
		}
		obj.NewTerm(t.Coefficient, v.b)
	}
}

// SetTimeLimit implements Solver.
func (s *HighsSolver) SetTimeLimit(d time.Duration) { s.timeLimit = d }

// SetRelativeGap implements Solver.
func (s *HighsSolver) SetRelativeGap(gap float64) { s.relGap = gap }

// Optimize implements Solver.
func (s *HighsSolver) Optimize() (Solution, error) {
	solver := highs.NewSolver(s.model)
	opts := mip.SolveOptions{}
	opts.Duration = s.timeLimit
	opts.MIP.Gap.Relative = s.relGap
	opts.Verbosity = mip.Off

	sol, err := solver.Solve(opts)
	if err != nil {
		return nil, err
	}
	return &highsSolution{sol: sol, vars: s.vars}, nil
}

type highsSolution struct {
	sol  mip.Solution
	vars []highsVar
}

func (s *highsSolution) Status() Status {
	if s.sol.IsOptimal() {
		return StatusOptimal
	}
	if s.sol.IsSubOptimal() {
		return StatusSubOptimal
	}
	return StatusInfeasible
}

func (s *highsSolution) Value(v Var) float64 {
	vr := s.vars[v]
	if vr.continuous {
		return s.sol.Value(vr.f)
	}
	return s.sol.Value(vr.b)
}

func (s *highsSolution) ObjectiveValue() float64 {
	return s.sol.ObjectiveValue()
}
