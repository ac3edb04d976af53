package engine

import "time"

// Sense is a linear constraint's comparison operator.
type Sense int

const (
	LessThanOrEqual Sense = iota
	GreaterThanOrEqual
	Equal
)

// Var is an opaque handle to a decision variable. Its meaning is private to
// the Solver that created it.
type Var int

// Term is one coefficient*variable addend of an objective or constraint.
type Term struct {
	Coefficient float64
	Var         Var
}

// Status is the outcome of one Optimize call.
type Status int

const (
	StatusInfeasible Status = iota
	StatusSubOptimal
	StatusOptimal
)

// Solution is a solved model's variable assignment.
type Solution interface {
	Status() Status
	Value(v Var) float64
	ObjectiveValue() float64
}

// Solver is the narrow MIP-building interface spec.md's REDESIGN FLAGS
// section asks for: {add_binary_var, add_integer_var, add_continuous_var,
// add_linear_constraint, add_sos1, set_objective, optimize, read_params,
// set_time_limit, status, value}, trimmed to what engine.go's calculate model
// formulation actually needs, so Engine can be exercised against a trivial
// reference solver in unit tests instead of the real HiGHS binary.
//
// add_integer_var and add_sos1 are not part of this interface: go-mip, the
// production backend, exposes no native integer variable or SOS1
// constraint, and calculate's model never needs either -- every quantity is
// either a 0/1 decision or a bounded continuous sum, and the day-active
// encoding substitutes a big-M linearization for the SOS1 constraint the
// reference Gurobi model uses. read_params has no counterpart either: the
// only solver-wide parameter this engine tunes besides the time limit is
// the relative MIP gap, exposed directly as SetRelativeGap.
type Solver interface {
	AddBinaryVar() Var
	AddContinuousVar(lo, hi float64) Var
	AddLinearConstraint(sense Sense, rhs float64, terms ...Term)
	SetObjective(maximize bool, terms ...Term)
	SetTimeLimit(d time.Duration)
	SetRelativeGap(gap float64)
	Optimize() (Solution, error)
}
