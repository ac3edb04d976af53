package refsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Staffjoy/mobius-assignment/internal/engine"
	"github.com/Staffjoy/mobius-assignment/internal/engine/refsolver"
)

func TestSolverPicksHigherObjectiveBinaryAssignment(t *testing.T) {
	s := refsolver.New()
	a := s.AddBinaryVar()
	b := s.AddBinaryVar()
	s.AddLinearConstraint(engine.LessThanOrEqual, 1.0,
		engine.Term{Coefficient: 1, Var: a},
		engine.Term{Coefficient: 1, Var: b},
	)
	s.SetObjective(true, engine.Term{Coefficient: 3, Var: a}, engine.Term{Coefficient: 5, Var: b})

	sol, err := s.Optimize()
	require.NoError(t, err)
	assert.Equal(t, engine.StatusOptimal, sol.Status())
	assert.Equal(t, 0.0, sol.Value(a))
	assert.Equal(t, 1.0, sol.Value(b))
	assert.Equal(t, 5.0, sol.ObjectiveValue())
}

func TestSolverReportsInfeasibleWhenConstraintsConflict(t *testing.T) {
	s := refsolver.New()
	a := s.AddBinaryVar()
	s.AddLinearConstraint(engine.Equal, 1.0, engine.Term{Coefficient: 1, Var: a})
	s.AddLinearConstraint(engine.Equal, 0.0, engine.Term{Coefficient: 1, Var: a})
	s.SetObjective(true, engine.Term{Coefficient: 1, Var: a})

	sol, err := s.Optimize()
	require.NoError(t, err)
	assert.Equal(t, engine.StatusInfeasible, sol.Status())
}

func TestSolverResolvesContinuousVarFromDefiningEquality(t *testing.T) {
	s := refsolver.New()
	a := s.AddBinaryVar()
	b := s.AddBinaryVar()
	sum := s.AddContinuousVar(0, 10)
	s.AddLinearConstraint(engine.Equal, 0.0,
		engine.Term{Coefficient: -1, Var: sum},
		engine.Term{Coefficient: 3, Var: a},
		engine.Term{Coefficient: 4, Var: b},
	)
	s.AddLinearConstraint(engine.GreaterThanOrEqual, 4.0, engine.Term{Coefficient: 1, Var: sum})
	s.SetObjective(true, engine.Term{Coefficient: 1, Var: sum})

	sol, err := s.Optimize()
	require.NoError(t, err)
	assert.Equal(t, engine.StatusOptimal, sol.Status())
	assert.Equal(t, 7.0, sol.Value(sum))
}

func TestSolverRejectsTooManyBinaryVars(t *testing.T) {
	s := refsolver.New()
	for i := 0; i <= refsolver.MaxBinaryVars; i++ {
		s.AddBinaryVar()
	}
	s.SetObjective(true)

	_, err := s.Optimize()
	assert.Error(t, err)
}
