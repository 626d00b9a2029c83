package solveengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udp-timetabling/scheduler-core/internal/solveengine"
)

func TestInMemoryModel_SatisfiesAtMostOneAndExactlyOne(t *testing.T) {
	m := solveengine.NewInMemoryModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")

	// at most one of {a, b}
	m.AddLinear(solveengine.LinearConstraint{
		Terms: []solveengine.Term{{Var: a, Coeff: 1}, {Var: b, Coeff: 1}},
		Op:    solveengine.OpLE,
		Bound: 1,
	})
	// exactly one of {a, b}
	m.AddLinear(solveengine.LinearConstraint{
		Terms: []solveengine.Term{{Var: a, Coeff: 1}, {Var: b, Coeff: 1}},
		Op:    solveengine.OpGE,
		Bound: 1,
	})

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 2})
	require.NoError(t, err)
	assert.Equal(t, solveengine.StatusOptimal, result.Status)
	assert.Equal(t, int64(1), m.Value(a)+m.Value(b))
}

func TestInMemoryModel_DetectsInfeasibility(t *testing.T) {
	m := solveengine.NewInMemoryModel()
	a := m.NewBoolVar("a")

	m.AddLinear(solveengine.LinearConstraint{
		Terms: []solveengine.Term{{Var: a, Coeff: 1}},
		Op:    solveengine.OpGE,
		Bound: 1,
	})
	m.AddLinear(solveengine.LinearConstraint{
		Terms: []solveengine.Term{{Var: a, Coeff: 1}},
		Op:    solveengine.OpLE,
		Bound: 0,
	})

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 2})
	require.NoError(t, err)
	assert.Equal(t, solveengine.StatusInfeasible, result.Status)
}

func TestInMemoryModel_EqualityLinksTwoVars(t *testing.T) {
	m := solveengine.NewInMemoryModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddEquality(a, b)
	m.AddLinear(solveengine.LinearConstraint{
		Terms: []solveengine.Term{{Var: a, Coeff: 1}},
		Op:    solveengine.OpGE,
		Bound: 1,
	})

	result, err := m.Solve(context.Background(), solveengine.SolveParams{TimeLimitSeconds: 2})
	require.NoError(t, err)
	assert.Equal(t, solveengine.StatusOptimal, result.Status)
	assert.Equal(t, m.Value(a), m.Value(b))
}
