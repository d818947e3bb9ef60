package moisture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEvaluateDryBelow verifies the boundary under the default polarity:
// values below the threshold are dry, the threshold itself is wet.
func TestEvaluateDryBelow(t *testing.T) {
	t.Parallel()

	e := Evaluator{Threshold: 450, Polarity: DryBelow}

	require.Equal(t, Dry, e.Evaluate(0))
	require.Equal(t, Dry, e.Evaluate(300))
	require.Equal(t, Dry, e.Evaluate(449))
	require.Equal(t, Wet, e.Evaluate(450))
	require.Equal(t, Wet, e.Evaluate(451))
	require.Equal(t, Wet, e.Evaluate(1023))
}

// TestEvaluateDryAbove verifies the mirrored boundary: values above the
// threshold are dry, the threshold itself is wet.
func TestEvaluateDryAbove(t *testing.T) {
	t.Parallel()

	e := Evaluator{Threshold: 700, Polarity: DryAbove}

	require.Equal(t, Wet, e.Evaluate(0))
	require.Equal(t, Wet, e.Evaluate(699))
	require.Equal(t, Wet, e.Evaluate(700))
	require.Equal(t, Dry, e.Evaluate(701))
	require.Equal(t, Dry, e.Evaluate(1023))
}

// TestEvaluateIsPure verifies that repeated evaluations of the same value
// always yield the same state.
func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()

	e := Evaluator{Threshold: 450, Polarity: DryBelow}

	first := e.Evaluate(300)
	for range 100 {
		require.Equal(t, first, e.Evaluate(300))
	}
}

// TestPolarityValid checks the known polarity values.
func TestPolarityValid(t *testing.T) {
	t.Parallel()

	require.True(t, DryBelow.Valid())
	require.True(t, DryAbove.Valid())
	require.False(t, Polarity("sideways").Valid())
}

// TestTransitions verifies the drying and recovery edge detectors.
func TestTransitions(t *testing.T) {
	t.Parallel()

	require.True(t, Transition{From: Wet, To: Dry}.IsDrying())
	require.False(t, Transition{From: Dry, To: Dry}.IsDrying())
	require.False(t, Transition{From: Wet, To: Wet}.IsDrying())

	require.True(t, Transition{From: Dry, To: Wet}.IsWetting())
	require.False(t, Transition{From: Wet, To: Wet}.IsWetting())
	require.False(t, Transition{From: Dry, To: Dry}.IsWetting())
}
