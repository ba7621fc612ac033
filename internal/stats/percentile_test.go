package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentiles_Empty(t *testing.T) {
	out := Percentiles(nil)
	assert.Empty(t, out)

	out = Percentiles([]float64{})
	assert.Empty(t, out)
}

func TestPercentiles_MonotoneNonDecreasing(t *testing.T) {
	values := []float64{5, 1, 9, 3, 7, 2, 8, 4, 6, 10, 2.5, 7.5}
	out := Percentiles(values)
	require.Len(t, out, len(ReportedPercentiles))

	labels := []string{"2%", "5%", "10%", "20%", "80%", "90%", "95%", "98%"}
	prev := out[labels[0]]
	for _, label := range labels[1:] {
		v, ok := out[label]
		require.True(t, ok, label)
		assert.GreaterOrEqual(t, v, prev, label)
		prev = v
	}
}

func TestPercentiles_SingleValue(t *testing.T) {
	out := Percentiles([]float64{42})
	for label, v := range out {
		assert.Equal(t, 42.0, v, label)
	}
}

func TestPercentiles_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentiles(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
