package classify

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisurvey/soilreport/internal/grading"
)

func omConfig(t *testing.T) *grading.AttrConfig {
	t.Helper()
	cfg := grading.Jiangsu().Attr("OM")
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestClassify_OrganicMatterExamples(t *testing.T) {
	cfg := omConfig(t)

	tests := []struct {
		value float64
		grade string
		ok    bool
	}{
		{25, "3级", true},
		{40, "2级", true}, // exact threshold belongs to the lower grade
		{41, "1级", true},
		{10, "5级", true},
		{0.0001, "5级", true},
		{1e9, "1级", true}, // +Inf tail catches everything
		{0, "", false},
		{-5, "", false},
		{math.NaN(), "", false},
	}
	for _, tt := range tests {
		grade, ok := Classify(tt.value, cfg)
		assert.Equal(t, tt.ok, ok, "value %v", tt.value)
		assert.Equal(t, tt.grade, grade, "value %v", tt.value)
	}
}

func TestClassify_NilConfig(t *testing.T) {
	_, ok := Classify(10, nil)
	assert.False(t, ok)
}

func TestClassify_OrderPreserving(t *testing.T) {
	std := grading.Jiangsu()

	// JHXYJZL grades forward (larger value, larger grade number); OM grades
	// in reverse. In both cases classification must be monotone in the value.
	for _, tc := range []struct {
		key     string
		reverse bool
	}{
		{"JHXYJZL", false},
		{"OM", true},
	} {
		cfg := std.Attr(tc.key)
		require.NotNil(t, cfg, tc.key)

		prevRank := 0
		for v := 0.5; v < 60; v += 0.5 {
			grade, ok := Classify(v, cfg)
			require.True(t, ok)
			rank := cfg.Rank(grade)
			require.GreaterOrEqual(t, rank, 1)
			if prevRank != 0 {
				if tc.reverse {
					assert.LessOrEqual(t, rank, prevRank, "%s value %v", tc.key, v)
				} else {
					assert.GreaterOrEqual(t, rank, prevRank, "%s value %v", tc.key, v)
				}
			}
			prevRank = rank
		}
	}
}

func TestClassifyColumn_MatchesScalar(t *testing.T) {
	std := grading.Jiangsu()
	rng := rand.New(rand.NewSource(42))

	for _, key := range []string{"OM", "ph", "AP", "EK"} {
		cfg := std.Attr(key)
		require.NotNil(t, cfg, key)

		values := make([]float64, 5000)
		for i := range values {
			switch i % 10 {
			case 0:
				values[i] = math.NaN()
			case 1:
				values[i] = -rng.Float64() * 10
			case 2:
				// exact thresholds must agree between both paths
				lvls := cfg.Levels
				values[i] = lvls[rng.Intn(len(lvls)-1)].Threshold
			default:
				values[i] = rng.Float64() * 50
			}
		}

		batch := ClassifyColumn(values, cfg)
		require.Len(t, batch, len(values))
		for i, v := range values {
			grade, ok := Classify(v, cfg)
			if !ok {
				assert.Equal(t, "", batch[i], "%s idx %d value %v", key, i, v)
				continue
			}
			assert.Equal(t, grade, batch[i], "%s idx %d value %v", key, i, v)
		}
	}
}

func TestClassifyColumn_EmptyAndNil(t *testing.T) {
	cfg := omConfig(t)
	assert.Empty(t, ClassifyColumn(nil, cfg))
	assert.Equal(t, []string{"", ""}, ClassifyColumn([]float64{1, 2}, nil))
}

func TestClassify_ExactThresholdsAllAttributes(t *testing.T) {
	// For every attribute in the standard, a value exactly on threshold i
	// must classify to level i, not i+1.
	std := grading.Jiangsu()
	for key, cfg := range std.Attributes {
		for i, lvl := range cfg.Levels {
			if math.IsInf(lvl.Threshold, 1) || lvl.Threshold <= 0 {
				continue
			}
			grade, ok := Classify(lvl.Threshold, cfg)
			require.True(t, ok, "%s level %d", key, i)
			assert.Equal(t, lvl.Grade, grade, "%s threshold %v", key, lvl.Threshold)
		}
	}
}
