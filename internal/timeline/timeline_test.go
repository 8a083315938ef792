package timeline

import (
	"testing"

	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitWithCasualties(phase situation.TimePhase, casualties float64) similarity.Result {
	outcomes := situation.Outcomes{Casualties: situation.NewNumeric(casualties, "t", situation.ConfidenceMedium)}
	return similarity.Result{
		Score: 0.9,
		Unit: situation.ExperienceUnit{
			Phase:              phase,
			Situation:          situation.EarthquakeSituation{EventIdentity: situation.EventIdentity{Phase: phase}},
			SubsequentOutcomes: &outcomes,
		},
	}
}

// TestSparseProjection is close to scenario S6: a single candidate in a
// horizon produces a "v - v" range and a count-bounded confidence.
func TestSparseProjection(t *testing.T) {
	cohort := []similarity.Result{unitWithCasualties(situation.T3Outcome, 500)}
	projections := Project(situation.T0Impact, cohort)

	proj := projections[Horizon24To48]
	require.Equal(t, "500 - 500", proj.CasualtyRange)
	assert.Equal(t, 1, proj.SupportingExperienceCount)
	assert.LessOrEqual(t, proj.ConfidenceScore, 0.9*(1.0/3.0)+0.0001)
}

func TestEmptyHorizonDefaults(t *testing.T) {
	projections := Project(situation.T1EarlyResponse, nil)
	proj := projections[Horizon0To12]
	assert.Equal(t, "unknown", proj.CasualtyTrend)
	assert.Equal(t, 0.0, proj.ConfidenceScore)
}

func TestCasualtyTrend(t *testing.T) {
	cohort := []similarity.Result{
		unitWithCasualties(situation.T3Outcome, 50),
		unitWithCasualties(situation.T3Outcome, 200),
		unitWithCasualties(situation.T3Outcome, 30),
	}
	projections := Project(situation.T0Impact, cohort)
	proj := projections[Horizon24To48]
	assert.Equal(t, "increasing", proj.CasualtyTrend)
	assert.Equal(t, "30 - 200", proj.CasualtyRange)
}
