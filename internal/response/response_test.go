package response

import (
	"testing"

	"github.com/quakecase/engine/internal/confidence"
	"github.com/quakecase/engine/internal/intervention"
	"github.com/quakecase/engine/internal/situation"
	"github.com/quakecase/engine/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBuildsKnownsAndUnknowns(t *testing.T) {
	query := situation.EarthquakeSituation{
		EventIdentity: situation.EventIdentity{
			EventID:   situation.NewString("e1", "t", situation.ConfidenceMedium),
			Magnitude: situation.NewNumeric(7.2, "t", situation.ConfidenceMedium),
		},
	}
	projections := map[string]timeline.Projection{
		timeline.Horizon0To12: {HorizonLabel: timeline.Horizon0To12, CasualtyTrend: "stabilizing", CasualtyRange: "10 - 20"},
	}
	projConf := map[string]confidence.Assessment{
		timeline.Horizon0To12: {Score: 0.7, Label: confidence.LabelMedium},
	}

	out := Format(query, projections, projConf, nil, 4)
	assert.Contains(t, out.SituationSummary.KnownFacts, "Magnitude 7.2")
	assert.Contains(t, out.SituationSummary.ExplicitUnknowns, "Region")
	require.Len(t, out.BaselineProjections, 1)
	assert.False(t, ContainsForbiddenLanguage(out.BaselineProjections[0].Trend))
}

func TestOverviewUsesMinimumConfidence(t *testing.T) {
	projConf := map[string]confidence.Assessment{
		timeline.Horizon0To12:  {Score: 0.9, Label: confidence.LabelHigh},
		timeline.Horizon12To24: {Score: 0.3, Label: confidence.LabelLow, Drivers: []string{"Sparse data (<3 cases)"}},
	}
	recs := []confidence.AssessedRecommendation{
		{Recommendation: intervention.Recommendation{ActionName: "evacuation"}, Assessment: confidence.Assessment{Score: 0.3}},
	}
	out := Format(situation.EarthquakeSituation{}, nil, projConf, recs, 2)
	assert.Equal(t, confidence.LabelLow, out.ConfidenceOverview.OverallLevel)
	assert.Contains(t, out.ConfidenceOverview.Drivers, "Sparse data (<3 cases)")
	assert.Equal(t, []string{"Sparse data"}, out.ConfidenceOverview.RisksGaps)
}
