package confidence

import (
	"testing"

	"github.com/quakecase/engine/internal/intervention"
	"github.com/quakecase/engine/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfidenceCap is scenario S5: baseline projection calibrated to
// 0.3, raw intervention confidence 0.95 -> final <= 0.30 with the capped
// driver present.
func TestConfidenceCap(t *testing.T) {
	baseline := map[string]Assessment{
		timeline.Horizon0To12: {Score: 0.3, Label: LabelLow},
	}
	rec := intervention.Recommendation{ConfidenceScore: 0.95, SupportingExperienceCount: 5}

	assessed := CalibrateInterventions([]intervention.Recommendation{rec}, baseline)
	require.Len(t, assessed, 1)
	assert.LessOrEqual(t, assessed[0].Assessment.Score, 0.30)
	assert.Contains(t, assessed[0].Assessment.Drivers, "Capped by baseline uncertainty")
}

// TestSparseProjectionCalibration is scenario S6: single-candidate
// horizon with casualty range "500 - 500" -> confidence <= 0.48 with both
// sparse-data and single-data-point drivers.
func TestSparseProjectionCalibration(t *testing.T) {
	proj := timeline.Projection{
		HorizonLabel:               timeline.Horizon24To48,
		CasualtyRange:              "500 - 500",
		ConfidenceScore:            0.9,
		SupportingExperienceCount: 1,
	}
	assessed := assessProjection(proj)
	assert.LessOrEqual(t, assessed.Score, 0.48)
	assert.Contains(t, assessed.Drivers, "Sparse data (<3 cases)")
	assert.Contains(t, assessed.Drivers, "Single data point source")
}

func TestMonotonicInvariant(t *testing.T) {
	baseline := map[string]Assessment{timeline.Horizon0To12: {Score: 0.7}}
	rec := intervention.Recommendation{ConfidenceScore: 0.5, SupportingExperienceCount: 5}
	assessed := CalibrateInterventions([]intervention.Recommendation{rec}, baseline)
	assert.LessOrEqual(t, assessed[0].Assessment.Score, 0.7)
}
