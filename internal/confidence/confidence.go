// Package confidence implements the uncertainty integrator (C8): it
// converts raw per-stage scores into labeled, explained
// ConfidenceAssessments, enforcing the system's one hard invariant —
// confidence may only decrease moving downstream, never increase (I4).
package confidence

import (
	"fmt"
	"strings"

	"github.com/quakecase/engine/internal/intervention"
	"github.com/quakecase/engine/internal/timeline"
)

// Label bands, per spec §4.7.
const (
	LabelHigh   = "High"
	LabelMedium = "Medium"
	LabelLow    = "Low"
)

// Assessment is the calibrated confidence attached to one projection or
// recommendation, with an explanation built from the drivers that shaped it.
type Assessment struct {
	Score       float64
	Label       string
	Explanation string
	Drivers     []string
}

func label(score float64) string {
	switch {
	case score >= 0.8:
		return LabelHigh
	case score >= 0.5:
		return LabelMedium
	default:
		return LabelLow
	}
}

// CalibrateProjections applies the three projection-calibration rules, in
// order, to every horizon projection.
func CalibrateProjections(projections map[string]timeline.Projection) map[string]Assessment {
	out := make(map[string]Assessment, len(projections))
	for label_, proj := range projections {
		out[label_] = assessProjection(proj)
	}
	return out
}

func assessProjection(proj timeline.Projection) Assessment {
	raw := proj.ConfidenceScore
	var drivers []string

	if proj.SupportingExperienceCount < 3 {
		if raw > 0.6 {
			raw = 0.6
		}
		drivers = append(drivers, "Sparse data (<3 cases)")
	}
	if raw < 0.4 {
		drivers = append(drivers, "Weak similarity matches")
	}
	if isSinglePointRange(proj.CasualtyRange) && proj.SupportingExperienceCount < 2 {
		raw *= 0.8
		drivers = append(drivers, "Single data point source")
	}

	raw = round2(raw)
	lbl := label(raw)
	return Assessment{
		Score:       raw,
		Label:       lbl,
		Explanation: explanation(lbl, raw, drivers, ". "),
		Drivers:     drivers,
	}
}

// isSinglePointRange reports whether a "min - max" range string has equal
// endpoints, meaning the horizon's casualty figure came from one source.
func isSinglePointRange(rangeStr string) bool {
	parts := strings.SplitN(rangeStr, " - ", 2)
	if len(parts) != 2 {
		return false
	}
	return parts[0] == parts[1]
}

// CalibrateInterventions applies the intervention-ceiling rule: no
// recommendation may exceed the strongest baseline projection's
// confidence, and low-support recommendations are further capped.
func CalibrateInterventions(recs []intervention.Recommendation, baseline map[string]Assessment) []AssessedRecommendation {
	ceiling, hasCeiling := maxScore(baseline)
	out := make([]AssessedRecommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, AssessedRecommendation{
			Recommendation: rec,
			Assessment:     assessIntervention(rec, ceiling, hasCeiling),
		})
	}
	return out
}

// AssessedRecommendation pairs a raw recommendation with its calibrated
// confidence.
type AssessedRecommendation struct {
	Recommendation intervention.Recommendation
	Assessment     Assessment
}

func maxScore(baseline map[string]Assessment) (float64, bool) {
	var max float64
	found := false
	for _, a := range baseline {
		if !found || a.Score > max {
			max = a.Score
			found = true
		}
	}
	return max, found
}

func assessIntervention(rec intervention.Recommendation, ceiling float64, hasCeiling bool) Assessment {
	raw := rec.ConfidenceScore
	var drivers []string

	if !hasCeiling {
		drivers = append(drivers, "No baseline projection")
		ceiling = 0.0
	}
	if raw > ceiling {
		raw = ceiling
		drivers = append(drivers, "Capped by baseline uncertainty")
	}
	if rec.SupportingExperienceCount < 2 {
		drivers = append(drivers, "Very low support for action")
		if raw > 0.4 {
			raw = 0.4
		}
	}

	raw = round2(raw)
	lbl := label(raw)
	return Assessment{
		Score:       raw,
		Label:       lbl,
		Explanation: explanation(lbl, raw, drivers, "; "),
		Drivers:     drivers,
	}
}

func explanation(lbl string, score float64, drivers []string, sep string) string {
	driverText := "adequate evidence"
	if len(drivers) > 0 {
		driverText = strings.Join(drivers, sep)
	}
	if sep == "; " {
		return fmt.Sprintf("Confidence is %s (%.2f). %s.", lbl, score, driverText)
	}
	return fmt.Sprintf("Confidence is %s (%.2f). Driven by: %s.", lbl, score, driverText)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
