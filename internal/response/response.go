// Package response implements the response assembler (C9): it composes
// the five-section SystemResponse from the outputs of C5-C8 plus an
// optional advisory paragraph from C10.
package response

import (
	"fmt"

	"github.com/quakecase/engine/internal/confidence"
	"github.com/quakecase/engine/internal/situation"
	"github.com/quakecase/engine/internal/timeline"
)

// SituationSummary states only directly-known facts plus the explicit
// unknowns — no inference.
type SituationSummary struct {
	EventID         string
	Phase           string
	KnownFacts      []string
	ExplicitUnknowns []string
}

// FormattedProjection is the display form of one horizon's projection.
type FormattedProjection struct {
	Horizon         string
	Trend           string
	RangeDesc       string
	ConfidenceLabel string
	ConfidenceScore float64
}

// FormattedIntervention is the display form of one intervention option.
type FormattedIntervention struct {
	Action          string
	Window          string
	EffectDesc      string
	ConfidenceLabel string
	ConfidenceScore float64
	EvidenceCount   int
}

// EvidenceContext summarizes the cohort that backed this response.
type EvidenceContext struct {
	CohortSize       int
	DominantPatterns string
	Divergences      string
}

// ConfidenceOverview is the final, most-conservative confidence summary.
type ConfidenceOverview struct {
	OverallLevel string
	Drivers      []string
	RisksGaps    []string
}

// SystemResponse is the complete structured advisory.
type SystemResponse struct {
	SituationSummary   SituationSummary
	BaselineProjections []FormattedProjection
	InterventionOptions []FormattedIntervention
	EvidenceContext    EvidenceContext
	ConfidenceOverview ConfidenceOverview
	Narrative          string // optional, filled by C10's advisory-text call
}

// Format assembles the final SystemResponse. cohortSize is the number of
// reranked candidates that fed the projections/interventions.
func Format(
	query situation.EarthquakeSituation,
	projections map[string]timeline.Projection,
	projectionConfidence map[string]confidence.Assessment,
	interventions []confidence.AssessedRecommendation,
	cohortSize int,
) SystemResponse {
	summary := buildSummary(query)

	var baseline []FormattedProjection
	for _, label := range timeline.HorizonOrder {
		proj, ok := projections[label]
		if !ok {
			continue
		}
		assessed := projectionConfidence[label]
		baseline = append(baseline, FormattedProjection{
			Horizon:         label,
			Trend:           fmt.Sprintf("%s casualty trend observed", proj.CasualtyTrend),
			RangeDesc:       fmt.Sprintf("%s casualties (est)", proj.CasualtyRange),
			ConfidenceLabel: assessed.Label,
			ConfidenceScore: assessed.Score,
		})
	}

	var options []FormattedIntervention
	for _, rec := range interventions {
		options = append(options, FormattedIntervention{
			Action:          rec.Recommendation.ActionName,
			Window:          rec.Recommendation.SuggestedTimeWindow,
			EffectDesc:      rec.Recommendation.ComparativeEffect,
			ConfidenceLabel: rec.Assessment.Label,
			ConfidenceScore: rec.Assessment.Score,
			EvidenceCount:   rec.Recommendation.SupportingExperienceCount,
		})
	}

	evidence := EvidenceContext{
		CohortSize:       cohortSize,
		DominantPatterns: "Based on similar historical cases",
		Divergences:      "None noted",
	}

	overview := buildOverview(projectionConfidence, interventions)

	return SystemResponse{
		SituationSummary:    summary,
		BaselineProjections: baseline,
		InterventionOptions: options,
		EvidenceContext:     evidence,
		ConfidenceOverview:  overview,
	}
}

func buildSummary(query situation.EarthquakeSituation) SituationSummary {
	var knowns, unknowns []string

	if query.EventIdentity.Magnitude.Present {
		knowns = append(knowns, fmt.Sprintf("Magnitude %g", query.EventIdentity.Magnitude.Value))
	} else {
		unknowns = append(unknowns, "Magnitude")
	}
	if query.SpatialContext.RegionType.Present {
		knowns = append(knowns, fmt.Sprintf("Region: %s", query.SpatialContext.RegionType.Value))
	} else {
		unknowns = append(unknowns, "Region")
	}

	eventID := ""
	if query.EventIdentity.EventID.Present {
		eventID = query.EventIdentity.EventID.Value
	}

	return SituationSummary{
		EventID:          eventID,
		Phase:            query.EventIdentity.Phase.String(),
		KnownFacts:       knowns,
		ExplicitUnknowns: unknowns,
	}
}

// buildOverview takes the *minimum* projection confidence as the overall
// level — a safety-first choice that never overstates confidence — and
// unions every driver across projections and interventions.
func buildOverview(projectionConfidence map[string]confidence.Assessment, interventions []confidence.AssessedRecommendation) ConfidenceOverview {
	minScore := 1.0
	found := false
	driverSet := make(map[string]bool)

	for _, a := range projectionConfidence {
		if !found || a.Score < minScore {
			minScore = a.Score
			found = true
		}
		for _, d := range a.Drivers {
			driverSet[d] = true
		}
	}
	for _, r := range interventions {
		for _, d := range r.Assessment.Drivers {
			driverSet[d] = true
		}
	}
	if !found {
		minScore = 0.0
	}

	drivers := make([]string, 0, len(driverSet))
	for d := range driverSet {
		drivers = append(drivers, d)
	}

	risksGaps := []string{"None specific"}
	if minScore < 0.5 {
		risksGaps = []string{"Sparse data"}
	}

	return ConfidenceOverview{
		OverallLevel: overallLabel(minScore),
		Drivers:      drivers,
		RisksGaps:    risksGaps,
	}
}

func overallLabel(score float64) string {
	switch {
	case score >= 0.8:
		return confidence.LabelHigh
	case score >= 0.5:
		return confidence.LabelMedium
	default:
		return confidence.LabelLow
	}
}
