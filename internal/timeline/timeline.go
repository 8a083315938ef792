// Package timeline implements the horizon projector (C6): it bins a
// reranked cohort by phase offset from the query into fixed forward
// windows and aggregates each bin's damage and outcome signals into a
// Projection.
package timeline

import (
	"sort"

	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
)

// Horizon labels, in the fixed display order used throughout the system.
const (
	Horizon0To12   = "0-12h"
	Horizon12To24  = "12-24h"
	Horizon24To48  = "24-48h"
)

// HorizonOrder is the fixed presentation order for all three horizons.
var HorizonOrder = []string{Horizon0To12, Horizon12To24, Horizon24To48}

// Projection is the aggregated forward-looking signal for one horizon.
type Projection struct {
	HorizonLabel               string
	CasualtyTrend               string // "increasing" | "stabilizing" | "unknown"
	CasualtyRange                string // "min - max" | "unknown"
	CollapseProgression          string
	AccessDisruption             string
	SecondaryRisks               []string
	ConfidenceScore               float64
	SupportingExperienceCount int
}

func defaultProjection(label string) Projection {
	return Projection{
		HorizonLabel:      label,
		CasualtyTrend:     "unknown",
		CasualtyRange:     "unknown",
		CollapseProgression: "unknown",
		AccessDisruption:  "unknown",
	}
}

// binTable implements the horizon-binning table from spec §4.5: for each
// query phase, maps a candidate's phase to the horizon label it
// contributes to, or "" if it is excluded (a past phase relative to Q).
var binTable = map[situation.TimePhase]map[situation.TimePhase]string{
	situation.T0Impact: {
		situation.T0Impact:         Horizon0To12,
		situation.T1EarlyResponse:  Horizon12To24,
		situation.T2Stabilization:  Horizon24To48,
		situation.T3Outcome:        Horizon24To48,
	},
	situation.T1EarlyResponse: {
		situation.T1EarlyResponse: Horizon12To24,
		situation.T2Stabilization: Horizon24To48,
		situation.T3Outcome:       Horizon24To48,
	},
}

// Project bins cohort by queryPhase and aggregates each horizon.
func Project(queryPhase situation.TimePhase, cohort []similarity.Result) map[string]Projection {
	groups := make(map[string][]similarity.Result)
	table := binTable[queryPhase]
	for _, candidate := range cohort {
		label, ok := table[candidate.Unit.Phase]
		if !ok {
			continue
		}
		groups[label] = append(groups[label], candidate)
	}

	out := make(map[string]Projection, len(HorizonOrder))
	for _, label := range HorizonOrder {
		group, ok := groups[label]
		if !ok || len(group) == 0 {
			out[label] = defaultProjection(label)
			continue
		}
		out[label] = aggregateHorizon(label, group)
	}
	return out
}

func aggregateHorizon(label string, group []similarity.Result) Projection {
	collapseCounts := make(map[string]int)
	accessCounts := make(map[string]int)
	risks := make(map[string]bool)

	var casualtyValues []float64
	var totalWeight float64

	for _, candidate := range group {
		sit := candidate.Unit.Situation
		if sit.DamageIndicators.CollapseSeverity.Present {
			collapseCounts[sit.DamageIndicators.CollapseSeverity.Value]++
		}
		if sit.DamageIndicators.AccessDisruption.Present {
			accessCounts[sit.DamageIndicators.AccessDisruption.Value]++
		}
		for _, h := range sit.SpatialContext.SecondaryHazards.Value {
			risks[h] = true
		}
		for _, h := range sit.DamageIndicators.VisibleHazards.Value {
			risks[h] = true
		}
		if candidate.Unit.SubsequentOutcomes != nil && candidate.Unit.SubsequentOutcomes.Casualties.Present {
			casualtyValues = append(casualtyValues, candidate.Unit.SubsequentOutcomes.Casualties.Value)
		}
		totalWeight += candidate.Score
	}

	proj := Projection{
		HorizonLabel:               label,
		CollapseProgression:        mode(collapseCounts, "unknown"),
		AccessDisruption:           mode(accessCounts, "unknown"),
		SecondaryRisks:             sortedKeys(risks),
		SupportingExperienceCount: len(group),
	}

	if len(casualtyValues) == 0 {
		proj.CasualtyTrend = "unknown"
		proj.CasualtyRange = "unknown"
	} else {
		minV, maxV := casualtyValues[0], casualtyValues[0]
		for _, v := range casualtyValues {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		proj.CasualtyRange = formatRange(minV, maxV)
		if maxV > 100 {
			proj.CasualtyTrend = "increasing"
		} else {
			proj.CasualtyTrend = "stabilizing"
		}
	}

	avgSimilarity := totalWeight / float64(len(group))
	countFactor := float64(len(group)) / 3.0
	if countFactor > 1 {
		countFactor = 1
	}
	proj.ConfidenceScore = avgSimilarity * countFactor

	return proj
}

func mode(counts map[string]int, fallback string) string {
	best := fallback
	bestCount := 0
	keys := sortedKeysFromCounts(counts)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

func sortedKeysFromCounts(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatRange(minV, maxV float64) string {
	return formatNumber(minV) + " - " + formatNumber(maxV)
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return itoa(int64(v))
	}
	return ftoa(v)
}
