// Package intervention implements the observational intervention
// reasoner (C7): it compares treated vs. untreated cohorts for each
// observed action and reports the comparative effect. This is explicitly
// non-causal — see the forbidden-language guard in language.go.
package intervention

import (
	"fmt"
	"sort"

	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
)

// Recommendation is one candidate action with its observational effect.
type Recommendation struct {
	ActionName                string
	SuggestedTimeWindow        string
	ComparativeEffect          string
	ConfidenceScore            float64
	SupportingExperienceCount int
	Notes                      string
}

// actionKind enumerates the four observable action kinds, in the fixed
// order they are evaluated.
type actionKind struct {
	name    string
	has     func(situation.ActionsTaken) bool
}

var actionKinds = []actionKind{
	{"rescue", situation.ActionsTaken.HasRescue},
	{"evacuation", situation.ActionsTaken.HasEvacuation},
	{"medical", situation.ActionsTaken.HasMedical},
	{"logistics", situation.ActionsTaken.HasLogistics},
}

// Recommend evaluates every observed action kind against the cohort and
// returns recommendations sorted by confidence descending. queryPhase is
// accepted for interface symmetry with C6 but does not currently affect
// the procedure — the suggested window is a fixed default (Open
// Question 2).
func Recommend(queryPhase situation.TimePhase, cohort []similarity.Result) []Recommendation {
	var recs []Recommendation
	for _, kind := range actionKinds {
		if rec := evaluate(kind, cohort); rec != nil {
			recs = append(recs, *rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ConfidenceScore > recs[j].ConfidenceScore })
	return recs
}

func evaluate(kind actionKind, cohort []similarity.Result) *Recommendation {
	var with, without []similarity.Result
	for _, c := range cohort {
		if kind.has(c.Unit.Situation.ActionsTaken) {
			with = append(with, c)
		} else {
			without = append(without, c)
		}
	}
	if len(with) == 0 || len(without) == 0 {
		return nil
	}

	avgWith, okWith := averageCasualties(with)
	avgWithout, okWithout := averageCasualties(without)
	if !okWith || !okWithout {
		return nil
	}
	if avgWith >= avgWithout {
		return nil
	}

	var pct float64
	if avgWithout != 0 {
		pct = (avgWithout - avgWith) / avgWithout * 100
	}
	confidence := float64(len(with)+len(without)) / 10.0
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &Recommendation{
		ActionName:          kind.name,
		SuggestedTimeWindow: "0-12h", // TODO: derive from candidate phases instead of a fixed default.
		ComparativeEffect: fmt.Sprintf(
			"Associated with %d%% lower casualties in similar cases (%d vs %d)",
			int(pct), int(avgWith), int(avgWithout),
		),
		ConfidenceScore:            round2(confidence),
		SupportingExperienceCount: len(with),
		Notes:                      "Observational correlation only.",
	}
}

func averageCasualties(group []similarity.Result) (float64, bool) {
	var sum float64
	var count int
	for _, c := range group {
		if c.Unit.SubsequentOutcomes != nil && c.Unit.SubsequentOutcomes.Casualties.Present {
			sum += c.Unit.SubsequentOutcomes.Casualties.Value
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
