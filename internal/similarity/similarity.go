// Package similarity implements the deterministic multi-dimensional
// similarity ranker (C5): given a query situation and a cohort of
// candidate experience units, it produces an explainable, reproducible
// ranking with no learning involved — the formulas here are fixed.
package similarity

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/situation"
)

// Weights are the per-dimension weights applied before the phase penalty.
// Must sum to 1.0 after Normalize.
type Weights struct {
	Scale   float64
	Spatial float64
	Human   float64
	Built   float64
}

// DefaultWeights returns the published weights from spec §4.4.
func DefaultWeights() Weights {
	return Weights{Scale: 0.30, Spatial: 0.25, Human: 0.20, Built: 0.25}
}

// Normalize rescales the weights to sum to 1.0. A zero-sum weight set
// falls back to DefaultWeights rather than dividing by zero.
func (w Weights) Normalize() Weights {
	sum := w.Scale + w.Spatial + w.Human + w.Built
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Scale:   w.Scale / sum,
		Spatial: w.Spatial / sum,
		Human:   w.Human / sum,
		Built:   w.Built / sum,
	}
}

// DimensionScores breaks out the per-dimension scores that were summed
// into Score, for explainability.
type DimensionScores struct {
	Scale   float64
	Spatial float64
	Human   float64
	Built   float64
}

// Result is one candidate's similarity outcome against the query.
type Result struct {
	Unit       situation.ExperienceUnit
	Score      float64
	Dimensions DimensionScores
	Penalties  []string
}

// Engine ranks candidates against a query situation using configurable
// weights. Weights may be retuned at runtime via SetWeights — e.g. from
// internal/config's hot-reloading weights watcher — so a mutex guards
// reads during concurrent Rank calls.
type Engine struct {
	mu      sync.RWMutex
	weights Weights
}

func New(weights Weights) *Engine {
	return &Engine{weights: weights.Normalize()}
}

// NewDefault builds an Engine with the published default weights.
func NewDefault() *Engine {
	return New(DefaultWeights())
}

// SetWeights replaces the engine's weights, normalizing them first.
// Safe to call concurrently with Rank.
func (e *Engine) SetWeights(weights Weights) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.weights = weights.Normalize()
}

func (e *Engine) currentWeights() Weights {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights
}

// Rank scores every candidate against query and returns results sorted by
// score descending; ties are broken by the candidate's position in the
// input slice (Go's sort.SliceStable preserves original relative order).
func (e *Engine) Rank(query situation.EarthquakeSituation, candidates []memory.ScoredUnit) []Result {
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = e.compute(query, c.Unit)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// compute produces one SimilarityResult for a single candidate.
func (e *Engine) compute(query situation.EarthquakeSituation, candidate situation.ExperienceUnit) Result {
	dims := DimensionScores{
		Scale:   scaleSimilarity(query.EventIdentity.Magnitude, candidate.Situation.EventIdentity.Magnitude),
		Spatial: categoricalSimilarity(query.SpatialContext.RegionType, candidate.Situation.SpatialContext.RegionType),
		Human:   categoricalSimilarity(query.HumanExposure.PopulationDensity, candidate.Situation.HumanExposure.PopulationDensity),
		Built:   jaccardSimilarity(query.BuiltEnvironment.DominantBuildingTypes, candidate.Situation.BuiltEnvironment.DominantBuildingTypes),
	}

	w := e.currentWeights()
	score := dims.Scale*w.Scale +
		dims.Spatial*w.Spatial +
		dims.Human*w.Human +
		dims.Built*w.Built

	var penalties []string
	if !isPhaseCompatible(query.EventIdentity.Phase.String(), candidate.Situation.EventIdentity.Phase.String()) {
		score *= 0.8
		penalties = append(penalties, "phase_mismatch")
	}

	return Result{
		Unit:       candidate,
		Score:      round4(score),
		Dimensions: DimensionScores{round4(dims.Scale), round4(dims.Spatial), round4(dims.Human), round4(dims.Built)},
		Penalties:  penalties,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// scaleSimilarity implements the magnitude-delta metric: both present →
// max(0, 1 - |Δ|/3.0); one present → 0.4; both missing → 0.5.
func scaleSimilarity(a, b situation.NumericProperty) float64 {
	if a.Present && b.Present {
		delta := math.Abs(a.Value - b.Value)
		v := 1 - delta/3.0
		if v < 0 {
			return 0
		}
		return v
	}
	if a.Present || b.Present {
		return 0.4
	}
	return 0.5
}

// categoricalSimilarity implements exact-match scoring for a single
// categorical string property: both present → {1.0, 0.0}; else → 0.5.
func categoricalSimilarity(a, b situation.StringProperty) float64 {
	if a.Present && b.Present {
		if a.Value == b.Value {
			return 1.0
		}
		return 0.0
	}
	return 0.5
}

// jaccardSimilarity implements the built-environment metric: Jaccard
// index over building-type value sets; both empty → 0.5; one empty → 0.3.
func jaccardSimilarity(a, b situation.StringListProperty) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0.5
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.3
	}
	intersection := 0
	for v := range setA {
		if setB[v] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.5
	}
	return float64(intersection) / float64(union)
}

func toSet(p situation.StringListProperty) map[string]bool {
	if !p.Present {
		return nil
	}
	set := make(map[string]bool, len(p.Value))
	for _, v := range p.Value {
		set[v] = true
	}
	return set
}

// isPhaseCompatible is the coarse substring phase-compatibility check —
// kept exactly as the source implements it (Open Question 1): no locale
// generalization, uppercase substring matches over a fixed token set.
func isPhaseCompatible(queryPhase, candidatePhase string) bool {
	qp := strings.ToUpper(queryPhase)
	cp := strings.ToUpper(candidatePhase)
	switch {
	case strings.Contains(qp, "IMPACT") && strings.Contains(cp, "IMPACT"):
		return true
	case strings.Contains(qp, "RESPONSE") && strings.Contains(cp, "RESPONSE"):
		return true
	case strings.Contains(qp, "STABIL") && strings.Contains(cp, "STABIL"):
		return true
	case strings.Contains(qp, "OUTCOME") && strings.Contains(cp, "OUTCOME"):
		return true
	case strings.Contains(qp, "RECOVER") && strings.Contains(cp, "OUTCOME"):
		return true
	default:
		return false
	}
}
