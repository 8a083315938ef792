// Package ingest implements the time-phased case-study ingestor (C2): it
// decomposes a raw case dict into an ordered sequence of phase-bounded
// TimeSlices, enforcing no-future-leakage structurally — a disallowed
// field for a given phase is simply never read from the input, regardless
// of what the raw dict contains.
package ingest

import (
	"fmt"

	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/situation"
)

var log = logging.GetLogger("ingest")

// Warning describes a non-fatal issue encountered while building a slice:
// a malformed value was dropped rather than failing the whole ingest.
type Warning struct {
	Phase   situation.TimePhase
	Field   string
	Message string
}

// Ingestor builds ordered TimeSlices from a raw case dict.
type Ingestor struct{}

func New() *Ingestor { return &Ingestor{} }

// Ingest decomposes raw into TimeSlices, one per phase actually present in
// raw — never a fixed four. Empty input yields an empty slice list. A
// phase is present when raw supplies at least one of that phase's own
// fields: T0 from identity/spatial/human/built/damage, T1 from rescue or
// evacuation action fields, T2 from medical or logistics action fields,
// T3 from the outcomes block. Mirrors the original's
// `_has_data_for_phase` gate in case_study_ingestion.py, made concrete
// per phase instead of the original's `return True` placeholder for
// T1-T3.
func (ing *Ingestor) Ingest(raw map[string]any) ([]situation.TimeSlice, []Warning) {
	var warnings []Warning
	record := func(w Warning) { warnings = append(warnings, w) }

	base := buildBase(raw, record)
	attachReportedTimestamp(raw, &base.identity)
	damage := extractDamage(raw, record)

	slices := make([]situation.TimeSlice, 0, 4)

	if hasDataForT0(raw) {
		slices = append(slices, buildSlice(situation.T0Impact, base, damage, situation.ActionsTaken{}, nil))
	}

	actionsT1 := extractActionsT1(raw, record)
	if hasDataForT1(raw) {
		slices = append(slices, buildSlice(situation.T1EarlyResponse, base, damage, actionsT1, nil))
	}

	actionsT2 := extractActionsT2(raw, record)
	if hasDataForT2(raw) {
		slices = append(slices, buildSlice(situation.T2Stabilization, base, damage, actionsT2, nil))
	}

	if hasDataForT3(raw) {
		outcomes := extractOutcomes(raw, record)
		slices = append(slices, buildSlice(situation.T3Outcome, base, damage, actionsT2, outcomes))
	}

	for _, w := range warnings {
		log.WarnWithFields("dropped malformed field during ingestion",
			logging.Field("phase", w.Phase.String()),
			logging.Field("field", w.Field),
			logging.Field("message", w.Message),
		)
	}
	return slices, warnings
}

func hasDataForT0(raw map[string]any) bool {
	for _, key := range []string{"identity", "spatial", "human", "built", "damage"} {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

func hasDataForT1(raw map[string]any) bool {
	actions, ok := raw["actions"].(map[string]any)
	if !ok {
		return false
	}
	_, hasRescue := actions["rescue"]
	_, hasEvacuation := actions["evacuation"]
	return hasRescue || hasEvacuation
}

func hasDataForT2(raw map[string]any) bool {
	actions, ok := raw["actions"].(map[string]any)
	if !ok {
		return false
	}
	_, hasMedical := actions["medical"]
	_, hasLogistics := actions["logistics"]
	return hasMedical || hasLogistics
}

func hasDataForT3(raw map[string]any) bool {
	_, ok := raw["outcomes"]
	return ok
}

type base struct {
	identity situation.EventIdentity
	spatial  situation.SpatialContext
	human    situation.HumanExposure
	built    situation.BuiltEnvironment
}

func buildSlice(
	phase situation.TimePhase,
	b base,
	damage situation.DamageIndicators,
	actions situation.ActionsTaken,
	outcomes *situation.Outcomes,
) situation.TimeSlice {
	identity := b.identity
	identity.Phase = phase
	identity.HoursSinceEvent = situation.NewNumeric(phase.HourAnchor(), "ingestor", situation.ConfidenceHigh)

	sit := situation.EarthquakeSituation{
		EventIdentity:    identity,
		SpatialContext:   b.spatial,
		HumanExposure:    b.human,
		BuiltEnvironment: b.built,
		DamageIndicators: damage,
		ActionsTaken:     actions,
	}
	if outcomes != nil {
		sit.Outcomes = *outcomes
	}
	return situation.TimeSlice{
		Phase:             phase,
		Situation:         sit,
		RelativeTimeLabel: phase.RelativeTimeLabel(),
	}
}

func buildBase(raw map[string]any, record func(Warning)) base {
	identityRaw, _ := raw["identity"].(map[string]any)
	spatialRaw, _ := raw["spatial"].(map[string]any)
	humanRaw, _ := raw["human"].(map[string]any)
	builtRaw, _ := raw["built"].(map[string]any)

	return base{
		identity: situation.EventIdentity{
			EventID:   extractString(identityRaw, "event_id", situation.T0Impact, record),
			EventType: extractString(identityRaw, "event_type", situation.T0Impact, record),
			Magnitude: extractNumeric(identityRaw, "magnitude", situation.T0Impact, record),
			Intensity: extractString(identityRaw, "intensity", situation.T0Impact, record),
		},
		spatial: situation.SpatialContext{
			RegionType:          extractString(spatialRaw, "region_type", situation.T0Impact, record),
			Terrain:             extractString(spatialRaw, "terrain", situation.T0Impact, record),
			SecondaryHazards:    extractStringList(spatialRaw, "secondary_hazards", situation.T0Impact, record),
			LocationDescription: extractString(spatialRaw, "location_description", situation.T0Impact, record),
		},
		human: situation.HumanExposure{
			PopulationDensity: extractString(humanRaw, "population_density", situation.T0Impact, record),
			VulnerableGroups:  extractStringList(humanRaw, "vulnerable_groups", situation.T0Impact, record),
			TimeOfDayContext:  extractString(humanRaw, "time_of_day_context", situation.T0Impact, record),
		},
		built: situation.BuiltEnvironment{
			DominantBuildingTypes:        extractStringList(builtRaw, "dominant_building_types", situation.T0Impact, record),
			ConstructionQuality:          extractString(builtRaw, "construction_quality", situation.T0Impact, record),
			CriticalInfrastructureStatus: extractMap(builtRaw, "critical_infrastructure_status", situation.T0Impact, record),
		},
	}
}

func extractDamage(raw map[string]any, record func(Warning)) situation.DamageIndicators {
	damageRaw, _ := raw["damage"].(map[string]any)
	return situation.DamageIndicators{
		CollapseSeverity: extractString(damageRaw, "building_collapse", situation.T0Impact, record),
		AccessDisruption: extractString(damageRaw, "access_disruption", situation.T0Impact, record),
		UtilityFailures:  extractStringList(damageRaw, "utility_failures", situation.T0Impact, record),
		VisibleHazards:   extractStringList(damageRaw, "visible_hazards", situation.T0Impact, record),
	}
}

func extractActionsT1(raw map[string]any, record func(Warning)) situation.ActionsTaken {
	actionsRaw, _ := raw["actions"].(map[string]any)
	return situation.ActionsTaken{
		RescueOperations: extractString(actionsRaw, "rescue", situation.T1EarlyResponse, record),
		EvacuationStatus: extractString(actionsRaw, "evacuation", situation.T1EarlyResponse, record),
	}
}

func extractActionsT2(raw map[string]any, record func(Warning)) situation.ActionsTaken {
	a := extractActionsT1(raw, record)
	actionsRaw, _ := raw["actions"].(map[string]any)
	a.MedicalDeployment = extractString(actionsRaw, "medical", situation.T2Stabilization, record)
	a.LogisticsCoordination = extractString(actionsRaw, "logistics", situation.T2Stabilization, record)
	return a
}

func extractOutcomes(raw map[string]any, record func(Warning)) *situation.Outcomes {
	outcomesRaw, _ := raw["outcomes"].(map[string]any)
	o := situation.Outcomes{
		Casualties:   extractNumeric(outcomesRaw, "casualties", situation.T3Outcome, record),
		Injuries:     extractNumeric(outcomesRaw, "injuries", situation.T3Outcome, record),
		Displacement: extractNumeric(outcomesRaw, "displacement", situation.T3Outcome, record),
		EconomicLoss: extractString(outcomesRaw, "economic_loss", situation.T3Outcome, record),
	}
	return &o
}

func extractString(m map[string]any, key string, phase situation.TimePhase, record func(Warning)) situation.StringProperty {
	if m == nil {
		return situation.StringProperty{}
	}
	v, present := m[key]
	if !present {
		return situation.StringProperty{}
	}
	s, ok := v.(string)
	if !ok {
		record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("expected string, got %T", v)})
		return situation.StringProperty{}
	}
	return situation.NewString(s, "case_report", situation.ConfidenceMedium)
}

func extractNumeric(m map[string]any, key string, phase situation.TimePhase, record func(Warning)) situation.NumericProperty {
	if m == nil {
		return situation.NumericProperty{}
	}
	v, present := m[key]
	if !present {
		return situation.NumericProperty{}
	}
	switch n := v.(type) {
	case float64:
		return situation.NewNumeric(n, "case_report", situation.ConfidenceMedium)
	case int:
		return situation.NewNumeric(float64(n), "case_report", situation.ConfidenceMedium)
	default:
		record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("expected number, got %T", v)})
		return situation.NumericProperty{}
	}
}

func extractStringList(m map[string]any, key string, phase situation.TimePhase, record func(Warning)) situation.StringListProperty {
	if m == nil {
		return situation.StringListProperty{}
	}
	v, present := m[key]
	if !present {
		return situation.StringListProperty{}
	}
	raw, ok := v.([]any)
	if !ok {
		record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("expected list, got %T", v)})
		return situation.StringListProperty{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("dropped non-string list element %T", item)})
		}
	}
	return situation.NewStringList(out, "case_report", situation.ConfidenceMedium)
}

func extractMap(m map[string]any, key string, phase situation.TimePhase, record func(Warning)) situation.MapProperty {
	if m == nil {
		return situation.MapProperty{}
	}
	v, present := m[key]
	if !present {
		return situation.MapProperty{}
	}
	raw, ok := v.(map[string]any)
	if !ok {
		record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("expected map, got %T", v)})
		return situation.MapProperty{}
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		} else {
			record(Warning{Phase: phase, Field: key, Message: fmt.Sprintf("dropped non-string map value for %q", k)})
		}
	}
	return situation.NewMap(out, "case_report", situation.ConfidenceMedium)
}
