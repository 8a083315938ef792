package situation

import "time"

// ToMap serializes the situation to a nested map suitable for JSON
// encoding or storage as a vector-store payload. Every UncertainProperty
// renders as {value, source, confidence}; an absent property renders as
// nil (JSON null).
func (s EarthquakeSituation) ToMap() map[string]any {
	return map[string]any{
		"event_identity":    s.EventIdentity.toMap(),
		"spatial_context":   s.SpatialContext.toMap(),
		"human_exposure":    s.HumanExposure.toMap(),
		"built_environment": s.BuiltEnvironment.toMap(),
		"damage_indicators": s.DamageIndicators.toMap(),
		"actions_taken":     s.ActionsTaken.toMap(),
		"outcomes":          s.Outcomes.toMap(),
	}
}

func (e EventIdentity) toMap() map[string]any {
	m := map[string]any{
		"event_id":          e.EventID.ToMap(),
		"event_type":        e.EventType.ToMap(),
		"magnitude":         e.Magnitude.ToMap(),
		"intensity":         e.Intensity.ToMap(),
		"phase":             e.Phase.String(),
		"hours_since_event": e.HoursSinceEvent.ToMap(),
	}
	if e.HasTimestamp {
		m["timestamp"] = e.Timestamp.Format(time.RFC3339)
	} else {
		m["timestamp"] = nil
	}
	return m
}

func (s SpatialContext) toMap() map[string]any {
	return map[string]any{
		"region_type":          s.RegionType.ToMap(),
		"terrain":              s.Terrain.ToMap(),
		"secondary_hazards":    s.SecondaryHazards.ToMap(),
		"location_description": s.LocationDescription.ToMap(),
	}
}

func (h HumanExposure) toMap() map[string]any {
	return map[string]any{
		"population_density": h.PopulationDensity.ToMap(),
		"vulnerable_groups":  h.VulnerableGroups.ToMap(),
		"time_of_day_context": h.TimeOfDayContext.ToMap(),
	}
}

func (b BuiltEnvironment) toMap() map[string]any {
	return map[string]any{
		"dominant_building_types":        b.DominantBuildingTypes.ToMap(),
		"construction_quality":           b.ConstructionQuality.ToMap(),
		"critical_infrastructure_status": b.CriticalInfrastructureStatus.ToMap(),
	}
}

func (d DamageIndicators) toMap() map[string]any {
	return map[string]any{
		"collapse_severity": d.CollapseSeverity.ToMap(),
		"access_disruption": d.AccessDisruption.ToMap(),
		"utility_failures":  d.UtilityFailures.ToMap(),
		"visible_hazards":   d.VisibleHazards.ToMap(),
	}
}

func (a ActionsTaken) toMap() map[string]any {
	return map[string]any{
		"rescue_operations":      a.RescueOperations.ToMap(),
		"evacuation_status":      a.EvacuationStatus.ToMap(),
		"medical_deployment":     a.MedicalDeployment.ToMap(),
		"logistics_coordination": a.LogisticsCoordination.ToMap(),
	}
}

func (o Outcomes) toMap() map[string]any {
	return map[string]any{
		"casualties":    o.Casualties.ToMap(),
		"injuries":      o.Injuries.ToMap(),
		"displacement":  o.Displacement.ToMap(),
		"economic_loss": o.EconomicLoss.ToMap(),
	}
}

// subMap extracts a nested object field as map[string]any, tolerating a
// missing or malformed key — part of the codec's total "missing ⇒
// default" deserialization policy.
func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

// FromMap deserializes a situation from a nested map previously produced
// by ToMap (or an equivalent JSON-decoded payload). Unknown fields are
// ignored; missing fields default to an absent UncertainProperty. This
// function never errors — it is total by design (Design Note 2).
func FromMap(m map[string]any) EarthquakeSituation {
	return EarthquakeSituation{
		EventIdentity:    eventIdentityFromMap(subMap(m, "event_identity")),
		SpatialContext:   spatialContextFromMap(subMap(m, "spatial_context")),
		HumanExposure:    humanExposureFromMap(subMap(m, "human_exposure")),
		BuiltEnvironment: builtEnvironmentFromMap(subMap(m, "built_environment")),
		DamageIndicators: damageIndicatorsFromMap(subMap(m, "damage_indicators")),
		ActionsTaken:     actionsTakenFromMap(subMap(m, "actions_taken")),
		Outcomes:         outcomesFromMap(subMap(m, "outcomes")),
	}
}

func eventIdentityFromMap(m map[string]any) EventIdentity {
	e := EventIdentity{
		EventID:         stringPropertyFromMap(subMap(m, "event_id")),
		EventType:       stringPropertyFromMap(subMap(m, "event_type")),
		Magnitude:       numericPropertyFromMap(subMap(m, "magnitude")),
		Intensity:       stringPropertyFromMap(subMap(m, "intensity")),
		HoursSinceEvent: numericPropertyFromMap(subMap(m, "hours_since_event")),
	}
	if m != nil {
		e.Phase = ParsePhase(stringOr(m["phase"], ""))
		if ts, ok := m["timestamp"].(string); ok && ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				e.Timestamp = t
				e.HasTimestamp = true
			}
		}
	}
	return e
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func spatialContextFromMap(m map[string]any) SpatialContext {
	return SpatialContext{
		RegionType:          stringPropertyFromMap(subMap(m, "region_type")),
		Terrain:             stringPropertyFromMap(subMap(m, "terrain")),
		SecondaryHazards:    stringListPropertyFromMap(subMap(m, "secondary_hazards")),
		LocationDescription: stringPropertyFromMap(subMap(m, "location_description")),
	}
}

func humanExposureFromMap(m map[string]any) HumanExposure {
	return HumanExposure{
		PopulationDensity:  stringPropertyFromMap(subMap(m, "population_density")),
		VulnerableGroups:   stringListPropertyFromMap(subMap(m, "vulnerable_groups")),
		TimeOfDayContext:   stringPropertyFromMap(subMap(m, "time_of_day_context")),
	}
}

func builtEnvironmentFromMap(m map[string]any) BuiltEnvironment {
	return BuiltEnvironment{
		DominantBuildingTypes:        stringListPropertyFromMap(subMap(m, "dominant_building_types")),
		ConstructionQuality:          stringPropertyFromMap(subMap(m, "construction_quality")),
		CriticalInfrastructureStatus: mapPropertyFromMap(subMap(m, "critical_infrastructure_status")),
	}
}

func damageIndicatorsFromMap(m map[string]any) DamageIndicators {
	return DamageIndicators{
		CollapseSeverity: stringPropertyFromMap(subMap(m, "collapse_severity")),
		AccessDisruption: stringPropertyFromMap(subMap(m, "access_disruption")),
		UtilityFailures:  stringListPropertyFromMap(subMap(m, "utility_failures")),
		VisibleHazards:   stringListPropertyFromMap(subMap(m, "visible_hazards")),
	}
}

func actionsTakenFromMap(m map[string]any) ActionsTaken {
	return ActionsTaken{
		RescueOperations:      stringPropertyFromMap(subMap(m, "rescue_operations")),
		EvacuationStatus:      stringPropertyFromMap(subMap(m, "evacuation_status")),
		MedicalDeployment:     stringPropertyFromMap(subMap(m, "medical_deployment")),
		LogisticsCoordination: stringPropertyFromMap(subMap(m, "logistics_coordination")),
	}
}

func outcomesFromMap(m map[string]any) Outcomes {
	return Outcomes{
		Casualties:   numericPropertyFromMap(subMap(m, "casualties")),
		Injuries:     numericPropertyFromMap(subMap(m, "injuries")),
		Displacement: numericPropertyFromMap(subMap(m, "displacement")),
		EconomicLoss: stringPropertyFromMap(subMap(m, "economic_loss")),
	}
}
