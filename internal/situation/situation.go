package situation

import "time"

// EventIdentity identifies the earthquake event itself.
type EventIdentity struct {
	EventID         StringProperty
	EventType       StringProperty
	Magnitude       NumericProperty
	Intensity       StringProperty
	Phase           TimePhase
	Timestamp       time.Time
	HasTimestamp    bool
	HoursSinceEvent NumericProperty
}

// SpatialContext describes where the event occurred.
type SpatialContext struct {
	RegionType          StringProperty
	Terrain             StringProperty
	SecondaryHazards    StringListProperty
	LocationDescription StringProperty
}

// HumanExposure describes the population affected.
type HumanExposure struct {
	PopulationDensity  StringProperty
	VulnerableGroups   StringListProperty
	TimeOfDayContext   StringProperty
}

// BuiltEnvironment describes the built environment affected.
type BuiltEnvironment struct {
	DominantBuildingTypes       StringListProperty
	ConstructionQuality         StringProperty
	CriticalInfrastructureStatus MapProperty
}

// DamageIndicators describes the observed physical damage.
type DamageIndicators struct {
	CollapseSeverity StringProperty
	AccessDisruption StringProperty
	UtilityFailures  StringListProperty
	VisibleHazards   StringListProperty
}

// ActionsTaken describes the response actions observed so far.
type ActionsTaken struct {
	RescueOperations     StringProperty
	EvacuationStatus     StringProperty
	MedicalDeployment    StringProperty
	LogisticsCoordination StringProperty
}

// Outcomes describes the eventual ground-truth outcome. Never populated on
// a T0/T1/T2 slice (invariant I1).
type Outcomes struct {
	Casualties   NumericProperty
	Injuries     NumericProperty
	Displacement NumericProperty
	EconomicLoss StringProperty
}

// EarthquakeSituation is the canonical, uncertainty-tagged state of an
// earthquake event at one moment. It is built by the ingestor (C2) and is
// immutable thereafter — the query path never mutates a stored situation.
type EarthquakeSituation struct {
	EventIdentity    EventIdentity
	SpatialContext   SpatialContext
	HumanExposure    HumanExposure
	BuiltEnvironment BuiltEnvironment
	DamageIndicators DamageIndicators
	ActionsTaken     ActionsTaken
	Outcomes         Outcomes
}

// actionNonEmpty reports whether an action property counts as "an action
// was taken" for the purposes of the intervention reasoner (C7): present,
// and not one of the placeholder values that mean "nothing happened yet".
func actionNonEmpty(p StringProperty) bool {
	if !p.Present {
		return false
	}
	switch p.Value {
	case "none", "pending", "unknown", "":
		return false
	default:
		return true
	}
}

// HasRescue reports whether rescue_operations counts as an observed action.
func (a ActionsTaken) HasRescue() bool { return actionNonEmpty(a.RescueOperations) }

// HasEvacuation reports whether evacuation_status counts as an observed action.
func (a ActionsTaken) HasEvacuation() bool { return actionNonEmpty(a.EvacuationStatus) }

// HasMedical reports whether medical_deployment counts as an observed action.
func (a ActionsTaken) HasMedical() bool { return actionNonEmpty(a.MedicalDeployment) }

// HasLogistics reports whether logistics_coordination counts as an observed action.
func (a ActionsTaken) HasLogistics() bool { return actionNonEmpty(a.LogisticsCoordination) }
