package ingest

import (
	"strconv"
	"strings"

	"github.com/quakecase/engine/internal/situation"
)

// NarrativeText flattens a TimeSlice's known fields into plain text
// suitable for the embedder (C3). Absent fields are simply omitted —
// there is no placeholder text for missing information, consistent with
// the "missing is first-class" property model.
func NarrativeText(slice situation.TimeSlice) string {
	s := slice.Situation
	var parts []string

	id := s.EventIdentity
	if id.EventType.Present {
		parts = append(parts, "event type "+id.EventType.Value)
	}
	if id.Magnitude.Present {
		parts = append(parts, "magnitude "+ftoa(id.Magnitude.Value))
	}
	if id.Intensity.Present {
		parts = append(parts, "intensity "+id.Intensity.Value)
	}
	parts = append(parts, "phase "+slice.Phase.String())

	sp := s.SpatialContext
	if sp.RegionType.Present {
		parts = append(parts, "region "+sp.RegionType.Value)
	}
	if sp.Terrain.Present {
		parts = append(parts, "terrain "+sp.Terrain.Value)
	}
	if sp.LocationDescription.Present {
		parts = append(parts, sp.LocationDescription.Value)
	}
	if sp.SecondaryHazards.Present {
		parts = append(parts, "secondary hazards "+strings.Join(sp.SecondaryHazards.Value, ", "))
	}

	he := s.HumanExposure
	if he.PopulationDensity.Present {
		parts = append(parts, "population density "+he.PopulationDensity.Value)
	}
	if he.VulnerableGroups.Present {
		parts = append(parts, "vulnerable groups "+strings.Join(he.VulnerableGroups.Value, ", "))
	}

	be := s.BuiltEnvironment
	if be.DominantBuildingTypes.Present {
		parts = append(parts, "building types "+strings.Join(be.DominantBuildingTypes.Value, ", "))
	}
	if be.ConstructionQuality.Present {
		parts = append(parts, "construction quality "+be.ConstructionQuality.Value)
	}

	di := s.DamageIndicators
	if di.CollapseSeverity.Present {
		parts = append(parts, "collapse severity "+di.CollapseSeverity.Value)
	}
	if di.AccessDisruption.Present {
		parts = append(parts, "access disruption "+di.AccessDisruption.Value)
	}
	if di.UtilityFailures.Present {
		parts = append(parts, "utility failures "+strings.Join(di.UtilityFailures.Value, ", "))
	}

	at := s.ActionsTaken
	if at.HasRescue() {
		parts = append(parts, "rescue "+at.RescueOperations.Value)
	}
	if at.HasEvacuation() {
		parts = append(parts, "evacuation "+at.EvacuationStatus.Value)
	}
	if at.HasMedical() {
		parts = append(parts, "medical "+at.MedicalDeployment.Value)
	}
	if at.HasLogistics() {
		parts = append(parts, "logistics "+at.LogisticsCoordination.Value)
	}

	return strings.Join(parts, "; ")
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
