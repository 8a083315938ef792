package situation

// TimeSlice is a (phase, situation, relative_time_label) triple produced
// by the ingestor. Invariant: a slice at phase P must contain only
// attributes whose information class is ≤ P — enforced structurally by
// the ingestor, not by this type.
type TimeSlice struct {
	Phase             TimePhase
	Situation         EarthquakeSituation
	RelativeTimeLabel string
}

// ExperienceUnit is an immutable (situation, phase, source_case_id,
// subsequent_outcomes?) record. SubsequentOutcomes is the ground-truth
// result observed after this situation state; it is populated only for
// stored memory, never for a live query situation.
type ExperienceUnit struct {
	Situation          EarthquakeSituation
	Phase              TimePhase
	SourceCaseID       string
	SubsequentOutcomes *Outcomes
}

// FromTimeSlice builds an ExperienceUnit from a TimeSlice and its source
// case id. subsequentOutcomes is nil unless the caller is building a
// stored memory record for a past, fully-resolved case.
func FromTimeSlice(slice TimeSlice, sourceCaseID string, subsequentOutcomes *Outcomes) ExperienceUnit {
	return ExperienceUnit{
		Situation:          slice.Situation,
		Phase:              slice.Phase,
		SourceCaseID:       sourceCaseID,
		SubsequentOutcomes: subsequentOutcomes,
	}
}

// ToMap serializes the unit for storage as a vector-store payload.
func (u ExperienceUnit) ToMap() map[string]any {
	m := map[string]any{
		"situation":      u.Situation.ToMap(),
		"phase":          u.Phase.String(),
		"source_case_id": u.SourceCaseID,
	}
	if u.SubsequentOutcomes != nil {
		m["subsequent_outcomes"] = u.SubsequentOutcomes.toMap()
	} else {
		m["subsequent_outcomes"] = nil
	}
	return m
}

// ExperienceUnitFromMap reconstructs a unit from a stored payload. Total:
// missing/malformed fields default rather than erroring, per the DataShape
// error-taxonomy class — the caller decides whether to skip the candidate.
func ExperienceUnitFromMap(m map[string]any) ExperienceUnit {
	u := ExperienceUnit{
		Situation: FromMap(subMap(m, "situation")),
		Phase:     ParsePhase(stringOr(m["phase"], "")),
	}
	if sid, ok := m["source_case_id"].(string); ok {
		u.SourceCaseID = sid
	}
	if raw, ok := m["subsequent_outcomes"].(map[string]any); ok {
		out := outcomesFromMap(raw)
		u.SubsequentOutcomes = &out
	}
	return u
}
