// Package memory implements the experience memory store (C4): the
// vector-indexed collection of ExperienceUnits, with idempotent upsert and
// approximate-kNN retrieval. Two implementations exist — FalkorStore, the
// real FalkorDB-backed store, and InMemoryStore, the brute-force test seam
// called for by Design Note 4.
package memory

import (
	"context"
	"crypto/sha1"
	"fmt"

	"github.com/google/uuid"
	"github.com/quakecase/engine/internal/situation"
)

// ScoredUnit pairs a reconstructed ExperienceUnit with its similarity
// score against the query vector, normalized to [0,1] at this boundary
// (Open Question 4: the store, not the reranker, owns normalization).
type ScoredUnit struct {
	Unit  situation.ExperienceUnit
	Score float64
}

// Store is the C4 contract. Implementations must be safe for concurrent
// use; the only ordering guarantee across concurrent upserts to the same
// deterministic id is last-writer-wins (§5).
type Store interface {
	// Upsert stores unit under a deterministic id derived from
	// (SourceCaseID, Phase). Idempotent: upserting the same unit twice
	// with the same vector is a no-op from the caller's perspective.
	Upsert(ctx context.Context, unit situation.ExperienceUnit, vector []float64) error

	// Knn returns the k nearest units to vector by cosine similarity,
	// descending, with scores normalized to [0,1].
	Knn(ctx context.Context, vector []float64, k int) ([]ScoredUnit, error)

	// Exists reports whether the named collection has been created.
	Exists(ctx context.Context, collection string) (bool, error)

	// Ensure creates the named collection with the given vector
	// dimension if it does not already exist. Idempotent.
	Ensure(ctx context.Context, collection string, dim int) error
}

// experienceUnitNamespace anchors the deterministic uuid5 ids described in
// spec §6's persisted-payload layout.
var experienceUnitNamespace = uuid.NewSHA1(uuid.Nil, []byte("quakecase.experience_unit"))

// DeterministicID computes id = uuid5(namespace, source_case_id ∥ phase).
func DeterministicID(sourceCaseID string, phase situation.TimePhase) string {
	return uuid.NewSHA1(experienceUnitNamespace, []byte(sourceCaseID+"|"+phase.String())).String()
}

// vectorFingerprint is used by FalkorStore's LRU cache key (falkor.go) to avoid
// storing full float64 slices as map keys.
func vectorFingerprint(vector []float64) string {
	h := sha1.New()
	for _, v := range vector {
		fmt.Fprintf(h, "%x", v)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
