package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FalkorDB/falkordb-go/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/metrics"
	"github.com/quakecase/engine/internal/situation"
)

// ClientConfig configures the FalkorDB connection. Shape and defaults
// mirror the teacher's graph.ClientConfig / DefaultClientConfig.
type ClientConfig struct {
	Host         string
	Port         int
	Password     string
	GraphName    string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	KnnCacheSize int // number of Knn query results to cache; 0 disables caching
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:         "localhost",
		Port:         6379,
		GraphName:    "quakecase",
		MaxRetries:   3,
		DialTimeout:  30 * time.Second,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		PoolSize:     10,
		KnnCacheSize: 256,
	}
}

// FalkorStore is the real Store implementation, backed by FalkorDB.
// Experiences are stored as `Experience` nodes carrying a `vector`
// property; Knn issues a vector-similarity Cypher query.
type FalkorStore struct {
	config ClientConfig
	logger *logging.Logger
	db     *falkordb.FalkorDB
	graph  *falkordb.Graph
	cache  *lru.Cache[string, []ScoredUnit]
	metrics *metrics.Metrics
}

// WithMetrics attaches Prometheus instrumentation for cache hit/miss
// tracking. Optional — a nil metrics is a no-op.
func (s *FalkorStore) WithMetrics(m *metrics.Metrics) *FalkorStore {
	s.metrics = m
	return s
}

func NewFalkorStore(config ClientConfig) *FalkorStore {
	s := &FalkorStore{
		config: config,
		logger: logging.GetLogger("memory.falkor"),
	}
	if config.KnnCacheSize > 0 {
		cache, err := lru.New[string, []ScoredUnit](config.KnnCacheSize)
		if err == nil {
			s.cache = cache
		}
	}
	return s
}

// Connect dials FalkorDB. The server command calls it directly at startup;
// FalkorStore is not registered with the lifecycle manager.
func (s *FalkorStore) Connect(ctx context.Context) error {
	s.logger.InfoWithFields("connecting to FalkorDB",
		logging.Field("host", s.config.Host),
		logging.Field("port", s.config.Port),
		logging.Field("graph", s.config.GraphName),
	)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	connOpts := &falkordb.ConnectionOption{
		Addr:         addr,
		Password:     s.config.Password,
		DialTimeout:  s.config.DialTimeout,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		PoolSize:     s.config.PoolSize,
		MaxRetries:   s.config.MaxRetries,
	}
	db, err := falkordb.FalkorDBNew(connOpts)
	if err != nil {
		return fmt.Errorf("memory: connect to FalkorDB: %w", err)
	}
	s.db = db
	s.graph = db.SelectGraph(s.config.GraphName)
	return nil
}

func (s *FalkorStore) Close() error {
	if s.db != nil && s.db.Conn != nil {
		return s.db.Conn.Close()
	}
	return nil
}

func (s *FalkorStore) Name() string { return "memory.falkor" }

func (s *FalkorStore) Ensure(_ context.Context, collection string, dim int) error {
	if s.graph == nil {
		return fmt.Errorf("memory: not connected")
	}
	// A vector index per experience collection, idempotent to create.
	query := fmt.Sprintf(
		"CREATE VECTOR INDEX FOR (e:%s) ON (e.vector) OPTIONS {dimension: %d, similarityFunction: 'cosine'}",
		collection, dim,
	)
	if _, err := s.graph.Query(query, nil, nil); err != nil {
		// FalkorDB reports an error when the index already exists;
		// this is not fatal — Ensure is idempotent by contract.
		s.logger.DebugWithFields("vector index create returned an error, assuming already exists",
			logging.Field("collection", collection),
			logging.Field("error", err.Error()),
		)
	}
	return nil
}

func (s *FalkorStore) Exists(_ context.Context, collection string) (bool, error) {
	if s.graph == nil {
		return false, fmt.Errorf("memory: not connected")
	}
	result, err := s.graph.Query(
		fmt.Sprintf("MATCH (e:%s) RETURN count(e) AS c LIMIT 1", collection), nil, nil)
	if err != nil {
		return false, fmt.Errorf("memory: check collection existence: %w", err)
	}
	return result.Next(), nil
}

func (s *FalkorStore) Upsert(_ context.Context, unit situation.ExperienceUnit, vector []float64) error {
	if s.graph == nil {
		return fmt.Errorf("memory: not connected")
	}
	payload, err := json.Marshal(unit.ToMap())
	if err != nil {
		return fmt.Errorf("memory: serialize unit: %w", err)
	}
	id := DeterministicID(unit.SourceCaseID, unit.Phase)
	params := map[string]any{
		"id":      id,
		"vector":  vector,
		"payload": string(payload),
	}
	query := "MERGE (e:Experience {id: $id}) SET e.vector = vecf32($vector), e.payload = $payload"
	if _, err := s.graph.Query(query, params, nil); err != nil {
		return fmt.Errorf("memory: upsert experience %s: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Purge()
	}
	return nil
}

func (s *FalkorStore) Knn(_ context.Context, vector []float64, k int) ([]ScoredUnit, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("memory: not connected")
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(fmt.Sprintf("%s|%d", vectorFingerprint(vector), k)); ok {
			if s.metrics != nil {
				s.metrics.StoreCacheHitsTotal.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.StoreCacheMissTotal.Inc()
		}
	}
	query := `CALL db.idx.vector.queryNodes('Experience', 'vector', $k, vecf32($vector))
YIELD node, score RETURN node.payload AS payload, score`
	params := map[string]any{"vector": vector, "k": k}
	result, err := s.graph.Query(query, params, nil)
	if err != nil {
		return nil, fmt.Errorf("memory: knn query: %w", err)
	}

	var out []ScoredUnit
	for result.Next() {
		rec := result.Record()
		values := rec.Values()
		if len(values) != 2 {
			continue
		}
		payloadStr, ok := values[0].(string)
		if !ok {
			s.logger.WarnWithFields("skipping candidate with non-string payload", logging.Field("type", fmt.Sprintf("%T", values[0])))
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(payloadStr), &m); err != nil {
			s.logger.WarnWithFields("skipping candidate with malformed payload", logging.Field("error", err.Error()))
			continue
		}
		score, _ := values[1].(float64)
		out = append(out, ScoredUnit{
			Unit:  situation.ExperienceUnitFromMap(m),
			Score: normalizeCosine(score),
		})
	}

	if s.cache != nil {
		s.cache.Add(fmt.Sprintf("%s|%d", vectorFingerprint(vector), k), out)
	}
	return out, nil
}
