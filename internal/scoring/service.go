package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/returnguard/returnguard/internal/idgen"
	"github.com/returnguard/returnguard/internal/metrics"
	"github.com/returnguard/returnguard/internal/model"
	"github.com/returnguard/returnguard/internal/pagination"
	"github.com/returnguard/returnguard/internal/traces"
	"go.opentelemetry.io/otel/attribute"
)

// Service runs the scoring pipeline against an immutable model artifact.
// Safe for concurrent use: the artifact and policy are read-only after
// construction and no per-request state is shared.
type Service struct {
	artifact *model.Artifact
	policy   Policy
	store    Store
	topN     int
	logger   *slog.Logger
}

// NewService creates a scoring service backed by the given artifact and
// audit store.
func NewService(artifact *model.Artifact, policy Policy, store Store, topN int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		artifact: artifact,
		policy:   policy,
		store:    store,
		topN:     topN,
		logger:   logger,
	}
}

// Artifact exposes the loaded model handle for health and metrics reporting.
func (s *Service) Artifact() *model.Artifact {
	return s.artifact
}

// Score runs the full pipeline for one request: vectorize, predict, decide,
// explain. Fails synchronously with one of the closed error kinds; no
// retries, no partial results.
func (s *Service) Score(ctx context.Context, req *ReturnRequest) (*ScoreResult, error) {
	ctx, span := traces.StartSpan(ctx, "scoring.Score",
		traces.UserID(req.UserID),
		traces.OrderID(req.OrderID),
	)
	defer span.End()

	vector, score, err := s.predict(req)
	if err != nil {
		return nil, err
	}

	flagged, confidence := s.policy.Evaluate(score)

	meta := s.artifact.Metadata()
	factors, err := TopRiskFactors(vector, meta.FeatureNames, meta.FeatureImportance, s.topN)
	if err != nil {
		metrics.ScoringErrorsTotal.WithLabelValues("computation").Inc()
		return nil, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	result := &ScoreResult{
		RiskScore:      score,
		IsFlagged:      flagged,
		Confidence:     confidence,
		TopRiskFactors: factors,
		Timestamp:      time.Now().UTC(),
		ModelVersion:   s.artifact.Version(),
	}

	span.SetAttributes(
		attribute.Float64("risk.score", score),
		attribute.Bool("risk.flagged", flagged),
		traces.ModelVersion(result.ModelVersion),
	)
	s.observe(result)
	s.record(req, result)

	return result, nil
}

// ScoreBatch runs vectorize → predict → decide for each record in order,
// skipping the explanation for throughput. The batch is atomic: any single
// failure fails the whole call with one error and no partial result.
func (s *Service) ScoreBatch(ctx context.Context, reqs []ReturnRequest) (*BatchResult, error) {
	_, span := traces.StartSpan(ctx, "scoring.ScoreBatch",
		attribute.Int("batch.size", len(reqs)),
	)
	defer span.End()

	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]BatchItem, 0, len(reqs))
	flaggedCount := 0

	for i := range reqs {
		req := &reqs[i]
		_, score, err := s.predict(req)
		if err != nil {
			metrics.BatchRequestsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("record %d (order %s): %w", i, req.OrderID, err)
		}

		flagged, _ := s.policy.Evaluate(score)
		if flagged {
			flaggedCount++
		}

		results = append(results, BatchItem{
			UserID:    req.UserID,
			OrderID:   req.OrderID,
			RiskScore: score,
			IsFlagged: flagged,
			Timestamp: time.Now().UTC(),
		})
	}

	metrics.BatchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.BatchSize.Observe(float64(len(results)))

	return &BatchResult{
		Results:        results,
		TotalProcessed: len(results),
		FlaggedCount:   flaggedCount,
	}, nil
}

// RankedImportance returns the full importance list sorted descending, or
// an empty list when metadata is unavailable.
func (s *Service) RankedImportance() []ImportanceEntry {
	meta := s.artifact.Metadata()
	if meta == nil {
		return []ImportanceEntry{}
	}
	return RankImportance(meta.FeatureNames, meta.FeatureImportance)
}

// History returns one page of persisted score events for a user, most
// recent first, plus an opaque cursor for the next page when one exists.
func (s *Service) History(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) ([]*ScoreEvent, string, error) {
	events, err := s.store.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, "", err
	}
	page, next, _ := pagination.ComputePage(events, limit, func(e *ScoreEvent) (time.Time, string) {
		return e.ScoredAt, e.ID
	})
	return page, next, nil
}

// predict vectorizes the request and invokes the scorer, mapping failures
// onto the closed error kinds.
func (s *Service) predict(req *ReturnRequest) ([]float64, float64, error) {
	if !s.artifact.ModelLoaded() {
		metrics.ScoringErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, 0, ErrModelUnavailable
	}
	meta := s.artifact.Metadata()
	if meta == nil {
		metrics.ScoringErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, 0, ErrMetadataUnavailable
	}

	vector := Vectorize(req, meta.FeatureNames)

	score, err := s.artifact.Scorer().Predict(vector)
	if err != nil {
		metrics.ScoringErrorsTotal.WithLabelValues("computation").Inc()
		return nil, 0, fmt.Errorf("%w: %v", ErrComputation, err)
	}
	return vector, score, nil
}

// observe updates scoring metrics for one decision.
func (s *Service) observe(result *ScoreResult) {
	decision := "clear"
	if result.IsFlagged {
		decision = "flagged"
	}
	metrics.ScoresTotal.WithLabelValues(decision).Inc()
	metrics.ScoreValue.Observe(result.RiskScore)
}

// record persists the decision asynchronously (best-effort audit trail).
func (s *Service) record(req *ReturnRequest, result *ScoreResult) {
	if s.store == nil {
		return
	}
	event := &ScoreEvent{
		ID:           idgen.WithPrefix("score_"),
		UserID:       req.UserID,
		OrderID:      req.OrderID,
		RiskScore:    result.RiskScore,
		IsFlagged:    result.IsFlagged,
		Confidence:   result.Confidence,
		ModelVersion: result.ModelVersion,
		ScoredAt:     result.Timestamp,
	}
	go func() {
		if err := s.store.Record(context.Background(), event); err != nil {
			s.logger.Warn("failed to record score event", "error", err, "event_id", event.ID)
		}
	}()
}
