// Package pipeline implements the lead processing pipeline: discovery fan-out
// followed by dedupe, enrichment, validation, timing analysis, scoring, and
// ranking. Stages run strictly in order; inside a stage, leads are processed
// concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/crm"
	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

const defaultConcurrency = 8

// Pipeline orchestrates the seven stages over the configured producers.
type Pipeline struct {
	producers   []discovery.Producer
	enricher    *Enricher
	validator   *Validator
	timing      *TimingAnalyzer
	store       store.Store
	syncer      *crm.Syncer
	concurrency int
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithStore persists ranked leads and run history after each execution.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithSyncer pushes pipeline output to the CRM destinations after ranking.
func WithSyncer(s *crm.Syncer) Option {
	return func(p *Pipeline) { p.syncer = s }
}

// WithConcurrency bounds the per-stage lead fan-out width.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New creates a pipeline over the given producers and stage processors.
func New(producers []discovery.Producer, enricher *Enricher, validator *Validator, timing *TimingAnalyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		producers:   producers,
		enricher:    enricher,
		validator:   validator,
		timing:      timing,
		concurrency: defaultConcurrency,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Execute runs the full pipeline. It always returns a structured result:
// stage failures are reported through the result, never as a panic or a lost
// run. A stage failure discards the partially processed leads; an execution
// that discovers nothing is a successful empty run.
func (p *Pipeline) Execute(ctx context.Context) (result *model.ExecutionResult) {
	start := time.Now()
	log := zap.L()
	log.Info("pipeline: starting execution")

	result = &model.ExecutionResult{
		Timestamp: start.UTC(),
		Metadata:  make(map[string]any),
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: recovered from panic", zap.Any("panic", r))
			result.Success = false
			result.Leads = nil
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Elapsed = time.Since(start)
		}
	}()

	trackStage := func(stage model.Stage, fn func() ([]*model.Lead, error)) []*model.Lead {
		stageStart := time.Now()
		leads, err := fn()
		sr := model.StageResult{
			Stage:     stage,
			Success:   err == nil,
			Leads:     leads,
			Processed: len(leads),
			Duration:  time.Since(stageStart),
		}
		if err != nil {
			sr.Error = err.Error()
			result.Error = err.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.Duration("duration", sr.Duration),
				zap.Error(err),
			)
		} else {
			log.Info("pipeline: stage complete",
				zap.String("stage", string(stage)),
				zap.Int("leads", len(leads)),
				zap.Duration("duration", sr.Duration),
			)
		}
		result.Stages = append(result.Stages, sr)
		return leads
	}

	finish := func(leads []*model.Lead) *model.ExecutionResult {
		result.Leads = leads
		result.Elapsed = time.Since(start)
		result.Success = result.Error == ""
		result.Metadata["stage_counts"] = stageCounts(result.Stages)
		p.persist(ctx, result)
		log.Info("pipeline: execution complete",
			zap.Bool("success", result.Success),
			zap.Int("leads", len(result.Leads)),
			zap.Duration("elapsed", result.Elapsed),
		)
		return result
	}

	// Stage 1: discovery fan-out across industry producers.
	leads := trackStage(model.StageSearch, func() ([]*model.Lead, error) {
		return discovery.FanOut(ctx, p.producers), nil
	})
	if len(leads) == 0 {
		log.Warn("pipeline: no leads discovered, skipping remaining stages")
		return finish([]*model.Lead{})
	}

	// Stage 2: collapse duplicates across producers.
	leads = trackStage(model.StageDedupe, func() ([]*model.Lead, error) {
		return Dedupe(leads), nil
	})

	// Stage 3: enrichment, per-lead concurrent.
	leads = trackStage(model.StageEnrich, func() ([]*model.Lead, error) {
		return leads, p.forEach(ctx, leads, p.enricher.Enrich)
	})
	if result.Error != "" {
		log.Warn("pipeline: stage failed, discarding partial results")
		return finish(nil)
	}

	// Stage 4: profile validation. Disqualified leads stay in the output so
	// downstream consumers see the full picture with statuses attached.
	leads = trackStage(model.StageValidate, func() ([]*model.Lead, error) {
		return leads, p.forEach(ctx, leads, func(ctx context.Context, lead *model.Lead) {
			p.validator.Validate(ctx, lead)
		})
	})
	if result.Error != "" {
		log.Warn("pipeline: stage failed, discarding partial results")
		return finish(nil)
	}

	// Stage 5: timing analysis.
	leads = trackStage(model.StageTiming, func() ([]*model.Lead, error) {
		return leads, p.forEach(ctx, leads, p.timing.Analyze)
	})
	if result.Error != "" {
		log.Warn("pipeline: stage failed, discarding partial results")
		return finish(nil)
	}

	// Stage 6: scoring is pure and deterministic, no fan-out needed.
	leads = trackStage(model.StageScore, func() ([]*model.Lead, error) {
		for _, lead := range leads {
			lead.Score = Score(lead)
		}
		return leads, nil
	})

	// Stage 7: rank by overall score.
	leads = trackStage(model.StageRank, func() ([]*model.Lead, error) {
		Rank(leads)
		return leads, nil
	})

	return finish(leads)
}

// forEach applies fn to every lead with bounded concurrency. A lead whose
// processing is cut short by cancellation passes through unmodified; the only
// stage-level error is context cancellation.
func (p *Pipeline) forEach(ctx context.Context, leads []*model.Lead, fn func(context.Context, *model.Lead)) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, lead := range leads {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fn(gCtx, lead)
			return nil
		})
	}
	return g.Wait()
}

// persist saves the run and its leads, then pushes to CRM. Both are
// best-effort: persistence problems are logged, not propagated.
func (p *Pipeline) persist(ctx context.Context, result *model.ExecutionResult) {
	if p.store != nil {
		if err := p.store.SaveLeads(ctx, result.Leads); err != nil {
			zap.L().Warn("pipeline: save leads failed", zap.Error(err))
		}
		if record, err := p.store.SaveRun(ctx, result); err != nil {
			zap.L().Warn("pipeline: save run failed", zap.Error(err))
		} else {
			result.Metadata["run_id"] = record.ID
		}
	}

	if p.syncer != nil && len(result.Leads) > 0 {
		syncResult := p.syncer.Sync(ctx, result.Leads)
		result.Metadata["crm_sync"] = syncResult
		zap.L().Info("pipeline: crm sync complete",
			zap.Int("salesforce_pushed", syncResult.SalesforcePushed),
			zap.Int("review_queued", syncResult.ReviewQueued),
			zap.Int("failures", syncResult.Failures),
		)
	}
}

func stageCounts(stages []model.StageResult) map[string]int {
	counts := make(map[string]int, len(stages))
	for _, s := range stages {
		counts[string(s.Stage)] = s.Processed
	}
	return counts
}
