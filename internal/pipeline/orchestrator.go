// Package pipeline runs the stages S0..S5 in order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/export"
	"github.com/wonny/proptier/internal/ingest"
	"github.com/wonny/proptier/internal/join"
	"github.com/wonny/proptier/internal/report"
	"github.com/wonny/proptier/internal/tiering"
	"github.com/wonny/proptier/pkg/logger"
)

// Orchestrator coordinates the whole pipeline
// ⭐ SSOT: stage ordering lives here only
type Orchestrator struct {
	// Stage components
	source     *ingest.FileSource
	resolver   *join.Resolver
	indexCache *join.IndexCache // nil: always parse the lookup file
	scorer     contracts.Scorer
	classifier contracts.Classifier
	exporters  []contracts.Exporter

	modelHash string
	logger    *logger.Logger
}

// Options wires an Orchestrator
type Options struct {
	Source     *ingest.FileSource
	Resolver   *join.Resolver
	IndexCache *join.IndexCache
	Scorer     contracts.Scorer
	Classifier contracts.Classifier
	Exporters  []contracts.Exporter
	ModelHash  string
	Logger     *logger.Logger
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	Manifest     *contracts.RunManifest
	Records      []contracts.EnrichedRecord
	Diagnostics  *contracts.JoinDiagnostics
	Summary      *report.Summary
	ManifestPath string // empty when no file sink was configured
	Success      bool
	Error        error
	Duration     time.Duration
}

// CheckResult holds the outcome of S0+S1 only
type CheckResult struct {
	Inputs      []contracts.InputFile
	Diagnostics *contracts.JoinDiagnostics
	CacheHit    bool
}

// ingested is the S0 output
type ingested struct {
	areas       *join.AreaIndex
	deprivation *join.DeprivationIndex
	sales       []contracts.SaleRecord
	inputs      []contracts.InputFile
	cacheHit    bool
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		source:     opts.Source,
		resolver:   opts.Resolver,
		indexCache: opts.IndexCache,
		scorer:     opts.Scorer,
		classifier: opts.Classifier,
		exporters:  opts.Exporters,
		modelHash:  opts.ModelHash,
		logger:     log,
	}
}

// Run executes the complete pipeline
// S0 → S1 → S2 → S3 → S4 → S5; the first fatal error stops the run.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()

	manifest := export.NewManifest(o.modelHash)
	result := &RunResult{Manifest: manifest}

	o.logger.WithFields(map[string]interface{}{
		"run_id":     manifest.RunID,
		"model_hash": o.modelHash,
		"sinks":      len(o.exporters),
	}).Info("Starting pipeline run")

	fail := func(err error) (*RunResult, error) {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result, err
	}

	// S0: Ingest
	var in *ingested
	err := o.track(manifest, contracts.StageIngest, 0, func() (int, map[string]interface{}, error) {
		var err error
		in, err = o.runS0(ctx)
		if err != nil {
			return 0, nil, err
		}
		return len(in.sales), map[string]interface{}{"area_index_cached": in.cacheHit}, nil
	})
	if err != nil {
		return fail(err)
	}
	manifest.Inputs = in.inputs

	// S1: Join
	var records []contracts.EnrichedRecord
	err = o.track(manifest, contracts.StageJoin, len(in.sales), func() (int, map[string]interface{}, error) {
		var diag *contracts.JoinDiagnostics
		var err error
		records, diag, err = o.resolver.JoinIndexed(ctx, in.sales, in.areas, in.deprivation)
		if err != nil {
			return 0, nil, err
		}
		result.Diagnostics = diag
		manifest.Join = diag
		return len(records), nil, nil
	})
	if err != nil {
		return fail(err)
	}

	// S2: Scoring
	err = o.track(manifest, contracts.StageScoring, len(records), func() (int, map[string]interface{}, error) {
		var err error
		records, err = o.scorer.Score(ctx, records)
		return len(records), nil, err
	})
	if err != nil {
		return fail(err)
	}

	// S3: Tiering
	err = o.track(manifest, contracts.StageTiering, len(records), func() (int, map[string]interface{}, error) {
		var err error
		records, err = o.classifier.Classify(ctx, records)
		if err != nil {
			return 0, nil, err
		}
		manifest.TierCounts = tiering.Counts(records)
		manifest.RecordCount = len(records)
		return len(records), nil, nil
	})
	if err != nil {
		return fail(err)
	}
	result.Records = records

	// S4: Export
	err = o.track(manifest, contracts.StageExport, len(records), func() (int, map[string]interface{}, error) {
		written, err := o.runS4(ctx, manifest, records)
		return len(records), map[string]interface{}{"sinks": written}, err
	})
	if err != nil {
		return fail(err)
	}

	// S5: Report
	err = o.track(manifest, contracts.StageReport, len(records), func() (int, map[string]interface{}, error) {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		result.Summary = report.Build(records)
		return len(result.Summary.Tiers), nil, nil
	})
	if err != nil {
		return fail(err)
	}

	manifest.FinishedAt = time.Now().UTC()
	if path := o.manifestPath(); path != "" {
		if err := export.WriteManifest(path, manifest); err != nil {
			return fail(err)
		}
		result.ManifestPath = path
	}

	// Mark success
	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   manifest.RunID,
		"records":  len(records),
		"duration": result.Duration.Seconds(),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// Check runs S0 and S1 only: join coverage without scoring or writing
func (o *Orchestrator) Check(ctx context.Context) (*CheckResult, error) {
	in, err := o.runS0(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", contracts.StageIngest.ShortName(), err)
	}

	_, diag, err := o.resolver.JoinIndexed(ctx, in.sales, in.areas, in.deprivation)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", contracts.StageJoin.ShortName(), err)
	}

	return &CheckResult{Inputs: in.inputs, Diagnostics: diag, CacheHit: in.cacheHit}, nil
}

// runS0 reads the inputs and builds both lookup indexes
func (o *Orchestrator) runS0(ctx context.Context) (*ingested, error) {
	o.logger.Info("Running S0: Ingest")

	in := &ingested{}

	postcodesSum, err := ingest.FileSHA256(o.source.PostcodesPath)
	if err != nil {
		return nil, err
	}
	if o.indexCache != nil {
		in.areas, in.cacheHit, err = o.indexCache.Load(ctx, postcodesSum, o.source.AreaLinks)
	} else {
		var links []contracts.AreaLink
		links, err = o.source.AreaLinks(ctx)
		in.areas = join.BuildAreaIndex(links)
	}
	if err != nil {
		return nil, fmt.Errorf("postcode lookup: %w", err)
	}
	in.inputs = append(in.inputs, contracts.InputFile{
		Role:   ingest.RolePostcodes,
		Path:   o.source.PostcodesPath,
		SHA256: postcodesSum,
		Rows:   in.areas.Len(),
	})

	deprivation, err := o.source.Deprivation(ctx)
	if err != nil {
		return nil, fmt.Errorf("deprivation: %w", err)
	}
	in.deprivation = join.BuildDeprivationIndex(deprivation)
	desc, err := o.source.Describe(ingest.RoleDeprivation, len(deprivation))
	if err != nil {
		return nil, err
	}
	in.inputs = append(in.inputs, desc)

	in.sales, err = o.source.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}
	desc, err = o.source.Describe(ingest.RoleSales, len(in.sales))
	if err != nil {
		return nil, err
	}
	in.inputs = append(in.inputs, desc)

	o.logger.WithFields(map[string]interface{}{
		"postcodes": in.areas.Len(),
		"areas":     in.deprivation.Len(),
		"sales":     len(in.sales),
		"cache_hit": in.cacheHit,
	}).Info("S0 completed")

	return in, nil
}

// runS4 writes every sink in configuration order
func (o *Orchestrator) runS4(ctx context.Context, manifest *contracts.RunManifest, records []contracts.EnrichedRecord) (int, error) {
	o.logger.Info("Running S4: Export")

	for _, e := range o.exporters {
		if err := ctx.Err(); err != nil {
			return len(manifest.Outputs), err
		}
		target := export.Describe(e)
		if err := e.Export(ctx, manifest, records); err != nil {
			return len(manifest.Outputs), fmt.Errorf("export %s: %w", target, err)
		}
		manifest.Outputs = append(manifest.Outputs, target)

		o.logger.WithFields(map[string]interface{}{
			"sink":    e.Name(),
			"target":  target,
			"records": len(records),
		}).Info("Export written")
	}
	return len(manifest.Outputs), nil
}

// manifestPath sits next to the first file output
func (o *Orchestrator) manifestPath() string {
	for _, e := range o.exporters {
		if f, ok := e.(export.FileSink); ok {
			return export.ManifestPath(f.Path())
		}
	}
	return ""
}

// track runs one stage and records its PipelineResult
func (o *Orchestrator) track(m *contracts.RunManifest, stage contracts.Stage, inputCount int, fn func() (int, map[string]interface{}, error)) error {
	start := time.Now()
	outputCount, metadata, err := fn()

	res := contracts.PipelineResult{
		Stage:       stage,
		Success:     err == nil,
		InputCount:  inputCount,
		OutputCount: outputCount,
		Duration:    time.Since(start).Milliseconds(),
		Metadata:    metadata,
	}
	if err != nil {
		res.Error = err.Error()
	}
	m.Stages = append(m.Stages, res)

	if err != nil {
		o.logger.WithError(err).WithField("stage", stage.String()).Error("Stage failed")
		return fmt.Errorf("%s failed: %w", stage.ShortName(), err)
	}
	return nil
}
