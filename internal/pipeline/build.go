package pipeline

import (
	"context"
	"fmt"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/export"
	"github.com/wonny/proptier/internal/ingest"
	"github.com/wonny/proptier/internal/join"
	"github.com/wonny/proptier/internal/modelconfig"
	"github.com/wonny/proptier/internal/scoring"
	"github.com/wonny/proptier/internal/tiering"
	"github.com/wonny/proptier/pkg/config"
	"github.com/wonny/proptier/pkg/httputil"
	"github.com/wonny/proptier/pkg/logger"
	"github.com/wonny/proptier/pkg/redis"
)

// cachePrefix namespaces proptier keys in a shared Redis
const cachePrefix = "proptier"

// Build wires an Orchestrator from configuration
// The returned cleanup closes the Redis client, if one was opened.
func Build(ctx context.Context, cfg *config.Config, model *modelconfig.Config, log *logger.Logger) (*Orchestrator, func(), error) {
	if err := cfg.ValidateInputs(); err != nil {
		return nil, nil, err
	}

	modelHash, err := modelconfig.Hash(model)
	if err != nil {
		return nil, nil, fmt.Errorf("hash model config: %w", err)
	}

	// Inputs given as URLs are downloaded before S0
	fetcher := ingest.NewFetcher(httputil.New(cfg, log), cfg.Inputs.CacheDir, log)
	inputs, err := fetcher.ResolveAll(ctx, cfg.Inputs.PostcodesPath, cfg.Inputs.DeprivationPath, cfg.Inputs.SalesPath)
	if err != nil {
		return nil, nil, err
	}

	exporters, err := export.NewAll(cfg.Outputs.Targets, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Outputs.ShapesPath != "" {
		exporters = append(exporters, export.NewMapLayer(cfg.Outputs.ShapesPath, cfg.Outputs.MapPath).WithNameFilter(cfg.Outputs.MapFilter))
	}

	cleanup := func() {}
	var indexCache *join.IndexCache
	if cfg.Redis.Enabled {
		client, err := redis.New(ctx, cfg)
		if err != nil {
			// Cache only: fall back to parsing the lookup file
			log.WithError(err).Warn("Redis unavailable, area index cache disabled")
		} else {
			cleanup = func() { _ = client.Close() }
			indexCache = join.NewIndexCache(redis.NewCache(client, cachePrefix), cfg.Redis.CacheTTL, log)
		}
	}

	o := NewOrchestrator(Options{
		Source:     ingest.NewFileSource(inputs[0], inputs[1], inputs[2]),
		Resolver:   join.NewResolver(log),
		IndexCache: indexCache,
		Scorer:     scoring.NewEngine(model, log),
		Classifier: tiering.NewClassifier(model, log),
		Exporters:  exporters,
		ModelHash:  modelHash,
		Logger:     log,
	})
	return o, cleanup, nil
}

// Exporters returns the configured sinks
func (o *Orchestrator) Exporters() []contracts.Exporter {
	return o.exporters
}
