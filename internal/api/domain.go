package api

import (
	"fmt"

	"github.com/veridia/clauseguard/internal/classification"
	"github.com/veridia/clauseguard/internal/config"
	"github.com/veridia/clauseguard/internal/evaluation"
	"github.com/veridia/clauseguard/internal/extraction"
	"github.com/veridia/clauseguard/internal/jobs"
	"github.com/veridia/clauseguard/internal/pipeline"
	"github.com/veridia/clauseguard/internal/playbook"
	"github.com/veridia/clauseguard/internal/provider"
	"github.com/veridia/clauseguard/internal/reviews"
	"github.com/veridia/clauseguard/pkg/retry"
)

// Domain holds the domain systems and the pipeline runtime behind the API.
type Domain struct {
	Reviews    reviews.System
	Playbook   *playbook.Playbook
	Dispatcher *jobs.Dispatcher
}

// NewDomain creates all domain systems from the API runtime, wires the
// pipeline processor, and starts the job dispatcher under the lifecycle
// coordinator.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	pb, err := playbook.NewLoader().Load(cfg.Pipeline.PlaybookPath)
	if err != nil {
		return nil, fmt.Errorf("load playbook: %w", err)
	}

	reviewSystem := reviews.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	var textProvider provider.Provider
	if cfg.Pipeline.ExternalClassification || cfg.Pipeline.ExternalEvaluation {
		textProvider = provider.NewAnthropic(&cfg.Provider)
	}

	classifier := classification.New(classification.Options{
		Playbook:      pb,
		Provider:      textProvider,
		TopK:          cfg.Pipeline.ClassifyTopK,
		MinConfidence: cfg.Pipeline.ClassifyMinConfidence,
		UseExternal:   cfg.Pipeline.ExternalClassification,
		Logger:        runtime.Logger,
	})

	evaluator := evaluation.New(evaluation.Options{
		Provider:    textProvider,
		Policy:      retry.DefaultPolicy(),
		CharBudget:  cfg.Pipeline.PromptCharBudget,
		UseExternal: cfg.Pipeline.ExternalEvaluation,
		Logger:      runtime.Logger,
	})

	processor := pipeline.New(pipeline.Options{
		Reviews:    reviewSystem,
		Storage:    runtime.Storage,
		Extractor:  extraction.New(cfg.Pipeline.MaxUploadSizeBytes(), cfg.Pipeline.TextDensityThreshold),
		Classifier: classifier,
		Evaluator:  evaluator,
		Playbook:   pb,
		Logger:     runtime.Logger,
	})

	dispatcher := jobs.New(jobs.Options{
		Process: processor.Process,
		Logger:  runtime.Logger,
	})
	dispatcher.Start(runtime.Lifecycle)

	return &Domain{
		Reviews:    reviewSystem,
		Playbook:   pb,
		Dispatcher: dispatcher,
	}, nil
}
