// Package classification scores contract segments against the clause-type
// taxonomy. Stage one is a deterministic keyword classifier driven by
// playbook keywords with a built-in fallback table; stage two is an optional
// external model fallback used only when the keyword stage is not confident
// enough.
package classification

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/veridia/clauseguard/internal/clauses"
	"github.com/veridia/clauseguard/internal/playbook"
	"github.com/veridia/clauseguard/internal/provider"
	"github.com/veridia/clauseguard/pkg/formatting"
)

// Classification methods.
const (
	MethodRules    = "rules"
	MethodExternal = "external"
)

// maxRuleConfidence caps keyword-derived confidence so rule matches never
// outrank a fully confident external classification.
const maxRuleConfidence = 0.9

// Result is one clause-type candidate for a segment.
type Result struct {
	ClauseType clauses.Type
	Confidence float64
	Method     string
}

// Classifier ranks segments against the clause taxonomy.
type Classifier struct {
	playbook      *playbook.Playbook
	provider      provider.Provider
	topK          int
	minConfidence float64
	useExternal   bool
	logger        *slog.Logger
}

// Options configures a classifier. Provider may be nil when external
// classification is disabled.
type Options struct {
	Playbook      *playbook.Playbook
	Provider      provider.Provider
	TopK          int
	MinConfidence float64
	UseExternal   bool
	Logger        *slog.Logger
}

// New creates a classifier.
func New(opts Options) *Classifier {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Classifier{
		playbook:      opts.Playbook,
		provider:      opts.Provider,
		topK:          opts.TopK,
		minConfidence: opts.MinConfidence,
		useExternal:   opts.UseExternal,
		logger:        opts.Logger,
	}
}

// Classify returns ranked clause-type candidates for a segment. Keyword
// results that clear the confidence threshold win outright; otherwise the
// external fallback is consulted, and its results are used when non-empty.
// Below-threshold keyword results are the last resort.
func (c *Classifier) Classify(ctx context.Context, segmentText string) []Result {
	ruleResults := c.classifyRules(segmentText)
	if len(ruleResults) > 0 && ruleResults[0].Confidence >= c.minConfidence {
		return ruleResults
	}

	if external := c.classifyExternal(ctx, segmentText); len(external) > 0 {
		return external
	}
	return ruleResults
}

// classifyRules scores every clause type by distinct keyword presence.
// Confidence scales with the fraction of the type's keywords present,
// doubled and capped; frequency of a keyword does not matter.
func (c *Classifier) classifyRules(segmentText string) []Result {
	normalized := strings.ToLower(segmentText)

	var results []Result
	for _, clauseType := range clauses.All() {
		keywords := c.keywordsFor(clauseType)
		if len(keywords) == 0 {
			continue
		}

		matched := 0
		for _, keyword := range keywords {
			if strings.Contains(normalized, keyword) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		confidence := min(float64(matched)/float64(len(keywords))*2, maxRuleConfidence)
		results = append(results, Result{
			ClauseType: clauseType,
			Confidence: confidence,
			Method:     MethodRules,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].ClauseType < results[j].ClauseType
	})

	if c.topK > 0 && len(results) > c.topK {
		results = results[:c.topK]
	}
	return results
}

func (c *Classifier) keywordsFor(clauseType clauses.Type) []string {
	if keywords := c.playbook.KeywordsFor(clauseType); len(keywords) > 0 {
		return keywords
	}
	return fallbackKeywords[clauseType]
}

type externalCandidate struct {
	ClauseType string  `json:"clause_type"`
	Confidence float64 `json:"confidence"`
}

// classifyExternal asks the external model for clause-type candidates. Any
// provider failure or malformed response yields an empty result rather than
// an error so that rule results remain usable as a last resort.
func (c *Classifier) classifyExternal(ctx context.Context, segmentText string) []Result {
	if !c.useExternal || c.provider == nil {
		return nil
	}

	response, err := c.provider.Generate(ctx, classificationPrompt(segmentText))
	if err != nil {
		c.logger.Warn("external classification failed", "error", err)
		return nil
	}

	candidates, err := formatting.Parse[[]externalCandidate](response)
	if err != nil {
		c.logger.Warn("external classification returned unparseable response")
		return nil
	}

	var results []Result
	for _, candidate := range candidates {
		clauseType, ok := clauses.Resolve(candidate.ClauseType)
		if !ok {
			continue
		}
		results = append(results, Result{
			ClauseType: clauseType,
			Confidence: candidate.Confidence,
			Method:     MethodExternal,
		})
	}
	return results
}
