// Package pipeline orchestrates one enhancement run: normalize, extract
// gaps, call the generation collaborator, reconcile its output, repair
// grammar, and validate the result.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gapfill/internal/cache"
	"gapfill/internal/domain"
	"gapfill/internal/extract"
	"gapfill/internal/grammar"
	"gapfill/internal/llm"
	"gapfill/internal/model"
	"gapfill/internal/reconcile"
	"gapfill/internal/textnorm"
	"gapfill/internal/validate"
)

// RateLimiter gates calls to the generation collaborator.
type RateLimiter interface {
	Wait(ctx context.Context, key string) error
}

// Request is one enhancement request.
type Request struct {
	// Description is the raw input text with gaps
	Description string

	// Domain selects vocabulary rules and the system prompt ("" skips
	// domain checks)
	Domain string

	// Attributes are item metadata forwarded into the prompt
	Attributes map[string]string

	// Level overrides the configured guardrail strictness
	Level string

	// Model overrides the configured model for this request
	Model string
}

// Pipeline orchestrates the complete enhancement process.
type Pipeline struct {
	provider  llm.Provider // nil when generation is disabled
	registry  *domain.Registry
	corrector *grammar.Corrector
	validator *validate.Validator
	cache     cache.Cache
	limiter   RateLimiter
	config    *model.Config
}

// NewPipeline creates a pipeline from the configuration. A provider or
// cache that fails to initialize is logged and disabled rather than
// aborting startup; the limiter may be nil.
func NewPipeline(cfg *model.Config, limiter RateLimiter) *Pipeline {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize provider: %v\n", err)
		} else {
			provider = p
		}
	}

	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
	}

	registry := domain.NewRegistry()

	return &Pipeline{
		provider:  provider,
		registry:  registry,
		corrector: grammar.NewCorrector(),
		validator: validate.NewValidator(registry, cfg.Validation.MinLength, cfg.Validation.MaxLength),
		cache:     resultCache,
		limiter:   limiter,
		config:    cfg,
	}
}

// Registry exposes the domain registry so callers can load extra packs.
func (p *Pipeline) Registry() *domain.Registry {
	return p.registry
}

// Provider returns the configured provider, nil when disabled.
func (p *Pipeline) Provider() llm.Provider {
	return p.provider
}

// Enhance runs the full pipeline for one description.
func (p *Pipeline) Enhance(ctx context.Context, req Request) (*model.Enhancement, error) {
	start := time.Now()

	// 1. Normalize whitespace, punctuation, and gap markers
	normalized := textnorm.Normalize(req.Description)

	// 2. Extract gaps with their grammatical context. Malformed markers
	// fail here, before any collaborator call.
	gaps, err := extract.Extract(normalized)
	if err != nil {
		return nil, fmt.Errorf("extract gaps: %w", err)
	}

	level := validate.ParseLevel(req.Level)
	if req.Level == "" {
		level = validate.ParseLevel(p.config.Validation.Level)
	}

	// No gaps means nothing to generate: correct and validate as-is.
	if len(gaps) == 0 {
		return p.assemble(normalized, normalized, &model.ReconciledText{
			Text:     normalized,
			Original: normalized,
			Fillers:  map[int]string{},
		}, nil, nil, req, level, "", start), nil
	}

	if p.provider == nil {
		return nil, fmt.Errorf("no generation provider configured")
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.LLM.Model
	}

	// 3. Cache lookup keyed by domain, model, and normalized text
	cacheKey := cache.Key(req.Domain, modelName, normalized)
	if p.cache != nil {
		if data, found := p.cache.Get(cacheKey); found {
			var cached model.Enhancement
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	// 4. Generation call, rate-limited per provider
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	systemPrompt := ""
	if rules, ok := p.registry.Lookup(req.Domain); ok {
		systemPrompt = rules.SystemPrompt
	}

	genResp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		Text:         normalized,
		Gaps:         gaps,
		SystemPrompt: systemPrompt,
		Attributes:   req.Attributes,
		Model:        req.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	// 5. Reconcile the raw output against the extracted gaps
	rec, err := reconcile.Reconcile(genResp.Raw, gaps, normalized)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	// 6. Grammar correction
	_, suggestions := p.corrector.Correct(rec, gaps)

	enh := p.assemble(normalized, rec.Text, rec, gaps, suggestions, req, level, genResp.Model, start)

	// 7. Cache the assembled result
	if p.cache != nil && enh.Validation.Valid {
		if data, err := json.Marshal(enh); err == nil {
			_ = p.cache.Set(cacheKey, data, p.config.Cache.TTL)
		}
	}

	return enh, nil
}

// ValidateOnly runs the guardrails over existing text without any
// generation call. Gap contexts are extracted from the text itself so
// leftover markers are judged.
func (p *Pipeline) ValidateOnly(description, domainName, level string) model.ValidationReport {
	normalized := textnorm.Normalize(description)
	return p.validator.Validate(validate.Input{
		Original:  normalized,
		Corrected: normalized,
		Domain:    domainName,
	}, validate.ParseLevel(level))
}

// assemble composes the final Enhancement: closing statement, guardrail
// validation, and stats.
func (p *Pipeline) assemble(
	normalized, text string,
	rec *model.ReconciledText,
	gaps []model.GapContext,
	suggestions []model.CorrectionSuggestion,
	req Request,
	level validate.Level,
	modelUsed string,
	start time.Time,
) *model.Enhancement {
	if rules, ok := p.registry.Lookup(req.Domain); ok && rules.ClosingStatement != "" {
		if !strings.Contains(text, rules.ClosingStatement) {
			text = strings.TrimRight(text, " ") + " " + rules.ClosingStatement
		}
	}

	report := p.validator.Validate(validate.Input{
		Original:  normalized,
		Corrected: text,
		Gaps:      gaps,
		Fillers:   rec.Fillers,
		Domain:    req.Domain,
	}, level)

	outGaps := make([]model.Gap, 0, len(gaps))
	for _, g := range gaps {
		outGaps = append(outGaps, model.Gap{
			Index:   g.Index,
			Choice:  rec.Fillers[g.Index],
			Case:    g.RequiredCase,
			Context: g.Context,
		})
	}

	alternatives := rec.Alternatives
	if alternatives == nil {
		alternatives = map[int][]string{}
	}
	if suggestions == nil {
		suggestions = []model.CorrectionSuggestion{}
	}

	origLen := len([]rune(req.Description))
	enhLen := len([]rune(text))
	expansion := 0.0
	if origLen > 0 {
		expansion = float64(enhLen-origLen) / float64(origLen) * 100
	}

	return &model.Enhancement{
		Description:        text,
		Original:           req.Description,
		Gaps:               outGaps,
		Alternatives:       alternatives,
		ModelUsed:          modelUsed,
		GenerationTime:     time.Since(start).Seconds(),
		Validation:         report,
		GrammarSuggestions: suggestions,
		Stats: model.EnhancementStats{
			GapsFilled:       len(rec.Fillers),
			GapsUnresolved:   len(rec.Unresolved),
			OriginalLength:   origLen,
			EnhancedLength:   enhLen,
			ExpansionPercent: expansion,
		},
	}
}
