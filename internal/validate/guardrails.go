// Package validate is the final acceptance gate: structural,
// completeness, length, domain-relevance, and grammar-agreement checks
// over a composed enhancement, at a per-request strictness level.
package validate

import (
	"fmt"
	"strings"

	"gapfill/internal/domain"
	"gapfill/internal/grammar"
	"gapfill/internal/model"
	"gapfill/internal/textnorm"
)

// Level is the guardrail strictness, configured per request.
type Level string

const (
	LevelStrict  Level = "strict"
	LevelNormal  Level = "normal"
	LevelLenient Level = "lenient"
)

// ParseLevel maps a wire string to a Level, defaulting to normal.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return LevelStrict
	case "lenient":
		return LevelLenient
	default:
		return LevelNormal
	}
}

// Input is the data the guardrails judge.
type Input struct {
	Original  string
	Corrected string
	Gaps      []model.GapContext
	Fillers   map[int]string
	Domain    string
}

// Validator runs the guardrail checks. It holds only immutable
// reference data and is safe for concurrent use.
type Validator struct {
	registry  *Registry
	corrector *grammar.Corrector
	minLength int
	maxLength int
}

// Registry is the domain rules source the validator consults.
type Registry = domain.Registry

// NewValidator creates a validator with the given length bounds.
// Non-positive bounds fall back to the defaults (50, 2000).
func NewValidator(registry *Registry, minLength, maxLength int) *Validator {
	if minLength <= 0 {
		minLength = 50
	}
	if maxLength <= 0 {
		maxLength = 2000
	}
	return &Validator{
		registry:  registry,
		corrector: grammar.NewCorrector(),
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Validate runs every check in order and produces the report. It is a
// pure function of (input, level): no side effects, no external calls.
// Valid is true iff no errors were recorded, regardless of warnings.
func (v *Validator) Validate(in Input, level Level) model.ValidationReport {
	report := model.ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
		Level:    string(level),
	}

	v.checkStructure(in, &report)
	v.checkNoMarkers(in, level, &report)
	v.checkLength(in, level, &report)
	v.checkDomainRelevance(in, &report)
	v.checkGrammarAgreement(in, level, &report)

	report.Valid = len(report.Errors) == 0
	return report
}

// checkStructure verifies the required top-level fields are present.
func (v *Validator) checkStructure(in Input, report *model.ValidationReport) {
	if strings.TrimSpace(in.Original) == "" {
		report.Errors = append(report.Errors, "missing required field: original")
	}
	if strings.TrimSpace(in.Corrected) == "" {
		report.Errors = append(report.Errors, "missing required field: description")
	}
}

// checkNoMarkers flags gap markers that survived into the final text.
// STRICT: error. NORMAL: warning. LENIENT: skipped.
func (v *Validator) checkNoMarkers(in Input, level Level, report *model.ValidationReport) {
	if level == LevelLenient {
		return
	}
	if !textnorm.HasMarkers(in.Corrected) {
		return
	}

	indices := textnorm.SortedUnique(textnorm.MarkerIndices(in.Corrected))
	msg := fmt.Sprintf("description contains %d unfilled gap marker(s): %v", len(indices), indices)
	if len(indices) == 0 {
		msg = "description contains unfilled underscore placeholders"
	}

	if level == LevelStrict {
		report.Errors = append(report.Errors, msg)
	} else {
		report.Warnings = append(report.Warnings, msg)
	}
}

// checkLength enforces the content length bounds.
// STRICT and NORMAL: violation is an error. LENIENT: a warning.
func (v *Validator) checkLength(in Input, level Level, report *model.ValidationReport) {
	n := len([]rune(in.Corrected))
	var msg string
	switch {
	case n < v.minLength:
		msg = fmt.Sprintf("description too short: %d chars (minimum %d)", n, v.minLength)
	case n > v.maxLength:
		msg = fmt.Sprintf("description too long: %d chars (maximum %d)", n, v.maxLength)
	default:
		return
	}

	if level == LevelLenient {
		report.Warnings = append(report.Warnings, msg)
	} else {
		report.Errors = append(report.Errors, msg)
	}
}

// checkDomainRelevance requires at least one domain-vocabulary term when
// a domain is specified. Violations warn at every level, never fail.
// Domain rules also screen for prohibited words and a recommended
// length ceiling.
func (v *Validator) checkDomainRelevance(in Input, report *model.ValidationReport) {
	if in.Domain == "" || v.registry == nil {
		return
	}
	rules, ok := v.registry.Lookup(in.Domain)
	if !ok {
		return
	}

	lower := strings.ToLower(in.Corrected)

	found := false
	for _, term := range rules.Vocabulary {
		if strings.Contains(lower, term) {
			found = true
			break
		}
	}
	if !found && len(rules.Vocabulary) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("description lacks %s-domain terminology", rules.Name))
	}

	for _, word := range rules.ProhibitedWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("description contains prohibited word %q", word))
		}
	}

	if rules.MaxLength > 0 && len([]rune(in.Corrected)) > rules.MaxLength {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("description exceeds recommended %s-domain length (%d chars)", rules.Name, rules.MaxLength))
	}
}

// checkGrammarAgreement re-runs the corrector's mismatch detection on
// the final text. Any mismatch remaining after correction is an error
// at STRICT, a warning otherwise.
func (v *Validator) checkGrammarAgreement(in Input, level Level, report *model.ValidationReport) {
	if len(in.Gaps) == 0 || len(in.Fillers) == 0 {
		return
	}

	rec := &model.ReconciledText{
		Text:     in.Corrected,
		Original: in.Original,
		Fillers:  in.Fillers,
	}
	mismatches := v.corrector.Detect(rec, in.Gaps)
	for _, m := range mismatches {
		msg := fmt.Sprintf("gap %d: %q does not agree with required %s case (expected %q)",
			m.GapIndex, m.Original, m.Case, m.Corrected)
		if level == LevelStrict {
			report.Errors = append(report.Errors, msg)
		} else {
			report.Warnings = append(report.Warnings, msg)
		}
	}
}
