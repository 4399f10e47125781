package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/llm"
	"github.com/kyleking/sql-advisor/internal/logging"
	"github.com/kyleking/sql-advisor/internal/schema"
)

// Per-path confidence scores reported in Result.Confidence.
const (
	confidenceAI      = 0.95
	confidencePattern = 0.75
	confidenceGeneric = 0.3
)

const genericQuery = "SELECT * FROM users LIMIT 10; -- Generic query: please refine your request"

const genericScore = 50

// Generator orchestrates AI generation, validation, and rule-based
// fallback. A nil llm.Service means the AI path is skipped entirely.
type Generator struct {
	llm    llm.Service
	engine *analyzer.Engine
	logger *logging.Logger
}

// NewGenerator creates a generator. svc may be nil when no LLM provider is
// configured.
func NewGenerator(svc llm.Service, engine *analyzer.Engine) *Generator {
	return &Generator{
		llm:    svc,
		engine: engine,
		logger: logging.GetLogger().WithField("component", "generator"),
	}
}

// Generate produces SQL for a natural language description. The AI path is
// tried first; its output must pass validation before being accepted. Any
// failure falls through to pattern matching and finally a generic query, so
// a Result is always returned.
func (g *Generator) Generate(ctx context.Context, description string, s schema.Schema) Result {
	if g.llm == nil {
		return g.generateWithFallback(description, s, []string{"AI not available"}, false)
	}

	raw, err := g.llm.GenerateSQL(ctx, buildPrompt(description, s))
	if err != nil {
		g.logger.WithError(err).Warn("AI generation failed, using fallback")

		return g.generateWithFallback(description, s,
			[]string{fmt.Sprintf("AI error: %s", err.Error())}, true)
	}

	query := extractSQL(raw)
	if query == "" {
		return g.generateWithFallback(description, s, []string{"AI not available"}, true)
	}

	validationErrors := NewValidator(s).Validate(query)
	if len(validationErrors) > 0 {
		g.logger.WithField("errors", len(validationErrors)).
			Debug("AI query failed validation, using fallback")

		return g.generateWithFallback(description, s, validationErrors, true)
	}

	optimized := g.engine.Optimize(query, s)
	analysis := g.engine.Analyze(optimized, s)

	return Result{
		Query:                   optimized,
		Status:                  StatusSuccess,
		OptimizationSuggestions: analysis.Recommendations(),
		PerformanceScore:        analysis.Score,
		Method:                  MethodAI,
		Confidence:              confidenceAI,
	}
}

// generateWithFallback runs the pattern table and, failing that, returns
// the generic query. errs carries forward whatever put us on this path.
func (g *Generator) generateWithFallback(
	description string,
	s schema.Schema,
	errs []string,
	aiAttempted bool,
) Result {
	if query, id, ok := matchFallback(description); ok {
		g.logger.WithField("pattern", id).Debug("fallback pattern matched")

		optimized := g.engine.Optimize(query, s)
		analysis := g.engine.Analyze(optimized, s)

		return Result{
			Query:                   optimized,
			Status:                  StatusFallbackUsed,
			ValidationErrors:        errs,
			OptimizationSuggestions: analysis.Recommendations(),
			PerformanceScore:        analysis.Score,
			Method:                  MethodPattern,
			Confidence:              confidencePattern,
		}
	}

	status := StatusFallbackUsed
	if !aiAttempted {
		status = StatusAIUnavailable
	}

	return Result{
		Query:                   genericQuery,
		Status:                  status,
		ValidationErrors:        errs,
		OptimizationSuggestions: []string{"Consider refining your query description"},
		PerformanceScore:        genericScore,
		Method:                  MethodGeneric,
		Confidence:              confidenceGeneric,
	}
}

// buildPrompt assembles the generation prompt with the schema rendered
// inline so the model only uses known tables and columns.
func buildPrompt(description string, s schema.Schema) string {
	schemaText := "No schema provided"
	if len(s) > 0 {
		schemaText = s.Format()
	}

	return fmt.Sprintf(`You are an expert SQL developer. Generate a syntactically correct SQL query based on the user's request.

Database Schema:
%s

User Request: %s

Requirements:
1. Generate only valid SQL syntax
2. Use proper table and column names from the schema
3. Include appropriate WHERE clauses for performance
4. Use proper JOINs when multiple tables are needed
5. Include LIMIT clause if requesting "top" results
6. Use appropriate aggregate functions when needed

Return ONLY the SQL query, no explanations or markdown formatting.`, schemaText, description)
}

var (
	codeFenceRe   = regexp.MustCompile("```sql\\s*|```")
	lineCommentRe = regexp.MustCompile(`(?m)--.*$`)
)

// extractSQL strips markdown fences and line comments from an AI response,
// leaving just the query text.
func extractSQL(response string) string {
	cleaned := codeFenceRe.ReplaceAllString(response, "")
	cleaned = lineCommentRe.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned)
}
