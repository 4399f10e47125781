package analyzer

import (
	"github.com/kyleking/sql-advisor/internal/schema"
)

// Result is the complete analysis of one query. Findings appear in check
// pipeline order; the score is a pure function of the findings' severities
// and the complexity a pure function of the query text.
type Result struct {
	OriginalQuery string     `json:"original_query"`
	Findings      []Finding  `json:"findings"`
	Score         int        `json:"score"`
	Complexity    Complexity `json:"complexity"`
}

// Recommendations returns each finding's recommendation text in order.
func (r Result) Recommendations() []string {
	recs := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		recs = append(recs, f.Recommendation)
	}

	return recs
}

// Engine runs the rule-check pipeline. It holds no state: the schema is
// passed into every call, so a single Engine is safe for concurrent use.
type Engine struct{}

// NewEngine creates an analysis engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze runs every rule check against the query in the fixed pipeline
// order and packages the findings with a score and a complexity profile.
// Identical query and schema inputs always yield an identical Result.
func (e *Engine) Analyze(query string, s schema.Schema) Result {
	in := input{
		raw:    query,
		norm:   Normalize(query),
		schema: s,
	}

	var findings []Finding
	for _, check := range checks {
		findings = append(findings, check(in)...)
	}

	return Result{
		OriginalQuery: query,
		Findings:      findings,
		Score:         Score(findings),
		Complexity:    Profile(query),
	}
}

// Optimize analyzes the query and applies the first rewrite offered by a
// finding, in check order. No re-analysis of the rewritten query happens:
// exactly one rewrite is applied per call. Queries with no rewrite-bearing
// finding are returned unchanged.
func (e *Engine) Optimize(query string, s schema.Schema) string {
	result := e.Analyze(query, s)

	for _, f := range result.Findings {
		if f.RewrittenQuery != "" {
			return f.RewrittenQuery
		}
	}

	return query
}
