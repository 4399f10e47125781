// Package generator turns natural language descriptions into SQL using an
// AI-first pipeline with rule-based validation and fallback generation.
package generator

// Status describes how a generation attempt concluded.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusValidationFailed Status = "validation_failed"
	StatusAIUnavailable    Status = "ai_unavailable"
	StatusFallbackUsed     Status = "fallback_used"
)

// Result is the outcome of one generation request. The query is always
// usable: when every strategy fails a generic query is still returned.
type Result struct {
	Query                   string   `json:"query"`
	Status                  Status   `json:"status"`
	ValidationErrors        []string `json:"validation_errors,omitempty"`
	OptimizationSuggestions []string `json:"optimization_suggestions,omitempty"`
	PerformanceScore        int      `json:"performance_score"`
	Method                  string   `json:"generation_method"`
	Confidence              float64  `json:"confidence_score"`
}

// Generation method names reported in Result.Method.
const (
	MethodAI      = "AI + Rule-based Optimization"
	MethodPattern = "Rule-based Pattern Matching"
	MethodGeneric = "Generic Fallback"
)
