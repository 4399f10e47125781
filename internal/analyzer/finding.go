package analyzer

// Severity classifies how much a finding is expected to hurt performance.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Finding is one optimization suggestion produced by a single rule check.
// Findings are never mutated after creation.
type Finding struct {
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
	// RewrittenQuery holds an automatic rewrite of the original query when
	// the check can offer one.
	RewrittenQuery string `json:"rewritten_query,omitempty"`
	// IndexAdvice holds CREATE INDEX statements suggested by the check.
	IndexAdvice []string `json:"index_advice,omitempty"`
}
