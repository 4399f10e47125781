package analyzer

// Per-severity score penalties.
const (
	penaltyCritical = 25
	penaltyHigh     = 15
	penaltyMedium   = 10
	penaltyLow      = 5
)

// Score reduces findings to a 0-100 performance score. The full penalty sum
// is taken before clamping, so a long list of findings always floors at 0.
func Score(findings []Finding) int {
	score := 100

	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			score -= penaltyCritical
		case SeverityHigh:
			score -= penaltyHigh
		case SeverityMedium:
			score -= penaltyMedium
		case SeverityLow:
			score -= penaltyLow
		}
	}

	if score < 0 {
		return 0
	}

	return score
}
