package analyzer

import (
	"regexp"
	"strings"
)

// Complexity holds simple structural counts derived from the query text.
type Complexity struct {
	JoinCount      int  `json:"join_count"`
	SubqueryCount  int  `json:"subquery_count"`
	PredicateCount int  `json:"predicate_count"`
	HasOrderBy     bool `json:"has_order_by"`
	HasGroupBy     bool `json:"has_group_by"`
	HasHaving      bool `json:"has_having"`
}

var (
	selectTokenRe = regexp.MustCompile(`\bselect\b`)
	boolTokenRe   = regexp.MustCompile(`\band\b|\bor\b`)
)

// Profile derives structural counts from the query text. The subquery count
// is the number of SELECT tokens minus one, a textual heuristic that can
// mislead on multi-statement input; it is reported as-is.
func Profile(query string) Complexity {
	norm := Normalize(query)

	return Complexity{
		JoinCount:      len(joinTokenRe.FindAllString(norm, -1)),
		SubqueryCount:  len(selectTokenRe.FindAllString(norm, -1)) - 1,
		PredicateCount: len(boolTokenRe.FindAllString(norm, -1)) + 1,
		HasOrderBy:     strings.Contains(norm, "order by"),
		HasGroupBy:     strings.Contains(norm, "group by"),
		HasHaving:      strings.Contains(norm, "having"),
	}
}
