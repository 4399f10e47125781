package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kyleking/sql-advisor/internal/schema"
)

// input carries the query text in the two renderings the checks need: the
// raw text (used when building rewrites, so user casing survives) and the
// normalized text the trigger patterns match against.
type input struct {
	raw    string
	norm   string
	schema schema.Schema
}

// checkFunc inspects a query rendering and emits zero or more findings.
// Checks are pure and independent: none reads another's output, so their
// only ordering obligation is the stable result sequence.
type checkFunc func(in input) []Finding

// checks is the fixed pipeline. Removing, reordering, or inserting entries
// changes which rewrite Optimize applies first.
var checks = []checkFunc{
	checkSelectStar,
	checkMissingWhere,
	checkNonSargableLike,
	checkFunctionInWhere,
	checkImplicitConversion,
	checkExcessJoins,
	checkMissingIndexes,
	checkSubqueries,
	checkOrderByWithoutLimit,
	checkLikeBothWildcards,
	checkDistinctUsage,
	checkUnionNotAll,
	checkCartesianProduct,
	checkSorting,
	checkNullHandling,
	checkTypeMismatch,
	checkAggregations,
}

// Normalize lowercases the query and collapses all whitespace runs to
// single spaces. Every trigger pattern assumes this rendering.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

var (
	selectStarRe       = regexp.MustCompile(`(?i)select\s+\*`)
	leadingWildcardRe  = regexp.MustCompile(`like\s+['"]%`)
	quotedNumberEqRe   = regexp.MustCompile(`=\s*['"][0-9]+['"]|['"][0-9]+['"]\s*=`)
	joinTokenRe        = regexp.MustCompile(`\bjoin\b`)
	whereColumnEqRe    = regexp.MustCompile(`where\s+.*?(\w+)\.(\w+)\s*=`)
	joinConditionRe    = regexp.MustCompile(`on\s+(\w+)\.(\w+)\s*=\s*(\w+)\.(\w+)`)
	inSubqueryRe       = regexp.MustCompile(`in\s*\(\s*select`)
	bothWildcardsRe    = regexp.MustCompile(`like\s+['"]%.*%['"]`)
	unionWordRe        = regexp.MustCompile(`(?i)\bunion\b`)
	fromTableListRe    = regexp.MustCompile(`\bfrom\s+\w+(\s*,\s*\w+)*`)
	whereJoinPredRe    = regexp.MustCompile(`where.*?\w+\.\w+\s*=\s*\w+\.\w+`)
	orderByRe          = regexp.MustCompile(`order\s+by`)
	orderByFunctionRe  = regexp.MustCompile(`order\s+by.*?\w+\s*\(`)
	whereComparisonRe  = regexp.MustCompile(`where.*?\w+\s*[<>=!]`)
	numericCompareRe   = regexp.MustCompile(`\w+\s*[<>=]\s*['"][0-9]+['"]|['"][0-9]+['"]\s*[<>=]\s*\w+`)
	dateCompareRe      = regexp.MustCompile(`\w+\s*[<>=]\s*['"]\d{4}-\d{2}-\d{2}['"]|['"]\d{4}-\d{2}-\d{2}['"]\s*[<>=]\s*\w+`)
	nestedAggregateRe  = regexp.MustCompile(`\b(count|sum|avg|min|max)\s*\(.*?\b(count|sum|avg|min|max)\s*\(`)
	whereFunctionRes   = buildWhereFunctionRes()
	aggregateFunctions = []string{"count(", "sum(", "avg(", "min(", "max("}
)

// sargBreakingFunctions are the function names flagged when applied inside
// a WHERE clause; order matters for stable finding output.
var sargBreakingFunctions = []string{"upper", "lower", "substring", "year", "month", "day"}

func buildWhereFunctionRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(sargBreakingFunctions))
	for _, fn := range sargBreakingFunctions {
		res[fn] = regexp.MustCompile(`where.*` + fn + `\s*\(`)
	}

	return res
}

func checkSelectStar(in input) []Finding {
	if !strings.Contains(in.norm, "select *") {
		return nil
	}

	rewrite := selectStarRe.ReplaceAllString(
		in.raw,
		"SELECT column1, column2, column3 -- Replace with actual column names",
	)

	return []Finding{{
		Severity:       SeverityMedium,
		Category:       "Column Selection",
		Issue:          "Using SELECT * retrieves all columns",
		Recommendation: "Specify only the columns you need to reduce data transfer and improve performance",
		RewrittenQuery: rewrite,
	}}
}

func checkMissingWhere(in input) []Finding {
	if !strings.Contains(in.norm, "select") ||
		strings.Contains(in.norm, "where") ||
		strings.Contains(in.norm, "limit") {
		return nil
	}

	return []Finding{{
		Severity:       SeverityHigh,
		Category:       "Data Filtering",
		Issue:          "Query lacks WHERE clause and may return all rows",
		Recommendation: "Add appropriate WHERE conditions to limit the result set and improve performance",
	}}
}

func checkNonSargableLike(in input) []Finding {
	if !leadingWildcardRe.MatchString(in.norm) {
		return nil
	}

	return []Finding{{
		Severity:       SeverityHigh,
		Category:       "Index Usage",
		Issue:          "LIKE with leading wildcard (%) prevents index usage",
		Recommendation: "Consider using full-text search or restructuring the query to avoid leading wildcards",
	}}
}

func checkFunctionInWhere(in input) []Finding {
	var findings []Finding

	for _, fn := range sargBreakingFunctions {
		if !whereFunctionRes[fn].MatchString(in.norm) {
			continue
		}

		upper := strings.ToUpper(fn)
		findings = append(findings, Finding{
			Severity: SeverityMedium,
			Category: "Index Usage",
			Issue:    fmt.Sprintf("Function %s() in WHERE clause prevents index usage", upper),
			Recommendation: fmt.Sprintf(
				"Consider using computed columns or restructuring to avoid %s() in WHERE clause", upper),
		})
	}

	return findings
}

func checkImplicitConversion(in input) []Finding {
	if !quotedNumberEqRe.MatchString(in.norm) {
		return nil
	}

	return []Finding{{
		Severity:       SeverityLow,
		Category:       "Data Types",
		Issue:          "Potential implicit conversion between string and numeric types",
		Recommendation: "Ensure data types match to avoid implicit conversions that can prevent index usage",
	}}
}

func checkExcessJoins(in input) []Finding {
	joinCount := len(joinTokenRe.FindAllString(in.norm, -1))
	if joinCount <= 3 {
		return nil
	}

	return []Finding{{
		Severity:       SeverityMedium,
		Category:       "Query Structure",
		Issue:          fmt.Sprintf("Query has %d joins which may impact performance", joinCount),
		Recommendation: "Review if all joins are necessary. Consider breaking complex queries into simpler ones or using CTEs",
	}}
}

func checkMissingIndexes(in input) []Finding {
	indexes := make(map[string]struct{})

	for _, m := range whereColumnEqRe.FindAllStringSubmatch(in.norm, -1) {
		table, column := m[1], m[2]
		indexes[fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s(%s);", table, column, table, column)] = struct{}{}
	}

	for _, m := range joinConditionRe.FindAllStringSubmatch(in.norm, -1) {
		t1, c1, t2, c2 := m[1], m[2], m[3], m[4]
		indexes[fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s(%s);", t1, c1, t1, c1)] = struct{}{}
		indexes[fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s(%s);", t2, c2, t2, c2)] = struct{}{}
	}

	if len(indexes) == 0 {
		return nil
	}

	// Sorted so identical queries always produce identical advice order.
	advice := make([]string, 0, len(indexes))
	for stmt := range indexes {
		advice = append(advice, stmt)
	}

	sort.Strings(advice)

	return []Finding{{
		Severity:       SeverityHigh,
		Category:       "Indexing",
		Issue:          "Query may benefit from additional indexes",
		Recommendation: "Consider creating the following indexes to improve query performance",
		IndexAdvice:    advice,
	}}
}

func checkSubqueries(in input) []Finding {
	var findings []Finding

	if strings.Contains(in.norm, "exists") && strings.Contains(in.norm, "select") {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Query Structure",
			Issue:          "EXISTS subquery detected",
			Recommendation: "Consider converting EXISTS subquery to JOIN for better performance in some cases",
		})
	}

	if inSubqueryRe.MatchString(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Query Structure",
			Issue:          "IN with subquery detected",
			Recommendation: "Consider using JOIN or EXISTS instead of IN with subquery for better performance",
		})
	}

	return findings
}

func checkOrderByWithoutLimit(in input) []Finding {
	if !strings.Contains(in.norm, "order by") ||
		strings.Contains(in.norm, "limit") ||
		strings.Contains(in.norm, "top") {
		return nil
	}

	return []Finding{{
		Severity:       SeverityLow,
		Category:       "Data Retrieval",
		Issue:          "ORDER BY without LIMIT may sort unnecessary rows",
		Recommendation: "If you don't need all sorted results, consider adding LIMIT to reduce sorting overhead",
	}}
}

func checkLikeBothWildcards(in input) []Finding {
	if !bothWildcardsRe.MatchString(in.norm) {
		return nil
	}

	return []Finding{{
		Severity:       SeverityMedium,
		Category:       "Search Optimization",
		Issue:          "LIKE with wildcards on both ends requires full table scan",
		Recommendation: "Consider using full-text search capabilities for better performance on text searches",
	}}
}

func checkDistinctUsage(in input) []Finding {
	if !strings.Contains(in.norm, "select distinct") {
		return nil
	}

	var findings []Finding

	if containsAggregate(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Query Structure",
			Issue:          "DISTINCT used with aggregation functions may be redundant",
			Recommendation: "Review if DISTINCT is necessary when using aggregation functions",
		})
	}

	if strings.Contains(in.norm, "order by") {
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Category:       "Query Structure",
			Issue:          "DISTINCT with ORDER BY can be expensive",
			Recommendation: "Consider using GROUP BY instead of DISTINCT when ordering results",
		})
	}

	return findings
}

func checkUnionNotAll(in input) []Finding {
	if !strings.Contains(in.norm, "union") || strings.Contains(in.norm, "union all") {
		return nil
	}

	return []Finding{{
		Severity:       SeverityMedium,
		Category:       "Query Structure",
		Issue:          "UNION removes duplicates which requires extra processing",
		Recommendation: "Use UNION ALL if duplicates are acceptable or if you're certain there are no duplicates",
		RewrittenQuery: unionWordRe.ReplaceAllString(in.raw, "UNION ALL"),
	}}
}

func checkCartesianProduct(in input) []Finding {
	fromTables := 0
	for _, m := range fromTableListRe.FindAllString(in.norm, -1) {
		fromTables += strings.Count(m, ",") + 1
	}

	joinClauses := len(joinTokenRe.FindAllString(in.norm, -1))
	whereJoins := len(whereJoinPredRe.FindAllString(in.norm, -1))

	if fromTables <= 1 || joinClauses > 0 || whereJoins > 0 {
		return nil
	}

	return []Finding{{
		Severity:       SeverityCritical,
		Category:       "Query Structure",
		Issue:          "Potential cartesian product detected - multiple tables without JOIN conditions",
		Recommendation: "Add proper JOIN conditions or WHERE clauses to avoid cartesian products",
	}}
}

func checkSorting(in input) []Finding {
	if !strings.Contains(in.norm, "order by") {
		return nil
	}

	var findings []Finding

	if len(orderByRe.FindAllString(in.norm, -1)) > 1 {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Performance",
			Issue:          "Multiple ORDER BY clauses detected",
			Recommendation: "Remove ORDER BY from subqueries unless absolutely necessary",
		})
	}

	if orderByFunctionRe.MatchString(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Index Usage",
			Issue:          "ORDER BY uses functions which prevents index usage",
			Recommendation: "Consider creating computed columns or functional indexes",
		})
	}

	return findings
}

func checkNullHandling(in input) []Finding {
	if !whereComparisonRe.MatchString(in.norm) ||
		strings.Contains(in.norm, "is null") ||
		strings.Contains(in.norm, "is not null") {
		return nil
	}

	// Heuristic: fires regardless of whether the compared column is
	// actually nullable, since no column nullability is tracked.
	return []Finding{{
		Severity:       SeverityLow,
		Category:       "Data Integrity",
		Issue:          "Consider NULL handling in WHERE conditions",
		Recommendation: "Explicitly handle NULL values with IS NULL or IS NOT NULL clauses where appropriate",
	}}
}

func checkTypeMismatch(in input) []Finding {
	var findings []Finding

	if numericCompareRe.MatchString(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityMedium,
			Category:       "Data Types",
			Issue:          "Potential data type mismatch between string and numeric values",
			Recommendation: "Ensure consistent data types in comparisons to avoid implicit conversions",
		})
	}

	if dateCompareRe.MatchString(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Category:       "Data Types",
			Issue:          "String comparison with date format detected",
			Recommendation: "Use proper date functions like DATE() for date comparisons",
		})
	}

	return findings
}

func checkAggregations(in input) []Finding {
	var findings []Finding

	if strings.Contains(in.norm, "count(*)") && !strings.Contains(in.norm, "where") {
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Category:       "Performance",
			Issue:          "COUNT(*) without WHERE clause may be slow on large tables",
			Recommendation: "Consider using table statistics or adding WHERE conditions to limit the count",
		})
	}

	if nestedAggregateRe.MatchString(in.norm) {
		findings = append(findings, Finding{
			Severity:       SeverityHigh,
			Category:       "Query Structure",
			Issue:          "Nested aggregation functions detected",
			Recommendation: "Break down complex aggregations into multiple queries or use window functions",
		})
	}

	if containsAggregate(in.norm) && !strings.Contains(in.norm, "group by") {
		findings = append(findings, Finding{
			Severity:       SeverityLow,
			Category:       "Query Structure",
			Issue:          "Mixing aggregate and non-aggregate columns may require GROUP BY",
			Recommendation: "Ensure all non-aggregate columns in SELECT are included in GROUP BY clause",
		})
	}

	return findings
}

func containsAggregate(norm string) bool {
	for _, fn := range aggregateFunctions {
		if strings.Contains(norm, fn) {
			return true
		}
	}

	return false
}
