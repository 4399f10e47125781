package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleking/sql-advisor/internal/schema"
)

func makeInput(query string) input {
	return input{
		raw:    query,
		norm:   Normalize(query),
		schema: schema.Schema{},
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("SELECT   *\n\tFROM Users\n WHERE  Name = 'X'")
	assert.Equal(t, "select * from users where name = 'x'", got)
}

func TestCheckSelectStar(t *testing.T) {
	findings := checkSelectStar(makeInput("SELECT * FROM orders"))
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.Equal(t, "Column Selection", f.Category)
	assert.Contains(t, f.RewrittenQuery, "column1, column2, column3")
	assert.Contains(t, f.RewrittenQuery, "FROM orders")

	assert.Empty(t, checkSelectStar(makeInput("SELECT id FROM orders")))
}

func TestCheckMissingWhere(t *testing.T) {
	tests := []struct {
		query string
		fires bool
	}{
		{"SELECT id FROM users", true},
		{"SELECT id FROM users WHERE id = 1", false},
		{"SELECT id FROM users LIMIT 5", false},
		{"INSERT INTO users VALUES (1)", false},
	}

	for _, tt := range tests {
		findings := checkMissingWhere(makeInput(tt.query))
		if tt.fires {
			require.Len(t, findings, 1, "query: %s", tt.query)
			assert.Equal(t, SeverityHigh, findings[0].Severity)
		} else {
			assert.Empty(t, findings, "query: %s", tt.query)
		}
	}
}

func TestCheckNonSargableLike(t *testing.T) {
	fires := checkNonSargableLike(makeInput("SELECT id FROM users WHERE name LIKE '%smith'"))
	require.Len(t, fires, 1)
	assert.Equal(t, SeverityHigh, fires[0].Severity)
	assert.Equal(t, "Index Usage", fires[0].Category)

	assert.Empty(t, checkNonSargableLike(makeInput("SELECT id FROM users WHERE name LIKE 'smith%'")))
}

func TestCheckFunctionInWhere(t *testing.T) {
	findings := checkFunctionInWhere(
		makeInput("SELECT id FROM users WHERE UPPER(name) = 'X' AND YEAR(created) = 2024"))
	require.Len(t, findings, 2)

	// Findings follow the fixed function order: upper before year.
	assert.Contains(t, findings[0].Issue, "UPPER()")
	assert.Contains(t, findings[1].Issue, "YEAR()")

	assert.Empty(t, checkFunctionInWhere(makeInput("SELECT UPPER(name) FROM users")))
}

func TestCheckImplicitConversion(t *testing.T) {
	assert.Len(t, checkImplicitConversion(makeInput("SELECT * FROM t WHERE id = '123'")), 1)
	assert.Len(t, checkImplicitConversion(makeInput("SELECT * FROM t WHERE '123' = id")), 1)
	assert.Empty(t, checkImplicitConversion(makeInput("SELECT * FROM t WHERE id = 123")))
	assert.Empty(t, checkImplicitConversion(makeInput("SELECT * FROM t WHERE name = 'abc'")))
}

func TestCheckExcessJoins(t *testing.T) {
	three := "SELECT a FROM t1 JOIN t2 ON x JOIN t3 ON y JOIN t4 ON z"
	assert.Empty(t, checkExcessJoins(makeInput(three)))

	four := three + " JOIN t5 ON w"

	findings := checkExcessJoins(makeInput(four))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Issue, "4 joins")
}

func TestCheckMissingIndexes(t *testing.T) {
	query := "SELECT o.id FROM orders o JOIN users u ON o.user_id = u.user_id WHERE o.status = 'paid'"

	findings := checkMissingIndexes(makeInput(query))
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Equal(t, "Indexing", f.Category)
	assert.Equal(t, []string{
		"CREATE INDEX idx_o_status ON o(status);",
		"CREATE INDEX idx_o_user_id ON o(user_id);",
		"CREATE INDEX idx_u_user_id ON u(user_id);",
	}, f.IndexAdvice)

	assert.Empty(t, checkMissingIndexes(makeInput("SELECT id FROM users")))
}

func TestCheckMissingIndexesDeduplicates(t *testing.T) {
	// Self-join on the same column pair should collapse duplicates.
	query := "SELECT * FROM t a JOIN t b ON t.id = t.id"

	findings := checkMissingIndexes(makeInput(query))
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"CREATE INDEX idx_t_id ON t(id);"}, findings[0].IndexAdvice)
}

func TestCheckSubqueries(t *testing.T) {
	existsQuery := "SELECT id FROM users u WHERE EXISTS (SELECT 1 FROM orders o WHERE o.user_id = u.id)"
	findings := checkSubqueries(makeInput(existsQuery))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Issue, "EXISTS")

	inQuery := "SELECT id FROM users WHERE id IN (SELECT user_id FROM orders)"
	findings = checkSubqueries(makeInput(inQuery))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Issue, "IN with subquery")

	assert.Empty(t, checkSubqueries(makeInput("SELECT id FROM users WHERE id IN (1, 2)")))
}

func TestCheckOrderByWithoutLimit(t *testing.T) {
	assert.Len(t, checkOrderByWithoutLimit(makeInput("SELECT a FROM t ORDER BY a")), 1)
	assert.Empty(t, checkOrderByWithoutLimit(makeInput("SELECT a FROM t ORDER BY a LIMIT 10")))
	assert.Empty(t, checkOrderByWithoutLimit(makeInput("SELECT TOP 10 a FROM t ORDER BY a")))
}

func TestCheckLikeBothWildcards(t *testing.T) {
	assert.Len(t, checkLikeBothWildcards(makeInput("SELECT a FROM t WHERE a LIKE '%x%'")), 1)
	assert.Empty(t, checkLikeBothWildcards(makeInput("SELECT a FROM t WHERE a LIKE '%x'")))
}

func TestCheckDistinctUsage(t *testing.T) {
	both := "SELECT DISTINCT status, COUNT(*) FROM orders GROUP BY status ORDER BY status"

	findings := checkDistinctUsage(makeInput(both))
	require.Len(t, findings, 2)
	assert.Equal(t, SeverityMedium, findings[0].Severity)
	assert.Equal(t, SeverityLow, findings[1].Severity)

	assert.Empty(t, checkDistinctUsage(makeInput("SELECT status FROM orders")))
}

func TestCheckUnionNotAll(t *testing.T) {
	findings := checkUnionNotAll(makeInput("SELECT a FROM t1 UNION SELECT a FROM t2"))
	require.Len(t, findings, 1)
	assert.Equal(t, "SELECT a FROM t1 UNION ALL SELECT a FROM t2", findings[0].RewrittenQuery)

	assert.Empty(t, checkUnionNotAll(makeInput("SELECT a FROM t1 UNION ALL SELECT a FROM t2")))
	assert.Empty(t, checkUnionNotAll(makeInput("SELECT a FROM t1")))
}

func TestCheckCartesianProduct(t *testing.T) {
	tests := []struct {
		name  string
		query string
		fires bool
	}{
		{"comma list without predicate", "SELECT a.x FROM a, b WHERE 1=1", true},
		{"comma list with join predicate", "SELECT a.x FROM a, b WHERE a.id = b.id", false},
		{"explicit join", "SELECT a.x FROM a JOIN b ON a.id = b.id", false},
		{"single table", "SELECT x FROM a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := checkCartesianProduct(makeInput(tt.query))
			if tt.fires {
				require.Len(t, findings, 1)
				assert.Equal(t, SeverityCritical, findings[0].Severity)
			} else {
				assert.Empty(t, findings)
			}
		})
	}
}

func TestCheckSorting(t *testing.T) {
	multi := "SELECT * FROM (SELECT a FROM t ORDER BY a) s ORDER BY a"
	findings := checkSorting(makeInput(multi))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Issue, "Multiple ORDER BY")

	fn := "SELECT a FROM t ORDER BY YEAR(created)"
	findings = checkSorting(makeInput(fn))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Issue, "functions")

	assert.Empty(t, checkSorting(makeInput("SELECT a FROM t ORDER BY a")))
}

func TestCheckNullHandling(t *testing.T) {
	assert.Len(t, checkNullHandling(makeInput("SELECT a FROM t WHERE a = 1")), 1)
	assert.Empty(t, checkNullHandling(
		makeInput("SELECT a FROM t WHERE a = 1 AND b IS NOT NULL")))
	assert.Empty(t, checkNullHandling(makeInput("SELECT a FROM t")))
}

func TestCheckTypeMismatch(t *testing.T) {
	numeric := checkTypeMismatch(makeInput("SELECT a FROM t WHERE age > '25'"))
	require.Len(t, numeric, 1)
	assert.Equal(t, SeverityMedium, numeric[0].Severity)

	date := checkTypeMismatch(makeInput("SELECT a FROM t WHERE created > '2024-01-15'"))
	require.Len(t, date, 1)
	assert.Equal(t, SeverityLow, date[0].Severity)

	assert.Empty(t, checkTypeMismatch(makeInput("SELECT a FROM t WHERE age > 25")))
}

func TestCheckAggregations(t *testing.T) {
	countStar := checkAggregations(makeInput("SELECT COUNT(*) FROM orders"))
	// count(*) without WHERE plus aggregate without GROUP BY
	require.Len(t, countStar, 2)
	assert.Contains(t, countStar[0].Issue, "COUNT(*)")
	assert.Contains(t, countStar[1].Issue, "GROUP BY")

	nested := checkAggregations(
		makeInput("SELECT MAX(COUNT(id)) FROM orders WHERE status = 'paid' GROUP BY user_id"))
	require.Len(t, nested, 1)
	assert.Equal(t, SeverityHigh, nested[0].Severity)

	assert.Empty(t, checkAggregations(makeInput("SELECT id FROM orders WHERE id = 1")))
}

func TestChecksArePureOnMalformedInput(t *testing.T) {
	malformed := []string{
		"",
		"((((",
		"not sql at all",
		"SELECT FROM WHERE",
		strings.Repeat("select ", 50),
	}

	for _, q := range malformed {
		in := makeInput(q)
		for _, check := range checks {
			// Every check must tolerate garbage without panicking.
			_ = check(in)
		}
	}
}
