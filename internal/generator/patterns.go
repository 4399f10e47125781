package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackPattern maps a natural language shape to a SQL template. Patterns
// are tried in slice order, so specific shapes are listed before generic
// catch-alls.
type fallbackPattern struct {
	id    string
	re    *regexp.Regexp
	build func(groups []string) string
}

var digitsRe = regexp.MustCompile(`^\d+$`)

// positionalParams extracts template parameters by group position: the
// first group feeds {limit} when numeric, the second {table}, the third
// both {column} and {value}. Missing groups keep their defaults.
func positionalParams(groups []string) map[string]string {
	params := map[string]string{
		"limit":  "10",
		"table":  "users",
		"column": "id",
		"value":  "unknown",
	}

	if len(groups) > 0 && digitsRe.MatchString(groups[0]) {
		params["limit"] = groups[0]
	}

	if len(groups) > 1 {
		params["table"] = groups[1]
	}

	if len(groups) > 2 {
		params["column"] = groups[2]
		params["value"] = groups[2]
	}

	return params
}

func positionalBuild(template string) func(groups []string) string {
	return func(groups []string) string {
		out := template
		for key, value := range positionalParams(groups) {
			out = strings.ReplaceAll(out, "{"+key+"}", value)
		}

		return out
	}
}

// fallbackPatterns is the ordered pattern table. The first section holds
// precise shapes tied to the sample users/orders/products schema; the last
// three are the generic catch-alls with positional parameter extraction.
var fallbackPatterns = []fallbackPattern{
	{
		id: "users_location_spending",
		re: regexp.MustCompile(`(?i)(?:show|find).*?users?.*?from\s+([\w\s]+?)(?:\s+who).*?(?:ordered|spent).*?more than.*?\$?(\d+)`),
		build: func(groups []string) string {
			return fmt.Sprintf(
				"SELECT u.*, SUM(o.amount) AS total_spent FROM users u JOIN orders o ON u.user_id = o.user_id WHERE u.address LIKE '%%%s%%' GROUP BY u.user_id HAVING total_spent > %s",
				strings.TrimSpace(groups[0]), groups[1])
		},
	},
	{
		id: "users_no_orders_time",
		re: regexp.MustCompile(`(?i)(?:find|get).*?users?.*?(?:haven't|have not).*?(?:made|placed).*?orders?.*?last\s+(\d+)\s+(day|month|week)s?`),
		build: func(groups []string) string {
			return fmt.Sprintf(
				"SELECT u.* FROM users u LEFT JOIN orders o ON u.user_id = o.user_id AND o.order_date >= DATE_SUB(CURRENT_DATE, INTERVAL %s %s) WHERE o.user_id IS NULL",
				groups[0], strings.ToUpper(groups[1]))
		},
	},
	{
		id: "top_products_revenue",
		re: regexp.MustCompile(`(?i)(?:show|find).*?top\s+(\d+)\s+products?.*?(?:by\s+)?revenue`),
		build: func(groups []string) string {
			return fmt.Sprintf(
				"SELECT p.*, SUM(o.amount) AS total_revenue FROM products p JOIN orders o ON p.product_id = o.product_id GROUP BY p.product_id ORDER BY total_revenue DESC LIMIT %s",
				groups[0])
		},
	},
	{
		id: "orders_status_amount",
		re: regexp.MustCompile(`(?i)(?:find|get).*?orders?.*?status\s+(\w+).*?amount.*?(?:greater than|>|more than)\s+(\d+)`),
		build: func(groups []string) string {
			return fmt.Sprintf(
				"SELECT * FROM orders WHERE status = '%s' AND amount > %s",
				groups[0], groups[1])
		},
	},
	{
		id: "avg_order_value_status",
		re: regexp.MustCompile(`(?i)(?:get|calculate).*?average.*?order.*?value.*?(?:by\s+)?(?:customer\s+)?status`),
		build: func(_ []string) string {
			return "SELECT u.status, AVG(o.amount) AS avg_order_value FROM users u JOIN orders o ON u.user_id = o.user_id GROUP BY u.status"
		},
	},
	{
		id: "count_orders_per_user",
		re: regexp.MustCompile(`(?i)(?:count|show).*?(?:how many\s+)?orders?.*?(?:each\s+)?users?.*?(?:placed|made)`),
		build: func(_ []string) string {
			return "SELECT u.username, COUNT(o.order_id) AS order_count FROM users u LEFT JOIN orders o ON u.user_id = o.user_id GROUP BY u.user_id, u.username ORDER BY order_count DESC"
		},
	},
	{
		id:    "top_records",
		re:    regexp.MustCompile(`(?i)(?:show|get|find).*?top\s+(\d+).*?(\w+)`),
		build: positionalBuild("SELECT * FROM {table} ORDER BY {column} DESC LIMIT {limit}"),
	},
	{
		id:    "count_records",
		re:    regexp.MustCompile(`(?i)(?:count|how many).*?(\w+)`),
		build: positionalBuild("SELECT COUNT(*) FROM {table}"),
	},
	{
		id:    "filter_by_value",
		re:    regexp.MustCompile(`(?i)(?:show|find).*?(\w+).*?where.*?(\w+).*?=.*?['"]?(\w+)['"]?`),
		build: positionalBuild("SELECT * FROM {table} WHERE {column} = '{value}'"),
	},
}

// matchFallback returns the generated query and pattern id for the first
// pattern matching the description, or ok=false when none applies.
func matchFallback(description string) (query, id string, ok bool) {
	for _, p := range fallbackPatterns {
		m := p.re.FindStringSubmatch(description)
		if m == nil {
			continue
		}

		return p.build(m[1:]), p.id, true
	}

	return "", "", false
}
