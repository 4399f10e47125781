package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Column represents a single column parsed from a CREATE TABLE statement.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
}

// Table represents a database table schema.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Schema maps lowercase table names to their parsed definitions. A nil or
// empty Schema is valid and simply means no schema information is available.
type Schema map[string]Table

// createTableRe locates the head of a CREATE TABLE statement; the column
// list body is extracted by scanning for the balancing close paren so that
// types like DECIMAL(10,2) do not terminate the match early.
var createTableRe = regexp.MustCompile(`(?is)create\s+table\s+(\w+)\s*\(`)

// Parse extracts table definitions from free-form DDL text. Parsing is
// tolerant: statements that do not match contribute nothing, malformed
// column fragments contribute a best-effort column, and no input ever
// produces an error. Re-parsing identical text yields an identical Schema.
func Parse(ddl string) Schema {
	s := make(Schema)

	for _, loc := range createTableRe.FindAllStringSubmatchIndex(ddl, -1) {
		tableName := strings.ToLower(ddl[loc[2]:loc[3]])

		body, ok := balancedBody(ddl, loc[1])
		if !ok {
			continue
		}

		s[tableName] = Table{
			Name:    tableName,
			Columns: parseColumns(body),
		}
	}

	return s
}

// balancedBody returns the text between the open paren ending at start and
// its balancing close paren.
func balancedBody(text string, start int) (string, bool) {
	depth := 1

	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[start:i], true
			}
		}
	}

	return "", false
}

// parseColumns splits a column-list body on commas and extracts a column
// from each non-empty fragment. The first whitespace token is the column
// name, the second its declared type ("unknown" when absent). A fragment
// mentioning both "primary" and "key" marks the column as a primary key.
func parseColumns(body string) []Column {
	var columns []Column

	for _, fragment := range strings.Split(body, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		parts := strings.Fields(fragment)
		if len(parts) == 0 {
			continue
		}

		colType := "unknown"
		if len(parts) > 1 {
			colType = parts[1]
		}

		lower := strings.ToLower(fragment)

		columns = append(columns, Column{
			Name:       strings.ToLower(parts[0]),
			Type:       colType,
			PrimaryKey: strings.Contains(lower, "primary") && strings.Contains(lower, "key"),
		})
	}

	return columns
}

// HasTable reports whether the schema defines the given table name
// (case-insensitive).
func (s Schema) HasTable(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// TableNames returns the defined table names in sorted order.
func (s Schema) TableNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Format renders the schema as readable text for prompts and display.
// Tables are emitted in sorted order so output is deterministic.
func (s Schema) Format() string {
	var sb strings.Builder

	for _, name := range s.TableNames() {
		table := s[name]

		sb.WriteString(fmt.Sprintf("Table: %s\n", table.Name))
		sb.WriteString("Columns:\n")

		for _, column := range table.Columns {
			sb.WriteString(fmt.Sprintf("  - %s (%s)", column.Name, column.Type))

			if column.PrimaryKey {
				sb.WriteString(" [primary key]")
			}

			sb.WriteString("\n")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Sample is a small demo schema used when no schema file is provided.
const Sample = `CREATE TABLE users (
    user_id INT PRIMARY KEY,
    username VARCHAR(50),
    email VARCHAR(100),
    status VARCHAR(20),
    created_date DATE
);

CREATE TABLE orders (
    order_id INT PRIMARY KEY,
    user_id INT,
    amount DECIMAL(10,2),
    order_date DATE,
    status VARCHAR(20)
);

CREATE TABLE products (
    product_id INT PRIMARY KEY,
    name VARCHAR(100),
    price DECIMAL(10,2),
    category VARCHAR(50)
);`
