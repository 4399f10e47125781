package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kyleking/sql-advisor/internal/schema"
)

// Validator checks generated SQL for syntax, schema, security, and
// performance problems before it is handed back to the caller.
type Validator struct {
	schema schema.Schema
}

// NewValidator creates a validator. An empty schema disables the schema
// compliance check.
func NewValidator(s schema.Schema) *Validator {
	return &Validator{schema: s}
}

var (
	tableRefRes = []*regexp.Regexp{
		regexp.MustCompile(`from\s+(\w+)`),
		regexp.MustCompile(`join\s+(\w+)`),
		regexp.MustCompile(`update\s+(\w+)`),
		regexp.MustCompile(`insert\s+into\s+(\w+)`),
	}

	injectionRes = []*regexp.Regexp{
		regexp.MustCompile(`;\s*drop\s+table`),
		regexp.MustCompile(`union\s+select.*from`),
		regexp.MustCompile(`(?m)--\s*$`),
		regexp.MustCompile(`/\*.*\*/`),
	}

	sqlCommands = []string{"select", "insert", "update", "delete"}

	// delete and create overlap with sqlCommands: a legitimate DELETE is
	// still reported here. Kept intentionally conservative since generated
	// queries are meant to be read-only.
	dangerousKeywords = []string{"drop", "truncate", "delete", "alter", "create", "grant", "revoke"}
)

// Validate runs all four check groups and returns the combined error list.
// An empty list means the query passed.
func (v *Validator) Validate(query string) []string {
	var errs []string

	errs = append(errs, v.validateSyntax(query)...)
	errs = append(errs, v.validateSchemaCompliance(query)...)
	errs = append(errs, v.validateSecurity(query)...)
	errs = append(errs, v.validatePerformanceBasics(query)...)

	return errs
}

func (v *Validator) validateSyntax(query string) []string {
	var errs []string

	lower := strings.ToLower(strings.TrimSpace(query))

	hasCommand := false
	for _, cmd := range sqlCommands {
		if strings.Contains(lower, cmd) {
			hasCommand = true
			break
		}
	}

	if !hasCommand {
		errs = append(errs, "Query does not contain a valid SQL command")
	}

	if strings.Count(query, "(") != strings.Count(query, ")") {
		errs = append(errs, "Unbalanced parentheses in query")
	}

	if strings.Contains(lower, "select") && !strings.Contains(lower, "from") {
		errs = append(errs, "SELECT query missing FROM clause")
	}

	return errs
}

func (v *Validator) validateSchemaCompliance(query string) []string {
	if len(v.schema) == 0 {
		return nil
	}

	lower := strings.ToLower(query)

	unknown := make(map[string]struct{})
	for _, re := range tableRefRes {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if !v.schema.HasTable(m[1]) {
				unknown[m[1]] = struct{}{}
			}
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}

	sort.Strings(names)

	return []string{fmt.Sprintf("Unknown tables referenced: %s", strings.Join(names, ", "))}
}

func (v *Validator) validateSecurity(query string) []string {
	var errs []string

	lower := strings.ToLower(query)

	var found []string
	for _, kw := range dangerousKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	if len(found) > 0 {
		errs = append(errs, fmt.Sprintf(
			"Potentially dangerous operations detected: %s", strings.Join(found, ", ")))
	}

	for _, re := range injectionRes {
		if re.MatchString(lower) {
			errs = append(errs, "Potential SQL injection pattern detected")
			break
		}
	}

	return errs
}

func (v *Validator) validatePerformanceBasics(query string) []string {
	var errs []string

	lower := strings.ToLower(query)

	if strings.Contains(lower, "select *") && !strings.Contains(lower, "limit") {
		errs = append(errs, "SELECT * without LIMIT may impact performance")
	}

	if strings.Contains(lower, "select") &&
		!strings.Contains(lower, "where") &&
		!strings.Contains(lower, "limit") {
		errs = append(errs, "SELECT without WHERE clause may return too many rows")
	}

	return errs
}
