// Package report renders analysis results for terminal display.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/errors"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
)

// Formatter handles analysis result formatting
type Formatter struct{}

// NewFormatter creates a new formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the result in the requested format. Unknown formats fall
// back to markdown.
func (f *Formatter) Format(result analyzer.Result, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return f.formatJSON(result)
	case FormatMarkdown:
		return f.FormatMarkdown(result), nil
	default:
		return f.FormatMarkdown(result), nil
	}
}

func (f *Formatter) formatJSON(result analyzer.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTypeInternal, "failed to encode analysis result")
	}

	return string(data), nil
}

// FormatMarkdown renders the full analysis report as markdown: the score
// header, findings grouped by category, and the complexity summary.
func (f *Formatter) FormatMarkdown(result analyzer.Result) string {
	var b strings.Builder

	b.WriteString("# SQL Query Analysis Report\n\n")
	fmt.Fprintf(&b, "**Performance Score:** %d/100\n\n", result.Score)

	if len(result.Findings) > 0 {
		b.WriteString("## Query Analysis\n\n")
		f.writeFindings(&b, result.Findings)
	} else {
		b.WriteString("## Great Job!\n\nYour query looks well-optimized. No major issues detected.\n\n")
	}

	f.writeComplexity(&b, result.Complexity)

	return b.String()
}

// writeFindings groups findings by category, categories ordered by first
// appearance and findings kept in analysis order within each group.
func (f *Formatter) writeFindings(b *strings.Builder, findings []analyzer.Finding) {
	var order []string

	grouped := make(map[string][]analyzer.Finding)
	for _, finding := range findings {
		if _, seen := grouped[finding.Category]; !seen {
			order = append(order, finding.Category)
		}

		grouped[finding.Category] = append(grouped[finding.Category], finding)
	}

	for _, category := range order {
		fmt.Fprintf(b, "### %s\n\n", category)

		for _, finding := range grouped[category] {
			fmt.Fprintf(b, "**%s Priority**\n\n", titleSeverity(finding.Severity))
			fmt.Fprintf(b, "**Issue:** %s\n\n", finding.Issue)
			fmt.Fprintf(b, "**Recommendation:** %s\n\n", finding.Recommendation)

			if finding.RewrittenQuery != "" {
				fmt.Fprintf(b, "**Optimized Query:**\n```sql\n%s\n```\n\n", finding.RewrittenQuery)
			}

			if len(finding.IndexAdvice) > 0 {
				fmt.Fprintf(b, "**Index Recommendations:**\n```sql\n%s\n```\n\n",
					strings.Join(finding.IndexAdvice, "\n"))
			}

			b.WriteString("---\n\n")
		}
	}
}

func (f *Formatter) writeComplexity(b *strings.Builder, c analyzer.Complexity) {
	b.WriteString("## Complexity Analysis\n\n")
	fmt.Fprintf(b, "- **Joins:** %d\n", c.JoinCount)
	fmt.Fprintf(b, "- **Subqueries:** %d\n", c.SubqueryCount)
	fmt.Fprintf(b, "- **WHERE Conditions:** %d\n", c.PredicateCount)
	fmt.Fprintf(b, "- **Has ORDER BY:** %s\n", yesNo(c.HasOrderBy))
	fmt.Fprintf(b, "- **Has GROUP BY:** %s\n", yesNo(c.HasGroupBy))
	fmt.Fprintf(b, "- **Has HAVING:** %s\n\n", yesNo(c.HasHaving))
}

func titleSeverity(s analyzer.Severity) string {
	name := s.String()

	return strings.ToUpper(name[:1]) + name[1:]
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}

	return "No"
}
