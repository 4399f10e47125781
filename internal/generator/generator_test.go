package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleking/sql-advisor/internal/analyzer"
	"github.com/kyleking/sql-advisor/internal/llm"
	"github.com/kyleking/sql-advisor/internal/schema"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) GenerateSQL(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)

	return s.response, s.err
}

func (s *stubLLM) Configure(llm.Config) error { return nil }

func TestGenerateAISuccess(t *testing.T) {
	stub := &stubLLM{response: "```sql\nSELECT user_id FROM users WHERE user_id IS NOT NULL LIMIT 10\n```"}
	g := NewGenerator(stub, analyzer.NewEngine())

	result := g.Generate(context.Background(), "active users", schema.Parse(schema.Sample))

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, MethodAI, result.Method)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Empty(t, result.ValidationErrors)
	assert.Equal(t, "SELECT user_id FROM users WHERE user_id IS NOT NULL LIMIT 10", result.Query)
	assert.Equal(t, 100, result.PerformanceScore)
}

func TestGeneratePromptEmbedsSchema(t *testing.T) {
	stub := &stubLLM{response: "SELECT user_id FROM users WHERE status = 'x' LIMIT 1"}
	g := NewGenerator(stub, analyzer.NewEngine())

	g.Generate(context.Background(), "anything", schema.Parse(schema.Sample))

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "anything")
	assert.Contains(t, stub.prompts[0], "users")
	assert.Contains(t, stub.prompts[0], "orders")
	assert.NotContains(t, stub.prompts[0], "No schema provided")
}

func TestGeneratePromptWithoutSchema(t *testing.T) {
	stub := &stubLLM{response: "SELECT 1 FROM dual WHERE 1 = 1 LIMIT 1"}
	g := NewGenerator(stub, analyzer.NewEngine())

	g.Generate(context.Background(), "anything", schema.Schema{})

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "No schema provided")
}

func TestGenerateAIQueryGetsOptimized(t *testing.T) {
	// The AI response passes validation but still carries SELECT *, which
	// the optimizer rewrites before the result is returned.
	stub := &stubLLM{response: "SELECT * FROM users WHERE status = 'active' LIMIT 10"}
	g := NewGenerator(stub, analyzer.NewEngine())

	result := g.Generate(context.Background(), "active users", schema.Parse(schema.Sample))

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Contains(t, result.Query, "column1, column2, column3")
}

func TestGenerateAIValidationFailureFallsBack(t *testing.T) {
	stub := &stubLLM{response: "DROP TABLE users"}
	g := NewGenerator(stub, analyzer.NewEngine())

	result := g.Generate(context.Background(), "delete everything please", schema.Parse(schema.Sample))

	assert.Equal(t, StatusFallbackUsed, result.Status)
	assert.Equal(t, MethodGeneric, result.Method)
	assert.NotEmpty(t, result.ValidationErrors)

	var dangerous bool
	for _, e := range result.ValidationErrors {
		if e == "Potentially dangerous operations detected: drop" {
			dangerous = true
		}
	}
	assert.True(t, dangerous, "validation errors should carry through: %v", result.ValidationErrors)
}

func TestGenerateAIErrorFallsBack(t *testing.T) {
	stub := &stubLLM{err: errors.New("connection refused")}
	g := NewGenerator(stub, analyzer.NewEngine())

	result := g.Generate(context.Background(), "show me the top 5 users", schema.Parse(schema.Sample))

	assert.Equal(t, StatusFallbackUsed, result.Status)
	assert.Equal(t, MethodPattern, result.Method)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Contains(t, result.ValidationErrors, "AI error: connection refused")
	// The pattern query starts as SELECT * and is rewritten by the optimizer.
	assert.Contains(t, result.Query, "FROM users ORDER BY id DESC LIMIT 5")
}

func TestGenerateNilServiceUsesPatterns(t *testing.T) {
	g := NewGenerator(nil, analyzer.NewEngine())

	result := g.Generate(context.Background(), "count how many orders each user placed", schema.Schema{})

	assert.Equal(t, StatusFallbackUsed, result.Status)
	assert.Equal(t, MethodPattern, result.Method)
	assert.Contains(t, result.ValidationErrors, "AI not available")
	assert.Contains(t, result.Query, "COUNT(o.order_id)")
}

func TestGenerateNilServiceGeneric(t *testing.T) {
	g := NewGenerator(nil, analyzer.NewEngine())

	result := g.Generate(context.Background(), "do something unusual", schema.Schema{})

	assert.Equal(t, StatusAIUnavailable, result.Status)
	assert.Equal(t, MethodGeneric, result.Method)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Equal(t, 50, result.PerformanceScore)
	assert.Equal(t, genericQuery, result.Query)
	assert.Equal(t, []string{"Consider refining your query description"}, result.OptimizationSuggestions)
}

func TestGenerateEmptyAIResponseFallsBack(t *testing.T) {
	stub := &stubLLM{response: "```sql\n```"}
	g := NewGenerator(stub, analyzer.NewEngine())

	result := g.Generate(context.Background(), "do something unusual", schema.Schema{})

	// The AI path was attempted, so the generic result is a fallback rather
	// than ai_unavailable.
	assert.Equal(t, StatusFallbackUsed, result.Status)
	assert.Equal(t, MethodGeneric, result.Method)
}

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "plain sql",
			response: "SELECT id FROM users",
			want:     "SELECT id FROM users",
		},
		{
			name:     "markdown fences",
			response: "```sql\nSELECT id FROM users\n```",
			want:     "SELECT id FROM users",
		},
		{
			name:     "line comments removed",
			response: "SELECT id FROM users -- fetch ids\nLIMIT 5",
			want:     "SELECT id FROM users \nLIMIT 5",
		},
		{
			name:     "whitespace trimmed",
			response: "  \n SELECT 1 FROM dual \n ",
			want:     "SELECT 1 FROM dual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSQL(tt.response))
		})
	}
}
