package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleTable(t *testing.T) {
	ddl := `CREATE TABLE Users (
		user_id INT PRIMARY KEY,
		name VARCHAR(50)
	)`

	s := Parse(ddl)
	require.Len(t, s, 1)
	require.True(t, s.HasTable("users"))

	table := s["users"]
	require.Len(t, table.Columns, 2)

	assert.Equal(t, Column{Name: "user_id", Type: "INT", PrimaryKey: true}, table.Columns[0])
	assert.Equal(t, Column{Name: "name", Type: "VARCHAR(50)", PrimaryKey: false}, table.Columns[1])
}

func TestParseMultipleTables(t *testing.T) {
	s := Parse(Sample)

	assert.ElementsMatch(t, []string{"users", "orders", "products"}, s.TableNames())
	assert.True(t, s["orders"].Columns[0].PrimaryKey)
}

func TestParseCaseInsensitiveKeyword(t *testing.T) {
	s := Parse("create table logs (id int, message text)")

	require.True(t, s.HasTable("logs"))
	assert.Equal(t, "id", s["logs"].Columns[0].Name)
}

func TestParseColumnListSpansLines(t *testing.T) {
	ddl := "CREATE TABLE events (\n  event_id INT,\n  payload\n)"

	s := Parse(ddl)
	require.True(t, s.HasTable("events"))

	cols := s["events"].Columns
	require.Len(t, cols, 2)
	// Missing type falls back to the literal "unknown"
	assert.Equal(t, "unknown", cols[1].Type)
}

func TestParsePrimaryKeyTokensNotAdjacent(t *testing.T) {
	ddl := "CREATE TABLE t (id INT CONSTRAINT pk_id PRIMARY legacy KEY)"

	s := Parse(ddl)
	require.True(t, s.HasTable("t"))
	assert.True(t, s["t"].Columns[0].PrimaryKey)
}

func TestParseMalformedInputYieldsNothing(t *testing.T) {
	tests := []string{
		"",
		"not DDL at all",
		"CREATE TABLE broken (never closed",
		"SELECT * FROM users;",
	}

	for _, ddl := range tests {
		assert.Empty(t, Parse(ddl), "input: %q", ddl)
	}
}

func TestParseIdempotent(t *testing.T) {
	first := Parse(Sample)
	second := Parse(Sample)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing the same DDL twice produced different schemas")
	}
}

func TestFormatDeterministic(t *testing.T) {
	s := Parse(Sample)

	out := s.Format()
	assert.Equal(t, out, s.Format())
	assert.Contains(t, out, "Table: orders")
	assert.Contains(t, out, "user_id (INT) [primary key]")
}

func TestHasTableUnknown(t *testing.T) {
	s := Parse(Sample)

	assert.False(t, s.HasTable("ghosts"))
	assert.True(t, s.HasTable("USERS"))
}
