// Package testutil provides common testing utilities shared by the lazyframe
// test suites:
// - Memory allocator setup and cleanup
// - Standard test DataFrame creation
// - Common test assertions
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/lazyframe/internal/dataframe"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext provides memory allocator with automatic cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator with automatic cleanup for tests.
// Returns a TestMemoryContext that should be released with defer.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	allocator := memory.NewGoAllocator()

	return &TestMemoryContext{
		Allocator: allocator,
		cleanup: func() {
			// Arrow buffers from the Go allocator are reclaimed by the GC
		},
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeMissing bool
	rowCount       int
	withActive     bool
	index          []any
}

// WithMissing leaves every third salary Missing.
func WithMissing() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeMissing = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

// WithIndex labels the rows with keys. len(keys) must match the row count.
func WithIndex(keys ...any) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.index = keys
	}
}

// CreateTestDataFrame creates a standard test DataFrame with employee data.
//
// Default DataFrame includes:
// - name (string): ["Alice", "Bob", "Charlie", "David"]
// - age (int64): [25, 30, 35, 28]
// - department (string): ["Engineering", "Sales", "Engineering", "Marketing"]
// - salary (int64): [100000, 80000, 120000, 75000]
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
//	df := testutil.CreateTestDataFrame(t, mem.Allocator)
func CreateTestDataFrame(tb testing.TB, allocator memory.Allocator, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &testDataFrameConfig{
		rowCount: defaultRowCount,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	salaries := generateSalaries(cfg.rowCount)
	if cfg.includeMissing {
		for i := range salaries {
			if i%3 == 2 {
				salaries[i] = sequence.Missing
			}
		}
	}

	columns := []dataframe.Column{
		{Name: "name", Values: generateNames(cfg.rowCount)},
		{Name: "age", Values: generateAges(cfg.rowCount)},
		{Name: "department", Values: generateDepartments(cfg.rowCount)},
		{Name: "salary", Values: salaries},
	}

	if cfg.withActive {
		columns = append(columns, dataframe.Column{Name: "active", Values: generateActiveFlags(cfg.rowCount)})
	}

	df, err := dataframe.New(dataframe.Columns{Columns: columns, Index: cfg.index}, dataframe.WithAllocator(allocator))
	require.NoError(tb, err)
	return df
}

// CreateSimpleTestDataFrame creates a simple 2-column DataFrame for basic testing.
func CreateSimpleTestDataFrame(tb testing.TB, allocator memory.Allocator) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.New(dataframe.Rows{
		ColumnNames: []string{"name", "age"},
		Rows: [][]any{
			{"Alice", int64(25)},
			{"Bob", int64(30)},
		},
	}, dataframe.WithAllocator(allocator))
	require.NoError(tb, err)
	return df
}

// AssertDataFrameEqual compares column names, row keys and every row.
func AssertDataFrameEqual(t *testing.T, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	assert.Equal(t, expected.Count(), actual.Count(), "DataFrame lengths should match")
	assert.Equal(t, expected.GetColumnNames(), actual.GetColumnNames(), "DataFrame columns should match")
	assert.Equal(t, expected.GetIndex().ToArray(), actual.GetIndex().ToArray(), "DataFrame index keys should match")
	assert.Equal(t, expected.ToRows(), actual.ToRows(), "DataFrame rows should match")
}

// AssertDataFrameHasColumns verifies that a DataFrame has the expected columns.
func AssertDataFrameHasColumns(t *testing.T, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")

	actualColumns := df.GetColumnNames()
	assert.Len(t, actualColumns, len(expectedColumns), "column count should match")

	for _, col := range expectedColumns {
		assert.True(t, df.HasSeries(col), "DataFrame should have column %s", col)
	}
}

// AssertDataFrameNotEmpty verifies that a DataFrame is not empty.
func AssertDataFrameNotEmpty(t *testing.T, df *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Positive(t, df.Count(), "DataFrame should not be empty")
	assert.NotEmpty(t, df.GetColumnNames(), "DataFrame should have columns")
}

// Helper functions for generating test data

func generateNames(count int) []any {
	baseNames := []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"}
	names := make([]any, count)
	for i := range count {
		names[i] = baseNames[i%len(baseNames)]
	}
	return names
}

func generateAges(count int) []any {
	baseAges := []int64{25, 30, 35, 28, 32, 45, 29, 38}
	ages := make([]any, count)
	for i := range count {
		ages[i] = baseAges[i%len(baseAges)]
	}
	return ages
}

func generateDepartments(count int) []any {
	baseDepts := []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"}
	departments := make([]any, count)
	for i := range count {
		departments[i] = baseDepts[i%len(baseDepts)]
	}
	return departments
}

func generateSalaries(count int) []any {
	baseSalaries := []int64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000}
	salaries := make([]any, count)
	for i := range count {
		salaries[i] = baseSalaries[i%len(baseSalaries)]
	}
	return salaries
}

func generateActiveFlags(count int) []any {
	baseFlags := []bool{true, true, false, true, true, false, true, false}
	flags := make([]any, count)
	for i := range count {
		flags[i] = baseFlags[i%len(baseFlags)]
	}
	return flags
}
