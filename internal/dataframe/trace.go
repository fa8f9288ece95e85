package dataframe

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paveg/lazyframe/internal/common"
	"github.com/paveg/lazyframe/internal/config"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/paveg/lazyframe/internal/series"
)

// BakeSuggestionRows is the row count above which repeated column work on
// an unbaked DataFrame is reported as a bake candidate.
const BakeSuggestionRows = 1000

// TraceConfig configures operation tracing
type TraceConfig struct {
	Enabled     bool         `json:"enabled"`
	TrackMemory bool         `json:"track_memory"`
	Logger      *slog.Logger `json:"-"`
}

// OperationTrace represents a traced DataFrame operation
type OperationTrace struct {
	ID         string            `json:"id"`
	Operation  string            `json:"operation"`
	Input      DataFrameStats    `json:"input"`
	Output     DataFrameStats    `json:"output"`
	Duration   time.Duration     `json:"duration"`
	Memory     MemoryStats       `json:"memory"`
	Properties map[string]string `json:"properties"`
}

// DataFrameStats contains statistics about a DataFrame
type DataFrameStats struct {
	Rows    int               `json:"rows"`
	Columns int               `json:"columns"`
	Baked   bool              `json:"baked"`
	Schema  []string          `json:"schema"`
	Types   map[string]string `json:"types,omitempty"`
}

// MemoryStats contains memory usage statistics
type MemoryStats struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
	Delta  int64 `json:"delta"`
}

// Tracer records DataFrame operations. A nil Tracer runs operations
// without recording them.
type Tracer struct {
	mu         sync.Mutex
	operations []OperationTrace
	config     TraceConfig
}

// NewTracer creates a new tracer
func NewTracer(config TraceConfig) *Tracer {
	return &Tracer{
		operations: make([]OperationTrace, 0),
		config:     config,
	}
}

func traceLogger(cfg config.Config) *slog.Logger {
	if !cfg.VerboseLogging {
		return nil
	}
	return cfg.Logger()
}

// TraceOperation runs fn and records its input, output and duration.
func (t *Tracer) TraceOperation(
	op string, input *DataFrame, properties map[string]string, fn func() (*DataFrame, error),
) (*DataFrame, error) {
	if t == nil || !t.config.Enabled {
		return fn()
	}

	trace := OperationTrace{
		ID:         generateTraceID(),
		Operation:  op,
		Input:      captureStats(input),
		Properties: maps.Clone(properties),
	}
	if trace.Properties == nil {
		trace.Properties = make(map[string]string)
	}

	start := time.Now()
	var memBefore runtime.MemStats
	if t.config.TrackMemory {
		runtime.ReadMemStats(&memBefore)
	}

	result, err := fn()

	if t.config.TrackMemory {
		var memAfter runtime.MemStats
		runtime.ReadMemStats(&memAfter)
		trace.Memory = MemoryStats{
			Before: convertMemoryStats(memBefore.Alloc),
			After:  convertMemoryStats(memAfter.Alloc),
			Delta:  convertMemoryStats(memAfter.Alloc) - convertMemoryStats(memBefore.Alloc),
		}
	}

	trace.Duration = time.Since(start)

	if result != nil {
		trace.Output = captureStats(result)
	}
	if err != nil {
		trace.Properties["error"] = err.Error()
	}

	t.mu.Lock()
	t.operations = append(t.operations, trace)
	t.mu.Unlock()

	if t.config.Logger != nil {
		t.config.Logger.Debug("traced operation",
			slog.String("op", op),
			slog.Int("rows", trace.Output.Rows),
			slog.Int("columns", trace.Output.Columns),
			slog.Duration("duration", trace.Duration))
	}

	return result, err
}

// captureStats captures DataFrame statistics
func captureStats(df *DataFrame) DataFrameStats {
	if df == nil {
		return DataFrameStats{}
	}

	return DataFrameStats{
		Rows:    df.Count(),
		Columns: len(df.order),
		Baked:   df.baked,
		Schema:  df.GetColumnNames(),
		Types:   columnTypes(df),
	}
}

// columnTypes names the value type of every column of a baked DataFrame.
// Unbaked frames report nothing so tracing never evaluates a column.
func columnTypes(df *DataFrame) map[string]string {
	if !df.baked {
		return nil
	}
	types := make(map[string]string, len(df.order))
	for _, name := range df.order {
		types[name] = columnType(df.columns[name])
	}
	return types
}

// columnType is the shared type name of the present values, "numeric" for
// mixed number types, "mixed" otherwise and "empty" without values.
func columnType(s *series.Series) string {
	name := ""
	numeric := true
	for v := range s.Sequence().All() {
		if sequence.IsMissing(v) {
			continue
		}
		numeric = numeric && common.IsNumericType(v)
		switch typeName := common.GetTypeName(v); {
		case name == "":
			name = typeName
		case name != typeName && numeric:
			name = "numeric"
		case name != typeName:
			return "mixed"
		}
	}
	if name == "" {
		return "empty"
	}
	return name
}

// Operations returns a copy of the recorded traces
func (t *Tracer) Operations() []OperationTrace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.operations)
}

// Report generates an analysis report
func (t *Tracer) Report() AnalysisReport {
	operations := t.Operations()
	return AnalysisReport{
		Operations:  operations,
		Summary:     summarize(operations),
		Bottlenecks: identifyBottlenecks(operations),
		Suggestions: generateSuggestions(operations),
	}
}

// summarize generates a summary of operations
func summarize(operations []OperationTrace) OperationSummary {
	summary := OperationSummary{
		TotalOperations: len(operations),
		ByOperation:     make(map[string]int),
	}

	for i := range operations {
		op := &operations[i]
		summary.TotalDuration += op.Duration
		summary.TotalMemory += op.Memory.Delta
		summary.ByOperation[op.Operation]++
	}

	return summary
}

// identifyBottlenecks finds operations taking more than half of the total time
func identifyBottlenecks(operations []OperationTrace) []Bottleneck {
	bottlenecks := make([]Bottleneck, 0)

	var totalDuration time.Duration
	for i := range operations {
		totalDuration += operations[i].Duration
	}

	const bottleneckThreshold = 2 // 50% = 1/2
	for i := range operations {
		op := &operations[i]
		if op.Duration > totalDuration/bottleneckThreshold {
			bottlenecks = append(bottlenecks, Bottleneck{
				Operation: op.Operation,
				Duration:  op.Duration,
				Reason:    "Takes more than 50% of total execution time",
			})
		}
	}

	return bottlenecks
}

// generateSuggestions points at large unbaked inputs to column operations
func generateSuggestions(operations []OperationTrace) []string {
	suggestions := make([]string, 0)

	for i := range operations {
		op := &operations[i]
		if op.Operation == "New" || op.Operation == "Bake" {
			continue
		}
		if !op.Input.Baked && op.Input.Rows > BakeSuggestionRows {
			suggestions = append(suggestions,
				fmt.Sprintf("Consider baking before %s (processing %d unbaked rows)",
					op.Operation, op.Input.Rows))
		}
	}

	return suggestions
}

// AnalysisReport contains the complete analysis report
type AnalysisReport struct {
	Operations  []OperationTrace `json:"operations"`
	Summary     OperationSummary `json:"summary"`
	Bottlenecks []Bottleneck     `json:"bottlenecks"`
	Suggestions []string         `json:"suggestions"`
}

// OperationSummary contains summary statistics
type OperationSummary struct {
	TotalOperations int            `json:"total_operations"`
	TotalDuration   time.Duration  `json:"total_duration"`
	TotalMemory     int64          `json:"total_memory"`
	ByOperation     map[string]int `json:"by_operation"`
}

// Bottleneck represents a performance bottleneck
type Bottleneck struct {
	Operation string        `json:"operation"`
	Duration  time.Duration `json:"duration"`
	Reason    string        `json:"reason"`
}

// RenderJSON renders the report as indented JSON
func (r AnalysisReport) RenderJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

var traceCounter int64

// generateTraceID generates a unique trace ID
func generateTraceID() string {
	counter := atomic.AddInt64(&traceCounter, 1)
	return fmt.Sprintf("trace_%d_%d", time.Now().UnixNano(), counter)
}

// convertMemoryStats safely converts uint64 to int64 for memory statistics
func convertMemoryStats(val uint64) int64 {
	const maxInt64 = int64(^uint64(0) >> 1)
	if val > uint64(maxInt64) {
		return maxInt64
	}
	return int64(val)
}
