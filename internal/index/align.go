package index

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paveg/lazyframe/internal/common"
	"golang.org/x/exp/constraints"
)

// Default thresholds for strategy selection.
const (
	DefaultScanThreshold  = 8    // source rows at or below which a linear scan wins
	DefaultMergeThreshold = 1024 // source rows from which a merge over sorted keys wins
)

// Strategy names an alignment algorithm.
type Strategy int

const (
	Auto Strategy = iota
	Positional
	Scan
	Merge
	Hash
)

var strategyNames = map[Strategy]string{
	Auto:       "auto",
	Positional: "positional",
	Scan:       "scan",
	Merge:      "merge",
	Hash:       "hash",
}

// String returns the strategy name
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses a strategy name. Positional cannot be forced.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Auto, nil
	case "scan":
		return Scan, nil
	case "merge":
		return Merge, nil
	case "hash":
		return Hash, nil
	default:
		return Auto, fmt.Errorf("unknown alignment strategy %q", name)
	}
}

// Planner selects and runs alignment strategies.
type Planner struct {
	Strategy       Strategy
	ScanThreshold  int
	MergeThreshold int
}

// DefaultPlanner returns a planner choosing strategies automatically.
func DefaultPlanner() Planner {
	return Planner{
		Strategy:       Auto,
		ScanThreshold:  DefaultScanThreshold,
		MergeThreshold: DefaultMergeThreshold,
	}
}

// Select picks the strategy used to align source onto target.
func (p Planner) Select(target, source []any) Strategy {
	switch p.Strategy {
	case Scan, Hash:
		return p.Strategy
	case Merge:
		if canMerge(target, source) {
			return Merge
		}
		return Hash
	}

	if keysEqual(target, source) {
		return Positional
	}
	if len(source) <= p.ScanThreshold {
		return Scan
	}
	if len(source) >= p.MergeThreshold && canMerge(target, source) {
		return Merge
	}
	return Hash
}

func canMerge(target, source []any) bool {
	if !sortedAscending(target) || !sortedAscending(source) {
		return false
	}
	if len(target) == 0 || len(source) == 0 {
		return true
	}
	_, ok := compareKeys(target[0], source[0])
	return ok
}

// Align returns, for every key of target, the first position of that key in
// source, or -1 when source lacks it. The result always has target's length
// and order.
func (p Planner) Align(target, source *Index) ([]int, Strategy) {
	targetKeys := target.ToArray()
	sourceKeys := source.ToArray()

	strategy := p.Select(targetKeys, sourceKeys)
	switch strategy {
	case Positional:
		return positionalAlign(len(targetKeys)), strategy
	case Scan:
		return scanAlign(targetKeys, sourceKeys), strategy
	case Merge:
		return mergeAlign(targetKeys, sourceKeys), strategy
	default:
		return hashAlign(targetKeys, source.lookup()), strategy
	}
}

// Align maps source onto target with the default planner.
func Align(target, source *Index) []int {
	positions, _ := DefaultPlanner().Align(target, source)
	return positions
}

func positionalAlign(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

func scanAlign(target, source []any) []int {
	positions := make([]int, len(target))
	for i, key := range target {
		positions[i] = -1
		for j, candidate := range source {
			if sameKey(key, candidate) {
				positions[i] = j
				break
			}
		}
	}
	return positions
}

func hashAlign(target []any, table *LookupTable) []int {
	positions := make([]int, len(target))
	for i, key := range target {
		positions[i], _ = table.First(key)
	}
	return positions
}

// mergeAlign walks both sorted key lists once. Equal source keys are
// contiguous, so the cursor always rests on the first of them.
func mergeAlign(target, source []any) []int {
	positions := make([]int, len(target))
	j := 0
	for i, key := range target {
		cmp := 1
		for j < len(source) {
			cmp, _ = compareKeys(source[j], key)
			if cmp >= 0 {
				break
			}
			j++
		}
		if j < len(source) && cmp == 0 {
			positions[i] = j
		} else {
			positions[i] = -1
		}
	}
	return positions
}

func sameKey(a, b any) bool {
	switch av := a.(type) {
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	}
	return common.KeyString(a) == common.KeyString(b)
}

func sortedAscending(keys []any) bool {
	for i := range keys {
		prev := keys[max(i-1, 0)]
		cmp, ok := compareKeys(prev, keys[i])
		if !ok || cmp > 0 {
			return false
		}
	}
	return true
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareAs[T constraints.Ordered](a T, b any) (int, bool) {
	bv, ok := b.(T)
	if !ok {
		return 0, false
	}
	return compareOrdered(a, bv), true
}

// compareKeys orders two keys of the same ordered type. It reports false for
// keys that cannot be ordered against each other.
func compareKeys(a, b any) (int, bool) {
	switch av := a.(type) {
	case int:
		return compareAs(av, b)
	case int32:
		return compareAs(av, b)
	case int64:
		return compareAs(av, b)
	case uint:
		return compareAs(av, b)
	case uint64:
		return compareAs(av, b)
	case float64:
		bv, ok := b.(float64)
		if !ok || math.IsNaN(av) || math.IsNaN(bv) {
			return 0, false
		}
		return compareOrdered(av, bv), true
	case string:
		return compareAs(av, b)
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	default:
		return 0, false
	}
}
