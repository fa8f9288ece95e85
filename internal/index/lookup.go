package index

import (
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/paveg/lazyframe/internal/common"
)

const (
	lookupLoadFactor     = 0.75       // load factor before the table grows
	lookupGrowthFactor   = 2          // growth factor on resize
	lookupCapacityFactor = 1.3        // initial capacity relative to the expected key count
	hashSignBitMask      = 0x7FFFFFFF // mask to remove sign bit from hash for positive modulo
)

// LookupTable maps index keys to the positions holding them, in ascending
// position order.
type LookupTable struct {
	buckets    [][]lookupEntry
	capacity   int
	size       int
	loadFactor float64
}

type lookupEntry struct {
	key       string
	positions []int
}

// NewLookupTable creates a table sized for roughly estimatedSize keys.
func NewLookupTable(estimatedSize int) *LookupTable {
	capacity := nextPowerOfTwo(int(float64(estimatedSize) * lookupCapacityFactor))
	return &LookupTable{
		buckets:    make([][]lookupEntry, capacity),
		capacity:   capacity,
		loadFactor: lookupLoadFactor,
	}
}

func buildLookup(keys []any) *LookupTable {
	table := NewLookupTable(len(keys))
	for pos, key := range keys {
		table.Put(key, pos)
	}
	return table
}

// Len returns the number of distinct keys.
func (lt *LookupTable) Len() int {
	return lt.size
}

func (lt *LookupTable) bucket(key string, capacity int) int {
	hash := xxhash.Sum64String(key)
	//nolint:gosec // capacity is always a positive power of two
	return int((hash & hashSignBitMask) % uint64(capacity))
}

// Put records that key occurs at pos.
func (lt *LookupTable) Put(key any, pos int) {
	ks := common.KeyString(key)
	idx := lt.bucket(ks, lt.capacity)

	for i := range lt.buckets[idx] {
		if lt.buckets[idx][i].key == ks {
			lt.buckets[idx][i].positions = append(lt.buckets[idx][i].positions, pos)
			return
		}
	}

	lt.buckets[idx] = append(lt.buckets[idx], lookupEntry{
		key:       ks,
		positions: []int{pos},
	})
	lt.size++

	if float64(lt.size) > float64(lt.capacity)*lt.loadFactor {
		lt.resize()
	}
}

// Get returns every position recorded for key.
func (lt *LookupTable) Get(key any) ([]int, bool) {
	ks := common.KeyString(key)
	for _, entry := range lt.buckets[lt.bucket(ks, lt.capacity)] {
		if entry.key == ks {
			return entry.positions, true
		}
	}
	return nil, false
}

// First returns the earliest position recorded for key.
func (lt *LookupTable) First(key any) (int, bool) {
	positions, ok := lt.Get(key)
	if !ok {
		return -1, false
	}
	return positions[0], true
}

// resize doubles the capacity and rehashes all entries.
func (lt *LookupTable) resize() {
	newCapacity := lt.capacity * lookupGrowthFactor
	newBuckets := make([][]lookupEntry, newCapacity)

	for _, bucket := range lt.buckets {
		for _, entry := range bucket {
			idx := lt.bucket(entry.key, newCapacity)
			newBuckets[idx] = append(newBuckets[idx], entry)
		}
	}

	lt.buckets = newBuckets
	lt.capacity = newCapacity
}

// nextPowerOfTwo returns the next power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
