package series

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/lazyframe/internal/config"
	dferrors "github.com/paveg/lazyframe/internal/errors"
	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, values []any, opts ...Option) *Series {
	t.Helper()
	s, err := New(values, opts...)
	require.NoError(t, err)
	return s
}

func generator(values ...any) func(func(any) bool) {
	return func(yield func(any) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name         string
		values       []any
		opts         []Option
		expectedKeys []any
	}{
		{
			name:         "default index",
			values:       []any{"a", "b", "c"},
			expectedKeys: []any{0, 1, 2},
		},
		{
			name:         "explicit index",
			values:       []any{10, 20},
			opts:         []Option{WithIndex([]any{1, 2})},
			expectedKeys: []any{1, 2},
		},
		{
			name:         "index of another series",
			values:       []any{1.5, 2.5},
			opts:         []Option{WithIndexOf(index.New([]any{"x", "y"}))},
			expectedKeys: []any{"x", "y"},
		},
		{
			name:         "empty",
			values:       []any{},
			expectedKeys: []any{},
		},
		{
			name:         "nil is a value",
			values:       []any{nil, 1},
			expectedKeys: []any{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustNew(t, tt.values, tt.opts...)
			assert.Equal(t, tt.values, s.ToArray())
			assert.Equal(t, tt.expectedKeys, s.GetIndex().ToArray())
			assert.Equal(t, len(tt.values), s.Count())
			assert.False(t, s.Baked())
		})
	}
}

func TestNewSeriesIndexMismatch(t *testing.T) {
	_, err := New([]any{1, 2, 3}, WithIndex([]any{1, 2}))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, dferrors.ErrMismatchedLength))

	var dfErr *dferrors.DataFrameError
	require.ErrorAs(t, err, &dfErr)
	assert.Equal(t, "New", dfErr.Op)

	_, err = New([]any{1}, WithIndexOf(index.Range(2)))
	assert.Error(t, err)
}

func TestIndexKeysAreCopied(t *testing.T) {
	keys := []any{1, 2, 3}
	s := mustNew(t, []any{"a", "b", "c"}, WithIndex(keys))
	v, ok := s.At(2)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	keys[1] = 7
	assert.Equal(t, []Pair{{1, "a"}, {2, "b"}, {3, "c"}}, s.ToPairs())
	_, ok = s.At(7)
	assert.False(t, ok)

	relabelKeys := []any{"x", "y", "z"}
	relabeled, err := s.WithIndex(relabelKeys)
	require.NoError(t, err)
	relabelKeys[0] = "w"
	assert.Equal(t, []any{"x", "y", "z"}, relabeled.GetIndex().ToArray())
}

func TestSkip(t *testing.T) {
	s := mustNew(t, []any{1, 2, 3, 4, 5}, WithIndex([]any{0, 1, 2, 3, 4}))
	result := s.Skip(2)

	assert.Equal(t, []any{3, 4, 5}, result.ToArray())
	assert.Equal(t, []any{2, 3, 4}, result.GetIndex().ToArray())
	assert.Equal(t, []Pair{{2, 3}, {3, 4}, {4, 5}}, result.ToPairs())
}

func TestSkipBounds(t *testing.T) {
	values := []any{"a", "b", "c"}
	keys := []any{10, 20, 30}
	s := mustNew(t, values, WithIndex(keys))

	for k := 0; k <= len(values); k++ {
		skipped := s.Skip(k)
		assert.Equal(t, values[k:], skipped.ToArray())
		assert.Equal(t, keys[k:], skipped.GetIndex().ToArray())
	}

	assert.Equal(t, values, s.Skip(-4).ToArray())
	assert.NotSame(t, s, s.Skip(0))
	assert.Empty(t, s.Skip(10).ToPairs())
}

func TestSkipGenerator(t *testing.T) {
	s := FromSeq(generator("a", "b", "c"))
	skipped := s.Skip(1)

	assert.Equal(t, []any{"b", "c"}, skipped.ToArray())
	assert.Equal(t, []any{1, 2}, skipped.GetIndex().ToArray())
	assert.Equal(t, []any{"b", "c"}, skipped.ToArray())
}

func TestTakeHeadTail(t *testing.T) {
	s := mustNew(t, []any{1, 2, 3, 4}, WithIndex([]any{"a", "b", "c", "d"}))

	assert.Equal(t, []Pair{{"a", 1}, {"b", 2}}, s.Take(2).ToPairs())
	assert.Equal(t, s.Take(3).ToPairs(), s.Head(3).ToPairs())
	assert.Equal(t, []Pair{{"c", 3}, {"d", 4}}, s.Tail(2).ToPairs())
	assert.Equal(t, s.ToPairs(), s.Tail(9).ToPairs())
	assert.Empty(t, s.Tail(0).ToArray())
	assert.Empty(t, s.Take(-1).ToArray())
}

func TestBake(t *testing.T) {
	s := mustNew(t, []any{10, 20}, WithIndex([]any{1, 2}))
	baked := s.Bake()

	assert.NotSame(t, s, baked)
	assert.True(t, baked.Baked())
	assert.Equal(t, s.ToPairs(), baked.ToPairs())
}

func TestBakeBakedReturnsSame(t *testing.T) {
	s := mustNew(t, []any{10, 20}, WithIndex([]any{1, 2}))
	baked := s.Bake()
	rebaked := baked.Bake()

	assert.Same(t, baked, rebaked)
}

func TestBakeCopiesCallerSlice(t *testing.T) {
	values := []any{1, 2, 3}
	s := mustNew(t, values)
	baked := s.Bake()

	values[0] = 99
	assert.Equal(t, 99, s.ToArray()[0])
	assert.Equal(t, 1, baked.ToArray()[0])
}

func TestBakeStorage(t *testing.T) {
	cfg := config.NewConfig()

	columnar := mustNew(t, []any{1.5, sequence.Missing, 3.5}, WithConfig(cfg), WithAllocator(memory.NewGoAllocator())).Bake()
	arr, ok := columnar.Sequence().Arrow()
	require.True(t, ok)
	assert.Equal(t, 1, arr.NullN())
	arr.Release()
	assert.Equal(t, []any{1.5, sequence.Missing, 3.5}, columnar.ToArray())

	cfg.ColumnarBake = false
	plain := mustNew(t, []any{1, 2}, WithConfig(cfg)).Bake()
	_, ok = plain.Sequence().Arrow()
	assert.False(t, ok)
	assert.True(t, plain.Baked())
}

func TestFromFuncRerunsGenerator(t *testing.T) {
	runs := 0
	s := FromFunc(func(yield func(any) bool) {
		runs++
		for _, v := range []any{"x", "y"} {
			if !yield(v) {
				return
			}
		}
	})

	assert.Equal(t, []any{"x", "y"}, s.ToArray())
	assert.Equal(t, []any{"x", "y"}, s.ToArray())
	assert.Equal(t, 2, runs)
	assert.Equal(t, []any{0, 1}, s.GetIndex().ToArray())
	assert.False(t, s.Baked())
	assert.True(t, s.Bake().Baked())
}

func TestFromSeqPullsOnce(t *testing.T) {
	pulls := 0
	s := FromSeq(func(yield func(any) bool) {
		pulls++
		for _, v := range []any{"x", "y", "z"} {
			if !yield(v) {
				return
			}
		}
	})
	assert.Equal(t, 0, pulls)

	assert.Equal(t, []any{0, 1, 2}, s.GetIndex().ToArray())
	assert.Equal(t, []any{"x", "y", "z"}, s.ToArray())
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []Pair{{0, "x"}, {1, "y"}, {2, "z"}}, s.Bake().ToPairs())
	assert.Equal(t, 1, pulls)
}

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.ToPairs())
	assert.Same(t, s, s.Bake())
}

func TestWhereSelect(t *testing.T) {
	s := mustNew(t, []any{1, 2, 3, 4}, WithIndex([]any{"a", "b", "c", "d"}))

	even := s.Where(func(v any) bool { return v.(int)%2 == 0 })
	assert.Equal(t, []Pair{{"b", 2}, {"d", 4}}, even.ToPairs())

	doubled := s.Select(func(v any) any { return v.(int) * 2 })
	assert.Equal(t, []any{2, 4, 6, 8}, doubled.ToArray())
	assert.Equal(t, s.GetIndex().ToArray(), doubled.GetIndex().ToArray())
}

func TestDropMissing(t *testing.T) {
	s := mustNew(t, []any{sequence.Missing, 11, sequence.Missing, 12, sequence.Missing})
	compact := s.DropMissing()

	assert.Equal(t, []Pair{{1, 11}, {3, 12}}, compact.ToPairs())
	assert.Equal(t, 2, compact.Count())

	withNil := mustNew(t, []any{nil, sequence.Missing}).DropMissing()
	assert.Equal(t, []Pair{{0, nil}}, withNil.ToPairs())
}

func TestWithIndex(t *testing.T) {
	s := mustNew(t, []any{"a", "b"})

	relabeled, err := s.WithIndex([]any{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"x", "a"}, {"y", "b"}}, relabeled.ToPairs())
	assert.Equal(t, []any{0, 1}, s.GetIndex().ToArray())

	_, err = s.WithIndex([]any{"x"})
	assert.True(t, stderrors.Is(err, dferrors.ErrMismatchedLength))

	assert.Equal(t, []any{0, 1}, relabeled.ResetIndex().GetIndex().ToArray())
}

func TestReindex(t *testing.T) {
	s := mustNew(t, []any{"foo", "bar"}, WithIndex([]any{5, 6}))
	aligned := s.Reindex(index.New([]any{5, 6, 7, 8}))

	assert.Equal(t, []any{5, 6, 7, 8}, aligned.GetIndex().ToArray())
	assert.Equal(t, []any{"foo", "bar", sequence.Missing, sequence.Missing}, aligned.ToArray())
}

func TestReindexStrategies(t *testing.T) {
	source := mustNew(t, []any{"a", "b", "c", "b2"}, WithIndex([]any{3, 1, 2, 1}))
	target := index.New([]any{1, 2, 3, 4})
	expected := []any{"b", "c", "a", sequence.Missing}

	for _, strategy := range []string{"auto", "hash", "merge", "scan"} {
		t.Run(strategy, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.AlignStrategy = strategy
			cfg.VerboseLogging = true
			s := mustNew(t, source.ToArray(), WithIndex(source.GetIndex().ToArray()), WithConfig(cfg))
			assert.Equal(t, expected, s.Reindex(target).ToArray())
		})
	}
}

func TestAt(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := mustNew(t, []any{1, 2, 3}, WithIndex([]any{"a", day, "a"}))

	v, ok := s.At("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = s.At(day)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = s.At("z")
	assert.False(t, ok)
	assert.True(t, sequence.IsMissing(v))
}

func TestAll(t *testing.T) {
	s := mustNew(t, []any{"a", "b", "c"}, WithIndex([]any{7, 8, 9}))

	var keys []any
	for k, v := range s.All() {
		keys = append(keys, k)
		if v == "b" {
			break
		}
	}
	assert.Equal(t, []any{7, 8}, keys)
}

func TestString(t *testing.T) {
	s := mustNew(t, []any{1, "x", sequence.Missing})
	assert.Equal(t, "Series[3]{0: 1, 1: x, 2: <missing>}", s.String())

	long := make([]any, 12)
	for i := range long {
		long[i] = i
	}
	assert.Contains(t, mustNew(t, long).String(), "9: 9 ...}")
}

func TestSkipCorrectnessProperty(t *testing.T) {
	for n := 0; n <= 6; n++ {
		values := make([]any, n)
		keys := make([]any, n)
		for i := range values {
			values[i] = i * i
			keys[i] = n - i
		}
		s := mustNew(t, values, WithIndex(keys))
		for k := 0; k <= n; k++ {
			assert.Equal(t, values[k:], s.Skip(k).ToArray())
			assert.Equal(t, keys[k:], s.Skip(k).GetIndex().ToArray())
		}
	}
}

func TestBakeIdempotenceProperty(t *testing.T) {
	inputs := []*Series{
		mustNew(t, []any{1, 2, 3}),
		FromSeq(generator("a", sequence.Missing)),
		mustNew(t, []any{1, 2, 3}).Skip(1),
		mustNew(t, []any{true, false}).Where(func(v any) bool { return v.(bool) }),
	}

	for _, s := range inputs {
		baked := s.Bake()
		assert.NotSame(t, s, baked)
		assert.Same(t, baked, baked.Bake())
		assert.Equal(t, s.ToPairs(), baked.ToPairs())
	}
}
