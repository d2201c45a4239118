package tier

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/staticdex/staticdex/pkg/fuzzy"
)

// runT3Parallel fans the vocabulary scan across runtime.GOMAXPROCS(0)
// shards, each producing a local (term_idx, distance) list, then merges
// them by ascending term_idx before applying process -- so the result is
// identical to the single-threaded scan regardless of shard count, per
// §5's data-parallel profile.
func (e *Engine) runT3Parallel(ctx context.Context, a *fuzzy.Automaton, process func(fuzzy.Match)) {
	n := e.Vocab.Len()
	if n == 0 {
		return
	}

	shards := runtime.GOMAXPROCS(0)
	if shards > n {
		shards = n
	}
	if shards < 1 {
		shards = 1
	}

	results := make([][]fuzzy.Match, shards)
	g, gctx := errgroup.WithContext(ctx)

	chunk := (n + shards - 1) / shards
	for s := 0; s < shards; s++ {
		s := s
		start := s * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			var local []fuzzy.Match
			for i := start; i < end; i++ {
				if gctx.Err() != nil {
					return nil
				}
				if d, ok := a.Match(e.Vocab.Terms[i]); ok {
					local = append(local, fuzzy.Match{TermIdx: i, Distance: d})
				}
			}
			results[s] = local
			return nil
		})
	}
	_ = g.Wait()

	var merged []fuzzy.Match
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].TermIdx < merged[j].TermIdx })

	for _, m := range merged {
		process(m)
	}
}
