package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/staticdex/staticdex/internal/logging"
	"github.com/staticdex/staticdex/internal/output"
	"github.com/staticdex/staticdex/pkg/searchidx"
)

type searchOptions struct {
	limit int
	json  bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <index.bin> <query...>",
		Short: "Run a single query against a built index",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args[1:], " ")
			return runSearch(cmd, args[0], query, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")

	return cmd
}

// tierTimings holds the wall-clock contribution of each tier to a query,
// in the order Engine.Search fires its onUpdate callback: T1 (exact), T2
// (prefix), T3 (fuzzy).
type tierTimings struct {
	T1 time.Duration `json:"t1"`
	T2 time.Duration `json:"t2"`
	T3 time.Duration `json:"t3"`
}

func runSearch(cmd *cobra.Command, indexPath, query string, opts searchOptions) error {
	out := output.New(cmd.OutOrStdout())

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	searcher, err := searchidx.Open(data)
	if err != nil {
		return err
	}
	defer searcher.Free()

	var timings tierTimings
	var results []searchidx.Result

	stage := 0
	last := time.Now()
	err = searcher.Search(cmd.Context(), query, opts.limit, func(batch []searchidx.Result) {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now
		results = batch

		switch stage {
		case 0:
			timings.T1 = elapsed
		case 1:
			timings.T2 = elapsed
		case 2:
			timings.T3 = elapsed
		}
		logging.LogTierTiming(slog.Default(), query, stage+1, elapsed, len(batch))
		stage++
	}, func() {})
	if err != nil {
		return err
	}

	total := timings.T1 + timings.T2 + timings.T3

	if opts.json {
		payload := struct {
			Query   string             `json:"query"`
			Results []searchidx.Result `json:"results"`
			Timings tierTimings        `json:"timings_ns"`
			Elapsed time.Duration      `json:"elapsed_ns"`
		}{
			Query:   query,
			Results: results,
			Timings: timings,
			Elapsed: total,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	if len(results) == 0 {
		out.Statusf("", "No results for %q (%s)", query, total)
		out.Statusf("", "T1=%s T2=%s T3=%s", timings.T1, timings.T2, timings.T3)
		return nil
	}

	out.Statusf("", "Found %d results for %q in %s (T1=%s T2=%s T3=%s):",
		len(results), query, total, timings.T1, timings.T2, timings.T3)
	out.Newline()
	for i, r := range results {
		location := r.Href
		if r.SectionID != "" {
			location = fmt.Sprintf("%s#%s", r.Href, r.SectionID)
		}
		out.Statusf("", "%d. %s (score: %d)", i+1, r.Title, r.Score)
		out.Statusf("", "   %s", location)
		if r.Excerpt != "" {
			out.Statusf("", "   %s", r.Excerpt)
		}
	}

	return nil
}
