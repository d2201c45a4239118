package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/staticdex/staticdex/internal/config"
	"github.com/staticdex/staticdex/internal/corpus"
	"github.com/staticdex/staticdex/internal/logging"
	"github.com/staticdex/staticdex/internal/output"
	"github.com/staticdex/staticdex/pkg/searchidx"
	"github.com/staticdex/staticdex/pkg/vocab"
)

const demoPageTemplate = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>staticdex demo</title></head>
<body>
<h1>staticdex demo</h1>
<p>This page ships the index next to it. A loader runtime embeds and
queries %s; none is generated by this CLI.</p>
<script type="application/octet-stream" src="index.bin"></script>
</body>
</html>
`

func newIndexCmd() *cobra.Command {
	var (
		inputDir  string
		outputDir string
		demo      bool
		codeAware bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build a binary index from a corpus directory",
		Long: `Loads a manifest-described corpus, tokenizes every document,
builds the vocabulary, suffix array and inverted index, and writes the
result as a single index.bin under --output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, inputDir, outputDir, demo, codeAware)
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", ".", "Corpus directory containing manifest.json")
	cmd.Flags().StringVar(&outputDir, "output", ".", "Directory to write index.bin into")
	cmd.Flags().BoolVar(&demo, "demo", false, "Also write a minimal demo.html alongside index.bin")
	cmd.Flags().BoolVar(&codeAware, "code-aware", false, "Also split camelCase/PascalCase runs (overrides tokenizer_mode in config)")

	return cmd
}

func runIndex(cmd *cobra.Command, inputDir, outputDir string, demo, codeAware bool) error {
	out := output.New(cmd.OutOrStdout())

	buildID := uuid.NewString()
	buildLog := logging.BuildLogger(slog.Default(), buildID)
	buildLog.Info("build_started", slog.String("input", inputDir))
	started := time.Now()

	cfg, err := config.Load(inputDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out.Statusf("→", "Loading corpus from %s", inputDir)
	c, err := corpus.Load(inputDir)
	if err != nil {
		return err
	}
	out.Successf("Loaded %d documents", len(c.Documents))

	opts := searchidx.BuildOptions{
		Mode:              tokenizerModeFromConfig(cfg.TokenizerMode, codeAware),
		Fold:              caseFoldFromConfig(cfg.CaseFold),
		MaxQueryLen:       cfg.DefaultQueryLength,
		MaxDistance:       cfg.MaxFuzzyDistance,
		ParallelFuzzyScan: cfg.ParallelFuzzyScan,
		PostingCacheSize:  cfg.PostingCacheBlocks,
	}

	out.Status("→", "Building index")
	idx, err := searchidx.Build(c, opts)
	if err != nil {
		return err
	}
	out.Successf("Indexed %d terms across %d documents", idx.Vocab.Len(), len(idx.Documents))

	data, err := searchidx.Encode(idx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	indexPath := filepath.Join(outputDir, "index.bin")
	if err := os.WriteFile(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	out.Successf("Wrote %s (%d bytes)", indexPath, len(data))
	logging.LogBuildFinished(buildLog, len(idx.Documents), idx.Vocab.Len(), len(data), time.Since(started))

	if demo {
		demoPath := filepath.Join(outputDir, "demo.html")
		page := fmt.Sprintf(demoPageTemplate, "index.bin")
		if err := os.WriteFile(demoPath, []byte(page), 0o644); err != nil {
			return fmt.Errorf("write demo page: %w", err)
		}
		out.Successf("Wrote %s", demoPath)
	}

	return nil
}

func caseFoldFromConfig(f config.CaseFold) vocab.CaseFold {
	if f == config.CaseFoldNone {
		return vocab.FoldNone
	}
	return vocab.FoldLower
}

func tokenizerModeFromConfig(m config.TokenizerMode, codeAware bool) vocab.Mode {
	if codeAware || m == config.TokenizerModeCode {
		return vocab.ModeCode
	}
	return vocab.ModeProse
}
