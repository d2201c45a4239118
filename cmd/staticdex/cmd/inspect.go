package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/staticdex/staticdex/internal/output"
	"github.com/staticdex/staticdex/pkg/container"
	"github.com/staticdex/staticdex/pkg/searchidx"
)

func newInspectCmd() *cobra.Command {
	var strip bool
	var topTerms int

	cmd := &cobra.Command{
		Use:   "inspect <index.bin>",
		Short: "Print header and section information for an index file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], strip, topTerms)
		},
	}

	cmd.Flags().BoolVar(&strip, "strip", false, "Write a copy with the embedded_runtime section removed")
	cmd.Flags().IntVar(&topTerms, "top-terms", 10, "Number of most frequent terms to print, by document frequency")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, strip bool, topTerms int) error {
	out := output.New(cmd.OutOrStdout())

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}

	h, _, err := container.Read(data)
	if err != nil {
		return err
	}

	out.Statusf("", "version:      %d", h.Version)
	out.Statusf("", "documents:    %d", h.DocCount)
	out.Statusf("", "terms:        %d", h.TermCount)
	out.Newline()
	out.Status("", "section sizes (bytes):")
	out.Statusf("", "  vocabulary:       %d", h.VocabLen)
	out.Statusf("", "  suffix_array:     %d", h.SuffixArrayLen)
	out.Statusf("", "  postings:         %d", h.PostingsLen)
	out.Statusf("", "  skip_lists:       %d", h.SkipListsLen)
	out.Statusf("", "  section_table:    %d", h.SectionTableLen)
	out.Statusf("", "  lev_dfa:          %d", h.LevDFALen)
	out.Statusf("", "  docs:             %d", h.DocsLen)
	out.Statusf("", "  embedded_runtime: %d", h.EmbeddedRuntimeLen)
	out.Statusf("", "  dict_tables:      %d", h.DictTablesLen)

	searcher, err := searchidx.Open(data)
	if err != nil {
		return fmt.Errorf("open index for term stats: %w", err)
	}
	out.Newline()
	out.Statusf("", "vocabulary size (decoded): %d", searcher.VocabSize())
	out.Statusf("", "document count (decoded): %d", searcher.DocCount())

	if topTerms > 0 {
		freqs, err := searcher.TopTermsByDocFreq(topTerms)
		if err != nil {
			return fmt.Errorf("compute term frequencies: %w", err)
		}
		out.Newline()
		out.Statusf("", "top %d terms by document frequency:", len(freqs))
		for i, tf := range freqs {
			out.Statusf("", "  %2d. %-20s %d", i+1, tf.Term, tf.DocFreq)
		}
	}

	if strip {
		stripped, err := container.StripEmbeddedRuntime(data)
		if err != nil {
			return fmt.Errorf("strip embedded runtime: %w", err)
		}
		ext := filepath.Ext(path)
		strippedPath := strings.TrimSuffix(path, ext) + ".stripped" + ext
		if err := os.WriteFile(strippedPath, stripped, 0o644); err != nil {
			return fmt.Errorf("write stripped index: %w", err)
		}
		out.Newline()
		out.Successf("Wrote %s (%d bytes)", strippedPath, len(stripped))
	}

	return nil
}
