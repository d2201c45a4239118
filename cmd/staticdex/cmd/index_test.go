package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/internal/corpus"
)

func writeTestCorpus(t *testing.T, dir string) {
	t.Helper()

	write := func(name string, doc corpus.RawDocument) {
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	write("tensorlib.json", corpus.RawDocument{
		Slug: "tensorlib", Title: "Tensor Library", Excerpt: "A fast tensor library",
		Href: "/docs/tensorlib", Type: "guide", Category: "ml",
		Text: "Tensor Library\nUses cuda kernels for acceleration.",
		FieldBoundaries: []corpus.RawFieldBoundary{
			{Start: 0, End: 14, FieldType: "title"},
			{Start: 15, End: 50, FieldType: "content", SectionID: "intro"},
		},
	})

	manifest, err := json.Marshal(corpus.Manifest{Documents: []string{"tensorlib.json"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), manifest, 0o644))
}

func TestIndexCmd_WritesIndexBin(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outputDir, "index.bin"))
}

func TestIndexCmd_DemoFlagWritesDemoPage(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir, "--demo"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outputDir, "demo.html"))
}

func TestInspectCmd_PrintsHeaderFields(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	build := NewRootCmd()
	build.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir})
	require.NoError(t, build.Execute())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"inspect", filepath.Join(outputDir, "index.bin")})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "documents:")
	assert.Contains(t, buf.String(), "vocabulary:")
}

func TestInspectCmd_StripWritesStrippedCopy(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	build := NewRootCmd()
	build.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir})
	require.NoError(t, build.Execute())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"inspect", filepath.Join(outputDir, "index.bin"), "--strip"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outputDir, "index.stripped.bin"))
}

func TestSearchCmd_FindsExactMatch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	build := NewRootCmd()
	build.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir})
	require.NoError(t, build.Execute())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"search", filepath.Join(outputDir, "index.bin"), "tensor"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Tensor Library")
}

func TestSearchCmd_JSONOutputIsValid(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestCorpus(t, inputDir)

	build := NewRootCmd()
	build.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir})
	require.NoError(t, build.Execute())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"search", filepath.Join(outputDir, "index.bin"), "tensor", "--json"})

	err := cmd.Execute()

	require.NoError(t, err)
	var payload struct {
		Query   string           `json:"query"`
		Results []map[string]any `json:"results"`
		Timings map[string]any   `json:"timings_ns"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "tensor", payload.Query)
	require.NotEmpty(t, payload.Results)
	assert.Contains(t, payload.Timings, "t1")
}

func TestIndexCmd_CodeAwareFlagSplitsCamelCase(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	doc := corpus.RawDocument{
		Slug: "api", Title: "API Guide", Excerpt: "How to call the API",
		Href: "/docs/api", Type: "guide", Category: "dev",
		Text: "API Guide\nCall parseHTTPRequest to decode the body.",
		FieldBoundaries: []corpus.RawFieldBoundary{
			{Start: 0, End: 9, FieldType: "title"},
			{Start: 10, End: 50, FieldType: "content", SectionID: "intro"},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "api.json"), data, 0o644))
	manifest, err := json.Marshal(corpus.Manifest{Documents: []string{"api.json"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "manifest.json"), manifest, 0o644))

	build := NewRootCmd()
	build.SetArgs([]string{"index", "--input", inputDir, "--output", outputDir, "--code-aware"})
	require.NoError(t, build.Execute())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"search", filepath.Join(outputDir, "index.bin"), "request"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "API Guide")
}

func TestSearchCmd_MissingIndexFileReturnsError(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"search", filepath.Join(t.TempDir(), "missing.bin"), "query"})

	err := cmd.Execute()

	assert.Error(t, err)
}
