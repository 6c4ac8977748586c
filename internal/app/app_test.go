package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evanrichards/field-sorter-rs/internal/config"
	"github.com/evanrichards/field-sorter-rs/internal/processor"
)

func TestApplyManifestFillsUnsetFlags(t *testing.T) {
	recursive := false
	manifest := &config.File{
		Extensions: []string{".rs", ".rs.in"},
		Recursive:  &recursive,
		Workers:    4,
	}

	cfg := applyManifest(processor.Config{
		Extensions: []string{".rs"},
		Recursive:  true,
	}, manifest, explicitFlags{})

	assert.Equal(t, []string{".rs", ".rs.in"}, cfg.Extensions)
	assert.False(t, cfg.Recursive)
	assert.Equal(t, 4, cfg.Workers)
}

func TestApplyManifestExplicitFlagsWin(t *testing.T) {
	recursive := false
	manifest := &config.File{
		Extensions: []string{".rs"},
		Recursive:  &recursive,
		Workers:    4,
	}

	cfg := applyManifest(processor.Config{
		Extensions: []string{".txt"},
		Recursive:  true,
		Workers:    2,
	}, manifest, explicitFlags{extensions: true, recursive: true, workers: true})

	assert.Equal(t, []string{".txt"}, cfg.Extensions, "explicit --extensions beats manifest")
	assert.True(t, cfg.Recursive, "explicit --recursive beats manifest")
	assert.Equal(t, 2, cfg.Workers, "explicit --workers beats manifest")
}

func TestApplyManifestExplicitWorkersAutoWins(t *testing.T) {
	manifest := &config.File{Workers: 4}

	// `--workers 0` explicitly asks for auto detection; the manifest must
	// not override it.
	cfg := applyManifest(processor.Config{Workers: 0}, manifest, explicitFlags{workers: true})
	assert.Equal(t, 0, cfg.Workers)
}

func TestApplyManifestNil(t *testing.T) {
	cfg := processor.Config{Extensions: []string{".rs"}, Recursive: true}
	assert.Equal(t, cfg, applyManifest(cfg, nil, explicitFlags{}))
}

func TestPrintSummaryWriteModeSeparatesReordered(t *testing.T) {
	st := stats{
		totalFiles:            3,
		filesNeedReorder:      1,
		filesNoChanges:        2,
		totalConstructs:       5,
		constructsNeedReorder: 2,
	}

	var buf bytes.Buffer
	printSummary(&buf, st, processor.Config{Write: true})

	out := buf.String()
	assert.Contains(t, out, "Total found:    5")
	assert.Contains(t, out, "In order:       3")
	assert.Contains(t, out, "Reordered:      2")
	assert.NotContains(t, out, "In order:       5")
}

func TestPrintSummaryDryRun(t *testing.T) {
	st := stats{
		totalFiles:            2,
		filesNeedReorder:      1,
		filesNoChanges:        1,
		totalConstructs:       4,
		constructsNeedReorder: 1,
	}

	var buf bytes.Buffer
	printSummary(&buf, st, processor.Config{})

	out := buf.String()
	assert.Contains(t, out, "Would reorder:  1")
	assert.Contains(t, out, "In order:       3")
	assert.Contains(t, out, "Out of order:   1")
}
