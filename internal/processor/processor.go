// Package processor drives the reorder assist over Rust source files.
package processor

import (
	"context"
	"fmt"
	"os"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"go.uber.org/zap"

	"github.com/evanrichards/field-sorter-rs/internal/assist"
	"github.com/evanrichards/field-sorter-rs/internal/construct"
	"github.com/evanrichards/field-sorter-rs/internal/edit"
	"github.com/evanrichards/field-sorter-rs/internal/semantics"
)

// Config holds the configuration for processing files.
type Config struct {
	Check      bool
	Write      bool
	Recursive  bool
	Extensions []string
	Path       string
	Workers    int
	Verbose    bool
	// Offset selects single-assist mode: only the construct at this byte
	// offset is reordered. Negative means all constructs.
	Offset int64
	Logger *zap.Logger
}

// ProcessResult contains the result of processing a file.
type ProcessResult struct {
	Changed               bool
	ConstructsFound       int
	ConstructsNeedReorder int
	// Output is the rewritten source. Only set in single-offset mode,
	// where the caller prints it instead of summarizing.
	Output []byte
}

// Parser instances are expensive to create, so they are pooled across
// files and goroutines.
var parserPool = sync.Pool{
	New: func() interface{} {
		parser := sitter.NewParser()
		parser.SetLanguage(rust.GetLanguage())
		return parser
	},
}

func parse(parser *sitter.Parser, content []byte) (*sitter.Node, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	return tree.RootNode(), nil
}

// ProcessFile runs the assist over one file and optionally writes the
// result back.
func ProcessFile(filePath string, config Config) (ProcessResult, error) {
	result := ProcessResult{}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return result, fmt.Errorf("reading file: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("file", filePath))

	var newContent []byte
	if config.Offset >= 0 {
		newContent, result, err = reorderAtOffset(content, uint32(config.Offset), logger)
		if err != nil {
			return result, err
		}
		result.Output = newContent
	} else {
		newContent, result, err = ProcessSource(content, logger)
		if err != nil {
			return result, err
		}
	}

	if result.Changed && config.Write {
		if err := os.WriteFile(filePath, newContent, 0o600); err != nil {
			return result, fmt.Errorf("writing file: %w", err)
		}
	}

	return result, nil
}

// ProcessSource reorders every out-of-order construct in the source and
// returns the rewritten text. The assist itself handles one construct per
// invocation; the driver re-parses between applications so every script
// is computed against current offsets. Applying a script makes its
// construct canonical and never disorders another, so the loop is bounded
// by the initial count.
func ProcessSource(content []byte, logger *zap.Logger) ([]byte, ProcessResult, error) {
	result := ProcessResult{}

	parser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(parser)

	root, err := parse(parser, content)
	if err != nil {
		return nil, result, err
	}

	index := semantics.NewIndex(root, content)
	constructs := construct.FindAll(root)
	result.ConstructsFound = len(constructs)

	for _, c := range constructs {
		if script := assist.Reorder(c, content, index); script != nil {
			result.ConstructsNeedReorder++
			logger.Debug("construct needs reordering",
				zap.String("kind", c.Kind().String()),
				zap.Uint32("start", c.Node.StartByte()),
				zap.Int("edits", len(script.Replacements)))
		}
	}

	if result.ConstructsNeedReorder == 0 {
		return content, result, nil
	}

	result.Changed = true
	newContent := content
	for i := 0; i < result.ConstructsNeedReorder; i++ {
		script, err := firstApplicable(parser, newContent)
		if err != nil {
			return nil, result, err
		}
		if script == nil {
			break
		}
		newContent = script.Apply(newContent)
	}

	return newContent, result, nil
}

// firstApplicable parses the source and returns the script for the first
// construct, in source order, that the assist applies to.
func firstApplicable(parser *sitter.Parser, content []byte) (*edit.Script, error) {
	root, err := parse(parser, content)
	if err != nil {
		return nil, err
	}

	index := semantics.NewIndex(root, content)
	for _, c := range construct.FindAll(root) {
		if script := assist.Reorder(c, content, index); script != nil {
			return script, nil
		}
	}
	return nil, nil
}

// reorderAtOffset runs a single assist invocation at the given cursor
// offset, mirroring the editor calling convention.
func reorderAtOffset(content []byte, offset uint32, logger *zap.Logger) ([]byte, ProcessResult, error) {
	result := ProcessResult{}

	parser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(parser)

	root, err := parse(parser, content)
	if err != nil {
		return nil, result, err
	}

	index := semantics.NewIndex(root, content)
	script := assist.ReorderAt(root, content, offset, index)
	if script == nil {
		logger.Debug("assist not applicable", zap.Uint32("offset", offset))
		return content, result, nil
	}

	result.Changed = true
	result.ConstructsFound = 1
	result.ConstructsNeedReorder = 1
	return script.Apply(content), result, nil
}
