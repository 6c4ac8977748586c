// Package app wires the command-line surface around the processor.
package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evanrichards/field-sorter-rs/internal/config"
	"github.com/evanrichards/field-sorter-rs/internal/fileutil"
	"github.com/evanrichards/field-sorter-rs/internal/processor"
)

// Run executes the root command and exits non-zero on failure.
func Run() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg        processor.Config
		extensions string
	)

	cmd := &cobra.Command{
		Use:   "field-sorter-rs [flags] <path>",
		Short: "Reorder Rust struct literal and pattern fields to declaration order",
		Long: `field-sorter-rs rewrites struct literals and struct patterns so their
fields appear in the same order as in the struct definition. Fields not
declared on the struct keep their relative order and move to the end;
everything else in the source stays byte-for-byte identical.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = args[0]
			cfg.Extensions = strings.Split(extensions, ",")
			explicit := explicitFlags{
				extensions: cmd.Flags().Changed("extensions"),
				recursive:  cmd.Flags().Changed("recursive"),
				workers:    cmd.Flags().Changed("workers"),
			}
			if err := run(cfg, explicit); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.Check, "check", false, "Check if constructs are ordered (exit 1 if not)")
	cmd.Flags().BoolVar(&cfg.Write, "write", false, "Write changes to files (default: dry-run)")
	cmd.Flags().BoolVar(&cfg.Recursive, "recursive", true, "Process directories recursively")
	cmd.Flags().StringVar(&extensions, "extensions", ".rs", "File extensions to process")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "Number of parallel workers (0 = number of CPUs)")
	cmd.Flags().Int64Var(&cfg.Offset, "offset", -1, "Reorder only the construct at this byte offset (single file)")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Show detailed output")

	return cmd
}

// explicitFlags records which flags the user set on the command line;
// manifest values never override those.
type explicitFlags struct {
	extensions bool
	recursive  bool
	workers    bool
}

func run(cfg processor.Config, explicit explicitFlags) error {
	manifest, err := config.Load(cfg.Path)
	if err != nil {
		return err
	}
	cfg = applyManifest(cfg, manifest, explicit)

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}
	cfg.Logger = logger

	fileInfo, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", cfg.Path, err)
	}

	var files []string

	if fileInfo.IsDir() {
		files, err = fileutil.FindFiles(cfg.Path, cfg.Extensions, cfg.Recursive)
		if err != nil {
			return fmt.Errorf("error finding files: %w", err)
		}
	} else {
		if fileutil.HasValidExtension(cfg.Path, cfg.Extensions) {
			files = []string{cfg.Path}
		} else {
			return fmt.Errorf("file %s does not have a valid extension", cfg.Path)
		}
	}

	if len(files) == 0 {
		if cfg.Verbose {
			fmt.Println("No Rust files found")
		}
		return nil
	}

	if cfg.Offset >= 0 {
		return runAtOffset(files, cfg)
	}

	if cfg.Verbose {
		fmt.Printf("Found %d Rust file(s)\n", len(files))
	}

	needsReorder, err := processFilesParallel(files, cfg)
	if err != nil {
		return err
	}

	if cfg.Check && needsReorder {
		return fmt.Errorf("files have out-of-order fields")
	}

	return nil
}

// applyManifest fills config values the user did not set on the command
// line from the project manifest. Explicit flags always win.
func applyManifest(cfg processor.Config, manifest *config.File, explicit explicitFlags) processor.Config {
	if manifest == nil {
		return cfg
	}
	if len(manifest.Extensions) > 0 && !explicit.extensions {
		cfg.Extensions = manifest.Extensions
	}
	if manifest.Recursive != nil && !explicit.recursive {
		cfg.Recursive = *manifest.Recursive
	}
	if manifest.Workers > 0 && !explicit.workers {
		cfg.Workers = manifest.Workers
	}
	return cfg
}

// runAtOffset is the editor calling convention: one file, one cursor
// offset, one assist invocation. The rewritten source goes to stdout
// unless --write is set.
func runAtOffset(files []string, cfg processor.Config) error {
	if len(files) != 1 {
		return fmt.Errorf("--offset requires a single file, got %d", len(files))
	}

	result, err := processor.ProcessFile(files[0], cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", files[0], err)
	}

	if !cfg.Write {
		if _, err := os.Stdout.Write(result.Output); err != nil {
			return err
		}
	}
	if cfg.Check && result.Changed {
		return fmt.Errorf("construct at offset %d has out-of-order fields", cfg.Offset)
	}
	return nil
}

type fileResult struct {
	file                  string
	changed               bool
	err                   error
	constructsFound       int
	constructsNeedReorder int
}

type stats struct {
	totalFiles            int
	filesNeedReorder      int
	filesNoChanges        int
	errorFiles            int
	totalConstructs       int
	constructsNeedReorder int
}

func processFilesParallel(files []string, cfg processor.Config) (bool, error) {
	workerCount := cfg.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
		if workerCount > 8 {
			workerCount = 8
		}
	}

	fileChan := make(chan string, len(files))
	resultChan := make(chan fileResult, len(files))

	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range fileChan {
				result, err := processor.ProcessFile(file, cfg)
				resultChan <- fileResult{
					file:                  file,
					changed:               result.Changed,
					err:                   err,
					constructsFound:       result.ConstructsFound,
					constructsNeedReorder: result.ConstructsNeedReorder,
				}
			}
		}()
	}

	for _, file := range files {
		fileChan <- file
	}
	close(fileChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		needsReorder bool
		firstErr     error
	)
	st := stats{totalFiles: len(files)}

	for result := range resultChan {
		if result.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", result.file, result.err)
			}
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", result.file, result.err)
			st.errorFiles++
			continue
		}

		st.totalConstructs += result.constructsFound
		st.constructsNeedReorder += result.constructsNeedReorder

		if result.changed {
			needsReorder = true
			st.filesNeedReorder++
			if cfg.Write {
				color.Green("✓ Reordered %s (%d constructs)", result.file, result.constructsNeedReorder)
			} else {
				fmt.Printf("Would reorder %s (%d constructs)\n", result.file, result.constructsNeedReorder)
			}
		} else {
			st.filesNoChanges++
			if cfg.Check && result.constructsFound > 0 {
				color.Green("✓ No changes needed %s (%d constructs in order)", result.file, result.constructsFound)
			} else if cfg.Check {
				color.Green("✓ No changes needed %s", result.file)
			}
		}
	}

	if st.totalFiles > 1 {
		printSummary(os.Stdout, st, cfg)
	}

	return needsReorder, firstErr
}

func printSummary(w io.Writer, st stats, cfg processor.Config) {
	fmt.Fprintln(w, "\n─────────────────────────────────────")
	fmt.Fprintf(w, "Total files:    %d\n", st.totalFiles)

	switch {
	case cfg.Check:
		fmt.Fprintf(w, "No changes:     %d\n", st.filesNoChanges)
		if st.filesNeedReorder > 0 {
			fmt.Fprintln(w, color.RedString("Need reorder:   %d", st.filesNeedReorder))
		}
	case cfg.Write:
		fmt.Fprintf(w, "Reordered:      %d\n", st.filesNeedReorder)
		fmt.Fprintf(w, "No changes:     %d\n", st.filesNoChanges)
	default:
		fmt.Fprintf(w, "Would reorder:  %d\n", st.filesNeedReorder)
		fmt.Fprintf(w, "No changes:     %d\n", st.filesNoChanges)
	}

	if st.errorFiles > 0 {
		fmt.Fprintln(w, color.RedString("Errors:         %d", st.errorFiles))
	}

	if st.totalConstructs > 0 {
		fmt.Fprintf(w, "\nConstructs:\n")
		fmt.Fprintf(w, "Total found:    %d\n", st.totalConstructs)

		// Constructs the assist never touched (unresolved types, already
		// canonical) are "in order" only in the sense of "not reordered";
		// keep them separate from the reorder count in every mode.
		fmt.Fprintf(w, "In order:       %d\n", st.totalConstructs-st.constructsNeedReorder)
		if st.constructsNeedReorder > 0 {
			if cfg.Write {
				fmt.Fprintf(w, "Reordered:      %d\n", st.constructsNeedReorder)
			} else {
				fmt.Fprintf(w, "Out of order:   %d\n", st.constructsNeedReorder)
			}
		}
	}
}
