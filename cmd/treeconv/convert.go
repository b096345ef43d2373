package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treeconv/internal/driver"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <fixture.json|fixture.mp>...",
	Short: "Convert source-tree fixtures and print the target code",
	Long: `Convert reads source trees with their semantic facts (JSON or msgpack fixtures),
converts every unit and prints the result. Diagnostics go to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic(cmd)

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, s.trace)
	if err != nil {
		return err
	}
	defer cleanup()

	cache := openCache(cmd, s)
	failed := false
	for _, path := range args {
		ok, err := processFile(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path, s, cache)
		if err != nil {
			return err
		}
		failed = failed || !ok
	}
	if failed {
		return errConversionFailed
	}
	return nil
}

// openCache returns nil when caching is off or the cache directory is not
// usable; a nil cache never hits.
func openCache(cmd *cobra.Command, s settings) *driver.DiskCache {
	if !s.cache {
		return nil
	}
	cache, err := driver.OpenDiskCache("treeconv")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "treeconv: cache disabled: %v\n", err)
		return nil
	}
	return cache
}
