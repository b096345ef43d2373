package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"treeconv/internal/version"
)

// errConversionFailed makes the process exit 1 after the diagnostics have
// already been printed.
var errConversionFailed = errors.New("conversion failed")

var rootCmd = &cobra.Command{
	Use:   "treeconv",
	Short: "Convert VB-style syntax trees to C#-style code",
	Long: `treeconv lowers method bodies of a VB-like source tree into a C#-like target tree,
hoisting temporaries, by-ref copies and exit flags into the enclosing scopes`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// main registers subcommands and persistent flags and executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to treeconv.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress info diagnostics")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per document")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel units (0=auto)")
	rootCmd.PersistentFlags().Bool("case-sensitive", false, "compare generated names case-sensitively")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the result cache")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errConversionFailed) {
			fmt.Fprintf(os.Stderr, "treeconv: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли w терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
