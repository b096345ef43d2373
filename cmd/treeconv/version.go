package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"treeconv/internal/fixture"
	"treeconv/internal/version"
)

// buildInfo is what `treeconv version` reports. Commit and build date are only
// filled in with --full.
type buildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Schema    string `json:"fixture_schema"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include git commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the treeconv version and the fixture schema it reads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild(versionFull)
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "pretty":
			colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			colored := colorFlag == "on" || (colorFlag == "auto" && isTerminal(out))
			writeBuild(out, info, colored)
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func currentBuild(full bool) buildInfo {
	info := buildInfo{
		Tool:    "treeconv",
		Version: strings.TrimSpace(version.Version),
		Schema:  fixture.SchemaVersion,
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if full {
		info.GitCommit = orUnknown(version.GitCommit)
		info.BuildDate = orUnknown(version.BuildDate)
	}
	return info
}

func writeBuild(out io.Writer, info buildInfo, colored bool) {
	v := info.Version
	if colored {
		v = version.Pretty()
	}
	fmt.Fprintf(out, "treeconv %s (fixture schema %s)\n", v, info.Schema)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
