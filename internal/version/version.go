package version

import (
	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the treeconv CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Pretty renders Version with colored components. Unparsable versions are
// returned as is.
func Pretty() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	out := majorColor.Sprint(v.Major()) + "." + minorColor.Sprint(v.Minor()) + "." + patchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}
