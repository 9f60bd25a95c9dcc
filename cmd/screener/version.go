package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=...". Unset values fall back to the
// module build info.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

type buildInfo struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
}

func currentBuild() buildInfo {
	b := buildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildTime, GoVersion: "unknown"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b.withDefaults()
	}
	b.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.BuildTime == "" {
				b.BuildTime = s.Value
			}
		}
	}
	return b.withDefaults()
}

func (b buildInfo) withDefaults() buildInfo {
	if b.Commit == "" {
		b.Commit = "unknown"
	} else if len(b.Commit) > 12 {
		b.Commit = b.Commit[:12]
	}
	if b.BuildTime == "" {
		b.BuildTime = "unknown"
	}
	return b
}

func printVersion(w io.Writer, b buildInfo, short bool) {
	if short {
		fmt.Fprintln(w, b.Version)
		return
	}
	fmt.Fprintf(w, "screener %s (%s)\n", b.Version, b.Commit)
	fmt.Fprintf(w, "  built: %s\n", b.BuildTime)
	fmt.Fprintf(w, "  go:    %s\n", b.GoVersion)
}

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), currentBuild(), versionShort)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the version number only")
	rootCmd.AddCommand(versionCmd)
}
