package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

const shortCommitLen = 12

// Set with -ldflags "-X main.BuildTag=... -X main.BuildCommit=...". Empty
// values are filled from the module build info.
var (
	BuildName   = "xrayctl"
	BuildTag    string
	BuildCommit string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the xrayctl version",
	Long:  "Print the xrayctl release, the commit it was built from and the Go toolchain",
	Args:  cobra.NoArgs,
	// Printing the version needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version())
		return err
	},
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		BuildTag, BuildCommit = fromBuildInfo(info, BuildTag, BuildCommit)
	}

	rootCmd.AddCommand(versionCmd)
}

func fromBuildInfo(info *debug.BuildInfo, tag, commit string) (string, string) {
	if tag == "" {
		tag = info.Main.Version
	}

	if commit == "" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
		}
	}

	return tag, commit
}

func version() string {
	return formatVersion(BuildName, BuildTag, BuildCommit, runtime.Version(), runtime.GOOS+"/"+runtime.GOARCH)
}

// formatVersion renders "xrayctl 1.2.0 (commit 0123456789ab, go1.24.2 linux/amd64)".
// Untagged builds report "dev".
func formatVersion(name, tag, commit, goVersion, platform string) string {
	tag = strings.TrimPrefix(tag, "v")
	if tag == "" || tag == "(devel)" {
		tag = "dev"
	}

	details := []string{goVersion + " " + platform}
	if commit != "" {
		if len(commit) > shortCommitLen {
			commit = commit[:shortCommitLen]
		}

		details = append([]string{"commit " + commit}, details...)
	}

	return fmt.Sprintf("%s %s (%s)", name, tag, strings.Join(details, ", "))
}
