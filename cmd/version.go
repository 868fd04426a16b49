package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X"; otherwise filled from the embedded VCS stamp.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show docmeta version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	v, rev, date := buildInfo()
	fmt.Fprintf(stdout, "Version:    %s\n", v)
	fmt.Fprintf(stdout, "Commit:     %s\n", orNA(rev))
	fmt.Fprintf(stdout, "Build Date: %s\n", orNA(date))
	fmt.Fprintf(stdout, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(stdout, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

// buildInfo prefers the linker-set values and falls back to what
// "go build" records for module and VCS.
func buildInfo() (v, rev, date string) {
	v, rev, date = version, commit, buildDate
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, rev, date
	}
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && rev == "":
			rev = s.Value
		case s.Key == "vcs.time" && date == "":
			date = s.Value
		}
	}
	return v, rev, date
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
