package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/streamforge/bpctl/internal/descriptor"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for bpctl and the descriptor format it emits.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bpctl version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", buildTime)
		fmt.Printf("  descriptor version: %d\n", descriptor.DescriptorVersion)
		fmt.Printf("  go: %s\n", runtime.Version())
		fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
