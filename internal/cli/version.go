package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pyglance",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyglance %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
