package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/batchtop/internal/version"
)

// VersionCmd prints build identity.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("batchtop %s (%s)\n", version.VersionTag, version.Commit)
	},
}
