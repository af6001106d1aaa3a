package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwilges/drover/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of drover.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("drover version %s\n", version.Version)
		},
	}
}
