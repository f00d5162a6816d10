package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão do cliente",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("obra %s (%s)\n", Version, Commit)
		},
	}
}
