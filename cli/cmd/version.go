package cmd

import (
	"github.com/spf13/cobra"

	"github.com/topi314/statusdemo/internal/ver"
)

func NewVersionCmd(parent *cobra.Command, version ver.Version) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns the version of the statusdemo cli",
		Long: `Returns the version of the statusdemo cli. For example:

statusdemo version

Go Version: go1.21.5
Version: devel
Commit: b1fd421
Build Time: Mon Jan  1 00:00:00 2024`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(version.Format())
		},
	}

	parent.AddCommand(cmd)
}
