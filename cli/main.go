package main

import (
	"github.com/topi314/statusdemo/cli/cmd"
	"github.com/topi314/statusdemo/internal/ver"
)

func main() {
	version := ver.Load()

	rootCmd := cmd.NewRootCmd()
	cmd.NewRequestCmd(rootCmd)
	cmd.NewRoutesCmd(rootCmd)
	cmd.NewVersionCmd(rootCmd, version)
	cmd.Execute(rootCmd)
}
