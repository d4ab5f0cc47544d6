package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// overridden at build time with -ldflags "-X main.cliVersion=..."
	cliVersion     = "0.1.0+dev"
	cliVersionHash = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the registry node",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("registry %s (%s) %s/%s\n",
			cliVersion, cliVersionHash, runtime.GOOS, runtime.GOARCH)
	},
}
