package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/pkg/fiber"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the loom build version together with the runtime defaults
compiled into this binary: the render-phase update bound and the config
file name looked up by run, bench, and serve.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, version)
				return
			}

			printBanner(w)
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Version:      %s\n", version)
			fmt.Fprintf(w, "  Commit:       %s\n", commit)
			fmt.Fprintf(w, "  Built:        %s\n", date)
			fmt.Fprintf(w, "  Go version:   %s\n", runtime.Version())
			fmt.Fprintf(w, "  OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(w, "  Render limit: %d\n", fiber.DefaultRenderLimit)
			fmt.Fprintf(w, "  Config file:  %s\n", config.ConfigFileName)
			fmt.Fprintln(w)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
