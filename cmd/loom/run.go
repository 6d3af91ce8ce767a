package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var dispatches []string

	cmd := &cobra.Command{
		Use:   "run [demo]",
		Short: "Render a demo and print its output",
		Long: `Render a demo component, then dispatch each --dispatch callback in
order, printing the serialized tree after every step.

A dispatch is an element id, optionally followed by =payload:

  loom run counter --dispatch inc --dispatch inc
  loom run todo --dispatch rotate --dispatch add="buy milk"

Demos: ` + strings.Join(demo.Names(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			return runDemo(cmd.OutOrStdout(), cfg, name, dispatches)
		},
	}

	cmd.Flags().StringArrayVarP(&dispatches, "dispatch", "d", nil, "Callback id[=payload] to dispatch (repeatable)")

	return cmd
}

func runDemo(w io.Writer, cfg *config.Config, name string, dispatches []string) error {
	el, ok := demo.App(name, nil)
	if !ok {
		return fmt.Errorf("unknown demo %q (want one of %s)", name, strings.Join(demo.Names(), ", "))
	}

	logger := newLogger(cfg)
	reg := callback.NewRegistry()
	root := loom.CreateRoot(
		loom.WithLogger(logger),
		loom.WithRegistry(reg),
		loom.WithRenderLimit(cfg.Render.RenderLimit),
		loom.WithIndent(cfg.Render.Indent),
	)

	return errors.Recover(func() {
		fmt.Fprintln(w, root.Render(el))
		for _, d := range dispatches {
			id, payload, hasPayload := strings.Cut(d, "=")
			var p any
			if hasPayload {
				p = payload
			}
			reg.Dispatch(id, p)
			root.Flush()
			fmt.Fprintf(w, "\n# %s\n%s\n", d, root.String())
		}
	})
}
