package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/actionflow/flow"
)

func newValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow>",
		Short: "Check a workflow without running it",
		Long: `Validate parses the workflow and its includes, checks field
constraints and dependency targets, and builds the graph to detect cycles.`,
		Args: cobra.ExactArgs(1),
		RunE: s.runE(func(_ context.Context, a *app, args []string) error {
			a.registerRunners(false)

			w, resolved, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			g, err := flow.Build(resolved.Actions)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "workflow %s is valid: %d actions, %d gated\n", w.Name, g.Len(), len(g.GatedNodes()))
			return nil
		}),
	}
}
