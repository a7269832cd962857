package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/actionflow/flow"
)

func newGraphCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <workflow>",
		Short: "Print the dependency graph of a workflow",
		Long: `Graph prints every action with its dependencies, a valid start order,
the gated actions and the actions exempt from the conclusion's force-skip.`,
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
			printGraph(a.stdout, w.Name, g)
			return nil
		}),
	}
}

func printGraph(out io.Writer, workflow string, g *flow.Graph) {
	fmt.Fprintf(out, "workflow %s (%d actions)\n\n", workflow, g.Len())

	for _, node := range g.Nodes() {
		fmt.Fprintf(out, "%s\n", node)
		for _, e := range g.EdgesIn(node) {
			fmt.Fprintf(out, "  %s %s (%s)\n", edgeLabel(e.Kind), e.From, e.Status)
		}
		if required, ok := g.RequiredWorkflowStatus(node); ok {
			fmt.Fprintf(out, "  workflow (%s)\n", required)
		}
	}

	order := g.Order()
	slices.Reverse(order)
	fmt.Fprintf(out, "\norder: %s\n", strings.Join(order, ", "))
	fmt.Fprintf(out, "gated: %s\n", listOrNone(g.GatedNodes()))
	fmt.Fprintf(out, "downstream of gates: %s\n", listOrNone(g.DownstreamOfGate()))
}

func edgeLabel(kind flow.EdgeKind) string {
	if kind == flow.AnyOf {
		return "any of"
	}
	return "needs "
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
