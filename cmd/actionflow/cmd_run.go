package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/actionflow/flow"
	"github.com/kbukum/actionflow/util"
)

type runOptions struct {
	set   map[string]string
	quiet bool
}

func newRunCmd(s *session) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Run a workflow and print a status summary",
		Long: `Run loads a workflow by file path or by name from the workflow
directories, resolves its includes and runs every action.

The command exits 1 when an action failed or the workflow concluded with
fail.`,
		Args: cobra.ExactArgs(1),
		RunE: s.runE(func(ctx context.Context, a *app, args []string) error {
			return runWorkflow(ctx, a, args[0], opts)
		}),
	}
	cmd.Flags().StringToStringVar(&opts.set, "set", nil, "workflow data overrides (key=value)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not stream action output")
	return cmd
}

func runWorkflow(ctx context.Context, a *app, arg string, opts *runOptions) error {
	a.registerRunners(!opts.quiet)

	w, resolved, err := a.resolve(arg)
	if err != nil {
		return err
	}

	result, err := a.engine().Execute(ctx, flow.Config{
		Actions:      resolved.Actions,
		WorkflowData: workflowData(resolved, opts.set),
		ActionData:   actionData,
	})
	if result != nil {
		printSummary(a.stdout, w.Name, result)
	}
	if err != nil {
		return err
	}
	if !result.Succeeded() || result.Workflow.Status == flow.WorkflowFail {
		return &runFailedError{workflow: w.Name}
	}
	return nil
}

// workflowData layers --set values over the declared data of the workflow
// and its includes.
func workflowData(resolved *flow.Resolved, set map[string]string) flow.DataFunc {
	declared := resolved.WorkflowData()
	if len(set) == 0 {
		return declared
	}
	return func(ctx context.Context) (flow.Data, error) {
		data := flow.Data{}
		if declared != nil {
			base, err := declared(ctx)
			if err != nil {
				return nil, err
			}
			for k, v := range base {
				data[k] = v
			}
		}
		for k, v := range set {
			data[k] = v
		}
		return data, nil
	}
}

func printSummary(out io.Writer, workflow string, result *flow.Result) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\nACTION\tSTATUS\tDURATION\n")
	for _, name := range util.SortedKeys(result.Actions) {
		ar := result.Actions[name]
		duration := "-"
		if ar.Started {
			duration = ar.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, ar.Status, duration)
	}
	_ = tw.Flush()

	status := "not concluded"
	if result.Workflow.Concluded {
		status = result.Workflow.Status.String()
	}
	fmt.Fprintf(out, "\nworkflow %s: %s in %s (run %s)\n",
		workflow, status, result.Duration.Round(time.Millisecond), result.RunID)
}
