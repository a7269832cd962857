// Package flow executes named actions in the order constrained by a
// declarative dependency graph.
//
// Each action declares three kinds of gates:
//   - Needs: every listed action must finish with the required status
//   - NeedsAnyOf: at least one listed action must finish with its required status
//   - NeedsWorkflow: the action waits for the run-wide workflow conclusion
//     and runs only if the concluded status matches
//
// Independent actions run concurrently. An action that returns a
// WorkflowStatus concludes the workflow: every action that has not started
// and is not downstream of a workflow gate is skipped, and the gated actions
// are evaluated.
//
//	err := flow.Run(ctx, flow.Config{
//	    Actions: flow.Actions{
//	        "build":  {Run: build},
//	        "test":   {Needs: []flow.Dependency{flow.Needs("build")}, Run: test},
//	        "notify": {NeedsWorkflow: flow.WorkflowFail, Run: notify},
//	    },
//	})
//
// An Engine adds bounded parallelism, diagnostics and middleware, and
// returns a Result with every action's recorded status:
//
//	e := &flow.Engine{MaxParallel: 4}
//	e.Use(flow.WithLogging(log), flow.WithTracing("flow.action"))
//	res, err := e.Execute(ctx, cfg)
//
// Workflows can also be declared in YAML and resolved against a Registry of
// runner factories, see Workflow and ResolveWorkflow.
package flow
