package flow

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/actionflow/errors"
)

func noop(context.Context, *State) (Outcome, error) { return nil, nil }

func TestBuild_NodesAndEdges(t *testing.T) {
	g, err := Build(Actions{
		"3": {Needs: []Dependency{Needs(1), NeedsWith(2, ActionFail)}, Run: noop},
		"1": {Run: noop},
		"2": {Run: noop},
		"4": {NeedsAnyOf: []Dependency{Needs("3"), NeedsWith("1", ActionAny)}, Run: noop},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(g.Nodes(), []string{"1", "2", "3", "4"}) {
		t.Errorf("unexpected nodes: %v", g.Nodes())
	}

	wantIn := []Edge{
		{From: "1", To: "3", Kind: AllIn, Status: ActionOk},
		{From: "2", To: "3", Kind: AllIn, Status: ActionFail},
	}
	if !reflect.DeepEqual(g.EdgesIn("3"), wantIn) {
		t.Errorf("EdgesIn(3) = %v, want %v", g.EdgesIn("3"), wantIn)
	}

	if !reflect.DeepEqual(g.Successors("1"), []string{"3", "4"}) {
		t.Errorf("Successors(1) = %v", g.Successors("1"))
	}
	if got := g.EdgesIn("4")[1]; got.Kind != AnyOf || got.Status != ActionAny {
		t.Errorf("unexpected any-of edge: %+v", got)
	}
	if !reflect.DeepEqual(g.IndependentNodes(), []string{"1", "2"}) {
		t.Errorf("IndependentNodes() = %v", g.IndependentNodes())
	}
	if !g.Has("4") || g.Has("5") {
		t.Error("Has() mismatch")
	}
	if g.Len() != 4 {
		t.Errorf("Len() = %d", g.Len())
	}
}

func TestBuild_BareDependencyEqualsExplicitOk(t *testing.T) {
	bare, err := Build(Actions{
		"a": {Run: noop},
		"b": {Needs: []Dependency{Needs("a")}, Run: noop},
	})
	if err != nil {
		t.Fatal(err)
	}
	explicit, err := Build(Actions{
		"a": {Run: noop},
		"b": {Needs: []Dependency{NeedsWith("a", ActionOk)}, Run: noop},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(bare.EdgesIn("b"), explicit.EdgesIn("b")) {
		t.Errorf("bare %v != explicit %v", bare.EdgesIn("b"), explicit.EdgesIn("b"))
	}
}

func TestBuild_Gates(t *testing.T) {
	g, err := Build(Actions{
		"build":   {Run: noop},
		"notify":  {NeedsWorkflow: WorkflowAny, Run: noop},
		"report":  {Needs: []Dependency{Needs("notify")}, Run: noop},
		"cleanup": {NeedsWorkflow: WorkflowFail, Run: noop},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(g.GatedNodes(), []string{"cleanup", "notify"}) {
		t.Errorf("GatedNodes() = %v", g.GatedNodes())
	}
	if !reflect.DeepEqual(g.DownstreamOfGate(), []string{"cleanup", "notify", "report"}) {
		t.Errorf("DownstreamOfGate() = %v", g.DownstreamOfGate())
	}
	if s, ok := g.RequiredWorkflowStatus("cleanup"); !ok || s != WorkflowFail {
		t.Errorf("RequiredWorkflowStatus(cleanup) = %v, %v", s, ok)
	}
	if _, ok := g.RequiredWorkflowStatus("build"); ok {
		t.Error("build should not be gated")
	}
	if !reflect.DeepEqual(g.IndependentNodes(), []string{"build"}) {
		t.Errorf("IndependentNodes() = %v", g.IndependentNodes())
	}
}

// A node fed by both a gate and an ordinary root is only exempt from the
// conclusion's force-skip when the gate's subtree reaches it first, which
// depends on where the root sorts relative to the gate.
func TestBuild_DownstreamOfGateFollowsNameOrder(t *testing.T) {
	tests := []struct {
		root       string
		downstream bool
		status     ActionStatus
	}{
		{root: "a", downstream: false, status: ActionSkip},
		{root: "z", downstream: true, status: ActionOk},
	}

	for _, tc := range tests {
		t.Run("root "+tc.root, func(t *testing.T) {
			actions := Actions{
				tc.root: {Run: noop},
				"g":     {NeedsWorkflow: WorkflowOk, Run: noop},
				"x":     {Needs: needs(tc.root, "g"), Run: noop},
			}
			g, err := Build(actions)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := g.IsDownstreamOfGate("x"); got != tc.downstream {
				t.Errorf("IsDownstreamOfGate(x) = %v, want %v", got, tc.downstream)
			}

			res := execute(t, actions)
			assertStatus(t, res, map[string]ActionStatus{
				tc.root: ActionOk,
				"g":     ActionOk,
				"x":     tc.status,
			})
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		actions Actions
		code    errors.ErrorCode
	}{
		{
			name:    "unknown dependency",
			actions: Actions{"a": {Needs: []Dependency{Needs("missing")}, Run: noop}},
			code:    errors.ErrCodeUnknownDependency,
		},
		{
			name:    "unknown any-of dependency",
			actions: Actions{"a": {NeedsAnyOf: []Dependency{Needs("missing")}, Run: noop}},
			code:    errors.ErrCodeUnknownDependency,
		},
		{
			name:    "missing run",
			actions: Actions{"a": {}},
			code:    errors.ErrCodeInvalidAction,
		},
		{
			name: "bad dependency status",
			actions: Actions{
				"a": {Run: noop},
				"b": {Needs: []Dependency{NeedsWith("a", "maybe")}, Run: noop},
			},
			code: errors.ErrCodeInvalidAction,
		},
		{
			name:    "bad workflow status",
			actions: Actions{"a": {NeedsWorkflow: "later", Run: noop}},
			code:    errors.ErrCodeInvalidAction,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.actions)
			if !errors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestBuild_Cycle(t *testing.T) {
	_, err := Build(Actions{
		"a": {Needs: []Dependency{Needs("c")}, Run: noop},
		"b": {Needs: []Dependency{Needs("a")}, Run: noop},
		"c": {NeedsAnyOf: []Dependency{Needs("b")}, Run: noop},
	})

	var cycle *CycleError
	if !stderrors.As(err, &cycle) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if len(cycle.Sequence) != 3 {
		t.Errorf("expected all three actions in the cycle, got %v", cycle.Sequence)
	}
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.Len())
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"build", "build"},
		{1, "1"},
		{ActionOk, "ok"},
		{int64(42), "42"},
	}
	for _, tc := range tests {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
