package flow

import "testing"

func TestState_GetSet(t *testing.T) {
	s := NewState()
	s.Set("key", "value")
	v, ok := s.Get("key")
	if !ok || v != "value" {
		t.Fatalf("expected 'value', got %v (ok=%v)", v, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected missing key")
	}
}

func TestMergeData_LaterLayersWin(t *testing.T) {
	s := MergeData(Data{"a": 1, "b": 1}, nil, Data{"b": 2, "c": 3})
	want := Data{"a": 1, "b": 2, "c": 3}
	got := s.Snapshot()
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("unexpected keys: %v", got)
	}
}

func TestMergeData_DoesNotAliasLayers(t *testing.T) {
	layer := Data{"a": 1}
	s := MergeData(layer)
	s.Set("a", 2)
	if layer["a"] != 1 {
		t.Error("Set must not write through to the source layer")
	}
}

func TestPort_ReadWrite(t *testing.T) {
	s := NewState()
	port := Port[int]{Key: "count"}
	Write(s, port, 42)

	val, err := Read(s, port)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 42 {
		t.Fatalf("expected 42, got %d", val)
	}

	if _, err := Read(s, Port[string]{Key: "count"}); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if _, err := Read(s, Port[int]{Key: "missing"}); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestState_Outputs(t *testing.T) {
	s := MergeData(Data{"region": "eu"})
	if s.Outputs() != nil {
		t.Fatalf("expected no outputs, got %v", s.Outputs())
	}

	Write(s, Port[string]{Key: "artifact"}, "app.tar")
	if got := s.Outputs(); len(got) != 1 || got["artifact"] != "app.tar" {
		t.Errorf("unexpected outputs: %v", got)
	}
	if v, ok := s.Get("artifact"); !ok || v != "app.tar" {
		t.Errorf("expected own output to be readable, got %v", v)
	}
}

func TestPort_ReadPredecessorOutput(t *testing.T) {
	s := NewState()
	s.setInputs(map[string]Data{"build": {"artifact": "app.tar", "size": 3}})

	got, err := Read(s, Port[string]{Action: "build", Key: "artifact"})
	if err != nil || got != "app.tar" {
		t.Fatalf("Read(build.artifact) = %q, %v", got, err)
	}

	tests := []struct {
		name string
		port Port[string]
	}{
		{"unknown action", Port[string]{Action: "test", Key: "artifact"}},
		{"unknown key", Port[string]{Action: "build", Key: "digest"}},
		{"wrong type", Port[string]{Action: "build", Key: "size"}},
		{"own data only", Port[string]{Key: "artifact"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(s, tc.port); err == nil {
				t.Errorf("expected error reading %s", tc.port)
			}
		})
	}

	out, _ := s.Output("build")
	out["artifact"] = "changed"
	if again, _ := s.Output("build"); again["artifact"] != "app.tar" {
		t.Error("Output must return a copy")
	}
}

func TestStatusParsing(t *testing.T) {
	if s, err := ParseActionStatus("cancel"); err != nil || s != ActionCancel {
		t.Errorf("ParseActionStatus(cancel) = %v, %v", s, err)
	}
	if _, err := ParseActionStatus("running"); err == nil {
		t.Error("expected error for unknown action status")
	}
	if s, err := ParseWorkflowStatus("any"); err != nil || s != WorkflowAny {
		t.Errorf("ParseWorkflowStatus(any) = %v, %v", s, err)
	}
	if _, err := ParseWorkflowStatus("skip"); err == nil {
		t.Error("expected error for unknown workflow status")
	}
	if WorkflowFail.ActionStatus() != ActionFail || WorkflowOk.ActionStatus() != ActionOk {
		t.Error("unexpected workflow to action status mapping")
	}
}

func TestFormatMessages(t *testing.T) {
	got := FormatMessages("one", "two")
	if got != "\n[actionflow]\none\ntwo" {
		t.Errorf("unexpected block: %q", got)
	}
}
