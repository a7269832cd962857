package flow

import (
	"fmt"
	"maps"
	"sync"
)

// Data is a bag of named values produced by a DataFunc.
type Data map[string]any

// State is the thread-safe data store handed to an action. It holds the
// workflow data overlaid with that action's own data, the outputs of its
// finished predecessors, and the outputs it stores itself.
type State struct {
	mu      sync.RWMutex
	data    map[string]any
	outputs map[string]any
	inputs  map[string]Data
}

// NewState creates a new empty State.
func NewState() *State {
	return &State{data: make(map[string]any), outputs: make(map[string]any)}
}

// MergeData builds a State from layers; later layers override earlier keys.
func MergeData(layers ...Data) *State {
	s := NewState()
	for _, layer := range layers {
		maps.Copy(s.data, layer)
	}
	return s
}

// Get retrieves a value by key. Returns false if the key does not exist.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores an output of the running action. It is visible to Get at once
// and to dependent actions after this one finishes.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.outputs[key] = value
}

// Snapshot returns a copy of all stored values.
func (s *State) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(Data(s.data))
}

// Outputs returns a copy of the values stored with Set.
func (s *State) Outputs() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.outputs) == 0 {
		return nil
	}
	return maps.Clone(Data(s.outputs))
}

// Output returns the outputs of a finished predecessor. Only actions this
// one depends on are visible.
func (s *State) Output(action string) (Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.inputs[action]
	return maps.Clone(out), ok
}

func (s *State) setInputs(inputs map[string]Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = inputs
}

// Port is a compile-time typed accessor for State.
type Port[T any] struct {
	// Action, when set, reads from that predecessor's outputs instead of the
	// action's own data.
	Action string
	Key    string
}

func (p Port[T]) lookup(state *State) (any, bool) {
	if p.Action == "" {
		return state.Get(p.Key)
	}
	out, ok := state.Output(p.Action)
	if !ok {
		return nil, false
	}
	v, ok := out[p.Key]
	return v, ok
}

func (p Port[T]) String() string {
	if p.Action == "" {
		return p.Key
	}
	return p.Action + "." + p.Key
}

// Read retrieves a typed value from state using a Port.
// Returns an error if the key is missing or the type doesn't match.
func Read[T any](state *State, port Port[T]) (T, error) {
	var zero T
	raw, ok := port.lookup(state)
	if !ok {
		return zero, fmt.Errorf("flow: data key %q not found", port)
	}
	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("flow: data key %q: expected %T, got %T", port, zero, raw)
	}
	return val, nil
}

// Write stores a typed output using a Port. The port's Action is ignored;
// an action only writes its own outputs.
func Write[T any](state *State, port Port[T], value T) {
	state.Set(port.Key, value)
}
