// Package statemachine is a small, generic table-driven FSM runtime:
// a state registry, event dispatch, entry/exit hooks, and a re-entry
// loop that lets a state chain immediately into another without
// consuming an external event.
package statemachine

import "log"

// Response is returned by a state's OnEnter/OnEvent: either stay put
// (Handled) or move to another state (Transition).
type Response[S any] struct {
	transition bool
	next       S
}

// Handled reports that the event was consumed without a transition.
func Handled[S any]() Response[S] {
	return Response[S]{}
}

// Transition requests a move to state s.
func Transition[S any](s S) Response[S] {
	return Response[S]{transition: true, next: s}
}

// CommandSender is the capability a state uses to emit outbound
// commands while handling an event.
type CommandSender[C any] interface {
	SendCmd(cmd C) bool
}

// Stateful is one state's behavior. OnEnter/OnEvent/OnExit receive the
// command sender and a mutable pointer to the shared context; at most
// one state executes at a time, so the context is never aliased
// concurrently.
type Stateful[S any, C any, CTX any] interface {
	OnEnter(cs CommandSender[C], ctx *CTX) Response[S]
	OnEvent(cs CommandSender[C], event any, ctx *CTX) Response[S]
	OnExit(ctx *CTX)
}

// StateMachine holds the registry, current state tag, command sender
// and shared context. States are registered once via AddState before
// the first event is dispatched and never mutated afterwards.
type StateMachine[S comparable, C any, CTX any] struct {
	states       map[S]Stateful[S, C, CTX]
	currentState S
	sender       CommandSender[C]
	context      CTX
}

// New constructs a state machine starting in initialState, with no
// states registered yet.
func New[S comparable, C any, CTX any](initialState S, sender CommandSender[C], context CTX) *StateMachine[S, C, CTX] {
	return &StateMachine[S, C, CTX]{
		states:       make(map[S]Stateful[S, C, CTX]),
		currentState: initialState,
		sender:       sender,
		context:      context,
	}
}

// AddState registers the handler for state s. Must be called before
// the first ProcessEvent.
func (sm *StateMachine[S, C, CTX]) AddState(s S, state Stateful[S, C, CTX]) {
	sm.states[s] = state
}

// Current reports the current state tag.
func (sm *StateMachine[S, C, CTX]) Current() S {
	return sm.currentState
}

// Context returns a pointer to the shared context, for callers that
// need to seed or inspect it outside of a state callback (e.g. tests).
func (sm *StateMachine[S, C, CTX]) Context() *CTX {
	return &sm.context
}

// Start runs OnEnter for the initial state, allowing it to chain
// immediately into further states exactly as a Transition response
// would mid-dispatch. Call once before feeding events.
func (sm *StateMachine[S, C, CTX]) Start() {
	sm.enterLoop()
}

// ProcessEvent dispatches event to the current state's OnEvent. A
// Transition to a different state triggers OnExit on the state being
// left (exactly once) followed by the re-entry loop on the new state.
// A Transition to the same state is treated as Handled.
func (sm *StateMachine[S, C, CTX]) ProcessEvent(event any) {
	st, ok := sm.states[sm.currentState]
	if !ok {
		log.Printf("statemachine: dropping event, unknown state %v", sm.currentState)
		return
	}

	resp := st.OnEvent(sm.sender, event, &sm.context)
	if !resp.transition {
		return
	}
	if resp.next == sm.currentState {
		return
	}

	st.OnExit(&sm.context)
	sm.currentState = resp.next
	sm.enterLoop()
}

// enterLoop calls OnEnter on the current state; a Transition to a
// different, registered state repeats the loop without consuming an
// external event and without calling OnExit between chained entries.
// A Transition to an unregistered state breaks the loop with a
// warning, leaving currentState pointing at the missing tag.
func (sm *StateMachine[S, C, CTX]) enterLoop() {
	for {
		st, ok := sm.states[sm.currentState]
		if !ok {
			log.Printf("statemachine: failed to find state %v", sm.currentState)
			return
		}
		resp := st.OnEnter(sm.sender, &sm.context)
		if !resp.transition || resp.next == sm.currentState {
			return
		}
		sm.currentState = resp.next
	}
}
