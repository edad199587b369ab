// Package appmanager is the concrete application state machine that
// drives the modem through its initialization lifecycle and routes
// decoded frames to the LBP handler and network manager.
package appmanager

import (
	"time"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/statemachine"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// Command is what a state sends through its CommandSender: an
// outbound USI message destined for the Port's TX loop.
type Command = usi.Message

// State is one node of the application lifecycle.
type State int

const (
	Idle State = iota
	StackInitialize
	SetParams
	GetParams
	JoinNetwork
	StartNetwork
	Ready
	DiscoverNetwork
	NetworkDiscoverFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case StackInitialize:
		return "StackInitialize"
	case SetParams:
		return "SetParams"
	case GetParams:
		return "GetParams"
	case JoinNetwork:
		return "JoinNetwork"
	case StartNetwork:
		return "StartNetwork"
	case Ready:
		return "Ready"
	case DiscoverNetwork:
		return "DiscoverNetwork"
	case NetworkDiscoverFailed:
		return "NetworkDiscoverFailed"
	default:
		return "Unknown"
	}
}

// ExtendedAddress is the modem's 8-byte EUI-64 extended address, read
// back during GetParams and stashed in Context for the bootstrap
// states to use.
type ExtendedAddress [8]byte

// Context is the state machine's shared scratch, mutated only from
// within a state callback (at most one state executes at a time).
type Context struct {
	IsCoordinator bool
	ExtendedAddr  *ExtendedAddress

	// PendingPANId/PendingLBA are the network DiscoverNetwork chose
	// and JoinNetwork is in the process of joining.
	PendingPANId uint16
	PendingLBA   uint8
}

// Event is the sum type of inputs the App Manager dispatches into the
// state machine.
type Event interface {
	isEvent()
}

// AdpEvent wraps a decoded ADP message.
type AdpEvent struct {
	Msg adp.Message
}

func (AdpEvent) isEvent() {}

// HeartBeatEvent is a periodic external timer tick.
type HeartBeatEvent struct {
	Time time.Time
}

func (HeartBeatEvent) isEvent() {}

// StartupEvent is the one-shot boot signal.
type StartupEvent struct{}

func (StartupEvent) isEvent() {}

// Response/Transition/Handled are re-exported so state files don't
// need to import the runtime package directly for these.
type Response = statemachine.Response[State]

func Handled() Response {
	return statemachine.Handled[State]()
}

func Transition(s State) Response {
	return statemachine.Transition[State](s)
}

// Stateful is the per-state behavior contract, parameterised with
// this package's concrete State/Context types and the USI command
// type the states send.
type Stateful = statemachine.Stateful[State, Command, Context]

// CommandSender is the capability passed into every state callback.
type CommandSender = statemachine.CommandSender[Command]
