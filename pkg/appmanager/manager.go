package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/bridge/lbp"
	"github.com/nano-e/g3usi-adapter/pkg/statemachine"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// NetworkSink is the collaborator every ADP message other than LBP
// traffic is forwarded to: the network manager bridge.
type NetworkSink interface {
	Forward(msg adp.Message)
}

// commandSenderAdapter lets a usi.Sender (the Port) satisfy the
// generic statemachine.CommandSender capability the states use.
type commandSenderAdapter struct {
	sender usi.Sender
}

func (a commandSenderAdapter) SendCmd(cmd Command) bool {
	return a.sender.SendCmd(cmd)
}

// Manager owns the state machine, the LBP handler, and the wiring
// between the Port's decoded-frame listener channel, the state
// machine, the LBP handler and the network manager.
type Manager struct {
	sm         *statemachine.StateMachine[State, Command, Context]
	sender     usi.Sender
	lbpHandler *lbp.Handler
	netSink    NetworkSink
}

// Options configures a Manager at construction time.
type Options struct {
	IsCoordinator           bool
	ReinitializeOnHeartbeat bool
}

// New builds a Manager wired to sender for outbound USI frames and
// netSink for non-LBP ADP traffic, starting in Idle.
func New(sender usi.Sender, netSink NetworkSink, opts Options) *Manager {
	sm := statemachine.New[State, Command, Context](Idle, commandSenderAdapter{sender}, Context{
		IsCoordinator: opts.IsCoordinator,
	})
	sm.AddState(Idle, newIdleState())
	sm.AddState(StackInitialize, newStackInitializeState())
	sm.AddState(SetParams, newSetParamsState())
	sm.AddState(GetParams, newGetParamsState())
	sm.AddState(JoinNetwork, newJoinNetworkState())
	sm.AddState(StartNetwork, newStartNetworkState())
	sm.AddState(Ready, newReadyState(opts.ReinitializeOnHeartbeat))
	sm.AddState(DiscoverNetwork, newDiscoverNetworkState())
	sm.AddState(NetworkDiscoverFailed, newNetworkDiscoverFailedState())

	return &Manager{
		sm:         sm,
		sender:     sender,
		lbpHandler: lbp.New(),
		netSink:    netSink,
	}
}

// Current reports the state machine's current state, mainly for
// tests and diagnostics.
func (m *Manager) Current() State {
	return m.sm.Current()
}

// Run consumes decoded USI messages from in until it is closed,
// classifying each and driving the state machine, LBP handler and
// network manager accordingly. Intended to run in its own goroutine.
func (m *Manager) Run(in <-chan usi.Message) {
	log.Printf("appmanager: started")
	for msg := range in {
		m.handle(msg)
	}
}

// handle classifies and dispatches a single inbound USI message. It
// is exported via Run's loop but kept separate so tests can drive one
// message at a time without a channel.
func (m *Manager) handle(msg usi.Message) {
	switch msg.Kind {
	case usi.KindUsiIn:
		m.handleUsiIn(msg)
	case usi.KindHeartBeat:
		m.sm.ProcessEvent(HeartBeatEvent{Time: msg.Time})
	case usi.KindSystemStartup:
		m.sm.ProcessEvent(StartupEvent{})
	}
}

func (m *Manager) handleUsiIn(msg usi.Message) {
	adpMsg, ok := adp.DecodeUSIMessage(msg.In)
	if !ok {
		return
	}

	m.sm.ProcessEvent(AdpEvent{Msg: adpMsg})

	switch ev := adpMsg.(type) {
	case adp.LbpEvent:
		lbpMsg, ok := lbp.Decode(ev.Payload)
		if !ok {
			return
		}
		log.Printf("appmanager: received lbp event %+v", lbpMsg)
		if reply, ok := m.lbpHandler.ProcessMsg(lbpMsg); ok {
			m.sender.SendCmd(usi.UsiOut(adp.EncodeLbpRequest(reply)))
		}
	case adp.LbpResponse:
		m.lbpHandler.ProcessResponse(byte(ev.Status))
	default:
		if m.netSink != nil {
			m.netSink.Forward(adpMsg)
		}
	}
}
