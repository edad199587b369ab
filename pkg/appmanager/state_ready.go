package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
)

// readyState is operational: data frames are left to the network
// manager (the Manager forwards them after dispatching to the state
// machine), and status events are observed but otherwise ignored.
//
// reinitializeOnHeartbeat optionally re-enters StackInitialize, forcing
// is_coordinator true, on the next heartbeat. This looks like a
// debugging aid rather than something a deployed adapter wants, so it
// defaults off and is only switched on by the -reinit-on-heartbeat
// flag of cmd/g3usi-adapter.
type readyState struct {
	reinitializeOnHeartbeat bool
}

func newReadyState(reinitializeOnHeartbeat bool) *readyState {
	return &readyState{reinitializeOnHeartbeat: reinitializeOnHeartbeat}
}

func (s *readyState) OnEnter(cs CommandSender, ctx *Context) Response {
	log.Printf("appmanager: Ready")
	return Handled()
}

func (s *readyState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	switch ev := event.(type) {
	case AdpEvent:
		if _, ok := ev.Msg.(adp.StatusEvent); ok {
			return Handled()
		}
		return Handled()
	case HeartBeatEvent:
		if s.reinitializeOnHeartbeat {
			ctx.IsCoordinator = true
			return Transition(StackInitialize)
		}
		return Handled()
	default:
		return Handled()
	}
}

func (s *readyState) OnExit(ctx *Context) {}
