package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// joinNetworkState issues the ADP join primitive for the PAN
// DiscoverNetwork selected. The actual LBP/EAP-PSK exchange runs
// outside the state machine, driven by LBP events and responses in
// the Manager's main loop; this state only tracks the resulting
// NetworkJoinConfirm.
type joinNetworkState struct{}

func newJoinNetworkState() *joinNetworkState {
	return &joinNetworkState{}
}

func (s *joinNetworkState) OnEnter(cs CommandSender, ctx *Context) Response {
	log.Printf("appmanager: JoinNetwork - joining PAN 0x%04x via LBA 0x%02x", ctx.PendingPANId, ctx.PendingLBA)
	cs.SendCmd(usi.UsiOut(adp.EncodeNetworkJoin(ctx.PendingPANId, ctx.PendingLBA)))
	return Handled()
}

func (s *joinNetworkState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.NetworkJoinConfirm)
	if !ok {
		return Handled()
	}
	if confirm.Status != adp.StatusOK {
		log.Printf("appmanager: JoinNetwork - join failed, status=%v, retrying discovery", confirm.Status)
		return Transition(DiscoverNetwork)
	}
	return Transition(Ready)
}

func (s *joinNetworkState) OnExit(ctx *Context) {}
