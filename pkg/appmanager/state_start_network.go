package appmanager

import (
	"log"

	"github.com/nano-e/g3usi-adapter/pkg/bridge/adp"
	"github.com/nano-e/g3usi-adapter/pkg/usi"
)

// defaultPANId is the PAN identifier a coordinator allocates for the
// network it starts. A real deployment would source this from
// configuration; a fixed default keeps the lifecycle self-contained.
const defaultPANId uint16 = 0x781D

// startNetworkState is the coordinator's bootstrap path: allocate a
// PAN and start the network.
type startNetworkState struct{}

func newStartNetworkState() *startNetworkState {
	return &startNetworkState{}
}

func (s *startNetworkState) OnEnter(cs CommandSender, ctx *Context) Response {
	log.Printf("appmanager: StartNetwork - starting PAN 0x%04x", defaultPANId)
	cs.SendCmd(usi.UsiOut(adp.EncodeNetworkStart(defaultPANId)))
	return Handled()
}

func (s *startNetworkState) OnEvent(cs CommandSender, event any, ctx *Context) Response {
	ev, ok := event.(AdpEvent)
	if !ok {
		return Handled()
	}
	confirm, ok := ev.Msg.(adp.NetworkStartConfirm)
	if !ok {
		return Handled()
	}
	if confirm.Status != adp.StatusOK {
		log.Printf("appmanager: StartNetwork - failed to start, status=%v", confirm.Status)
		return Handled()
	}
	return Transition(Ready)
}

func (s *startNetworkState) OnExit(ctx *Context) {}
